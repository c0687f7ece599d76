// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/ports"
	"go.uber.org/zap"
)

// FocusCompletion is emitted once when a focus session runs to the end.
type FocusCompletion struct {
	Minutes  int
	Segments int
}

// FocusService drives a segmented focus session from a clock.
type FocusService struct {
	mu        sync.Mutex
	clock     ports.Clock
	logger    *zap.Logger
	session   *domain.FocusSession
	ticker    ports.Handle
	gen       uint64
	listeners []func(FocusCompletion)
}

// NewFocusService creates a paused focus session of the given length.
func NewFocusService(clock ports.Clock, minutes int, logger *zap.Logger) *FocusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FocusService{
		clock:   clock,
		logger:  logger.Named("focus"),
		session: domain.NewFocusSession(minutes),
	}
}

// OnSessionComplete registers fn to be called after a session finishes.
// Callbacks run on the clock's goroutine without the service lock held.
func (s *FocusService) OnSessionComplete(fn func(FocusCompletion)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Configure resizes the session. It fails once the session has been started.
func (s *FocusService) Configure(minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Configure(minutes); err != nil {
		return fmt.Errorf("cannot configure focus session: %w", err)
	}
	s.stopTicker()
	s.logger.Debug("configured", zap.Int("minutes", minutes), zap.Int("segments", len(s.session.Segments)))
	return nil
}

// Start begins or resumes counting down. It reports whether anything changed.
func (s *FocusService) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Start() {
		return false
	}
	s.stopTicker()
	gen := s.gen
	s.ticker = s.clock.ScheduleRepeating(time.Second, func() { s.tick(gen) })
	s.logger.Info("started",
		zap.Int("active_segment", s.session.ActiveIndex),
		zap.Duration("remaining", s.session.Remaining()))
	return true
}

// Pause stops counting down and keeps the remaining time.
func (s *FocusService) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Pause() {
		return false
	}
	s.stopTicker()
	s.logger.Info("paused", zap.Duration("remaining", s.session.Remaining()))
	return true
}

// Reset restores every segment and pauses.
func (s *FocusService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTicker()
	s.session.Reset()
	s.logger.Info("reset", zap.Int("minutes", s.session.DurationMinutes))
}

// Dismiss acknowledges the completion dialog and resets the session.
func (s *FocusService) Dismiss() {
	s.Reset()
}

// Snapshot returns a copy of the current session state.
func (s *FocusService) Snapshot() domain.FocusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Snapshot()
}

func (s *FocusService) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}

	var completion *FocusCompletion
	var listeners []func(FocusCompletion)

	switch s.session.Tick() {
	case domain.FocusEventSegmentComplete:
		s.logger.Debug("segment complete", zap.Int("next_segment", s.session.ActiveIndex))
	case domain.FocusEventSessionComplete:
		s.stopTicker()
		completion = &FocusCompletion{
			Minutes:  s.session.DurationMinutes,
			Segments: len(s.session.Segments),
		}
		listeners = append(listeners, s.listeners...)
		s.logger.Info("session complete", zap.Int("minutes", completion.Minutes))
	}
	s.mu.Unlock()

	if completion == nil {
		return
	}
	for _, fn := range listeners {
		fn(*completion)
	}
}

// stopTicker cancels the tick handle and invalidates callbacks already in flight.
// Callers must hold s.mu.
func (s *FocusService) stopTicker() {
	if s.ticker != nil {
		s.ticker.Cancel()
		s.ticker = nil
	}
	s.gen++
}
