package services

import (
	"sync"
	"time"

	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/ports"
	"go.uber.org/zap"
)

// BreathingCompletion is emitted when the exercise time runs out.
type BreathingCompletion struct {
	Seconds int
}

// BreathingSnapshot is a read-only view of the exercise for rendering.
type BreathingSnapshot struct {
	domain.BreathingSession
	Sentence    string
	ClosingLine string
	Durations   []int
}

// BreathingService drives the breathing exercise phases from a clock.
type BreathingService struct {
	mu        sync.Mutex
	clock     ports.Clock
	logger    *zap.Logger
	cfg       domain.BreathingConfig
	session   *domain.BreathingSession
	gen       uint64
	ticker    ports.Handle
	phase     ports.Handle
	sentences []ports.Handle
	listeners []func(BreathingCompletion)
}

// NewBreathingService creates an idle exercise.
func NewBreathingService(clock ports.Clock, cfg domain.BreathingConfig, logger *zap.Logger) *BreathingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreathingService{
		clock:   clock,
		logger:  logger.Named("breathing"),
		cfg:     cfg,
		session: domain.NewBreathingSession(cfg),
	}
}

// OnComplete registers fn to be called when the exercise time runs out.
func (s *BreathingService) OnComplete(fn func(BreathingCompletion)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SelectDuration changes the exercise length while idle.
func (s *BreathingService) SelectDuration(seconds int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SelectDuration(s.cfg, seconds)
}

// Start begins an exercise of the given length. Ignored unless idle.
func (s *BreathingService) Start(seconds int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Start(s.cfg, seconds) {
		return false
	}
	s.cancelAll()
	gen := s.gen

	s.ticker = s.clock.ScheduleRepeating(time.Second, func() { s.tick(gen) })
	for i := range s.cfg.Sentences {
		i := i
		at := time.Duration(i) * s.cfg.SentenceDisplay
		s.sentences = append(s.sentences,
			s.clock.ScheduleOnce(at, func() { s.showSentence(gen, i) }),
			s.clock.ScheduleOnce(at+s.cfg.SentenceDisplay-s.cfg.Fade, func() { s.hideSentence(gen) }),
		)
	}
	s.phase = s.clock.ScheduleOnce(s.cfg.SentencePhaseDuration(), func() { s.enterAnimation(gen) })

	s.logger.Info("started", zap.Int("seconds", seconds))
	return true
}

// Toggle starts the selected exercise when idle and stops it otherwise.
func (s *BreathingService) Toggle() {
	s.mu.Lock()
	active := s.session.Active()
	selected := s.session.SelectedSeconds
	s.mu.Unlock()

	if active {
		s.Stop()
		return
	}
	s.Start(selected)
}

// Stop cancels every pending timer and returns to idle immediately.
func (s *BreathingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.session.Active()
	s.cancelAll()
	s.session.Reset()
	if active {
		s.logger.Info("stopped")
	}
}

// Snapshot returns a copy of the current exercise state.
func (s *BreathingService) Snapshot() BreathingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := BreathingSnapshot{
		BreathingSession: *s.session,
		ClosingLine:      s.cfg.ClosingLine,
		Durations:        append([]int(nil), s.cfg.Durations...),
	}
	if i := s.session.SentenceIndex; i >= 0 && i < len(s.cfg.Sentences) {
		snap.Sentence = s.cfg.Sentences[i]
	}
	return snap
}

// Config returns the exercise configuration.
func (s *BreathingService) Config() domain.BreathingConfig {
	return s.cfg
}

func (s *BreathingService) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if !s.session.Tick() {
		s.mu.Unlock()
		return
	}

	// Time is up whatever phase we were in.
	s.cancelAll()
	gen = s.gen
	s.phase = s.clock.ScheduleOnce(s.cfg.Fade, func() { s.enterEnding(gen) })

	completion := BreathingCompletion{Seconds: s.session.SelectedSeconds}
	listeners := append([]func(BreathingCompletion){}, s.listeners...)
	s.logger.Info("completed", zap.Int("seconds", completion.Seconds))
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(completion)
	}
}

func (s *BreathingService) showSentence(gen uint64, i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.session.ShowSentence(i)
	}
}

func (s *BreathingService) hideSentence(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.session.HideSentence()
	}
}

func (s *BreathingService) enterAnimation(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.phase = nil
	if s.session.EnterAnimation() {
		s.logger.Debug("animation phase")
	}
}

func (s *BreathingService) enterEnding(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.session.EnterEnding() {
		return
	}
	s.phase = s.clock.ScheduleOnce(s.cfg.EndingDuration(), func() { s.finish(gen) })
}

func (s *BreathingService) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.phase = nil
	s.session.Reset()
	s.gen++
	s.logger.Debug("back to idle")
}

// cancelAll cancels every owned handle and invalidates in-flight callbacks.
// Callers must hold s.mu.
func (s *BreathingService) cancelAll() {
	if s.ticker != nil {
		s.ticker.Cancel()
		s.ticker = nil
	}
	if s.phase != nil {
		s.phase.Cancel()
		s.phase = nil
	}
	for _, h := range s.sentences {
		h.Cancel()
	}
	s.sentences = nil
	s.gen++
}
