package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// SegmentSeconds is the fixed length of every focus segment.
	SegmentSeconds = 300

	// MinFocusMinutes is the shortest focus session accepted at the input boundary.
	MinFocusMinutes = 5

	segmentMinutes = SegmentSeconds / 60
)

// FocusEvent reports what a tick did to a focus session.
type FocusEvent int

const (
	FocusEventNone FocusEvent = iota
	FocusEventSegmentComplete
	FocusEventSessionComplete
)

// TimerSegment is one fixed-length countdown inside a focus session.
type TimerSegment struct {
	TotalSeconds     int
	RemainingSeconds int
}

// Done reports whether the segment has counted down to zero.
func (s TimerSegment) Done() bool { return s.RemainingSeconds == 0 }

// Progress returns the fraction of the segment still remaining (1.0 when untouched).
func (s TimerSegment) Progress() float64 {
	if s.TotalSeconds == 0 {
		return 0
	}
	return float64(s.RemainingSeconds) / float64(s.TotalSeconds)
}

// FocusSession runs a sequence of segments back to back as one session.
// Segments before ActiveIndex are always at zero.
type FocusSession struct {
	Segments        []TimerSegment
	ActiveIndex     int
	Paused          bool
	Finished        bool
	DurationMinutes int

	started bool
}

// FocusSnapshot is a read-only copy of a focus session for rendering.
type FocusSnapshot struct {
	Segments        []TimerSegment
	ActiveIndex     int
	Paused          bool
	Finished        bool
	Started         bool
	DurationMinutes int
}

// SegmentCount returns how many segments a session of the given length needs.
func SegmentCount(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + segmentMinutes - 1) / segmentMinutes
}

// NormalizeFocusMinutes rounds to the nearest multiple of five (halves round up)
// and enforces the minimum session length.
func NormalizeFocusMinutes(minutes float64) int {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return MinFocusMinutes
	}
	rounded := int(math.Floor(minutes/segmentMinutes+0.5)) * segmentMinutes
	if rounded < MinFocusMinutes {
		return MinFocusMinutes
	}
	return rounded
}

// ParseFocusMinutes normalizes free-form duration input. Anything that is not
// a number falls back to the minimum.
func ParseFocusMinutes(input string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return MinFocusMinutes
	}
	return NormalizeFocusMinutes(v)
}

// NewFocusSession creates a paused session sized for the given duration.
func NewFocusSession(minutes int) *FocusSession {
	s := &FocusSession{}
	s.build(minutes)
	return s
}

func (s *FocusSession) build(minutes int) {
	count := SegmentCount(minutes)
	s.Segments = make([]TimerSegment, count)
	for i := range s.Segments {
		s.Segments[i] = TimerSegment{TotalSeconds: SegmentSeconds, RemainingSeconds: SegmentSeconds}
	}
	s.DurationMinutes = minutes
	s.ActiveIndex = 0
	s.Paused = true
	s.Finished = false
	s.started = false
}

// Configure rebuilds the segments for a new duration. It is only allowed before
// the session has been started since the last reset.
func (s *FocusSession) Configure(minutes int) error {
	if !s.Paused {
		return ErrFocusRunning
	}
	if s.started {
		return ErrFocusStarted
	}
	s.build(minutes)
	return nil
}

// Start resumes counting down. It reports whether the session changed state.
func (s *FocusSession) Start() bool {
	if !s.Paused || s.Finished || len(s.Segments) == 0 {
		return false
	}
	s.Paused = false
	s.started = true
	return true
}

// Pause stops counting down, keeping the remaining time of the active segment.
func (s *FocusSession) Pause() bool {
	if s.Paused {
		return false
	}
	s.Paused = true
	return true
}

// Reset restores every segment to full length and pauses the session.
func (s *FocusSession) Reset() {
	s.build(s.DurationMinutes)
}

// Running reports whether ticks should currently be applied.
func (s *FocusSession) Running() bool {
	return !s.Paused && !s.Finished
}

// Tick applies one second to the active segment.
func (s *FocusSession) Tick() FocusEvent {
	if !s.Running() || s.ActiveIndex >= len(s.Segments) {
		return FocusEventNone
	}
	seg := &s.Segments[s.ActiveIndex]
	if seg.RemainingSeconds > 0 {
		seg.RemainingSeconds--
	}
	if seg.RemainingSeconds > 0 {
		return FocusEventNone
	}
	if s.ActiveIndex < len(s.Segments)-1 {
		s.ActiveIndex++
		return FocusEventSegmentComplete
	}
	s.Paused = true
	s.Finished = true
	return FocusEventSessionComplete
}

// Remaining returns the time left across all segments.
func (s *FocusSession) Remaining() time.Duration {
	total := 0
	for _, seg := range s.Segments {
		total += seg.RemainingSeconds
	}
	return time.Duration(total) * time.Second
}

// Snapshot copies the session state.
func (s *FocusSession) Snapshot() FocusSnapshot {
	segs := make([]TimerSegment, len(s.Segments))
	copy(segs, s.Segments)
	return FocusSnapshot{
		Segments:        segs,
		ActiveIndex:     s.ActiveIndex,
		Paused:          s.Paused,
		Finished:        s.Finished,
		Started:         s.started,
		DurationMinutes: s.DurationMinutes,
	}
}

// Running reports whether the snapshot was taken while counting down.
func (f FocusSnapshot) Running() bool {
	return !f.Paused && !f.Finished
}

// Remaining returns the time left across all segments of the snapshot.
func (f FocusSnapshot) Remaining() time.Duration {
	total := 0
	for _, seg := range f.Segments {
		total += seg.RemainingSeconds
	}
	return time.Duration(total) * time.Second
}

// Progress returns the elapsed fraction of the whole session (0.0 to 1.0).
func (f FocusSnapshot) Progress() float64 {
	if len(f.Segments) == 0 {
		return 0
	}
	total := len(f.Segments) * SegmentSeconds
	return 1 - f.Remaining().Seconds()/float64(total)
}
