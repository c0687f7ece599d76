package domain

import "time"

// BreathingPhase is a stage of the breathing exercise.
type BreathingPhase string

const (
	PhaseIdle      BreathingPhase = "idle"
	PhaseSentences BreathingPhase = "sentences"
	PhaseAnimation BreathingPhase = "animation"
	PhaseCompleted BreathingPhase = "completed"
	PhaseEnding    BreathingPhase = "ending"
)

// Label returns a human-readable name for the phase.
func (p BreathingPhase) Label() string {
	switch p {
	case PhaseIdle:
		return "Ready"
	case PhaseSentences:
		return "Settling in"
	case PhaseAnimation:
		return "Breathing"
	case PhaseCompleted:
		return "Complete"
	case PhaseEnding:
		return "Well done"
	default:
		return "Unknown"
	}
}

// BreathingConfig holds the fixed timing and text of the exercise.
type BreathingConfig struct {
	Sentences         []string
	ClosingLine       string
	SentenceDisplay   time.Duration
	Fade              time.Duration
	CompletionDisplay time.Duration
	EndingFade        time.Duration
	Durations         []int
}

// DefaultBreathingConfig returns the standard exercise settings.
func DefaultBreathingConfig() BreathingConfig {
	return BreathingConfig{
		Sentences: []string{
			"Notice your breath. No need to change it, just be aware of it.",
			"Feel the air enter your nose, pass your throat and fill your lungs.",
		},
		ClosingLine:       "You did great",
		SentenceDisplay:   5 * time.Second,
		Fade:              time.Second,
		CompletionDisplay: 3 * time.Second,
		EndingFade:        3 * time.Second,
		Durations:         []int{120, 180, 240},
	}
}

// SentencePhaseDuration is how long the sentence phase lasts before the animation.
func (c BreathingConfig) SentencePhaseDuration() time.Duration {
	return time.Duration(len(c.Sentences)) * c.SentenceDisplay
}

// EndingDuration is how long the closing line stays before the exercise resets.
func (c BreathingConfig) EndingDuration() time.Duration {
	return c.CompletionDisplay + c.EndingFade
}

// AllowsDuration reports whether seconds is one of the selectable durations.
func (c BreathingConfig) AllowsDuration(seconds int) bool {
	for _, d := range c.Durations {
		if d == seconds {
			return true
		}
	}
	return false
}

// BreathingSession is the state of one breathing exercise.
type BreathingSession struct {
	Phase            BreathingPhase
	SelectedSeconds  int
	RemainingSeconds int
	SentenceIndex    int
	SentenceVisible  bool
}

// NewBreathingSession creates an idle session preselecting the first allowed duration.
func NewBreathingSession(cfg BreathingConfig) *BreathingSession {
	selected := 120
	if len(cfg.Durations) > 0 {
		selected = cfg.Durations[0]
	}
	return &BreathingSession{
		Phase:            PhaseIdle,
		SelectedSeconds:  selected,
		RemainingSeconds: selected,
	}
}

// Active reports whether an exercise is in progress.
func (s *BreathingSession) Active() bool {
	return s.Phase != PhaseIdle
}

// SelectDuration picks a new exercise length. Only allowed while idle.
func (s *BreathingSession) SelectDuration(cfg BreathingConfig, seconds int) bool {
	if s.Active() || !cfg.AllowsDuration(seconds) {
		return false
	}
	s.SelectedSeconds = seconds
	s.RemainingSeconds = seconds
	return true
}

// Start begins the exercise with the given length. Only allowed while idle.
func (s *BreathingSession) Start(cfg BreathingConfig, seconds int) bool {
	if s.Active() || !cfg.AllowsDuration(seconds) {
		return false
	}
	s.SelectedSeconds = seconds
	s.RemainingSeconds = seconds
	s.SentenceIndex = 0
	s.SentenceVisible = false
	s.Phase = PhaseSentences
	return true
}

// Tick counts one second down. When the overall time runs out the session is
// forced into the completed phase whatever phase it was in; Tick reports that.
func (s *BreathingSession) Tick() bool {
	if !s.Active() || s.RemainingSeconds == 0 {
		return false
	}
	s.RemainingSeconds--
	if s.RemainingSeconds > 0 {
		return false
	}
	s.Phase = PhaseCompleted
	s.SentenceVisible = false
	return true
}

// ShowSentence displays sentence i during the sentence phase.
func (s *BreathingSession) ShowSentence(i int) bool {
	if s.Phase != PhaseSentences {
		return false
	}
	s.SentenceIndex = i
	s.SentenceVisible = true
	return true
}

// HideSentence starts the fade-out of the current sentence.
func (s *BreathingSession) HideSentence() {
	if s.Phase == PhaseSentences {
		s.SentenceVisible = false
	}
}

// EnterAnimation ends the sentence phase.
func (s *BreathingSession) EnterAnimation() bool {
	if s.Phase != PhaseSentences {
		return false
	}
	s.Phase = PhaseAnimation
	s.SentenceVisible = false
	return true
}

// EnterEnding moves from the completed fade to the closing line.
func (s *BreathingSession) EnterEnding() bool {
	if s.Phase != PhaseCompleted {
		return false
	}
	s.Phase = PhaseEnding
	return true
}

// Reset returns to idle with the full selected duration.
func (s *BreathingSession) Reset() {
	s.Phase = PhaseIdle
	s.RemainingSeconds = s.SelectedSeconds
	s.SentenceIndex = 0
	s.SentenceVisible = false
}

// Progress returns the fraction of the exercise still remaining.
func (s BreathingSession) Progress() float64 {
	if s.SelectedSeconds == 0 {
		return 0
	}
	return float64(s.RemainingSeconds) / float64(s.SelectedSeconds)
}
