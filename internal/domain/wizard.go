// Package domain contains the core entities of the study preparation wizard:
// the step navigator, the segmented focus timer and the breathing exercise.
// These types hold state and rules only; scheduling lives in the services layer.
package domain

// StepKind identifies which screen renders a wizard step.
type StepKind string

const (
	StepGoals         StepKind = "goals"
	StepBreathing     StepKind = "breathing"
	StepVisualization StepKind = "visualization"
	StepAffirmations  StepKind = "affirmations"
	StepFinal         StepKind = "final"
)

// Step is one screen of the wizard.
type Step struct {
	Name string
	Kind StepKind
}

// DefaultSteps returns the standard five-step preparation flow.
func DefaultSteps() []Step {
	return []Step{
		{Name: "Environment & Goals", Kind: StepGoals},
		{Name: "Deep Breathing", Kind: StepBreathing},
		{Name: "Positive Visualization", Kind: StepVisualization},
		{Name: "Positive Self-Talk", Kind: StepAffirmations},
		{Name: "Final Preparation", Kind: StepFinal},
	}
}

// Navigator walks an ordered, fixed list of steps.
type Navigator struct {
	steps    []Step
	current  int
	progress float64
}

// NewNavigator creates a navigator positioned on the first step.
func NewNavigator(steps []Step) (*Navigator, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	owned := make([]Step, len(steps))
	copy(owned, steps)
	n := &Navigator{steps: owned}
	n.recompute()
	return n, nil
}

// Advance moves to the next step. It is a no-op on the last step.
func (n *Navigator) Advance() {
	if n.current < len(n.steps)-1 {
		n.current++
		n.recompute()
	}
}

// Retreat moves to the previous step. It is a no-op on the first step.
func (n *Navigator) Retreat() {
	if n.current > 0 {
		n.current--
		n.recompute()
	}
}

func (n *Navigator) recompute() {
	n.progress = Progress(n.current, len(n.steps))
}

// CurrentIndex returns the zero-based index of the visible step.
func (n *Navigator) CurrentIndex() int { return n.current }

// Current returns the visible step.
func (n *Navigator) Current() Step { return n.steps[n.current] }

// StepCount returns the number of steps.
func (n *Navigator) StepCount() int { return len(n.steps) }

// Steps returns a copy of the step list.
func (n *Navigator) Steps() []Step {
	out := make([]Step, len(n.steps))
	copy(out, n.steps)
	return out
}

// IsFirst reports whether the navigator is on the first step.
func (n *Navigator) IsFirst() bool { return n.current == 0 }

// IsLast reports whether the navigator is on the last step.
func (n *Navigator) IsLast() bool { return n.current == len(n.steps)-1 }

// Progress returns the completion percentage (0 to 100) for the current step.
func (n *Navigator) Progress() float64 { return n.progress }

// Progress maps a step index to a percentage of the way through total steps.
// A single-step wizard is always at 0.
func Progress(index, total int) float64 {
	if total <= 1 {
		return 0
	}
	if index < 0 {
		index = 0
	}
	if index > total-1 {
		index = total - 1
	}
	return float64(index) / float64(total-1) * 100
}
