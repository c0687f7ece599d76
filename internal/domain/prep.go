package domain

import (
	"math/rand"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ItemSource records why an environment item is on the checklist.
type ItemSource string

const (
	SourceDefault   ItemSource = "default"
	SourceGoal      ItemSource = "goal"
	SourceWorkspace ItemSource = "workspace"
)

// Goal is one thing the user wants to get done in this study session.
type Goal struct {
	ID   string
	Text string
}

// Affirmation is an encouraging line written by the user.
type Affirmation struct {
	ID   string
	Text string
}

// EnvironmentItem is a checklist entry for preparing the study space.
type EnvironmentItem struct {
	ID      string
	Text    string
	Checked bool
	Source  ItemSource
}

// Summary is what the final preparation screen shows.
type Summary struct {
	Goals        []Goal
	Affirmations []Affirmation
}

// NewGoal creates a goal from user input.
func NewGoal(text string) (*Goal, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	return &Goal{ID: generateID(), Text: text}, nil
}

// NewAffirmation creates an affirmation from user input.
func NewAffirmation(text string) (*Affirmation, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	return &Affirmation{ID: generateID(), Text: text}, nil
}

// NewEnvironmentItem creates an unchecked checklist item.
func NewEnvironmentItem(text string, source ItemSource) (*EnvironmentItem, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	return &EnvironmentItem{ID: generateID(), Text: text, Source: source}, nil
}

func generateID() string {
	return uuid.New().String()
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// DefaultEnvironmentItems lists the checklist every session starts with.
func DefaultEnvironmentItems() []string {
	return []string{
		"Clear your desk",
		"Adjust the lighting",
		"Get water and a snack",
		"Find a quiet spot",
	}
}

// GoalRule adds a checklist item when any goal mentions one of its keywords.
type GoalRule struct {
	Keywords []string
	Item     string
}

// DefaultGoalRules returns the built-in goal-driven checklist rules.
func DefaultGoalRules() []GoalRule {
	return []GoalRule{
		{Keywords: []string{"program", "programs", "programming", "coding", "code", "codes", "编程"}, Item: "Open your development environment"},
		{Keywords: []string{"read", "reads", "reading", "阅读"}, Item: "Prepare your reading material"},
	}
}

// Matches reports whether the goal text mentions one of the rule's keywords.
// Latin keywords must match a whole word; keywords in scripts written without
// spaces match anywhere in the text.
func (r GoalRule) Matches(text string) bool {
	lower := strings.ToLower(text)
	words := strings.FieldsFunc(lower, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})

	for _, kw := range r.Keywords {
		kw = strings.ToLower(kw)
		if !isASCII(kw) {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if slices.Contains(words, kw) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for _, c := range s {
		if c > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// VisualizationPrompts are the guiding questions of the visualization step.
func VisualizationPrompts() []string {
	return []string{
		"Picture the moment you finish this study session successfully.",
		"What will you have gained, and how will it feel?",
		"How does this session move you toward your long-term goals?",
	}
}

// Selector picks which of n prompts to highlight.
type Selector interface {
	Next(n int) int
}

// SequentialSelector cycles through prompts in order.
type SequentialSelector struct {
	next int
}

// Next returns the next index, wrapping around.
func (s *SequentialSelector) Next(n int) int {
	if n <= 0 {
		return 0
	}
	i := s.next % n
	s.next = i + 1
	return i
}

// RandomSelector picks prompts from a seeded source so runs are reproducible.
type RandomSelector struct {
	rng *rand.Rand
}

// NewRandomSelector creates a selector seeded with seed.
func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a pseudo-random index in [0, n).
func (s *RandomSelector) Next(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}
