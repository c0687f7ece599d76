package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/adapters/clock"
	"github.com/xvierd/prep-cli/internal/adapters/storage"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/services"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func key(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

type fixture struct {
	clock *clock.Fake
	deps  Deps
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.NewFake(time.Unix(0, 0))
	ctx := context.Background()
	prep := services.NewPrepService(store, nil, nil)
	if err := prep.SeedChecklist(ctx, ""); err != nil {
		t.Fatalf("SeedChecklist() error = %v", err)
	}

	return fixture{
		clock: clk,
		deps: Deps{
			Ctx:       ctx,
			Prep:      prep,
			Breathing: services.NewBreathingService(clk, domain.DefaultBreathingConfig(), nil),
			Focus:     services.NewFocusService(clk, 30, nil),
		},
	}
}

func newTestApp(t *testing.T) (App, fixture) {
	t.Helper()
	f := newFixture(t)
	app, err := NewApp(f.deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	app.width = 80
	return app, f
}

func send(t *testing.T, m App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		result, _ := m.Update(key(k))
		m = result.(App)
	}
	return m
}

func typeText(t *testing.T, m App, text string) App {
	t.Helper()
	for _, r := range text {
		result, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = result.(App)
	}
	return m
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

func TestApp_TabNavigation(t *testing.T) {
	m, _ := newTestApp(t)

	if m.nav.CurrentIndex() != 0 {
		t.Fatalf("start index = %d, want 0", m.nav.CurrentIndex())
	}

	m = send(t, m, "tab", "tab")
	if m.nav.Current().Kind != domain.StepVisualization {
		t.Errorf("after two tabs on %v, want visualization", m.nav.Current().Kind)
	}

	m = send(t, m, "tab", "tab", "tab", "tab")
	if !m.nav.IsLast() {
		t.Error("tab past the last step should clamp to the last step")
	}

	m = send(t, m, "shift+tab")
	if m.nav.Current().Kind != domain.StepAffirmations {
		t.Errorf("shift+tab from final = %v, want affirmations", m.nav.Current().Kind)
	}

	m = send(t, m, "shift+tab", "shift+tab", "shift+tab", "shift+tab", "shift+tab")
	if !m.nav.IsFirst() {
		t.Error("shift+tab before the first step should clamp")
	}
}

func TestApp_ViewShowsStepAndProgress(t *testing.T) {
	m, _ := newTestApp(t)

	view := m.View()
	if !strings.Contains(view, "Step 1/5") {
		t.Error("View() should show the step counter")
	}
	if !strings.Contains(view, "0%") {
		t.Error("View() should show 0% progress on the first step")
	}
	if strings.Contains(view, "shift+tab back") {
		t.Error("first step should not offer going back")
	}

	m = send(t, m, "tab")
	view = m.View()
	if !strings.Contains(view, "Step 2/5") || !strings.Contains(view, "25%") {
		t.Error("second step should show 25% progress")
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	m, _ := newTestApp(t)
	_, cmd := m.Update(key("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestApp_TickKeepsTicking(t *testing.T) {
	m, _ := newTestApp(t)
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

// ---------------------------------------------------------------------------
// Goals step
// ---------------------------------------------------------------------------

func TestGoals_AddGoalAddsDerivedItem(t *testing.T) {
	m, f := newTestApp(t)

	m = typeText(t, m, "Finish the coding kata")
	m = send(t, m, "enter")

	goals, _ := f.deps.Prep.ListGoals(context.Background())
	if len(goals) != 1 || goals[0].Text != "Finish the coding kata" {
		t.Fatalf("goals = %v", goals)
	}
	if m.goals.input.Value() != "" {
		t.Error("input should be cleared after adding a goal")
	}
	if !strings.Contains(m.View(), "Open your development environment") {
		t.Error("coding goal should add the development environment item")
	}
}

func TestGoals_EmptyEnterIgnored(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "enter")

	goals, _ := f.deps.Prep.ListGoals(context.Background())
	if len(goals) != 0 {
		t.Errorf("empty enter added %d goals", len(goals))
	}
	if m.goals.err != nil {
		t.Errorf("empty enter set error %v", m.goals.err)
	}
}

func TestGoals_ToggleChecklist(t *testing.T) {
	m, f := newTestApp(t)

	m = send(t, m, "down", "ctrl+t")

	items, _ := f.deps.Prep.Checklist(context.Background())
	if items[0].Checked || !items[1].Checked {
		t.Errorf("ctrl+t should toggle the second item, got %v/%v", items[0].Checked, items[1].Checked)
	}
}

// ---------------------------------------------------------------------------
// Breathing step
// ---------------------------------------------------------------------------

func TestBreathing_SelectAndStart(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "right")

	if got := f.deps.Breathing.Snapshot().SelectedSeconds; got != 180 {
		t.Fatalf("right should select 180s, got %d", got)
	}

	m = send(t, m, "enter")
	if f.deps.Breathing.Snapshot().Phase != domain.PhaseSentences {
		t.Fatal("enter should start the exercise")
	}

	f.clock.Advance(0)
	if !strings.Contains(m.View(), "Notice your breath") {
		t.Error("first sentence should be visible")
	}

	m = send(t, m, "right")
	if f.deps.Breathing.Snapshot().SelectedSeconds != 180 {
		t.Error("duration must not change while active")
	}

	send(t, m, "enter")
	if f.deps.Breathing.Snapshot().Phase != domain.PhaseIdle {
		t.Error("second enter should stop the exercise")
	}
}

func TestBreathing_EndingShowsClosingLine(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "enter")

	f.clock.Advance(121 * time.Second)
	if !strings.Contains(m.View(), "You did great") {
		t.Error("ending phase should show the closing line")
	}
}

func TestBreathing_LeavingStepStopsExercise(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "enter")
	f.clock.Advance(20 * time.Second)
	if f.deps.Breathing.Snapshot().Phase != domain.PhaseAnimation {
		t.Fatalf("phase = %v, want animation", f.deps.Breathing.Snapshot().Phase)
	}

	var completions int
	f.deps.Breathing.OnComplete(func(services.BreathingCompletion) { completions++ })

	m = send(t, m, "tab")
	if m.nav.Current().Kind != domain.StepVisualization {
		t.Fatalf("current = %v, want visualization", m.nav.Current().Kind)
	}
	snap := f.deps.Breathing.Snapshot()
	if snap.Phase != domain.PhaseIdle || snap.RemainingSeconds != snap.SelectedSeconds {
		t.Errorf("after leaving: phase=%v remaining=%d, want idle and reset", snap.Phase, snap.RemainingSeconds)
	}
	if n := f.clock.Pending(); n != 0 {
		t.Errorf("Pending() = %d timers after leaving the step, want 0", n)
	}

	f.clock.Advance(200 * time.Second)
	if completions != 0 {
		t.Errorf("exercise completed %d times after the step was left", completions)
	}

	send(t, m, "shift+tab")
	if f.deps.Breathing.Snapshot().Phase != domain.PhaseIdle {
		t.Error("returning to the step should find the exercise idle")
	}
}

func TestFinal_LeavingStepPausesFocus(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "tab", "tab", "tab", "s")
	f.clock.Advance(30 * time.Second)

	m = send(t, m, "shift+tab")
	snap := f.deps.Focus.Snapshot()
	if snap.Running() {
		t.Fatal("leaving the final step should pause the session")
	}
	if n := f.clock.Pending(); n != 0 {
		t.Errorf("Pending() = %d timers after leaving the step, want 0", n)
	}

	f.clock.Advance(10 * time.Minute)
	if got := f.deps.Focus.Snapshot().Remaining(); got != 30*time.Minute-30*time.Second {
		t.Errorf("Remaining() = %v, want 29m30s", got)
	}

	m = send(t, m, "tab", "s")
	if !f.deps.Focus.Snapshot().Running() {
		t.Error("session should resume from the final step")
	}
}

// ---------------------------------------------------------------------------
// Visualization and affirmations
// ---------------------------------------------------------------------------

func TestVisualization_TextAndPrompts(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "tab")

	m = typeText(t, m, "calm")
	if got := f.deps.Prep.Visualization(); got != "calm" {
		t.Errorf("Visualization() = %q, want %q", got, "calm")
	}

	send(t, m, "ctrl+n", "ctrl+n")
	if f.deps.Prep.CurrentPrompt() != 1 {
		t.Errorf("CurrentPrompt() = %d, want 1", f.deps.Prep.CurrentPrompt())
	}
}

func TestAffirmations_AddAndShowOnFinal(t *testing.T) {
	m, _ := newTestApp(t)
	m = send(t, m, "tab", "tab", "tab")

	m = typeText(t, m, "I am ready")
	m = send(t, m, "enter", "tab")

	if m.nav.Current().Kind != domain.StepFinal {
		t.Fatalf("current = %v, want final", m.nav.Current().Kind)
	}
	if !strings.Contains(m.View(), "I am ready") {
		t.Error("final screen should list the affirmations")
	}
}

// ---------------------------------------------------------------------------
// Final step
// ---------------------------------------------------------------------------

func TestFinal_ConfigureStartAndComplete(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "tab", "tab", "tab")

	m = send(t, m, "backspace", "backspace")
	m = typeText(t, m, "17")
	m = send(t, m, "enter")

	snap := f.deps.Focus.Snapshot()
	if snap.DurationMinutes != 15 || len(snap.Segments) != 3 {
		t.Fatalf("after entering 17: %d minutes, %d segments; want 15/3", snap.DurationMinutes, len(snap.Segments))
	}

	m = send(t, m, "space")
	if !f.deps.Focus.Snapshot().Running() {
		t.Fatal("space should start the timer")
	}

	m = typeText(t, m, "9")
	if m.final.input.Value() != "15" {
		t.Errorf("duration input should be disabled while running, got %q", m.final.input.Value())
	}
	if !strings.Contains(m.View(), "space pause") {
		t.Error("running view should offer pause")
	}

	f.clock.Advance(15 * time.Minute)
	if !strings.Contains(m.View(), "Session complete") {
		t.Error("finished session should show the completion dialog")
	}

	send(t, m, "enter")
	snap = f.deps.Focus.Snapshot()
	if snap.Finished || snap.Started {
		t.Error("enter should dismiss and reset the session")
	}
	if snap.Remaining() != 15*time.Minute {
		t.Errorf("Remaining() after dismiss = %v, want 15m", snap.Remaining())
	}
}

func TestFinal_PauseKeepsRemaining(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "tab", "tab", "tab", "s")

	f.clock.Advance(10 * time.Second)
	m = send(t, m, "space")
	if f.deps.Focus.Snapshot().Running() {
		t.Fatal("space while running should pause")
	}
	f.clock.Advance(time.Minute)
	if got := f.deps.Focus.Snapshot().Remaining(); got != 30*time.Minute-10*time.Second {
		t.Errorf("Remaining() = %v, want 29m50s", got)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("paused session should show the badge")
	}

	m = send(t, m, "backspace", "backspace")
	m = typeText(t, m, "45")
	m = send(t, m, "enter")
	if !strings.Contains(m.View(), "Reset the timer") {
		t.Error("configuring after start should explain the rejection")
	}

	send(t, m, "r")
	if f.deps.Focus.Snapshot().Remaining() != 30*time.Minute {
		t.Error("r should reset the session")
	}
}

func TestFinal_StartAppliesEditedDuration(t *testing.T) {
	m, f := newTestApp(t)
	m = send(t, m, "tab", "tab", "tab", "tab", "backspace", "backspace")
	m = typeText(t, m, "10")
	send(t, m, "space")

	snap := f.deps.Focus.Snapshot()
	if snap.DurationMinutes != 10 || !snap.Running() {
		t.Errorf("space should apply the typed duration and start, got %d minutes running=%v", snap.DurationMinutes, snap.Running())
	}
}

// ---------------------------------------------------------------------------
// Helpers and small components
// ---------------------------------------------------------------------------

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{25 * time.Minute, "25:00"},
		{1*time.Minute + 30*time.Second, "01:30"},
		{0, "00:00"},
		{-time.Second, "00:00"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.duration); got != tt.want {
			t.Errorf("formatDuration(%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(300); got != "5:00" {
		t.Errorf("formatSeconds(300) = %q", got)
	}
	if got := formatSeconds(61); got != "1:01" {
		t.Errorf("formatSeconds(61) = %q", got)
	}
}

func TestRenderBigTime(t *testing.T) {
	narrow := renderBigTime("02:00", lipgloss.Color("#fff"), 30)
	if strings.Count(narrow, "\n") != 0 {
		t.Error("narrow terminals should get a single line")
	}
	wide := renderBigTime("02:00", lipgloss.Color("#fff"), 80)
	if strings.Count(wide, "\n") != 2 {
		t.Errorf("wide rendering should have 3 rows, got %q", wide)
	}
}

func TestResolveTheme(t *testing.T) {
	custom := config.ThemeConfig{ColorAccent: "#000000"}
	got := resolveTheme(&custom)
	if got.ColorAccent != "#000000" {
		t.Error("resolveTheme() should keep set fields")
	}
	if got.ColorFocus != config.DefaultThemeConfig().ColorFocus {
		t.Error("resolveTheme() should fill empty fields")
	}
	if resolveTheme(nil) != config.DefaultThemeConfig() {
		t.Error("resolveTheme(nil) should return the defaults")
	}
}

func TestNeighbourDuration(t *testing.T) {
	durations := []int{120, 180, 240}
	if got := neighbourDuration(durations, 120, -1); got != 120 {
		t.Errorf("left from first = %d, want 120", got)
	}
	if got := neighbourDuration(durations, 180, 1); got != 240 {
		t.Errorf("right from 180 = %d, want 240", got)
	}
	if got := neighbourDuration(durations, 999, 1); got != 120 {
		t.Errorf("unknown current = %d, want first", got)
	}
}

func TestPicker_Keys(t *testing.T) {
	m := pickerModel{items: PresetItems(config.DefaultConfig().Focus.GetPresets()), theme: resolveTheme(nil)}

	result, _ := m.Update(key("down"))
	m = result.(pickerModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	result, cmd := m.Update(key("3"))
	m = result.(pickerModel)
	if m.cursor != 2 || cmd == nil {
		t.Error("digit should select and quit")
	}

	result, _ = m.Update(key("esc"))
	if !result.(pickerModel).aborted {
		t.Error("esc should abort")
	}

	if !strings.Contains(m.View(), "60 min") {
		t.Error("picker should list preset durations")
	}
}
