package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/services"
)

// finalScreen shows the summary and drives the segmented focus session.
type finalScreen struct {
	ctx     context.Context
	prep    *services.PrepService // nil when running focus on its own
	focus   *services.FocusService
	theme   config.ThemeConfig
	input   textinput.Model
	summary domain.Summary
	err     error
}

func newFinalScreen(ctx context.Context, prep *services.PrepService, focus *services.FocusService, theme config.ThemeConfig) finalScreen {
	ti := textinput.New()
	ti.Prompt = "Minutes: "
	ti.CharLimit = 4
	ti.Width = 6
	ti.SetValue(strconv.Itoa(focus.Snapshot().DurationMinutes))

	s := finalScreen{ctx: ctx, prep: prep, focus: focus, theme: theme, input: ti}
	s.loadSummary()
	return s
}

func (s *finalScreen) loadSummary() {
	if s.prep == nil {
		return
	}
	summary, err := s.prep.Summary(s.ctx)
	if err != nil {
		s.err = err
		return
	}
	s.summary = summary
}

func (s finalScreen) enter() (finalScreen, tea.Cmd) {
	s.loadSummary()
	if s.focus.Snapshot().Running() {
		return s, nil
	}
	cmd := s.input.Focus()
	return s, cmd
}

func (s finalScreen) blur() finalScreen {
	s.input.Blur()
	return s
}

func (s finalScreen) update(msg tea.Msg) (finalScreen, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return s.syncInput(), nil
	}

	snap := s.focus.Snapshot()
	if snap.Finished {
		if k.String() == "enter" {
			s.focus.Dismiss()
			s.input.SetValue(strconv.Itoa(snap.DurationMinutes))
		}
		return s.syncInput(), nil
	}

	switch k.String() {
	case "enter":
		s.err = nil
		minutes := domain.ParseFocusMinutes(s.input.Value())
		if err := s.focus.Configure(minutes); err != nil {
			s.err = err
		}
		s.input.SetValue(strconv.Itoa(s.focus.Snapshot().DurationMinutes))
		return s, nil
	case " ", "s":
		s.err = nil
		if snap.Running() {
			s.focus.Pause()
		} else {
			s.applyPendingDuration(snap)
			s.focus.Start()
		}
		return s.syncInput(), nil
	case "r":
		s.err = nil
		s.focus.Reset()
		return s.syncInput(), nil
	}

	if snap.Running() || !isDurationKey(k) {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// applyPendingDuration configures an edited but unconfirmed duration before
// the first start.
func (s *finalScreen) applyPendingDuration(snap domain.FocusSnapshot) {
	if snap.Started {
		return
	}
	minutes := domain.ParseFocusMinutes(s.input.Value())
	if minutes == snap.DurationMinutes {
		return
	}
	if err := s.focus.Configure(minutes); err != nil && !errors.Is(err, domain.ErrFocusStarted) {
		s.err = err
	}
	s.input.SetValue(strconv.Itoa(s.focus.Snapshot().DurationMinutes))
}

// syncInput disables the duration input while the timer runs.
func (s finalScreen) syncInput() finalScreen {
	if s.focus.Snapshot().Running() {
		s.input.Blur()
	} else if !s.input.Focused() {
		s.input.Focus()
	}
	return s
}

func isDurationKey(k tea.KeyMsg) bool {
	switch k.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight:
		return true
	case tea.KeyRunes:
		for _, r := range k.Runes {
			if (r < '0' || r > '9') && r != '.' {
				return false
			}
		}
		return true
	}
	return false
}

func (s finalScreen) view(width int) string {
	snap := s.focus.Snapshot()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorTitle))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorText))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorHelp))

	timerColor := lipgloss.Color(s.theme.ColorFocus)
	if snap.Paused {
		timerColor = lipgloss.Color(s.theme.ColorPaused)
	}

	var sections []string
	if s.prep != nil {
		sections = append(sections, titleStyle.Render("Your goals"))
		if len(s.summary.Goals) == 0 {
			sections = append(sections, helpStyle.Render("  No goals set."))
		}
		for _, g := range s.summary.Goals {
			sections = append(sections, textStyle.Render("  • "+g.Text))
		}
		sections = append(sections, "")
	}

	sections = append(sections, titleStyle.Render("Focus session"))
	if snap.Running() {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("  Minutes: %d", snap.DurationMinutes)))
	} else {
		sections = append(sections, "  "+s.input.View())
	}

	sections = append(sections, "", renderBigTime(formatDuration(snap.Remaining()), timerColor, width))
	if snap.Paused && snap.Started && !snap.Finished {
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(s.theme.ColorPaused)).
			Padding(0, 1).
			Render(s.theme.IconPaused + " PAUSED")
		sections = append(sections, "", badge)
	}

	sections = append(sections, "", s.viewSegments(snap, width))

	if snap.Finished {
		sections = append(sections, "", s.viewDialog(snap))
	}

	if s.err != nil {
		sections = append(sections, "", helpStyle.Render(describeFocusError(s.err)))
	}

	if s.prep != nil && len(s.summary.Affirmations) > 0 {
		sections = append(sections, "", titleStyle.Render("Remember"))
		for _, a := range s.summary.Affirmations {
			sections = append(sections, textStyle.Render("  “"+a.Text+"”"))
		}
	}

	action := "space start"
	if snap.Running() {
		action = "space pause"
	}
	help := action + " · r reset · enter set minutes"
	if snap.Finished {
		help = "enter dismiss"
	}
	sections = append(sections, "", helpStyle.Render(help))

	return strings.Join(sections, "\n")
}

func (s finalScreen) viewSegments(snap domain.FocusSnapshot, width int) string {
	pbar := progress.New(
		progress.WithGradient(s.theme.FocusGradientStart, s.theme.FocusGradientEnd),
		progress.WithoutPercentage(),
	)
	pbar.Width = max(min(width-24, 50), 10)

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorHelp))
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorFocus))

	rows := make([]string, 0, len(snap.Segments))
	for i, seg := range snap.Segments {
		label := fmt.Sprintf("%2d  %s", i+1, formatSeconds(seg.RemainingSeconds))
		style := dim
		if i == snap.ActiveIndex && !snap.Finished {
			style = active
		}
		rows = append(rows, style.Render(label)+"  "+pbar.ViewAs(1-seg.Progress()))
	}
	return strings.Join(rows, "\n")
}

func (s finalScreen) viewDialog(snap domain.FocusSnapshot) string {
	body := fmt.Sprintf("Session complete!\n\nYou focused for %d minutes across %d segments.\n\n[enter] dismiss",
		snap.DurationMinutes, len(snap.Segments))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(s.theme.ColorAccent)).
		Padding(1, 3).
		Render(body)
}

func describeFocusError(err error) string {
	switch {
	case errors.Is(err, domain.ErrFocusRunning):
		return "Pause the timer before changing its length."
	case errors.Is(err, domain.ErrFocusStarted):
		return "Reset the timer before changing its length."
	default:
		return err.Error()
	}
}
