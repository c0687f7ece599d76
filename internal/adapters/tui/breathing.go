package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/services"
)

// breathingScreen renders the breathing exercise; all timing lives in the service.
type breathingScreen struct {
	svc   *services.BreathingService
	theme config.ThemeConfig
}

func newBreathingScreen(svc *services.BreathingService, theme config.ThemeConfig) breathingScreen {
	return breathingScreen{svc: svc, theme: theme}
}

func (s breathingScreen) update(msg tea.Msg) (breathingScreen, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	snap := s.svc.Snapshot()
	switch k.String() {
	case "enter", " ":
		s.svc.Toggle()
	case "left", "h":
		s.svc.SelectDuration(neighbourDuration(snap.Durations, snap.SelectedSeconds, -1))
	case "right", "l":
		s.svc.SelectDuration(neighbourDuration(snap.Durations, snap.SelectedSeconds, 1))
	case "1", "2", "3":
		i := int(k.Runes[0] - '1')
		if i < len(snap.Durations) {
			s.svc.SelectDuration(snap.Durations[i])
		}
	}
	return s, nil
}

func neighbourDuration(durations []int, current, step int) int {
	for i, d := range durations {
		if d == current {
			j := i + step
			if j >= 0 && j < len(durations) {
				return durations[j]
			}
			return current
		}
	}
	if len(durations) > 0 {
		return durations[0]
	}
	return current
}

func (s breathingScreen) view(width int) string {
	snap := s.svc.Snapshot()
	color := lipgloss.Color(s.theme.ColorBreathing)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorTitle))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorText))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render("Breathing · "+snap.Phase.Label()))

	switch snap.Phase {
	case domain.PhaseIdle:
		var opts []string
		for _, d := range snap.Durations {
			label := fmt.Sprintf("%d min", d/60)
			if d%60 != 0 {
				label = formatSeconds(d)
			}
			if d == snap.SelectedSeconds {
				opts = append(opts, activeStyle.Render("▸ "+label))
			} else {
				opts = append(opts, textStyle.Render("  "+label))
			}
		}
		sections = append(sections, "", strings.Join(opts, "   "), "")
		sections = append(sections, renderBigTime(formatDuration(time.Duration(snap.RemainingSeconds)*time.Second), color, width))
		sections = append(sections, "", helpStyle.Render("←/→ duration · enter start"))

	case domain.PhaseEnding:
		sections = append(sections, "", activeStyle.Render(snap.ClosingLine))

	default:
		sections = append(sections, "", renderBigTime(formatDuration(time.Duration(snap.RemainingSeconds)*time.Second), color, width))

		pbar := progress.New(
			progress.WithGradient(s.theme.BreathingGradientStart, s.theme.BreathingGradientEnd),
			progress.WithoutPercentage(),
		)
		pbar.Width = max(width-8, 10)
		sections = append(sections, "", pbar.ViewAs(snap.Progress()))

		switch {
		case snap.Phase == domain.PhaseSentences && snap.SentenceVisible:
			sections = append(sections, "", textStyle.Render(snap.Sentence))
		case snap.Phase == domain.PhaseAnimation:
			sections = append(sections, "", textStyle.Render(breathCue(snap.RemainingSeconds)))
		case snap.Phase == domain.PhaseCompleted:
			sections = append(sections, "", activeStyle.Render("Complete"))
		default:
			sections = append(sections, "")
		}
		sections = append(sections, "", helpStyle.Render("enter stop"))
	}

	return strings.Join(sections, "\n")
}

// breathCue alternates a four-second inhale and a four-second exhale.
func breathCue(remaining int) string {
	if (remaining/4)%2 == 0 {
		return "Breathe in…"
	}
	return "Breathe out…"
}
