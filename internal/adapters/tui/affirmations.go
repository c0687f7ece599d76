package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/services"
)

type affirmationsScreen struct {
	ctx   context.Context
	prep  *services.PrepService
	theme config.ThemeConfig
	input textinput.Model
	list  []*domain.Affirmation
	err   error
}

func newAffirmationsScreen(ctx context.Context, prep *services.PrepService, theme config.ThemeConfig) affirmationsScreen {
	ti := textinput.New()
	ti.Placeholder = "I am ready for this."
	ti.CharLimit = 120
	ti.Width = 50

	s := affirmationsScreen{ctx: ctx, prep: prep, theme: theme, input: ti}
	s.list, s.err = prep.ListAffirmations(ctx)
	return s
}

func (s affirmationsScreen) focus() (affirmationsScreen, tea.Cmd) {
	cmd := s.input.Focus()
	return s, cmd
}

func (s affirmationsScreen) blur() affirmationsScreen {
	s.input.Blur()
	return s
}

func (s affirmationsScreen) update(msg tea.Msg) (affirmationsScreen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		s.err = nil
		if strings.TrimSpace(s.input.Value()) == "" {
			return s, nil
		}
		if _, err := s.prep.AddAffirmation(s.ctx, s.input.Value()); err != nil {
			s.err = err
			return s, nil
		}
		s.input.Reset()
		s.list, s.err = s.prep.ListAffirmations(s.ctx)
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s affirmationsScreen) view(width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorTitle))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorText))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render("Positive self-talk"), "")
	for _, a := range s.list {
		sections = append(sections, textStyle.Render("  “"+a.Text+"”"))
	}
	sections = append(sections, "", "  "+s.input.View())
	if s.err != nil {
		sections = append(sections, helpStyle.Render("  "+s.err.Error()))
	}
	sections = append(sections, "", helpStyle.Render("enter add"))
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(sections, "\n"))
}
