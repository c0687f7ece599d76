package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/services"
)

type visualizationScreen struct {
	prep  *services.PrepService
	theme config.ThemeConfig
	area  textarea.Model
}

func newVisualizationScreen(prep *services.PrepService, theme config.ThemeConfig) visualizationScreen {
	ta := textarea.New()
	ta.Placeholder = "Describe what success looks like…"
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.SetValue(prep.Visualization())
	return visualizationScreen{prep: prep, theme: theme, area: ta}
}

func (s visualizationScreen) focus() (visualizationScreen, tea.Cmd) {
	cmd := s.area.Focus()
	return s, cmd
}

func (s visualizationScreen) blur() visualizationScreen {
	s.area.Blur()
	return s
}

func (s visualizationScreen) update(msg tea.Msg) (visualizationScreen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+n" {
		s.prep.NextPrompt()
		return s, nil
	}

	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	s.prep.SetVisualization(s.area.Value())
	return s, cmd
}

func (s visualizationScreen) view(width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorTitle))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorText))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorAccent))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render("Positive visualization"), "")

	current := s.prep.CurrentPrompt()
	for i, p := range s.prep.Prompts() {
		if i == current {
			sections = append(sections, activeStyle.Render("▸ "+p))
		} else {
			sections = append(sections, textStyle.Render("  "+p))
		}
	}

	sections = append(sections, "", s.area.View(), "", helpStyle.Render("ctrl+n next prompt"))
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(sections, "\n"))
}
