package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/services"
)

// goalsScreen collects goals and shows the environment checklist.
type goalsScreen struct {
	ctx       context.Context
	prep      *services.PrepService
	theme     config.ThemeConfig
	input     textinput.Model
	goals     []*domain.Goal
	checklist []*domain.EnvironmentItem
	cursor    int
	err       error
}

func newGoalsScreen(ctx context.Context, prep *services.PrepService, theme config.ThemeConfig) goalsScreen {
	ti := textinput.New()
	ti.Placeholder = "What do you want to get done?"
	ti.CharLimit = 120
	ti.Width = 50

	s := goalsScreen{ctx: ctx, prep: prep, theme: theme, input: ti}
	s.reload()
	return s
}

func (s *goalsScreen) reload() {
	goals, err := s.prep.ListGoals(s.ctx)
	if err != nil {
		s.err = err
		return
	}
	items, err := s.prep.Checklist(s.ctx)
	if err != nil {
		s.err = err
		return
	}
	s.goals, s.checklist = goals, items
	if s.cursor >= len(s.checklist) {
		s.cursor = max(len(s.checklist)-1, 0)
	}
}

func (s goalsScreen) focus() (goalsScreen, tea.Cmd) {
	cmd := s.input.Focus()
	return s, cmd
}

func (s goalsScreen) blur() goalsScreen {
	s.input.Blur()
	return s
}

func (s goalsScreen) update(msg tea.Msg) (goalsScreen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			s.err = nil
			if strings.TrimSpace(s.input.Value()) == "" {
				return s, nil
			}
			if _, err := s.prep.AddGoal(s.ctx, s.input.Value()); err != nil {
				s.err = err
				return s, nil
			}
			s.input.Reset()
			s.reload()
			return s, nil
		case "up":
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		case "down":
			if s.cursor < len(s.checklist)-1 {
				s.cursor++
			}
			return s, nil
		case "ctrl+t":
			if s.cursor < len(s.checklist) {
				if _, err := s.prep.ToggleEnvironmentItem(s.ctx, s.checklist[s.cursor].ID); err != nil {
					s.err = err
				}
				s.reload()
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s goalsScreen) view(width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorTitle))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorText))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.theme.ColorAccent))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render("Goals for this session"))
	if len(s.goals) == 0 {
		sections = append(sections, helpStyle.Render("  No goals yet."))
	}
	for i, g := range s.goals {
		sections = append(sections, textStyle.Render(fmt.Sprintf("  %d. %s", i+1, g.Text)))
	}
	sections = append(sections, "", "  "+s.input.View())
	if s.err != nil {
		sections = append(sections, helpStyle.Render("  "+s.err.Error()))
	}

	sections = append(sections, "", titleStyle.Render("Prepare your environment"))
	for i, item := range s.checklist {
		icon := s.theme.IconUnchecked
		if item.Checked {
			icon = s.theme.IconChecked
		}
		line := fmt.Sprintf("%s %s", icon, item.Text)
		if item.Source == domain.SourceWorkspace {
			line += " " + s.theme.IconGit
		}
		if i == s.cursor {
			sections = append(sections, activeStyle.Render("▸ "+line))
		} else {
			sections = append(sections, textStyle.Render("  "+line))
		}
	}

	sections = append(sections, "", helpStyle.Render("enter add goal · ↑/↓ select · ctrl+t check"))
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(sections, "\n"))
}
