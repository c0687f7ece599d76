package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/services"
)

// breathingModel runs the breathing screen on its own.
type breathingModel struct {
	screen breathingScreen
	width  int
}

func (m breathingModel) Init() tea.Cmd { return tickCmd() }

func (m breathingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		return m, tickCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.screen.svc.Stop()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.update(msg)
	return m, cmd
}

func (m breathingModel) View() string {
	help := lipgloss.NewStyle().Foreground(lipgloss.Color(m.screen.theme.ColorHelp)).Render("q quit")
	return lipgloss.NewStyle().Padding(1, 2).Render(m.screen.view(m.width) + "\n\n" + help)
}

// RunBreathing runs a breathing exercise. When seconds is non-zero the
// exercise starts immediately with that length.
func RunBreathing(svc *services.BreathingService, seconds int, theme *config.ThemeConfig) error {
	if seconds > 0 {
		svc.Start(seconds)
	}
	m := breathingModel{screen: newBreathingScreen(svc, resolveTheme(theme)), width: getTerminalWidth()}
	_, err := tea.NewProgram(m).Run()
	return err
}

// focusModel runs the focus timer on its own.
type focusModel struct {
	screen finalScreen
	width  int
}

func (m focusModel) Init() tea.Cmd {
	_, cmd := m.screen.enter()
	return tea.Batch(tickCmd(), cmd)
}

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.screen = m.screen.syncInput()
		return m, tickCmd()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.screen.focus.Pause()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.update(msg)
	return m, cmd
}

func (m focusModel) View() string {
	help := lipgloss.NewStyle().Foreground(lipgloss.Color(m.screen.theme.ColorHelp)).Render("esc quit")
	return lipgloss.NewStyle().Padding(1, 2).Render(m.screen.view(m.width) + "\n\n" + help)
}

// RunFocus runs the segmented focus timer, optionally starting it right away.
func RunFocus(ctx context.Context, svc *services.FocusService, autoStart bool, theme *config.ThemeConfig) error {
	if autoStart {
		svc.Start()
	}
	screen := newFinalScreen(ctx, nil, svc, resolveTheme(theme))
	m := focusModel{screen: screen, width: getTerminalWidth()}
	_, err := tea.NewProgram(m).Run()
	return err
}
