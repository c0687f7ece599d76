package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/services"
)

// Deps are the engines and collaborators the wizard renders.
type Deps struct {
	Ctx       context.Context
	Prep      *services.PrepService
	Breathing *services.BreathingService
	Focus     *services.FocusService
	Theme     *config.ThemeConfig
}

// App hosts the wizard: it owns the navigator and shows one screen per step.
type App struct {
	nav      *domain.Navigator
	theme    config.ThemeConfig
	progress progress.Model
	width    int
	height   int

	goals         goalsScreen
	breathing     breathingScreen
	visualization visualizationScreen
	affirmations  affirmationsScreen
	final         finalScreen
}

// NewApp creates the wizard over the default steps.
func NewApp(deps Deps) (App, error) {
	nav, err := domain.NewNavigator(domain.DefaultSteps())
	if err != nil {
		return App{}, err
	}
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	theme := resolveTheme(deps.Theme)
	w := getTerminalWidth()
	pbar := progress.New(progress.WithGradient(theme.WizardGradientStart, theme.WizardGradientEnd))
	pbar.Width = w - 8

	app := App{
		nav:           nav,
		theme:         theme,
		progress:      pbar,
		width:         w,
		goals:         newGoalsScreen(ctx, deps.Prep, theme),
		breathing:     newBreathingScreen(deps.Breathing, theme),
		visualization: newVisualizationScreen(deps.Prep, theme),
		affirmations:  newAffirmationsScreen(ctx, deps.Prep, theme),
		final:         newFinalScreen(ctx, deps.Prep, deps.Focus, theme),
	}
	app, _ = app.enterStep()
	return app, nil
}

// Init starts the redraw tick.
func (m App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.focusCmd())
}

func (m App) focusCmd() tea.Cmd {
	_, cmd := m.enterStep()
	return cmd
}

// Update handles navigation and forwards everything else to the current screen.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-8, 10)
		return m, nil

	case tickMsg:
		var cmd tea.Cmd
		if m.nav.Current().Kind == domain.StepFinal {
			m.final, cmd = m.final.update(msg)
		}
		return m, tea.Batch(tickCmd(), cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m.move(m.nav.Advance)
		case "shift+tab":
			return m.move(m.nav.Retreat)
		}
	}

	return m.updateCurrent(msg)
}

func (m App) move(step func()) (tea.Model, tea.Cmd) {
	before := m.nav.CurrentIndex()
	leaving := m.nav.Current().Kind
	step()
	if m.nav.CurrentIndex() == before {
		return m, nil
	}
	m.leaveStep(leaving)
	m = m.leaveAll()
	m, cmd := m.enterStep()
	return m, cmd
}

// leaveStep halts the engine owned by the step being left. Breathing starts
// over on return; a focus session stays paused where it was.
func (m App) leaveStep(kind domain.StepKind) {
	switch kind {
	case domain.StepBreathing:
		m.breathing.svc.Stop()
	case domain.StepFinal:
		m.final.focus.Pause()
	}
}

func (m App) leaveAll() App {
	m.goals = m.goals.blur()
	m.visualization = m.visualization.blur()
	m.affirmations = m.affirmations.blur()
	m.final = m.final.blur()
	return m
}

func (m App) enterStep() (App, tea.Cmd) {
	var cmd tea.Cmd
	switch m.nav.Current().Kind {
	case domain.StepGoals:
		m.goals.reload()
		m.goals, cmd = m.goals.focus()
	case domain.StepVisualization:
		m.visualization, cmd = m.visualization.focus()
	case domain.StepAffirmations:
		m.affirmations, cmd = m.affirmations.focus()
	case domain.StepFinal:
		m.final, cmd = m.final.enter()
	}
	return m, cmd
}

func (m App) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.nav.Current().Kind {
	case domain.StepGoals:
		m.goals, cmd = m.goals.update(msg)
	case domain.StepBreathing:
		m.breathing, cmd = m.breathing.update(msg)
	case domain.StepVisualization:
		m.visualization, cmd = m.visualization.update(msg)
	case domain.StepAffirmations:
		m.affirmations, cmd = m.affirmations.update(msg)
	case domain.StepFinal:
		m.final, cmd = m.final.update(msg)
	}
	return m, cmd
}

// View renders the header, progress bar, current screen and navigation hints.
func (m App) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorAccent))
	stepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorText))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	current := m.nav.Current()
	header := titleStyle.Render(m.theme.IconApp+" Study Prep") + "  " +
		stepStyle.Render(fmt.Sprintf("Step %d/%d · %s", m.nav.CurrentIndex()+1, m.nav.StepCount(), current.Name))

	var body string
	switch current.Kind {
	case domain.StepGoals:
		body = m.goals.view(m.width)
	case domain.StepBreathing:
		body = m.breathing.view(m.width)
	case domain.StepVisualization:
		body = m.visualization.view(m.width)
	case domain.StepAffirmations:
		body = m.affirmations.view(m.width)
	case domain.StepFinal:
		body = m.final.view(m.width)
	}

	var nav []string
	if !m.nav.IsFirst() {
		nav = append(nav, "shift+tab back")
	}
	if !m.nav.IsLast() {
		nav = append(nav, "tab next")
	}
	nav = append(nav, "ctrl+c quit")

	sections := []string{
		header,
		m.progress.ViewAs(m.nav.Progress() / 100),
		"",
		body,
		"",
		helpStyle.Render(strings.Join(nav, " · ")),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
}

// Run starts the full-screen wizard.
func Run(deps Deps) error {
	app, err := NewApp(deps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
