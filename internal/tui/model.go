// Package tui provides the Bubble Tea workout interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/session"
	"github.com/yaseenp24/workoutbuddy/internal/view"
	"github.com/yaseenp24/workoutbuddy/internal/workout"
)

// Controller is the client surface the interface drives. *app.Controller
// implements it.
type Controller interface {
	State() *session.State
	Router() *view.Router
	Dashboard() dashboard.Stats

	Login(ctx context.Context, email, password string) (app.Result, error)
	Register(ctx context.Context, name, email, password string) (app.Result, error)
	Logout(ctx context.Context) (app.Result, error)
	SubmitOnboarding(ctx context.Context, o models.Onboarding) (app.Result, error)

	RefreshDashboard(ctx context.Context) (dashboard.Stats, app.Result, error)
	Templates(ctx context.Context) ([]models.WorkoutTemplate, app.Result, error)
	History(ctx context.Context, page, perPage int) ([]models.CompletedWorkout, app.Result, error)
	WorkoutDetail(ctx context.Context, id models.RecordID) (*models.CompletedWorkout, error)
	ProfileTips(ctx context.Context) ([]string, app.Result, error)

	StartWorkout(tpl models.WorkoutTemplate) (*workout.Session, error)
	LogSet(exerciseIndex, setIndex int, exerciseID int64, in workout.SetInput) (models.LoggedSet, error)
	CancelWorkout(confirm func() bool) (bool, error)
	FinishWorkout(ctx context.Context) (app.Result, error)
}

var _ Controller = (*app.Controller)(nil)

// HistoryPageSize is how many workouts one history page lists.
const HistoryPageSize = 10

// requestTimeout bounds each backend call started from the interface.
const requestTimeout = 90 * time.Second

// TickMsg carries the elapsed time of the active workout.
type TickMsg time.Duration

type resultMsg struct {
	res app.Result
	err error
}

type statsMsg struct {
	res app.Result
	err error
}

type templatesMsg struct {
	templates []models.WorkoutTemplate
	res       app.Result
	err       error
}

type historyMsg struct {
	workouts []models.CompletedWorkout
	page     int
	res      app.Result
	err      error
}

type detailMsg struct {
	workout *models.CompletedWorkout
	err     error
}

type tipsMsg struct {
	tips []string
	res  app.Result
	err  error
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea workout UI.
type Model struct {
	ctrl Controller

	width  int
	height int

	status     string
	statusKind app.Outcome
	busy       bool

	auth    authForm
	onboard onboardingForm

	tips []string

	templates []models.WorkoutTemplate
	tplCursor int

	logging loggingState

	history    []models.CompletedWorkout
	page       int
	histCursor int
	detail     *models.CompletedWorkout
}

// NewModel constructs the interface over ctrl. The controller's router
// decides the first screen.
func NewModel(ctrl Controller) *Model {
	m := &Model{
		ctrl:    ctrl,
		auth:    newAuthForm(),
		onboard: newOnboardingForm(),
		page:    1,
	}
	m.logging.inputs = newSetInputs()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	switch m.section() {
	case view.Dashboard:
		return m.refreshCmd()
	case view.Auth:
		return m.auth.focus(0)
	case view.Onboarding:
		return m.onboard.focus(0)
	}
	return nil
}

func (m *Model) section() view.Section {
	return m.ctrl.Router().Current()
}

func (m *Model) show(s view.Section) {
	m.ctrl.Router().Show(s)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		m.logging.elapsed = time.Duration(msg)
		return m, nil
	case resultMsg:
		return m, m.handleResult(msg)
	case statsMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.res)
		}
		return m, nil
	case templatesMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.res)
			return m, nil
		}
		m.templates = msg.templates
		m.tplCursor = 0
		m.setStatus(msg.res)
		m.show(view.Templates)
		return m, nil
	case historyMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.res)
			return m, nil
		}
		m.history = msg.workouts
		m.page = msg.page
		m.histCursor = 0
		m.detail = nil
		m.show(view.History)
		return m, nil
	case detailMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(app.Result{Outcome: app.Failed, Message: msg.err.Error()})
			return m, nil
		}
		m.detail = msg.workout
		return m, nil
	case tipsMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.res)
			return m, nil
		}
		m.tips = msg.tips
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.section() {
	case view.Auth:
		return m.authKey(msg)
	case view.Onboarding:
		return m.onboardingKey(msg)
	case view.Dashboard:
		return m.dashboardKey(msg)
	case view.Templates:
		return m.templatesKey(msg)
	case view.Logging:
		return m.loggingKey(msg)
	case view.History:
		return m.historyKey(msg)
	}
	return nil
}

// handleResult applies the outcome of a flow that may change screens.
func (m *Model) handleResult(msg resultMsg) tea.Cmd {
	m.busy = false
	res := msg.res
	if msg.err != nil && res.Message == "" {
		res = app.Result{Outcome: app.Failed, Message: msg.err.Error()}
	}
	m.setStatus(res)

	switch m.section() {
	case view.Auth:
		m.auth.reset()
		return m.auth.focus(0)
	case view.Onboarding:
		return m.onboard.focus(m.onboard.focused)
	case view.Dashboard:
		m.tips = nil
		return m.refreshCmd()
	}
	return nil
}

func (m *Model) setStatus(res app.Result) {
	m.status = res.Message
	m.statusKind = res.Outcome
}

// run executes fn off the update loop with a bounded context.
func run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	m.busy = true
	return run(func(ctx context.Context) tea.Msg {
		_, res, err := m.ctrl.RefreshDashboard(ctx)
		return statsMsg{res: res, err: err}
	})
}

func (m *Model) templatesCmd() tea.Cmd {
	m.busy = true
	return run(func(ctx context.Context) tea.Msg {
		list, res, err := m.ctrl.Templates(ctx)
		return templatesMsg{templates: list, res: res, err: err}
	})
}

func (m *Model) historyCmd(page int) tea.Cmd {
	m.busy = true
	return run(func(ctx context.Context) tea.Msg {
		list, res, err := m.ctrl.History(ctx, page, HistoryPageSize)
		return historyMsg{workouts: list, page: page, res: res, err: err}
	})
}

func (m *Model) detailCmd(id models.RecordID) tea.Cmd {
	m.busy = true
	return run(func(ctx context.Context) tea.Msg {
		w, err := m.ctrl.WorkoutDetail(ctx, id)
		return detailMsg{workout: w, err: err}
	})
}

func (m *Model) tipsCmd() tea.Cmd {
	m.busy = true
	return run(func(ctx context.Context) tea.Msg {
		list, res, err := m.ctrl.ProfileTips(ctx)
		return tipsMsg{tips: list, res: res, err: err}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body, help string
	switch m.section() {
	case view.Auth:
		body, help = m.authView()
	case view.Onboarding:
		body, help = m.onboardingView()
	case view.Dashboard:
		body, help = m.dashboardView()
	case view.Templates:
		body, help = m.templatesView()
	case view.Logging:
		body, help = m.loggingView()
	case view.History:
		body, help = m.historyView()
	}

	out := m.header() + "\n\n" + body + "\n"
	if line := m.statusLine(); line != "" {
		out += "\n" + line
	}
	return out + "\n" + mutedStyle.Render(help) + "\n"
}

func (m *Model) header() string {
	title := titleStyle.Render("WorkoutBuddy")
	st := m.ctrl.State()
	if u := st.User(); u != nil {
		title += mutedStyle.Render("  " + u.Name)
		if st.Token() == "" {
			title += warnStyle.Render("  [offline]")
		}
	}
	return title
}

func (m *Model) statusLine() string {
	if m.busy {
		return mutedStyle.Render("Working...")
	}
	if m.status == "" {
		return ""
	}
	switch m.statusKind {
	case app.Failed:
		return errorStyle.Render(m.status)
	case app.Local:
		return warnStyle.Render(m.status)
	default:
		return okStyle.Render(m.status)
	}
}

// focusInputs focuses inputs[i] and blurs the rest.
func focusInputs(inputs []textinput.Model, i int) tea.Cmd {
	var cmd tea.Cmd
	for j := range inputs {
		if j == i {
			cmd = inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
	return cmd
}

// updateFocused forwards msg to the focused input.
func updateFocused(inputs []textinput.Model, i int, msg tea.Msg) tea.Cmd {
	if i < 0 || i >= len(inputs) {
		return nil
	}
	var cmd tea.Cmd
	inputs[i], cmd = inputs[i].Update(msg)
	return cmd
}

func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}
