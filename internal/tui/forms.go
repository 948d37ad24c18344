package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/models"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

type authForm struct {
	inputs      []textinput.Model
	focused     int
	registering bool
}

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = 120
	return in
}

func newAuthForm() authForm {
	password := newInput("Password: ", "")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	return authForm{
		inputs: []textinput.Model{
			newInput("Email:    ", "you@example.com"),
			password,
			newInput("Name:     ", "Your name"),
		},
	}
}

// fields is how many inputs the current mode shows.
func (f *authForm) fields() int {
	if f.registering {
		return 3
	}
	return 2
}

func (f *authForm) focus(i int) tea.Cmd {
	f.focused = i
	return focusInputs(f.inputs, i)
}

func (f *authForm) reset() {
	f.inputs[fieldPassword].SetValue("")
}

func (f *authForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (m *Model) authKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.auth
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return f.focus(cycle(f.focused, 1, f.fields()))
	case tea.KeyShiftTab, tea.KeyUp:
		return f.focus(cycle(f.focused, -1, f.fields()))
	case tea.KeyCtrlR:
		f.registering = !f.registering
		if f.focused >= f.fields() {
			return f.focus(0)
		}
		return nil
	case tea.KeyEnter:
		if m.busy {
			return nil
		}
		return m.submitAuth()
	}
	return updateFocused(f.inputs, f.focused, msg)
}

func (m *Model) submitAuth() tea.Cmd {
	f := &m.auth
	email := f.value(fieldEmail)
	password := f.inputs[fieldPassword].Value()
	name := f.value(fieldName)

	if email == "" || password == "" || (f.registering && name == "") {
		m.setStatus(app.Result{Outcome: app.Failed, Message: "Please fill in every field."})
		return nil
	}

	m.busy = true
	if f.registering {
		return run(func(ctx context.Context) tea.Msg {
			res, err := m.ctrl.Register(ctx, name, email, password)
			return resultMsg{res: res, err: err}
		})
	}
	return run(func(ctx context.Context) tea.Msg {
		res, err := m.ctrl.Login(ctx, email, password)
		return resultMsg{res: res, err: err}
	})
}

func (m *Model) authView() (string, string) {
	f := &m.auth
	title := "Sign in"
	if f.registering {
		title = "Create an account"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	for i := 0; i < f.fields(); i++ {
		b.WriteString(f.inputs[i].View() + "\n")
	}
	toggle := "ctrl+r: create account"
	if f.registering {
		toggle = "ctrl+r: sign in instead"
	}
	return b.String(), "tab: next field • enter: submit • " + toggle + " • ctrl+c: quit"
}

const (
	fieldGoals = iota
	fieldSchedule
	fieldEquipment
	fieldExperience
)

type onboardingForm struct {
	inputs  []textinput.Model
	focused int
}

func newOnboardingForm() onboardingForm {
	return onboardingForm{
		inputs: []textinput.Model{
			newInput("Goals:       ", "strength, muscle_gain"),
			newInput("Schedule:    ", "3-4 days/week"),
			newInput("Equipment:   ", "barbell, dumbbells, bench"),
			newInput("Experience:  ", "beginner | intermediate | advanced"),
		},
	}
}

func (f *onboardingForm) focus(i int) tea.Cmd {
	f.focused = i
	return focusInputs(f.inputs, i)
}

func (f *onboardingForm) answers() models.Onboarding {
	return models.Onboarding{
		Goals:           splitList(f.inputs[fieldGoals].Value()),
		Schedule:        strings.TrimSpace(f.inputs[fieldSchedule].Value()),
		Equipment:       splitList(f.inputs[fieldEquipment].Value()),
		ExperienceLevel: strings.ToLower(strings.TrimSpace(f.inputs[fieldExperience].Value())),
	}
}

func (m *Model) onboardingKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.onboard
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return f.focus(cycle(f.focused, 1, len(f.inputs)))
	case tea.KeyShiftTab, tea.KeyUp:
		return f.focus(cycle(f.focused, -1, len(f.inputs)))
	case tea.KeyEnter:
		if m.busy {
			return nil
		}
		answers := f.answers()
		m.busy = true
		return run(func(ctx context.Context) tea.Msg {
			res, err := m.ctrl.SubmitOnboarding(ctx, answers)
			return resultMsg{res: res, err: err}
		})
	}
	return updateFocused(f.inputs, f.focused, msg)
}

func (m *Model) onboardingView() (string, string) {
	f := &m.onboard
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tell us about your training") + "\n\n")
	for _, in := range f.inputs {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("Separate goals and equipment with commas."))
	return b.String(), "tab: next field • enter: save • ctrl+c: quit"
}
