package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/view"
	"github.com/yaseenp24/workoutbuddy/internal/workout"
)

const (
	fieldWeight = iota
	fieldReps
	fieldRPE
)

type loggingState struct {
	inputs        []textinput.Model
	focused       int
	exercise      int
	set           int
	elapsed       time.Duration
	confirmCancel bool
}

func newSetInputs() []textinput.Model {
	weight := newInput("Weight: ", "0")
	weight.CharLimit = 8
	weight.Width = 8
	reps := newInput("Reps: ", "8")
	reps.CharLimit = 4
	reps.Width = 4
	rpe := newInput("RPE: ", "")
	rpe.CharLimit = 2
	rpe.Width = 3
	return []textinput.Model{weight, reps, rpe}
}

func (m *Model) startWorkout(tpl models.WorkoutTemplate) tea.Cmd {
	if _, err := m.ctrl.StartWorkout(tpl); err != nil {
		m.setStatus(app.Result{Outcome: app.Failed, Message: err.Error()})
		return nil
	}
	m.logging = loggingState{inputs: newSetInputs(), focused: fieldReps}
	m.setStatus(app.Result{})
	return focusInputs(m.logging.inputs, fieldReps)
}

func (m *Model) loggingKey(msg tea.KeyMsg) tea.Cmd {
	w := m.ctrl.State().Workout()
	if w == nil {
		return nil
	}
	l := &m.logging
	tpl := w.Template()

	if l.confirmCancel {
		switch msg.String() {
		case "y", "Y":
			l.confirmCancel = false
			if m.busy {
				return nil
			}
			m.busy = true
			// Cancelling joins the timer goroutine, which may be blocked
			// delivering a tick to this loop.
			return run(func(context.Context) tea.Msg {
				if _, err := m.ctrl.CancelWorkout(nil); err != nil {
					return resultMsg{res: app.Result{Outcome: app.Failed, Message: err.Error()}, err: err}
				}
				return resultMsg{res: app.Result{Outcome: app.Local, Message: "Workout cancelled.", Next: view.Dashboard}}
			})
		default:
			l.confirmCancel = false
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		l.confirmCancel = true
		return nil
	case tea.KeyUp:
		l.exercise = cycle(l.exercise, -1, len(tpl.Exercises))
		l.set = min(l.set, max(0, setsOf(tpl, l.exercise)-1))
		return nil
	case tea.KeyDown:
		l.exercise = cycle(l.exercise, 1, len(tpl.Exercises))
		l.set = min(l.set, max(0, setsOf(tpl, l.exercise)-1))
		return nil
	case tea.KeyCtrlLeft, tea.KeyShiftLeft:
		l.set = cycle(l.set, -1, setsOf(tpl, l.exercise))
		return nil
	case tea.KeyCtrlRight, tea.KeyShiftRight:
		l.set = cycle(l.set, 1, setsOf(tpl, l.exercise))
		return nil
	case tea.KeyTab:
		l.focused = cycle(l.focused, 1, len(l.inputs))
		return focusInputs(l.inputs, l.focused)
	case tea.KeyShiftTab:
		l.focused = cycle(l.focused, -1, len(l.inputs))
		return focusInputs(l.inputs, l.focused)
	case tea.KeyEnter:
		m.logCurrentSet(w)
		return nil
	case tea.KeyCtrlF:
		if m.busy {
			return nil
		}
		m.busy = true
		return run(func(ctx context.Context) tea.Msg {
			res, err := m.ctrl.FinishWorkout(ctx)
			return resultMsg{res: res, err: err}
		})
	}
	return updateFocused(l.inputs, l.focused, msg)
}

func setsOf(tpl models.WorkoutTemplate, i int) int {
	if i < 0 || i >= len(tpl.Exercises) {
		return 0
	}
	return tpl.Exercises[i].Sets
}

// logCurrentSet records the inputs against the selected slot and advances
// to the next open slot.
func (m *Model) logCurrentSet(w *workout.Session) {
	l := &m.logging
	tpl := w.Template()
	if len(tpl.Exercises) == 0 {
		return
	}
	te := tpl.Exercises[l.exercise]
	in := workout.SetInput{
		Weight: l.inputs[fieldWeight].Value(),
		Reps:   l.inputs[fieldReps].Value(),
		RPE:    l.inputs[fieldRPE].Value(),
	}
	set, err := m.ctrl.LogSet(l.exercise, l.set, te.Exercise.ID, in)
	if err != nil {
		m.setStatus(app.Result{Outcome: app.Failed, Message: err.Error()})
		return
	}
	m.setStatus(app.Result{Outcome: app.Remote, Message: fmt.Sprintf("%s: %s",
		te.Exercise.Name, formatSet(set.SetNumber, set.Weight, set.Reps, set.RPE))})
	l.inputs[fieldRPE].SetValue("")
	l.exercise, l.set = nextOpenSlot(w, l.exercise, l.set)
}

// nextOpenSlot returns the first unlogged slot after (ei, si), wrapping
// around. It stays put when every slot is logged.
func nextOpenSlot(w *workout.Session, ei, si int) (int, int) {
	tpl := w.Template()
	type slot struct{ e, s int }
	var slots []slot
	start := -1
	for e, te := range tpl.Exercises {
		for s := 0; s < te.Sets; s++ {
			if e == ei && s == si {
				start = len(slots)
			}
			slots = append(slots, slot{e, s})
		}
	}
	for k := 1; k <= len(slots); k++ {
		c := slots[(start+k+len(slots))%len(slots)]
		if !w.Logged(c.e, c.s) {
			return c.e, c.s
		}
	}
	return ei, si
}

func (m *Model) loggingView() (string, string) {
	w := m.ctrl.State().Workout()
	if w == nil {
		return "No workout in progress.", "esc: back"
	}
	l := &m.logging
	tpl := w.Template()

	latest := map[[2]int64]models.LoggedSet{}
	for _, s := range w.Sets() {
		latest[[2]int64{s.ExerciseID, int64(s.SetNumber)}] = s
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(tpl.Name) + "  " +
		mutedStyle.Render(workout.FormatElapsed(l.elapsed)) + "\n\n")

	nameWidth := 26
	for i, te := range tpl.Exercises {
		name := padRight(truncate(te.Exercise.Name, nameWidth), nameWidth)
		if i == l.exercise {
			name = cursorStyle.Render("> " + name)
		} else {
			name = "  " + name
		}
		var cells []string
		for s := 0; s < te.Sets; s++ {
			cell := "[ ]"
			if w.Logged(i, s) {
				cell = doneStyle.Render("[✓]")
				if set, ok := latest[[2]int64{te.Exercise.ID, int64(s + 1)}]; ok {
					cell = doneStyle.Render(fmt.Sprintf("[%gx%d]", set.Weight, set.Reps))
				}
			}
			if i == l.exercise && s == l.set {
				cell = cursorStyle.Render("<") + cell + cursorStyle.Render(">")
			}
			cells = append(cells, cell)
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", name,
			mutedStyle.Render(fmt.Sprintf("%d x %s", te.Sets, te.RepsRange)),
			strings.Join(cells, " ")))
	}

	b.WriteString("\n")
	inputs := make([]string, len(l.inputs))
	for i := range l.inputs {
		inputs[i] = l.inputs[i].View()
	}
	b.WriteString(strings.Join(inputs, "   ") + "\n")

	if l.confirmCancel {
		b.WriteString("\n" + warnStyle.Render("Discard this workout? (y/n)") + "\n")
	}
	return b.String(), "↑/↓: exercise • shift+←/→: set • tab: field • enter: log set • ctrl+f: finish • esc: cancel"
}
