package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/view"
)

func (m *Model) dashboardKey(msg tea.KeyMsg) tea.Cmd {
	if m.busy {
		return nil
	}
	switch msg.String() {
	case "q":
		return tea.Quit
	case "t", "s":
		return m.templatesCmd()
	case "h":
		return m.historyCmd(1)
	case "r":
		return m.refreshCmd()
	case "p":
		return m.tipsCmd()
	case "l":
		m.busy = true
		return run(func(ctx context.Context) tea.Msg {
			res, err := m.ctrl.Logout(ctx)
			return resultMsg{res: res, err: err}
		})
	}
	return nil
}

func (m *Model) dashboardView() (string, string) {
	st := m.ctrl.Dashboard()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total workouts", st.Total),
		statCard("This week", st.Week),
		statCard("Day streak", st.Streak),
	)

	var b strings.Builder
	name := "there"
	if u := m.ctrl.State().User(); u != nil && u.Name != "" {
		name = u.Name
	}
	b.WriteString(fmt.Sprintf("Welcome back, %s!\n\n", name))
	b.WriteString(cards + "\n")
	if len(m.tips) > 0 {
		b.WriteString("\n" + titleStyle.Render("Tips") + "\n")
		for _, tip := range m.tips {
			b.WriteString("  • " + wrapText(tip, m.contentWidth()-4, "    ") + "\n")
		}
	}
	return b.String(), "s: start workout • h: history • p: tips • r: refresh • l: log out • q: quit"
}

func statCard(title string, value int) string {
	return cardStyle.Render(mutedStyle.Render(title) + "\n" + cursorStyle.Render(fmt.Sprint(value)))
}

func (m *Model) templatesKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.tplCursor = cycle(m.tplCursor, -1, len(m.templates))
	case "down", "j":
		m.tplCursor = cycle(m.tplCursor, 1, len(m.templates))
	case "esc", "q":
		m.show(view.Dashboard)
	case "enter":
		if len(m.templates) == 0 {
			return nil
		}
		return m.startWorkout(m.templates[m.tplCursor])
	}
	return nil
}

func (m *Model) templatesView() (string, string) {
	if len(m.templates) == 0 {
		return "No templates available.", "esc: back"
	}
	width := m.contentWidth()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a template") + "\n\n")
	for i, t := range m.templates {
		line := fmt.Sprintf("%s  (%d exercises)", t.Name, len(t.Exercises))
		if i == m.tplCursor {
			b.WriteString(cursorStyle.Render("> "+truncate(line, width-2)) + "\n")
			if t.Description != "" {
				b.WriteString("  " + mutedStyle.Render(wrapText(t.Description, width-2, "  ")) + "\n")
			}
			for _, te := range t.Exercises {
				b.WriteString(mutedStyle.Render(fmt.Sprintf("    %s %d x %s",
					padRight(truncate(te.Exercise.Name, 28), 28), te.Sets, te.RepsRange)) + "\n")
			}
			continue
		}
		b.WriteString("  " + truncate(line, width-2) + "\n")
	}
	return b.String(), "↑/↓: move • enter: start • esc: back"
}

func (m *Model) historyKey(msg tea.KeyMsg) tea.Cmd {
	if m.detail != nil {
		if msg.String() == "esc" || msg.String() == "q" || msg.String() == "backspace" {
			m.detail = nil
		}
		return nil
	}
	if m.busy {
		return nil
	}
	switch msg.String() {
	case "up", "k":
		m.histCursor = cycle(m.histCursor, -1, len(m.history))
	case "down", "j":
		m.histCursor = cycle(m.histCursor, 1, len(m.history))
	case "n", "right":
		if len(m.history) == HistoryPageSize {
			return m.historyCmd(m.page + 1)
		}
	case "p", "left":
		if m.page > 1 {
			return m.historyCmd(m.page - 1)
		}
	case "enter":
		if len(m.history) > 0 {
			return m.detailCmd(m.history[m.histCursor].ID)
		}
	case "esc", "q":
		m.show(view.Dashboard)
	}
	return nil
}

func (m *Model) historyView() (string, string) {
	if m.detail != nil {
		return m.detailView(m.detail), "esc: back to history"
	}
	if len(m.history) == 0 {
		return "No workouts yet. Start one from the dashboard.", "esc: back"
	}

	width := m.contentWidth()
	nameWidth := max(12, width-32)
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("History (page %d)", m.page)) + "\n\n")
	for i := range m.history {
		w := &m.history[i]
		line := fmt.Sprintf("%s  %s  %3d min  %2d sets",
			padRight(truncate(w.Title(), nameWidth), nameWidth), shortDate(w), w.DurationMinutes, len(w.Sets))
		if i == m.histCursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String(), "↑/↓: move • enter: details • n/p: page • esc: back"
}

func (m *Model) detailView(w *models.CompletedWorkout) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(w.Title()) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s • %d min", shortDate(w), w.DurationMinutes)) + "\n\n")
	for _, name := range w.ExerciseNames() {
		b.WriteString(name + "\n")
		for _, s := range w.Sets {
			if s.Exercise.Name != name {
				continue
			}
			b.WriteString("  " + formatSet(s.SetNumber, s.Weight, s.Reps, s.RPE) + "\n")
		}
	}
	if w.Notes != "" {
		b.WriteString("\n" + mutedStyle.Render(wrapText(w.Notes, m.contentWidth(), "")) + "\n")
	}
	return b.String()
}

func shortDate(w *models.CompletedWorkout) string {
	t, err := w.Time()
	if err != nil {
		return padRight(truncate(w.Date, 16), 16)
	}
	return t.Local().Format("Jan 02 2006 15:04")
}

func formatSet(number int, weight float64, reps int, rpe *int) string {
	s := fmt.Sprintf("Set %d: %g x %d", number, weight, reps)
	if rpe != nil {
		s += fmt.Sprintf(" @ RPE %d", *rpe)
	}
	return s
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(20, m.width-2)
}
