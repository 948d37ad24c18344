package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
)

const nameWidth = 28

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// sourceNote marks data that did not come from the backend.
func sourceNote(w io.Writer, res app.Result) {
	if res.Outcome != app.Local {
		return
	}
	note := res.Message
	if note == "" {
		note = "Showing data stored on this device."
	}
	fmt.Fprintln(w, note)
}

func column(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, nameWidth, "…"), nameWidth)
}

func printDashboard(w io.Writer, st dashboard.Stats, res app.Result) error {
	if jsonOutput {
		return writeJSON(w, st)
	}
	sourceNote(w, res)
	fmt.Fprintf(w, "Total workouts  %d\n", st.Total)
	fmt.Fprintf(w, "This week       %d\n", st.Week)
	fmt.Fprintf(w, "Day streak      %d\n", st.Streak)
	return nil
}

func printTemplates(w io.Writer, list []models.WorkoutTemplate, res app.Result) error {
	if jsonOutput {
		return writeJSON(w, list)
	}
	sourceNote(w, res)
	for i, t := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", t.Name)
		if t.Description != "" {
			fmt.Fprintf(w, "  %s\n", t.Description)
		}
		for _, te := range t.Exercises {
			fmt.Fprintf(w, "  %s %d x %s\n", column(te.Exercise.Name), te.Sets, te.RepsRange)
		}
	}
	return nil
}

func printExercises(w io.Writer, list []models.Exercise, res app.Result) error {
	if jsonOutput {
		return writeJSON(w, list)
	}
	sourceNote(w, res)
	if len(list) == 0 {
		fmt.Fprintln(w, "No exercises found.")
		return nil
	}
	for _, ex := range list {
		fmt.Fprintf(w, "%s %-6s %s\n", column(ex.Name), ex.Category, strings.Join(ex.MuscleGroups, ", "))
	}
	return nil
}

func printHistory(w io.Writer, list []models.CompletedWorkout, page int, res app.Result) error {
	if jsonOutput {
		return writeJSON(w, list)
	}
	sourceNote(w, res)
	if len(list) == 0 {
		if page > 1 {
			fmt.Fprintf(w, "No workouts on page %d.\n", page)
		} else {
			fmt.Fprintln(w, "No workouts yet. Start one from a template!")
		}
		return nil
	}
	for _, cw := range list {
		date := cw.Date
		if t, err := cw.Time(); err == nil {
			date = t.Local().Format("Mon Jan 2 2006")
		}
		fmt.Fprintf(w, "%-10s %s %-15s %3d min  %d sets\n",
			truncateID(cw.ID), column(cw.Title()), date, cw.DurationMinutes, len(cw.Sets))
	}
	return nil
}

func truncateID(id models.RecordID) string {
	return runewidth.Truncate(string(id), 10, "…")
}

func printWorkout(w io.Writer, cw *models.CompletedWorkout) error {
	if jsonOutput {
		return writeJSON(w, cw)
	}
	fmt.Fprintf(w, "%s  (%s)\n", cw.Title(), cw.ID)
	if t, err := cw.Time(); err == nil {
		fmt.Fprintf(w, "%s, %d min\n", t.Local().Format("Mon Jan 2 2006 15:04"), cw.DurationMinutes)
	}
	if cw.Notes != "" {
		fmt.Fprintf(w, "%s\n", cw.Notes)
	}
	for _, s := range cw.Sets {
		fmt.Fprintf(w, "  %s set %d  %6.1f x %-3d RPE %s\n",
			column(s.Exercise.Name), s.SetNumber, s.Weight, s.Reps, formatRPE(s.RPE))
	}
	return nil
}

func printTips(w io.Writer, list []string, res app.Result) error {
	if jsonOutput {
		return writeJSON(w, list)
	}
	sourceNote(w, res)
	for _, tip := range list {
		fmt.Fprintf(w, "- %s\n", tip)
	}
	return nil
}
