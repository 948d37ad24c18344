// Package dashboard computes the summary numbers shown on the home screen.
package dashboard

import (
	"time"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// StreakWindow is how many days back the streak scan looks.
const StreakWindow = 30

// Stats are the dashboard aggregates.
type Stats struct {
	Total  int `json:"total_workouts"`
	Week   int `json:"this_week"`
	Streak int `json:"streak_days"`
}

// Compute aggregates workouts as of now. Week counts workouts dated no
// earlier than exactly seven days before now. Streak walks back from today by
// local calendar day, stopping at the first day without a workout; a missing
// today does not stop it. Workouts with unparseable dates only count toward
// Total.
func Compute(workouts []models.CompletedWorkout, now time.Time) Stats {
	st := Stats{Total: len(workouts)}

	weekAgo := now.AddDate(0, 0, -7)
	days := make(map[civilDate]bool, len(workouts))
	for i := range workouts {
		t, err := workouts[i].Time()
		if err != nil {
			continue
		}
		if !t.Before(weekAgo) {
			st.Week++
		}
		days[dateOf(t.In(now.Location()))] = true
	}

	today := now
	for i := 0; i < StreakWindow; i++ {
		day := dateOf(today.AddDate(0, 0, -i))
		if days[day] {
			st.Streak++
		} else if i > 0 {
			break
		}
	}
	return st
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{y, m, d}
}
