// Package tips produces short training tips from an onboarding profile.
package tips

import (
	"strings"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// Max is the most tips returned.
const Max = 5

var generic = []string{
	"Aim for 8–12 hard sets per muscle per week and log all sessions.",
	"Warm up with lighter sets, then keep working sets within 2–3 reps of failure.",
	"Progress either weight or reps each week on your main lifts.",
	"Sleep 7–9 hours and keep protein ~1.6–2.2 g/kg bodyweight.",
	"Deload 1 week every 6–8 weeks or when fatigue accumulates.",
}

// For returns up to Max rule-based tips for p. A profile that matches no
// rule gets the generic list.
func For(p models.Onboarding) []string {
	goals := models.StringList(p.Goals)
	equipment := models.StringList(p.Equipment)
	schedule := strings.ToLower(p.Schedule)
	experience := strings.ToLower(p.ExperienceLevel)

	var out []string
	if goals.Contains("muscle_gain") || goals.Contains("strength") {
		out = append(out, "Prioritize compound lifts and add small weekly load or rep increases.")
	}
	if goals.Contains("weight_loss") {
		out = append(out, "Keep rests short and add brisk walks on non-training days to raise weekly activity.")
	}
	if goals.Contains("endurance") {
		out = append(out, "Include 1–2 zone-2 cardio sessions weekly alongside resistance training.")
	}
	if equipment.Contains("cable_machine") {
		out = append(out, "Use cable moves to keep tension constant for accessories like rows and face pulls.")
	}
	if bodyweightOnly(equipment) {
		out = append(out, "Use slow eccentrics and pause reps to make bodyweight sessions more effective.")
	}
	if strings.Contains(schedule, "3-4") {
		out = append(out, "Run a simple upper/lower split across two alternating days each week.")
	}
	if experience == "beginner" || experience == "0-1 years" {
		out = append(out, "Repeat the same key lifts to build skill; keep RPE ~7–8 and track every session.")
	}

	if len(out) == 0 {
		out = append(out, generic...)
	}
	if len(out) > Max {
		out = out[:Max]
	}
	return out
}

func bodyweightOnly(equipment models.StringList) bool {
	if !equipment.Contains("bodyweight_only") {
		return false
	}
	for _, e := range equipment {
		if e != "bodyweight_only" {
			return false
		}
	}
	return true
}

// FromUser builds the onboarding answers stored on u.
func FromUser(u *models.User) models.Onboarding {
	if u == nil {
		return models.Onboarding{}
	}
	return models.Onboarding{
		Goals:           u.Goals,
		Schedule:        u.Schedule,
		Equipment:       u.Equipment,
		ExperienceLevel: u.ExperienceLevel,
	}
}
