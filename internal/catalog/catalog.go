// Package catalog is the built-in exercise library and the two stock
// templates. The backend seeds its database from it and the client uses it
// as the offline template set.
package catalog

import "github.com/yaseenp24/workoutbuddy/internal/models"

// Exercises lists the stock exercises. Their 1-based position is the id the
// backend assigns when seeding an empty database.
var Exercises = []models.Exercise{
	{Name: "Bench Press", Category: "push", MuscleGroups: list("chest", "triceps", "shoulders"), EquipmentNeeded: list("barbell", "bench")},
	{Name: "Overhead Press", Category: "push", MuscleGroups: list("shoulders", "triceps"), EquipmentNeeded: list("barbell")},
	{Name: "Incline Dumbbell Press", Category: "push", MuscleGroups: list("chest", "shoulders"), EquipmentNeeded: list("dumbbells", "bench")},
	{Name: "Dips", Category: "push", MuscleGroups: list("chest", "triceps"), EquipmentNeeded: list("dip_bars")},

	{Name: "Pull-ups", Category: "pull", MuscleGroups: list("lats", "biceps"), EquipmentNeeded: list("pull_up_bar")},
	{Name: "Barbell Rows", Category: "pull", MuscleGroups: list("lats", "rhomboids", "biceps"), EquipmentNeeded: list("barbell")},
	{Name: "Lat Pulldowns", Category: "pull", MuscleGroups: list("lats", "biceps"), EquipmentNeeded: list("cable_machine")},
	{Name: "Face Pulls", Category: "pull", MuscleGroups: list("rear_delts", "rhomboids"), EquipmentNeeded: list("cable_machine")},

	{Name: "Squats", Category: "legs", MuscleGroups: list("quads", "glutes"), EquipmentNeeded: list("barbell")},
	{Name: "Deadlifts", Category: "legs", MuscleGroups: list("hamstrings", "glutes", "lower_back"), EquipmentNeeded: list("barbell")},
	{Name: "Romanian Deadlifts", Category: "legs", MuscleGroups: list("hamstrings", "glutes"), EquipmentNeeded: list("barbell")},
	{Name: "Leg Press", Category: "legs", MuscleGroups: list("quads", "glutes"), EquipmentNeeded: list("leg_press_machine")},

	{Name: "Barbell Curls", Category: "upper", MuscleGroups: list("biceps"), EquipmentNeeded: list("barbell")},
	{Name: "Close-Grip Bench Press", Category: "upper", MuscleGroups: list("triceps", "chest"), EquipmentNeeded: list("barbell", "bench")},

	{Name: "Calf Raises", Category: "lower", MuscleGroups: list("calves"), EquipmentNeeded: list("none")},
	{Name: "Lunges", Category: "lower", MuscleGroups: list("quads", "glutes"), EquipmentNeeded: list("dumbbells")},
}

// Slot is one exercise prescription inside a stock template.
type Slot struct {
	Exercise  string
	Sets      int
	RepsRange string
}

// Template is a stock template definition.
type Template struct {
	Name        string
	Type        string
	Description string
	Slots       []Slot
}

// Templates lists the stock templates in seed order.
var Templates = []Template{
	{
		Name:        "Push/Pull/Legs",
		Type:        "push_pull_legs",
		Description: "A 3-day split focusing on pushing movements, pulling movements, and leg exercises",
		Slots: []Slot{
			{"Bench Press", 4, "6-8"},
			{"Overhead Press", 3, "8-10"},
			{"Incline Dumbbell Press", 3, "10-12"},
			{"Dips", 3, "12-15"},
		},
	},
	{
		Name:        "Upper/Lower",
		Type:        "upper_lower",
		Description: "A 2-day split alternating between upper body and lower body exercises",
		Slots: []Slot{
			{"Bench Press", 4, "6-8"},
			{"Barbell Rows", 4, "6-8"},
			{"Overhead Press", 3, "8-10"},
			{"Pull-ups", 3, "8-12"},
		},
	},
}

// Lookup returns the stock exercise with the given name and its seed id.
func Lookup(name string) (models.Exercise, bool) {
	for i, e := range Exercises {
		if e.Name == name {
			e.ID = int64(i + 1)
			return e, true
		}
	}
	return models.Exercise{}, false
}

// MockTemplates materialises the stock templates with seed ids, flagged as
// offline-only.
func MockTemplates() []models.WorkoutTemplate {
	out := make([]models.WorkoutTemplate, 0, len(Templates))
	for i, t := range Templates {
		tpl := models.WorkoutTemplate{
			ID:          int64(i + 1),
			Name:        t.Name,
			Type:        t.Type,
			Description: t.Description,
			Mock:        true,
		}
		for j, s := range t.Slots {
			ex, ok := Lookup(s.Exercise)
			if !ok {
				continue
			}
			tpl.Exercises = append(tpl.Exercises, models.TemplateExercise{
				Exercise:  ex,
				Sets:      s.Sets,
				RepsRange: s.RepsRange,
				Order:     j + 1,
			})
		}
		out = append(out, tpl)
	}
	return out
}

func list(items ...string) models.StringList {
	return models.StringList(items)
}
