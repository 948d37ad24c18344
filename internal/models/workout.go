package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Exercise describes a single movement.
type Exercise struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category,omitempty"`
	MuscleGroups    StringList `json:"muscle_groups,omitempty"`
	EquipmentNeeded StringList `json:"equipment_needed,omitempty"`
	Instructions    string     `json:"instructions,omitempty"`
}

// TemplateExercise is one prescribed exercise within a template.
type TemplateExercise struct {
	ID        int64    `json:"id,omitempty"`
	Exercise  Exercise `json:"exercise"`
	Sets      int      `json:"sets"`
	RepsRange string   `json:"reps_range"`
	Order     int      `json:"order,omitempty"`
}

// WorkoutTemplate is an ordered list of prescribed exercises.
type WorkoutTemplate struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description"`
	Exercises   []TemplateExercise `json:"exercises"`

	// Mock marks the built-in offline templates. They never exist on the
	// backend, so workouts started from them are always kept locally.
	Mock bool `json:"-"`
}

// Exercise resolves an exercise id through the template's exercise list.
func (t *WorkoutTemplate) Exercise(id int64) (Exercise, bool) {
	for _, te := range t.Exercises {
		if te.Exercise.ID == id {
			return te.Exercise, true
		}
	}
	return Exercise{}, false
}

// LoggedSet is a single completed set inside an in-progress workout.
type LoggedSet struct {
	ExerciseID int64   `json:"exercise_id"`
	SetNumber  int     `json:"set_number"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	RPE        *int    `json:"rpe"`
}

// CompletedSet is a logged set with its exercise descriptor resolved.
type CompletedSet struct {
	ID        int64    `json:"id,omitempty"`
	Exercise  Exercise `json:"exercise"`
	SetNumber int      `json:"set_number"`
	Weight    float64  `json:"weight"`
	Reps      int      `json:"reps"`
	RPE       *int     `json:"rpe"`
}

// RecordID identifies a history record. Server records carry integer ids,
// locally created ones carry UUID strings; both are kept as text.
type RecordID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers and everything else as
// strings.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return strconv.AppendInt(nil, n, 10), nil
	}
	return json.Marshal(string(id))
}

// Int returns the numeric server id, or false for local ids.
func (id RecordID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// CompletedWorkout is a finished workout as shown in history.
type CompletedWorkout struct {
	ID              RecordID         `json:"id"`
	Template        *WorkoutTemplate `json:"template"`
	Date            string           `json:"date"`
	DurationMinutes int              `json:"duration_minutes"`
	Notes           string           `json:"notes"`
	Sets            []CompletedSet   `json:"sets"`
}

// Title is the template name, or a generic label for template-less workouts.
func (w *CompletedWorkout) Title() string {
	if w.Template != nil && w.Template.Name != "" {
		return w.Template.Name
	}
	return "Custom Workout"
}

// ExerciseNames returns the distinct exercise names in first-seen order.
func (w *CompletedWorkout) ExerciseNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range w.Sets {
		if seen[s.Exercise.Name] {
			continue
		}
		seen[s.Exercise.Name] = true
		names = append(names, s.Exercise.Name)
	}
	return names
}

// Time parses the workout date.
func (w *CompletedWorkout) Time() (time.Time, error) {
	return ParseWorkoutDate(w.Date)
}

// Timestamp layouts accepted for workout dates. RFC 3339 carries a zone;
// the others are naive timestamps read in local time.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseWorkoutDate parses an ISO 8601 workout date. Dates without a zone are
// interpreted in the local time zone.
func ParseWorkoutDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized workout date %q", s)
}

// FormatWorkoutDate renders t the way history records store dates.
func FormatWorkoutDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
