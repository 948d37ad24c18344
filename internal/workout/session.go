// Package workout implements the live workout lifecycle: starting from a
// template, logging sets, and finishing or cancelling.
package workout

import (
	"errors"
	"sync"
	"time"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// State is a workout lifecycle state.
type State int

const (
	Idle State = iota
	InProgress
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	ErrNotInProgress    = errors.New("no workout in progress")
	ErrNoSets           = errors.New("please log at least one set")
	ErrFinishInProgress = errors.New("workout is already being saved")
)

// UnknownExercise is the name given to sets whose exercise is not in the
// workout's template.
const UnknownExercise = "Exercise"

type slot struct{ exercise, set int }

// Session is one in-progress workout. Its methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	template  models.WorkoutTemplate
	started   time.Time
	sets      []models.LoggedSet
	logged    map[slot]bool
	state     State
	finishing bool
	timer     *Timer
}

// Start begins a workout from tpl at now.
func Start(tpl models.WorkoutTemplate, now time.Time) *Session {
	return &Session{
		template: tpl,
		started:  now,
		logged:   map[slot]bool{},
		state:    InProgress,
	}
}

// StartTimer attaches a display timer that ticks until the workout leaves
// InProgress. onTick must not call back into the session.
func (s *Session) StartTimer(interval time.Duration, onTick func(time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress || s.timer != nil {
		return
	}
	s.timer = StartTimer(s.started, interval, onTick)
}

// Template returns the template the workout was started from.
func (s *Session) Template() models.WorkoutTemplate {
	return s.template
}

// StartedAt returns the start time.
func (s *Session) StartedAt() time.Time {
	return s.started
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sets returns a copy of the logged sets in logging order.
func (s *Session) Sets() []models.LoggedSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LoggedSet, len(s.sets))
	copy(out, s.sets)
	return out
}

// Logged reports whether the given set row has been logged already. Callers
// use it to disable the row; LogSet itself accepts repeats.
func (s *Session) Logged(exerciseIndex, setIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logged[slot{exerciseIndex, setIndex}]
}

// LogSet validates in and appends a set for the given template row.
// set_number is setIndex+1.
func (s *Session) LogSet(exerciseIndex, setIndex int, exerciseID int64, in SetInput) (models.LoggedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return models.LoggedSet{}, ErrNotInProgress
	}
	if exerciseIndex < 0 || exerciseIndex >= len(s.template.Exercises) {
		return models.LoggedSet{}, ErrUnknownSet
	}
	if setIndex < 0 || setIndex >= s.template.Exercises[exerciseIndex].Sets {
		return models.LoggedSet{}, ErrUnknownSet
	}

	p, err := in.parse()
	if err != nil {
		return models.LoggedSet{}, err
	}

	set := models.LoggedSet{
		ExerciseID: exerciseID,
		SetNumber:  setIndex + 1,
		Weight:     p.weight,
		Reps:       p.reps,
		RPE:        p.rpe,
	}
	s.sets = append(s.sets, set)
	s.logged[slot{exerciseIndex, setIndex}] = true
	return set, nil
}

// Elapsed returns the time since start.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.started)
}

// DurationMinutes is the whole number of minutes since start.
func (s *Session) DurationMinutes(now time.Time) int {
	return int(s.Elapsed(now) / time.Minute)
}

// BeginFinish reserves the session for finalisation. It fails while no sets
// are logged or another finish is underway. Pair with Complete or AbortFinish.
func (s *Session) BeginFinish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.state != InProgress:
		return ErrNotInProgress
	case s.finishing:
		return ErrFinishInProgress
	case len(s.sets) == 0:
		return ErrNoSets
	}
	s.finishing = true
	return nil
}

// AbortFinish releases a failed finish; the workout stays in progress.
func (s *Session) AbortFinish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishing = false
}

// Complete marks the workout finished and stops its timer.
func (s *Session) Complete() {
	s.leave(Completed)
}

// Cancel discards the workout and stops its timer. It reports false if the
// workout had already left InProgress.
func (s *Session) Cancel() bool {
	return s.leave(Cancelled)
}

func (s *Session) leave(to State) bool {
	s.mu.Lock()
	if s.state != InProgress {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.finishing = false
	t := s.timer
	s.timer = nil
	s.mu.Unlock()

	// Stop outside the lock so a tick waiting on the session can drain.
	t.Stop()
	return true
}

// Request builds the backend payload for the logged sets.
func (s *Session) Request(now time.Time) models.LogWorkoutRequest {
	req := models.LogWorkoutRequest{
		DurationMinutes: s.DurationMinutes(now),
		Sets:            s.Sets(),
	}
	if s.template.ID != 0 {
		id := s.template.ID
		req.TemplateID = &id
	}
	return req
}

// LocalRecord builds a history record for a workout kept on this device.
// Exercise ids are resolved through the template.
func (s *Session) LocalRecord(id string, now time.Time) models.CompletedWorkout {
	sets := s.Sets()
	tpl := s.template
	rec := models.CompletedWorkout{
		ID:              models.RecordID(id),
		Template:        &tpl,
		Date:            models.FormatWorkoutDate(now),
		DurationMinutes: s.DurationMinutes(now),
		Sets:            make([]models.CompletedSet, 0, len(sets)),
	}
	for _, set := range sets {
		ex, ok := tpl.Exercise(set.ExerciseID)
		if !ok {
			ex = models.Exercise{ID: set.ExerciseID, Name: UnknownExercise}
		}
		rec.Sets = append(rec.Sets, models.CompletedSet{
			Exercise:  ex,
			SetNumber: set.SetNumber,
			Weight:    set.Weight,
			Reps:      set.Reps,
			RPE:       set.RPE,
		})
	}
	return rec
}
