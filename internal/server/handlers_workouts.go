package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/storage"
)

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		s.internalError(w, "listing templates", err)
		return
	}
	writeJSON(w, http.StatusOK, models.TemplatesResponse{Templates: templates})
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.internalError(w, "listing exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, models.ExercisesResponse{Exercises: exercises})
}

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	var req models.LogWorkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateLog(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := s.store.InsertWorkoutLog(r.Context(), userIDFromContext(r), req, s.now())
	if errors.Is(err, storage.ErrInvalidReference) {
		writeError(w, http.StatusBadRequest, "Unknown template or exercise")
		return
	}
	if err != nil {
		s.internalError(w, "logging workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.WorkoutResponse{
		Message: "Workout logged successfully",
		Workout: *workout,
	})
}

// validateLog applies the same set rules the client enforces before
// anything reaches the database.
func validateLog(req models.LogWorkoutRequest) error {
	if req.DurationMinutes < 0 {
		return errors.New("duration_minutes must not be negative")
	}
	for i, s := range req.Sets {
		switch {
		case s.ExerciseID <= 0:
			return fmt.Errorf("set %d: exercise_id is required", i+1)
		case s.SetNumber <= 0:
			return fmt.Errorf("set %d: set_number must be positive", i+1)
		case s.Reps <= 0:
			return fmt.Errorf("set %d: reps must be positive", i+1)
		case s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0):
			return fmt.Errorf("set %d: weight must be a non-negative number", i+1)
		case s.RPE != nil && (*s.RPE < 1 || *s.RPE > 10):
			return fmt.Errorf("set %d: rpe must be between 1 and 10", i+1)
		}
	}
	return nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	perPage := queryInt(q.Get("per_page"), storage.DefaultPerPage)

	history, err := s.store.QueryHistory(r.Context(), userIDFromContext(r), page, perPage)
	if err != nil {
		s.internalError(w, "querying history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Workout not found")
		return
	}
	workout, err := s.store.GetWorkoutLog(r.Context(), userIDFromContext(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Workout not found")
		return
	}
	if err != nil {
		s.internalError(w, "loading workout", err)
		return
	}
	writeJSON(w, http.StatusOK, models.WorkoutResponse{Workout: *workout})
}

// queryInt parses a query parameter, returning def when it is missing or
// malformed.
func queryInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
