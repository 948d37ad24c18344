package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaseenp24/workoutbuddy/internal/catalog"
	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/tips"
)

// DashboardPageSize is how many recent workouts feed the dashboard.
const DashboardPageSize = 100

// ErrWorkoutNotFound is returned when a history record does not exist.
var ErrWorkoutNotFound = errors.New("workout not found")

// offline reports whether reads should skip the backend entirely: a local
// session has no token to authenticate with.
func (c *Controller) offline() bool {
	return c.fallback && c.state.Token() == ""
}

// Templates lists workout templates. Without a backend connection in
// fallback mode it returns the built-in mock templates.
func (c *Controller) Templates(ctx context.Context) ([]models.WorkoutTemplate, Result, error) {
	if !c.offline() {
		tpls, err := c.backend.Templates(ctx)
		if err == nil {
			return tpls, Result{Outcome: Remote}, nil
		}
		if !c.degradable(err) {
			res, err := failure(err, "Failed to load templates")
			return nil, res, err
		}
		c.logger.Warn("loading templates failed, using built-in templates", "error", err)
	}
	return catalog.MockTemplates(), Result{Outcome: Local, Message: "Showing built-in templates."}, nil
}

// Exercises lists exercises in category, or all of them.
func (c *Controller) Exercises(ctx context.Context, category string) ([]models.Exercise, Result, error) {
	if !c.offline() {
		ex, err := c.backend.Exercises(ctx, category)
		if err == nil {
			return ex, Result{Outcome: Remote}, nil
		}
		if !c.degradable(err) {
			res, err := failure(err, "Failed to load exercises")
			return nil, res, err
		}
		c.logger.Warn("loading exercises failed, using built-in library", "error", err)
	}
	var out []models.Exercise
	for _, e := range catalog.Exercises {
		if category != "" && e.Category != category {
			continue
		}
		if ex, ok := catalog.Lookup(e.Name); ok {
			out = append(out, ex)
		}
	}
	return out, Result{Outcome: Local}, nil
}

// History returns a page of workout history, newest first. Zero page or
// perPage use the backend defaults.
func (c *Controller) History(ctx context.Context, page, perPage int) ([]models.CompletedWorkout, Result, error) {
	if !c.offline() {
		resp, err := c.backend.History(ctx, page, perPage)
		if err == nil {
			return resp.Workouts, Result{Outcome: Remote}, nil
		}
		if !c.degradable(err) {
			res, err := failure(err, "Failed to load workout history")
			return nil, res, err
		}
		c.logger.Warn("loading history failed, using local history", "error", err)
	}

	list, err := c.mirror.History(ctx, c.state.Email())
	if err != nil {
		return nil, Result{Outcome: Failed, Message: "Failed to load workout history"}, fmt.Errorf("reading local history: %w", err)
	}
	return paginate(list, page, perPage), Result{Outcome: Local}, nil
}

func paginate(list []models.CompletedWorkout, page, perPage int) []models.CompletedWorkout {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return nil
	}
	end := min(start+perPage, len(list))
	return list[start:end]
}

// RefreshDashboard recomputes the dashboard from recent history.
func (c *Controller) RefreshDashboard(ctx context.Context) (dashboard.Stats, Result, error) {
	var list []models.CompletedWorkout
	res := Result{Outcome: Remote}

	if !c.offline() {
		resp, err := c.backend.History(ctx, 1, DashboardPageSize)
		switch {
		case err == nil:
			list = resp.Workouts
		case c.degradable(err):
			c.logger.Warn("loading dashboard failed, using local history", "error", err)
			res.Outcome = Local
		default:
			r, err := failure(err, "Failed to load dashboard")
			return c.Dashboard(), r, err
		}
	} else {
		res.Outcome = Local
	}

	if res.Outcome == Local {
		var err error
		list, err = c.mirror.History(ctx, c.state.Email())
		if err != nil {
			return c.Dashboard(), Result{Outcome: Failed, Message: "Failed to load dashboard"}, fmt.Errorf("reading local history: %w", err)
		}
	}

	st := dashboard.Compute(list, c.now())
	c.setStats(st)
	return st, res, nil
}

// WorkoutDetail returns one history record. Local records are looked up in
// the mirror.
func (c *Controller) WorkoutDetail(ctx context.Context, id models.RecordID) (*models.CompletedWorkout, error) {
	if n, ok := id.Int(); ok && !c.offline() {
		w, err := c.backend.Workout(ctx, n)
		if err == nil {
			return w, nil
		}
		if !c.degradable(err) {
			return nil, err
		}
	}

	list, err := c.mirror.History(ctx, c.state.Email())
	if err != nil {
		return nil, fmt.Errorf("reading local history: %w", err)
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrWorkoutNotFound
}

// ProfileTips returns training tips for the signed-in user's answers.
func (c *Controller) ProfileTips(ctx context.Context) ([]string, Result, error) {
	profile := tips.FromUser(c.state.User())
	if !c.offline() {
		out, err := c.backend.ProfileTips(ctx, &profile)
		if err == nil && len(out) > 0 {
			return out, Result{Outcome: Remote}, nil
		}
		if err != nil && !c.degradable(err) {
			res, err := failure(err, "Failed to load tips")
			return nil, res, err
		}
	}
	return tips.For(profile), Result{Outcome: Local}, nil
}
