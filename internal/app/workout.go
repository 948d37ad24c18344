package app

import (
	"context"
	"fmt"

	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/view"
	"github.com/yaseenp24/workoutbuddy/internal/workout"
)

// StartWorkout begins a workout from tpl and starts its display timer.
func (c *Controller) StartWorkout(tpl models.WorkoutTemplate) (*workout.Session, error) {
	if !c.state.Authenticated() {
		return nil, ErrNotSignedIn
	}
	w := workout.Start(tpl, c.now())
	if !c.state.SetWorkout(w) {
		return nil, ErrWorkoutInProgress
	}
	w.StartTimer(c.interval, c.tick)
	c.router.Show(view.Logging)
	c.logger.Info("workout started", "template", tpl.Name, "mock", tpl.Mock)
	return w, nil
}

// LogSet records one set of the active workout.
func (c *Controller) LogSet(exerciseIndex, setIndex int, exerciseID int64, in workout.SetInput) (models.LoggedSet, error) {
	w := c.state.Workout()
	if w == nil {
		return models.LoggedSet{}, workout.ErrNotInProgress
	}
	return w.LogSet(exerciseIndex, setIndex, exerciseID, in)
}

// CancelWorkout discards the active workout once confirm agrees. It reports
// whether the workout was cancelled.
func (c *Controller) CancelWorkout(confirm func() bool) (bool, error) {
	w := c.state.Workout()
	if w == nil {
		return false, workout.ErrNotInProgress
	}
	if confirm != nil && !confirm() {
		return false, nil
	}
	w.Cancel()
	c.state.ClearWorkout(w)
	c.router.Show(view.Dashboard)
	c.logger.Info("workout cancelled")
	return true, nil
}

// FinishWorkout saves the active workout. Workouts without a token or from a
// mock template, and backend failures in fallback mode, are kept locally.
// Any other failure leaves the workout in progress.
func (c *Controller) FinishWorkout(ctx context.Context) (Result, error) {
	w := c.state.Workout()
	if w == nil {
		return Result{Outcome: Failed, Message: workout.ErrNotInProgress.Error()}, workout.ErrNotInProgress
	}
	if err := w.BeginFinish(); err != nil {
		return Result{Outcome: Failed, Message: err.Error()}, err
	}

	now := c.now()
	tpl := w.Template()
	if c.state.Token() != "" && !tpl.Mock {
		_, err := c.backend.LogWorkout(ctx, w.Request(now))
		if err == nil {
			c.end(w)
			if _, _, err := c.RefreshDashboard(ctx); err != nil {
				c.logger.Warn("refreshing dashboard", "error", err)
			}
			c.logger.Info("workout saved", "template", tpl.Name, "sets", len(w.Sets()))
			return Result{Outcome: Remote, Message: "Workout completed successfully!", Next: view.Dashboard}, nil
		}
		if !c.degradable(err) {
			w.AbortFinish()
			return failure(err, "Failed to save workout")
		}
		c.logger.Warn("saving workout failed, keeping it locally", "error", err)
	}

	rec := w.LocalRecord(c.newID(), now)
	list, err := c.mirror.PrependHistory(ctx, c.state.Email(), rec)
	if err != nil {
		w.AbortFinish()
		return Result{Outcome: Failed, Message: "Failed to save workout"}, fmt.Errorf("saving workout locally: %w", err)
	}
	c.end(w)
	c.setStats(dashboard.Compute(list, now))
	c.logger.Info("workout saved locally", "id", rec.ID, "sets", len(rec.Sets))
	return Result{Outcome: Local, Message: "Workout saved on this device only.", Next: view.Dashboard}, nil
}

func (c *Controller) end(w *workout.Session) {
	w.Complete()
	c.state.ClearWorkout(w)
	c.router.Show(view.Dashboard)
}
