package mcp

import (
	"context"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// DataSource is the read side of the workout controller that the tools
// expose. Each call degrades to local data the same way the TUI does.
type DataSource interface {
	RefreshDashboard(ctx context.Context) (dashboard.Stats, app.Result, error)
	Templates(ctx context.Context) ([]models.WorkoutTemplate, app.Result, error)
	Exercises(ctx context.Context, category string) ([]models.Exercise, app.Result, error)
	History(ctx context.Context, page, perPage int) ([]models.CompletedWorkout, app.Result, error)
	WorkoutDetail(ctx context.Context, id models.RecordID) (*models.CompletedWorkout, error)
	ProfileTips(ctx context.Context) ([]string, app.Result, error)
}

// Compile-time check: *app.Controller satisfies DataSource.
var _ DataSource = (*app.Controller)(nil)
