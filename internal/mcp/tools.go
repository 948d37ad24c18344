package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// --- Tool definitions ---

var toolGetDashboard = mcp.NewTool("get_dashboard",
	mcp.WithDescription("Get dashboard stats: total workouts, workouts in the last 7 days, and the current consecutive-day streak (capped at 30)."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List workout templates with their exercises, set counts and rep ranges."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises from the exercise library, optionally filtered by category."),
	mcp.WithString("category", mcp.Description("Exercise category."), mcp.Enum("push", "pull", "legs", "upper", "lower")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Get completed workouts, newest first, one page at a time."),
	mcp.WithNumber("page", mcp.Description("Page number starting at 1. Defaults to 1.")),
	mcp.WithNumber("per_page", mcp.Description("Workouts per page. Defaults to 10.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one completed workout with every logged set."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id as returned by get_history")),
)

var toolGetProfileTips = mcp.NewTool("get_profile_tips",
	mcp.WithDescription("Get up to five training tips tailored to the user's onboarding answers."),
)

// withOutcome wraps data with where it came from.
func withOutcome(res app.Result, key string, data any) map[string]any {
	return map[string]any{
		"source": res.Outcome.String(),
		key:      data,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, res, err := h.ds.RefreshDashboard(ctx)
	if err != nil {
		h.log.Error("mcp get_dashboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(withOutcome(res, "stats", stats))
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, res, err := h.ds.Templates(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(withOutcome(res, "templates", templates))
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, res, err := h.ds.Exercises(ctx, req.GetString("category", ""))
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(withOutcome(res, "exercises", exercises))
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 1)
	perPage := req.GetInt("per_page", 10)
	if page < 1 || perPage < 1 {
		return mcp.NewToolResultError("page and per_page must be positive"), nil
	}

	workouts, res, err := h.ds.History(ctx, page, perPage)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	out := withOutcome(res, "workouts", workouts)
	out["page"] = page
	return jsonResult(out)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil || id == "" {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.WorkoutDetail(ctx, models.RecordID(id))
	if errors.Is(err, app.ErrWorkoutNotFound) {
		return mcp.NewToolResultError("workout not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(w)
}

func (h *handlers) getProfileTips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tips, res, err := h.ds.ProfileTips(ctx)
	if err != nil {
		h.log.Error("mcp get_profile_tips", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(withOutcome(res, "tips", tips))
}
