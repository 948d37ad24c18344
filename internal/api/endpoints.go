package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/login", models.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/register", models.RegisterRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.UserResponse
	if err := c.get(ctx, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateOnboarding stores the questionnaire answers.
func (c *Client) UpdateOnboarding(ctx context.Context, o models.Onboarding) (*models.User, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPut, "/user/onboarding", o, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Templates lists workout templates.
func (c *Client) Templates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var out models.TemplatesResponse
	if err := c.get(ctx, "/workouts/templates", nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Exercises lists exercises, optionally filtered by category.
func (c *Client) Exercises(ctx context.Context, category string) ([]models.Exercise, error) {
	var params url.Values
	if category != "" {
		params = url.Values{"category": {category}}
	}
	var out models.ExercisesResponse
	if err := c.get(ctx, "/exercises", params, &out); err != nil {
		return nil, err
	}
	return out.Exercises, nil
}

// LogWorkout records a finished workout.
func (c *Client) LogWorkout(ctx context.Context, req models.LogWorkoutRequest) (*models.CompletedWorkout, error) {
	var out models.WorkoutResponse
	if err := c.do(ctx, http.MethodPost, "/workouts/log", req, &out); err != nil {
		return nil, err
	}
	return &out.Workout, nil
}

// History fetches one page of workout history, newest first. Zero values
// leave the backend defaults.
func (c *Client) History(ctx context.Context, page, perPage int) (*models.HistoryResponse, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	var out models.HistoryResponse
	if err := c.get(ctx, "/workouts/history", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Workout fetches one history record.
func (c *Client) Workout(ctx context.Context, id int64) (*models.CompletedWorkout, error) {
	var out models.WorkoutResponse
	if err := c.get(ctx, "/workouts/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out.Workout, nil
}

// ProfileTips asks for training tips. A nil profile lets the backend use the
// signed-in user's answers.
func (c *Client) ProfileTips(ctx context.Context, profile *models.Onboarding) ([]string, error) {
	var out models.TipsResponse
	if err := c.do(ctx, http.MethodPost, "/ai/profile-tips", models.TipsRequest{Profile: profile}, &out); err != nil {
		return nil, err
	}
	return out.Tips, nil
}
