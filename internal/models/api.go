package models

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// TemplatesResponse is returned by GET /workouts/templates.
type TemplatesResponse struct {
	Templates []WorkoutTemplate `json:"templates"`
}

// ExercisesResponse is returned by GET /exercises.
type ExercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
}

// LogWorkoutRequest is the body of POST /workouts/log.
type LogWorkoutRequest struct {
	TemplateID      *int64      `json:"template_id"`
	DurationMinutes int         `json:"duration_minutes"`
	Sets            []LoggedSet `json:"sets"`
	Notes           string      `json:"notes"`
}

// WorkoutResponse wraps a single history record.
type WorkoutResponse struct {
	Message string           `json:"message,omitempty"`
	Workout CompletedWorkout `json:"workout"`
}

// HistoryResponse is a page of GET /workouts/history.
type HistoryResponse struct {
	Workouts    []CompletedWorkout `json:"workouts"`
	Total       int                `json:"total"`
	Pages       int                `json:"pages"`
	CurrentPage int                `json:"current_page"`
}

// TipsRequest is the body of POST /ai/profile-tips.
type TipsRequest struct {
	Profile *Onboarding `json:"profile,omitempty"`
}

// TipsResponse carries up to five training tips.
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
