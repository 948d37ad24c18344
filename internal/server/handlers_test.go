package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v (body %q)", err, rec.Body.String())
	}
	return v
}

// register creates an account and returns its token.
func register(t *testing.T, s *Server, email string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/register", "", models.RegisterRequest{
		Name: "Lifter", Email: email, Password: "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}
	return decode[models.AuthResponse](t, rec).AccessToken
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(newMemStore())

	rec := do(t, s, http.MethodPost, "/api/register", "", models.RegisterRequest{
		Name: "Lifter", Email: "Lifter@Example.com", Password: "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	resp := decode[models.AuthResponse](t, rec)
	if resp.AccessToken == "" || resp.User.Email != "lifter@example.com" {
		t.Errorf("register response = %+v", resp)
	}
	if resp.User.OnboardingCompleted {
		t.Error("new accounts start with onboarding incomplete")
	}

	rec = do(t, s, http.MethodPost, "/api/login", "", models.LoginRequest{Email: "lifter@example.com", Password: "hunter22"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[models.AuthResponse](t, rec); got.Message != "Login successful" || got.AccessToken == "" {
		t.Errorf("login response = %+v", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(newMemStore())
	tests := []struct {
		name string
		req  models.RegisterRequest
		want string
	}{
		{"missing name", models.RegisterRequest{Email: "a@b.c", Password: "hunter22"}, "Email, password, and name are required"},
		{"short password", models.RegisterRequest{Name: "A", Email: "a@b.c", Password: "abc"}, "password must be at least"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/register", "", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decode[models.ErrorResponse](t, rec).Error; !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(newMemStore())
	register(t, s, "dup@example.com")
	rec := do(t, s, http.MethodPost, "/api/register", "", models.RegisterRequest{
		Name: "Again", Email: "DUP@example.com", Password: "hunter22",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decode[models.ErrorResponse](t, rec).Error; got != "Email already registered" {
		t.Errorf("error = %q", got)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(newMemStore())
	register(t, s, "a@example.com")

	for _, req := range []models.LoginRequest{
		{Email: "a@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "hunter22"},
	} {
		rec := do(t, s, http.MethodPost, "/api/login", "", req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", req.Email, rec.Code)
		}
	}

	rec := do(t, s, http.MethodPost, "/api/login", "", models.LoginRequest{Email: "a@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(newMemStore())
	for _, path := range []string{"/api/user/profile", "/api/workouts/templates", "/api/workouts/history", "/api/exercises"} {
		rec := do(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
		rec = do(t, s, http.MethodGet, path, "forged", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s with bad token: status = %d, want 401", path, rec.Code)
		}
	}
}

// TestOnboardingRoundTrip verifies answers are stored and returned as arrays.
func TestOnboardingRoundTrip(t *testing.T) {
	s := newTestServer(newMemStore())
	token := register(t, s, "onboard@example.com")

	rec := do(t, s, http.MethodPut, "/api/user/onboarding", token, models.Onboarding{
		Goals:           []string{"strength"},
		Schedule:        "3-4 days/week",
		Equipment:       []string{"barbell", "bench"},
		ExperienceLevel: "beginner",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/api/user/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d", rec.Code)
	}
	var raw struct {
		User map[string]any `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw.User["goals"].([]any); !ok {
		t.Errorf("goals = %#v, want a JSON array", raw.User["goals"])
	}
	if raw.User["onboarding_completed"] != true {
		t.Errorf("onboarding_completed = %v", raw.User["onboarding_completed"])
	}
}

func TestTemplatesAndExercises(t *testing.T) {
	s := newTestServer(newMemStore())
	token := register(t, s, "t@example.com")

	rec := do(t, s, http.MethodGet, "/api/workouts/templates", token, nil)
	templates := decode[models.TemplatesResponse](t, rec).Templates
	if len(templates) != 2 || templates[0].Name != "Push/Pull/Legs" || len(templates[0].Exercises) != 4 {
		t.Errorf("templates = %+v", templates)
	}

	rec = do(t, s, http.MethodGet, "/api/exercises?category=legs", token, nil)
	exercises := decode[models.ExercisesResponse](t, rec).Exercises
	if len(exercises) != 4 {
		t.Fatalf("legs exercises = %d, want 4", len(exercises))
	}
	for _, e := range exercises {
		if e.Category != "legs" {
			t.Errorf("exercise %q has category %q", e.Name, e.Category)
		}
	}
}

func TestLogWorkoutHistoryAndDetail(t *testing.T) {
	s := newTestServer(newMemStore())
	token := register(t, s, "log@example.com")
	templateID := int64(1)
	rpe := 8

	rec := do(t, s, http.MethodPost, "/api/workouts/log", token, models.LogWorkoutRequest{
		TemplateID:      &templateID,
		DurationMinutes: 45,
		Sets: []models.LoggedSet{
			{ExerciseID: 1, SetNumber: 1, Weight: 80, Reps: 8, RPE: &rpe},
			{ExerciseID: 1, SetNumber: 2, Weight: 80, Reps: 7},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("log status = %d, body %s", rec.Code, rec.Body)
	}
	logged := decode[models.WorkoutResponse](t, rec).Workout
	if logged.Template == nil || logged.Template.Name != "Push/Pull/Legs" || len(logged.Sets) != 2 {
		t.Errorf("logged workout = %+v", logged)
	}

	rec = do(t, s, http.MethodGet, "/api/workouts/history?page=1&per_page=5", token, nil)
	history := decode[models.HistoryResponse](t, rec)
	if history.Total != 1 || history.Pages != 1 || history.CurrentPage != 1 || len(history.Workouts) != 1 {
		t.Errorf("history = %+v", history)
	}

	id, _ := logged.ID.Int()
	rec = do(t, s, http.MethodGet, "/api/workouts/"+strconv.FormatInt(id, 10), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d", rec.Code)
	}

	other := register(t, s, "other@example.com")
	rec = do(t, s, http.MethodGet, "/api/workouts/"+strconv.FormatInt(id, 10), other, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("other user's workout: status = %d, want 404", rec.Code)
	}
}

func TestLogWorkoutValidation(t *testing.T) {
	s := newTestServer(newMemStore())
	token := register(t, s, "v@example.com")
	bad := 11
	unknown := int64(99)

	tests := []struct {
		name string
		req  models.LogWorkoutRequest
	}{
		{"zero reps", models.LogWorkoutRequest{Sets: []models.LoggedSet{{ExerciseID: 1, SetNumber: 1}}}},
		{"rpe out of range", models.LogWorkoutRequest{Sets: []models.LoggedSet{{ExerciseID: 1, SetNumber: 1, Reps: 5, RPE: &bad}}}},
		{"negative weight", models.LogWorkoutRequest{Sets: []models.LoggedSet{{ExerciseID: 1, SetNumber: 1, Reps: 5, Weight: -1}}}},
		{"unknown template", models.LogWorkoutRequest{TemplateID: &unknown, Sets: []models.LoggedSet{{ExerciseID: 1, SetNumber: 1, Reps: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/workouts/log", token, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestProfileTips(t *testing.T) {
	s := newTestServer(newMemStore())

	rec := do(t, s, http.MethodPost, "/api/ai/profile-tips", "", models.TipsRequest{
		Profile: &models.Onboarding{Goals: []string{"weight_loss"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[models.TipsResponse](t, rec).Tips
	if len(got) != 1 || !strings.Contains(got[0], "brisk walks") {
		t.Errorf("tips = %v", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ai/profile-tips", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty body: status = %d", rec.Code)
	}
	if got := decode[models.TipsResponse](t, rec).Tips; len(got) != 5 {
		t.Errorf("generic tips = %d, want 5", len(got))
	}
}

// TestProfileTipsUsesStoredProfile verifies a bearer caller without a posted
// profile gets tips for their saved answers.
func TestProfileTipsUsesStoredProfile(t *testing.T) {
	s := newTestServer(newMemStore())
	token := register(t, s, "tips@example.com")
	do(t, s, http.MethodPut, "/api/user/onboarding", token, models.Onboarding{
		Goals: []string{"endurance"}, Schedule: "5-6 days/week", ExperienceLevel: "advanced",
	})

	rec := do(t, s, http.MethodPost, "/api/ai/profile-tips", token, models.TipsRequest{})
	got := decode[models.TipsResponse](t, rec).Tips
	if len(got) != 1 || !strings.Contains(got[0], "zone-2") {
		t.Errorf("tips = %v", got)
	}
}
