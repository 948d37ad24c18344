package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/yaseenp24/workoutbuddy/internal/api"
	"github.com/yaseenp24/workoutbuddy/internal/mirror"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/session"
)

var errDown = fmt.Errorf("%w: connection refused", api.ErrUnreachable)

// fakeBackend answers every call with errDown unless a hook is set.
type fakeBackend struct {
	mu sync.Mutex

	login      func(email, password string) (*models.AuthResponse, error)
	register   func(name, email, password string) (*models.AuthResponse, error)
	onboarding func(ctx context.Context, o models.Onboarding) (*models.User, error)
	templates  []models.WorkoutTemplate
	logWorkout func(req models.LogWorkoutRequest) (*models.CompletedWorkout, error)
	history    func(page, perPage int) (*models.HistoryResponse, error)
	tips       []string

	logged []models.LogWorkoutRequest
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*models.AuthResponse, error) {
	if f.login == nil {
		return nil, errDown
	}
	return f.login(email, password)
}

func (f *fakeBackend) Register(_ context.Context, name, email, password string) (*models.AuthResponse, error) {
	if f.register == nil {
		return nil, errDown
	}
	return f.register(name, email, password)
}

func (f *fakeBackend) UpdateOnboarding(ctx context.Context, o models.Onboarding) (*models.User, error) {
	if f.onboarding == nil {
		return nil, errDown
	}
	return f.onboarding(ctx, o)
}

func (f *fakeBackend) Templates(context.Context) ([]models.WorkoutTemplate, error) {
	if f.templates == nil {
		return nil, errDown
	}
	return f.templates, nil
}

func (f *fakeBackend) Exercises(context.Context, string) ([]models.Exercise, error) {
	return nil, errDown
}

func (f *fakeBackend) LogWorkout(_ context.Context, req models.LogWorkoutRequest) (*models.CompletedWorkout, error) {
	f.mu.Lock()
	f.logged = append(f.logged, req)
	f.mu.Unlock()
	if f.logWorkout == nil {
		return nil, errDown
	}
	return f.logWorkout(req)
}

func (f *fakeBackend) History(_ context.Context, page, perPage int) (*models.HistoryResponse, error) {
	if f.history == nil {
		return nil, errDown
	}
	return f.history(page, perPage)
}

func (f *fakeBackend) Workout(context.Context, int64) (*models.CompletedWorkout, error) {
	return nil, &api.StatusError{Status: http.StatusNotFound, Message: "Workout not found"}
}

func (f *fakeBackend) ProfileTips(context.Context, *models.Onboarding) ([]string, error) {
	if f.tips == nil {
		return nil, errDown
	}
	return f.tips, nil
}

func (f *fakeBackend) loggedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logged)
}

type harness struct {
	c      *Controller
	be     *fakeBackend
	store  *mirror.Store
	clock  time.Time
	nextID int
}

func newHarness(t *testing.T, fallback bool) *harness {
	t.Helper()
	store, err := mirror.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	h := &harness{
		be:    &fakeBackend{},
		store: store,
		clock: time.Date(2026, 10, 15, 18, 0, 0, 0, time.Local),
	}
	h.c = New(h.be, store, &session.State{}, Options{
		Fallback:     fallback,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TickInterval: time.Millisecond,
		Now:          func() time.Time { return h.clock },
		NewID: func() string {
			h.nextID++
			return fmt.Sprintf("local-%d", h.nextID)
		},
	})
	t.Cleanup(func() {
		if w := h.c.State().Workout(); w != nil {
			w.Cancel()
		}
	})
	return h
}

func okLogin(u models.User) func(string, string) (*models.AuthResponse, error) {
	return func(string, string) (*models.AuthResponse, error) {
		return &models.AuthResponse{AccessToken: "tok", User: u}, nil
	}
}
