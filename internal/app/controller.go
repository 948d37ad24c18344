// Package app is the client controller. It owns the session, talks to the
// backend and, in fallback mode, substitutes the local mirror whenever the
// backend cannot be reached.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yaseenp24/workoutbuddy/internal/api"
	"github.com/yaseenp24/workoutbuddy/internal/dashboard"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/session"
	"github.com/yaseenp24/workoutbuddy/internal/view"
)

// Backend is the REST surface the controller needs. *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	UpdateOnboarding(ctx context.Context, o models.Onboarding) (*models.User, error)
	Templates(ctx context.Context) ([]models.WorkoutTemplate, error)
	Exercises(ctx context.Context, category string) ([]models.Exercise, error)
	LogWorkout(ctx context.Context, req models.LogWorkoutRequest) (*models.CompletedWorkout, error)
	History(ctx context.Context, page, perPage int) (*models.HistoryResponse, error)
	Workout(ctx context.Context, id int64) (*models.CompletedWorkout, error)
	ProfileTips(ctx context.Context, profile *models.Onboarding) ([]string, error)
}

// Mirror is the local store. *mirror.Store implements it.
type Mirror interface {
	SaveSession(ctx context.Context, token string, u *models.User) error
	LoadSession(ctx context.Context) (string, *models.User, error)
	ClearSession(ctx context.Context) error
	Profile(ctx context.Context, email string) (models.Profile, bool, error)
	FirstProfile(ctx context.Context) (models.Profile, bool, error)
	SaveProfile(ctx context.Context, p models.Profile) error
	History(ctx context.Context, email string) ([]models.CompletedWorkout, error)
	PrependHistory(ctx context.Context, email string, w models.CompletedWorkout) ([]models.CompletedWorkout, error)
}

var (
	_ Backend = (*api.Client)(nil)

	ErrNotSignedIn          = errors.New("not signed in")
	ErrWorkoutInProgress    = errors.New("a workout is already in progress")
	ErrServerNotRunning     = errors.New("server not running: the request timed out")
	ErrOnboardingIncomplete = errors.New("schedule and experience level are required")
)

// Outcome says where the effect of an operation landed.
type Outcome int

const (
	// Remote means the backend accepted the change.
	Remote Outcome = iota + 1
	// Local means the change was kept only on this device.
	Local
	// Failed means nothing changed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Remote:
		return "remote"
	case Local:
		return "local"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what an operation reports to the user.
type Result struct {
	Outcome Outcome
	Message string
	Next    view.Section
}

// Options configures a Controller.
type Options struct {
	// Fallback enables the local substitutes for backend failures.
	Fallback bool
	Logger   *slog.Logger
	// TickInterval is the workout timer period. Defaults to one second.
	TickInterval time.Duration
	Now          func() time.Time
	NewID        func() string
}

// Controller coordinates the client flows. It is safe for concurrent use.
type Controller struct {
	backend  Backend
	mirror   Mirror
	state    *session.State
	router   *view.Router
	fallback bool
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	newID    func() string

	mu     sync.Mutex
	stats  dashboard.Stats
	onTick func(time.Duration)
}

// New creates a Controller. state is shared with the backend client's token
// source.
func New(backend Backend, mirror Mirror, state *session.State, opts Options) *Controller {
	c := &Controller{
		backend:  backend,
		mirror:   mirror,
		state:    state,
		router:   view.NewRouter(),
		fallback: opts.Fallback,
		logger:   opts.Logger,
		interval: opts.TickInterval,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.interval <= 0 {
		c.interval = time.Second
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = func() string { return uuid.NewString() }
	}
	return c
}

// State returns the session state.
func (c *Controller) State() *session.State { return c.state }

// Router returns the view router.
func (c *Controller) Router() *view.Router { return c.router }

// Fallback reports whether local substitutes are enabled.
func (c *Controller) Fallback() bool { return c.fallback }

// Dashboard returns the most recently computed aggregates.
func (c *Controller) Dashboard() dashboard.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Controller) setStats(st dashboard.Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = st
}

// SetTickHandler sets the receiver of workout timer ticks.
func (c *Controller) SetTickHandler(fn func(elapsed time.Duration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}

func (c *Controller) tick(d time.Duration) {
	c.mu.Lock()
	fn := c.onTick
	c.mu.Unlock()
	if fn != nil {
		fn(d)
	}
}

// Restore resumes the mirrored session and routes to the start-up section.
func (c *Controller) Restore(ctx context.Context) (view.Section, error) {
	token, u, err := c.mirror.LoadSession(ctx)
	if err != nil {
		c.router.Show(view.Auth)
		return view.Auth, err
	}
	sec := view.Initial(token, u, c.fallback)
	if sec != view.Auth {
		c.state.Set(token, u)
	}
	c.router.Show(sec)
	c.logger.Debug("session restored", "section", sec, "local", token == "")
	return sec, nil
}

// persistUser mirrors the session record and the compact profile. Mirror
// failures are logged, not returned: the in-memory session stays valid.
func (c *Controller) persistUser(ctx context.Context, token string, u *models.User) {
	if err := c.mirror.SaveSession(ctx, token, u); err != nil {
		c.logger.Warn("mirroring session", "error", err)
	}
	if err := c.mirror.SaveProfile(ctx, u.Profile()); err != nil {
		c.logger.Warn("mirroring profile", "email", u.Email, "error", err)
	}
}

// failure builds a Failed result. Server messages win over generic ones.
func failure(err error, generic string) (Result, error) {
	msg := generic
	var se *api.StatusError
	switch {
	case errors.As(err, &se) && se.Message != "":
		msg = se.Message
	case errors.Is(err, api.ErrUnreachable), errors.Is(err, api.ErrTimeout):
		msg = "Network error. Please try again."
	}
	return Result{Outcome: Failed, Message: msg}, err
}

// degradable reports whether err may be replaced by a local substitute.
func (c *Controller) degradable(err error) bool {
	if !c.fallback {
		return false
	}
	var se *api.StatusError
	return errors.Is(err, api.ErrUnreachable) || errors.Is(err, api.ErrTimeout) || errors.As(err, &se)
}
