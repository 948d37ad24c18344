// Package server is the backend's HTTP API: accounts, onboarding, the
// exercise catalog and workout logs.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/yaseenp24/workoutbuddy/internal/auth"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/storage"
)

// Store is the persistence the handlers need. *storage.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, string, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateOnboarding(ctx context.Context, id int64, o models.Onboarding) (*models.User, error)
	ListExercises(ctx context.Context, category string) ([]models.Exercise, error)
	ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error)
	InsertWorkoutLog(ctx context.Context, userID int64, req models.LogWorkoutRequest, at time.Time) (*models.CompletedWorkout, error)
	QueryHistory(ctx context.Context, userID int64, page, perPage int) (*models.HistoryResponse, error)
	GetWorkoutLog(ctx context.Context, userID, id int64) (*models.CompletedWorkout, error)
}

var _ Store = (*storage.DB)(nil)

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	CORSOrigin string
	// LoginPerMinute and LoginBurst bound login attempts per client IP.
	LoginPerMinute float64
	LoginBurst     int
	Now            func() time.Time
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	issuer *auth.Issuer
	log    *slog.Logger
	now    func() time.Time
	login  *ipLimiter
	cors   string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, issuer *auth.Issuer, opts Options, log *slog.Logger) *Server {
	if opts.LoginPerMinute <= 0 {
		opts.LoginPerMinute = 10
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	s := &Server{
		store:  store,
		issuer: issuer,
		log:    log,
		now:    opts.Now,
		login:  newIPLimiter(rate.Limit(opts.LoginPerMinute/60), opts.LoginBurst),
		cors:   opts.CORSOrigin,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(s.cors))

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.With(RateLimit(s.login)).Post("/login", s.handleLogin)
		r.With(OptionalBearer(s.issuer)).Post("/ai/profile-tips", s.handleProfileTips)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.issuer))
			r.Get("/user/profile", s.handleProfile)
			r.Put("/user/onboarding", s.handleOnboarding)
			r.Get("/workouts/templates", s.handleTemplates)
			r.Get("/exercises", s.handleExercises)
			r.Post("/workouts/log", s.handleLogWorkout)
			r.Get("/workouts/history", s.handleHistory)
			r.Get("/workouts/{id:[0-9]+}", s.handleWorkout)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
