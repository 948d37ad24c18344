package server

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/yaseenp24/workoutbuddy/internal/auth"
	"github.com/yaseenp24/workoutbuddy/internal/catalog"
	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/storage"
)

// memStore is an in-memory Store.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	hashes   map[int64]string
	workouts map[int64][]models.CompletedWorkout
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*models.User{},
		hashes:   map[int64]string{},
		workouts: map[int64][]models.CompletedWorkout{},
	}
}

func (m *memStore) CreateUser(_ context.Context, email, name, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = storage.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, storage.ErrEmailTaken
		}
	}
	m.nextID++
	u := &models.User{ID: m.nextID, Email: email, Name: name, Goals: models.StringList{}, Equipment: models.StringList{}}
	m.users[u.ID] = u
	m.hashes[u.ID] = hash
	cp := *u
	return &cp, nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*models.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = storage.NormalizeEmail(email)
	for id, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, m.hashes[id], nil
		}
	}
	return nil, "", storage.ErrNotFound
}

func (m *memStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateOnboarding(_ context.Context, id int64, o models.Onboarding) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	o.Apply(u)
	cp := *u
	return &cp, nil
}

func (m *memStore) ListExercises(_ context.Context, category string) ([]models.Exercise, error) {
	out := []models.Exercise{}
	for _, e := range catalog.Exercises {
		if category == "" || e.Category == category {
			ex, _ := catalog.Lookup(e.Name)
			out = append(out, ex)
		}
	}
	return out, nil
}

func (m *memStore) ListTemplates(context.Context) ([]models.WorkoutTemplate, error) {
	return catalog.MockTemplates(), nil
}

func (m *memStore) InsertWorkoutLog(_ context.Context, userID int64, req models.LogWorkoutRequest, at time.Time) (*models.CompletedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := models.CompletedWorkout{
		Date:            models.FormatWorkoutDate(at),
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Sets:            []models.CompletedSet{},
	}
	if req.TemplateID != nil {
		for _, t := range catalog.MockTemplates() {
			if t.ID == *req.TemplateID {
				t.Mock = false
				w.Template = &t
			}
		}
		if w.Template == nil {
			return nil, storage.ErrInvalidReference
		}
	}
	for _, s := range req.Sets {
		if s.ExerciseID > int64(len(catalog.Exercises)) {
			return nil, storage.ErrInvalidReference
		}
		ex, _ := catalog.Lookup(catalog.Exercises[s.ExerciseID-1].Name)
		w.Sets = append(w.Sets, models.CompletedSet{
			Exercise: ex, SetNumber: s.SetNumber, Weight: s.Weight, Reps: s.Reps, RPE: s.RPE,
		})
	}
	m.nextID++
	w.ID = models.RecordID(strconv.FormatInt(m.nextID, 10))
	m.workouts[userID] = append(m.workouts[userID], w)
	return &w, nil
}

func (m *memStore) QueryHistory(_ context.Context, userID int64, page, perPage int) (*models.HistoryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append([]models.CompletedWorkout(nil), m.workouts[userID]...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date > all[j].Date })
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = storage.DefaultPerPage
	}
	start := min((page-1)*perPage, len(all))
	end := min(start+perPage, len(all))
	return &models.HistoryResponse{
		Workouts:    all[start:end],
		Total:       len(all),
		Pages:       (len(all) + perPage - 1) / perPage,
		CurrentPage: page,
	}, nil
}

func (m *memStore) GetWorkoutLog(_ context.Context, userID, id int64) (*models.CompletedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.workouts[userID] {
		if n, _ := w.ID.Int(); n == id {
			cp := w
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

var testNow = time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)

func newTestServer(store Store) *Server {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, issuer, Options{
		LoginPerMinute: 600,
		LoginBurst:     100,
		Now:            func() time.Time { return testNow },
	}, log)
}
