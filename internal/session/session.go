// Package session holds the signed-in user, the bearer token and the active
// workout behind one lock.
package session

import (
	"sync"

	"github.com/yaseenp24/workoutbuddy/internal/models"
	"github.com/yaseenp24/workoutbuddy/internal/workout"
)

// State is the client's session context. The zero value is signed out.
type State struct {
	mu      sync.RWMutex
	user    *models.User
	token   string
	workout *workout.Session
}

// User returns a copy of the signed-in user, or nil.
func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token. It is empty for local-only sessions.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the signed-in user's email, or "".
func (s *State) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Email
}

// Set replaces the token and user.
func (s *State) Set(token string, u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// SetUser replaces the user and keeps the token.
func (s *State) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.user = &cp
}

// Clear signs out and returns the workout that was active, if any, so the
// caller can stop it.
func (s *State) Clear() *workout.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.workout
	s.user, s.token, s.workout = nil, "", nil
	return w
}

// Authenticated reports whether a user is signed in, remotely or locally.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Workout returns the active workout, or nil.
func (s *State) Workout() *workout.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workout
}

// SetWorkout installs w as the active workout unless one is already set.
func (s *State) SetWorkout(w *workout.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout != nil {
		return false
	}
	s.workout = w
	return true
}

// ClearWorkout drops w if it is still the active workout.
func (s *State) ClearWorkout(w *workout.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == w {
		s.workout = nil
	}
}
