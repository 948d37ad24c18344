// Package view tracks which screen of the client is visible.
package view

import (
	"sync"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// Section names a screen.
type Section string

const (
	Auth       Section = "auth"
	Onboarding Section = "onboarding"
	Dashboard  Section = "dashboard"
	Templates  Section = "templates"
	Logging    Section = "logging"
	History    Section = "history"
)

// Sections lists every section.
var Sections = []Section{Auth, Onboarding, Dashboard, Templates, Logging, History}

// Router shows exactly one section at a time. There is no back stack.
type Router struct {
	mu      sync.Mutex
	current Section
}

// NewRouter starts on the auth screen.
func NewRouter() *Router {
	return &Router{current: Auth}
}

// Show makes s the visible section.
func (r *Router) Show(s Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
}

// Current returns the visible section.
func (r *Router) Current() Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Initial picks the start-up section from a restored session. A local-only
// session has a user and no token and is resumed only in fallback mode.
func Initial(token string, u *models.User, fallback bool) Section {
	if u == nil || (token == "" && !fallback) {
		return Auth
	}
	return AfterAuth(u)
}

// AfterAuth is where a freshly signed-in user lands.
func AfterAuth(u *models.User) Section {
	if u == nil {
		return Auth
	}
	if !u.OnboardingCompleted {
		return Onboarding
	}
	return Dashboard
}
