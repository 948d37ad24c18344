package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringList is a set of short labels (goals, equipment, muscle groups).
// It decodes from a JSON array, from a string that itself holds a JSON array
// (older backends stored these columns as serialized text), or from null.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return fmt.Errorf("decoding string list: %w", err)
		}
		if inner == "" || inner == "null" {
			*l = nil
			return nil
		}
		data = []byte(inner)
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decoding string list: %w", err)
	}
	*l = items
	return nil
}

// Contains reports whether v is in the list.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// User is an account as returned by the backend.
type User struct {
	ID                  int64      `json:"id,omitempty"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Goals               StringList `json:"goals"`
	Schedule            string     `json:"schedule,omitempty"`
	Equipment           StringList `json:"equipment"`
	ExperienceLevel     string     `json:"experience_level,omitempty"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	CreatedAt           string     `json:"created_at,omitempty"`
}

// Profile is the compact record mirrored locally per account email.
type Profile struct {
	Email               string     `json:"email"`
	Name                string     `json:"name,omitempty"`
	Goals               StringList `json:"goals"`
	Schedule            string     `json:"schedule,omitempty"`
	Equipment           StringList `json:"equipment"`
	ExperienceLevel     string     `json:"experience_level,omitempty"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
}

// Profile extracts the compact mirror record for u.
func (u *User) Profile() Profile {
	return Profile{
		Email:               u.Email,
		Name:                u.Name,
		Goals:               u.Goals,
		Schedule:            u.Schedule,
		Equipment:           u.Equipment,
		ExperienceLevel:     u.ExperienceLevel,
		OnboardingCompleted: u.OnboardingCompleted,
	}
}

// User expands a mirrored profile into a session user. The ID is unknown
// locally and stays zero.
func (p Profile) User() *User {
	return &User{
		Email:               p.Email,
		Name:                p.Name,
		Goals:               p.Goals,
		Schedule:            p.Schedule,
		Equipment:           p.Equipment,
		ExperienceLevel:     p.ExperienceLevel,
		OnboardingCompleted: p.OnboardingCompleted,
	}
}

// FillEmpty copies onboarding fields from p into u wherever u has none.
// A locally completed onboarding also carries over.
func (u *User) FillEmpty(p Profile) {
	if len(u.Goals) == 0 && len(p.Goals) > 0 {
		u.Goals = p.Goals
	}
	if u.Schedule == "" {
		u.Schedule = p.Schedule
	}
	if len(u.Equipment) == 0 && len(p.Equipment) > 0 {
		u.Equipment = p.Equipment
	}
	if u.ExperienceLevel == "" {
		u.ExperienceLevel = p.ExperienceLevel
	}
	if u.Name == "" {
		u.Name = p.Name
	}
	if !u.OnboardingCompleted && p.OnboardingCompleted {
		u.OnboardingCompleted = true
	}
}

// Onboarding is the questionnaire answer set.
type Onboarding struct {
	Goals           []string `json:"goals"`
	Schedule        string   `json:"schedule"`
	Equipment       []string `json:"equipment"`
	ExperienceLevel string   `json:"experience_level"`
}

// Apply stamps the answers onto u and marks onboarding complete.
func (o Onboarding) Apply(u *User) {
	u.Goals = StringList(o.Goals)
	u.Schedule = o.Schedule
	u.Equipment = StringList(o.Equipment)
	u.ExperienceLevel = o.ExperienceLevel
	u.OnboardingCompleted = true
}
