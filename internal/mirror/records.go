package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

const (
	keyToken = "authToken"
	keyUser  = "user"
)

// SaveSession stores the token and user that a restart should resume with.
func (s *Store) SaveSession(ctx context.Context, token string, u *models.User) error {
	if err := s.Put(ctx, BucketSession, keyToken, token); err != nil {
		return err
	}
	return s.Put(ctx, BucketSession, keyUser, u)
}

// LoadSession returns the stored session. A missing session yields an empty
// token and a nil user.
func (s *Store) LoadSession(ctx context.Context) (string, *models.User, error) {
	var token string
	if _, err := s.Get(ctx, BucketSession, keyToken, &token); err != nil {
		return "", nil, err
	}
	var u models.User
	ok, err := s.Get(ctx, BucketSession, keyUser, &u)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return token, nil, nil
	}
	return token, &u, nil
}

// ClearSession removes the session keys. Profiles and history are kept.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.Delete(ctx, BucketSession, keyToken); err != nil {
		return err
	}
	return s.Delete(ctx, BucketSession, keyUser)
}

// Profile returns the mirrored profile for email.
func (s *Store) Profile(ctx context.Context, email string) (models.Profile, bool, error) {
	var p models.Profile
	ok, err := s.Get(ctx, BucketProfiles, AccountKey(email), &p)
	return p, ok, err
}

// FirstProfile returns the earliest mirrored profile.
func (s *Store) FirstProfile(ctx context.Context) (models.Profile, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE bucket = ? ORDER BY rowid LIMIT 1`, BucketProfiles,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		return models.Profile{}, false, fmt.Errorf("reading first profile: %w", err)
	}
	var p models.Profile
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return models.Profile{}, false, fmt.Errorf("decoding first profile: %w", err)
	}
	return p, true, nil
}

// SaveProfile stores p under its email.
func (s *Store) SaveProfile(ctx context.Context, p models.Profile) error {
	return s.Put(ctx, BucketProfiles, AccountKey(p.Email), p)
}

// History returns the account's workouts, newest first.
func (s *Store) History(ctx context.Context, email string) ([]models.CompletedWorkout, error) {
	var list []models.CompletedWorkout
	if _, err := s.Get(ctx, BucketHistory, AccountKey(email), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PrependHistory puts w at the head of the account's history and returns the
// updated list.
func (s *Store) PrependHistory(ctx context.Context, email string, w models.CompletedWorkout) ([]models.CompletedWorkout, error) {
	var out []models.CompletedWorkout
	err := s.Update(ctx, BucketHistory, AccountKey(email), func(raw []byte) (any, error) {
		var list []models.CompletedWorkout
		if raw != nil {
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, fmt.Errorf("decoding history for %s: %w", AccountKey(email), err)
			}
		}
		out = append([]models.CompletedWorkout{w}, list...)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
