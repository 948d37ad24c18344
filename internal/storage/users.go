package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

const userColumns = `id, email, name, goals, schedule, equipment, experience_level,
	onboarding_completed, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner, extra ...any) (*models.User, error) {
	var (
		u                models.User
		goals, equipment []byte
		created          time.Time
	)
	dest := append([]any{&u.ID, &u.Email, &u.Name, &goals, &u.Schedule, &equipment,
		&u.ExperienceLevel, &u.OnboardingCompleted, &created}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	var err error
	if u.Goals, err = decodeList(goals); err != nil {
		return nil, fmt.Errorf("decoding goals: %w", err)
	}
	if u.Equipment, err = decodeList(equipment); err != nil {
		return nil, fmt.Errorf("decoding equipment: %w", err)
	}
	u.CreatedAt = created.UTC().Format(time.RFC3339)
	return &u, nil
}

// NormalizeEmail lower-cases and trims an address so lookups match
// regardless of how it was typed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new account. Returns ErrEmailTaken if the address is
// already registered.
func (db *DB) CreateUser(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		NormalizeEmail(email), name, passwordHash)
	u, err := scanUser(row)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// UserByEmail returns the account and its password hash.
func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var hash string
	row := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`,
		NormalizeEmail(email))
	u, err := scanUser(row, &hash)
	if err != nil {
		return nil, "", notFound(err, "user")
	}
	return u, hash, nil
}

// UserByID returns the account with the given id.
func (db *DB) UserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// UpdateOnboarding stores the questionnaire answers and marks onboarding
// complete.
func (db *DB) UpdateOnboarding(ctx context.Context, id int64, o models.Onboarding) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE users
		SET goals = $2::jsonb, schedule = $3, equipment = $4::jsonb,
			experience_level = $5, onboarding_completed = TRUE
		WHERE id = $1
		RETURNING `+userColumns,
		id, jsonList(o.Goals), o.Schedule, jsonList(o.Equipment), o.ExperienceLevel)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}
