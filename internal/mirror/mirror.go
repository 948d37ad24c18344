// Package mirror keeps a local copy of session, profile and workout history
// state in SQLite so the client keeps working while the backend is down.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Buckets group keys the way the browser client grouped its storage keys.
const (
	BucketSession  = "session"
	BucketHistory  = "workoutHistoryByUser"
	BucketProfiles = "userProfiles"
)

// Anonymous is the account key used when no email is known.
const Anonymous = "anonymous"

// FileName is the database file created inside the data directory.
const FileName = "mirror.db"

// Store is a small bucketed key-value store on top of SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the mirror database at dir/mirror.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating mirror dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening mirror db: %w", err)
	}
	// A single connection serialises writers inside this process.
	db.SetMaxOpenConns(1)

	stmts := []string{
		`PRAGMA busy_timeout = 5000`,
		`CREATE TABLE IF NOT EXISTS kv (
			bucket     TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (bucket, key)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialising mirror db: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AccountKey maps an email to its mirror key.
func AccountKey(email string) string {
	if email == "" {
		return Anonymous
	}
	return email
}

// Get decodes the value stored under bucket/key into v. It reports false when
// the key is absent.
func (s *Store) Get(ctx context.Context, bucket, key string, v any) (bool, error) {
	return get(ctx, s.db, bucket, key, v)
}

// Put stores v as JSON under bucket/key.
func (s *Store) Put(ctx context.Context, bucket, key string, v any) error {
	return put(ctx, s.db, bucket, key, v)
}

// Delete removes bucket/key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE bucket = ? AND key = ?`, bucket, key); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Update runs a read-merge-write cycle on bucket/key inside one transaction.
// fn receives the current raw JSON (nil when absent) and returns the new value.
func (s *Store) Update(ctx context.Context, bucket, key string, fn func(raw []byte) (any, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning mirror tx: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	var text string
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE bucket = ? AND key = ?`, bucket, key).Scan(&text)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("reading %s/%s: %w", bucket, key, err)
	default:
		raw = []byte(text)
	}

	next, err := fn(raw)
	if err != nil {
		return err
	}
	if err := put(ctx, tx, bucket, key, next); err != nil {
		return err
	}
	return tx.Commit()
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q execQuerier, bucket, key string, v any) (bool, error) {
	var text string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE bucket = ? AND key = ?`, bucket, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s/%s: %w", bucket, key, err)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return false, fmt.Errorf("decoding %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// put upserts without replacing the row, so rowid keeps first-insert order.
func put(ctx context.Context, q execQuerier, bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", bucket, key, err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO kv (bucket, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (bucket, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		bucket, key, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", bucket, key, err)
	}
	return nil
}
