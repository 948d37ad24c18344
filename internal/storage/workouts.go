package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yaseenp24/workoutbuddy/internal/models"
)

// DefaultPerPage is the history page size when the caller gives none.
const DefaultPerPage = 10

// MaxPerPage caps the history page size.
const MaxPerPage = 100

// InsertWorkoutLog stores a finished workout and its sets in one transaction
// and returns the stored record.
func (db *DB) InsertWorkoutLog(ctx context.Context, userID int64, req models.LogWorkoutRequest, at time.Time) (*models.CompletedWorkout, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning workout insert: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO workout_logs (user_id, template_id, date, duration_minutes, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		userID, req.TemplateID, at, req.DurationMinutes, req.Notes).Scan(&id)
	if err != nil {
		return nil, insertError(err, "workout log")
	}

	batch := &pgx.Batch{}
	for _, s := range req.Sets {
		batch.Queue(`
			INSERT INTO set_logs (workout_log_id, exercise_id, set_number, weight, reps, rpe)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, s.ExerciseID, s.SetNumber, s.Weight, s.Reps, s.RPE)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, insertError(err, "set logs")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing workout log: %w", err)
	}
	return db.GetWorkoutLog(ctx, userID, id)
}

func insertError(err error, what string) error {
	if pgCode(err) == codeForeignKeyViolation {
		return ErrInvalidReference
	}
	return fmt.Errorf("inserting %s: %w", what, err)
}

// GetWorkoutLog returns one of the user's workouts with its sets.
func (db *DB) GetWorkoutLog(ctx context.Context, userID, id int64) (*models.CompletedWorkout, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, template_id, date, duration_minutes, notes
		FROM workout_logs
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout log: %w", err)
	}
	logs, err := db.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNotFound
	}
	return &logs[0], nil
}

// QueryHistory returns one page of the user's workouts, newest first.
func (db *DB) QueryHistory(ctx context.Context, userID int64, page, perPage int) (*models.HistoryResponse, error) {
	page, perPage = clampPage(page, perPage)

	var total int
	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_logs WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting workout logs: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, template_id, date, duration_minutes, notes
		FROM workout_logs
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("querying workout history: %w", err)
	}
	workouts, err := db.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &models.HistoryResponse{
		Workouts:    workouts,
		Total:       total,
		Pages:       pageCount(total, perPage),
		CurrentPage: page,
	}, nil
}

// clampPage applies the default page size and bounds.
func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func pageCount(total, perPage int) int {
	if total == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// assemble drains rows of workout_logs and attaches templates and sets.
func (db *DB) assemble(ctx context.Context, rows pgx.Rows) ([]models.CompletedWorkout, error) {
	var (
		workouts    []models.CompletedWorkout
		ids         []int64
		templateIDs []*int64
	)
	for rows.Next() {
		var (
			w          models.CompletedWorkout
			id         int64
			templateID *int64
			date       time.Time
		)
		if err := rows.Scan(&id, &templateID, &date, &w.DurationMinutes, &w.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		w.ID = models.RecordID(strconv.FormatInt(id, 10))
		w.Date = models.FormatWorkoutDate(date)
		w.Sets = []models.CompletedSet{}
		workouts = append(workouts, w)
		ids = append(ids, id)
		templateIDs = append(templateIDs, templateID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	if len(workouts) == 0 {
		return []models.CompletedWorkout{}, nil
	}

	templates, err := db.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.WorkoutTemplate, len(templates))
	for i := range templates {
		byID[templates[i].ID] = &templates[i]
	}
	for i, tid := range templateIDs {
		if tid != nil {
			workouts[i].Template = byID[*tid]
		}
	}

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	setRows, err := db.Pool.Query(ctx, `
		SELECT `+exerciseColumns+`, s.id, s.workout_log_id, s.set_number, s.weight, s.reps, s.rpe
		FROM set_logs s
		JOIN exercises e ON e.id = s.exercise_id
		WHERE s.workout_log_id = ANY($1)
		ORDER BY s.workout_log_id, s.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			s     models.CompletedSet
			logID int64
		)
		s.Exercise, err = scanExercise(setRows, &s.ID, &logID, &s.SetNumber, &s.Weight, &s.Reps, &s.RPE)
		if err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		if i, ok := index[logID]; ok {
			workouts[i].Sets = append(workouts[i].Sets, s)
		}
	}
	return workouts, setRows.Err()
}
