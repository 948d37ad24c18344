package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yaseenp24/workoutbuddy/internal/catalog"
	"github.com/yaseenp24/workoutbuddy/internal/models"
)

const exerciseColumns = `e.id, e.name, e.category, e.muscle_groups, e.equipment_needed, e.instructions`

func scanExercise(row scanner, extra ...any) (models.Exercise, error) {
	var (
		e                 models.Exercise
		muscles, equipped []byte
	)
	dest := append([]any{&e.ID, &e.Name, &e.Category, &muscles, &equipped, &e.Instructions}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Exercise{}, err
	}
	var err error
	if e.MuscleGroups, err = decodeList(muscles); err != nil {
		return models.Exercise{}, fmt.Errorf("decoding muscle groups: %w", err)
	}
	if e.EquipmentNeeded, err = decodeList(equipped); err != nil {
		return models.Exercise{}, fmt.Errorf("decoding equipment: %w", err)
	}
	return e, nil
}

// ListExercises returns the exercise library ordered by id. An empty
// category returns every exercise.
func (db *DB) ListExercises(ctx context.Context, category string) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises e
		WHERE $1 = '' OR e.category = $1
		ORDER BY e.id`, category)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	out := []models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListTemplates returns every template with its exercises in prescribed
// order.
func (db *DB) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, type, description FROM workout_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	var templates []models.WorkoutTemplate
	index := map[int64]int{}
	for rows.Next() {
		var t models.WorkoutTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		t.Exercises = []models.TemplateExercise{}
		index[t.ID] = len(templates)
		templates = append(templates, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}

	rows, err = db.Pool.Query(ctx, `
		SELECT `+exerciseColumns+`, te.id, te.template_id, te.sets, te.reps_range, te.position
		FROM template_exercises te
		JOIN exercises e ON e.id = te.exercise_id
		ORDER BY te.template_id, te.position`)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			te         models.TemplateExercise
			templateID int64
		)
		te.Exercise, err = scanExercise(rows, &te.ID, &templateID, &te.Sets, &te.RepsRange, &te.Order)
		if err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		if i, ok := index[templateID]; ok {
			templates[i].Exercises = append(templates[i].Exercises, te)
		}
	}
	if templates == nil {
		templates = []models.WorkoutTemplate{}
	}
	return templates, rows.Err()
}

// Seed loads the stock exercises and templates. Rows that already exist by
// name are left untouched, so seeding twice is harmless. Returns how many
// exercises and templates were inserted.
func (db *DB) Seed(ctx context.Context) (exercises, templates int, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning seed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range catalog.Exercises {
		tag, err := tx.Exec(ctx, `
			INSERT INTO exercises (name, category, muscle_groups, equipment_needed, instructions)
			VALUES ($1, $2, $3::jsonb, $4::jsonb, $5)
			ON CONFLICT (name) DO NOTHING`,
			e.Name, e.Category, jsonList(e.MuscleGroups), jsonList(e.EquipmentNeeded), e.Instructions)
		if err != nil {
			return 0, 0, fmt.Errorf("seeding exercise %q: %w", e.Name, err)
		}
		exercises += int(tag.RowsAffected())
	}

	for _, t := range catalog.Templates {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO workout_templates (name, type, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
			RETURNING id`,
			t.Name, t.Type, t.Description).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, 0, fmt.Errorf("seeding template %q: %w", t.Name, err)
		}
		for i, s := range t.Slots {
			_, err := tx.Exec(ctx, `
				INSERT INTO template_exercises (template_id, exercise_id, sets, reps_range, position)
				SELECT $1, id, $3, $4, $5 FROM exercises WHERE name = $2`,
				id, s.Exercise, s.Sets, s.RepsRange, i+1)
			if err != nil {
				return 0, 0, fmt.Errorf("seeding %q slot %d: %w", t.Name, i+1, err)
			}
		}
		templates++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("committing seed: %w", err)
	}
	return exercises, templates, nil
}
