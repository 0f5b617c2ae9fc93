package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/myrjola/petrload/internal/analytics"
)

// ExerciseRepository is the exercise catalog provider.
type ExerciseRepository struct {
	baseRepository
}

// List returns every catalogued exercise ordered by ID.
func (r *ExerciseRepository) List(ctx context.Context) ([]analytics.ExerciseDefinition, error) {
	return r.query(ctx, "TRUE")
}

// Get returns a single exercise by ID or ErrNotFound.
func (r *ExerciseRepository) Get(ctx context.Context, id string) (analytics.ExerciseDefinition, error) {
	exercises, err := r.query(ctx, "e.id = ?", id)
	if err != nil {
		return analytics.ExerciseDefinition{}, err
	}
	if len(exercises) == 0 {
		return analytics.ExerciseDefinition{}, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return exercises[0], nil
}

func (r *ExerciseRepository) query(
	ctx context.Context,
	where string,
	args ...any,
) (_ []analytics.ExerciseDefinition, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT e.id, e.name, em.muscle, em.role
		FROM exercises e
		LEFT JOIN exercise_muscles em ON em.exercise_id = e.id
		WHERE `+where+`
		ORDER BY e.id, em.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []analytics.ExerciseDefinition
	for rows.Next() {
		var (
			id, name string
			muscle   sql.NullString
			role     sql.NullString
		)
		if err = rows.Scan(&id, &name, &muscle, &role); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		if n := len(exercises); n == 0 || exercises[n-1].ID != id {
			exercises = append(exercises, analytics.ExerciseDefinition{
				ID:            id,
				Name:          name,
				Involvements:  nil,
				LegacyMuscles: nil,
			})
		}
		if muscle.Valid {
			r.appendMuscle(ctx, &exercises[len(exercises)-1], muscle.String, role)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

// appendMuscle adds a stored muscle row to the definition. Unknown muscle names are logged and dropped.
func (r *ExerciseRepository) appendMuscle(
	ctx context.Context,
	def *analytics.ExerciseDefinition,
	name string,
	role sql.NullString,
) {
	muscle, err := analytics.ParseMuscleGroup(name)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "dropping unknown muscle",
			slog.String("exercise_id", def.ID), slog.String("muscle", name))
		return
	}
	if !role.Valid {
		def.LegacyMuscles = append(def.LegacyMuscles, muscle)
		return
	}
	def.Involvements = append(def.Involvements, analytics.MuscleInvolvement{
		Muscle: muscle,
		Role:   analytics.Role(role.String),
	})
}

// Save creates or replaces the exercise definition including its muscle involvements.
func (r *ExerciseRepository) Save(ctx context.Context, def analytics.ExerciseDefinition) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx, &err)

	if err = saveExercise(ctx, tx, def); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func saveExercise(ctx context.Context, tx *sql.Tx, def analytics.ExerciseDefinition) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO exercises (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`, def.ID, def.Name); err != nil {
		return fmt.Errorf("upsert exercise %s: %w", def.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM exercise_muscles WHERE exercise_id = ?`, def.ID); err != nil {
		return fmt.Errorf("delete muscles of %s: %w", def.ID, err)
	}

	position := 0
	insert := func(muscle analytics.MuscleGroup, role sql.NullString) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO exercise_muscles (exercise_id, position, muscle, role) VALUES (?, ?, ?, ?)`,
			def.ID, position, string(muscle), role); err != nil {
			return fmt.Errorf("insert muscle %s of %s: %w", muscle, def.ID, err)
		}
		position++
		return nil
	}
	for _, inv := range def.Involvements {
		if err := insert(inv.Muscle, sql.NullString{String: string(inv.Role), Valid: true}); err != nil {
			return err
		}
	}
	for _, m := range def.LegacyMuscles {
		if err := insert(m, sql.NullString{String: "", Valid: false}); err != nil {
			return err
		}
	}
	return nil
}
