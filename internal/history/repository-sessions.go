package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/myrjola/petrload/internal/analytics"
)

// SessionRepository is the workout history provider.
type SessionRepository struct {
	baseRepository
}

// List returns the sessions started at or after since in chronological order.
func (r *SessionRepository) List(ctx context.Context, since time.Time) ([]analytics.WorkoutSession, error) {
	sessions, err := r.query(ctx, "started_at >= ?", formatTimestamp(since))
	if err != nil {
		return nil, fmt.Errorf("list sessions since %s: %w", since.Format(time.RFC3339), err)
	}
	return sessions, nil
}

// Get returns a single session or ErrNotFound.
func (r *SessionRepository) Get(ctx context.Context, id string) (analytics.WorkoutSession, error) {
	sessions, err := r.query(ctx, "id = ?", id)
	if err != nil {
		return analytics.WorkoutSession{}, fmt.Errorf("get session %s: %w", id, err)
	}
	if len(sessions) == 0 {
		return analytics.WorkoutSession{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sessions[0], nil
}

// Create stores a new session. Sessions are immutable so an existing ID yields ErrAlreadyExists.
func (r *SessionRepository) Create(ctx context.Context, sess analytics.WorkoutSession) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx, &err)

	if err = createSession(ctx, tx, sess); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func createSession(ctx context.Context, tx *sql.Tx, sess analytics.WorkoutSession) error {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, started_at, ended_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		sess.ID, formatTimestamp(sess.StartTime), formatNullTimestamp(sess.EndTime))
	if err != nil {
		return fmt.Errorf("insert session %s: %w", sess.ID, err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if inserted == 0 {
		return fmt.Errorf("session %s: %w", sess.ID, ErrAlreadyExists)
	}

	for position, log := range sess.Exercises {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO exercise_logs (session_id, position, exercise_id) VALUES (?, ?, ?)`,
			sess.ID, position, log.ExerciseID); err != nil {
			return fmt.Errorf("insert exercise log %s: %w", log.ExerciseID, err)
		}
		for i, set := range log.Sets {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_sets (
					session_id, log_position, set_number, weight, reps, completed, rir, is_warmup
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				sess.ID, position, i+1, set.Weight, set.Reps, set.Completed, set.RIR, set.IsWarmup); err != nil {
				return fmt.Errorf("insert set %d of %s: %w", i+1, log.ExerciseID, err)
			}
		}
	}
	return nil
}

// query loads the sessions matching the where clause with all their exercise logs and sets.
func (r *SessionRepository) query(ctx context.Context, where string, args ...any) (_ []analytics.WorkoutSession, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, started_at, ended_at
		FROM workout_sessions
		WHERE `+where+`
		ORDER BY started_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var (
		sessions []analytics.WorkoutSession
		index    = make(map[string]int)
	)
	for rows.Next() {
		var (
			sess      analytics.WorkoutSession
			startedAt string
			endedAt   sql.NullString
		)
		if err = rows.Scan(&sess.ID, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sess.StartTime, err = r.parseTimestamp(startedAt); err != nil {
			return nil, err
		}
		if sess.EndTime, err = r.parseNullTimestamp(endedAt); err != nil {
			return nil, err
		}
		index[sess.ID] = len(sessions)
		sessions = append(sessions, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	if err = r.loadExerciseLogs(ctx, where, args, sessions, index); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadExerciseLogs fills in the logs and sets of the sessions selected by the same where clause.
func (r *SessionRepository) loadExerciseLogs(
	ctx context.Context,
	where string,
	args []any,
	sessions []analytics.WorkoutSession,
	index map[string]int,
) (err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT el.session_id, el.position, el.exercise_id,
		       es.weight, es.reps, es.completed, es.rir, es.is_warmup
		FROM exercise_logs el
		LEFT JOIN exercise_sets es ON es.session_id = el.session_id AND es.log_position = el.position
		WHERE el.session_id IN (SELECT id FROM workout_sessions WHERE `+where+`)
		ORDER BY el.session_id, el.position, es.set_number`, args...)
	if err != nil {
		return fmt.Errorf("query exercise sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	for rows.Next() {
		var (
			sessionID  string
			position   int
			exerciseID string
			weight     sql.NullFloat64
			reps       sql.NullInt64
			completed  sql.NullBool
			rir        sql.NullFloat64
			isWarmup   sql.NullBool
		)
		if err = rows.Scan(&sessionID, &position, &exerciseID,
			&weight, &reps, &completed, &rir, &isWarmup); err != nil {
			return fmt.Errorf("scan exercise set: %w", err)
		}
		i, ok := index[sessionID]
		if !ok {
			continue
		}
		sess := &sessions[i]
		if len(sess.Exercises) <= position {
			sess.Exercises = append(sess.Exercises, analytics.ExerciseLog{ExerciseID: exerciseID, Sets: nil})
		}
		// A log without sets yields a single row of NULL set columns.
		if !weight.Valid {
			continue
		}
		log := &sess.Exercises[len(sess.Exercises)-1]
		set := analytics.SetRecord{
			Weight:    weight.Float64,
			Reps:      int(reps.Int64),
			Completed: completed.Bool,
			RIR:       nil,
			IsWarmup:  isWarmup.Bool,
		}
		if rir.Valid {
			set.RIR = &rir.Float64
		}
		log.Sets = append(log.Sets, set)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}
