package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/myrjola/petrload/internal/analytics"
)

// sessionNamespace derives stable IDs for exported sessions without one, so that importing the same export
// twice does not duplicate them.
//
//nolint:gochecknoglobals // constant UUID
var sessionNamespace = uuid.MustParse("5b0e6f4e-3c55-4a8e-9f57-2f1d2b7c9a61")

// Export is the JSON document produced by the workout logging app.
type Export struct {
	Exercises []analytics.ExerciseDefinition `json:"exercises"`
	Sessions  []analytics.WorkoutSession     `json:"sessions"`
}

// ImportResult counts what an import stored.
type ImportResult struct {
	Exercises int
	Sessions  int
	// Skipped counts sessions that were already stored.
	Skipped int
}

// Import reads an Export from r and stores it in a single transaction. Exercises are created or replaced,
// sessions are created unless a session with the same ID exists.
func Import(ctx context.Context, repo *Repository, r io.Reader) (_ ImportResult, err error) {
	var export Export
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err = dec.Decode(&export); err != nil {
		return ImportResult{}, fmt.Errorf("decode export: %w", err)
	}
	if err = export.normalize(); err != nil {
		return ImportResult{}, fmt.Errorf("validate export: %w", err)
	}

	base := repo.Sessions.baseRepository
	tx, err := base.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx, &err)

	var result ImportResult
	for _, def := range export.Exercises {
		if err = saveExercise(ctx, tx, def); err != nil {
			return ImportResult{}, err
		}
		result.Exercises++
	}
	for _, sess := range export.Sessions {
		err = createSession(ctx, tx, sess)
		switch {
		case errors.Is(err, ErrAlreadyExists):
			result.Skipped++
			err = nil
		case err != nil:
			return ImportResult{}, err
		default:
			result.Sessions++
		}
	}

	if err = tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("commit transaction: %w", err)
	}
	base.logger.LogAttrs(ctx, slog.LevelInfo, "imported history",
		slog.Int("exercises", result.Exercises),
		slog.Int("sessions", result.Sessions),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// normalize validates the export, canonicalizes muscle names and assigns IDs to sessions without one.
func (e *Export) normalize() error {
	var errs []error
	for i := range e.Exercises {
		def := &e.Exercises[i]
		if def.ID == "" {
			errs = append(errs, fmt.Errorf("exercise %d: missing id", i))
			continue
		}
		for j, inv := range def.Involvements {
			muscle, err := analytics.ParseMuscleGroup(string(inv.Muscle))
			if err != nil {
				errs = append(errs, fmt.Errorf("exercise %s: %w", def.ID, err))
			}
			if inv.Role != analytics.RolePrimary && inv.Role != analytics.RoleSecondary {
				errs = append(errs, fmt.Errorf("exercise %s: invalid role %q", def.ID, inv.Role))
			}
			def.Involvements[j].Muscle = muscle
		}
		for j, m := range def.LegacyMuscles {
			muscle, err := analytics.ParseMuscleGroup(string(m))
			if err != nil {
				errs = append(errs, fmt.Errorf("exercise %s: %w", def.ID, err))
			}
			def.LegacyMuscles[j] = muscle
		}
	}
	seen := make(map[string]bool, len(e.Sessions))
	for i := range e.Sessions {
		sess := &e.Sessions[i]
		if sess.StartTime.IsZero() {
			errs = append(errs, fmt.Errorf("session %d: missing start_time", i))
			continue
		}
		if sess.ID == "" {
			sess.ID = derivedSessionID(*sess)
		}
		if seen[sess.ID] {
			errs = append(errs, fmt.Errorf("session %d: duplicate id %s", i, sess.ID))
		}
		seen[sess.ID] = true
		for _, log := range sess.Exercises {
			for _, set := range log.Sets {
				if set.Weight < 0 || set.Reps < 0 || (set.RIR != nil && *set.RIR < 0) {
					errs = append(errs, fmt.Errorf("session %s: exercise %s: negative set values",
						sess.ID, log.ExerciseID))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// derivedSessionID names a session by its start time and the exercises it logged.
func derivedSessionID(sess analytics.WorkoutSession) string {
	name := []string{formatTimestamp(sess.StartTime)}
	for _, log := range sess.Exercises {
		name = append(name, log.ExerciseID)
	}
	return uuid.NewSHA1(sessionNamespace, []byte(strings.Join(name, "\x00"))).String()
}
