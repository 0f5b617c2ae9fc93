// Package history stores the exercise catalog and the logged workout sessions in SQLite and provides them as
// the read-only snapshot the analytics engine consumes.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/petrload/internal/sqlite"
)

// Timestamps are stored as UTC text with millisecond precision so that they sort lexicographically.
const timestampFormat = "2006-01-02T15:04:05.000Z"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Repository groups the exercise catalog and the workout session stores.
type Repository struct {
	Exercises *ExerciseRepository
	Sessions  *SessionRepository
}

// NewRepository creates the SQLite-backed stores. Loaded timestamps are converted to loc, which should be the
// time zone the week boundaries are computed in.
func NewRepository(db *sqlite.Database, logger *slog.Logger, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	base := baseRepository{db: db, logger: logger, loc: loc}
	return &Repository{
		Exercises: &ExerciseRepository{baseRepository: base},
		Sessions:  &SessionRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
	loc    *time.Location
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// formatNullTimestamp formats an optional timestamp, NULL when t is nil.
func formatNullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{String: "", Valid: false}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

func (r baseRepository) parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.In(r.loc), nil
}

// parseNullTimestamp parses a timestamp from a nullable database string.
func (r baseRepository) parseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil //nolint:nilnil // nil time.Time is expected when the string is NULL.
	}
	t, err := r.parseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// rollback is deferred after BeginTx. It rolls back unless the transaction was committed and joins failures into err.
func rollback(tx *sql.Tx, err *error) {
	if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
		*err = errors.Join(*err, fmt.Errorf("rollback transaction: %w", rollbackErr))
	}
}
