package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/petrload/internal/sqlite"
	"github.com/myrjola/petrload/internal/testhelpers"
)

func TestNewDatabase(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() {
		// t.Context is already canceled during cleanup.
		if err = db.Close(context.Background()); err != nil {
			t.Errorf("Close: %v", err)
		}
	})

	rows, err := db.ReadOnly.QueryContext(ctx, `
		SELECT name FROM sqlite_schema WHERE type = 'table' ORDER BY name`)
	if err != nil {
		t.Fatalf("query tables: %v", err)
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		tables = append(tables, name)
	}
	if err = rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	want := []string{"exercise_logs", "exercise_muscles", "exercise_sets", "exercises", "workout_sessions"}
	if diff := cmp.Diff(want, tables); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}

	t.Run("read-only pool rejects writes", func(t *testing.T) {
		if _, err = db.ReadOnly.ExecContext(ctx,
			`INSERT INTO exercises (id, name) VALUES ('bench', 'Bench Press')`); err == nil {
			t.Fatal("expected write through the read-only pool to fail")
		}
	})

	t.Run("writes are visible to readers", func(t *testing.T) {
		if _, err = db.ReadWrite.ExecContext(ctx,
			`INSERT INTO exercises (id, name) VALUES ('squat', 'Back Squat')`); err != nil {
			t.Fatalf("insert: %v", err)
		}
		var name string
		if err = db.ReadOnly.QueryRowContext(ctx,
			`SELECT name FROM exercises WHERE id = 'squat'`).Scan(&name); err != nil {
			t.Fatalf("select: %v", err)
		}
		if name != "Back Squat" {
			t.Errorf("name = %q, want Back Squat", name)
		}
	})
}

func TestNewDatabase_reopen(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	path := filepath.Join(t.TempDir(), "petrload.sqlite3")

	db, err := sqlite.NewDatabase(ctx, path, logger)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx,
		`INSERT INTO exercises (id, name) VALUES ('deadlift', 'Deadlift')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err = db.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The schema is created idempotently and the data survives.
	db, err = sqlite.NewDatabase(ctx, path, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close(ctx)
	var count int
	if err = db.ReadOnly.QueryRowContext(ctx, `SELECT count(*) FROM exercises`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
