// Package sqlite manages the connection pools of the SQLite database storing the workout history.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	_ "embed"
)

//go:embed schema.sql
var schemaDefinition string

// Database holds a single-connection read-write pool and a read-only pool.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to a database and creates the schema if it does not exist yet.
//
// It establishes two database connections, one for read/write operations and one for read-only operations.
// See https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	start := time.Now()
	if _, err = db.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(fmt.Errorf("apply schema: %w", err), db.closePools())
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "applied schema", slog.Duration("duration", time.Since(start)))

	// Recommended for long-lived connections. See https://www.sqlite.org/pragma.html#pragma_optimize.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		return nil, errors.Join(fmt.Errorf("init optimize database: %w", err), db.closePools())
	}

	return db, nil
}

const optimizedDriver = "sqlite3optimized"

//nolint:gochecknoglobals // the driver can only be registered once per process
var once sync.Once

// connectionPragmas run on every new connection.
const connectionPragmas = "PRAGMA temp_store = memory;" +
	"PRAGMA mmap_size = 268435456;" +
	"PRAGMA cache_size = -16000;"

func registerOptimizedDriver() {
	sql.Register(optimizedDriver, &sqlite3.SQLiteDriver{
		Extensions: nil,
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if _, err := conn.Exec(connectionPragmas, nil); err != nil {
				return fmt.Errorf("exec connection pragmas: %w", err)
			}
			return nil
		},
	})
}

// dsn builds a go-sqlite3 data source name. Options without a leading underscore are SQLite URI parameters
// (https://www.sqlite.org/uri.html), the rest are driver options
// (https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open).
func dsn(path string, inMemory bool, options ...string) string {
	options = append(options,
		"_journal_mode=wal",
		// An import holds the write lock for its whole transaction.
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	)
	if inMemory {
		// Both pools must see the same in-memory database. See https://www.sqlite.org/inmemorydb.html.
		options = append(options, "mode=memory", "cache=shared")
	}
	return "file:" + path + "?" + strings.Join(options, "&")
}

// openPool opens and pings a connection pool of at most maxConns connections.
func openPool(ctx context.Context, dataSourceName string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(optimizedDriver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(time.Hour)
	// sql.DB is lazy. Pinging creates the database file before another pool opens it.
	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping: %w", err), db.Close())
	}
	return db, nil
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	inMemory := strings.Contains(url, ":memory:")
	if inMemory {
		// A random name keeps parallel tests apart.
		url = rand.Text()
	}
	once.Do(registerOptimizedDriver)

	readWriteDSN := dsn(url, inMemory, "mode=rwc", "_txlock=immediate")
	readWrite, err := openPool(ctx, readWriteDSN, 1)
	if err != nil {
		return nil, fmt.Errorf("read-write pool: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "opened database", slog.String("dsn", readWriteDSN))

	const readConns = 4
	readOnly, err := openPool(ctx, dsn(url, inMemory, "mode=ro", "_txlock=deferred", "_query_only=true"), readConns)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("read-only pool: %w", err), readWrite.Close())
	}

	return &Database{
		ReadWrite: readWrite,
		ReadOnly:  readOnly,
		logger:    logger,
	}, nil
}

// Close runs PRAGMA optimize and closes the database connections.
func (db *Database) Close(ctx context.Context) error {
	start := time.Now()
	var optimizeErr error
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		optimizeErr = fmt.Errorf("optimize database: %w", err)
	} else {
		db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database",
			slog.Duration("duration", time.Since(start)))
	}
	return errors.Join(optimizeErr, db.closePools())
}

func (db *Database) closePools() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
