// Command petrload computes a training load report from the workout history stored in SQLite and writes it to
// stdout as Markdown or HTML.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/petrload/internal/analytics"
	"github.com/myrjola/petrload/internal/envstruct"
	"github.com/myrjola/petrload/internal/errors"
	"github.com/myrjola/petrload/internal/flightrecorder"
	"github.com/myrjola/petrload/internal/history"
	"github.com/myrjola/petrload/internal/logging"
	"github.com/myrjola/petrload/internal/ptr"
	"github.com/myrjola/petrload/internal/report"
	"github.com/myrjola/petrload/internal/sqlite"
	"github.com/myrjola/petrload/internal/tuning"
)

var (
	errUnknownFormat = errors.NewSentinel("unknown report format")
	errInvalidTarget = errors.NewSentinel("invalid custom target")
)

type config struct {
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"PETRLOAD_SQLITE_URL" envDefault:"./petrload.sqlite3"`
	// ImportPath is an optional JSON export imported before computing the report.
	ImportPath string `env:"PETRLOAD_IMPORT_PATH" envDefault:""`
	// TuningPath is an optional YAML file overriding the engine constants.
	TuningPath string `env:"PETRLOAD_TUNING_PATH" envDefault:""`
	// Format is markdown or html.
	Format string `env:"PETRLOAD_FORMAT" envDefault:"markdown"`
	// Now overrides the report time in RFC 3339. Defaults to the current time.
	Now string `env:"PETRLOAD_NOW" envDefault:""`
	// Timezone is the IANA zone that decides where weeks and days start.
	Timezone string `env:"PETRLOAD_TIMEZONE" envDefault:"Local"`
	// EnabledMuscles restricts the volume and frequency sections. Empty selects every muscle group.
	EnabledMuscles []string `env:"PETRLOAD_ENABLED_MUSCLES" envDefault:""`
	// Targets are custom PR targets as exerciseID=weight pairs.
	Targets []string `env:"PETRLOAD_TARGETS" envDefault:""`
	// HistoryWeeks limits how far back sessions are loaded. Zero or less loads the whole history.
	HistoryWeeks int `env:"PETRLOAD_HISTORY_WEEKS" envDefault:"26"`
	// TraceDir enables the flight recorder. A trace is written there when building the report is slow.
	TraceDir string `env:"PETRLOAD_TRACE_DIR" envDefault:""`
	// SlowReportMillis is the report build duration from which a trace is written.
	SlowReportMillis int `env:"PETRLOAD_SLOW_REPORT_MS" envDefault:"2000"`
	// PrintTuning writes the effective engine constants as YAML instead of the report.
	PrintTuning bool `env:"PETRLOAD_PRINT_TUNING" envDefault:"false"`
}

type logConfig struct {
	Level  string `env:"PETRLOAD_LOG_LEVEL" envDefault:"info"`
	Format string `env:"PETRLOAD_LOG_FORMAT" envDefault:"text"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), stdout io.Writer) (err error) {
	var cancel context.CancelFunc
	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = errors.DecoratePanic(r)
		}
	}()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return errors.Wrap(err, "load timezone", slog.String("timezone", cfg.Timezone))
	}
	override, err := parseNow(cfg.Now)
	if err != nil {
		return errors.Wrap(err, "parse now", slog.String("now", cfg.Now))
	}
	now := ptr.Deref(override, time.Now()).In(loc)

	engineConfig := analytics.DefaultConfig()
	if cfg.TuningPath != "" {
		if engineConfig, err = tuning.Load(cfg.TuningPath); err != nil {
			return errors.Wrap(err, "load tuning", slog.String("path", cfg.TuningPath))
		}
	}
	if cfg.PrintTuning {
		if err = tuning.Encode(stdout, engineConfig); err != nil {
			return errors.Wrap(err, "print tuning")
		}
		return nil
	}
	engine, err := analytics.NewEngine(engineConfig)
	if err != nil {
		return errors.Wrap(err, "new engine")
	}

	render, err := renderer(cfg.Format)
	if err != nil {
		return errors.Wrap(err, "select renderer")
	}
	enabled, err := parseMuscles(cfg.EnabledMuscles)
	if err != nil {
		return errors.Wrap(err, "parse enabled muscles")
	}
	targets, err := parseTargets(cfg.Targets)
	if err != nil {
		return errors.Wrap(err, "parse targets")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		err = errors.Join(err, db.Close(context.WithoutCancel(ctx)))
	}()
	ctx = logging.WithAttrs(ctx, slog.String("database", cfg.SqliteURL))
	logger.LogAttrs(ctx, slog.LevelDebug, "connected to db")

	repo := history.NewRepository(db, logger, loc)
	if cfg.ImportPath != "" {
		if err = importFile(ctx, repo, cfg.ImportPath); err != nil {
			return errors.Wrap(err, "import history", slog.String("path", cfg.ImportPath))
		}
	}

	var since time.Time
	if cfg.HistoryWeeks > 0 {
		since = now.AddDate(0, 0, -7*cfg.HistoryWeeks) //nolint:mnd // days in a week
	}
	snap, err := loadSnapshot(ctx, repo, now, since)
	if err != nil {
		return errors.Wrap(err, "load history")
	}
	snap.Enabled = enabled
	snap.CustomTargets = targets

	var r report.Report
	build := func() error {
		var buildErr error
		r, buildErr = report.Build(ctx, logger, engine, snap)
		return buildErr
	}
	if cfg.TraceDir != "" {
		err = observe(ctx, logger, cfg, build)
	} else {
		err = build()
	}
	if err != nil {
		return errors.Wrap(err, "build report")
	}
	if err = render(r, stdout); err != nil {
		return errors.Wrap(err, "render report", slog.String("format", cfg.Format))
	}
	return nil
}

// observe runs build under the flight recorder.
func observe(ctx context.Context, logger *slog.Logger, cfg config, build func() error) error {
	recorder, err := flightrecorder.New(flightrecorder.Config{
		Logger:    logger,
		Directory: cfg.TraceDir,
		Threshold: time.Duration(cfg.SlowReportMillis) * time.Millisecond,
		MinAge:    0,
		MaxBytes:  0,
	})
	if err != nil {
		return fmt.Errorf("new flight recorder: %w", err)
	}
	if err = recorder.Start(ctx); err != nil {
		return err
	}
	defer recorder.Stop(ctx)
	_, err = recorder.Observe(ctx, "report", build)
	return err
}

func loadSnapshot(ctx context.Context, repo *history.Repository, now, since time.Time) (report.Snapshot, error) {
	definitions, err := repo.Exercises.List(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("list exercises: %w", err)
	}
	sessions, err := repo.Sessions.List(ctx, since)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("list sessions: %w", err)
	}
	return report.Snapshot{
		Catalog:       analytics.NewCatalog(definitions),
		History:       sessions,
		Now:           now,
		Enabled:       nil,
		CustomTargets: nil,
	}, nil
}

func importFile(ctx context.Context, repo *history.Repository, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if _, err = history.Import(ctx, repo, f); err != nil {
		return fmt.Errorf("import export: %w", err)
	}
	return nil
}

func renderer(format string) (func(report.Report, io.Writer) error, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return report.Report.Markdown, nil
	case "html":
		return report.Report.HTML, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

// parseNow returns nil when s is empty.
func parseNow(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // no override
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parse RFC 3339 time: %w", err)
	}
	return &t, nil
}

func parseMuscles(names []string) ([]analytics.MuscleGroup, error) {
	muscles := make([]analytics.MuscleGroup, 0, len(names))
	var errs []error
	for _, name := range names {
		m, err := analytics.ParseMuscleGroup(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		muscles = append(muscles, m)
	}
	return muscles, errors.Join(errs...)
}

// parseTargets parses exerciseID=weight pairs.
func parseTargets(pairs []string) (map[string]float64, error) {
	targets := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: %q is not exerciseID=weight", errInvalidTarget, pair)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || weight <= 0 {
			return nil, fmt.Errorf("%w: %q needs a positive weight", errInvalidTarget, pair)
		}
		targets[id] = weight
	}
	return targets, nil
}

func newLogger(w io.Writer, lookupEnv func(string) (string, bool)) (*slog.Logger, error) {
	var cfg logConfig
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, fmt.Errorf("populate log config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(w, logging.Format(cfg.Format), level)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	return logger, nil
}

func main() {
	ctx := context.Background()
	logger, err := newLogger(os.Stderr, os.LookupEnv)
	if err != nil {
		logger = slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, nil)))
		logger.LogAttrs(ctx, slog.LevelWarn, "falling back to default logger", errors.SlogError(err))
	}
	if err = run(ctx, logger, os.LookupEnv, os.Stdout); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure computing report", errors.SlogError(err))
		os.Exit(1)
	}
}
