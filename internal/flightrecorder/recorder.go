// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when an operation
// turns out slower than expected.
package flightrecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"time"
)

const (
	defaultMinAge   = 30 * time.Second
	defaultMaxBytes = 16 * 1024 * 1024
)

// Recorder captures a trace of operations that exceed the threshold.
type Recorder struct {
	logger    *slog.Logger
	fr        *trace.FlightRecorder
	directory string
	threshold time.Duration
}

// Config configures the Recorder.
type Config struct {
	Logger *slog.Logger
	// Directory receives the trace files. It is created if missing.
	Directory string
	// Threshold is the duration from which an operation counts as slow.
	Threshold time.Duration
	// MinAge and MaxBytes bound the in-memory trace window. Zero selects the defaults.
	MinAge   time.Duration
	MaxBytes uint64
}

// New creates a stopped Recorder.
func New(cfg Config) (*Recorder, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Directory == "" {
		return nil, errors.New("traces directory is required")
	}
	if err := os.MkdirAll(cfg.Directory, 0o750); err != nil { //nolint:mnd // rwxr-x---
		return nil, fmt.Errorf("create traces directory: %w", err)
	}

	minAge := cfg.MinAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}

	return &Recorder{
		logger:    cfg.Logger,
		fr:        trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: minAge, MaxBytes: maxBytes}),
		directory: cfg.Directory,
		threshold: cfg.Threshold,
	}, nil
}

// Start begins recording. Only one recorder can run in a process at a time.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.fr.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "flight recorder started",
		slog.String("directory", r.directory),
		slog.Duration("threshold", r.threshold))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	r.fr.Stop()
	r.logger.LogAttrs(ctx, slog.LevelDebug, "flight recorder stopped")
}

// Observe runs fn and writes the recorded trace when fn takes at least the threshold. It returns the path of
// the written trace file, or "" when fn was fast enough. The error of fn is returned as is; failing to write
// the trace is only logged.
func (r *Recorder) Observe(ctx context.Context, name string, fn func() error) (string, error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if elapsed < r.threshold {
		return "", err
	}

	path, captureErr := r.capture(name, start)
	if captureErr != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace",
			slog.String("operation", name),
			slog.Any("error", captureErr))
		return "", err
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace of slow operation",
		slog.String("operation", name),
		slog.Duration("duration", elapsed),
		slog.String("file", path))
	return path, err
}

func (r *Recorder) capture(name string, start time.Time) (_ string, err error) {
	filename := fmt.Sprintf("slow-%s-%s.trace", name, start.UTC().Format("20060102-150405"))
	path := filepath.Join(r.directory, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create trace file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if _, err = r.fr.WriteTo(f); err != nil {
		return "", fmt.Errorf("write trace: %w", err)
	}
	return path, nil
}
