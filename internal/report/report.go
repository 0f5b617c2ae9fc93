// Package report computes every analytics result set for one history snapshot and renders them as Markdown or
// HTML.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/petrload/internal/analytics"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the immutable input of a report.
type Snapshot struct {
	Catalog *analytics.Catalog
	History []analytics.WorkoutSession
	Now     time.Time
	// Enabled is the muscle allow-list of the volume and frequency sections. Empty selects all muscles.
	Enabled []analytics.MuscleGroup
	// CustomTargets maps exercise IDs to a target weight to forecast.
	CustomTargets map[string]float64
}

// Report holds the results of the six computations.
type Report struct {
	GeneratedAt      time.Time                                `json:"generated_at"`
	ThisWeek         analytics.Window                         `json:"this_week"`
	LastWeek         analytics.Window                         `json:"last_week"`
	Recovery         []analytics.MuscleRecoveryStatus         `json:"recovery"`
	Volume           []analytics.MuscleVolumeStatus           `json:"volume"`
	Frequency        []analytics.MuscleFrequencyStatus        `json:"frequency"`
	Progression      []analytics.ExerciseProgressionStatus    `json:"progression"`
	AutoRegulation   []analytics.AutoRegulationRecommendation `json:"auto_regulation"`
	Forecasts        []analytics.ExercisePRForecast           `json:"forecasts"`
	UnknownExercises []string                                 `json:"unknown_exercises"`

	names map[string]string
}

// Build runs the computations concurrently. The week sections cover the Monday-start week containing
// snap.Now and the week before it.
func Build(ctx context.Context, logger *slog.Logger, engine *analytics.Engine, snap Snapshot) (Report, error) {
	thisWeek := analytics.WeekOf(snap.Now)
	r := Report{
		GeneratedAt:      snap.Now,
		ThisWeek:         thisWeek,
		LastWeek:         thisWeek.Previous(),
		Recovery:         nil,
		Volume:           nil,
		Frequency:        nil,
		Progression:      nil,
		AutoRegulation:   nil,
		Forecasts:        nil,
		UnknownExercises: snap.Catalog.UnknownExercises(snap.History),
		names:            make(map[string]string),
	}
	for _, id := range r.UnknownExercises {
		logger.LogAttrs(ctx, slog.LevelWarn, "skipping logs of exercise missing from catalog",
			slog.String("exercise_id", id))
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	run := func(section string, compute func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", section, err)
			}
			if err := compute(); err != nil {
				return fmt.Errorf("%s: %w", section, err)
			}
			return nil
		})
	}
	run("recovery", func() error {
		r.Recovery = engine.ComputeRecovery(snap.Catalog, snap.History, snap.Now)
		return nil
	})
	run("volume", func() error {
		var err error
		r.Volume, err = engine.ComputeWeeklyVolume(snap.Catalog, snap.History, r.ThisWeek, snap.Enabled)
		return err
	})
	run("frequency", func() error {
		var err error
		r.Frequency, err = engine.ComputeFrequency(snap.Catalog, snap.History, r.ThisWeek, r.LastWeek, snap.Enabled)
		return err
	})
	run("progression", func() error {
		r.Progression = engine.ComputeProgression(snap.Catalog, snap.History, snap.Now)
		return nil
	})
	run("auto-regulation", func() error {
		r.AutoRegulation = engine.ComputeAutoRegulation(snap.Catalog, snap.History, snap.Now)
		return nil
	})
	run("forecast", func() error {
		r.Forecasts = engine.ComputePRForecast(snap.Catalog, snap.History, snap.Now, snap.CustomTargets)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("compute report: %w", err)
	}

	for _, f := range r.Forecasts {
		if target, ok := snap.CustomTargets[f.ExerciseID]; ok && f.CustomTarget == nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "ignoring custom target not above current max",
				slog.String("exercise_id", f.ExerciseID),
				slog.Float64("target", target),
				slog.Float64("current_max", f.CurrentMax))
		}
	}
	for _, session := range snap.History {
		for _, log := range session.Exercises {
			if def, ok := snap.Catalog.Get(log.ExerciseID); ok {
				r.names[def.ID] = def.Name
			}
		}
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "computed report",
		slog.Int("sessions", len(snap.History)),
		slog.Int("exercises", len(r.Progression)),
		slog.Duration("duration", time.Since(start)))
	return r, nil
}

// ExerciseName returns the catalog name of the exercise, falling back to its ID.
func (r Report) ExerciseName(id string) string {
	if name, ok := r.names[id]; ok && name != "" {
		return name
	}
	return id
}
