// Package analytics computes training load and recovery analytics from a snapshot of workout history.
//
// Every computation is a pure function of its arguments: the engine holds only its immutable constants
// table, so a single Engine can serve concurrent callers.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrInvalidWindow is returned when a window does not end after it starts.
	ErrInvalidWindow = errors.New("window end must be after start")
	// ErrTargetNotAboveMax is returned when a custom PR target does not exceed the current max.
	ErrTargetNotAboveMax = errors.New("target weight must exceed current max")
)

// Engine runs the analytics with an injected constants table.
type Engine struct {
	cfg Config
}

// NewEngine constructs an engine after validating the constants table.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the constants the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// exerciseSession is one session's working sets of a single exercise.
type exerciseSession struct {
	date        time.Time
	sets        []SetRecord
	maxWeight   float64
	totalVolume float64
	bestSet     SetRecord
}

// groupByExercise collects the working sets of every catalogued exercise per session in chronological order.
// Sessions without working sets for an exercise are left out of that exercise's list.
func groupByExercise(catalog *Catalog, history []WorkoutSession) map[string][]exerciseSession {
	grouped := make(map[string][]exerciseSession)
	for _, session := range sortedByStart(history) {
		for _, log := range session.Exercises {
			if _, ok := catalog.Get(log.ExerciseID); !ok {
				continue
			}
			es, ok := summarizeSets(session.StartTime, log.Sets)
			if !ok {
				continue
			}
			// Several logs of the same exercise in one session are merged.
			list := grouped[log.ExerciseID]
			if n := len(list); n > 0 && list[n-1].date.Equal(session.StartTime) {
				merged, _ := summarizeSets(session.StartTime, append(list[n-1].sets, es.sets...))
				list[n-1] = merged
				continue
			}
			grouped[log.ExerciseID] = append(list, es)
		}
	}
	return grouped
}

// summarizeSets keeps the working sets and computes the per-session aggregates.
func summarizeSets(date time.Time, sets []SetRecord) (exerciseSession, bool) {
	es := exerciseSession{date: date}
	for _, set := range sets {
		if !set.Working() {
			continue
		}
		es.sets = append(es.sets, set)
		es.totalVolume += set.Volume()
		if set.Weight > es.maxWeight {
			es.maxWeight = set.Weight
		}
		if len(es.sets) == 1 || set.Volume() > es.bestSet.Volume() {
			es.bestSet = set
		}
	}
	return es, len(es.sets) > 0
}

// sortedByStart returns a copy of the history ordered by start time.
func sortedByStart(history []WorkoutSession) []WorkoutSession {
	sorted := make([]WorkoutSession, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	return sorted
}

// sortedExerciseIDs returns the keys of the grouped history in a stable order.
func sortedExerciseIDs(grouped map[string][]exerciseSession) []string {
	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// roundOneDecimal rounds to one decimal place.
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10 //nolint:mnd // one decimal
}

// roundToIncrement rounds a weight to the nearest loadable increment.
func roundToIncrement(weight, increment float64) float64 {
	return math.Round(weight/increment) * increment
}

// days converts a day count to a duration.
func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
