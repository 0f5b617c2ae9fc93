package analytics

import (
	"fmt"
	"time"
)

// ComputeFrequency counts the distinct calendar days each muscle was trained as a primary mover in the
// current and the previous week. Secondary involvement does not count towards frequency.
func (e *Engine) ComputeFrequency(
	catalog *Catalog,
	history []WorkoutSession,
	thisWeek Window,
	lastWeek Window,
	enabled []MuscleGroup,
) ([]MuscleFrequencyStatus, error) {
	if err := thisWeek.Validate(); err != nil {
		return nil, fmt.Errorf("compute frequency this week: %w", err)
	}
	if err := lastWeek.Validate(); err != nil {
		return nil, fmt.Errorf("compute frequency last week: %w", err)
	}

	current := primaryTrainingDays(catalog, history, thisWeek)
	previous := primaryTrainingDays(catalog, history, lastWeek)

	muscles := resolveEnabled(enabled)
	statuses := make([]MuscleFrequencyStatus, 0, len(muscles))
	for _, muscle := range muscles {
		recommended := e.cfg.Muscles[muscle].WeeklyFrequency
		thisDays := len(current[muscle])
		lastDays := len(previous[muscle])
		statuses = append(statuses, MuscleFrequencyStatus{
			Muscle:       muscle,
			ThisWeekDays: thisDays,
			LastWeekDays: lastDays,
			Recommended:  recommended,
			Trend:        compareCounts(thisDays, lastDays),
			Status:       classifyFrequency(thisDays, recommended),
		})
	}
	return statuses, nil
}

// primaryTrainingDays collects the set of calendar days per muscle on which it was a primary mover.
func primaryTrainingDays(catalog *Catalog, history []WorkoutSession, window Window) map[MuscleGroup]map[civilDay]bool {
	trainingDays := make(map[MuscleGroup]map[civilDay]bool)
	for _, session := range history {
		if !window.Contains(session.StartTime) {
			continue
		}
		day := calendarDay(session.StartTime)
		for _, log := range session.Exercises {
			if !hasWorkingSet(log.Sets) {
				continue
			}
			for _, inv := range catalog.Involvements(log.ExerciseID) {
				if inv.Role != RolePrimary {
					continue
				}
				if trainingDays[inv.Muscle] == nil {
					trainingDays[inv.Muscle] = make(map[civilDay]bool)
				}
				trainingDays[inv.Muscle][day] = true
			}
		}
	}
	return trainingDays
}

// hasWorkingSet reports whether any set counts towards volume.
func hasWorkingSet(sets []SetRecord) bool {
	for _, set := range sets {
		if set.Working() {
			return true
		}
	}
	return false
}

// civilDay is a calendar date independent of the location value it was read in.
type civilDay struct {
	year int
	day  int
}

// calendarDay is the date of t in its own location.
func calendarDay(t time.Time) civilDay {
	return civilDay{year: t.Year(), day: t.YearDay()}
}

// classifyFrequency compares training days against the recommendation.
func classifyFrequency(days, recommended int) FrequencyState {
	switch {
	case days >= recommended:
		return FrequencyOptimal
	case days == recommended-1:
		return FrequencyLow
	default:
		return FrequencyUndertrained
	}
}

// compareCounts returns the direction from previous to current.
func compareCounts(current, previous int) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendSame
	}
}
