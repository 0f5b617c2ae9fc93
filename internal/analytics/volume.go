package analytics

import "fmt"

// ComputeWeeklyVolume sums effective sets per muscle within the window and classifies them against the
// recommended weekly range. The trend compares with the preceding window of equal length.
//
// enabled is the muscle allow-list in output order. An empty allow-list selects every muscle group.
func (e *Engine) ComputeWeeklyVolume(
	catalog *Catalog,
	history []WorkoutSession,
	window Window,
	enabled []MuscleGroup,
) ([]MuscleVolumeStatus, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("compute weekly volume: %w", err)
	}

	current := e.effectiveSets(catalog, history, window)
	previous := e.effectiveSets(catalog, history, window.Previous())

	muscles := resolveEnabled(enabled)
	statuses := make([]MuscleVolumeStatus, 0, len(muscles))
	for _, muscle := range muscles {
		sets := roundOneDecimal(current[muscle])
		target := e.cfg.Muscles[muscle].WeeklySets
		statuses = append(statuses, MuscleVolumeStatus{
			Muscle:        muscle,
			EffectiveSets: sets,
			Min:           target.Min,
			Optimal:       target.Optimal,
			Max:           target.Max,
			Status:        classifyVolume(sets, target),
			Trend:         roundOneDecimal(current[muscle] - previous[muscle]),
		})
	}
	return statuses, nil
}

// effectiveSets tallies working sets per muscle for sessions starting within the window.
// Rounding is left to the caller so partial credits do not accumulate rounding errors.
func (e *Engine) effectiveSets(catalog *Catalog, history []WorkoutSession, window Window) map[MuscleGroup]float64 {
	tally := make(map[MuscleGroup]float64)
	for _, session := range history {
		if !window.Contains(session.StartTime) {
			continue
		}
		for _, log := range session.Exercises {
			involvements := catalog.Involvements(log.ExerciseID)
			if len(involvements) == 0 {
				continue
			}
			working := 0
			for _, set := range log.Sets {
				if set.Working() {
					working++
				}
			}
			if working == 0 {
				continue
			}
			for _, inv := range involvements {
				credit := 1.0
				if inv.Role == RoleSecondary {
					credit = e.cfg.Volume.SecondarySetWeight
				}
				tally[inv.Muscle] += credit * float64(working)
			}
		}
	}
	return tally
}

// classifyVolume compares effective sets against the recommended range.
func classifyVolume(sets float64, target VolumeRange) VolumeState {
	switch {
	case sets < target.Min:
		return VolumeUnder
	case sets > target.Max:
		return VolumeOver
	default:
		return VolumeOptimal
	}
}

// resolveEnabled deduplicates the allow-list, keeping only known muscles. Empty selects all.
func resolveEnabled(enabled []MuscleGroup) []MuscleGroup {
	if len(enabled) == 0 {
		return AllMuscleGroups()
	}
	known := make(map[MuscleGroup]bool)
	for _, m := range AllMuscleGroups() {
		known[m] = true
	}
	seen := make(map[MuscleGroup]bool, len(enabled))
	muscles := make([]MuscleGroup, 0, len(enabled))
	for _, m := range enabled {
		if !known[m] || seen[m] {
			continue
		}
		seen[m] = true
		muscles = append(muscles, m)
	}
	return muscles
}
