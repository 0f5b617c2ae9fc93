package analytics

import (
	"math"
	"sort"
	"time"
)

// Progression suggestions.
const (
	SuggestionIncreaseVolume = "Increase volume: add a set or two per session"
	SuggestionIncreaseWeight = "Increase weight instead of sets"
	SuggestionVary           = "Vary the exercise or rep range"
	SuggestionRecover        = "Review recovery and nutrition, or take a deload week"
)

// progressionWindows partitions an exercise's sessions by age relative to now.
type progressionWindows struct {
	recent   []exerciseSession
	previous []exerciseSession
	older    []exerciseSession
}

// ComputeProgression classifies the strength trend of every logged exercise.
//
// Results are ordered regressing first, then stagnant, then by most recently performed.
func (e *Engine) ComputeProgression(
	catalog *Catalog,
	history []WorkoutSession,
	now time.Time,
) []ExerciseProgressionStatus {
	grouped := groupByExercise(catalog, history)

	statuses := make([]ExerciseProgressionStatus, 0, len(grouped))
	for _, id := range sortedExerciseIDs(grouped) {
		statuses = append(statuses, e.exerciseProgression(id, grouped[id], now))
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		ri, rj := progressionRank(statuses[i].Status), progressionRank(statuses[j].Status)
		if ri != rj {
			return ri < rj
		}
		return statuses[i].LastPerformed.After(statuses[j].LastPerformed)
	})
	return statuses
}

// progressionRank orders the statuses needing attention first.
func progressionRank(status ProgressionState) int {
	switch status {
	case ProgressionRegressing:
		return 0
	case ProgressionStagnant:
		return 1
	default:
		return 2 //nolint:mnd // everything else
	}
}

// exerciseProgression evaluates one exercise's chronologically ordered sessions.
func (e *Engine) exerciseProgression(id string, sessions []exerciseSession, now time.Time) ExerciseProgressionStatus {
	cfg := e.cfg.Progression
	latest := sessions[len(sessions)-1]
	sinceProgress := sessionsSinceProgress(sessions)

	status := ExerciseProgressionStatus{
		ExerciseID:           id,
		Status:               ProgressionNew,
		CurrentMax:           latest.maxWeight,
		PreviousMax:          latest.maxWeight,
		PercentChange:        0,
		VolumeTrend:          0,
		Suggestion:           "",
		WeeksWithoutProgress: sinceProgress / 2, //nolint:mnd // assumes about two sessions per week
		SessionCount:         len(sessions),
		LastPerformed:        latest.date,
	}
	if len(sessions) < cfg.MinSessions {
		return status
	}

	windows := e.partition(sessions, now)

	currentMax := latest.maxWeight
	if len(windows.recent) > 0 {
		currentMax = maxWeightOf(windows.recent)
	}
	previousMax := currentMax
	switch {
	case len(windows.previous) > 0:
		previousMax = maxWeightOf(windows.previous)
	case len(windows.older) > 0:
		previousMax = maxWeightOf(windows.older)
	}

	percentChange := 0
	if previousMax > 0 {
		percentChange = int(math.Round((currentMax - previousMax) / previousMax * 100)) //nolint:mnd // percent
	}
	volumeTrend := volumeTrendOf(windows.recent, windows.previous)

	status.CurrentMax = currentMax
	status.PreviousMax = previousMax
	status.PercentChange = percentChange
	status.VolumeTrend = volumeTrend

	switch {
	case float64(percentChange) > cfg.ProgressingPercent:
		status.Status = ProgressionProgressing
	case float64(percentChange) < cfg.RegressingPercent:
		status.Status = ProgressionRegressing
		status.Suggestion = e.stagnationSuggestion(volumeTrend) + ". " + SuggestionRecover
	case sinceProgress >= cfg.StagnantSessions:
		status.Status = ProgressionStagnant
		status.Suggestion = e.stagnationSuggestion(volumeTrend)
	default:
		status.Status = ProgressionProgressing
	}
	return status
}

// partition splits the sessions into the recent, previous and older windows. Sessions older than the
// older window are ignored.
func (e *Engine) partition(sessions []exerciseSession, now time.Time) progressionWindows {
	cfg := e.cfg.Progression
	recentCutoff := now.Add(-days(cfg.RecentDays))
	previousCutoff := now.Add(-days(cfg.PreviousDays))
	olderCutoff := now.Add(-days(cfg.OlderDays))

	var w progressionWindows
	for _, s := range sessions {
		switch {
		case s.date.After(recentCutoff):
			w.recent = append(w.recent, s)
		case s.date.After(previousCutoff):
			w.previous = append(w.previous, s)
		case s.date.After(olderCutoff):
			w.older = append(w.older, s)
		}
	}
	return w
}

// sessionsSinceProgress counts the sessions logged since the weight last exceeded the running best.
func sessionsSinceProgress(sessions []exerciseSession) int {
	best := 0.0
	count := 0
	for _, s := range sessions {
		if s.maxWeight > best {
			best = s.maxWeight
			count = 0
			continue
		}
		count++
	}
	return count
}

// maxWeightOf returns the heaviest working set across sessions.
func maxWeightOf(sessions []exerciseSession) float64 {
	heaviest := 0.0
	for _, s := range sessions {
		heaviest = math.Max(heaviest, s.maxWeight)
	}
	return heaviest
}

// volumeTrendOf is the rounded percent change of mean session volume. Zero when either window is empty.
func volumeTrendOf(recent, previous []exerciseSession) int {
	if len(recent) == 0 || len(previous) == 0 {
		return 0
	}
	recentMean := meanVolume(recent)
	previousMean := meanVolume(previous)
	if previousMean <= 0 {
		return 0
	}
	return int(math.Round((recentMean - previousMean) / previousMean * 100)) //nolint:mnd // percent
}

func meanVolume(sessions []exerciseSession) float64 {
	total := 0.0
	for _, s := range sessions {
		total += s.totalVolume
	}
	return total / float64(len(sessions))
}

// stagnationSuggestion picks advice for a plateau based on how volume has moved.
func (e *Engine) stagnationSuggestion(volumeTrend int) string {
	significant := e.cfg.Progression.SignificantVolumeTrend
	switch {
	case volumeTrend <= -significant:
		return SuggestionIncreaseVolume
	case volumeTrend >= significant:
		return SuggestionIncreaseWeight
	default:
		return SuggestionVary
	}
}
