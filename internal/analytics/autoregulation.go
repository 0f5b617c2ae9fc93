package analytics

import (
	"fmt"
	"sort"
	"time"
)

// rirSession is one session's best set and mean reported RIR.
type rirSession struct {
	date    time.Time
	bestSet SetRecord
	rir     *float64
}

// ComputeAutoRegulation recommends the next-session weight for every exercise logged at least twice within
// the lookback period, based on the reported reps in reserve. Results are ordered by most recently performed.
func (e *Engine) ComputeAutoRegulation(
	catalog *Catalog,
	history []WorkoutSession,
	now time.Time,
) []AutoRegulationRecommendation {
	cfg := e.cfg.AutoRegulation
	cutoff := now.Add(-days(cfg.LookbackDays))
	grouped := groupByExercise(catalog, history)

	recommendations := make([]AutoRegulationRecommendation, 0, len(grouped))
	for _, id := range sortedExerciseIDs(grouped) {
		var sessions []rirSession
		for _, s := range grouped[id] {
			if !s.date.After(cutoff) {
				continue
			}
			sessions = append(sessions, rirSession{date: s.date, bestSet: s.bestSet, rir: meanRIR(s.sets)})
		}
		if len(sessions) < cfg.MinSessions {
			continue
		}
		recommendations = append(recommendations, e.recommendLoad(id, sessions))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].LastPerformed.After(recommendations[j].LastPerformed)
	})
	return recommendations
}

// meanRIR averages the reported RIR of the sets, nil when no set reported one.
func meanRIR(sets []SetRecord) *float64 {
	total := 0.0
	n := 0
	for _, set := range sets {
		if set.RIR == nil {
			continue
		}
		total += *set.RIR
		n++
	}
	if n == 0 {
		return nil
	}
	mean := total / float64(n)
	return &mean
}

// recommendLoad turns the chronologically ordered RIR readings into a weight recommendation.
func (e *Engine) recommendLoad(id string, sessions []rirSession) AutoRegulationRecommendation {
	cfg := e.cfg.AutoRegulation
	latest := sessions[len(sessions)-1]

	avgRIR := cfg.DefaultRIR
	total := 0.0
	reported := 0
	for _, s := range sessions {
		if s.rir != nil {
			total += *s.rir
			reported++
		}
	}
	if reported > 0 {
		avgRIR = total / float64(reported)
	}
	lastRIR := avgRIR
	if latest.rir != nil {
		lastRIR = *latest.rir
	}

	weight := latest.bestSet.Weight
	rec := AutoRegulationRecommendation{
		ExerciseID:        id,
		LastWeight:        weight,
		LastReps:          latest.bestSet.Reps,
		LastRIR:           roundOneDecimal(lastRIR),
		AvgRIR:            roundOneDecimal(avgRIR),
		RecommendedWeight: weight,
		Recommendation:    AdjustMaintain,
		Reason:            "",
		Confidence:        ConfidenceHigh,
		LastPerformed:     latest.date,
	}

	if e.needsDeload(sessions) {
		rec.Recommendation = AdjustDeload
		rec.RecommendedWeight = weight * cfg.DeloadFactor
		rec.Reason = fmt.Sprintf("RIR below %g for the last %d sessions: deload to recover",
			cfg.DeloadRIR, cfg.DeloadSessions)
		return rec
	}

	switch {
	case lastRIR >= cfg.IncreaseRIR:
		rec.Recommendation = AdjustIncrease
		rec.RecommendedWeight = e.increasedWeight(weight)
		rec.Reason = fmt.Sprintf("Last session felt easy (RIR %.1f): increase the load", lastRIR)
		if lastRIR < cfg.ConfidentIncrease {
			rec.Confidence = ConfidenceMedium
		}
	case lastRIR >= cfg.MaintainRIR:
		if len(sessions) >= cfg.SustainedSessions && avgRIR >= cfg.SustainedEaseRIR {
			rec.Recommendation = AdjustIncrease
			rec.RecommendedWeight = weight + cfg.WeightIncrement
			rec.Reason = fmt.Sprintf("Average RIR %.1f over %d sessions: sustained ease, add %g",
				avgRIR, len(sessions), cfg.WeightIncrement)
			break
		}
		rec.Reason = fmt.Sprintf("RIR %.1f is in the productive range: keep the load", lastRIR)
	case lastRIR >= cfg.DecreaseRIR:
		rec.Reason = fmt.Sprintf("RIR %.1f is close to failure: keep the load", lastRIR)
	default:
		rec.Recommendation = AdjustDecrease
		rec.RecommendedWeight = e.decreasedWeight(weight)
		rec.Reason = fmt.Sprintf("Last session reached failure (RIR %.1f): reduce the load", lastRIR)
	}
	return rec
}

// needsDeload reports whether each of the most recent sessions reported an RIR below the deload threshold.
func (e *Engine) needsDeload(sessions []rirSession) bool {
	cfg := e.cfg.AutoRegulation
	if cfg.DeloadSessions <= 0 || len(sessions) < cfg.DeloadSessions {
		return false
	}
	for _, s := range sessions[len(sessions)-cfg.DeloadSessions:] {
		if s.rir == nil || *s.rir >= cfg.DeloadRIR {
			return false
		}
	}
	return true
}

// increasedWeight adds the increase percentage rounded to a loadable increment, at least one increment.
func (e *Engine) increasedWeight(weight float64) float64 {
	cfg := e.cfg.AutoRegulation
	increased := roundToIncrement(weight*cfg.IncreaseFactor, cfg.WeightIncrement)
	if increased <= weight {
		increased = weight + cfg.WeightIncrement
	}
	return increased
}

// decreasedWeight removes the decrease percentage rounded to a loadable increment, at least one increment.
func (e *Engine) decreasedWeight(weight float64) float64 {
	cfg := e.cfg.AutoRegulation
	decreased := roundToIncrement(weight*cfg.DecreaseFactor, cfg.WeightIncrement)
	if decreased >= weight {
		decreased = weight - cfg.WeightIncrement
	}
	return max(0, decreased)
}
