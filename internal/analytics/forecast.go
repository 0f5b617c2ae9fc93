package analytics

import (
	"fmt"
	"math"
	"time"
)

const week = 7 * 24 * time.Hour

// ComputePRForecast projects future weight milestones for every exercise logged in at least three sessions.
//
// customTargets maps exercise IDs to an additional target weight. Targets at or below the current max are
// ignored here; use ForecastTarget to have them rejected with an error.
func (e *Engine) ComputePRForecast(
	catalog *Catalog,
	history []WorkoutSession,
	now time.Time,
	customTargets map[string]float64,
) []ExercisePRForecast {
	cfg := e.cfg.Forecast
	grouped := groupByExercise(catalog, history)

	forecasts := make([]ExercisePRForecast, 0, len(grouped))
	for _, id := range sortedExerciseIDs(grouped) {
		sessions := grouped[id]
		if len(sessions) < cfg.MinSessions {
			continue
		}
		forecast := e.forecastExercise(id, sessions, now)
		if target, ok := customTargets[id]; ok {
			if m, err := e.ForecastTarget(forecast, target, now); err == nil {
				forecast.CustomTarget = &m
			}
		}
		forecasts = append(forecasts, forecast)
	}
	return forecasts
}

// ForecastTarget estimates when the forecast exercise reaches target. The target must exceed the current max.
func (e *Engine) ForecastTarget(forecast ExercisePRForecast, target float64, now time.Time) (Milestone, error) {
	if target <= forecast.CurrentMax {
		return Milestone{}, fmt.Errorf("forecast %s to %g over %g: %w",
			forecast.ExerciseID, target, forecast.CurrentMax, ErrTargetNotAboveMax)
	}
	return e.milestone(target, forecast.CurrentMax, forecast.WeeklyRate, len(forecast.PRPoints), now), nil
}

func (e *Engine) forecastExercise(id string, sessions []exerciseSession, now time.Time) ExercisePRForecast {
	points := prSequence(sessions)
	currentMax := points[len(points)-1].Weight
	rate := e.weeklyRate(points)

	forecast := ExercisePRForecast{
		ExerciseID:   id,
		CurrentMax:   currentMax,
		WeeklyRate:   rate,
		Milestones:   make([]Milestone, 0, e.cfg.Forecast.Milestones),
		CustomTarget: nil,
		PRPoints:     points,
	}
	for _, target := range e.milestoneTargets(currentMax) {
		forecast.Milestones = append(forecast.Milestones, e.milestone(target, currentMax, rate, len(points), now))
	}
	return forecast
}

// prSequence keeps the sessions that set a new running max weight. The first session always does.
func prSequence(sessions []exerciseSession) []PRPoint {
	var points []PRPoint
	best := 0.0
	for _, s := range sessions {
		if s.maxWeight > best {
			best = s.maxWeight
			points = append(points, PRPoint{Date: s.date, Weight: s.maxWeight})
		}
	}
	return points
}

// rawWeeklyRate is the weight gained per week between the first and the last PR, before damping.
// The span is floored at one week. Zero when fewer than two PRs exist.
func rawWeeklyRate(points []PRPoint) float64 {
	if len(points) < 2 { //nolint:mnd // a rate needs two points
		return 0
	}
	first, last := points[0], points[len(points)-1]
	weeks := math.Max(1, last.Date.Sub(first.Date).Hours()/week.Hours())
	return (last.Weight - first.Weight) / weeks
}

// weeklyRate applies diminishing returns to the raw rate and floors the result so that every milestone
// stays reachable.
func (e *Engine) weeklyRate(points []PRPoint) float64 {
	cfg := e.cfg.Forecast
	if len(points) == 0 {
		return cfg.MinWeeklyRate
	}
	currentMax := points[len(points)-1].Weight
	damping := math.Max(cfg.DampingFloor, 1-currentMax/cfg.DampingScale)
	return math.Max(cfg.MinWeeklyRate, rawWeeklyRate(points)*damping)
}

// milestoneTargets steps up from the current max to the next round weights.
func (e *Engine) milestoneTargets(currentMax float64) []float64 {
	cfg := e.cfg.Forecast
	step := cfg.SmallStep
	if currentMax >= cfg.LargeStepFrom {
		step = cfg.LargeStep
	}
	base := math.Floor(currentMax/step) * step
	targets := make([]float64, 0, cfg.Milestones)
	for i := 1; i <= cfg.Milestones; i++ {
		targets = append(targets, base+step*float64(i))
	}
	return targets
}

func (e *Engine) milestone(target, currentMax, rate float64, prPoints int, now time.Time) Milestone {
	cfg := e.cfg.Forecast
	rate = math.Max(cfg.MinWeeklyRate, rate)
	weeksAway := (target - currentMax) / rate

	confidence := ConfidenceLow
	switch {
	case weeksAway <= cfg.HighWeeks && prPoints >= cfg.HighPRPoints:
		confidence = ConfidenceHigh
	case weeksAway <= cfg.MediumWeeks && prPoints >= cfg.MediumPRPoints:
		confidence = ConfidenceMedium
	}

	return Milestone{
		TargetWeight:  target,
		EstimatedDate: now.Add(weeksToDuration(weeksAway)),
		WeeksAway:     roundOneDecimal(weeksAway),
		Confidence:    confidence,
	}
}

// weeksToDuration converts weeks to a duration, saturating at the longest representable duration.
func weeksToDuration(weeks float64) time.Duration {
	const longest = time.Duration(math.MaxInt64)
	if weeks >= float64(longest/week) {
		return longest
	}
	return time.Duration(weeks * float64(week))
}
