package analytics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/petrload/internal/analytics"
)

func TestEngine_ComputeFrequency(t *testing.T) {
	thisWeek := analytics.WeekOf(now)
	lastWeek := thisWeek.Previous()
	at := func(day int, hour int) time.Time {
		return thisWeek.Start.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	}

	history := []analytics.WorkoutSession{
		session(at(0, 8), exerciseLog("bench", workingSet(100, 5))),
		session(at(0, 18), exerciseLog("bench", workingSet(100, 5))),
		session(at(2, 9), exerciseLog("bench", workingSet(100, 5)), exerciseLog("squat", workingSet(140, 5))),
		session(at(1, 9), exerciseLog("dips", warmupSet(0.5, 5))),
		session(at(-4, 9), exerciseLog("dips", workingSet(20, 8))),
		session(at(-3, 9), exerciseLog("bench", workingSet(95, 5))),
	}
	enabled := []analytics.MuscleGroup{
		analytics.MuscleChest,
		analytics.MuscleTriceps,
		analytics.MuscleQuadriceps,
		analytics.MuscleGlutes,
	}

	got, err := newEngine(t).ComputeFrequency(newCatalog(), history, thisWeek, lastWeek, enabled)
	if err != nil {
		t.Fatalf("ComputeFrequency: %v", err)
	}
	want := []analytics.MuscleFrequencyStatus{
		{
			Muscle: analytics.MuscleChest, ThisWeekDays: 2, LastWeekDays: 1, Recommended: 2,
			Trend: analytics.TrendUp, Status: analytics.FrequencyOptimal,
		},
		{
			Muscle: analytics.MuscleTriceps, ThisWeekDays: 0, LastWeekDays: 1, Recommended: 2,
			Trend: analytics.TrendDown, Status: analytics.FrequencyUndertrained,
		},
		{
			Muscle: analytics.MuscleQuadriceps, ThisWeekDays: 1, LastWeekDays: 0, Recommended: 2,
			Trend: analytics.TrendUp, Status: analytics.FrequencyLow,
		},
		{
			Muscle: analytics.MuscleGlutes, ThisWeekDays: 0, LastWeekDays: 0, Recommended: 2,
			Trend: analytics.TrendSame, Status: analytics.FrequencyUndertrained,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeFrequency() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_ComputeFrequency_invalidWindow(t *testing.T) {
	thisWeek := analytics.WeekOf(now)
	empty := analytics.Window{Start: thisWeek.Start, End: thisWeek.Start}
	_, err := newEngine(t).ComputeFrequency(newCatalog(), nil, thisWeek, empty, nil)
	if !errors.Is(err, analytics.ErrInvalidWindow) {
		t.Errorf("ComputeFrequency() error = %v, want ErrInvalidWindow", err)
	}
}

func TestEngine_ComputeFrequency_sameDayAcrossLocations(t *testing.T) {
	thisWeek := analytics.WeekOf(now)
	morning := thisWeek.Start.Add(8 * time.Hour)
	evening := thisWeek.Start.Add(18 * time.Hour).In(time.FixedZone("UTC", 0))
	history := []analytics.WorkoutSession{
		session(morning, exerciseLog("bench", workingSet(100, 5))),
		session(evening, exerciseLog("bench", workingSet(100, 5))),
	}

	got, err := newEngine(t).ComputeFrequency(newCatalog(), history, thisWeek, thisWeek.Previous(),
		[]analytics.MuscleGroup{analytics.MuscleChest})
	if err != nil {
		t.Fatalf("ComputeFrequency: %v", err)
	}
	if len(got) != 1 || got[0].ThisWeekDays != 1 {
		t.Errorf("ComputeFrequency() = %+v, want chest trained on one day", got)
	}
}
