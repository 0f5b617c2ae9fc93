package analytics_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/petrload/internal/analytics"
)

func TestEngine_ComputeAutoRegulation(t *testing.T) {
	tests := []struct {
		name    string
		history []analytics.WorkoutSession
		want    []analytics.AutoRegulationRecommendation
	}{
		{
			name: "failure on the last session",
			history: []analytics.WorkoutSession{
				session(daysAgo(21), exerciseLog("bench", rirSet(100, 5, 3.5))),
				session(daysAgo(14), exerciseLog("bench", rirSet(100, 5, 1.0))),
				session(daysAgo(7), exerciseLog("bench", rirSet(100, 5, 0.8))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 0.4))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        100,
				LastReps:          5,
				LastRIR:           0.4,
				AvgRIR:            1.4,
				RecommendedWeight: 95,
				Recommendation:    analytics.AdjustDecrease,
				Reason:            "Last session reached failure (RIR 0.4): reduce the load",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "grinding three sessions in a row",
			history: []analytics.WorkoutSession{
				session(daysAgo(14), exerciseLog("bench", rirSet(100, 5, 0.5))),
				session(daysAgo(7), exerciseLog("bench", rirSet(100, 5, 0.5))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 0.5))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        100,
				LastReps:          5,
				LastRIR:           0.5,
				AvgRIR:            0.5,
				RecommendedWeight: 60,
				Recommendation:    analytics.AdjustDeload,
				Reason:            "RIR below 1 for the last 3 sessions: deload to recover",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "easy sessions",
			history: []analytics.WorkoutSession{
				session(daysAgo(7), exerciseLog("bench", rirSet(100, 5, 3))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 3))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        100,
				LastReps:          5,
				LastRIR:           3,
				AvgRIR:            3,
				RecommendedWeight: 102.5,
				Recommendation:    analytics.AdjustIncrease,
				Reason:            "Last session felt easy (RIR 3.0): increase the load",
				Confidence:        analytics.ConfidenceMedium,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "increase by at least one increment",
			history: []analytics.WorkoutSession{
				session(daysAgo(7), exerciseLog("dips", rirSet(20, 8, 4))),
				session(daysAgo(1), exerciseLog("dips", rirSet(20, 8, 4))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "dips",
				LastWeight:        20,
				LastReps:          8,
				LastRIR:           4,
				AvgRIR:            4,
				RecommendedWeight: 22.5,
				Recommendation:    analytics.AdjustIncrease,
				Reason:            "Last session felt easy (RIR 4.0): increase the load",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "sustained ease",
			history: []analytics.WorkoutSession{
				session(daysAgo(14), exerciseLog("bench", rirSet(100, 5, 3))),
				session(daysAgo(7), exerciseLog("bench", rirSet(100, 5, 2))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 2))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        100,
				LastReps:          5,
				LastRIR:           2,
				AvgRIR:            2.3,
				RecommendedWeight: 102.5,
				Recommendation:    analytics.AdjustIncrease,
				Reason:            "Average RIR 2.3 over 3 sessions: sustained ease, add 2.5",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "productive range uses the best set",
			history: []analytics.WorkoutSession{
				session(daysAgo(7), exerciseLog("bench", rirSet(100, 5, 2))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 2), rirSet(90, 8, 1), warmupSet(60, 10))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        90,
				LastReps:          8,
				LastRIR:           1.5,
				AvgRIR:            1.8,
				RecommendedWeight: 90,
				Recommendation:    analytics.AdjustMaintain,
				Reason:            "RIR 1.5 is in the productive range: keep the load",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "close to failure",
			history: []analytics.WorkoutSession{
				session(daysAgo(7), exerciseLog("bench", rirSet(100, 5, 2))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 1))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        100,
				LastReps:          5,
				LastRIR:           1,
				AvgRIR:            1.5,
				RecommendedWeight: 100,
				Recommendation:    analytics.AdjustMaintain,
				Reason:            "RIR 1.0 is close to failure: keep the load",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "no reported RIR",
			history: []analytics.WorkoutSession{
				session(daysAgo(7), exerciseLog("bench", workingSet(100, 5))),
				session(daysAgo(1), exerciseLog("bench", workingSet(100, 5))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "bench",
				LastWeight:        100,
				LastReps:          5,
				LastRIR:           2,
				AvgRIR:            2,
				RecommendedWeight: 100,
				Recommendation:    analytics.AdjustMaintain,
				Reason:            "RIR 2.0 is in the productive range: keep the load",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "decrease never goes below zero",
			history: []analytics.WorkoutSession{
				session(daysAgo(7), exerciseLog("dips", rirSet(2.5, 8, 0))),
				session(daysAgo(1), exerciseLog("dips", rirSet(2.5, 8, 0))),
			},
			want: []analytics.AutoRegulationRecommendation{{
				ExerciseID:        "dips",
				LastWeight:        2.5,
				LastReps:          8,
				LastRIR:           0,
				AvgRIR:            0,
				RecommendedWeight: 0,
				Recommendation:    analytics.AdjustDecrease,
				Reason:            "Last session reached failure (RIR 0.0): reduce the load",
				Confidence:        analytics.ConfidenceHigh,
				LastPerformed:     daysAgo(1),
			}},
		},
		{
			name: "sessions outside the lookback are ignored",
			history: []analytics.WorkoutSession{
				session(daysAgo(30), exerciseLog("bench", rirSet(100, 5, 2))),
				session(daysAgo(1), exerciseLog("bench", rirSet(100, 5, 2))),
			},
			want: []analytics.AutoRegulationRecommendation{},
		},
	}

	engine := newEngine(t)
	catalog := newCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ComputeAutoRegulation(catalog, tt.history, now)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeAutoRegulation() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_ComputeAutoRegulation_order(t *testing.T) {
	history := []analytics.WorkoutSession{
		session(daysAgo(9), exerciseLog("bench", rirSet(100, 5, 2)), exerciseLog("squat", rirSet(140, 5, 2))),
		session(daysAgo(5), exerciseLog("squat", rirSet(140, 5, 2))),
		session(daysAgo(3), exerciseLog("bench", rirSet(100, 5, 2))),
	}
	got := newEngine(t).ComputeAutoRegulation(newCatalog(), history, now)
	var order []string
	for _, r := range got {
		order = append(order, r.ExerciseID)
	}
	if diff := cmp.Diff([]string{"bench", "squat"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
