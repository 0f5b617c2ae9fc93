package analytics_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/petrload/internal/analytics"
)

func recoveryOf(t *testing.T, statuses []analytics.MuscleRecoveryStatus, muscle analytics.MuscleGroup) analytics.MuscleRecoveryStatus {
	t.Helper()
	for _, s := range statuses {
		if s.Muscle == muscle {
			return s
		}
	}
	t.Fatalf("no recovery status for %s", muscle)
	return analytics.MuscleRecoveryStatus{}
}

func TestEngine_ComputeRecovery(t *testing.T) {
	tenHoursAgo := now.Add(-10 * time.Hour)
	thirtySixHoursAgo := now.Add(-36 * time.Hour)

	tests := []struct {
		name    string
		history []analytics.WorkoutSession
		want    []analytics.MuscleRecoveryStatus
	}{
		{
			name:    "primary mover half recovered",
			history: []analytics.WorkoutSession{session(thirtySixHoursAgo, exerciseLog("bench", workingSet(100, 5)))},
			want: []analytics.MuscleRecoveryStatus{
				{
					Muscle:          analytics.MuscleChest,
					RecoveryPercent: 50,
					HoursRemaining:  36,
					Role:            analytics.RolePrimary,
					Status:          analytics.RecoveryRecovering,
					LastTrained:     &thirtySixHoursAgo,
				},
				{
					Muscle:          analytics.MuscleTriceps,
					RecoveryPercent: 100,
					HoursRemaining:  0,
					Role:            analytics.RoleSecondary,
					Status:          analytics.RecoveryReady,
					LastTrained:     &thirtySixHoursAgo,
				},
			},
		},
		{
			name:    "secondary mover recovers faster",
			history: []analytics.WorkoutSession{session(tenHoursAgo, exerciseLog("bench", workingSet(100, 5)))},
			want: []analytics.MuscleRecoveryStatus{
				{
					Muscle:          analytics.MuscleChest,
					RecoveryPercent: 14,
					HoursRemaining:  62,
					Role:            analytics.RolePrimary,
					Status:          analytics.RecoveryFatigued,
					LastTrained:     &tenHoursAgo,
				},
				{
					Muscle:          analytics.MuscleTriceps,
					RecoveryPercent: 52,
					HoursRemaining:  10,
					Role:            analytics.RoleSecondary,
					Status:          analytics.RecoveryRecovering,
					LastTrained:     &tenHoursAgo,
				},
			},
		},
		{
			name: "primary role wins within a session",
			history: []analytics.WorkoutSession{session(tenHoursAgo,
				exerciseLog("bench", workingSet(100, 5)),
				exerciseLog("dips", workingSet(20, 8)),
			)},
			want: []analytics.MuscleRecoveryStatus{
				{
					Muscle:          analytics.MuscleChest,
					RecoveryPercent: 14,
					HoursRemaining:  62,
					Role:            analytics.RolePrimary,
					Status:          analytics.RecoveryFatigued,
					LastTrained:     &tenHoursAgo,
				},
				{
					Muscle:          analytics.MuscleTriceps,
					RecoveryPercent: 21,
					HoursRemaining:  38,
					Role:            analytics.RolePrimary,
					Status:          analytics.RecoveryFatigued,
					LastTrained:     &tenHoursAgo,
				},
			},
		},
		{
			name: "latest session wins",
			history: []analytics.WorkoutSession{
				session(tenHoursAgo, exerciseLog("bench", workingSet(100, 5))),
				session(thirtySixHoursAgo, exerciseLog("dips", workingSet(20, 8))),
			},
			want: []analytics.MuscleRecoveryStatus{
				{
					Muscle:          analytics.MuscleChest,
					RecoveryPercent: 14,
					HoursRemaining:  62,
					Role:            analytics.RolePrimary,
					Status:          analytics.RecoveryFatigued,
					LastTrained:     &tenHoursAgo,
				},
				{
					Muscle:          analytics.MuscleTriceps,
					RecoveryPercent: 52,
					HoursRemaining:  10,
					Role:            analytics.RoleSecondary,
					Status:          analytics.RecoveryRecovering,
					LastTrained:     &tenHoursAgo,
				},
			},
		},
		{
			name:    "warmups count",
			history: []analytics.WorkoutSession{session(thirtySixHoursAgo, exerciseLog("bench", warmupSet(40, 10)))},
			want: []analytics.MuscleRecoveryStatus{
				{
					Muscle:          analytics.MuscleChest,
					RecoveryPercent: 50,
					HoursRemaining:  36,
					Role:            analytics.RolePrimary,
					Status:          analytics.RecoveryRecovering,
					LastTrained:     &thirtySixHoursAgo,
				},
			},
		},
		{
			name: "incomplete and unweighted sets do not count",
			history: []analytics.WorkoutSession{session(tenHoursAgo, exerciseLog("bench",
				analytics.SetRecord{Weight: 100, Reps: 5, Completed: false, RIR: nil, IsWarmup: false},
				analytics.SetRecord{Weight: 0, Reps: 5, Completed: true, RIR: nil, IsWarmup: false},
			))},
			want: []analytics.MuscleRecoveryStatus{
				{
					Muscle:          analytics.MuscleChest,
					RecoveryPercent: 100,
					HoursRemaining:  0,
					Role:            "",
					Status:          analytics.RecoveryReady,
					LastTrained:     nil,
				},
			},
		},
	}

	engine := newEngine(t)
	catalog := newCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses := engine.ComputeRecovery(catalog, tt.history, now)
			if len(statuses) != len(analytics.AllMuscleGroups()) {
				t.Fatalf("got %d statuses, want one per muscle", len(statuses))
			}
			for _, want := range tt.want {
				if diff := cmp.Diff(want, recoveryOf(t, statuses, want.Muscle)); diff != "" {
					t.Errorf("%s mismatch (-want +got):\n%s", want.Muscle, diff)
				}
			}
		})
	}
}

func TestEngine_ComputeRecovery_neverTrained(t *testing.T) {
	statuses := newEngine(t).ComputeRecovery(newCatalog(), nil, now)
	for i, muscle := range analytics.AllMuscleGroups() {
		want := analytics.MuscleRecoveryStatus{
			Muscle:          muscle,
			RecoveryPercent: 100,
			HoursRemaining:  0,
			Role:            "",
			Status:          analytics.RecoveryReady,
			LastTrained:     nil,
		}
		if diff := cmp.Diff(want, statuses[i]); diff != "" {
			t.Errorf("status %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEngine_ComputeRecovery_future(t *testing.T) {
	future := now.Add(2 * time.Hour)
	statuses := newEngine(t).ComputeRecovery(newCatalog(),
		[]analytics.WorkoutSession{session(future, exerciseLog("bench", workingSet(100, 5)))}, now)
	chest := recoveryOf(t, statuses, analytics.MuscleChest)
	if chest.RecoveryPercent != 0 || chest.HoursRemaining != 72 {
		t.Errorf("session in the future: got %d%% with %dh remaining, want 0%% with 72h", chest.RecoveryPercent,
			chest.HoursRemaining)
	}
}
