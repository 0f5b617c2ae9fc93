package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPRSequence(t *testing.T) {
	start := time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return start.AddDate(0, 0, n) }
	sessions := []exerciseSession{
		{date: day(0), maxWeight: 100},
		{date: day(3), maxWeight: 100},
		{date: day(7), maxWeight: 105},
		{date: day(10), maxWeight: 102.5},
		{date: day(14), maxWeight: 110},
	}

	points := prSequence(sessions)
	want := []PRPoint{
		{Date: day(0), Weight: 100},
		{Date: day(7), Weight: 105},
		{Date: day(14), Weight: 110},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("prSequence() mismatch (-want +got):\n%s", diff)
	}
	if got := rawWeeklyRate(points); got != 5 {
		t.Errorf("rawWeeklyRate() = %v, want 5", got)
	}
}

func TestRawWeeklyRate(t *testing.T) {
	start := time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		points []PRPoint
		want   float64
	}{
		{name: "no points", points: nil, want: 0},
		{name: "single point", points: []PRPoint{{Date: start, Weight: 100}}, want: 0},
		{
			name: "span shorter than a week",
			points: []PRPoint{
				{Date: start, Weight: 100},
				{Date: start.AddDate(0, 0, 2), Weight: 104},
			},
			want: 4,
		},
		{
			name: "four weeks",
			points: []PRPoint{
				{Date: start, Weight: 60},
				{Date: start.AddDate(0, 0, 28), Weight: 70},
			},
			want: 2.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rawWeeklyRate(tt.points); got != tt.want {
				t.Errorf("rawWeeklyRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_weeklyRate(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	start := time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		points []PRPoint
		want   float64
	}{
		{
			name:   "flat history gets the minimum rate",
			points: []PRPoint{{Date: start, Weight: 100}},
			want:   0.25,
		},
		{
			name: "damped by current max",
			points: []PRPoint{
				{Date: start, Weight: 100},
				{Date: start.AddDate(0, 0, 7), Weight: 150},
			},
			want: 50 * 0.5,
		},
		{
			name: "damping floor",
			points: []PRPoint{
				{Date: start, Weight: 200},
				{Date: start.AddDate(0, 0, 7), Weight: 250},
			},
			want: 50 * 0.3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.weeklyRate(tt.points); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("weeklyRate() = %v, want %v", got, tt.want)
			}
		})
	}
}
