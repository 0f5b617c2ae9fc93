package analytics

import "time"

// MuscleInvolvement describes one muscle worked by an exercise.
type MuscleInvolvement struct {
	Muscle MuscleGroup `json:"muscle"`
	Role   Role        `json:"role"`
}

// ExerciseDefinition represents an exercise type, e.g. Squat, Bench Press, etc.
type ExerciseDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Involvements lists the worked muscles in order.
	Involvements []MuscleInvolvement `json:"involvements"`
	// LegacyMuscles is the flat muscle list used by older catalog entries that lack Involvements.
	LegacyMuscles []MuscleGroup `json:"legacy_muscles,omitempty"`
}

// MuscleInvolvements returns the involvements of the exercise. Entries without involvements fall
// back to LegacyMuscles where the first muscle is primary and the rest are secondary.
func (e ExerciseDefinition) MuscleInvolvements() []MuscleInvolvement {
	if len(e.Involvements) > 0 {
		return e.Involvements
	}
	involvements := make([]MuscleInvolvement, 0, len(e.LegacyMuscles))
	for i, m := range e.LegacyMuscles {
		role := RoleSecondary
		if i == 0 {
			role = RolePrimary
		}
		involvements = append(involvements, MuscleInvolvement{Muscle: m, Role: role})
	}
	return involvements
}

// SetRecord is a single performed set.
type SetRecord struct {
	Weight    float64  `json:"weight"`
	Reps      int      `json:"reps"`
	Completed bool     `json:"completed"`
	RIR       *float64 `json:"rir,omitempty"`
	IsWarmup  bool     `json:"is_warmup"`
}

// Countable reports whether the set counts towards any computation.
func (s SetRecord) Countable() bool {
	return s.Completed && s.Weight > 0
}

// Working reports whether the set counts towards volume and progression, i.e. it is countable and not a warmup.
func (s SetRecord) Working() bool {
	return s.Countable() && !s.IsWarmup
}

// Volume is weight times reps.
func (s SetRecord) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ExerciseLog groups the sets of one exercise within a session.
type ExerciseLog struct {
	ExerciseID string      `json:"exercise_id"`
	Sets       []SetRecord `json:"sets"`
}

// WorkoutSession is a complete logged workout.
type WorkoutSession struct {
	ID        string        `json:"id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Exercises []ExerciseLog `json:"exercises"`
}

// RecoveryState is the recovery band of a muscle.
type RecoveryState string

const (
	RecoveryReady      RecoveryState = "ready"
	RecoveryRecovering RecoveryState = "recovering"
	RecoveryFatigued   RecoveryState = "fatigued"
)

// MuscleRecoveryStatus is the recovery state of one muscle at a point in time.
type MuscleRecoveryStatus struct {
	Muscle          MuscleGroup `json:"muscle"`
	RecoveryPercent int         `json:"recovery_percent"`
	HoursRemaining  int         `json:"hours_remaining"`
	// Role is the involvement in the most recent session that trained the muscle, empty if never trained.
	Role        Role          `json:"role,omitempty"`
	Status      RecoveryState `json:"status"`
	LastTrained *time.Time    `json:"last_trained,omitempty"`
}

// VolumeState classifies weekly effective sets against the recommended range.
type VolumeState string

const (
	VolumeUnder   VolumeState = "under"
	VolumeOptimal VolumeState = "optimal"
	VolumeOver    VolumeState = "over"
)

// MuscleVolumeStatus is the effective set count of one muscle within a window.
type MuscleVolumeStatus struct {
	Muscle        MuscleGroup `json:"muscle"`
	EffectiveSets float64     `json:"effective_sets"`
	Min           float64     `json:"min"`
	Optimal       float64     `json:"optimal"`
	Max           float64     `json:"max"`
	Status        VolumeState `json:"status"`
	// Trend is the difference in effective sets to the preceding window of equal length.
	Trend float64 `json:"trend"`
}

// FrequencyState classifies weekly training days against the recommendation.
type FrequencyState string

const (
	FrequencyOptimal      FrequencyState = "optimal"
	FrequencyLow          FrequencyState = "low"
	FrequencyUndertrained FrequencyState = "undertrained"
)

// Trend compares two consecutive periods.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// MuscleFrequencyStatus counts the days a muscle was trained as a primary mover.
type MuscleFrequencyStatus struct {
	Muscle       MuscleGroup    `json:"muscle"`
	ThisWeekDays int            `json:"this_week_days"`
	LastWeekDays int            `json:"last_week_days"`
	Recommended  int            `json:"recommended"`
	Trend        Trend          `json:"trend"`
	Status       FrequencyState `json:"status"`
}

// ProgressionState is the verdict on an exercise's strength trend.
type ProgressionState string

const (
	ProgressionNew         ProgressionState = "new"
	ProgressionProgressing ProgressionState = "progressing"
	ProgressionStagnant    ProgressionState = "stagnant"
	ProgressionRegressing  ProgressionState = "regressing"
)

// ExerciseProgressionStatus describes the progressive-overload trend of one exercise.
type ExerciseProgressionStatus struct {
	ExerciseID    string           `json:"exercise_id"`
	Status        ProgressionState `json:"status"`
	CurrentMax    float64          `json:"current_max"`
	PreviousMax   float64          `json:"previous_max"`
	PercentChange int              `json:"percent_change"`
	VolumeTrend   int              `json:"volume_trend"`
	Suggestion    string           `json:"suggestion,omitempty"`
	// WeeksWithoutProgress approximates weeks as sessions without a new max divided by two.
	WeeksWithoutProgress int       `json:"weeks_without_progress"`
	SessionCount         int       `json:"session_count"`
	LastPerformed        time.Time `json:"last_performed"`
}

// Adjustment is the direction of a load recommendation.
type Adjustment string

const (
	AdjustIncrease Adjustment = "increase"
	AdjustMaintain Adjustment = "maintain"
	AdjustDecrease Adjustment = "decrease"
	AdjustDeload   Adjustment = "deload"
)

// Confidence grades how unambiguous a recommendation or forecast is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AutoRegulationRecommendation is the next-session load for one exercise.
type AutoRegulationRecommendation struct {
	ExerciseID        string     `json:"exercise_id"`
	LastWeight        float64    `json:"last_weight"`
	LastReps          int        `json:"last_reps"`
	LastRIR           float64    `json:"last_rir"`
	AvgRIR            float64    `json:"avg_rir"`
	RecommendedWeight float64    `json:"recommended_weight"`
	Recommendation    Adjustment `json:"recommendation"`
	Reason            string     `json:"reason"`
	Confidence        Confidence `json:"confidence"`
	LastPerformed     time.Time  `json:"last_performed"`
}

// PRPoint is a session that set a new personal record weight.
type PRPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// Milestone is a projected date for reaching a target weight.
type Milestone struct {
	TargetWeight  float64    `json:"target_weight"`
	EstimatedDate time.Time  `json:"estimated_date"`
	WeeksAway     float64    `json:"weeks_away"`
	Confidence    Confidence `json:"confidence"`
}

// ExercisePRForecast projects future personal records of one exercise.
type ExercisePRForecast struct {
	ExerciseID string      `json:"exercise_id"`
	CurrentMax float64     `json:"current_max"`
	WeeklyRate float64     `json:"weekly_rate"`
	Milestones []Milestone `json:"milestones"`
	// CustomTarget is set when a valid custom target was requested for the exercise.
	CustomTarget *Milestone `json:"custom_target,omitempty"`
	PRPoints     []PRPoint  `json:"pr_points"`
}
