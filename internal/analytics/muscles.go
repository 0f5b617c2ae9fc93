package analytics

import (
	"fmt"
	"strings"
)

// MuscleGroup is one of the closed set of trainable muscle groups.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleAbs        MuscleGroup = "abs"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleCalves     MuscleGroup = "calves"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleTraps      MuscleGroup = "traps"
	MuscleLats       MuscleGroup = "lats"
	MuscleAdductors  MuscleGroup = "adductors"
	MuscleAbductors  MuscleGroup = "abductors"
	MuscleLowerBack  MuscleGroup = "lower_back"
	MuscleNeck       MuscleGroup = "neck"
)

// AllMuscleGroups lists every muscle group in display order.
func AllMuscleGroups() []MuscleGroup {
	return []MuscleGroup{
		MuscleChest,
		MuscleBack,
		MuscleShoulders,
		MuscleBiceps,
		MuscleTriceps,
		MuscleForearms,
		MuscleAbs,
		MuscleQuadriceps,
		MuscleHamstrings,
		MuscleCalves,
		MuscleGlutes,
		MuscleTraps,
		MuscleLats,
		MuscleAdductors,
		MuscleAbductors,
		MuscleLowerBack,
		MuscleNeck,
	}
}

// ParseMuscleGroup converts a name such as "Lower Back" or "lower_back" into a MuscleGroup.
func ParseMuscleGroup(name string) (MuscleGroup, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, m := range AllMuscleGroups() {
		if string(m) == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown muscle group %q", name)
}

// Role describes how an exercise involves a muscle.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// VolumeRange is the recommended number of weekly effective sets for a muscle.
type VolumeRange struct {
	Min     float64 `yaml:"min"`
	Optimal float64 `yaml:"optimal"`
	Max     float64 `yaml:"max"`
}

// MuscleConstants are the fixed per-muscle constants used by the engine.
type MuscleConstants struct {
	// BaseRecoveryHours is the time a muscle needs to recover after being trained as a primary mover.
	BaseRecoveryHours float64 `yaml:"base_recovery_hours"`
	// WeeklySets is the recommended weekly effective-set range.
	WeeklySets VolumeRange `yaml:"weekly_sets"`
	// WeeklyFrequency is the recommended number of distinct training days per week.
	WeeklyFrequency int `yaml:"weekly_frequency"`
}

// MuscleTable maps every muscle group to its constants.
type MuscleTable map[MuscleGroup]MuscleConstants

// DefaultMuscleTable returns the built-in constants. Bigger muscle groups recover slower.
func DefaultMuscleTable() MuscleTable {
	return MuscleTable{
		MuscleChest:      {BaseRecoveryHours: 72, WeeklySets: VolumeRange{Min: 10, Optimal: 15, Max: 22}, WeeklyFrequency: 2},
		MuscleBack:       {BaseRecoveryHours: 72, WeeklySets: VolumeRange{Min: 10, Optimal: 16, Max: 25}, WeeklyFrequency: 2},
		MuscleShoulders:  {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 8, Optimal: 14, Max: 22}, WeeklyFrequency: 2},
		MuscleBiceps:     {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 8, Optimal: 14, Max: 20}, WeeklyFrequency: 2},
		MuscleTriceps:    {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 6, Optimal: 12, Max: 18}, WeeklyFrequency: 2},
		MuscleForearms:   {BaseRecoveryHours: 24, WeeklySets: VolumeRange{Min: 0, Optimal: 6, Max: 12}, WeeklyFrequency: 2},
		MuscleAbs:        {BaseRecoveryHours: 24, WeeklySets: VolumeRange{Min: 4, Optimal: 10, Max: 16}, WeeklyFrequency: 3},
		MuscleQuadriceps: {BaseRecoveryHours: 96, WeeklySets: VolumeRange{Min: 8, Optimal: 14, Max: 20}, WeeklyFrequency: 2},
		MuscleHamstrings: {BaseRecoveryHours: 72, WeeklySets: VolumeRange{Min: 6, Optimal: 10, Max: 16}, WeeklyFrequency: 2},
		MuscleCalves:     {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 8, Optimal: 12, Max: 16}, WeeklyFrequency: 3},
		MuscleGlutes:     {BaseRecoveryHours: 72, WeeklySets: VolumeRange{Min: 4, Optimal: 10, Max: 16}, WeeklyFrequency: 2},
		MuscleTraps:      {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 0, Optimal: 8, Max: 14}, WeeklyFrequency: 2},
		MuscleLats:       {BaseRecoveryHours: 72, WeeklySets: VolumeRange{Min: 10, Optimal: 16, Max: 25}, WeeklyFrequency: 2},
		MuscleAdductors:  {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 0, Optimal: 6, Max: 12}, WeeklyFrequency: 1},
		MuscleAbductors:  {BaseRecoveryHours: 48, WeeklySets: VolumeRange{Min: 0, Optimal: 6, Max: 12}, WeeklyFrequency: 1},
		MuscleLowerBack:  {BaseRecoveryHours: 96, WeeklySets: VolumeRange{Min: 0, Optimal: 6, Max: 10}, WeeklyFrequency: 1},
		MuscleNeck:       {BaseRecoveryHours: 24, WeeklySets: VolumeRange{Min: 0, Optimal: 4, Max: 10}, WeeklyFrequency: 1},
	}
}
