package analytics

import (
	"errors"
	"fmt"
)

// RecoveryConfig tunes the recovery model.
type RecoveryConfig struct {
	// SecondaryMultiplier scales the recovery time of muscles trained only as secondary movers.
	SecondaryMultiplier float64 `yaml:"secondary_multiplier"`
	ReadyPercent        int     `yaml:"ready_percent"`
	RecoveringPercent   int     `yaml:"recovering_percent"`
}

// VolumeConfig tunes the volume aggregator.
type VolumeConfig struct {
	// SecondarySetWeight is the effective-set credit a secondary muscle receives per set.
	SecondarySetWeight float64 `yaml:"secondary_set_weight"`
}

// ProgressionConfig tunes the progression analyzer.
type ProgressionConfig struct {
	MinSessions            int     `yaml:"min_sessions"`
	RecentDays             int     `yaml:"recent_days"`
	PreviousDays           int     `yaml:"previous_days"`
	OlderDays              int     `yaml:"older_days"`
	ProgressingPercent     float64 `yaml:"progressing_percent"`
	RegressingPercent      float64 `yaml:"regressing_percent"`
	StagnantSessions       int     `yaml:"stagnant_sessions"`
	SignificantVolumeTrend int     `yaml:"significant_volume_trend"`
}

// AutoRegulationConfig tunes the RIR-based load recommendations.
type AutoRegulationConfig struct {
	LookbackDays      int     `yaml:"lookback_days"`
	MinSessions       int     `yaml:"min_sessions"`
	DefaultRIR        float64 `yaml:"default_rir"`
	WeightIncrement   float64 `yaml:"weight_increment"`
	IncreaseFactor    float64 `yaml:"increase_factor"`
	DecreaseFactor    float64 `yaml:"decrease_factor"`
	DeloadFactor      float64 `yaml:"deload_factor"`
	DeloadSessions    int     `yaml:"deload_sessions"`
	DeloadRIR         float64 `yaml:"deload_rir"`
	IncreaseRIR       float64 `yaml:"increase_rir"`
	ConfidentIncrease float64 `yaml:"confident_increase_rir"`
	MaintainRIR       float64 `yaml:"maintain_rir"`
	DecreaseRIR       float64 `yaml:"decrease_rir"`
	SustainedEaseRIR  float64 `yaml:"sustained_ease_rir"`
	SustainedSessions int     `yaml:"sustained_sessions"`
}

// ForecastConfig tunes the PR forecaster.
type ForecastConfig struct {
	MinSessions    int     `yaml:"min_sessions"`
	DampingFloor   float64 `yaml:"damping_floor"`
	DampingScale   float64 `yaml:"damping_scale"`
	MinWeeklyRate  float64 `yaml:"min_weekly_rate"`
	Milestones     int     `yaml:"milestones"`
	SmallStep      float64 `yaml:"small_step"`
	LargeStep      float64 `yaml:"large_step"`
	LargeStepFrom  float64 `yaml:"large_step_from"`
	HighWeeks      float64 `yaml:"high_confidence_weeks"`
	HighPRPoints   int     `yaml:"high_confidence_pr_points"`
	MediumWeeks    float64 `yaml:"medium_confidence_weeks"`
	MediumPRPoints int     `yaml:"medium_confidence_pr_points"`
}

// Config is the constants table injected into the engine.
type Config struct {
	Muscles        MuscleTable          `yaml:"muscles"`
	Recovery       RecoveryConfig       `yaml:"recovery"`
	Volume         VolumeConfig         `yaml:"volume"`
	Progression    ProgressionConfig    `yaml:"progression"`
	AutoRegulation AutoRegulationConfig `yaml:"auto_regulation"`
	Forecast       ForecastConfig       `yaml:"forecast"`
}

// DefaultConfig returns the documented heuristic constants.
func DefaultConfig() Config {
	return Config{
		Muscles: DefaultMuscleTable(),
		Recovery: RecoveryConfig{
			SecondaryMultiplier: 0.4,
			ReadyPercent:        80,
			RecoveringPercent:   50,
		},
		Volume: VolumeConfig{
			SecondarySetWeight: 0.5,
		},
		Progression: ProgressionConfig{
			MinSessions:            3,
			RecentDays:             14,
			PreviousDays:           28,
			OlderDays:              56,
			ProgressingPercent:     2,
			RegressingPercent:      -5,
			StagnantSessions:       3,
			SignificantVolumeTrend: 10,
		},
		AutoRegulation: AutoRegulationConfig{
			LookbackDays:      28,
			MinSessions:       2,
			DefaultRIR:        2,
			WeightIncrement:   2.5,
			IncreaseFactor:    1.025,
			DecreaseFactor:    0.95,
			DeloadFactor:      0.6,
			DeloadSessions:    3,
			DeloadRIR:         1,
			IncreaseRIR:       3,
			ConfidentIncrease: 4,
			MaintainRIR:       1.5,
			DecreaseRIR:       0.5,
			SustainedEaseRIR:  2,
			SustainedSessions: 3,
		},
		Forecast: ForecastConfig{
			MinSessions:    3,
			DampingFloor:   0.3,
			DampingScale:   300,
			MinWeeklyRate:  0.25,
			Milestones:     5,
			SmallStep:      5,
			LargeStep:      10,
			LargeStepFrom:  100,
			HighWeeks:      8,
			HighPRPoints:   5,
			MediumWeeks:    16,
			MediumPRPoints: 3,
		},
	}
}

// Validate reports constants that would make a computation divide by zero or misclassify.
func (c Config) Validate() error {
	var errs []error
	for _, m := range AllMuscleGroups() {
		mc, ok := c.Muscles[m]
		if !ok {
			errs = append(errs, fmt.Errorf("muscle %s: missing constants", m))
			continue
		}
		if mc.BaseRecoveryHours <= 0 {
			errs = append(errs, fmt.Errorf("muscle %s: base recovery hours must be positive", m))
		}
		if mc.WeeklySets.Min < 0 || mc.WeeklySets.Min > mc.WeeklySets.Optimal ||
			mc.WeeklySets.Optimal > mc.WeeklySets.Max {
			errs = append(errs, fmt.Errorf("muscle %s: weekly sets must satisfy 0 <= min <= optimal <= max", m))
		}
		if mc.WeeklyFrequency < 1 {
			errs = append(errs, fmt.Errorf("muscle %s: weekly frequency must be at least 1", m))
		}
	}
	if c.Recovery.SecondaryMultiplier <= 0 {
		errs = append(errs, errors.New("recovery.secondary_multiplier must be positive"))
	}
	if c.Recovery.RecoveringPercent > c.Recovery.ReadyPercent {
		errs = append(errs, errors.New("recovery.recovering_percent must not exceed ready_percent"))
	}
	if c.Progression.RecentDays <= 0 || c.Progression.PreviousDays <= c.Progression.RecentDays ||
		c.Progression.OlderDays <= c.Progression.PreviousDays {
		errs = append(errs, errors.New("progression windows must be positive and increasing"))
	}
	if c.Progression.MinSessions < 1 {
		errs = append(errs, errors.New("progression.min_sessions must be at least 1"))
	}
	if c.AutoRegulation.MinSessions < 1 {
		errs = append(errs, errors.New("auto_regulation.min_sessions must be at least 1"))
	}
	if c.AutoRegulation.DecreaseRIR > c.AutoRegulation.MaintainRIR ||
		c.AutoRegulation.MaintainRIR > c.AutoRegulation.IncreaseRIR {
		errs = append(errs, errors.New("auto_regulation thresholds must satisfy decrease_rir <= maintain_rir <= increase_rir"))
	}
	if c.AutoRegulation.WeightIncrement <= 0 {
		errs = append(errs, errors.New("auto_regulation.weight_increment must be positive"))
	}
	if c.Forecast.MinSessions < 1 {
		errs = append(errs, errors.New("forecast.min_sessions must be at least 1"))
	}
	if c.Forecast.Milestones < 0 {
		errs = append(errs, errors.New("forecast.milestones must not be negative"))
	}
	if c.Forecast.MinWeeklyRate <= 0 {
		errs = append(errs, errors.New("forecast.min_weekly_rate must be positive"))
	}
	if c.Forecast.DampingScale <= 0 {
		errs = append(errs, errors.New("forecast.damping_scale must be positive"))
	}
	if c.Forecast.SmallStep <= 0 || c.Forecast.LargeStep <= 0 {
		errs = append(errs, errors.New("forecast steps must be positive"))
	}
	return errors.Join(errs...)
}
