package analytics

import (
	"math"
	"time"
)

// lastTraining is the most recent session that trained a muscle.
type lastTraining struct {
	at   time.Time
	role Role
}

// ComputeRecovery reports the recovery state of every muscle group at now.
//
// A muscle counts as trained in a session when any countable set of an exercise involving it was logged,
// warmups included. When several exercises in that session involve the muscle, the primary role wins.
func (e *Engine) ComputeRecovery(catalog *Catalog, history []WorkoutSession, now time.Time) []MuscleRecoveryStatus {
	last := e.findLastTrainings(catalog, history)

	statuses := make([]MuscleRecoveryStatus, 0, len(AllMuscleGroups()))
	for _, muscle := range AllMuscleGroups() {
		training, ok := last[muscle]
		if !ok {
			statuses = append(statuses, MuscleRecoveryStatus{
				Muscle:          muscle,
				RecoveryPercent: 100, //nolint:mnd // nothing to recover from
				HoursRemaining:  0,
				Role:            "",
				Status:          RecoveryReady,
				LastTrained:     nil,
			})
			continue
		}
		statuses = append(statuses, e.recoveryStatus(muscle, training, now))
	}
	return statuses
}

// findLastTrainings walks the history once and keeps the latest training per muscle.
func (e *Engine) findLastTrainings(catalog *Catalog, history []WorkoutSession) map[MuscleGroup]lastTraining {
	last := make(map[MuscleGroup]lastTraining)
	for _, session := range history {
		roles := sessionRoles(catalog, session)
		for muscle, role := range roles {
			prev, ok := last[muscle]
			switch {
			case !ok, session.StartTime.After(prev.at):
				last[muscle] = lastTraining{at: session.StartTime, role: role}
			case session.StartTime.Equal(prev.at) && role == RolePrimary:
				last[muscle] = lastTraining{at: session.StartTime, role: role}
			}
		}
	}
	return last
}

// sessionRoles returns the strongest role each muscle had in a session.
func sessionRoles(catalog *Catalog, session WorkoutSession) map[MuscleGroup]Role {
	roles := make(map[MuscleGroup]Role)
	for _, log := range session.Exercises {
		if !hasCountableSet(log.Sets) {
			continue
		}
		for _, inv := range catalog.Involvements(log.ExerciseID) {
			if roles[inv.Muscle] != RolePrimary {
				roles[inv.Muscle] = inv.Role
			}
		}
	}
	return roles
}

// hasCountableSet reports whether any set is countable.
func hasCountableSet(sets []SetRecord) bool {
	for _, set := range sets {
		if set.Countable() {
			return true
		}
	}
	return false
}

// totalRecoveryHours scales the base recovery time of the muscle by its role.
func (e *Engine) totalRecoveryHours(muscle MuscleGroup, role Role) float64 {
	hours := e.cfg.Muscles[muscle].BaseRecoveryHours
	if role == RoleSecondary {
		hours *= e.cfg.Recovery.SecondaryMultiplier
	}
	return hours
}

func (e *Engine) recoveryStatus(muscle MuscleGroup, training lastTraining, now time.Time) MuscleRecoveryStatus {
	total := e.totalRecoveryHours(muscle, training.role)
	elapsed := now.Sub(training.at).Hours()

	percent := int(math.Round(elapsed / total * 100)) //nolint:mnd // percent
	percent = max(0, min(100, percent))               //nolint:mnd // percent

	remaining := int(math.Ceil(float64(100-percent) / 100 * total)) //nolint:mnd // percent
	at := training.at

	return MuscleRecoveryStatus{
		Muscle:          muscle,
		RecoveryPercent: percent,
		HoursRemaining:  max(0, remaining),
		Role:            training.role,
		Status:          e.recoveryState(percent),
		LastTrained:     &at,
	}
}

// recoveryState maps a recovery percentage to its band.
func (e *Engine) recoveryState(percent int) RecoveryState {
	switch {
	case percent >= e.cfg.Recovery.ReadyPercent:
		return RecoveryReady
	case percent >= e.cfg.Recovery.RecoveringPercent:
		return RecoveryRecovering
	default:
		return RecoveryFatigued
	}
}
