package analytics

import "sort"

// Catalog is an immutable exercise-to-muscle lookup.
type Catalog struct {
	exercises map[string]ExerciseDefinition
}

// NewCatalog indexes the exercise definitions by ID. Later duplicates replace earlier ones.
func NewCatalog(definitions []ExerciseDefinition) *Catalog {
	exercises := make(map[string]ExerciseDefinition, len(definitions))
	for _, def := range definitions {
		exercises[def.ID] = def
	}
	return &Catalog{exercises: exercises}
}

// Get returns the exercise definition with the given ID.
func (c *Catalog) Get(id string) (ExerciseDefinition, bool) {
	if c == nil {
		return ExerciseDefinition{}, false
	}
	def, ok := c.exercises[id]
	return def, ok
}

// Len returns the number of catalogued exercises.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.exercises)
}

// Involvements returns the muscle involvements of an exercise, nil if the exercise is unknown.
func (c *Catalog) Involvements(id string) []MuscleInvolvement {
	def, ok := c.Get(id)
	if !ok {
		return nil
	}
	return def.MuscleInvolvements()
}

// UnknownExercises lists the exercise IDs referenced by history but missing from the catalog.
// Every computation skips those log entries.
func (c *Catalog) UnknownExercises(history []WorkoutSession) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, session := range history {
		for _, log := range session.Exercises {
			if _, ok := c.Get(log.ExerciseID); ok || seen[log.ExerciseID] {
				continue
			}
			seen[log.ExerciseID] = true
			unknown = append(unknown, log.ExerciseID)
		}
	}
	sort.Strings(unknown)
	return unknown
}
