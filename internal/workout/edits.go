package workout

import (
	"strconv"

	"github.com/meltforce/stepup/internal/models"
)

// Direction moves an exercise up or down within a session.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Edit is one in-session mutation. The concrete types form a closed set;
// Apply dispatches on them. Edits referencing a stale id or index are silent
// no-ops rather than errors, so a concurrent UI edit against a live list
// never faults the session.
type Edit interface {
	apply(exercises []models.Exercise) []models.Exercise
}

// ToggleComplete flips the completed flag on one set.
type ToggleComplete struct {
	ExerciseID string
	SetID      string
}

// UpdateWeight sets a set's weight from a raw input string.
type UpdateWeight struct {
	ExerciseID string
	SetID      string
	Raw        string
}

// UpdateReps sets a set's rep count from a raw input string.
type UpdateReps struct {
	ExerciseID string
	SetID      string
	Raw        string
}

// AddSet appends a set to an exercise, defaulting weight and reps from the
// previous set when one exists.
type AddSet struct {
	ExerciseID string
}

// RemoveSet removes the set at a position within an exercise.
type RemoveSet struct {
	ExerciseID string
	SetIndex   int
}

// Reorder swaps the exercise at Index with its neighbor in Direction.
type Reorder struct {
	Index     int
	Direction Direction
}

// Apply returns a fresh exercise slice with the edit applied. The input is
// never mutated.
func Apply(exercises []models.Exercise, edit Edit) []models.Exercise {
	return edit.apply(models.CloneExercises(exercises))
}

func (e ToggleComplete) apply(exercises []models.Exercise) []models.Exercise {
	if s := findSet(exercises, e.ExerciseID, e.SetID); s != nil {
		s.Completed = !s.Completed
	}
	return exercises
}

func (e UpdateWeight) apply(exercises []models.Exercise) []models.Exercise {
	if s := findSet(exercises, e.ExerciseID, e.SetID); s != nil {
		s.Weight = coerceWeight(e.Raw)
	}
	return exercises
}

func (e UpdateReps) apply(exercises []models.Exercise) []models.Exercise {
	if s := findSet(exercises, e.ExerciseID, e.SetID); s != nil {
		s.Reps = coerceReps(e.Raw)
	}
	return exercises
}

func (e AddSet) apply(exercises []models.Exercise) []models.Exercise {
	ex := findExercise(exercises, e.ExerciseID)
	if ex == nil {
		return exercises
	}
	set := models.Set{ID: models.NewID(), Weight: 0, Reps: 10}
	if n := len(ex.Sets); n > 0 {
		set.Weight = ex.Sets[n-1].Weight
		set.Reps = ex.Sets[n-1].Reps
	}
	ex.Sets = append(ex.Sets, set)
	return exercises
}

func (e RemoveSet) apply(exercises []models.Exercise) []models.Exercise {
	ex := findExercise(exercises, e.ExerciseID)
	if ex == nil || e.SetIndex < 0 || e.SetIndex >= len(ex.Sets) {
		return exercises
	}
	ex.Sets = append(ex.Sets[:e.SetIndex], ex.Sets[e.SetIndex+1:]...)
	return exercises
}

func (e Reorder) apply(exercises []models.Exercise) []models.Exercise {
	target := e.Index
	switch e.Direction {
	case DirectionUp:
		target--
	case DirectionDown:
		target++
	default:
		return exercises
	}
	if e.Index < 0 || e.Index >= len(exercises) || target < 0 || target >= len(exercises) {
		return exercises
	}
	exercises[e.Index], exercises[target] = exercises[target], exercises[e.Index]
	return exercises
}

func findExercise(exercises []models.Exercise, id string) *models.Exercise {
	for i := range exercises {
		if exercises[i].ID == id {
			return &exercises[i]
		}
	}
	return nil
}

func findSet(exercises []models.Exercise, exerciseID, setID string) *models.Set {
	ex := findExercise(exercises, exerciseID)
	if ex == nil {
		return nil
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID == setID {
			return &ex.Sets[i]
		}
	}
	return nil
}

// coerceWeight parses a raw input field value. Anything unparseable or
// negative becomes 0 so a live input always lands on a usable number.
func coerceWeight(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func coerceReps(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
