package workout

import (
	"fmt"
	"strings"

	"github.com/meltforce/stepup/internal/models"
)

// ValidationReason identifies which template rule was violated, so callers
// can show a precise message.
type ValidationReason string

const (
	ReasonMissingName         ValidationReason = "missing_name"
	ReasonNoExercises         ValidationReason = "no_exercises"
	ReasonExerciseMissingName ValidationReason = "exercise_missing_name"
)

// ValidationError reports why a template is not persistable. ExerciseIndex is
// set only for ReasonExerciseMissingName.
type ValidationError struct {
	Reason        ValidationReason
	ExerciseIndex int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingName:
		return "workout name is required"
	case ReasonNoExercises:
		return "at least one exercise is required"
	case ReasonExerciseMissingName:
		return fmt.Sprintf("exercise %d has no name", e.ExerciseIndex+1)
	}
	return "invalid template"
}

// ValidateTemplate checks that a template can be saved: a non-empty trimmed
// name, at least one exercise, and a non-empty trimmed name on every
// exercise. Returns nil when the template is persistable.
func ValidateTemplate(name string, exercises []models.Exercise) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Reason: ReasonMissingName}
	}
	if len(exercises) == 0 {
		return &ValidationError{Reason: ReasonNoExercises}
	}
	for i, ex := range exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return &ValidationError{Reason: ReasonExerciseMissingName, ExerciseIndex: i}
		}
	}
	return nil
}
