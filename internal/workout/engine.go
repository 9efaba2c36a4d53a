// Package workout contains the pure lifecycle rules for workout records:
// how an active session is derived from a template, how in-session edits are
// applied, and how a session is finished. The package performs no I/O; the
// service layer owns persistence and supplies the clock.
package workout

import (
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/stepup/internal/models"
)

// ErrInvalidState is returned when a lifecycle operation is invoked against a
// record in the wrong status, e.g. finishing a workout that is not active.
var ErrInvalidState = errors.New("invalid workout state")

// Instantiate derives a new active session from a template. The result has a
// fresh id, date set to now, zero duration, and a deep copy of the template's
// exercises with every set marked incomplete. The template itself is not
// touched; it remains a distinct persisted record.
func Instantiate(template models.Workout, now time.Time) (models.Workout, error) {
	if template.Status != models.StatusTemplate {
		return models.Workout{}, fmt.Errorf("%w: cannot start a session from a %q workout", ErrInvalidState, template.Status)
	}

	session := template.Clone()
	session.ID = models.NewID()
	session.Date = now
	session.Status = models.StatusActive
	session.DurationSeconds = 0
	for i := range session.Exercises {
		for j := range session.Exercises[i].Sets {
			session.Exercises[i].Sets[j].Completed = false
		}
	}
	return session, nil
}

// Finish completes an active session. The result carries the final exercise
// state, the elapsed duration frozen at finish, and date reset to now. A
// completed record's date is its finish time, not its start time.
func Finish(w models.Workout, finalExercises []models.Exercise, elapsedSeconds int, now time.Time) (models.Workout, error) {
	if w.Status != models.StatusActive {
		return models.Workout{}, fmt.Errorf("%w: cannot finish a %q workout", ErrInvalidState, w.Status)
	}
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}

	done := w.Clone()
	done.Exercises = models.CloneExercises(finalExercises)
	done.DurationSeconds = elapsedSeconds
	done.Status = models.StatusCompleted
	done.Date = now
	return done, nil
}
