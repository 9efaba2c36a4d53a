package workout

import (
	"errors"
	"testing"
	"time"

	"github.com/meltforce/stepup/internal/models"
)

func testTemplate() models.Workout {
	return models.Workout{
		ID:     "tpl-1",
		Name:   "Leg Day",
		Date:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Status: models.StatusTemplate,
		Exercises: []models.Exercise{
			{
				ID:              "ex-1",
				Name:            "Squat",
				RestTimeSeconds: 90,
				Sets: []models.Set{
					{ID: "set-1", Reps: 10, Weight: 40, Completed: true},
					{ID: "set-2", Reps: 8, Weight: 60},
				},
			},
			{
				ID:   "ex-2",
				Name: "Leg Press",
				Sets: []models.Set{{ID: "set-3", Reps: 12, Weight: 100}},
			},
		},
	}
}

// TestInstantiate verifies that a session derived from a template gets a
// fresh id, active status, zero duration, date set to now, and every set
// reset to incomplete.
func TestInstantiate(t *testing.T) {
	template := testTemplate()
	now := time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC)

	session, err := Instantiate(template, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.ID == template.ID || session.ID == "" {
		t.Errorf("session.ID = %q, want a fresh id distinct from %q", session.ID, template.ID)
	}
	if session.Status != models.StatusActive {
		t.Errorf("session.Status = %q, want %q", session.Status, models.StatusActive)
	}
	if session.DurationSeconds != 0 {
		t.Errorf("session.DurationSeconds = %d, want 0", session.DurationSeconds)
	}
	if !session.Date.Equal(now) {
		t.Errorf("session.Date = %v, want %v", session.Date, now)
	}
	for _, ex := range session.Exercises {
		for _, set := range ex.Sets {
			if set.Completed {
				t.Errorf("set %s completed = true, want false", set.ID)
			}
		}
	}
}

// TestInstantiateDoesNotMutateTemplate verifies that instantiation works on
// a deep copy: mutating the session must leave the template untouched,
// including a set that was completed in the template.
func TestInstantiateDoesNotMutateTemplate(t *testing.T) {
	template := testTemplate()

	session, err := Instantiate(template, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session.Exercises[0].Name = "Front Squat"
	session.Exercises[0].Sets[0].Weight = 999

	if template.Exercises[0].Name != "Squat" {
		t.Errorf("template exercise name = %q, want %q", template.Exercises[0].Name, "Squat")
	}
	if template.Exercises[0].Sets[0].Weight != 40 {
		t.Errorf("template set weight = %v, want 40", template.Exercises[0].Sets[0].Weight)
	}
	if !template.Exercises[0].Sets[0].Completed {
		t.Error("template set completed flag was reset, want it untouched")
	}
	if template.Status != models.StatusTemplate {
		t.Errorf("template status = %q, want %q", template.Status, models.StatusTemplate)
	}
}

// TestInstantiateWrongStatus verifies that only templates can be
// instantiated; active and completed records are rejected with
// ErrInvalidState.
func TestInstantiateWrongStatus(t *testing.T) {
	for _, status := range []models.Status{models.StatusActive, models.StatusCompleted} {
		w := testTemplate()
		w.Status = status
		if _, err := Instantiate(w, time.Now()); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Instantiate(%q) error = %v, want ErrInvalidState", status, err)
		}
	}
}

// TestFinish verifies that finishing an active session freezes the final
// exercise state and duration, moves the record to completed, and resets the
// date to finish time.
func TestFinish(t *testing.T) {
	session, err := Instantiate(testTemplate(), time.Date(2025, 3, 2, 18, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final := Apply(session.Exercises, ToggleComplete{ExerciseID: session.Exercises[0].ID, SetID: session.Exercises[0].Sets[0].ID})
	finishTime := time.Date(2025, 3, 2, 19, 5, 0, 0, time.UTC)

	done, err := Finish(session, final, 125, finishTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if done.ID != session.ID {
		t.Errorf("done.ID = %q, want the session id %q", done.ID, session.ID)
	}
	if done.Status != models.StatusCompleted {
		t.Errorf("done.Status = %q, want %q", done.Status, models.StatusCompleted)
	}
	if done.DurationSeconds != 125 {
		t.Errorf("done.DurationSeconds = %d, want 125", done.DurationSeconds)
	}
	if !done.Date.Equal(finishTime) {
		t.Errorf("done.Date = %v, want finish time %v", done.Date, finishTime)
	}
	if !done.Exercises[0].Sets[0].Completed {
		t.Error("final set state not carried into the completed record")
	}
}

// TestFinishWrongStatus verifies that finishing a template or an already
// completed workout fails with ErrInvalidState.
func TestFinishWrongStatus(t *testing.T) {
	for _, status := range []models.Status{models.StatusTemplate, models.StatusCompleted} {
		w := testTemplate()
		w.Status = status
		if _, err := Finish(w, w.Exercises, 60, time.Now()); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Finish(%q) error = %v, want ErrInvalidState", status, err)
		}
	}
}

// TestFinishNegativeElapsed verifies that a negative elapsed duration is
// clamped to zero rather than persisted.
func TestFinishNegativeElapsed(t *testing.T) {
	session, _ := Instantiate(testTemplate(), time.Now())
	done, err := Finish(session, session.Exercises, -5, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.DurationSeconds != 0 {
		t.Errorf("done.DurationSeconds = %d, want 0", done.DurationSeconds)
	}
}
