package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Workout. Transitions are one-directional:
// template → active → completed.
type Status string

const (
	StatusTemplate  Status = "template"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTemplate, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Set is one logged attempt within an exercise.
type Set struct {
	ID        string  `json:"id"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// Exercise is an ordered named group of sets within a workout. Set order is
// meaningful: it drives display order and the previous-set defaults for
// newly added sets.
type Exercise struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Sets            []Set   `json:"sets"`
	RestTimeSeconds int     `json:"restTimeSeconds"`
	Notes           string  `json:"notes,omitempty"`
	Feeling         *int    `json:"feeling,omitempty"`
}

// Workout is the root aggregate and unit of persistence. A template keeps its
// creation time in Date; an active or completed session's Date is reset at
// instantiation and again at finish, so a completed record's Date is its
// finish time.
type Workout struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Date            time.Time  `json:"date"`
	Exercises       []Exercise `json:"exercises"`
	DurationSeconds int        `json:"durationSeconds"`
	Feeling         *int       `json:"feeling,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Status          Status     `json:"status"`
}

// NewID mints an opaque unique identifier. IDs are never reused.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of the workout. Session state must never alias
// template state.
func (w Workout) Clone() Workout {
	c := w
	c.Exercises = CloneExercises(w.Exercises)
	c.Feeling = cloneIntPtr(w.Feeling)
	return c
}

// CloneExercises deep-copies a slice of exercises together with their sets.
func CloneExercises(exercises []Exercise) []Exercise {
	if exercises == nil {
		return nil
	}
	out := make([]Exercise, len(exercises))
	for i, ex := range exercises {
		out[i] = ex
		out[i].Feeling = cloneIntPtr(ex.Feeling)
		if ex.Sets != nil {
			out[i].Sets = make([]Set, len(ex.Sets))
			copy(out[i].Sets, ex.Sets)
		}
	}
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
