// Package service wires the lifecycle engine to the workout repository and
// exposes the operations the presentation layer (HTTP API, MCP tools, import
// tool) calls into.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/storage"
	"github.com/meltforce/stepup/internal/workout"
)

// ErrNotFound is returned when a referenced workout does not exist.
var ErrNotFound = storage.ErrNotFound

// Repository is the persistence contract the tracker depends on. *storage.Store
// is the production implementation.
type Repository interface {
	Save(ctx context.Context, w models.Workout) error
	List(ctx context.Context) []models.Workout
	GetByID(ctx context.Context, id string) (models.Workout, error)
	Delete(ctx context.Context, id string) error
}

// Compile-time check: *storage.Store satisfies Repository.
var _ Repository = (*storage.Store)(nil)

// Tracker implements the workout operations on top of an injected Repository.
// It holds no state of its own; the repository owns the durable collection.
type Tracker struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New creates a Tracker backed by repo.
func New(repo Repository, log *slog.Logger) *Tracker {
	return &Tracker{repo: repo, log: log, now: time.Now}
}

// ListTemplates returns all templates, newest first.
func (t *Tracker) ListTemplates(ctx context.Context) []models.Workout {
	return t.listByStatus(ctx, models.StatusTemplate)
}

// ListHistory returns all completed sessions, newest first.
func (t *Tracker) ListHistory(ctx context.Context) []models.Workout {
	return t.listByStatus(ctx, models.StatusCompleted)
}

func (t *Tracker) listByStatus(ctx context.Context, status models.Status) []models.Workout {
	var out []models.Workout
	for _, w := range t.repo.List(ctx) {
		if w.Status == status {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// GetWorkout returns the workout with the given id regardless of status.
func (t *Tracker) GetWorkout(ctx context.Context, id string) (models.Workout, error) {
	return t.repo.GetByID(ctx, id)
}

// GetActiveSession returns the active session with the given id. A workout
// that exists but is not active is reported as not found.
func (t *Tracker) GetActiveSession(ctx context.Context, id string) (models.Workout, error) {
	w, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return models.Workout{}, err
	}
	if w.Status != models.StatusActive {
		return models.Workout{}, ErrNotFound
	}
	return w, nil
}

// CreateTemplate validates and persists a new template. Exercises and sets
// arriving without ids get fresh ones.
func (t *Tracker) CreateTemplate(ctx context.Context, name string, exercises []models.Exercise) (models.Workout, error) {
	if verr := workout.ValidateTemplate(name, exercises); verr != nil {
		return models.Workout{}, verr
	}

	exercises = models.CloneExercises(exercises)
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = models.NewID()
		}
		for j := range exercises[i].Sets {
			if exercises[i].Sets[j].ID == "" {
				exercises[i].Sets[j].ID = models.NewID()
			}
		}
	}

	w := models.Workout{
		ID:        models.NewID(),
		Name:      strings.TrimSpace(name),
		Date:      t.now(),
		Exercises: exercises,
		Status:    models.StatusTemplate,
	}
	if err := t.repo.Save(ctx, w); err != nil {
		return models.Workout{}, fmt.Errorf("saving template: %w", err)
	}
	t.log.Info("template created", "id", w.ID, "name", w.Name, "exercises", len(w.Exercises))
	return w, nil
}

// StartSession instantiates an active session from the given template and
// persists it. The template record is left untouched.
func (t *Tracker) StartSession(ctx context.Context, templateID string) (models.Workout, error) {
	template, err := t.repo.GetByID(ctx, templateID)
	if err != nil {
		return models.Workout{}, err
	}

	session, err := workout.Instantiate(template, t.now())
	if err != nil {
		return models.Workout{}, err
	}
	if err := t.repo.Save(ctx, session); err != nil {
		return models.Workout{}, fmt.Errorf("saving session: %w", err)
	}
	t.log.Info("session started", "id", session.ID, "template", templateID)
	return session, nil
}

// ApplyEdit applies one in-session edit to an active session and persists the
// result. Edits against stale set/exercise ids are no-ops, not errors.
func (t *Tracker) ApplyEdit(ctx context.Context, sessionID string, edit workout.Edit) (models.Workout, error) {
	w, err := t.repo.GetByID(ctx, sessionID)
	if err != nil {
		return models.Workout{}, err
	}
	if w.Status != models.StatusActive {
		return models.Workout{}, fmt.Errorf("%w: cannot edit a %q workout", workout.ErrInvalidState, w.Status)
	}

	w.Exercises = workout.Apply(w.Exercises, edit)
	if err := t.repo.Save(ctx, w); err != nil {
		return models.Workout{}, fmt.Errorf("saving session edit: %w", err)
	}
	return w, nil
}

// CompleteSession finishes an active session with its final exercise state
// and elapsed duration, and persists it under the same id.
func (t *Tracker) CompleteSession(ctx context.Context, sessionID string, finalExercises []models.Exercise, elapsedSeconds int) (models.Workout, error) {
	w, err := t.repo.GetByID(ctx, sessionID)
	if err != nil {
		return models.Workout{}, err
	}

	done, err := workout.Finish(w, finalExercises, elapsedSeconds, t.now())
	if err != nil {
		return models.Workout{}, err
	}
	if err := t.repo.Save(ctx, done); err != nil {
		return models.Workout{}, fmt.Errorf("saving completed session: %w", err)
	}
	t.log.Info("session completed", "id", done.ID, "duration_sec", done.DurationSeconds)
	return done, nil
}

// DeleteWorkout removes a workout. Deleting an unknown id is a no-op.
func (t *Tracker) DeleteWorkout(ctx context.Context, id string) error {
	if err := t.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means the referenced workout does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
