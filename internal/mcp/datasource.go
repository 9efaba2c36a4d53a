package mcp

import (
	"context"

	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/service"
	"github.com/meltforce/stepup/internal/workout"
)

// DataSource abstracts the tracker for MCP tools. Both *service.Tracker
// (local store) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListTemplates(ctx context.Context) []models.Workout
	ListHistory(ctx context.Context) []models.Workout
	GetWorkout(ctx context.Context, id string) (models.Workout, error)
	CreateTemplate(ctx context.Context, name string, exercises []models.Exercise) (models.Workout, error)
	StartSession(ctx context.Context, templateID string) (models.Workout, error)
	ApplyEdit(ctx context.Context, sessionID string, edit workout.Edit) (models.Workout, error)
	CompleteSession(ctx context.Context, sessionID string, finalExercises []models.Exercise, elapsedSeconds int) (models.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
}

// Compile-time check: *service.Tracker satisfies DataSource.
var _ DataSource = (*service.Tracker)(nil)
