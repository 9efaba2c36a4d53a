package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/workout"
)

// --- Tool definitions ---

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List all workout templates, newest first. Templates are reusable workout blueprints with named exercises and planned sets."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List completed workout sessions, newest first. Each entry includes exercises, per-set weight/reps/completion, and the session duration."),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch one workout record (template, active session, or completed session) by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolCreateTemplate = mcp.NewTool("create_template",
	mcp.WithDescription("Create a workout template. Exercises are given as a JSON array, e.g. [{\"name\":\"Squat\",\"restTimeSeconds\":60,\"sets\":[{\"reps\":10,\"weight\":40}]}]. The template needs a name and at least one named exercise."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Template name (e.g. 'Leg Day')")),
	mcp.WithString("exercises", mcp.Required(), mcp.Description("JSON array of exercises with their sets")),
)

var toolStartSession = mcp.NewTool("start_session",
	mcp.WithDescription("Start an active session from a template. Returns the new session record (fresh id, all sets incomplete); the template is untouched."),
	mcp.WithString("template_id", mcp.Required(), mcp.Description("Id of the template to start from")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Apply one edit to an active session. Ops: toggle_complete (exercise_id+set_id), update_weight/update_reps (exercise_id+set_id+value), add_set (exercise_id), remove_set (exercise_id+set_index), reorder (index+direction up/down). Edits against unknown ids are no-ops."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session id")),
	mcp.WithString("op", mcp.Required(), mcp.Description("Edit operation"), mcp.Enum("toggle_complete", "update_weight", "update_reps", "add_set", "remove_set", "reorder")),
	mcp.WithString("exercise_id", mcp.Description("Target exercise id")),
	mcp.WithString("set_id", mcp.Description("Target set id")),
	mcp.WithString("value", mcp.Description("New weight or rep count for update ops; non-numeric input becomes 0")),
	mcp.WithNumber("set_index", mcp.Description("Set position for remove_set")),
	mcp.WithNumber("index", mcp.Description("Exercise position for reorder")),
	mcp.WithString("direction", mcp.Description("Reorder direction"), mcp.Enum("up", "down")),
)

var toolFinishSession = mcp.NewTool("finish_session",
	mcp.WithDescription("Finish an active session, freezing its current exercise state and duration. The record moves to the history list."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Active session id")),
	mcp.WithNumber("duration_seconds", mcp.Required(), mcp.Description("Elapsed session duration in seconds")),
)

var toolDeleteWorkout = mcp.NewTool("delete_workout",
	mcp.WithDescription("Delete a workout record (template or session) by id. Deleting an unknown id succeeds as a no-op."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

// --- Tool handlers ---

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates := h.ds.ListTemplates(ctx)
	if templates == nil {
		templates = []models.Workout{}
	}
	return toolJSON(templates)
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history := h.ds.ListHistory(ctx)
	if history == nil {
		history = []models.Workout{}
	}
	return toolJSON(history)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}
	return toolJSON(w)
}

func (h *handlers) createTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	rawExercises, err := req.RequireString("exercises")
	if err != nil {
		return mcp.NewToolResultError("exercises parameter is required"), nil
	}

	var exercises []models.Exercise
	if err := json.Unmarshal([]byte(rawExercises), &exercises); err != nil {
		return mcp.NewToolResultError("exercises is not a valid JSON array: " + err.Error()), nil
	}

	w, err := h.ds.CreateTemplate(ctx, name, exercises)
	if err != nil {
		return mcp.NewToolResultError("create failed: " + err.Error()), nil
	}
	return toolJSON(w)
}

func (h *handlers) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError("template_id parameter is required"), nil
	}

	w, err := h.ds.StartSession(ctx, templateID)
	if err != nil {
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}
	return toolJSON(w)
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	op, err := req.RequireString("op")
	if err != nil {
		return mcp.NewToolResultError("op parameter is required"), nil
	}

	exerciseID := req.GetString("exercise_id", "")
	setID := req.GetString("set_id", "")

	var edit workout.Edit
	switch op {
	case "toggle_complete":
		edit = workout.ToggleComplete{ExerciseID: exerciseID, SetID: setID}
	case "update_weight":
		edit = workout.UpdateWeight{ExerciseID: exerciseID, SetID: setID, Raw: req.GetString("value", "")}
	case "update_reps":
		edit = workout.UpdateReps{ExerciseID: exerciseID, SetID: setID, Raw: req.GetString("value", "")}
	case "add_set":
		edit = workout.AddSet{ExerciseID: exerciseID}
	case "remove_set":
		edit = workout.RemoveSet{ExerciseID: exerciseID, SetIndex: req.GetInt("set_index", 0)}
	case "reorder":
		edit = workout.Reorder{
			Index:     req.GetInt("index", 0),
			Direction: workout.Direction(req.GetString("direction", "")),
		}
	default:
		return mcp.NewToolResultError("unknown op: " + op), nil
	}

	w, err := h.ds.ApplyEdit(ctx, sessionID, edit)
	if err != nil {
		h.log.Error("mcp log_set", "error", err)
		return mcp.NewToolResultError("edit failed: " + err.Error()), nil
	}
	return toolJSON(w)
}

func (h *handlers) finishSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	elapsed, err := req.RequireInt("duration_seconds")
	if err != nil {
		return mcp.NewToolResultError("duration_seconds parameter is required"), nil
	}

	// Finish with the session's current stored exercise state.
	current, err := h.ds.GetWorkout(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	w, err := h.ds.CompleteSession(ctx, sessionID, current.Exercises, elapsed)
	if err != nil {
		h.log.Error("mcp finish_session", "error", err)
		return mcp.NewToolResultError("finish failed: " + err.Error()), nil
	}
	return toolJSON(w)
}

func (h *handlers) deleteWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	if err := h.ds.DeleteWorkout(ctx, id); err != nil {
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("deleted"), nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
