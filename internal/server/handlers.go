package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/service"
	"github.com/meltforce/stepup/internal/workout"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := s.tracker.ListTemplates(r.Context())
	if templates == nil {
		templates = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	history := s.tracker.ListHistory(r.Context())
	if history == nil {
		history = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := s.tracker.GetWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	wk, err := s.tracker.GetActiveSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

type createTemplateRequest struct {
	Name      string            `json:"name"`
	Exercises []models.Exercise `json:"exercises"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	wk, err := s.tracker.CreateTemplate(r.Context(), req.Name, req.Exercises)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wk)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	wk, err := s.tracker.StartSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wk)
}

// editRequest is the wire shape for in-session edits. Op selects the edit
// type; the remaining fields are read per op.
type editRequest struct {
	Op         string `json:"op"`
	ExerciseID string `json:"exerciseId"`
	SetID      string `json:"setId"`
	Value      string `json:"value"`
	SetIndex   int    `json:"setIndex"`
	Index      int    `json:"index"`
	Direction  string `json:"direction"`
}

func decodeEdit(req editRequest) (workout.Edit, error) {
	switch req.Op {
	case "toggle_complete":
		return workout.ToggleComplete{ExerciseID: req.ExerciseID, SetID: req.SetID}, nil
	case "update_weight":
		return workout.UpdateWeight{ExerciseID: req.ExerciseID, SetID: req.SetID, Raw: req.Value}, nil
	case "update_reps":
		return workout.UpdateReps{ExerciseID: req.ExerciseID, SetID: req.SetID, Raw: req.Value}, nil
	case "add_set":
		return workout.AddSet{ExerciseID: req.ExerciseID}, nil
	case "remove_set":
		return workout.RemoveSet{ExerciseID: req.ExerciseID, SetIndex: req.SetIndex}, nil
	case "reorder":
		return workout.Reorder{Index: req.Index, Direction: workout.Direction(req.Direction)}, nil
	}
	return nil, fmt.Errorf("unknown edit op %q", req.Op)
}

func (s *Server) handleApplyEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	edit, err := decodeEdit(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	wk, err := s.tracker.ApplyEdit(r.Context(), chi.URLParam(r, "id"), edit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

type finishSessionRequest struct {
	Exercises       []models.Exercise `json:"exercises"`
	DurationSeconds int               `json:"durationSeconds"`
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	var req finishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	wk, err := s.tracker.CompleteSession(r.Context(), chi.URLParam(r, "id"), req.Exercises, req.DurationSeconds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteWorkout(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain errors to HTTP statuses: not found → 404, invalid
// lifecycle state → 409, template validation → 422, anything else → 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *workout.ValidationError
	switch {
	case service.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  verr.Error(),
			"reason": string(verr.Reason),
		})
	case errors.Is(err, workout.ErrInvalidState):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
