package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/workout"
)

// HTTPClient implements DataSource by calling the StepUp REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but the store lives
// on the server (typically reached over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// may be empty when the server runs without auth.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) ListTemplates(ctx context.Context) []models.Workout {
	var workouts []models.Workout
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates", nil, &workouts); err != nil {
		return nil
	}
	return workouts
}

func (c *HTTPClient) ListHistory(ctx context.Context) []models.Workout {
	var workouts []models.Workout
	if err := c.do(ctx, http.MethodGet, "/api/v1/history", nil, &workouts); err != nil {
		return nil
	}
	return workouts
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (models.Workout, error) {
	var w models.Workout
	err := c.do(ctx, http.MethodGet, "/api/v1/workouts/"+id, nil, &w)
	return w, err
}

func (c *HTTPClient) CreateTemplate(ctx context.Context, name string, exercises []models.Exercise) (models.Workout, error) {
	var w models.Workout
	err := c.do(ctx, http.MethodPost, "/api/v1/templates", map[string]any{
		"name":      name,
		"exercises": exercises,
	}, &w)
	return w, err
}

func (c *HTTPClient) StartSession(ctx context.Context, templateID string) (models.Workout, error) {
	var w models.Workout
	err := c.do(ctx, http.MethodPost, "/api/v1/templates/"+templateID+"/start", nil, &w)
	return w, err
}

func (c *HTTPClient) ApplyEdit(ctx context.Context, sessionID string, edit workout.Edit) (models.Workout, error) {
	body := map[string]any{}
	switch e := edit.(type) {
	case workout.ToggleComplete:
		body["op"] = "toggle_complete"
		body["exerciseId"] = e.ExerciseID
		body["setId"] = e.SetID
	case workout.UpdateWeight:
		body["op"] = "update_weight"
		body["exerciseId"] = e.ExerciseID
		body["setId"] = e.SetID
		body["value"] = e.Raw
	case workout.UpdateReps:
		body["op"] = "update_reps"
		body["exerciseId"] = e.ExerciseID
		body["setId"] = e.SetID
		body["value"] = e.Raw
	case workout.AddSet:
		body["op"] = "add_set"
		body["exerciseId"] = e.ExerciseID
	case workout.RemoveSet:
		body["op"] = "remove_set"
		body["exerciseId"] = e.ExerciseID
		body["setIndex"] = e.SetIndex
	case workout.Reorder:
		body["op"] = "reorder"
		body["index"] = e.Index
		body["direction"] = string(e.Direction)
	default:
		return models.Workout{}, fmt.Errorf("httpclient: unsupported edit type %T", edit)
	}

	var w models.Workout
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+sessionID+"/edits", body, &w)
	return w, err
}

func (c *HTTPClient) CompleteSession(ctx context.Context, sessionID string, finalExercises []models.Exercise, elapsedSeconds int) (models.Workout, error) {
	var w models.Workout
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+sessionID+"/finish", map[string]any{
		"exercises":       finalExercises,
		"durationSeconds": elapsedSeconds,
	}, &w)
	return w, err
}

func (c *HTTPClient) DeleteWorkout(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/workouts/"+id, nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("httpclient: decode response: %w", err)
		}
	}
	return nil
}
