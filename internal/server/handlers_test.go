package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/service"
	"github.com/meltforce/stepup/internal/storage"
)

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stepup.db")
	if err := storage.RunMigrations(path); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(path, log)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(service.New(store, log), apiKey, log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeWorkout(t *testing.T, rec *httptest.ResponseRecorder) models.Workout {
	t.Helper()
	var w models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&w); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return w
}

func createLegDay(t *testing.T, s *Server) models.Workout {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates", map[string]any{
		"name": "Leg Day",
		"exercises": []map[string]any{
			{"name": "Squat", "restTimeSeconds": 90, "sets": []map[string]any{{"reps": 10, "weight": 40}}},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template status = %d, want 201: %s", rec.Code, rec.Body)
	}
	return decodeWorkout(t, rec)
}

// TestCreateAndListTemplates verifies POST /templates then GET /templates
// returns the created record with template status.
func TestCreateAndListTemplates(t *testing.T) {
	s := newTestServer(t, "")
	created := createLegDay(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var templates []models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&templates); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("len(templates) = %d, want 1", len(templates))
	}
	if templates[0].ID != created.ID || templates[0].Status != models.StatusTemplate {
		t.Errorf("template = %+v, want the created record with status template", templates[0])
	}
}

// TestListTemplatesEmpty verifies an empty store yields a JSON array, not
// null, since clients iterate the response directly.
func TestListTemplatesEmpty(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/api/v1/templates", nil)
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

// TestCreateTemplateValidation verifies validation failures return 422 with
// the machine-readable reason.
func TestCreateTemplateValidation(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates", map[string]any{"name": "  "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["reason"] != "missing_name" {
		t.Errorf("reason = %q, want %q", resp["reason"], "missing_name")
	}
}

// TestFullSessionFlow walks the whole lifecycle over HTTP: start from a
// template, toggle the set, finish, and find the record in history.
func TestFullSessionFlow(t *testing.T) {
	s := newTestServer(t, "")
	template := createLegDay(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates/"+template.ID+"/start", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, want 201: %s", rec.Code, rec.Body)
	}
	session := decodeWorkout(t, rec)
	if session.ID == template.ID || session.Status != models.StatusActive {
		t.Fatalf("session = %+v, want a fresh active record", session)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+session.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session status = %d, want 200", rec.Code)
	}

	ex := session.Exercises[0]
	rec = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+session.ID+"/edits", map[string]any{
		"op": "toggle_complete", "exerciseId": ex.ID, "setId": ex.Sets[0].ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d, want 200: %s", rec.Code, rec.Body)
	}
	edited := decodeWorkout(t, rec)
	if !edited.Exercises[0].Sets[0].Completed {
		t.Fatal("set not completed after toggle edit")
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+session.ID+"/finish", map[string]any{
		"exercises": edited.Exercises, "durationSeconds": 125,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d, want 200: %s", rec.Code, rec.Body)
	}
	done := decodeWorkout(t, rec)
	if done.Status != models.StatusCompleted || done.DurationSeconds != 125 {
		t.Errorf("finished = %+v, want completed with 125s", done)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/history", nil)
	var history []models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != session.ID || !history[0].Exercises[0].Sets[0].Completed {
		t.Errorf("history = %+v, want the finished session", history)
	}
}

// TestEditUnknownOp verifies an unrecognized edit op is a 400.
func TestEditUnknownOp(t *testing.T) {
	s := newTestServer(t, "")
	template := createLegDay(t, s)
	session := decodeWorkout(t, doJSON(t, s, http.MethodPost, "/api/v1/templates/"+template.ID+"/start", nil))

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+session.ID+"/edits", map[string]any{"op": "explode"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestEditOnTemplateConflicts verifies lifecycle violations map to 409.
func TestEditOnTemplateConflicts(t *testing.T) {
	s := newTestServer(t, "")
	template := createLegDay(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+template.ID+"/edits", map[string]any{
		"op": "add_set", "exerciseId": template.Exercises[0].ID,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("edit on template status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+template.ID+"/finish", map[string]any{
		"exercises": template.Exercises, "durationSeconds": 10,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("finish on template status = %d, want 409", rec.Code)
	}
}

// TestNotFoundMapping verifies unknown ids map to 404 on reads and that a
// template id is not served as an active session.
func TestNotFoundMapping(t *testing.T) {
	s := newTestServer(t, "")
	template := createLegDay(t, s)

	if rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get workout status = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+template.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get session on template status = %d, want 404", rec.Code)
	}
}

// TestDeleteWorkout verifies DELETE removes the record and a repeat delete
// still succeeds.
func TestDeleteWorkout(t *testing.T) {
	s := newTestServer(t, "")
	template := createLegDay(t, s)

	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+template.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/"+template.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+template.ID, nil); rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d, want 204 (no-op)", rec.Code)
	}
}

// TestMutatingRoutesRequireAPIKey verifies the auth middleware guards writes
// but leaves reads open when a key is configured.
func TestMutatingRoutesRequireAPIKey(t *testing.T) {
	s := newTestServer(t, "secret")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates", map[string]any{"name": "Leg Day"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated create status = %d, want 401", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/v1/templates", nil); rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200 without key", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates", bytes.NewReader([]byte(`{"name":"Leg Day","exercises":[{"name":"Squat","sets":[]}]}`)))
	req.Header.Set("X-API-Key", "secret")
	authed := httptest.NewRecorder()
	s.ServeHTTP(authed, req)
	if authed.Code != http.StatusCreated {
		t.Errorf("authenticated create status = %d, want 201: %s", authed.Code, authed.Body)
	}
}
