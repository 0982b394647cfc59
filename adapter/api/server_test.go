package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/fokus/internal/app"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	server    *Server
	projectID uuid.UUID
	actorID   uuid.UUID
}

func setupServer(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)

	cfg := &config.Config{AppEnv: "test", DatabaseDriver: "sqlite", LocalMode: true, TransitionCacheTTL: time.Minute}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := app.NewContainerWithConnection(ctx, cfg, conn, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	actor := uuid.New()
	return &apiFixture{
		server:    NewServerFromContainer(DefaultServerConfig(), c, actor),
		projectID: uuid.New(),
		actorID:   actor,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) project(suffix string) string {
	return "/api/projects/" + f.projectID.String() + suffix
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (f *apiFixture) createStatus(t *testing.T, name string, order int) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, f.project("/statuses"), map[string]any{"name": name, "order": order})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["id"].(string)
}

func TestHealthz(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/api/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestStatusLifecycle(t *testing.T) {
	f := setupServer(t)

	first := f.createStatus(t, "Ready for Test", 0)
	rec := f.do(t, http.MethodPost, f.project("/statuses"), map[string]any{"name": "Ready-for-Test", "order": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ready-for-test-1", decode(t, rec)["slug"])

	rec = f.do(t, http.MethodPost, f.project("/statuses"), map[string]any{"name": "Ready for Test"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, f.project("/statuses"), map[string]any{"name": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPatch, f.project("/statuses/"+first), map[string]any{"name": "QA", "is_completed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "qa", body["slug"])
	assert.Equal(t, true, body["is_completed"])

	rec = f.do(t, http.MethodGet, f.project("/statuses"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["statuses"], 2)

	rec = f.do(t, http.MethodDelete, f.project("/statuses/"+first), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, f.project("/statuses/"+first), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, f.project("/statuses/not-a-uuid"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReorderSkipsForeignStatus(t *testing.T) {
	f := setupServer(t)
	todo := f.createStatus(t, "ToDo", 0)
	done := f.createStatus(t, "Done", 1)

	other := &apiFixture{server: f.server, projectID: uuid.New()}
	foreign := other.createStatus(t, "Elsewhere", 0)

	rec := f.do(t, http.MethodPut, f.project("/statuses/order"), map[string]any{
		"changes": []map[string]any{
			{"status_id": done, "order": 0},
			{"status_id": foreign, "order": 1},
			{"status_id": todo, "order": 2},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Len(t, body["applied"], 2)
	assert.Equal(t, []any{foreign}, body["skipped"])
}

func TestTransitionsAndTaskMoves(t *testing.T) {
	f := setupServer(t)
	todo := f.createStatus(t, "ToDo", 0)
	inProg := f.createStatus(t, "InProg", 1)
	done := f.createStatus(t, "Done", 2)

	toggle := func(from, to string) string {
		rec := f.do(t, http.MethodPost, f.project("/transitions/toggle"), map[string]any{
			"from_status_id": from, "to_status_id": to,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode(t, rec)["state"].(string)
	}
	assert.Equal(t, "added", toggle(todo, inProg))
	assert.Equal(t, "added", toggle(inProg, todo))

	rec := f.do(t, http.MethodGet, f.project("/transitions/check?from="+todo+"&to="+done), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["allowed"])

	rec = f.do(t, http.MethodGet, f.project("/transitions/check?from="+todo), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, f.project("/transitions/toggle"), map[string]any{
		"from_status_id": todo, "to_status_id": todo,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPost, f.project("/tasks"), map[string]any{"title": "Ship it"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	taskID := created["task_id"].(string)
	assert.Equal(t, todo, created["status_id"])

	move := func(target string) *httptest.ResponseRecorder {
		return f.do(t, http.MethodPut, "/api/tasks/"+taskID+"/status", map[string]any{"status_id": target})
	}

	rec = move(done)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unprocessable", decode(t, rec)["error"])

	rec = move(todo)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["changed"])

	assert.Equal(t, "added", toggle(inProg, done))
	require.Equal(t, http.StatusOK, move(inProg).Code)
	rec = move(done)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["changed"])

	rec = f.do(t, http.MethodGet, "/api/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, done, decode(t, rec)["status_id"])

	rec = f.do(t, http.MethodGet, "/api/tasks/"+taskID+"/targets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["targets"], 1)

	rec = f.do(t, http.MethodDelete, f.project("/statuses/"+done), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/tasks/"+taskID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, f.project("/statuses/"+done), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["removed_edges"])

	rec = f.do(t, http.MethodGet, "/api/tasks/"+taskID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyTemplate(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, f.project("/workflow/template"), map[string]any{"template": "kanban"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "kanban", decode(t, rec)["template"])

	rec = f.do(t, http.MethodPost, f.project("/workflow/template"), map[string]any{"template": "kanban"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, f.project("/workflow/template"), map[string]any{"template": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, f.project("/workflow"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode(t, rec)
	assert.Len(t, overview["statuses"], 5)
	assert.Equal(t, true, overview["completion_reachable"])
}

func TestToAPIError(t *testing.T) {
	apiErr := toAPIError(io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Internal server error", apiErr.Message)

	apiErr = toAPIError(badRequest("bad"))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "bad_request: bad", apiErr.Error())
}
