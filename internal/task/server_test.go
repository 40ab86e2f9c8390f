package task_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/eventbus"
	"github.com/kazz187/taskchat/internal/task"
	"github.com/kazz187/taskchat/internal/task/repositoryimpl"
	"github.com/kazz187/taskchat/pkg/cerr"
	"github.com/kazz187/taskchat/pkg/storage"
)

type fixture struct {
	handler http.Handler
	bus     *eventbus.Bus
	tokens  map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	bus := eventbus.New()
	srv := task.NewServer(repositoryimpl.NewYAMLRepository(store), bus)

	r := chi.NewRouter()
	r.Use(cerr.NewJSONResponseChiMiddleware(), auth.Middleware(auth.NewVerifier("secret")))
	r.Route("/api/users/{user_id}", func(r chi.Router) {
		r.Use(auth.RequireOwner)
		srv.Register(r)
	})

	issuer := auth.NewIssuer("secret", time.Hour, time.Hour)
	tokens := map[string]string{}
	for _, u := range []string{"alice", "bob"} {
		tok, _, err := issuer.Issue(u, u+"@example.com", false)
		require.NoError(t, err)
		tokens[u] = tok
	}
	return &fixture{handler: r, bus: bus, tokens: tokens}
}

func (f *fixture) do(t *testing.T, user, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+f.tokens[user])
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_CRUD(t *testing.T) {
	f := newFixture(t)
	subID, events := f.bus.Subscribe(16)
	defer f.bus.Unsubscribe(subID)

	rec := f.do(t, "alice", http.MethodPost, "/api/users/alice/tasks", map[string]string{"title": "  Buy milk  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[task.Task](t, rec)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "alice", created.UserID)
	assert.False(t, created.Completed)
	assert.Equal(t, eventbus.TaskCreated, (<-events).Type)

	rec = f.do(t, "alice", http.MethodPatch, "/api/users/alice/tasks/"+created.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[task.Task](t, rec).Completed)
	assert.Equal(t, eventbus.TaskToggled, (<-events).Type)

	rec = f.do(t, "alice", http.MethodGet, "/api/users/alice/tasks?completed=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]task.Task](t, rec), 1)

	rec = f.do(t, "alice", http.MethodGet, "/api/users/alice/tasks?completed=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = f.do(t, "alice", http.MethodPut, "/api/users/alice/tasks/"+created.ID,
		map[string]any{"title": "Buy oat milk", "description": "2 litres", "completed": false})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[task.Task](t, rec)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, "2 litres", updated.Description)
	assert.Equal(t, eventbus.TaskUpdated, (<-events).Type)

	rec = f.do(t, "alice", http.MethodGet, "/api/users/alice/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Buy oat milk", decodeBody[task.Task](t, rec).Title)

	rec = f.do(t, "alice", http.MethodDelete, "/api/users/alice/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, eventbus.TaskDeleted, (<-events).Type)

	rec = f.do(t, "alice", http.MethodGet, "/api/users/alice/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeBody[map[string]string](t, rec)["detail"])
}

func TestServer_Errors(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "alice", http.MethodPost, "/api/users/alice/tasks", map[string]string{"title": "Secret"})
	require.Equal(t, http.StatusCreated, rec.Code)
	aliceTask := decodeBody[task.Task](t, rec)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name       string
		user       string
		method     string
		path       string
		body       any
		wantStatus int
		wantDetail string
	}{
		{"blank title", "alice", http.MethodPost, "/api/users/alice/tasks", map[string]string{"title": "   "}, http.StatusBadRequest, "Title is required"},
		{"long title", "alice", http.MethodPost, "/api/users/alice/tasks", map[string]string{"title": string(long)}, http.StatusBadRequest, "Title must be 255 characters or less"},
		{"bad filter", "alice", http.MethodGet, "/api/users/alice/tasks?completed=maybe", nil, http.StatusBadRequest, "completed must be true or false"},
		{"other user's path", "bob", http.MethodGet, "/api/users/alice/tasks", nil, http.StatusForbidden, "User ID in URL does not match authenticated user"},
		{"other user's task", "bob", http.MethodGet, "/api/users/bob/tasks/" + aliceTask.ID, nil, http.StatusNotFound, "Task not found"},
		{"toggle missing", "alice", http.MethodPatch, "/api/users/alice/tasks/missing/toggle", nil, http.StatusNotFound, "Task not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.user, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, decodeBody[map[string]string](t, rec)["detail"])
		})
	}
}
