package tool_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/eventbus"
	"github.com/kazz187/taskchat/internal/task"
	"github.com/kazz187/taskchat/internal/task/repositoryimpl"
	"github.com/kazz187/taskchat/internal/tool"
	"github.com/kazz187/taskchat/pkg/cerr"
	"github.com/kazz187/taskchat/pkg/storage"
)

const secret = "test-secret"

func issue(t *testing.T, user string) string {
	t.Helper()
	tok, _, err := auth.NewIssuer(secret, time.Hour, time.Hour).Issue(user, "", false)
	require.NoError(t, err)
	return tok
}

// newAPI serves the real task routes over a temp directory store.
func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	srv := task.NewServer(repositoryimpl.NewYAMLRepository(store), eventbus.New())

	r := chi.NewRouter()
	r.Use(cerr.NewJSONResponseChiMiddleware(), auth.Middleware(auth.NewVerifier(secret)))
	r.Route("/api/users/{user_id}", func(r chi.Router) {
		r.Use(auth.RequireOwner)
		srv.Register(r)
	})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	c := tool.NewClient(api.URL, time.Second, auth.NewVerifier(secret))
	token := issue(t, "alice")

	created := c.Create(ctx, token, "  Buy milk ", "from the shop")
	require.True(t, created.OK(), created.Err())
	assert.Equal(t, "Buy milk", created.Data().Task.Title)
	id := created.Data().Task.ID

	require.True(t, c.Create(ctx, token, "Call mom", "").OK())

	list := c.List(ctx, token, tool.ListParams{})
	require.True(t, list.OK())
	assert.Equal(t, 2, list.Data().Count)

	list = c.List(ctx, token, tool.ListParams{Keyword: "SHOP"})
	require.True(t, list.OK())
	require.Equal(t, 1, list.Data().Count, "keyword matches description case-insensitively")
	assert.Equal(t, id, list.Data().Tasks[0].ID)

	toggled := c.Toggle(ctx, token, id)
	require.True(t, toggled.OK())
	assert.True(t, toggled.Data().Task.Completed)

	done := true
	list = c.List(ctx, token, tool.ListParams{Completed: &done})
	require.True(t, list.OK())
	assert.Equal(t, 1, list.Data().Count)

	newTitle := "Buy oat milk"
	updated := c.Update(ctx, token, id, tool.UpdateParams{Title: &newTitle})
	require.True(t, updated.OK(), updated.Err())
	assert.Equal(t, "Buy oat milk", updated.Data().Task.Title)
	assert.Equal(t, "from the shop", updated.Data().Task.Description, "unchanged fields are kept")
	assert.True(t, updated.Data().Task.Completed)

	got := c.Get(ctx, token, id)
	require.True(t, got.OK())
	assert.Equal(t, "Buy oat milk", got.Data().Task.Title)

	deleted := c.Delete(ctx, token, id)
	require.True(t, deleted.OK())
	assert.Equal(t, id, deleted.Data().TaskID)

	missing := c.Get(ctx, token, id)
	require.False(t, missing.OK())
	assert.Equal(t, tool.KindNotFound, missing.Err().Kind)
	assert.Equal(t, "Task not found", missing.Err().Msg)
}

func TestClient_LocalValidationMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer api.Close()
	c := tool.NewClient(api.URL, time.Second, auth.NewVerifier(secret))
	ctx := context.Background()
	token := issue(t, "alice")
	blank := "  "

	tests := []struct {
		name    string
		call    func() *tool.Error
		wantMsg string
	}{
		{"create blank title", func() *tool.Error { return c.Create(ctx, token, "   ", "").Err() }, "Task title cannot be empty"},
		{"create long title", func() *tool.Error { return c.Create(ctx, token, strings.Repeat("x", 256), "").Err() }, "Task title must be 255 characters or less"},
		{"get blank id", func() *tool.Error { return c.Get(ctx, token, "").Err() }, "Task ID cannot be empty"},
		{"delete blank id", func() *tool.Error { return c.Delete(ctx, token, " ").Err() }, "Task ID cannot be empty"},
		{"toggle blank id", func() *tool.Error { return c.Toggle(ctx, token, "").Err() }, "Task ID cannot be empty"},
		{"update blank title", func() *tool.Error { return c.Update(ctx, token, "id", tool.UpdateParams{Title: &blank}).Err() }, "Task title cannot be empty"},
		{"bad token", func() *tool.Error { return c.List(ctx, "garbage", tool.ListParams{}).Err() }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terr := tt.call()
			require.NotNil(t, terr)
			if tt.wantMsg != "" {
				assert.Equal(t, tool.KindValidation, terr.Kind)
				assert.Equal(t, tt.wantMsg, terr.Msg)
			} else {
				assert.Equal(t, tool.KindAuth, terr.Kind)
			}
		})
	}
	assert.Zero(t, calls.Load())
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind tool.Kind
		wantMsg  string
	}{
		{"not found", http.StatusNotFound, `{"detail":"whatever"}`, tool.KindNotFound, "Task not found"},
		{"forbidden", http.StatusForbidden, `{"detail":"nope"}`, tool.KindForbidden, "Cannot access this task"},
		{"detail", http.StatusBadRequest, `{"code":"invalid_argument","detail":"Title is required"}`, tool.KindStore, "Title is required"},
		{"no detail", http.StatusInternalServerError, `oops`, tool.KindStore, "Failed to toggle task"},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Authentication token has expired"}`, tool.KindAuth, "Authentication token has expired"},
		{"bad json", http.StatusOK, `{`, tool.KindTransport, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/users/alice/tasks/t1/toggle", r.URL.Path)
				assert.Equal(t, http.MethodPatch, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer api.Close()

			res := tool.NewClient(api.URL, time.Second, auth.NewVerifier(secret)).Toggle(context.Background(), issue(t, "alice"), "t1")
			require.False(t, res.OK())
			assert.Equal(t, tt.wantKind, res.Err().Kind)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, res.Err().Msg)
			} else {
				assert.True(t, strings.HasPrefix(res.Err().Msg, "Error toggling task:"), res.Err().Msg)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer api.Close()
	defer close(release)

	res := tool.NewClient(api.URL, 50*time.Millisecond, auth.NewVerifier(secret)).
		List(context.Background(), issue(t, "alice"), tool.ListParams{})
	require.False(t, res.OK())
	assert.Equal(t, tool.KindTransport, res.Err().Kind)
}

func TestResult_Envelope(t *testing.T) {
	ok, err := json.Marshal(tool.Success(tool.Deleted{Message: "Task deleted successfully", TaskID: "t1"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"message":"Task deleted successfully","task_id":"t1"}}`, string(ok))

	failed, err := json.Marshal(tool.Failure[tool.Deleted](&tool.Error{Kind: tool.KindNotFound, Msg: "Task not found"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Task not found"}`, string(failed))
}
