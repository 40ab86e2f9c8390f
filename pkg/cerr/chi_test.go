package cerr

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kazz187/taskchat/pkg/storage"
)

func TestJSONResponseMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name: "value",
			handler: func(w http.ResponseWriter, r *http.Request) {
				SetJSONResponse(r.Context(), map[string]string{"status": "ok"})
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name: "created",
			handler: func(w http.ResponseWriter, r *http.Request) {
				SetJSONResponseWithStatus(r.Context(), http.StatusCreated, []int{1})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `[1]`,
		},
		{
			name: "no content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				SetNoContent(r.Context())
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "coded error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				SetNewJSONError(r.Context(), NotFound, "Task not found", nil)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"not_found","detail":"Task not found"}`,
		},
		{
			name: "plain error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				SetJSONError(r.Context(), errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":"unknown","detail":"unknown error"}`,
		},
		{
			name: "handler writes itself",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			wantStatus: http.StatusAccepted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewJSONResponseChiMiddleware()(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody == "" {
				assert.Empty(t, rec.Body.String())
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "permission_denied", PermissionDenied.String())
	assert.Equal(t, http.StatusForbidden, PermissionDenied.HTTPCode())
	assert.Equal(t, "unknown", Code(99).String())
	assert.Equal(t, http.StatusInternalServerError, Code(99).HTTPCode())
	assert.Equal(t, slog.LevelWarn, InvalidArgument.Level())
	assert.Equal(t, slog.LevelError, Internal.Level())

	assert.Empty(t, NewError(NotFound, "x", nil).Stack)
	assert.NotEmpty(t, NewError(Internal, "x", nil).Stack)
}

func TestWrapStorageErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   Code
		wantDetail string
	}{
		{"storage missing", storage.ErrNotFound, NotFound, "Task not found"},
		{"sql missing", sql.ErrNoRows, NotFound, "Task not found"},
		{"other", errors.New("disk full"), Internal, "server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, err := range []error{WrapStorageReadError("Task", tt.err), WrapStorageDeleteError("Task", tt.err)} {
				var cErr *Error
				assert.True(t, errors.As(err, &cErr))
				assert.Equal(t, tt.wantCode, cErr.Code)
				assert.Equal(t, tt.wantDetail, cErr.Msg)
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
	assert.True(t, IsCode(WrapStorageWriteError("task", storage.ErrNotFound), Internal))
}
