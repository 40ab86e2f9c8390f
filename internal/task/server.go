package task

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/eventbus"
	"github.com/kazz187/taskchat/pkg/cerr"
)

type createRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
}

type updateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

var requestMessages = cerr.Messages{
	"Title.required": "Title is required",
	"Title.max":      "Title must be 255 characters or less",
}

type Server struct {
	repo     Repository
	eventBus *eventbus.Bus
	now      func() time.Time
}

func NewServer(repo Repository, eventBus *eventbus.Bus) *Server {
	return &Server{
		repo:     repo,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// Register mounts the task routes under /tasks of an owner scoped router.
func (s *Server) Register(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks)
		r.Post("/", s.CreateTask)
		r.Get("/{task_id}", s.GetTask)
		r.Put("/{task_id}", s.UpdateTask)
		r.Patch("/{task_id}/toggle", s.ToggleTask)
		r.Delete("/{task_id}", s.DeleteTask)
	})
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := ListFilter{UserID: chi.URLParam(r, "user_id")}
	if v := r.URL.Query().Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "completed must be true or false", err)
			return
		}
		filter.Completed = &completed
	}
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	cerr.SetJSONResponse(ctx, tasks)
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if err := decode(r, &req, &req.Title); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	now := s.now().UTC()
	t := &Task{
		ID:          uuid.NewString(),
		UserID:      chi.URLParam(r, "user_id"),
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TaskCreated, t.UserID, t.ID, map[string]string{"title": t.Title})
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, t)
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateRequest
	if err := decode(r, &req, &req.Title); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t.Title = req.Title
	t.Description = strings.TrimSpace(req.Description)
	t.Completed = req.Completed
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TaskUpdated, t.UserID, t.ID, map[string]string{"title": t.Title})
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TaskToggled, t.UserID, t.ID, map[string]string{
		"title":     t.Title,
		"completed": strconv.FormatBool(t.Completed),
	})
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TaskDeleted, t.UserID, t.ID, map[string]string{"title": t.Title})
	cerr.SetNoContent(ctx)
}

// owned loads the task named in the path. Tasks of other users are reported
// as missing.
func (s *Server) owned(r *http.Request) (*Task, error) {
	t, err := s.repo.Get(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		return nil, err
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); !ok || t.UserID != claims.Owner() {
		return nil, cerr.NewError(cerr.NotFound, "Task not found", nil)
	}
	return t, nil
}

// decode trims the title before validation so blank titles are rejected.
func decode(r *http.Request, req any, title *string) error {
	if err := cerr.DecodeJSON(r, req); err != nil {
		return err
	}
	*title = strings.TrimSpace(*title)
	return cerr.Validate(req, requestMessages)
}
