// Package tool calls the task REST API on behalf of a token holder and
// reports every outcome as a Result.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kazz187/taskchat/internal/task"
)

const (
	DefaultTimeout = 10 * time.Second
	maxTitleLen    = 255
)

// OwnerResolver extracts the owning user id from a bearer token.
type OwnerResolver interface {
	Owner(token string) (string, error)
}

type ListParams struct {
	Completed *bool
	// Keyword filters by case-insensitive substring of title or description.
	Keyword string
}

// UpdateParams leaves a field unchanged when it is nil.
type UpdateParams struct {
	Title       *string
	Description *string
	Completed   *bool
}

type Client struct {
	baseURL string
	http    *http.Client
	owners  OwnerResolver
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func NewClient(baseURL string, timeout time.Duration, owners OwnerResolver, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		owners:  owners,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, token string, p ListParams) Result[TaskList] {
	owner, terr := c.owner(token)
	if terr != nil {
		return Failure[TaskList](terr)
	}
	q := url.Values{}
	if p.Completed != nil {
		q.Set("completed", strconv.FormatBool(*p.Completed))
	}
	var tasks []*task.Task
	if terr := c.do(ctx, token, http.MethodGet, c.tasksURL(owner, "", q), nil, &tasks, op{"listing tasks", "Failed to list tasks"}); terr != nil {
		return Failure[TaskList](terr)
	}
	if kw := strings.ToLower(p.Keyword); kw != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Title), kw) || strings.Contains(strings.ToLower(t.Description), kw) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return Success(TaskList{Tasks: tasks, Count: len(tasks)})
}

func (c *Client) Create(ctx context.Context, token, title, description string) Result[TaskPayload] {
	title = strings.TrimSpace(title)
	if terr := validateTitle(title); terr != nil {
		return Failure[TaskPayload](terr)
	}
	owner, terr := c.owner(token)
	if terr != nil {
		return Failure[TaskPayload](terr)
	}
	body := map[string]string{"title": title, "description": strings.TrimSpace(description)}
	var t task.Task
	if terr := c.do(ctx, token, http.MethodPost, c.tasksURL(owner, "", nil), body, &t, op{"creating task", "Failed to create task"}); terr != nil {
		return Failure[TaskPayload](terr)
	}
	return Success(TaskPayload{Task: &t})
}

func (c *Client) Get(ctx context.Context, token, id string) Result[TaskPayload] {
	owner, terr := c.ownerFor(token, id)
	if terr != nil {
		return Failure[TaskPayload](terr)
	}
	var t task.Task
	if terr := c.do(ctx, token, http.MethodGet, c.tasksURL(owner, id, nil), nil, &t, op{"getting task", "Failed to get task"}); terr != nil {
		return Failure[TaskPayload](terr)
	}
	return Success(TaskPayload{Task: &t})
}

func (c *Client) Delete(ctx context.Context, token, id string) Result[Deleted] {
	owner, terr := c.ownerFor(token, id)
	if terr != nil {
		return Failure[Deleted](terr)
	}
	if terr := c.do(ctx, token, http.MethodDelete, c.tasksURL(owner, id, nil), nil, nil, op{"deleting task", "Failed to delete task"}); terr != nil {
		return Failure[Deleted](terr)
	}
	return Success(Deleted{Message: "Task deleted successfully", TaskID: id})
}

func (c *Client) Toggle(ctx context.Context, token, id string) Result[TaskPayload] {
	owner, terr := c.ownerFor(token, id)
	if terr != nil {
		return Failure[TaskPayload](terr)
	}
	var t task.Task
	if terr := c.do(ctx, token, http.MethodPatch, c.tasksURL(owner, id+"/toggle", nil), nil, &t, op{"toggling task", "Failed to toggle task"}); terr != nil {
		return Failure[TaskPayload](terr)
	}
	return Success(TaskPayload{Task: &t})
}

// Update reads the current task and writes it back with the given fields
// replaced.
func (c *Client) Update(ctx context.Context, token, id string, p UpdateParams) Result[TaskPayload] {
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		if terr := validateTitle(trimmed); terr != nil {
			return Failure[TaskPayload](terr)
		}
		p.Title = &trimmed
	}
	owner, terr := c.ownerFor(token, id)
	if terr != nil {
		return Failure[TaskPayload](terr)
	}
	updateOp := op{"updating task", "Failed to update task"}
	var current task.Task
	if terr := c.do(ctx, token, http.MethodGet, c.tasksURL(owner, id, nil), nil, &current, updateOp); terr != nil {
		return Failure[TaskPayload](terr)
	}
	body := map[string]any{
		"title":       current.Title,
		"description": current.Description,
		"completed":   current.Completed,
	}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		body["completed"] = *p.Completed
	}
	var t task.Task
	if terr := c.do(ctx, token, http.MethodPut, c.tasksURL(owner, id, nil), body, &t, updateOp); terr != nil {
		return Failure[TaskPayload](terr)
	}
	return Success(TaskPayload{Task: &t})
}

func (c *Client) owner(token string) (string, *Error) {
	owner, err := c.owners.Owner(token)
	if err != nil {
		return "", newError(KindAuth, err.Error())
	}
	return owner, nil
}

// ownerFor validates the task id before touching the token.
func (c *Client) ownerFor(token, id string) (string, *Error) {
	if strings.TrimSpace(id) == "" {
		return "", newError(KindValidation, "Task ID cannot be empty")
	}
	return c.owner(token)
}

func validateTitle(title string) *Error {
	if title == "" {
		return newError(KindValidation, "Task title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return newError(KindValidation, "Task title must be 255 characters or less")
	}
	return nil
}

func (c *Client) tasksURL(owner, suffix string, q url.Values) string {
	u := c.baseURL + "/api/users/" + url.PathEscape(owner) + "/tasks"
	if suffix != "" {
		u += "/" + suffix
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// op names a call for error messages: verb for transport failures, fallback
// when the API gives no detail.
type op struct {
	verb     string
	fallback string
}

func (c *Client) do(ctx context.Context, token, method, target string, body, out any, o op) *Error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return newError(KindTransport, fmt.Sprintf("Error %s: %v", o.verb, err))
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return newError(KindTransport, fmt.Sprintf("Error %s: %v", o.verb, err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "task API request failed", "method", method, "error", err)
		return newError(KindTransport, fmt.Sprintf("Error %s: %v", o.verb, err))
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return newError(KindTransport, fmt.Sprintf("Error %s: %v", o.verb, err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return newError(KindTransport, fmt.Sprintf("Error %s: %v", o.verb, err))
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return newError(KindNotFound, "Task not found")
	case resp.StatusCode == http.StatusForbidden:
		return newError(KindForbidden, "Cannot access this task")
	case resp.StatusCode == http.StatusUnauthorized:
		return newError(KindAuth, detail(data, o.fallback))
	default:
		return newError(KindStore, detail(data, o.fallback))
	}
}

func detail(body []byte, fallback string) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Detail == "" {
		return fallback
	}
	return e.Detail
}
