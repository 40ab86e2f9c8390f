// Package assistant turns free-text chat messages into task operations using
// keyword rules, and answers with fixed response templates.
package assistant

import (
	"context"
	"log/slog"

	"github.com/kazz187/taskchat/internal/task"
	"github.com/kazz187/taskchat/internal/tool"
	"github.com/kazz187/taskchat/pkg/clog"
)

// Tools is the task store capability the assistant drives. *tool.Client
// implements it over HTTP.
type Tools interface {
	List(ctx context.Context, token string, p tool.ListParams) tool.Result[tool.TaskList]
	Create(ctx context.Context, token, title, description string) tool.Result[tool.TaskPayload]
	Toggle(ctx context.Context, token, id string) tool.Result[tool.TaskPayload]
	Delete(ctx context.Context, token, id string) tool.Result[tool.Deleted]
	Update(ctx context.Context, token, id string, p tool.UpdateParams) tool.Result[tool.TaskPayload]
}

type request struct {
	message string
	history []Turn
	token   string
}

type handler func(ctx context.Context, req request) string

// Assistant answers chat messages by driving Tools.
type Assistant struct {
	tools      Tools
	classifier *Classifier
	extractor  *Extractor
	resolver   *Resolver
	handlers   map[Intent]handler
}

type Option func(*options)

type options struct {
	match MatchFunc
}

// WithMatchFunc replaces the keyword matching used by every stage.
func WithMatchFunc(m MatchFunc) Option {
	return func(o *options) {
		o.match = m
	}
}

// New builds the assistant with Substring matching unless an Option says
// otherwise.
func New(tools Tools, opts ...Option) *Assistant {
	o := options{match: Substring}
	for _, opt := range opts {
		opt(&o)
	}
	a := &Assistant{
		tools:      tools,
		classifier: NewClassifier(o.match),
		extractor:  NewExtractor(o.match),
		resolver:   NewResolver(o.match),
	}
	a.handlers = map[Intent]handler{
		IntentList:     a.handleList,
		IntentComplete: a.handleComplete,
		IntentDelete:   a.handleDelete,
		IntentUpdate:   a.handleUpdate,
		IntentCreate:   a.handleCreate,
	}
	return a
}

// Respond answers one user message. Tool failures are part of the answer;
// an error is returned only when ctx ends first.
func (a *Assistant) Respond(ctx context.Context, message string, history []Turn, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	intent := a.classifier.Classify(message)
	clog.AddAttribute(ctx, clog.IntentAttributeKey, intent.String())
	slog.DebugContext(ctx, "classified chat message", "intent", intent.String(), "history", len(history))

	h, ok := a.handlers[intent]
	if !ok {
		return formatHelp(), nil
	}
	reply := h(ctx, request{message: message, history: history, token: token})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return reply, nil
}

func (a *Assistant) handleList(ctx context.Context, req request) string {
	params := a.extractor.ListParams(req.message)
	res := a.tools.List(ctx, req.token, params)
	if !res.OK() {
		return formatRetrieveFailure(res.Err())
	}
	return formatList(params.Completed, res.Data())
}

func (a *Assistant) handleComplete(ctx context.Context, req request) string {
	incomplete := false
	target, reply := a.pick(ctx, IntentComplete, req, tool.ListParams{Completed: &incomplete})
	if target == nil {
		return reply
	}
	res := a.tools.Toggle(ctx, req.token, target.ID)
	if !res.OK() {
		return formatFailure("complete", res.Err())
	}
	return formatCompleted(res.Data().Task.Title)
}

func (a *Assistant) handleDelete(ctx context.Context, req request) string {
	target, reply := a.pick(ctx, IntentDelete, req, tool.ListParams{})
	if target == nil {
		return reply
	}
	res := a.tools.Delete(ctx, req.token, target.ID)
	if !res.OK() {
		return formatFailure("delete", res.Err())
	}
	return formatDeleted(target.Title)
}

func (a *Assistant) handleUpdate(ctx context.Context, req request) string {
	target, reply := a.pick(ctx, IntentUpdate, req, tool.ListParams{})
	if target == nil {
		return reply
	}
	title := NewTitle(req.message, target.Title)
	if title == "" {
		return formatAskNewTitle(target.Title)
	}
	res := a.tools.Update(ctx, req.token, target.ID, tool.UpdateParams{Title: &title})
	if !res.OK() {
		return formatFailure("update", res.Err())
	}
	return formatUpdated(res.Data().Task.Title)
}

func (a *Assistant) handleCreate(ctx context.Context, req request) string {
	title := CreateTitle(req.message)
	res := a.tools.Create(ctx, req.token, title, "")
	if !res.OK() {
		return formatFailure("create", res.Err())
	}
	if t := res.Data().Task; t != nil && t.Title != "" {
		title = t.Title
	}
	return formatCreated(title)
}

// pick lists the candidates for intent and resolves the one the message
// refers to. When it returns nil, the string is the reply to send instead.
func (a *Assistant) pick(ctx context.Context, intent Intent, req request, params tool.ListParams) (*task.Task, string) {
	res := a.tools.List(ctx, req.token, params)
	if !res.OK() {
		return nil, formatRetrieveFailure(res.Err())
	}
	candidates := res.Data().Tasks
	if len(candidates) == 0 {
		return nil, formatNoCandidates(intent)
	}
	if t, ok := a.resolver.Resolve(candidates, req.message); ok {
		return t, ""
	}
	switch fallbackPolicy[intent] {
	case fallbackFirst:
		return candidates[0], ""
	default:
		return nil, formatClarification(intent.String(), candidates)
	}
}
