package conversation

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskchat/internal/assistant"
	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/pkg/cerr"
	"github.com/kazz187/taskchat/pkg/panicerr"
)

const (
	DefaultHistoryLimit = 20

	defaultConversationLimit = 20
	defaultMessageLimit      = 50
	maxPageLimit             = 100
)

// Responder answers a user message given the preceding turns. The token is
// the caller's own bearer token so task changes are made on their behalf.
type Responder interface {
	Respond(ctx context.Context, message string, history []assistant.Turn, token string) (string, error)
}

type createRequest struct {
	Title string `json:"title" validate:"max=255"`
}

type messageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

var requestMessages = cerr.Messages{
	"Title.max":        "Title must be 255 characters or less",
	"Role.required":    "Role is required",
	"Role.oneof":       "Role must be user or assistant",
	"Content.required": "Content is required",
}

type Server struct {
	repo         Repository
	responder    Responder
	historyLimit int
	now          func() time.Time
}

func NewServer(repo Repository, responder Responder, historyLimit int) *Server {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Server{
		repo:         repo,
		responder:    responder,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Register mounts the conversation routes under /conversations of an owner
// scoped router.
func (s *Server) Register(r chi.Router) {
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", s.ListConversations)
		r.Post("/", s.CreateConversation)
		r.Get("/{conversation_id}", s.GetConversation)
		r.Delete("/{conversation_id}", s.DeleteConversation)
		r.Get("/{conversation_id}/messages", s.ListMessages)
		r.Post("/{conversation_id}/messages", s.CreateMessage)
	})
}

func (s *Server) CreateConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if r.ContentLength != 0 {
		if err := cerr.Bind(r, &req, requestMessages); err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
	}
	now := s.now().UTC()
	c := &Conversation{
		ID:        uuid.NewString(),
		UserID:    chi.URLParam(r, "user_id"),
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, c)
}

func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := parsePage(r, defaultConversationLimit)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	convs, err := s.repo.List(ctx, chi.URLParam(r, "user_id"), page)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if convs == nil {
		convs = []*Conversation{}
	}
	cerr.SetJSONResponse(ctx, convs)
}

func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, c)
}

func (s *Server) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetNoContent(ctx)
}

func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := parsePage(r, defaultMessageLimit)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	c, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	msgs, err := s.repo.Messages(ctx, c.ID, page)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if msgs == nil {
		msgs = []*Message{}
	}
	cerr.SetJSONResponse(ctx, msgs)
}

// CreateMessage stores the posted message. A user message is answered by the
// assistant and the stored reply is returned instead; if the assistant fails
// the user message is returned.
func (s *Server) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req messageRequest
	if err := cerr.Bind(r, &req, requestMessages); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	c, err := s.owned(r)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	msg, err := s.addMessage(ctx, c.ID, req.Role, req.Content)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if req.Role != RoleUser {
		cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, msg)
		return
	}

	reply, err := s.reply(ctx, c.ID, msg.Content)
	if err != nil {
		slog.ErrorContext(ctx, "assistant failed to answer", "conversation_id", c.ID, "error", err)
		cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, msg)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, reply)
}

func (s *Server) reply(ctx context.Context, conversationID, content string) (*Message, error) {
	recent, err := s.repo.Recent(ctx, conversationID, s.historyLimit)
	if err != nil {
		return nil, err
	}
	history := make([]assistant.Turn, 0, len(recent))
	for _, m := range recent {
		history = append(history, assistant.Turn{Role: m.Role, Content: m.Content})
	}
	token := auth.TokenFromContext(ctx)
	answer, err := panicerr.Call(ctx, func(ctx context.Context) (string, error) {
		return s.responder.Respond(ctx, content, history, token)
	})
	if err != nil {
		return nil, err
	}
	return s.addMessage(ctx, conversationID, RoleAssistant, answer)
}

func (s *Server) addMessage(ctx context.Context, conversationID, role, content string) (*Message, error) {
	m := &Message{
		ID:             ulid.Make().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// owned loads the conversation named in the path. Conversations of other
// users are reported as missing.
func (s *Server) owned(r *http.Request) (*Conversation, error) {
	c, err := s.repo.Get(r.Context(), chi.URLParam(r, "conversation_id"))
	if err != nil {
		return nil, err
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); !ok || c.UserID != claims.Owner() {
		return nil, cerr.NewError(cerr.NotFound, "Conversation not found", nil)
	}
	return c, nil
}

func parsePage(r *http.Request, defaultLimit int) (Page, error) {
	page := Page{Limit: defaultLimit}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, cerr.NewError(cerr.InvalidArgument, "limit must be a positive integer", err)
		}
		page.Limit = min(n, maxPageLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, cerr.NewError(cerr.InvalidArgument, "offset must be a non-negative integer", err)
		}
		page.Offset = n
	}
	return page, nil
}
