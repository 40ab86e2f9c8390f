package internal

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/internal/config"
	"github.com/kazz187/taskchat/internal/conversation"
	"github.com/kazz187/taskchat/internal/event"
	"github.com/kazz187/taskchat/internal/sqlitedb"
	"github.com/kazz187/taskchat/internal/task"
	"github.com/kazz187/taskchat/internal/user"
	"github.com/kazz187/taskchat/pkg/cerr"
	"github.com/kazz187/taskchat/pkg/clog"
)

const Version = "1.0.0"

type Server struct {
	server             *http.Server
	env                *config.Env
	db                 *sql.DB
	verifier           *auth.Verifier
	userServer         *user.Server
	taskServer         *task.Server
	conversationServer *conversation.Server
	eventServer        *event.Server
}

func NewServer(
	env *config.Env,
	db *sql.DB,
	verifier *auth.Verifier,
	userServer *user.Server,
	taskServer *task.Server,
	conversationServer *conversation.Server,
	eventServer *event.Server,
) *Server {
	return &Server{
		env:                env,
		db:                 db,
		verifier:           verifier,
		userServer:         userServer,
		taskServer:         taskServer,
		conversationServer: conversationServer,
		eventServer:        eventServer,
	}
}

// Handler builds the complete HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	authMiddleware := auth.Middleware(s.verifier)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		clog.SlogChiMiddleware(clog.WithChiFilter(clog.SkipHealthCheck)),
		cerr.NewJSONResponseChiMiddleware(),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
	})
	r.Get("/", s.Info)
	r.Method(http.MethodGet, "/health", &HealthChecker{db: s.db})

	s.userServer.Register(r, authMiddleware)
	r.Route("/api/users/{user_id}", func(r chi.Router) {
		r.Use(authMiddleware, auth.RequireOwner)
		s.taskServer.Register(r)
		s.conversationServer.Register(r)
		s.eventServer.Register(r)
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{s.env.FrontendURL},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// ListenAndServe starts the HTTP server. ctx becomes the base context of
// every request, so cancelling it also ends open event streams.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr, "version", Version)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type apiInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), apiInfo{
		Message: "Todo App API",
		Version: Version,
		Status:  "running",
		Endpoints: map[string]string{
			"health":        "/health",
			"signup":        "/auth/signup",
			"signin":        "/auth/signin",
			"verify":        "/auth/verify",
			"tasks":         "/api/users/{user_id}/tasks",
			"conversations": "/api/users/{user_id}/conversations",
			"events":        "/api/users/{user_id}/events",
		},
	})
}

type health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  string    `json:"database"`
}

type HealthChecker struct {
	db *sql.DB
}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h := health{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Database:  "connected",
	}
	if !sqlitedb.Ping(ctx, hc.db) {
		h.Status = "unhealthy"
		h.Database = "disconnected"
		cerr.SetJSONResponseWithStatus(ctx, http.StatusServiceUnavailable, h)
		return
	}
	cerr.SetJSONResponse(ctx, h)
}
