package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kazz187/taskchat/internal/auth"
	"github.com/kazz187/taskchat/pkg/cerr"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type authResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var requestMessages = cerr.Messages{
	"Email.required":    "Email is required",
	"Email.email":       "Invalid email address",
	"Password.required": "Password is required",
}

type Server struct {
	repo   Repository
	issuer *auth.Issuer
	now    func() time.Time
}

func NewServer(repo Repository, issuer *auth.Issuer) *Server {
	return &Server{repo: repo, issuer: issuer, now: time.Now}
}

// Register mounts the public sign up and sign in routes. verify must be
// wrapped by the auth middleware by the caller.
func (s *Server) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/auth/signup", s.SignUp)
	r.Post("/auth/signin", s.SignIn)
	r.With(authMiddleware).Get("/auth/verify", s.Verify)
}

func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req signUpRequest
	if err := cerr.Bind(r, &req, requestMessages); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.Internal, "server error", err)
		return
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	resp, err := s.session(u, false)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, resp)
}

func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req signInRequest
	if err := cerr.Bind(r, &req, requestMessages); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	invalid := cerr.NewError(cerr.Unauthenticated, "Invalid email or password", nil)
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if cerr.IsCode(err, cerr.NotFound) {
		cerr.SetJSONError(ctx, invalid)
		return
	}
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	ok, err := auth.CheckPassword(u.PasswordHash, req.Password)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.Internal, "server error", err)
		return
	}
	if !ok {
		cerr.SetJSONError(ctx, invalid)
		return
	}
	resp, err := s.session(u, req.RememberMe)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, resp)
}

func (s *Server) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "Not authenticated", nil)
		return
	}
	u, err := s.repo.Get(ctx, claims.Owner())
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, u)
}

func (s *Server) session(u *User, rememberMe bool) (*authResponse, error) {
	token, expiresAt, err := s.issuer.Issue(u.ID, u.Email, rememberMe)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", err)
	}
	return &authResponse{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
