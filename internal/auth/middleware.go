package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/taskchat/pkg/cerr"
	"github.com/kazz187/taskchat/pkg/clog"
)

type claimsKey struct{}

type tokenKey struct{}

func ContextWithClaims(ctx context.Context, claims *Claims, token string) context.Context {
	ctx = context.WithValue(ctx, claimsKey{}, claims)
	return context.WithValue(ctx, tokenKey{}, token)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// TokenFromContext returns the raw bearer token of the current request.
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Middleware rejects requests without a valid bearer token and stores the
// claims in the request context.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := BearerToken(r)
			if token == "" {
				cerr.WriteError(ctx, w, cerr.NewError(cerr.Unauthenticated, "Not authenticated", nil))
				return
			}
			claims, err := v.Verify(token)
			if err != nil {
				msg := "Invalid authentication token"
				if errors.Is(err, ErrTokenExpired) {
					msg = "Authentication token has expired"
				}
				cerr.WriteError(ctx, w, cerr.NewError(cerr.Unauthenticated, msg, err))
				return
			}
			clog.AddOwner(ctx, claims.Owner())
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims, token)))
		})
	}
}

// RequireOwner rejects requests whose {user_id} path parameter differs from
// the authenticated user.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			cerr.WriteError(ctx, w, cerr.NewError(cerr.Unauthenticated, "Not authenticated", nil))
			return
		}
		if chi.URLParam(r, "user_id") != claims.Owner() {
			cerr.WriteError(ctx, w, cerr.NewError(cerr.PermissionDenied, "User ID in URL does not match authenticated user", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
