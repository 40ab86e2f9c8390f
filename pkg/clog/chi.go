package clog

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type chiConfig struct {
	filter func(r *http.Request) bool
}

type ChiOption func(*chiConfig)

// WithChiFilter suppresses the access log line for requests where filter
// returns false.
func WithChiFilter(filter func(r *http.Request) bool) ChiOption {
	return func(cfg *chiConfig) {
		cfg.filter = filter
	}
}

func SkipHealthCheck(r *http.Request) bool {
	return r.URL.Path != "/health"
}

// StatusLevel is the access log level for an HTTP status. 499 marks a client
// that went away and is not a failure.
func StatusLevel(status int) slog.Level {
	switch {
	case status == 499, status >= 100 && status < 400:
		return slog.LevelInfo
	case status >= 400 && status < 500:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// SlogChiMiddleware prepares the request context for attribute collection
// and writes one access log line per request once the handler returns.
func SlogChiMiddleware(opts ...ChiOption) func(http.Handler) http.Handler {
	var cfg chiConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := ContextWithSlog(r.Context())
			AddAttrs(ctx,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("proto", r.Proto),
			)
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				AddAttribute(ctx, "request_id", reqID)
			}

			next.ServeHTTP(ww, r.WithContext(ctx))

			if cfg.filter != nil && !cfg.filter(r) {
				return
			}
			AddAttrs(ctx,
				slog.Int("status", ww.Status()),
				slog.Int("bytes_written", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
			slog.Log(ctx, StatusLevel(ww.Status()), http.StatusText(ww.Status()))
		})
	}
}
