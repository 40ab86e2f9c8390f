// Package event streams task change events to their owner as Server-Sent
// Events.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/taskchat/internal/eventbus"
)

const (
	subscriberBuffer = 64
	DefaultKeepAlive = 25 * time.Second
)

type Server struct {
	eventBus  *eventbus.Bus
	keepAlive time.Duration
}

func NewServer(eventBus *eventbus.Bus, keepAlive time.Duration) *Server {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &Server{eventBus: eventBus, keepAlive: keepAlive}
}

// Register mounts GET /events on an owner scoped router.
func (s *Server) Register(r chi.Router) {
	r.Get("/events", s.StreamEvents)
}

// StreamEvents sends the owner's events until the client goes away. The
// optional types query parameter is a comma separated list of event types
// to keep.
func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	typeFilter := make(map[eventbus.EventType]struct{})
	for _, t := range strings.Split(r.URL.Query().Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			typeFilter[eventbus.EventType(t)] = struct{}{}
		}
	}
	userID := chi.URLParam(r, "user_id")

	subID, ch := s.eventBus.Subscribe(subscriberBuffer)
	defer s.eventBus.Unsubscribe(subID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		slog.WarnContext(ctx, "event stream cannot be flushed", "error", err)
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := writeAndFlush(rc, w, ": ping\n\n"); err != nil {
				return
			}
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.UserID != userID {
				continue
			}
			if len(typeFilter) > 0 {
				if _, match := typeFilter[e.Type]; !match {
					continue
				}
			}
			if err := send(ctx, rc, w, e); err != nil {
				return
			}
		}
	}
}

func send(ctx context.Context, rc *http.ResponseController, w http.ResponseWriter, e *eventbus.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode event", "event_id", e.ID, "error", err)
		return nil
	}
	return writeAndFlush(rc, w, fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data))
}

func writeAndFlush(rc *http.ResponseController, w http.ResponseWriter, s string) error {
	if _, err := fmt.Fprint(w, s); err != nil {
		return err
	}
	return rc.Flush()
}
