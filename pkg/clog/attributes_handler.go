package clog

import (
	"context"
	"log/slog"
)

// AttributesHandler appends the attributes collected in the request context
// to every record logged with that context.
type AttributesHandler struct {
	next slog.Handler
}

func NewAttributesHandler(next slog.Handler) *AttributesHandler {
	return &AttributesHandler{next: next}
}

func (h *AttributesHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AttributesHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(Attributes(ctx)...)
	return h.next.Handle(ctx, record)
}

func (h *AttributesHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewAttributesHandler(h.next.WithAttrs(attrs))
}

func (h *AttributesHandler) WithGroup(name string) slog.Handler {
	return NewAttributesHandler(h.next.WithGroup(name))
}
