package clog

import (
	"context"
	"log/slog"
	"sync"
)

const (
	ErrorAttributeKey  = "error.message"
	StackAttributeKey  = "error.stack"
	OwnerAttributeKey  = "owner_id"
	IntentAttributeKey = "intent"
)

// attrBag collects attributes over the life of one request. A key set twice
// keeps its first position and its last value.
type attrBag struct {
	mu    sync.Mutex
	index map[string]int
	attrs []slog.Attr
}

type attrBagKey struct{}

// ContextWithSlog returns a context that collects attributes for the
// AttributesHandler.
func ContextWithSlog(ctx context.Context) context.Context {
	return context.WithValue(ctx, attrBagKey{}, &attrBag{index: make(map[string]int)})
}

func bagFrom(ctx context.Context) *attrBag {
	b, _ := ctx.Value(attrBagKey{}).(*attrBag)
	return b
}

func (b *attrBag) set(attr slog.Attr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.index[attr.Key]; ok {
		b.attrs[i] = attr
		return
	}
	b.index[attr.Key] = len(b.attrs)
	b.attrs = append(b.attrs, attr)
}

func (b *attrBag) snapshot() []slog.Attr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]slog.Attr(nil), b.attrs...)
}

// AddAttribute is a no-op on contexts not prepared by ContextWithSlog.
func AddAttribute(ctx context.Context, key string, value any) {
	if b := bagFrom(ctx); b != nil {
		b.set(slog.Any(key, value))
	}
}

func AddAttrs(ctx context.Context, attrs ...slog.Attr) {
	b := bagFrom(ctx)
	if b == nil {
		return
	}
	for _, a := range attrs {
		b.set(a)
	}
}

func Attributes(ctx context.Context) []slog.Attr {
	b := bagFrom(ctx)
	if b == nil {
		return nil
	}
	return b.snapshot()
}

func AddError(ctx context.Context, err error) {
	AddAttribute(ctx, ErrorAttributeKey, err)
}

func AddStack(ctx context.Context, stack string) {
	AddAttribute(ctx, StackAttributeKey, stack)
}

// AddOwner tags the request log with the authenticated user.
func AddOwner(ctx context.Context, ownerID string) {
	AddAttribute(ctx, OwnerAttributeKey, ownerID)
}
