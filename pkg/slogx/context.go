package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey struct{}

type requestAttrsKey struct{}

// requestAttrs collects attributes added by inner handlers so the access log
// line written by HTTPMiddleware can include them.
type requestAttrs struct {
	mu   sync.Mutex
	args []any
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// With returns a context whose logger carries the extra attributes. When the
// context belongs to a request wrapped by HTTPMiddleware the attributes are
// also recorded on the access log line.
func With(ctx context.Context, args ...any) context.Context {
	if ra, ok := ctx.Value(requestAttrsKey{}).(*requestAttrs); ok {
		ra.mu.Lock()
		ra.args = append(ra.args, args...)
		ra.mu.Unlock()
	}
	return WithContext(ctx, FromContext(ctx).With(args...))
}

func withRequestAttrs(ctx context.Context) (context.Context, *requestAttrs) {
	ra := &requestAttrs{}
	return context.WithValue(ctx, requestAttrsKey{}, ra), ra
}

func (ra *requestAttrs) snapshot() []any {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	return append([]any(nil), ra.args...)
}
