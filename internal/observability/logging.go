// Package observability carries per-build logging context.
//
// Every cargo invocation gets a build id; it travels in the context so that
// records from the invoker, the event decoder and the resolver can be tied
// together when several test binaries build concurrently.
package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/testbin/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID string
	Binary  string
	Dir     string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// NewBuildID returns a fresh identifier for one build tool invocation.
func NewBuildID() string {
	return uuid.NewString()
}

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithBinary adds the requested binary and its source directory to the context.
func WithBinary(ctx context.Context, binary, dir string) context.Context {
	lc := extractLogContext(ctx)
	lc.Binary = binary
	lc.Dir = dir
	return context.WithValue(ctx, logContextKey, lc)
}

// StartBuild attaches a new build id unless the context already carries one.
func StartBuild(ctx context.Context) (context.Context, string) {
	if lc := extractLogContext(ctx); lc.BuildID != "" {
		return ctx, lc.BuildID
	}
	id := NewBuildID()
	return WithBuildID(ctx, id), id
}

// extractLogContext retrieves or creates a LogContext from the context.
func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// getLogAttrs returns slog attributes from the context's LogContext.
func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Binary != "" {
		attrs = append(attrs, logfields.Binary(lc.Binary))
	}
	if lc.Dir != "" {
		attrs = append(attrs, logfields.Dir(lc.Dir))
	}

	return attrs
}

// Logger returns base decorated with the context's build attributes.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := getLogAttrs(ctx)
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return base.With(args...)
}
