package services

import "context"

type contextKey string

const (
	passKey   contextKey = "pass"
	sourceKey contextKey = "source"
	runIDKey  contextKey = "run_id"
)

// WithPass annotates context with the active pass name ("find" or "split").
func WithPass(ctx context.Context, pass string) context.Context {
	if pass == "" {
		return ctx
	}
	return context.WithValue(ctx, passKey, pass)
}

// PassFromContext returns the pass name if present.
func PassFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(passKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSource annotates context with the source audio file being processed.
func WithSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromContext returns the source file path if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(sourceKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with a per-invocation correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
