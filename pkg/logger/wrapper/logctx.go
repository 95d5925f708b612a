package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action       string
		RequestID    string
		PredictionID string
		Subject      string
	}

	// logCtxKeyStruct is an unexported type for context keys defined in this package.
	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// FromContext returns the LogCtx stored in ctx, or an empty one.
func FromContext(ctx context.Context) LogCtx {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		return lc
	}
	return LogCtx{}
}

// WithLogCtx returns a new context with the provided LogCtx merged over the existing one
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		if newLc.Action == "" {
			newLc.Action = lc.Action
		}
		if newLc.RequestID == "" {
			newLc.RequestID = lc.RequestID
		}
		if newLc.PredictionID == "" {
			newLc.PredictionID = lc.PredictionID
		}
		if newLc.Subject == "" {
			newLc.Subject = lc.Subject
		}
	}
	return context.WithValue(ctx, LogCtxKey, newLc)
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := FromContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithPredictionID adds or updates the PredictionID in the LogCtx within the context
func WithPredictionID(ctx context.Context, predictionID string) context.Context {
	lc := FromContext(ctx)
	lc.PredictionID = predictionID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithSubject adds or updates the authenticated token subject
func WithSubject(ctx context.Context, subject string) context.Context {
	lc := FromContext(ctx)
	lc.Subject = subject
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc := FromContext(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}
