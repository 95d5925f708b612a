package wrap

import (
	"context"
	"errors"
)

// Error wraps err with the LogCtx of ctx. An error that already carries a
// LogCtx gets the newer context while keeping its chain.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		return &errorWithLogCtx{
			err:    err,
			logCtx: mergeLogCtx(FromContext(ctx), e.logCtx),
		}
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}

// mergeLogCtx prefers values from outer and fills the gaps from inner.
func mergeLogCtx(outer, inner LogCtx) LogCtx {
	if outer.Action == "" {
		outer.Action = inner.Action
	}
	if outer.RequestID == "" {
		outer.RequestID = inner.RequestID
	}
	if outer.PredictionID == "" {
		outer.PredictionID = inner.PredictionID
	}
	if outer.Subject == "" {
		outer.Subject = inner.Subject
	}
	return outer
}
