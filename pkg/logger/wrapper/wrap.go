package wrap

import (
	"context"
)

// Error wraps an error with the current LogCtx from the context.
// Re-wrapping an error that is itself an errorWithLogCtx only refreshes its LogCtx.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c := LogCtx{}
	if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		c = x
	}

	if e, ok := err.(*errorWithLogCtx); ok {
		return &errorWithLogCtx{
			err:    e.err,
			logCtx: c,
		}
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: c,
	}
}
