package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx carries the LogCtx that was active where the error was produced.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// ErrorCtx restores the LogCtx attached to err onto ctx, so a log line written far from
// the failure still names the action, srcode and record where it happened.
func ErrorCtx(ctx context.Context, err error) context.Context {
	if lc, ok := LogCtxOf(err); ok {
		return context.WithValue(ctx, LogCtxKey, lc)
	}
	return ctx
}

// LogCtxOf returns the outermost LogCtx attached to err.
func LogCtxOf(err error) (LogCtx, bool) {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return e.logCtx, true
	}
	return LogCtx{}, false
}
