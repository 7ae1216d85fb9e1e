package supersig

import (
	"context"
	"strconv"

	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the height and logger of an operation from the host to
// the engine and the dispatched handlers. Extensions add their own keys,
// each with a WithXYZ setter and a GetXYZ getter.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyLogger
)

// DefaultLogger is returned by GetLogger when no logger was set.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the height the host assigned to the operation. It
// panics when the height is already set, so a handler cannot move an
// operation to another height.
func WithHeight(ctx Context, height int64) Context {
	if h, ok := GetHeight(ctx); ok {
		panic("height already set to " + strconv.FormatInt(h, 10))
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the height of the operation, if set.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(contextKeyHeight).(int64)
	return h, ok
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo returns a context whose logger adds keyvals to every entry.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger returns the logger of the context or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}
