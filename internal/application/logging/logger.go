package logging

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
)

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a discarding logger if not found
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discardLogger
}

// LoggingMiddleware logs every command/query with its duration.
// Failures are logged at error level, successes at debug.
func LoggingMiddleware(logger *slog.Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if logger == nil {
			return next(ctx, request)
		}

		name := RequestName(request)
		start := time.Now()

		response, err := next(WithLogger(ctx, logger.With("request", name)), request)

		elapsed := time.Since(start)
		if err != nil {
			logger.ErrorContext(ctx, "request failed", "request", name, "duration", elapsed, "error", err)
		} else {
			logger.DebugContext(ctx, "request handled", "request", name, "duration", elapsed)
		}
		return response, err
	}
}

// RequestName returns the bare type name of a request
// Example: "*queries.ClassifyOpportunitiesQuery" -> "ClassifyOpportunitiesQuery"
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if idx := strings.LastIndex(fullName, "."); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}
