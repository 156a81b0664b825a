// Package logging builds the service's slog logger and carries it through
// request and event-dispatch contexts.
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr,
//	    slog.String("service", cfg.Telemetry.ServiceName))
//	ctx = logging.WithLogger(ctx, logger)
//	ctx = logging.With(ctx, slog.String("lead_id", id))
//	logging.FromContext(ctx).InfoContext(ctx, "lead converted")
//
// Workflow errors are logged with the operation name, the entity IDs
// involved and slog.Any("error", err). Inside an HTTP request the context
// logger already carries request_id, correlation_id and actor_id.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey struct{}

// New returns a logger writing JSON (or logfmt text when format is "text")
// to w. level accepts slog level names in any case, including offsets such
// as "info+2", plus "warning"; anything else means info. Debug loggers
// include the source location. attrs are attached to every record.
func New(level, format string, w io.Writer, attrs ...slog.Attr) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// With returns a context whose logger is the current context logger
// extended with args.
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

func parseLevel(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
