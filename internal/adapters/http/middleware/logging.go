package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

const redacted = "[REDACTED]"

// Logging returns middleware that writes a "request started" and a
// "request completed" line per request. The logger it uses carries
// request_id, correlation_id and, when claimed, actor_id; handlers get the
// same logger through logging.FromContext. Completion is logged at error for
// 5xx and warn for 4xx. At debug level the request headers are logged with
// credentials redacted.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(requestAttrsForLog(r)...)
			ctx := logging.WithLogger(r.Context(), reqLogger)

			reqLogger.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
			)
			if reqLogger.Enabled(ctx, slog.LevelDebug) {
				reqLogger.LogAttrs(ctx, slog.LevelDebug, "request headers", headerAttrs(r.Header)...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			reqLogger.LogAttrs(ctx, completionLevel(rw.statusCode), "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func requestAttrsForLog(r *http.Request) []any {
	ctx := r.Context()
	attrs := []any{
		slog.String("request_id", RequestIDFromContext(ctx)),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	}
	if actorID := r.Header.Get(HeaderActorID); actorID != "" {
		attrs = append(attrs, slog.String("actor_id", actorID))
	}
	return attrs
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// headerAttrs converts headers into log attributes, replacing credential
// carrying values. Multi-value headers are joined with a comma.
func headerAttrs(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		if logging.IsSensitiveHeader(key) {
			attrs = append(attrs, slog.String(key, redacted))
			continue
		}
		attrs = append(attrs, slog.String(key, strings.Join(vals, ",")))
	}
	return attrs
}
