package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
)

// Chain composes middlewares so that the first one listed sees the request
// first: Chain(a, b)(h) is a(b(h)). Nil entries are skipped, which lets
// callers pass optional middleware inline.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for _, mw := range slices.Backward(middlewares) {
			if mw != nil {
				h = mw(h)
			}
		}
		return h
	}
}

// Default is the pipeline in front of every route, health endpoints included.
// Actor is left out; the router mounts it on /api/v1 only.
func Default(logger *slog.Logger, metrics *telemetry.Metrics, timeout time.Duration) func(http.Handler) http.Handler {
	return Chain(
		Recovery(logger),
		RequestID(),
		CorrelationID(),
		OpenTelemetry(metrics),
		Logging(logger),
		Timeout(timeout),
	)
}
