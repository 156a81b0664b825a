package middleware

import (
	"context"
	"net/http"

	"github.com/jsamuelsen11/salesflow/internal/adapters/broker"
)

const headerCorrelationID = "X-Correlation-ID"

type correlationIDKey struct{}

// WithCorrelationID stores id in the context. Relayed events use it as their
// AMQP correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, correlationIDKey{}, id)
	return broker.WithCorrelationID(ctx, id)
}

// CorrelationIDFromContext returns the correlation ID, or "" if none is
// stored.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// CorrelationID returns middleware that ties a request to the business flow
// it belongs to. A well-formed X-Correlation-ID header is kept; otherwise the
// request ID is used, so it must run after RequestID.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerCorrelationID)
			if !validTraceID(id) {
				id = RequestIDFromContext(r.Context())
			}
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set(headerCorrelationID, id)
			next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), id)))
		})
	}
}
