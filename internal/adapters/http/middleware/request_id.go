package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/salesflow/internal/adapters/broker"
)

const headerRequestID = "X-Request-ID"

// maxTraceIDLen bounds client-supplied request and correlation IDs.
const maxTraceIDLen = 128

// requestIDKey is the context key for request IDs. The broker keeps its own
// key so it never imports the HTTP layer.
type requestIDKey struct{}

// WithRequestID stores id in the context for handlers and, through
// broker.WithRequestID, for the headers of events published while serving
// the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	return broker.WithRequestID(ctx, id)
}

// RequestIDFromContext returns the request ID, or "" if none is stored.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID returns middleware that assigns every request an X-Request-ID.
// A well-formed incoming header is kept; anything else is replaced with a
// fresh UUID, because the value ends up in logs and AMQP headers.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if !validTraceID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

// validTraceID accepts non-empty IDs of at most maxTraceIDLen characters
// drawn from letters, digits and ". _ : -".
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for i := range len(id) {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == ':', c == '-':
		default:
			return false
		}
	}
	return true
}
