package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
)

// errInternalServer is what clients see for a recovered panic. The panic
// value and stack only go to the log.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a handler panic into a 500 problem
// response and an ERROR log carrying the stack, the request ID and the actor
// that made the call. Nothing is written if the handler already sent
// headers. http.ErrAbortHandler is re-raised untouched so net/http can abort
// the connection quietly.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("panic_type", fmt.Sprintf("%T", v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					// RequestID runs inside Recovery but writes its header on rw.
					slog.String("request_id", rw.Header().Get(headerRequestID)),
					slog.String("actor_id", r.Header.Get(HeaderActorID)),
				)

				if !rw.headerWritten {
					dto.WriteErrorResponse(rw, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
