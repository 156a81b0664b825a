package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// Timeout bounds each request. The handler runs against a buffered writer on
// its own goroutine with a context carrying the deadline, so store calls and
// aggregate lock waits give up with it. If the deadline passes first the
// client gets a 504 problem response and anything the handler writes later
// is discarded. A handler panic is re-raised on the serving goroutine for
// Recovery. A non-positive timeout disables the middleware.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			tw := newTimeoutWriter(w)
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case v := <-panicked:
				panic(v)
			case <-done:
				tw.commit()
			case <-ctx.Done():
				tw.abandon()
				logging.FromContext(ctx).WarnContext(ctx, "request deadline exceeded",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", timeout),
				)
				dto.WriteErrorResponse(w, r, fmt.Errorf("request exceeded %s: %w", timeout, context.DeadlineExceeded))
			}
		})
	}
}

// timeoutWriter holds the handler's response until Timeout decides whether
// to send it. The header starts as a copy of the outer header so values set
// by earlier middleware (X-Request-ID) are visible to the handler.
type timeoutWriter struct {
	w http.ResponseWriter

	mu          sync.Mutex
	header      http.Header
	body        []byte
	status      int
	wroteHeader bool
	abandoned   bool
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, header: w.Header().Clone(), status: http.StatusOK}
}

// Header is only safe to mutate from the handler goroutine; commit reads it
// after the handler has returned.
func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.wroteHeader || tw.abandoned {
		return
	}
	tw.status = code
	tw.wroteHeader = true
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	tw.wroteHeader = true
	tw.body = append(tw.body, b...)
	return len(b), nil
}

// commit sends the buffered response. Called once the handler returned.
func (tw *timeoutWriter) commit() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	maps.Copy(tw.w.Header(), tw.header)
	if tw.wroteHeader {
		tw.w.WriteHeader(tw.status)
	}
	if len(tw.body) > 0 {
		_, _ = tw.w.Write(tw.body)
	}
}

// abandon makes later handler writes fail with http.ErrHandlerTimeout.
func (tw *timeoutWriter) abandon() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.abandoned = true
}
