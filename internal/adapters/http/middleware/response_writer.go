// Package middleware holds the inbound HTTP pipeline for the sales workflow
// API:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Actor → Handler
//
// Default assembles everything up to Timeout. The router mounts Actor on the
// /api/v1 group only, so health endpoints stay anonymous.
package middleware

import "net/http"

// responseWriter records the final status and body size for the recovery,
// tracing and logging middleware.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader forwards the first final status and drops any later ones.
// Informational 1xx codes (other than 101) pass straight through since a
// final status still follows them.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		rw.ResponseWriter.WriteHeader(code)
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Flush commits the status line if needed and flushes the underlying writer
// when it supports it.
func (rw *responseWriter) Flush() {
	rw.headerWritten = true
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
