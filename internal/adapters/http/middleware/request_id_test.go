package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		wantKept bool
	}{
		{name: "no header generates uuid", incoming: "", wantKept: false},
		{name: "plain id is kept", incoming: "incoming-123", wantKept: true},
		{name: "dotted and colon id is kept", incoming: "lb:edge.7_abc", wantKept: true},
		{name: "spaces are replaced", incoming: "has space", wantKept: false},
		{name: "newline injection is replaced", incoming: "abc\r\nX-Evil: 1", wantKept: false},
		{name: "overlong id is replaced", incoming: strings.Repeat("a", 129), wantKept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotID string
			handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotID = middleware.RequestIDFromContext(r.Context())
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", http.NoBody)
			if tt.incoming != "" {
				req.Header[http.CanonicalHeaderKey("X-Request-ID")] = []string{tt.incoming}
			}
			handler.ServeHTTP(rec, req)

			if tt.wantKept {
				if gotID != tt.incoming {
					t.Errorf("RequestIDFromContext = %q, want %q", gotID, tt.incoming)
				}
			} else if !uuidPattern.MatchString(gotID) {
				t.Errorf("RequestIDFromContext = %q, want a generated UUID v4", gotID)
			}
			if respID := rec.Header().Get("X-Request-ID"); respID != gotID {
				t.Errorf("response X-Request-ID = %q, want %q", respID, gotID)
			}
		})
	}
}

func TestRequestID_UniquenessAcrossRequests(t *testing.T) {
	t.Parallel()

	ids := make(map[string]bool)
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ids[middleware.RequestIDFromContext(r.Context())] = true
	}))

	for range 50 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))
	}

	if len(ids) != 50 {
		t.Errorf("unique IDs = %d, want 50", len(ids))
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	if id := middleware.RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty string", id)
	}

	ctx := middleware.WithRequestID(context.Background(), "req-7")
	if got := middleware.RequestIDFromContext(ctx); got != "req-7" {
		t.Errorf("RequestIDFromContext = %q, want %q", got, "req-7")
	}
}
