package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		codes       []int
		wantStatus  int
		wantWritten bool
	}{
		{name: "nothing written defaults to 200", wantStatus: http.StatusOK},
		{name: "created", codes: []int{http.StatusCreated}, wantStatus: http.StatusCreated, wantWritten: true},
		{name: "first final status wins", codes: []int{http.StatusConflict, http.StatusOK}, wantStatus: http.StatusConflict, wantWritten: true},
		{name: "early hints then final", codes: []int{http.StatusEarlyHints, http.StatusUnprocessableEntity}, wantStatus: http.StatusUnprocessableEntity, wantWritten: true},
		{name: "early hints alone is not final", codes: []int{http.StatusEarlyHints}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rw := newResponseWriter(httptest.NewRecorder())
			for _, code := range tt.codes {
				rw.WriteHeader(code)
			}

			if rw.statusCode != tt.wantStatus {
				t.Errorf("statusCode = %d, want %d", rw.statusCode, tt.wantStatus)
			}
			if rw.headerWritten != tt.wantWritten {
				t.Errorf("headerWritten = %v, want %v", rw.headerWritten, tt.wantWritten)
			}
		})
	}
}

func TestResponseWriter_WriteCountsBytes(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	for _, chunk := range []string{`{"id":`, `"lead-1"}`} {
		if _, err := rw.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if rw.written != 15 {
		t.Errorf("written = %d, want 15", rw.written)
	}
	if !rw.headerWritten {
		t.Error("headerWritten = false after Write, want true")
	}
	if rec.Body.String() != `{"id":"lead-1"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestResponseWriter_Flush(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	var w http.ResponseWriter = rw
	f, ok := w.(http.Flusher)
	if !ok {
		t.Fatal("responseWriter does not implement http.Flusher")
	}
	f.Flush()

	if !rec.Flushed {
		t.Error("underlying recorder was not flushed")
	}
	if !rw.headerWritten {
		t.Error("headerWritten = false after Flush, want true")
	}
}

func TestResponseWriter_Unwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the underlying writer")
	}
	if err := http.NewResponseController(rw).Flush(); err != nil {
		t.Errorf("ResponseController.Flush() error = %v", err)
	}
}
