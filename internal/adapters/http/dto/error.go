package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// ErrorResponse is an RFC 9457 problem document. RequestID is an extension
// member so callers can quote it when reporting a failure.
type ErrorResponse struct {
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Status    int           `json:"status"`
	Detail    string        `json:"detail,omitempty"`
	Instance  string        `json:"instance,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Errors    []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one invalid field of a rejected request body.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// statusMappings is checked in order; the first match wins. ErrCycle and
// ErrInvalidStage need no entries of their own because they wrap
// ErrValidation and ErrInvalidTransition.
var statusMappings = []struct {
	target error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
	{domain.ErrUnavailable, http.StatusBadGateway},
}

// StatusFor maps an error from the workflow layer to its HTTP status.
// Anything unrecognized is a 500.
func StatusFor(err error) int {
	for _, m := range statusMappings {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the problem document for err. Client errors carry
// the error text as detail. Unmapped errors (500) carry only the status
// text so internal messages stay in the log.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := StatusFor(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}
	if status == http.StatusInternalServerError {
		resp.Detail = "the request could not be completed"
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationDetails(verr.Fields)
	}

	return resp
}

// WriteErrorResponse writes err as application/problem+json. The request ID
// set by the RequestID middleware is echoed in the body. Server-side
// failures are logged with the full error chain.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)
	resp.RequestID = w.Header().Get("X-Request-ID")

	logger := logging.FromContext(r.Context())
	if resp.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.Int("status", resp.Status),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.ErrorContext(r.Context(), "encoding problem response", slog.Any("error", encErr))
	}
}

func validationDetails(fields map[string]string) []ErrorDetail {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]ErrorDetail, 0, len(names))
	for _, name := range names {
		loc := "body"
		if name != "body" {
			loc += "." + name
		}
		details = append(details, ErrorDetail{Location: loc, Message: fields[name]})
	}
	return details
}
