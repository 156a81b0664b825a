package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// pathID extracts a non-empty string path parameter from the chi URL params.
func pathID(r *http.Request, param string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, param))
	if id == "" {
		return "", domain.NewValidationError(param, domain.MsgRequired)
	}
	return id, nil
}

// requestActor returns the actor resolved by the Actor middleware. Routes
// mounted without it fail closed.
func requestActor(r *http.Request) (*actor.Actor, error) {
	a := middleware.ActorFromContext(r.Context())
	if a == nil {
		return nil, fmt.Errorf("no acting actor on request: %w", domain.ErrForbidden)
	}
	return a, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.Any("error", err),
		)
	}
}

// maxJSONBodyBytes caps JSON request bodies at 1 MB.
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes exactly one JSON value from the request body into
// dst, rejecting unknown fields. On failure it writes a 400 problem response
// naming the "body" field and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("body", bodyErrorMessage(err)))
		return false
	}
	return true
}

var errTrailingData = errors.New("unexpected data after the JSON value")

func bodyErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	default:
		return "invalid JSON: " + err.Error()
	}
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

// actorAndID resolves the acting actor and the {id} path parameter. On
// failure it writes the error response and returns false.
func actorAndID(w http.ResponseWriter, r *http.Request) (*actor.Actor, string, bool) {
	a, err := requestActor(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return nil, "", false
	}
	id, err := pathID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return nil, "", false
	}
	return a, id, true
}
