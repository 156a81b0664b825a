package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

var (
	testRep   = &actor.Actor{ID: "rep1", Name: "Rep One", Role: actor.RoleSalesRep, Status: actor.StatusActive, ManagerID: "mgr"}
	testAdmin = &actor.Actor{ID: "admin", Name: "Admin", Role: actor.RoleAdmin, Status: actor.StatusActive}
)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newRequest builds a request acting as a, with optional {id} param and body.
func newRequest(t *testing.T, method, target string, a *actor.Actor, id string, body any) *http.Request {
	t.Helper()

	var rd io.Reader = http.NoBody
	if body != nil {
		rd = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if a != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), a))
	}
	if id != "" {
		req = withChiParams(req, map[string]string{"id": id})
	}
	return req
}

func validLead() lead.Lead {
	return lead.Lead{
		ID:        "lead-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Company:   "Analytical Engines",
		Status:    lead.StatusNew,
		OwnerID:   "rep1",
		Version:   1,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
