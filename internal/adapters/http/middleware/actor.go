package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/app/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// HeaderActorID names the acting user. Authentication happens upstream;
// this service trusts the header.
const HeaderActorID = "X-Actor-ID"

type actorKey struct{}

// WithActor returns a new context carrying the acting actor.
func WithActor(ctx context.Context, a *actor.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor stored by the Actor middleware, or nil.
func ActorFromContext(ctx context.Context) *actor.Actor {
	a, _ := ctx.Value(actorKey{}).(*actor.Actor)
	return a
}

// Actor returns middleware that resolves the X-Actor-ID header through the
// directory and stores the actor in the request context. Missing, unknown
// and inactive actors are rejected with 403 before any handler runs. The
// client address and user agent are attached for the audit trail.
func Actor(dir ports.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderActorID))
			if id == "" {
				dto.WriteErrorResponse(w, r, fmt.Errorf("missing %s header: %w", HeaderActorID, domain.ErrForbidden))
				return
			}

			a, err := dir.Lookup(r.Context(), id)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				dto.WriteErrorResponse(w, r, fmt.Errorf("unknown actor %q: %w", id, domain.ErrForbidden))
				return
			case err != nil:
				dto.WriteErrorResponse(w, r, err)
				return
			case !a.IsActive():
				dto.WriteErrorResponse(w, r, fmt.Errorf("actor %q is inactive: %w", id, domain.ErrForbidden))
				return
			}

			ctx := WithActor(r.Context(), a)
			ctx = logging.With(ctx, slog.String("actor_role", a.Role.String()))
			ctx = audit.WithRequestMeta(ctx, audit.RequestMeta{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
