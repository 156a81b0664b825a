package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/salesflow/internal/adapters/broker"
	adapthttp "github.com/jsamuelsen11/salesflow/internal/adapters/http"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/adapters/store/memory"
	"github.com/jsamuelsen11/salesflow/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/salesflow/internal/app/assignment"
	appaudit "github.com/jsamuelsen11/salesflow/internal/app/audit"
	"github.com/jsamuelsen11/salesflow/internal/app/authz"
	"github.com/jsamuelsen11/salesflow/internal/app/eventbus"
	"github.com/jsamuelsen11/salesflow/internal/app/workflow"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/platform/config"
	"github.com/jsamuelsen11/salesflow/internal/platform/health"
	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Subscriber names on the event bus.
const (
	subscriberCascade = "project-cascade"
	subscriberRelay   = "broker-relay"
)

// readinessCheckTimeout bounds each dependency check behind /health/ready.
const readinessCheckTimeout = 2 * time.Second

// stores is the driver-independent view of the document store.
type stores struct {
	actors ports.ActorRepository
	repos  workflow.Repositories
	events ports.EventStore
	audit  ports.AuditStore

	// checker is nil when the driver has nothing to check.
	checker ports.HealthChecker
	close   func() error
}

func openStores(ctx context.Context, cfg *config.StoreConfig) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			actors: s.Actors,
			repos: workflow.Repositories{
				Leads:         s.Leads,
				Accounts:      s.Accounts,
				Contacts:      s.Contacts,
				Opportunities: s.Opportunities,
				Projects:      s.Projects,
			},
			events:  s.Events,
			audit:   s.Audit,
			checker: s,
			close:   s.Close,
		}, nil
	case config.DriverMemory:
		s := memory.New()
		return &stores{
			actors: s.Actors,
			repos: workflow.Repositories{
				Leads:         s.Leads,
				Accounts:      s.Accounts,
				Contacts:      s.Contacts,
				Opportunities: s.Opportunities,
				Projects:      s.Projects,
			},
			events: s.Events,
			audit:  s.Audit,
			close:  func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// components are the long-lived resources closed on shutdown.
type components struct {
	bus    *eventbus.Bus
	conn   *broker.Conn
	stores *stores
}

func registerDependencies(ctx context.Context, injector *do.RootScope, cfg *config.Config) {
	do.Provide(injector, func(_ do.Injector) (*stores, error) {
		return openStores(ctx, &cfg.Store)
	})

	do.Provide(injector, func(i do.Injector) (*appaudit.Trail, error) {
		st := do.MustInvoke[*stores](i)
		return appaudit.New(st.audit, st.events), nil
	})

	do.Provide(injector, func(i do.Injector) (*eventbus.Bus, error) {
		trail := do.MustInvoke[*appaudit.Trail](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return eventbus.New(trail,
			eventbus.WithWorkers(cfg.EventBus.Workers),
			eventbus.WithQueueSize(cfg.EventBus.QueueSize),
			eventbus.WithHandlerTimeout(cfg.EventBus.HandlerTimeout),
			eventbus.WithMetrics(metrics),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*authz.Resolver, error) {
		st := do.MustInvoke[*stores](i)
		trail := do.MustInvoke[*appaudit.Trail](i)
		return authz.New(st.actors, trail), nil
	})

	do.Provide(injector, func(i do.Injector) (*assignment.Service, error) {
		st := do.MustInvoke[*stores](i)
		return assignment.New(st.actors, assignment.WithMaxAttempts(cfg.Assignment.MaxAttempts)), nil
	})

	do.Provide(injector, func(i do.Injector) (*workflow.Orchestrator, error) {
		st := do.MustInvoke[*stores](i)
		resolver := do.MustInvoke[*authz.Resolver](i)
		assigner := do.MustInvoke[*assignment.Service](i)
		trail := do.MustInvoke[*appaudit.Trail](i)
		bus := do.MustInvoke[*eventbus.Bus](i)
		return workflow.New(st.repos, resolver, assigner, trail, bus), nil
	})

	if cfg.Broker.Enabled {
		do.Provide(injector, func(_ do.Injector) (*broker.Conn, error) {
			return broker.Dial(&cfg.Broker)
		})

		do.Provide(injector, func(i do.Injector) (*broker.Relay, error) {
			conn := do.MustInvoke[*broker.Conn](i)
			metrics := do.MustInvoke[*telemetry.Metrics](i)
			logger := do.MustInvoke[*slog.Logger](i)
			return broker.New(conn.Channel(), &cfg.Broker, metrics, logger, broker.WithConnection(conn)), nil
		})
	}

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		registry := health.New(health.WithCheckTimeout(readinessCheckTimeout))
		if st := do.MustInvoke[*stores](i); st.checker != nil {
			registry.Register(st.checker)
		}
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.LeadHandler, error) {
		return handlers.NewLeadHandler(do.MustInvoke[*workflow.Orchestrator](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.OpportunityHandler, error) {
		return handlers.NewOpportunityHandler(do.MustInvoke[*workflow.Orchestrator](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ActorHandler, error) {
		resolver := do.MustInvoke[*authz.Resolver](i)
		return handlers.NewActorHandler(resolver, resolver), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		return handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		logger := do.MustInvoke[*slog.Logger](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(adapthttp.Handlers{
			Leads:         do.MustInvoke[*handlers.LeadHandler](i),
			Opportunities: do.MustInvoke[*handlers.OpportunityHandler](i),
			Actors:        do.MustInvoke[*handlers.ActorHandler](i),
			Health:        do.MustInvoke[*handlers.HealthHandler](i),
		},
			do.MustInvoke[*authz.Resolver](i),
			cfg.Server.CORSAllowedOrigins,
			middleware.Default(logger, metrics, cfg.Server.RequestTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// subscribe attaches the bus subscribers. It runs after the graph is wired
// and before the server starts accepting requests.
func subscribe(injector *do.RootScope, cfg *config.Config) (*components, error) {
	bus := do.MustInvoke[*eventbus.Bus](injector)
	orch := do.MustInvoke[*workflow.Orchestrator](injector)
	comps := &components{
		bus:    bus,
		stores: do.MustInvoke[*stores](injector),
	}

	bus.Subscribe(event.OpportunityWon, subscriberCascade, orch.OnOpportunityWon)

	if !cfg.Broker.Enabled {
		return comps, nil
	}

	relay, err := do.Invoke[*broker.Relay](injector)
	if err != nil {
		return comps, fmt.Errorf("connecting event relay: %w", err)
	}
	comps.conn = do.MustInvoke[*broker.Conn](injector)

	bus.SubscribeAll(subscriberRelay, relay.Handle)
	do.MustInvoke[ports.HealthRegistry](injector).Register(relay)

	return comps, nil
}
