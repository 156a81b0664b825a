package ports

import "context"

// HealthChecker is a dependency checked by the readiness endpoint. The
// postgres store and the RabbitMQ relay implement it.
type HealthChecker interface {
	// Name keys the result in the readiness response, e.g. "postgres".
	Name() string

	// HealthCheck returns nil when the dependency is usable. It must give
	// up once ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry holds the checkers behind /health/ready.
type HealthRegistry interface {
	// Register adds checker, replacing any earlier checker with the same
	// name.
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns the outcome by name. A nil
	// value means healthy.
	CheckAll(ctx context.Context) map[string]error
}
