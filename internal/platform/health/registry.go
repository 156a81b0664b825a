// Package health keeps the set of downstream dependencies the readiness
// endpoint checks: the document store and, when enabled, the broker relay.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout bounds each individual check. Zero leaves only the
// caller's deadline in force.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.checkTimeout = d
		}
	}
}

// Registry implements [ports.HealthRegistry]. Checkers are keyed by name;
// registering a second checker under the same name replaces the first.
type Registry struct {
	checkTimeout time.Duration

	mu       sync.RWMutex
	checkers map[string]ports.HealthChecker
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{checkers: make(map[string]ports.HealthChecker)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a checker. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	name := checker.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// CheckAll runs every registered check concurrently and returns the results
// keyed by checker name. A nil value means healthy. A checker that panics is
// reported as unhealthy instead of taking the readiness check down with it.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make(map[string]ports.HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(checkers))
	)
	for name, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.check(ctx, c)

			mu.Lock()
			results[name] = err
			mu.Unlock()
		}()
	}
	wg.Wait()

	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) (err error) {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}

	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("health check panicked: %v", v)
		}
	}()

	return c.HealthCheck(ctx)
}
