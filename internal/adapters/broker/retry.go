package broker

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// publishWithRetry publishes msg, retrying transient failures with
// exponential backoff and ±25% jitter. Each attempt gets its own publish
// timeout when one is configured.
func (r *Relay) publishWithRetry(ctx context.Context, key string, msg amqp.Publishing) error {
	if r.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("broker: maxAttempts must be >= 1, got %d", r.retryCfg.maxAttempts)
	}

	var lastErr error

	for attempt := range r.retryCfg.maxAttempts {
		if attempt > 0 {
			if err := r.waitForRetry(ctx, key, attempt, lastErr); err != nil {
				return err
			}
		}

		lastErr = r.publishOnce(ctx, key, msg)
		if lastErr == nil {
			return nil
		}
		// A per-attempt timeout is retryable while the caller's context lives.
		attemptTimedOut := errors.Is(lastErr, context.DeadlineExceeded) && ctx.Err() == nil
		if !attemptTimedOut && !isRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func (r *Relay) publishOnce(ctx context.Context, key string, msg amqp.Publishing) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.pub.PublishWithContext(ctx, r.exchange, key, false, false, msg)
}

// waitForRetry calculates the backoff delay, logs the retry attempt at WARN
// level, and waits for the delay or context cancellation.
func (r *Relay) waitForRetry(ctx context.Context, key string, attempt int, lastErr error) error {
	delay := backoff(attempt, r.retryCfg)

	logging.FromContext(ctx).WarnContext(ctx, "retrying broker publish",
		slog.String("operation", "Relay.Handle"),
		slog.String("exchange", r.exchange),
		slog.String("routing_key", key),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", r.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// backoff calculates the delay for a given retry attempt using exponential
// backoff with ±25% jitter. The attempt parameter is 1-indexed (attempt 1 is
// the first retry).
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))

	if delay > float64(cfg.maxInterval) {
		delay = float64(cfg.maxInterval)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

// isRetryable determines whether a publish error is worth another attempt.
// Context cancellation is final. AMQP errors carry their own verdict in
// Recover; a closed channel or connection is not recoverable in place.
// Other errors default to retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		return amqpErr.Recover
	}

	return true
}
