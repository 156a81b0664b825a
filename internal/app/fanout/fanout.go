// Package fanout runs one function over a slice of items on a bounded pool
// of goroutines. The event bus uses it to run every subscriber of an event
// side by side.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// ErrPanic wraps a panic recovered from fn. The message carries the panic
// value and stack.
var ErrPanic = errors.New("fanout: panic")

// Option tunes Each.
type Option func(*options)

type options struct {
	limit       int
	itemTimeout time.Duration
}

// WithLimit caps the number of concurrent calls. The default runs every item
// at once.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithItemTimeout bounds each call with its own deadline.
func WithItemTimeout(d time.Duration) Option {
	return func(o *options) { o.itemTimeout = d }
}

// Each calls fn once per item and returns one error per item, in item
// order; nil means success. Items not yet started when ctx is done get
// ctx.Err() and fn is not called for them. A panicking call yields an error
// wrapping ErrPanic and leaves the other items alone. Each returns once every
// started call has returned.
func Each[T any](ctx context.Context, items []T, fn func(context.Context, T) error, opts ...Option) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}

	o := options{limit: len(items)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limit < 1 || o.limit > len(items) {
		o.limit = len(items)
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for range o.limit {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				errs[i] = call(ctx, items[i], fn, o.itemTimeout)
			}
		}()
	}

feed:
	for i := range items {
		if err := ctx.Err(); err != nil {
			skip(errs[i:], err)
			break
		}
		select {
		case next <- i:
		case <-ctx.Done():
			skip(errs[i:], ctx.Err())
			break feed
		}
	}
	close(next)
	wg.Wait()

	return errs
}

func call[T any](ctx context.Context, item T, fn func(context.Context, T) error, timeout time.Duration) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
		}
	}()

	return fn(ctx, item)
}

func skip(errs []error, err error) {
	for i := range errs {
		errs[i] = err
	}
}
