package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// table is a versioned collection of documents keyed by ID. Every document
// that enters or leaves the table is cloned so callers never share memory
// with stored state.
type table[T any] struct {
	kind    string
	id      func(*T) string
	version func(*T) *int
	clone   func(*T) *T

	// guard, when set, runs under the write lock before insert and update
	// to enforce cross-document constraints.
	guard func(rows map[string]*T, v *T) error

	mu   sync.RWMutex
	rows map[string]*T
}

func newTable[T any](kind string, id func(*T) string, version func(*T) *int, clone func(*T) *T) *table[T] {
	return &table[T]{
		kind:    kind,
		id:      id,
		version: version,
		clone:   clone,
		rows:    make(map[string]*T),
	}
}

func (t *table[T]) notFound(id string) error {
	return fmt.Errorf("%s %q: %w", t.kind, id, domain.ErrNotFound)
}

func (t *table[T]) insert(v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(v)
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("%s %q already exists: %w", t.kind, id, domain.ErrConflict)
	}
	if t.guard != nil {
		if err := t.guard(t.rows, v); err != nil {
			return err
		}
	}

	*t.version(v) = 1
	t.rows[id] = t.clone(v)
	return nil
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, t.notFound(id)
	}
	return t.clone(row), nil
}

func (t *table[T]) update(v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(v)
	stored, ok := t.rows[id]
	if !ok {
		return t.notFound(id)
	}
	if got, want := *t.version(v), *t.version(stored); got != want {
		return fmt.Errorf("%s %q version %d, stored %d: %w", t.kind, id, got, want, domain.ErrConflict)
	}
	if t.guard != nil {
		if err := t.guard(t.rows, v); err != nil {
			return err
		}
	}

	*t.version(v)++
	t.rows[id] = t.clone(v)
	return nil
}

// mutate applies fn to the stored document under the write lock. The version
// is bumped when fn succeeds.
func (t *table[T]) mutate(id string, fn func(*T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, ok := t.rows[id]
	if !ok {
		return t.notFound(id)
	}
	next := t.clone(stored)
	if err := fn(next); err != nil {
		return err
	}
	*t.version(next)++
	t.rows[id] = next
	return nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound(id)
	}
	delete(t.rows, id)
	return nil
}

// list returns clones of the documents accepted by match, ordered by ID.
func (t *table[T]) list(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, *t.clone(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return t.id(&out[i]) < t.id(&out[j]) })
	return out
}
