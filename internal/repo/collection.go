// Package repo implements the list and task repositories over a storage
// provider. Each repository keeps its whole collection under one key and
// performs every mutation as read-modify-write of that collection.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskcal/internal/service"
	"taskcal/internal/storage"
)

var (
	// ErrDuplicateID is returned when adding an entity whose id is taken.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownList is returned when a task references a list that does not exist.
	ErrUnknownList = errors.New("unknown list")
)

// IsRejected reports whether err means the input was refused rather than
// the backing failing.
func IsRejected(err error) bool {
	return errors.Is(err, ErrDuplicateID) || errors.Is(err, ErrUnknownList) || service.IsValidation(err)
}

// collection is a JSON array of T persisted under key.
// mu serialises read-modify-write cycles so that concurrent mutations of
// the same key cannot lose each other's updates.
type collection[T any] struct {
	mu  sync.Mutex
	p   storage.Provider
	key string
	id  func(T) string
}

func newCollection[T any](p storage.Provider, key string, id func(T) string) *collection[T] {
	return &collection[T]{p: p, key: key, id: id}
}

// load reads the collection. Callers that mutate must hold mu.
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	items, err := storage.Get(ctx, c.p, c.key, []T{})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *collection[T]) indexOf(items []T, id string) int {
	for i, it := range items {
		if c.id(it) == id {
			return i
		}
	}
	return -1
}

// add appends item. check, when non-nil, runs inside the critical section
// before anything is read and may veto the write.
func (c *collection[T]) add(ctx context.Context, item T, check func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if check != nil {
		if err := check(); err != nil {
			return err
		}
	}
	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	if c.indexOf(items, c.id(item)) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.id(item))
	}
	return storage.Set(ctx, c.p, c.key, append(items, item))
}

// update replaces the item with the same id. check, when non-nil, sees the
// stored item first and may veto the write. A missing id is a no-op.
func (c *collection[T]) update(ctx context.Context, item T, check func(old T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	idx := c.indexOf(items, c.id(item))
	if idx < 0 {
		return nil
	}
	if check != nil {
		if err := check(items[idx]); err != nil {
			return err
		}
	}
	items[idx] = item
	return storage.Set(ctx, c.p, c.key, items)
}

// modify replaces the item with id by fn's result and returns it. found is
// false, and nothing is written, when no item has id.
func (c *collection[T]) modify(ctx context.Context, id string, fn func(T) (T, error)) (item T, found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return item, false, err
	}
	idx := c.indexOf(items, id)
	if idx < 0 {
		return item, false, nil
	}
	item, err = fn(items[idx])
	if err != nil {
		return item, true, err
	}
	items[idx] = item
	return item, true, storage.Set(ctx, c.p, c.key, items)
}

// removeWhere drops every item for which drop is true and persists the result
// only when something was removed. It returns the number removed.
func (c *collection[T]) removeWhere(ctx context.Context, drop func(T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, storage.Set(ctx, c.p, c.key, kept)
}

func (c *collection[T]) remove(ctx context.Context, id string) error {
	_, err := c.removeWhere(ctx, func(it T) bool { return c.id(it) == id })
	return err
}
