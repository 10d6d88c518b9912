// Package views keeps the on-screen record list of a CRUD page in step with
// the remote API.
package views

import (
	"context"
	"fmt"
	"sync"

	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/notify"
)

// Record is anything with a stable identifier
type Record interface {
	ID() string
}

// Backend is the subset of a resource module a list view needs
type Backend[T Record, C, U any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, data C) (*T, error)
	Update(ctx context.Context, id string, data U) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Labels name the resource in the per-operation failure messages
type Labels struct {
	Singular string
	Plural   string
}

// ListView is the local list behind a table. Failed operations show a second,
// operation-specific message and leave the list as it was.
type ListView[T Record, C, U any] struct {
	backend  Backend[T, C, U]
	notifier notify.Notifier
	labels   Labels

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// NewListView creates an empty ListView
func NewListView[T Record, C, U any](backend Backend[T, C, U], notifier notify.Notifier, labels Labels) *ListView[T, C, U] {
	return &ListView[T, C, U]{
		backend:  backend,
		notifier: notifier,
		labels:   labels,
		items:    []T{},
	}
}

// Items returns a copy of the current list
func (v *ListView[T, C, U]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// Len returns the number of records shown
func (v *ListView[T, C, U]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Loaded reports whether a Load has succeeded
func (v *ListView[T, C, U]) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Find returns the record with id
func (v *ListView[T, C, U]) Find(id string) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, item := range v.items {
		if item.ID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Load replaces the list with a fresh copy from the API
func (v *ListView[T, C, U]) Load(ctx context.Context) error {
	items, err := v.backend.List(ctx)
	if err != nil {
		return v.failed(ctx, "fetch "+v.labels.Plural, err)
	}

	v.mu.Lock()
	v.items = items
	v.loaded = true
	v.mu.Unlock()
	return nil
}

// Get fetches one record and refreshes its copy in the list, if shown
func (v *ListView[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	item, err := v.backend.Get(ctx, id)
	if err != nil {
		return nil, v.failed(ctx, "fetch "+v.labels.Singular, err)
	}

	v.mu.Lock()
	for i := range v.items {
		if v.items[i].ID() == id {
			v.items[i] = *item
			break
		}
	}
	v.mu.Unlock()
	return item, nil
}

// Create submits data and appends the returned record
func (v *ListView[T, C, U]) Create(ctx context.Context, data C) (*T, error) {
	created, err := v.backend.Create(ctx, data)
	if err != nil {
		return nil, v.failed(ctx, "create "+v.labels.Singular, err)
	}

	v.mu.Lock()
	v.items = append(v.items, *created)
	v.mu.Unlock()
	return created, nil
}

// Update submits data for id and replaces the matching record
func (v *ListView[T, C, U]) Update(ctx context.Context, id string, data U) (*T, error) {
	updated, err := v.backend.Update(ctx, id, data)
	if err != nil {
		return nil, v.failed(ctx, "update "+v.labels.Singular, err)
	}

	v.mu.Lock()
	for i := range v.items {
		if v.items[i].ID() == id {
			v.items[i] = *updated
			break
		}
	}
	v.mu.Unlock()
	return updated, nil
}

// Delete removes id remotely and then locally
func (v *ListView[T, C, U]) Delete(ctx context.Context, id string) error {
	if err := v.backend.Delete(ctx, id); err != nil {
		return v.failed(ctx, "delete "+v.labels.Singular, err)
	}

	v.mu.Lock()
	kept := v.items[:0]
	for _, item := range v.items {
		if item.ID() != id {
			kept = append(kept, item)
		}
	}
	v.items = kept
	v.mu.Unlock()
	return nil
}

func (v *ListView[T, C, U]) failed(ctx context.Context, op string, err error) error {
	msg := fmt.Sprintf("Failed to %s", op)
	v.notifier.Error(msg)
	logger.WithContext(ctx).Debugf("%s: %v", msg, err)
	return err
}
