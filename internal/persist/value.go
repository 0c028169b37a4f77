// Package persist binds in-memory values to durable storage slots.
//
// A Value is write-through: Set updates memory first and then writes the
// JSON encoding to the store before returning. A failed write is reported
// but memory is not rolled back, so the two may disagree until the next
// successful Set.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c.mueller/todo-board/internal/storage"
)

// PersistenceError reports a failed read, decode, encode or write of a slot
type PersistenceError struct {
	Key string
	Op  string // "read", "decode", "encode", "write"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Value holds a T and mirrors every change into one store key
type Value[T any] struct {
	store   storage.Store
	key     string
	current T
}

// Bind loads key from store. When the key is absent, unreadable or does not
// decode into T, the value starts as defaultValue and the slot is seeded with it.
func Bind[T any](ctx context.Context, store storage.Store, key string, defaultValue T) *Value[T] {
	v := &Value[T]{store: store, key: key}

	loaded, err := v.load(ctx)
	if err == nil {
		v.current = loaded
		return v
	}

	if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Falling back to default value", "key", v.Key(), "error", err)
	}

	if err := v.Set(ctx, defaultValue); err != nil {
		slog.Warn("Failed to seed default value", "key", v.Key(), "error", err)
	}
	return v
}

func (v *Value[T]) load(ctx context.Context) (T, error) {
	var out T

	data, err := v.store.Get(ctx, v.key)
	if errors.Is(err, storage.ErrNotFound) {
		return out, err
	}
	if err != nil {
		return out, &PersistenceError{Key: v.key, Op: "read", Err: err}
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, &PersistenceError{Key: v.key, Op: "decode", Err: err}
	}
	return out, nil
}

// Key returns the store key this value is bound to
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the current in-memory value
func (v *Value[T]) Get() T {
	return v.current
}

// Set replaces the in-memory value and writes it through to the store
func (v *Value[T]) Set(ctx context.Context, newValue T) error {
	v.current = newValue

	data, err := json.Marshal(newValue)
	if err != nil {
		return &PersistenceError{Key: v.key, Op: "encode", Err: err}
	}

	if err := v.store.Set(ctx, v.key, data); err != nil {
		return &PersistenceError{Key: v.key, Op: "write", Err: err}
	}
	return nil
}
