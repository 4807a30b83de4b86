package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when no value exists under the key.
// Callers that treat a missing collection as empty should check for it
// with errors.Is.
var ErrKeyNotFound = errors.New("key not found")

// Store is the generic record store the core persists through: JSON blobs
// under string keys. Backends must not interpret the value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StoreError wraps a backend failure so callers can distinguish persistence
// faults from domain errors.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a store failure. Repositories use it when a
// persisted collection fails to decode, so serialization faults surface the
// same way backend faults do.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

func newStoreError(op, key string, err error) *StoreError {
	return NewStoreError(op, key, err)
}
