package store

import (
	"context"
	"sync"
)

// MemStore is an in-process backend used by tests and local development.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailNext makes the next operation fail with the given error, so
	// tests can exercise store-failure paths.
	FailNext error
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, newStoreError("get", key, err)
	}

	val, ok := s.data[key]
	if !ok {
		return nil, newStoreError("get", key, ErrKeyNotFound)
	}

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *MemStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return newStoreError("set", key, err)
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return newStoreError("delete", key, err)
	}

	delete(s.data, key)
	return nil
}
