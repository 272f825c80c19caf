package repository

import (
	"context"
	"errors"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// Storage is a flat key/value store for JSON records, the server-side
// equivalent of browser local storage.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// Update replaces the value at key with fn's result. No other write to
	// key lands between the read and the write. A missing key returns
	// ErrKeyNotFound without calling fn.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

type memoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStorage() Storage {
	return &memoryStorage{items: make(map[string][]byte)}
}

func (s *memoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *memoryStorage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *memoryStorage) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[key]
	if !ok {
		return ErrKeyNotFound
	}
	next, err := fn(append([]byte(nil), current...))
	if err != nil {
		return err
	}
	s.items[key] = append([]byte(nil), next...)
	return nil
}
