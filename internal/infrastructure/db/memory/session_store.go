// Package memory holds in-process adapters used in development and tests.
package memory

import (
	"context"
	"sync"
)

// SessionStore is a ports.SessionStore that lives only as long as the process.
type SessionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{values: make(map[string]string)}
}

func (s *SessionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *SessionStore) Set(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.values[k] = v
	}
	return nil
}

func (s *SessionStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
