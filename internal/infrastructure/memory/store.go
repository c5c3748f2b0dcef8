// Package memory is an in-process key-value store for local development and
// tests. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phone-token-service/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	gets    int
	puts    int
}

func NewStore() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Name() string { return "memory://" }

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	body, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("memory get %s: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), body...), nil
}

func (s *Store) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	s.objects[key] = append([]byte(nil), body...)
	return nil
}

// Counts returns the number of Get and Put calls served so far.
func (s *Store) Counts() (gets, puts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets, s.puts
}

// Keys returns the number of stored records.
func (s *Store) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
