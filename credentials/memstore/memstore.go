package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-frontend/credentials"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ credentials.Store = (*Store)(nil)

type entry struct {
	value     string
	expiresAt time.Time
}

// Store is an in-process credentials.Store. Expired entries are dropped on read.
type Store struct {
	mu      sync.RWMutex
	secrets map[string]entry
}

func New() *Store {
	return &Store{
		secrets: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	e, ok := s.secrets[name]
	s.mu.RUnlock()
	if !ok {
		return "", credentials.ErrNotFound
	}

	if !e.expiresAt.IsZero() && !NowTimeFunc().Before(e.expiresAt) {
		s.mu.Lock()
		// Only drop the entry if nobody replaced it meanwhile
		if current, ok := s.secrets[name]; ok && current == e {
			delete(s.secrets, name)
		}
		s.mu.Unlock()
		return "", credentials.ErrNotFound
	}
	return e.value, nil
}

// Set stores value under name. A ttl of zero never expires.
func (s *Store) Set(_ context.Context, name, value string, ttl time.Duration) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if ttl < 0 {
		return fmt.Errorf("negative ttl for %q", name)
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = NowTimeFunc().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[name] = e
	return nil
}

// Clear removes name. Clearing an absent secret is not an error.
func (s *Store) Clear(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, name)
	return nil
}

// Len reports the number of stored entries, including expired ones not yet read.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.secrets)
}
