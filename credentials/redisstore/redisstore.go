// Package redisstore keeps credentials in redis under a per-browser session id.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-social-frontend/credentials"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "social:creds"

var _ credentials.Store = (*Store)(nil)

// Store is a credentials.Store scoped to one session id.
type Store struct {
	rdb       redis.Cmdable
	prefix    string
	sessionID string
}

// New returns a store for sessionID. An empty prefix uses "social:creds".
func New(rdb redis.Cmdable, prefix, sessionID string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, sessionID: sessionID}
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.sessionID, name)
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	v, err := s.rdb.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", credentials.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", name, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(name), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, name string) error {
	if err := s.rdb.Del(ctx, s.key(name)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", name, err)
	}
	return nil
}
