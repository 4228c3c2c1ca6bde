package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-social-frontend/credentials"
	"github.com/jrsteele09/go-social-frontend/credentials/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// setupTestFixture connects to REDIS_ADDR; the tests are skipped without it.
func setupTestFixture(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestStore(t *testing.T) {
	rdb := setupTestFixture(t)
	ctx := context.Background()

	t.Run("set get clear", func(t *testing.T) {
		s := redisstore.New(rdb, "test:creds", uuid.NewString())
		require.NoError(t, s.Set(ctx, "auth_token", "abc", time.Minute))

		v, err := s.Get(ctx, "auth_token")
		require.NoError(t, err)
		require.Equal(t, "abc", v)

		require.NoError(t, s.Clear(ctx, "auth_token"))
		_, err = s.Get(ctx, "auth_token")
		require.ErrorIs(t, err, credentials.ErrNotFound)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		a := redisstore.New(rdb, "test:creds", uuid.NewString())
		b := redisstore.New(rdb, "test:creds", uuid.NewString())
		require.NoError(t, a.Set(ctx, "refresh_token", "r1", time.Minute))

		_, err := b.Get(ctx, "refresh_token")
		require.ErrorIs(t, err, credentials.ErrNotFound)
		require.NoError(t, a.Clear(ctx, "refresh_token"))
	})

	t.Run("ttl is applied", func(t *testing.T) {
		sid := uuid.NewString()
		s := redisstore.New(rdb, "test:creds", sid)
		require.NoError(t, s.Set(ctx, "auth_token", "abc", time.Minute))

		ttl, err := rdb.TTL(ctx, "test:creds:"+sid+":auth_token").Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0))
		require.LessOrEqual(t, ttl, time.Minute)
		require.NoError(t, s.Clear(ctx, "auth_token"))
	})
}
