package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-frontend/credentials"
	"github.com/jrsteele09/go-social-frontend/credentials/memstore"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set get clear", func(t *testing.T) {
		s := memstore.New()
		require.NoError(t, s.Set(ctx, "auth_token", "abc", time.Hour))

		v, err := s.Get(ctx, "auth_token")
		require.NoError(t, err)
		require.Equal(t, "abc", v)

		require.NoError(t, s.Clear(ctx, "auth_token"))
		_, err = s.Get(ctx, "auth_token")
		require.ErrorIs(t, err, credentials.ErrNotFound)

		require.NoError(t, s.Clear(ctx, "auth_token"))
	})

	t.Run("entries expire", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		memstore.NowTimeFunc = func() time.Time { return now }
		t.Cleanup(func() { memstore.NowTimeFunc = time.Now })

		s := memstore.New()
		require.NoError(t, s.Set(ctx, "auth_token", "abc", time.Minute))
		require.NoError(t, s.Set(ctx, "refresh_token", "def", 0))

		now = now.Add(time.Minute)
		_, err := s.Get(ctx, "auth_token")
		require.ErrorIs(t, err, credentials.ErrNotFound)
		require.Equal(t, 1, s.Len())

		v, err := s.Get(ctx, "refresh_token")
		require.NoError(t, err)
		require.Equal(t, "def", v)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		s := memstore.New()
		require.Error(t, s.Set(ctx, "", "abc", time.Hour))
		require.Error(t, s.Set(ctx, "auth_token", "abc", -time.Second))
	})
}
