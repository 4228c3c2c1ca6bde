package users_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"github.com/jrsteele09/go-social-frontend/users"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, users.ValidateUsername("alice_01"))
		require.NoError(t, users.ValidateUsername("abc"))
		require.NoError(t, users.ValidateUsername(strings.Repeat("a", 30)))
	})

	t.Run("too short", func(t *testing.T) {
		err := users.ValidateUsername("ab")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		require.ErrorContains(t, err, "between 3 and 30")
	})

	t.Run("too long", func(t *testing.T) {
		require.ErrorIs(t, users.ValidateUsername(strings.Repeat("a", 31)), apperrors.ErrInvalidRequest)
	})

	t.Run("bad characters", func(t *testing.T) {
		err := users.ValidateUsername("alice!")
		require.ErrorContains(t, err, "letters, numbers and underscores")
	})
}

func setupTestFixture(t *testing.T, taken ...string) *users.Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/auth/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"user": users.User{ID: 1, Username: "alice", Email: "alice@example.com"}})
		case strings.HasPrefix(r.URL.Path, "/api/users/username/"):
			name := strings.TrimPrefix(r.URL.Path, "/api/users/username/")
			for _, u := range taken {
				if u == name {
					_ = json.NewEncoder(w).Encode(users.User{ID: 2, Username: name})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"User not found"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return users.NewService(apiclient.New(apiclient.NewEnvironment(srv.URL, "", false), nil))
}

func TestService(t *testing.T) {
	svc := setupTestFixture(t, "bob")
	ctx := context.Background()

	t.Run("me", func(t *testing.T) {
		me, err := svc.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, users.Summary{ID: 1, Username: "alice", Email: "alice@example.com"}, me.Summary())
	})

	t.Run("username taken", func(t *testing.T) {
		available, err := svc.UsernameAvailable(ctx, "bob")
		require.NoError(t, err)
		require.False(t, available)
	})

	t.Run("username free", func(t *testing.T) {
		available, err := svc.UsernameAvailable(ctx, "carol")
		require.NoError(t, err)
		require.True(t, available)
	})

	t.Run("invalid username is not looked up", func(t *testing.T) {
		_, err := svc.UsernameAvailable(ctx, "x")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}

func TestAvailabilityChecker(t *testing.T) {
	t.Run("only the last username is checked", func(t *testing.T) {
		var checked []string
		var mu sync.Mutex
		checker := users.NewAvailabilityChecker(func(ctx context.Context, username string) (bool, error) {
			mu.Lock()
			checked = append(checked, username)
			mu.Unlock()
			return username == "alice_", nil
		}, 20*time.Millisecond)
		t.Cleanup(checker.Stop)

		results := make(chan bool, 1)
		for _, name := range []string{"a", "al", "ali", "alic", "alice_"} {
			checker.Check(name, func(username string, available bool) {
				results <- available
			})
		}

		select {
		case available := <-results:
			require.True(t, available)
		case <-time.After(time.Second):
			t.Fatal("no result")
		}
		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []string{"alice_"}, checked)
	})

	t.Run("errors are swallowed", func(t *testing.T) {
		var calls atomic.Int32
		checker := users.NewAvailabilityChecker(func(ctx context.Context, username string) (bool, error) {
			calls.Add(1)
			return false, errors.New("offline")
		}, time.Millisecond)

		checker.Check("alice", func(string, bool) { t.Error("unexpected result") })
		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		checker.Stop()
	})

	t.Run("stop cancels a pending check", func(t *testing.T) {
		var calls atomic.Int32
		checker := users.NewAvailabilityChecker(func(ctx context.Context, username string) (bool, error) {
			calls.Add(1)
			return true, nil
		}, 20*time.Millisecond)

		checker.Check("alice", nil)
		checker.Stop()
		time.Sleep(60 * time.Millisecond)
		require.Zero(t, calls.Load())
	})
}
