package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/auth"
	"github.com/jrsteele09/go-social-frontend/auth/backendfake"
	"github.com/jrsteele09/go-social-frontend/credentials/memstore"
	"github.com/jrsteele09/go-social-frontend/internal/config"
	"github.com/jrsteele09/go-social-frontend/users"
	"github.com/stretchr/testify/require"
)

type post struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type testFixture struct {
	backend  *backendfake.FakeBackend
	session  *auth.Session
	server   *httptest.Server
	client   *apiclient.Client
	requests atomic.Int32

	mu          sync.Mutex
	authHeaders []string
}

// setupTestFixture starts an API that accepts only the bearer token returned
// by accept and answers with handler.
func setupTestFixture(t *testing.T, accept func() string, handler http.HandlerFunc, opts ...apiclient.Option) *testFixture {
	t.Helper()

	f := &testFixture{backend: backendfake.NewFakeBackend()}
	f.backend.AddAccount("alice", "password123", users.Summary{ID: 1, Username: "alice"})
	f.session = auth.New(f.backend, memstore.New(), config.Session{})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		header := r.Header.Get("Authorization")
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, header)
		f.mu.Unlock()

		if accept != nil && header != "Bearer "+accept() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.client = apiclient.New(apiclient.NewEnvironment(f.server.URL, "", false), f.session, opts...)
	return f
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	_, err := f.session.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
}

func (f *testFixture) headers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func okPost(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, post{ID: 42, Title: "hello"})
}

func TestClient_BearerAuth(t *testing.T) {
	var f *testFixture
	f = setupTestFixture(t, func() string { return f.backend.AccessToken() }, func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		okPost(w, r)
	})
	f.login(t)

	p, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
	require.NoError(t, err)
	require.Equal(t, post{ID: 42, Title: "hello"}, p)
	require.Equal(t, []string{"Bearer access-1"}, f.headers())
}

func TestClient_RenewOn401(t *testing.T) {
	t.Run("renews once and replays with the new token", func(t *testing.T) {
		var f *testFixture
		f = setupTestFixture(t, func() string { return "access-2" }, okPost)
		f.login(t)

		p, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
		require.NoError(t, err)
		require.EqualValues(t, 42, p.ID)
		require.EqualValues(t, 1, f.backend.RefreshCalls.Load())
		require.Equal(t, []string{"Bearer access-1", "Bearer access-2"}, f.headers())
	})

	t.Run("second 401 is not retried", func(t *testing.T) {
		f := setupTestFixture(t, func() string { return "never" }, okPost)
		f.login(t)

		_, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
		require.Error(t, err)
		require.False(t, apiclient.IsLoginRequired(err))
		require.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))
		require.EqualValues(t, 2, f.requests.Load())
		require.EqualValues(t, 1, f.backend.RefreshCalls.Load())
	})

	t.Run("request body is replayed", func(t *testing.T) {
		var bodies []string
		f := setupTestFixture(t, func() string { return "access-2" }, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(b))
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			writeJSON(w, http.StatusCreated, post{ID: 7, Title: "new"})
		})
		f.login(t)

		p, err := apiclient.Post[post](context.Background(), f.client, "/api/posts", map[string]string{"title": "new"})
		require.NoError(t, err)
		require.EqualValues(t, 7, p.ID)
		require.Equal(t, []string{`{"title":"new"}`}, bodies)
	})

	t.Run("failed renewal requires login and drops the token", func(t *testing.T) {
		var hookErr error
		f := setupTestFixture(t, func() string { return "access-2" }, okPost,
			apiclient.WithLoginRequiredHook(func(err error) { hookErr = err }))
		f.login(t)
		f.backend.FailRefresh = true

		_, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
		require.ErrorIs(t, err, apiclient.ErrLoginRequired)
		require.ErrorIs(t, err, auth.ErrRefreshRejected)
		require.ErrorIs(t, hookErr, apiclient.ErrLoginRequired)
		require.False(t, f.session.IsAuthenticated())

		_, err = apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
		require.ErrorIs(t, err, apiclient.ErrLoginRequired)
		require.ErrorIs(t, err, auth.ErrNoRefreshToken)
		headers := f.headers()
		require.Empty(t, headers[len(headers)-1])
		require.EqualValues(t, 1, f.backend.RefreshCalls.Load())
	})

	t.Run("concurrent 401s share one refresh", func(t *testing.T) {
		var f *testFixture
		f = setupTestFixture(t, func() string { return "access-2" }, okPost)
		f.login(t)

		const callers = 10
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
			}()
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		require.EqualValues(t, 1, f.backend.RefreshCalls.Load())
	})
}

func TestClient_SkipAuth(t *testing.T) {
	f := setupTestFixture(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	f.login(t)

	_, err := apiclient.Post[apiclient.Empty](context.Background(), f.client, "/api/auth/login", nil, apiclient.SkipAuth())
	require.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))
	require.False(t, apiclient.IsLoginRequired(err))
	require.Equal(t, []string{""}, f.headers())
	require.Zero(t, f.backend.RefreshCalls.Load())
}

func TestClient_Responses(t *testing.T) {
	t.Run("no content yields the zero value", func(t *testing.T) {
		f := setupTestFixture(t, nil, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		})

		p, err := apiclient.Delete[post](context.Background(), f.client, "/api/posts/42")
		require.NoError(t, err)
		require.Zero(t, p)
	})

	t.Run("backend message is used", func(t *testing.T) {
		f := setupTestFixture(t, nil, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found"})
		})

		_, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/9")
		var apiErr *apiclient.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, apiclient.KindHTTP, apiErr.Kind)
		require.Equal(t, http.StatusNotFound, apiErr.Status)
		require.Equal(t, "Post not found", apiErr.Message)
		require.True(t, apiclient.IsNotFound(err))
	})

	t.Run("fallback message", func(t *testing.T) {
		f := setupTestFixture(t, nil, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/9")
		var apiErr *apiclient.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "Request failed", apiErr.Message)
		require.Equal(t, "Login failed", apiclient.MessageOr(err, "Login failed"))
	})

	t.Run("query parameters", func(t *testing.T) {
		f := setupTestFixture(t, nil, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "20", r.URL.Query().Get("limit"))
			require.Equal(t, "5", r.URL.Query().Get("cursor"))
			okPost(w, r)
		})

		_, err := apiclient.Get[post](context.Background(), f.client, "/api/posts",
			apiclient.WithQuery(map[string][]string{"limit": {"20"}, "cursor": {"5"}}))
		require.NoError(t, err)
	})

	t.Run("network failure", func(t *testing.T) {
		f := setupTestFixture(t, nil, okPost)
		f.server.Close()

		_, err := apiclient.Get[post](context.Background(), f.client, "/api/posts/42")
		var apiErr *apiclient.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, apiclient.KindNetwork, apiErr.Kind)
		require.Equal(t, "Network error", apiErr.Message)
		require.Zero(t, apiErr.Status)
	})
}

func TestEnvironment(t *testing.T) {
	t.Run("server context prefers the internal address", func(t *testing.T) {
		env := apiclient.NewEnvironment("https://api.example.com", "http://backend:4000/", true)
		require.Equal(t, "http://backend:4000/api/posts", env.URL("/api/posts"))
	})

	t.Run("browser context uses the public address", func(t *testing.T) {
		env := apiclient.NewEnvironment("https://api.example.com", "http://backend:4000", false)
		require.Equal(t, "https://api.example.com/api/posts", env.URL("api/posts"))
	})

	t.Run("absolute urls pass through", func(t *testing.T) {
		env := apiclient.NewEnvironment("https://api.example.com", "", true)
		require.Equal(t, "https://cdn.example.com/a.png", env.URL("https://cdn.example.com/a.png"))
	})
}
