package likes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/likes"
	"github.com/stretchr/testify/require"
)

func TestButton_Toggle(t *testing.T) {
	t.Run("settles on the backend answer", func(t *testing.T) {
		b := likes.NewButton(1, 4, false, func(ctx context.Context, postID int64) (likes.Result, error) {
			return likes.Result{Liked: true, Likes: 9}, nil
		})

		require.NoError(t, b.Toggle(context.Background()))
		require.Equal(t, likes.Result{Liked: true, Likes: 9}, b.State())
	})

	t.Run("shows the change while pending", func(t *testing.T) {
		release := make(chan struct{})
		var b *likes.Button
		var during likes.Result
		var ignored error
		b = likes.NewButton(1, 4, true, func(ctx context.Context, postID int64) (likes.Result, error) {
			during = b.State()
			ignored = b.Toggle(ctx)
			close(release)
			return likes.Result{Liked: false, Likes: 3}, nil
		})

		require.NoError(t, b.Toggle(context.Background()))
		<-release
		require.Equal(t, likes.Result{Liked: false, Likes: 3}, during)
		require.NoError(t, ignored)
		require.False(t, b.Pending())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		b := likes.NewButton(1, 4, false, func(ctx context.Context, postID int64) (likes.Result, error) {
			return likes.Result{}, errors.New("offline")
		})

		require.Error(t, b.Toggle(context.Background()))
		require.Equal(t, likes.Result{Liked: false, Likes: 4}, b.State())
		require.False(t, b.Pending())
	})

	t.Run("never goes below zero", func(t *testing.T) {
		var during likes.Result
		var b *likes.Button
		b = likes.NewButton(1, 0, true, func(ctx context.Context, postID int64) (likes.Result, error) {
			during = b.State()
			return likes.Result{}, errors.New("offline")
		})

		require.Error(t, b.Toggle(context.Background()))
		require.Equal(t, likes.Result{Liked: false, Likes: 0}, during)
	})
}

func TestService_Toggle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/likes/12/toggle", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"liked":true,"likes":5}`))
	}))
	t.Cleanup(srv.Close)

	svc := likes.NewService(apiclient.New(apiclient.NewEnvironment(srv.URL, "", false), nil))
	r, err := svc.Toggle(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, likes.Result{Liked: true, Likes: 5}, r)
}
