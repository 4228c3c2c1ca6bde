package likes

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/rs/zerolog/log"
)

type Result struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Toggle(ctx context.Context, postID int64) (Result, error) {
	r, err := apiclient.Post[Result](ctx, s.client, fmt.Sprintf("/api/likes/%d/toggle", postID), nil)
	if err != nil {
		return Result{}, fmt.Errorf("toggle like on post %d: %w", postID, err)
	}
	return r, nil
}

// ToggleFunc flips the like state of a post on the backend.
type ToggleFunc func(ctx context.Context, postID int64) (Result, error)

// Button is the like state of one post as shown to the user. Toggle applies
// the change immediately and settles on the backend answer, or restores the
// previous state if the backend call fails.
type Button struct {
	postID int64
	toggle ToggleFunc

	mu      sync.Mutex
	state   Result
	pending bool
}

func NewButton(postID int64, likes int, likedByMe bool, toggle ToggleFunc) *Button {
	return &Button{
		postID: postID,
		toggle: toggle,
		state:  Result{Liked: likedByMe, Likes: likes},
	}
}

// Toggle ignores clicks while a previous toggle is in flight.
func (b *Button) Toggle(ctx context.Context) error {
	b.mu.Lock()
	if b.pending {
		b.mu.Unlock()
		return nil
	}
	b.pending = true
	prev := b.state
	b.state = flipped(prev)
	b.mu.Unlock()

	r, err := b.toggle(ctx, b.postID)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = false
	if err != nil {
		b.state = prev
		log.Error().Err(err).Int64("post_id", b.postID).Msg("Failed to toggle like")
		return err
	}
	b.state = r
	return nil
}

func (b *Button) State() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Button) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

func flipped(r Result) Result {
	if r.Liked {
		return Result{Liked: false, Likes: max(r.Likes-1, 0)}
	}
	return Result{Liked: true, Likes: r.Likes + 1}
}
