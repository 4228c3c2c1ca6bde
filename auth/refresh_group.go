package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultRotationGrace is how long a rotated pair is handed to callers that
// still present the refresh token it replaced.
const DefaultRotationGrace = 30 * time.Second

type rotatedPair struct {
	pair      TokenPair
	expiresAt time.Time
}

// RefreshGroup collapses backend refreshes that present the same refresh
// token into one call. Share one group between every Session of a process so
// that parallel requests of one browser refresh once.
//
// The backend rotates refresh tokens, so a caller that arrives just after a
// refresh finished would replay a revoked token. The new pair is therefore
// kept for a grace window, keyed by the token it replaced.
type RefreshGroup struct {
	flights singleflight.Group
	grace   time.Duration

	mu      sync.Mutex
	rotated map[string]rotatedPair
}

func NewRefreshGroup(grace time.Duration) *RefreshGroup {
	return &RefreshGroup{
		grace:   grace,
		rotated: make(map[string]rotatedPair),
	}
}

// Refresh exchanges refreshToken with backend, joining an in-flight exchange
// of the same token or reusing a pair it produced within the grace window.
func (g *RefreshGroup) Refresh(ctx context.Context, backend Backend, refreshToken string) (*TokenPair, error) {
	if pair, ok := g.recent(refreshToken); ok {
		return pair, nil
	}

	v, err, _ := g.flights.Do(refreshToken, func() (any, error) {
		// A flight for this token may have finished between the check above
		// and joining the group
		if pair, ok := g.recent(refreshToken); ok {
			return pair, nil
		}
		pair, err := backend.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if pair.RefreshToken == "" {
			pair.RefreshToken = refreshToken
		}
		g.remember(refreshToken, *pair)
		return pair, nil
	})
	if err != nil {
		return nil, err
	}
	pair := *v.(*TokenPair)
	return &pair, nil
}

func (g *RefreshGroup) recent(refreshToken string) (*TokenPair, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rotated[refreshToken]
	if !ok || !NowTimeFunc().Before(r.expiresAt) {
		return nil, false
	}
	pair := r.pair
	return &pair, true
}

func (g *RefreshGroup) remember(refreshToken string, pair TokenPair) {
	if g.grace <= 0 {
		return
	}
	now := NowTimeFunc()

	g.mu.Lock()
	defer g.mu.Unlock()
	for k, r := range g.rotated {
		if !now.Before(r.expiresAt) {
			delete(g.rotated, k)
		}
	}
	g.rotated[refreshToken] = rotatedPair{pair: pair, expiresAt: now.Add(g.grace)}
}
