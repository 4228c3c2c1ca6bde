package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-frontend/credentials"
	"github.com/jrsteele09/go-social-frontend/internal/config"
	"github.com/jrsteele09/go-social-frontend/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const refreshFlightKey = "refresh"

// Snapshot is what rendering code may know about the session. It never
// contains the refresh token.
type Snapshot struct {
	Authenticated bool           `json:"authenticated"`
	User          *users.Summary `json:"user,omitempty"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty"`
}

// Session owns the access/refresh token pair.
//
// The access token is kept in memory and mirrored to the store. The refresh
// token is only ever read from and written to the store. Concurrent refreshes
// collapse into one backend call.
type Session struct {
	backend Backend
	store   credentials.Store
	config  config.SessionConfig

	mu       sync.RWMutex
	token    *oauth2.Token
	user     *users.Summary
	restored bool   // memory reflects the store, no need to read it again
	gen      uint64 // bumped by login and clear; stale refreshes must not write

	// writes serializes store mutations so that mu is never held across store I/O
	writes sync.Mutex

	refreshes singleflight.Group
	group     *RefreshGroup
}

type Option func(*Session)

// WithRefreshGroup shares backend refreshes with other sessions holding the
// same refresh token, typically every per-request session of a server.
func WithRefreshGroup(g *RefreshGroup) Option {
	return func(s *Session) {
		s.group = g
	}
}

func New(backend Backend, store credentials.Store, cfg config.SessionConfig, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		store:   store,
		config:  cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.group == nil {
		s.group = NewRefreshGroup(0)
	}
	return s
}

// Login exchanges credentials for a token pair and stores it.
func (s *Session) Login(ctx context.Context, identifier, password string) (Snapshot, error) {
	resp, err := s.backend.Login(ctx, identifier, password)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	user := resp.User
	if err := s.storeTokens(ctx, resp.TokenPair, &user, gen); err != nil {
		return Snapshot{}, fmt.Errorf("store login tokens: %w", err)
	}

	log.Info().Str("username", user.Username).Msg("Logged in")
	return s.Snapshot(), nil
}

// Register creates an account. It does not log the user in.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	return s.backend.Register(ctx, req)
}

// Refresh exchanges the stored refresh token for a new pair and returns the
// new access token. Failure ends the session.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	tok, err := s.renew(ctx, nil)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// RenewToken refreshes after stale was rejected. If another caller already
// replaced stale, the current token is returned without a backend call.
func (s *Session) RenewToken(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	if current := s.replacementFor(stale); current != nil {
		return current, nil
	}
	return s.renew(ctx, stale)
}

// CurrentToken returns the access token, restoring it from the store on first
// use. A nil token means the session holds no access token.
func (s *Session) CurrentToken(ctx context.Context) (*oauth2.Token, error) {
	s.mu.RLock()
	tok, restored := s.token, s.restored
	s.mu.RUnlock()
	if tok != nil || restored {
		return tok, nil
	}

	raw, err := s.store.Get(ctx, s.config.GetAccessTokenCookie())
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		return nil, fmt.Errorf("read access token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil && !s.restored && raw != "" {
		s.token = newAccessToken(raw, s.config.GetDefaultAccessTokenExpiry())
	}
	s.restored = true
	return s.token, nil
}

// Logout ends the session locally and then asks the backend to revoke the
// refresh token. Revocation problems are logged only.
func (s *Session) Logout(ctx context.Context) {
	// Read under writes so a login still storing its pair is revoked too
	s.writes.Lock()
	refreshToken, err := s.store.Get(ctx, s.config.GetRefreshTokenCookie())
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		log.Warn().Err(err).Msg("Logout: failed to read refresh token")
	}
	s.clearLocked(ctx)
	s.writes.Unlock()

	if refreshToken == "" {
		return
	}
	if err := s.backend.Logout(ctx, refreshToken); err != nil {
		log.Warn().Err(err).Msg("Logout: failed to revoke refresh token")
	}
}

func (s *Session) User() *users.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser records the profile for sessions restored from the store.
func (s *Session) SetUser(u *users.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Authenticated: s.token != nil, User: s.user}
	if s.token != nil {
		expiry := s.token.Expiry
		snap.ExpiresAt = &expiry
	}
	return snap
}

func (s *Session) replacementFor(stale *oauth2.Token) *oauth2.Token {
	if stale == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token != nil && s.token.AccessToken != stale.AccessToken {
		return s.token
	}
	return nil
}

func (s *Session) renew(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	ch := s.refreshes.DoChan(refreshFlightKey, func() (any, error) {
		// A flight that finished just before this one was started has already
		// replaced the stale token
		if current := s.replacementFor(stale); current != nil {
			return current, nil
		}
		// Shared by every waiter, so one caller giving up must not cancel it
		return s.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Token), nil
	}
}

func (s *Session) refresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	refreshToken, err := s.store.Get(ctx, s.config.GetRefreshTokenCookie())
	if errors.Is(err, credentials.ErrNotFound) {
		s.clear(ctx)
		return nil, &Error{Kind: ErrNoRefreshToken}
	}
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}

	pair, err := s.group.Refresh(ctx, s.backend, refreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("Refresh rejected, clearing session")
		s.clear(ctx)
		return nil, &Error{Kind: ErrRefreshRejected, Err: err}
	}

	if err := s.storeTokens(ctx, *pair, nil, gen); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

var errSessionReplaced = &Error{Kind: ErrRefreshRejected, Message: "session changed during refresh"}

// storeTokens writes the pair (and user, when set) to the store and memory
// unless the session was cleared or replaced since gen was read.
func (s *Session) storeTokens(ctx context.Context, pair TokenPair, user *users.Summary, gen uint64) error {
	tok := newAccessToken(pair.AccessToken, s.config.GetDefaultAccessTokenExpiry())

	s.writes.Lock()
	defer s.writes.Unlock()
	if !s.isGen(gen) {
		return errSessionReplaced
	}

	accessTTL := ttlUntil(tok.Expiry, s.config.GetDefaultAccessTokenExpiry())
	if err := s.store.Set(ctx, s.config.GetAccessTokenCookie(), tok.AccessToken, accessTTL); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if pair.RefreshToken != "" {
		if err := s.store.Set(ctx, s.config.GetRefreshTokenCookie(), pair.RefreshToken, s.config.GetDefaultRefreshTokenExpiry()); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A login or clear that ran during the writes above owns the store now
	if s.gen != gen {
		return errSessionReplaced
	}
	s.token = tok
	if user != nil {
		s.user = user
	}
	s.restored = true
	return nil
}

func (s *Session) isGen(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen == gen
}

func (s *Session) clear(ctx context.Context) {
	s.writes.Lock()
	defer s.writes.Unlock()
	s.clearLocked(ctx)
}

// clearLocked requires s.writes.
func (s *Session) clearLocked(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	s.token = nil
	s.user = nil
	s.restored = true
	s.mu.Unlock()

	for _, name := range []string{s.config.GetAccessTokenCookie(), s.config.GetRefreshTokenCookie()} {
		if err := s.store.Clear(ctx, name); err != nil {
			log.Warn().Err(err).Str("name", name).Msg("Failed to clear credential")
		}
	}
}
