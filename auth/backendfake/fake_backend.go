package backendfake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/go-social-frontend/auth"
	"github.com/jrsteele09/go-social-frontend/users"
)

var _ auth.Backend = (*FakeBackend)(nil)

// ErrRevokeFailed is returned by Logout when FailLogout is set.
var ErrRevokeFailed = errors.New("revoke failed")

// FakeBackend is an in-memory auth.Backend with rotating refresh tokens.
type FakeBackend struct {
	lock     sync.Mutex
	accounts map[string]string // identifier -> password
	user     users.Summary
	valid    map[string]bool // refresh tokens that may still be used
	issued   int

	// RefreshGate, when set, blocks every Refresh until it is closed.
	RefreshGate chan struct{}
	FailRefresh bool
	FailLogout  bool

	LoginCalls   atomic.Int32
	RefreshCalls atomic.Int32
	LogoutCalls  atomic.Int32
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		accounts: map[string]string{},
		valid:    map[string]bool{},
	}
}

func (f *FakeBackend) AddAccount(identifier, password string, user users.Summary) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.accounts[identifier] = password
	f.user = user
}

func (f *FakeBackend) Login(_ context.Context, identifier, password string) (*auth.LoginResponse, error) {
	f.LoginCalls.Add(1)
	f.lock.Lock()
	defer f.lock.Unlock()

	if pw, ok := f.accounts[identifier]; !ok || pw != password {
		return nil, &auth.Error{Kind: auth.ErrInvalidCredentials, Message: "Invalid email/username or password"}
	}
	pair := f.issueLocked()
	return &auth.LoginResponse{User: f.user, TokenPair: pair}, nil
}

func (f *FakeBackend) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	f.RefreshCalls.Add(1)
	if f.RefreshGate != nil {
		select {
		case <-f.RefreshGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	if f.FailRefresh || !f.valid[refreshToken] {
		return nil, errors.New("invalid refresh token")
	}
	delete(f.valid, refreshToken) // rotation
	pair := f.issueLocked()
	return &pair, nil
}

func (f *FakeBackend) Logout(_ context.Context, refreshToken string) error {
	f.LogoutCalls.Add(1)
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.valid, refreshToken)
	if f.FailLogout {
		return ErrRevokeFailed
	}
	return nil
}

func (f *FakeBackend) Register(_ context.Context, req auth.RegisterRequest) (*auth.RegisterResult, error) {
	return &auth.RegisterResult{Message: "Verification email sent", Email: req.Email}, nil
}

// AccessToken returns the most recently issued access token.
func (f *FakeBackend) AccessToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return fmt.Sprintf("access-%d", f.issued)
}

// IsValidRefreshToken reports whether token can still be exchanged.
func (f *FakeBackend) IsValidRefreshToken(token string) bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.valid[token]
}

func (f *FakeBackend) issueLocked() auth.TokenPair {
	f.issued++
	pair := auth.TokenPair{
		AccessToken:  fmt.Sprintf("access-%d", f.issued),
		RefreshToken: fmt.Sprintf("refresh-%d", f.issued),
	}
	f.valid[pair.RefreshToken] = true
	return pair
}
