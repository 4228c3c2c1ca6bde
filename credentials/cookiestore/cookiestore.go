// Package cookiestore keeps credentials in httpOnly cookies on the current
// request/response pair.
package cookiestore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-frontend/credentials"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var _ credentials.Store = (*Store)(nil)

// Options controls cookie attributes. When Key is set every value is sealed
// with secretbox and bound to its cookie name.
type Options struct {
	Secure bool
	Path   string
	Key    *[32]byte
}

// Store reads cookies from the request and writes Set-Cookie headers to the
// response. Values written during the request are visible to later reads.
type Store struct {
	w    http.ResponseWriter
	r    *http.Request
	opts Options

	mu      sync.Mutex
	pending map[string]*string // nil marks a cleared cookie
}

func New(w http.ResponseWriter, r *http.Request, opts Options) *Store {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Store{
		w:       w,
		r:       r,
		opts:    opts,
		pending: make(map[string]*string),
	}
}

// KeyFromHex decodes a 64 character hex string into a secretbox key. An empty
// string yields a nil key.
func KeyFromHex(s string) (*[32]byte, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode cookie key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("cookie key must be 32 bytes, got %d", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

func (s *Store) Get(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	v, written := s.pending[name]
	s.mu.Unlock()
	if written {
		if v == nil {
			return "", credentials.ErrNotFound
		}
		return *v, nil
	}

	cookie, err := s.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", credentials.ErrNotFound
	}
	return s.open(name, cookie.Value)
}

func (s *Store) Set(_ context.Context, name, value string, ttl time.Duration) error {
	sealed, err := s.seal(name, value)
	if err != nil {
		return err
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    sealed,
		Path:     s.opts.Path,
		HttpOnly: true,
		Secure:   s.secure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})

	s.mu.Lock()
	s.pending[name] = &value
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(_ context.Context, name string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     s.opts.Path,
		HttpOnly: true,
		Secure:   s.secure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	s.mu.Lock()
	s.pending[name] = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) secure() bool {
	return s.opts.Secure || s.r.TLS != nil
}

func (s *Store) seal(name, value string) (string, error) {
	if s.opts.Key == nil {
		return value, nil
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(name+"\x00"+value), &nonce, s.opts.Key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *Store) open(name, raw string) (string, error) {
	if s.opts.Key == nil {
		return raw, nil
	}
	box, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("%w: %w", credentials.ErrNotFound, apperrors.ErrSecretTampered)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, s.opts.Key)
	if !ok {
		return "", fmt.Errorf("%w: %w", credentials.ErrNotFound, apperrors.ErrSecretTampered)
	}
	// The name prefix stops a sealed value being replayed under another cookie
	value, found := strings.CutPrefix(string(plain), name+"\x00")
	if !found {
		return "", fmt.Errorf("%w: %w", credentials.ErrNotFound, apperrors.ErrSecretTampered)
	}
	return value, nil
}
