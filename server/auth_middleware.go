package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/auth"
	"github.com/jrsteele09/go-social-frontend/credentials"
	"github.com/jrsteele09/go-social-frontend/credentials/cookiestore"
	"github.com/jrsteele09/go-social-frontend/credentials/redisstore"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyScope stores the per-request session and API client
	ContextKeyScope ContextKey = "scope"
)

// requestScope is built fresh for every request. Sessions never outlive the
// request; their state lives in the credential store.
type requestScope struct {
	session *auth.Session
	client  *apiclient.Client
}

// SessionMiddleware binds an auth.Session to the caller's credentials and an
// API client that authenticates with it.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := s.newRequestScope(w, r)
		ctx := context.WithValue(r.Context(), ContextKeyScope, scope)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) newRequestScope(w http.ResponseWriter, r *http.Request) *requestScope {
	backend := auth.NewHTTPBackend(apiclient.New(s.apiEnv, nil, s.clientOptions()...))
	// Requests of one browser share refreshes through the process-wide group
	session := auth.New(backend, s.credentialStore(w, r), s.config, auth.WithRefreshGroup(s.refreshes))
	return &requestScope{
		session: session,
		client:  apiclient.New(s.apiEnv, session, s.clientOptions()...),
	}
}

func (s *Server) credentialStore(w http.ResponseWriter, r *http.Request) credentials.Store {
	if s.config.GetCredentialStore() == "redis" {
		sid := s.sessionID(w, r)
		return redisstore.New(s.redis, "", sid)
	}
	return cookiestore.New(w, r, cookiestore.Options{
		Secure: s.config.GetSecureCookies(),
		Key:    s.cookieKey,
	})
}

func (s *Server) clientOptions() []apiclient.Option {
	opts := []apiclient.Option{apiclient.WithHTTPClient(s.httpClient)}
	if s.limiter != nil {
		opts = append(opts, apiclient.WithRateLimiter(s.limiter))
	}
	return opts
}

func scopeFrom(ctx context.Context) *requestScope {
	scope, _ := ctx.Value(ContextKeyScope).(*requestScope)
	return scope
}
