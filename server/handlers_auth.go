package server

import (
	"net/http"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/auth"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"github.com/jrsteele09/go-social-frontend/users"
	"github.com/rs/zerolog/log"
)

type loginForm struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form loginForm
		if err := decodeJSON(r, &form); err != nil {
			writeError(w, err)
			return
		}
		if form.EmailOrUsername == "" || form.Password == "" {
			writeError(w, apperrors.Wrapf(apperrors.ErrInvalidRequest, "email or username and password are required"))
			return
		}

		snap, err := scopeFrom(r.Context()).session.Login(r.Context(), form.EmailOrUsername, form.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, apperrors.Wrapf(apperrors.ErrInvalidRequest, "email and password are required"))
			return
		}
		if err := users.ValidateUsername(req.Username); err != nil {
			writeError(w, err)
			return
		}

		result, err := scopeFrom(r.Context()).session.Register(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scopeFrom(r.Context()).session.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// SessionHandler reports whether the caller is logged in. A session restored
// from the credential store is confirmed against the backend, which renews
// the access token when it has expired.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFrom(r.Context())
		tok, err := scope.session.CurrentToken(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if tok == nil {
			// A refresh token may still be around; let the backend decide
			if _, err := scope.session.Refresh(r.Context()); err != nil {
				writeJSON(w, http.StatusOK, auth.Snapshot{})
				return
			}
		}

		me, err := users.NewService(scope.client).Me(r.Context())
		if apiclient.IsLoginRequired(err) {
			writeJSON(w, http.StatusOK, auth.Snapshot{})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}

		summary := me.Summary()
		scope.session.SetUser(&summary)
		log.Debug().Str("username", summary.Username).Msg("Session confirmed")
		writeJSON(w, http.StatusOK, scope.session.Snapshot())
	}
}
