package server

import (
	"net/http"

	"github.com/jrsteele09/go-social-frontend/notifications"
	"github.com/jrsteele09/go-social-frontend/settings"
	"github.com/jrsteele09/go-social-frontend/users"
)

func (s *Server) NotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := s.pageSize(r)
		if err != nil {
			writeError(w, err)
			return
		}
		list, err := notifications.NewService(scopeFrom(r.Context()).client).List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})
	}
}

func (s *Server) GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := settings.NewService(scopeFrom(r.Context()).client).Get(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, us)
	}
}

func (s *Server) UpdateSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settings.UpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		us, err := settings.NewService(scopeFrom(r.Context()).client).Update(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, us)
	}
}

func (s *Server) UsernameAvailableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")
		available, err := users.NewService(scopeFrom(r.Context()).client).UsernameAvailable(r.Context(), username)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"username": username, "available": available})
	}
}
