package server

import (
	"net/http"

	"github.com/google/uuid"
)

// sessionID returns the opaque id that keys the caller's credentials in redis,
// issuing a new one when the request carries none.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	name := s.config.GetSessionIDCookie()
	if c, err := r.Cookie(name); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	sid := uuid.NewString()
	s.SetSessionIDCookie(w, sid, int(s.config.GetDefaultRefreshTokenExpiry().Seconds()))
	return sid
}

func (s *Server) SetSessionIDCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionIDCookie(),
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetSecureCookies(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
