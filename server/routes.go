package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))

	// FEED & POSTS
	s.RegisterRouteHandler("GET "+RouteFeed, ChainMiddleware(s.FeedHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePosts, ChainMiddleware(s.CreatePostHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePost, ChainMiddleware(s.GetPostHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RoutePost, ChainMiddleware(s.UpdatePostHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RoutePost, ChainMiddleware(s.DeletePostHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePostLike, ChainMiddleware(s.ToggleLikeHandler(), s.APIMiddleware()...))

	// COMMENTS
	s.RegisterRouteHandler("GET "+RoutePostComments, ChainMiddleware(s.ListCommentsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePostComments, ChainMiddleware(s.CreateCommentHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteComment, ChainMiddleware(s.UpdateCommentHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteComment, ChainMiddleware(s.DeleteCommentHandler(), s.APIMiddleware()...))

	// ACCOUNT
	s.RegisterRouteHandler("GET "+RouteNotifications, ChainMiddleware(s.NotificationsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSettings, ChainMiddleware(s.GetSettingsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteSettings, ChainMiddleware(s.UpdateSettingsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUsername, ChainMiddleware(s.UsernameAvailableHandler(), s.APIMiddleware()...))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
