package server

// Route path constants
const (
	// Login page of the rendering layer; sent back with login_required errors
	RouteLoginPage = "/login"

	// Auth Routes
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthSession  = "/auth/session"

	// Feed & Posts
	RouteFeed         = "/api/feed"
	RoutePosts        = "/api/posts"
	RoutePost         = "/api/posts/{id}"
	RoutePostComments = "/api/posts/{id}/comments"
	RoutePostLike     = "/api/posts/{id}/like"
	RouteComment      = "/api/comments/{id}"

	// Account
	RouteNotifications = "/api/notifications"
	RouteSettings      = "/api/settings"
	RouteUsername      = "/api/usernames/{username}"

	// Operations
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
