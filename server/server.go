package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/auth"
	"github.com/jrsteele09/go-social-frontend/credentials/cookiestore"
	"github.com/jrsteele09/go-social-frontend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Server is the backend-for-frontend: it keeps credentials in cookies (or
// redis) and exposes the backend to the rendering layer as JSON.
type Server struct {
	env        string
	mux        *http.ServeMux
	handler    http.Handler
	routes     []string
	config     config.Config
	apiEnv     apiclient.Environment
	httpClient *http.Client
	limiter    *rate.Limiter
	cookieKey  *[32]byte
	redis      redis.Cmdable
	refreshes  *auth.RefreshGroup
}

type Option func(*Server)

// WithRedis keeps credentials in redis when CREDENTIAL_STORE=redis.
func WithRedis(rdb redis.Cmdable) Option {
	return func(s *Server) {
		s.redis = rdb
	}
}

// WithHTTPClient sets the client used for backend calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) {
		s.httpClient = hc
	}
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	cookieKey, err := cookiestore.KeyFromHex(cfg.GetCookieKey())
	if err != nil {
		return nil, fmt.Errorf("[Server New] invalid cookie key: %w", err)
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		apiEnv:     apiclient.NewEnvironment(cfg.GetAPIBaseURL(), cfg.GetAPIInternalURL(), true),
		httpClient: &http.Client{Timeout: cfg.GetRequestTimeout()},
		cookieKey:  cookieKey,
		refreshes:  auth.NewRefreshGroup(auth.DefaultRotationGrace),
	}
	if rps := cfg.GetRateLimit(); rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), cfg.GetRateBurst())
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.GetCredentialStore() == "redis" && s.redis == nil {
		return nil, fmt.Errorf("[Server New] CREDENTIAL_STORE=redis requires a redis client")
	}

	s.initRoutes()
	s.logRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.GetAllowedOrigins(),
		AllowedMethods:   cfg.GetAllowedMethods(),
		AllowedHeaders:   cfg.GetAllowedHeaders(),
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(s.mux)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Info().Msgf("[%s%s%s] %s", color, paddedMethod, ResetColor, path)
}
