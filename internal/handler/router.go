package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// Router assembles the storefront API handler.
type Router struct {
	auth       *AuthHandler
	catalog    *CatalogHandler
	comments   *CommentHandler
	chat       *ChatHandler
	ai         *AIHandler
	admin      *AdminHandler
	site       *SiteHandler
	middleware *Middleware
	db         repository.DatabaseHealth
	logger     zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	CommentHandler *CommentHandler
	ChatHandler    *ChatHandler
	AIHandler      *AIHandler
	AdminHandler   *AdminHandler
	SiteHandler    *SiteHandler
	Middleware     *Middleware
	Database       repository.DatabaseHealth
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		auth:       config.AuthHandler,
		catalog:    config.CatalogHandler,
		comments:   config.CommentHandler,
		chat:       config.ChatHandler,
		ai:         config.AIHandler,
		admin:      config.AdminHandler,
		site:       config.SiteHandler,
		middleware: config.Middleware,
		db:         config.Database,
		logger:     config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rt.middleware.Instrument)
	r.Use(rt.middleware.Session)
	r.Use(rt.middleware.Lockdown)

	// Health check (no auth)
	r.Get("/health", rt.handleHealth)

	rt.auth.RegisterRoutes(r, rt.middleware)
	rt.catalog.RegisterRoutes(r, rt.middleware)
	rt.comments.RegisterRoutes(r, rt.middleware)
	rt.chat.RegisterRoutes(r, rt.middleware)
	rt.ai.RegisterRoutes(r, rt.middleware)
	rt.admin.RegisterRoutes(r, rt.middleware)
	rt.site.RegisterRoutes(r, rt.middleware)

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.db != nil {
		if err := rt.db.Health(r.Context()); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
