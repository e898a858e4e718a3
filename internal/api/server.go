package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/cinesearch/internal/api/handlers"
	"github.com/amaumene/cinesearch/internal/api/middleware"
	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/query"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server       *http.Server
	router       chi.Router
	cache        *query.Cache
	searchCtrl   *controllers.SearchController
	themeCtrl    *controllers.ThemeController
	connectivity handlers.Connectivity
	gatherer     prometheus.Gatherer
	logger       *logrus.Logger
}

// NewServer creates a new HTTP server. connectivity may be nil.
func NewServer(
	cfg *config.Config,
	cache *query.Cache,
	searchCtrl *controllers.SearchController,
	themeCtrl *controllers.ThemeController,
	connectivity handlers.Connectivity,
	gatherer prometheus.Gatherer,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		cache:        cache,
		searchCtrl:   searchCtrl,
		themeCtrl:    themeCtrl,
		connectivity: connectivity,
		gatherer:     gatherer,
		logger:       logger,
	}

	s.router = chi.NewRouter()
	s.setupRoutes(s.router)

	// Blocking reads wait at most one upstream timeout
	writeTimeout := 15 * time.Second
	if cfg.FetchTimeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.FetchTimeout + 5*time.Second
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(r chi.Router) {
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)

	// Health check
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(s.connectivity, s.logger))

	// Status endpoint
	r.Method(http.MethodGet, "/status", handlers.NewStatusHandler(s.cache, s.searchCtrl, s.connectivity, s.logger))

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	searchHandler := handlers.NewSearchHandler(s.searchCtrl, s.logger)
	titleHandler := handlers.NewTitleHandler(s.searchCtrl, s.logger)
	themeHandler := handlers.NewThemeHandler(s.themeCtrl, s.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/filters", searchHandler.Filters)
		r.Post("/intents", searchHandler.Intents)
		r.Get("/search", searchHandler.Results)
		r.Post("/focus", searchHandler.Focus)

		r.Get("/titles", titleHandler.ByTitle)
		r.Get("/titles/{id}", titleHandler.ByID)

		r.Get("/theme", themeHandler.Get)
		r.Post("/theme/toggle", themeHandler.Toggle)
	})
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
