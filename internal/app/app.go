// Package app assembles the application's components
package app

import (
	"context"
	"fmt"

	"github.com/amaumene/cinesearch/internal/api"
	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/metrics"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/query"
	"github.com/amaumene/cinesearch/internal/scheduler"
	"github.com/amaumene/cinesearch/internal/search"
	"github.com/amaumene/cinesearch/internal/services/omdb"
	"github.com/amaumene/cinesearch/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App holds the wired components
type App struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Client     *omdb.Client
	Cache      *query.Cache
	SearchCtrl *controllers.SearchController
	ThemeCtrl  *controllers.ThemeController
	Scheduler  *scheduler.Scheduler
	Server     *api.Server
}

// NewApp groups the components built by the injector
func NewApp(
	cfg *config.Config,
	logger *logrus.Logger,
	client *omdb.Client,
	cache *query.Cache,
	searchCtrl *controllers.SearchController,
	themeCtrl *controllers.ThemeController,
	sched *scheduler.Scheduler,
	server *api.Server,
) *App {
	return &App{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Cache:      cache,
		SearchCtrl: searchCtrl,
		ThemeCtrl:  themeCtrl,
		Scheduler:  sched,
		Server:     server,
	}
}

// Serve runs the scheduler and HTTP server until ctx is done
func (a *App) Serve(ctx context.Context) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer a.Scheduler.Stop()

	return a.Server.Start(ctx)
}

// Session is the reduced graph used by one-shot CLI commands. It does
// not hold the preference database open.
type Session struct {
	SearchCtrl *controllers.SearchController
	Theme      models.ThemeMode
}

// NewSession groups the components of a one-shot command
func NewSession(searchCtrl *controllers.SearchController, theme models.ThemeMode) *Session {
	return &Session{SearchCtrl: searchCtrl, Theme: theme}
}

// provideThemeMode reads the persisted theme without locking the database,
// so that it works while a server is running. Any failure means light.
func provideThemeMode(cfg *config.Config, logger *logrus.Logger) models.ThemeMode {
	db, err := models.OpenReadOnly(cfg.DatabaseFile)
	if err != nil {
		logger.WithError(err).Debug("Theme preference unavailable, using light")
		return models.ThemeLight
	}
	defer db.Close()

	mode, err := db.GetThemeMode()
	if err != nil {
		logger.WithError(err).Debug("Theme preference unreadable, using light")
	}
	return mode
}

// provideRegistry builds the metrics registry with the runtime collectors
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideTracerProvider(logger *logrus.Logger) (*sdktrace.TracerProvider, func()) {
	tp := utils.NewTracerProvider(logger)
	return tp, func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}
}

// provideClient depends on the tracer provider so spans are recorded from the first call
func provideClient(cfg *config.Config, m *metrics.Metrics, _ *sdktrace.TracerProvider, logger *logrus.Logger) (*omdb.Client, error) {
	return omdb.NewClient(cfg, m, logger)
}

func provideDatabase(cfg *config.Config, logger *logrus.Logger) (*models.Database, func(), error) {
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.WithField("path", cfg.DatabaseFile).Debug("Preference database opened")

	return db, func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}, nil
}

func provideCache(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) *query.Cache {
	return query.NewCache(query.Options{
		StaleTime:         cfg.StaleTime,
		CacheTime:         cfg.CacheTime,
		FetchTimeout:      cfg.FetchTimeout,
		RevalidateOnFocus: cfg.RevalidateOnFocus,
		RefreshWhenHidden: cfg.RefreshWhenHidden,
	}, m, logger)
}

func provideStore(cfg *config.Config) *search.Store {
	return search.NewStore(search.DefaultFilters(cfg.RowsPerPage, models.ViewMode(cfg.DefaultViewMode)))
}

func provideSearchController(store *search.Store, cache *query.Cache, client *omdb.Client, cfg *config.Config, logger *logrus.Logger) (*controllers.SearchController, func()) {
	ctrl := controllers.NewSearchController(store, cache, client, cfg, logger)
	return ctrl, ctrl.Close
}

func provideMonitor(client *omdb.Client, cfg *config.Config, logger *logrus.Logger) *scheduler.Monitor {
	return scheduler.NewMonitor(client, cfg.ReconnectProbeInterval, logger)
}

func provideScheduler(cache *query.Cache, monitor *scheduler.Monitor, cfg *config.Config, logger *logrus.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(cache, monitor, cfg.RefreshInterval, logger)
}

func provideServer(
	cfg *config.Config,
	cache *query.Cache,
	searchCtrl *controllers.SearchController,
	themeCtrl *controllers.ThemeController,
	monitor *scheduler.Monitor,
	reg *prometheus.Registry,
	logger *logrus.Logger,
) *api.Server {
	return api.NewServer(cfg, cache, searchCtrl, themeCtrl, monitor, reg, logger)
}
