//go:build wireinject
// +build wireinject

package app

import (
	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
)

var providerSet = wire.NewSet(
	provideRegistry,
	provideMetrics,
	provideTracerProvider,
	provideClient,
	provideDatabase,
	provideCache,
	provideStore,
	provideSearchController,
	controllers.NewThemeController,
	provideMonitor,
	provideScheduler,
	provideServer,
	NewApp,
)

// Initialize builds the application. The returned cleanup closes the
// database and flushes tracing.
func Initialize(cfg *config.Config, logger *logrus.Logger) (*App, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}

// InitializeSession builds the components needed by one-shot commands
func InitializeSession(cfg *config.Config, logger *logrus.Logger) (*Session, func(), error) {
	wire.Build(
		provideRegistry,
		provideMetrics,
		provideTracerProvider,
		provideClient,
		provideCache,
		provideStore,
		provideSearchController,
		provideThemeMode,
		NewSession,
	)
	return nil, nil, nil
}
