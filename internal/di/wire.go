//go:build wireinject
// +build wireinject

package di

import (
	"PumpPulse/pkg/config"
	"PumpPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideTickerCache,
		ProvideSignalRepository,
		ProvideTickerHistory,
		ProvideBroadcaster,
		ProvideExchangeClients,

		// Use cases
		ProvideMarketScan,
		ProvidePumpScan,
		ProvideSignalMonitor,
		ProvideScheduler,
		ProvideStreamCollector,

		// HTTP
		ProvideAPIHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
