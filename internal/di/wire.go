//go:build wireinject
// +build wireinject

package di

import (
	"StrikeScope/pkg/config"
	"StrikeScope/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideSharedCache,

		// Repositories
		ProvideTickStore,
		ProvideStorage,
		ProvideSnapshotStore,
		ProvideTickPublisher,
		ProvideSpotStream,
		ProvideMarketsClient,

		// Use cases
		ProvideTickProcessor,
		ProvideSpotCollector,
		ProvideKafkaSpotHandler,
		ProvideCalibrator,
		ProvideProjectionBuilder,
		ProvideTickHistory,

		// Transport
		ProvideProjectionHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
