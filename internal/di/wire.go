//go:build wireinject
// +build wireinject

package di

import (
	"github.com/gannontraynor/marketPulse/pkg/config"
	"github.com/gannontraynor/marketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up the API server dependencies.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideBarStore,
		ProvidePublisher,

		// Signal engine and use cases
		ProvideCalculator,
		ProvideSignalService,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeIngest wires up the ingestion job dependencies.
func InitializeIngest(cfg *config.Config) (*Ingest, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		ProvideBarStore,
		ProvidePublisher,
		ProvideFetcher,

		ProvideCalculator,
		ProvideIngestor,

		ProvideIngest,
	)
	return &Ingest{}, nil
}
