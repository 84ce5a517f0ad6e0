//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Upstream clients
		ProvideHTTPClient,
		ProvideFinnhubClient,
		ProvideMarketData,
		ProvideNewsSource,
		ProvideProfileSource,

		// Use cases
		ProvideAggregator,

		// HTTP edge
		ProvideCache,
		ProvideStocksHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
