//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"vault-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideUserRegistry,
	ProvideContextStore,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideJWTValidator,
	ProvideProjectAuthority,
	ProvideVaultService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer builds the dependency container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
