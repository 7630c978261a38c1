package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"vault-backend/application/ports"
	"vault-backend/application/services"
	"vault-backend/infrastructure/config"
	"vault-backend/infrastructure/messaging/eventbridge"
	"vault-backend/infrastructure/persistence/dynamodb"
	"vault-backend/pkg/auth"
	"vault-backend/pkg/observability"
)

// ProvideLogger creates the process-wide logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates the AWS configuration shared by every client.
// Clients are built once at process start and live for the process lifetime;
// no per-request connect/disconnect.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}
	if cfg.EnableTracing {
		observability.InstrumentAWSClients(&awsCfg)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates the DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates the EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates the CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideUserRegistry creates the user registry repository
func ProvideUserRegistry(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRegistry {
	return dynamodb.NewUserRegistry(client, cfg.DynamoDBTable, cfg.StorageTimeout, logger)
}

// ProvideContextStore creates the context store repository
func ProvideContextStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ContextStore {
	return dynamodb.NewContextStore(client, cfg.DynamoDBTable, cfg.ProjectIndexName, cfg.StorageTimeout, logger)
}

// ProvideEventPublisher creates the domain event publisher. Without a
// configured bus, events are discarded.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NoopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the metrics publisher, or nil when disabled
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(client, cfg.MetricsNamespace, logger)
}

// ProvideJWTValidator creates the token validator, or nil when no secret is
// configured (trusted-proxy identity mode)
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideProjectAuthority maps the configured authority mode
func ProvideProjectAuthority(cfg *config.Config) services.ProjectAuthority {
	return services.ProjectAuthority(cfg.ProjectAuthority)
}

// ProvideVaultService creates the query gateway service
func ProvideVaultService(
	registry ports.UserRegistry,
	store ports.ContextStore,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	authority services.ProjectAuthority,
	logger *zap.Logger,
) *services.VaultService {
	return services.NewVaultService(registry, store, publisher, metrics, authority, logger)
}
