package di

import (
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"vault-backend/application/ports"
	"vault-backend/application/services"
	"vault-backend/infrastructure/config"
	"vault-backend/pkg/auth"
	"vault-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	DynamoDB     *awsdynamodb.Client
	Registry     ports.UserRegistry
	Store        ports.ContextStore
	Publisher    ports.EventPublisher
	Metrics      *observability.Metrics
	JWTValidator *auth.JWTValidator
	Service      *services.VaultService
}
