package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"vault-backend/application/ports"
	"vault-backend/domain/core/entities"
	pkgerrors "vault-backend/pkg/errors"
)

// ensureProjectAttempts bounds the optimistic retry loop. Contention on a
// single user record is rare; exhausting the budget surfaces as a conflict
// the caller may retry.
const ensureProjectAttempts = 5

// UserRegistry implements ports.UserRegistry on DynamoDB
type UserRegistry struct {
	client    DynamoDBAPI
	tableName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewUserRegistry creates a new UserRegistry
func NewUserRegistry(client DynamoDBAPI, tableName string, timeout time.Duration, logger *zap.Logger) ports.UserRegistry {
	return &UserRegistry{
		client:    client,
		tableName: tableName,
		timeout:   timeout,
		logger:    logger,
	}
}

// GetUser retrieves the registry record for an identity. The read is strongly
// consistent so it reflects the most recent committed write for that record.
func (r *UserRegistry) GetUser(ctx context.Context, identity string) (*entities.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(identity)},
			"SK": &types.AttributeValueMemberS{Value: userSK},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storeError("get user", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	user, err := decodeUserItem(result.Item)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to decode user record", err)
	}
	return user, nil
}

// EnsureProject idempotently appends a project to the user's project set.
//
// The append is a conditional update: the write only succeeds if the stored
// projects field still equals the value we read, otherwise DynamoDB rejects
// it and the loop re-reads and retries. This closes the lost-update race of
// a plain read-then-write sequence.
func (r *UserRegistry) EnsureProject(ctx context.Context, identity, project string) (*entities.User, error) {
	if project == "" {
		return nil, pkgerrors.NewValidationError("project cannot be empty")
	}

	for attempt := 0; attempt < ensureProjectAttempts; attempt++ {
		user, err := r.GetUser(ctx, identity)
		if err != nil {
			return nil, err
		}
		if user.HasProject(project) {
			return user, nil
		}

		expected := encodeProjects(user.Projects())
		updated := encodeProjects(append(user.Projects(), project))

		user, err = r.casProjects(ctx, identity, expected, updated)
		if err == nil {
			return user, nil
		}

		var condErr *types.ConditionalCheckFailedException
		if !errors.As(err, &condErr) {
			return nil, storeError("ensure project", err)
		}

		r.logger.Debug("Projects field changed underneath, retrying append",
			zap.String("identity", identity),
			zap.String("project", project),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, pkgerrors.NewConflictError("user record is under concurrent modification, retry the request")
}

// casProjects writes the projects field if and only if it still holds the
// expected value. Records written before the projects field existed satisfy
// the condition through attribute_not_exists.
func (r *UserRegistry) casProjects(ctx context.Context, identity, expected, updated string) (*entities.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	condition := "attribute_exists(PK) AND Projects = :expected"
	values := map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberS{Value: expected},
		":updated":  &types.AttributeValueMemberS{Value: updated},
	}
	if expected == "" {
		condition = "attribute_exists(PK) AND (attribute_not_exists(Projects) OR Projects = :expected)"
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(identity)},
			"SK": &types.AttributeValueMemberS{Value: userSK},
		},
		UpdateExpression:          aws.String("SET Projects = :updated"),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, err
	}

	user, err := decodeUserItem(result.Attributes)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to decode updated user record", err)
	}
	return user, nil
}

// ListProjects returns the user's project set, or an empty slice when the
// user has no registry record. Only storage unavailability is an error.
func (r *UserRegistry) ListProjects(ctx context.Context, identity string) ([]string, error) {
	user, err := r.GetUser(ctx, identity)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return user.Projects(), nil
}

// ProvisionUser creates the registry record for a newly established identity.
// The put is conditional on the record not existing; when a concurrent
// provision wins the race the stored record is read back and returned.
func (r *UserRegistry) ProvisionUser(ctx context.Context, identity, name string) (*entities.User, error) {
	user, err := entities.NewUser(identity, name)
	if err != nil {
		return nil, err
	}

	av, err := attributevalue.MarshalMap(newUserItem(user))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to marshal user record", err)
	}

	putCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err = r.client.PutItem(putCtx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return r.GetUser(ctx, identity)
		}
		return nil, storeError("provision user", err)
	}

	r.logger.Info("User provisioned",
		zap.String("identity", identity),
	)
	return user, nil
}

// storeError maps a driver failure to the surfaced error taxonomy. Timeouts
// and transport failures are not retried here; the caller may retry.
func storeError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.NewTimeoutError(operation)
	}
	return pkgerrors.NewUnavailableError("store unreachable: " + operation).WithCause(err)
}
