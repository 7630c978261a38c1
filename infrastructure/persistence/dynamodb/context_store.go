package dynamodb

import (
	"context"
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

// ContextStore implements ports.ContextStore on DynamoDB with a GSI keyed by
// project tag.
//
// Visibility bound: the GSI replicates asynchronously, so a just-appended
// entry may be absent from SearchByProject for the index propagation window
// (normally well under a second). Callers must not assume read-your-writes
// on the search path.
type ContextStore struct {
	client    DynamoDBAPI
	tableName string
	indexName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewContextStore creates a new ContextStore
func NewContextStore(client DynamoDBAPI, tableName, indexName string, timeout time.Duration, logger *zap.Logger) ports.ContextStore {
	return &ContextStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		timeout:   timeout,
		logger:    logger,
	}
}

// Append durably writes a new context entry
func (s *ContextStore) Append(ctx context.Context, entry *entities.ContextEntry) error {
	av, err := attributevalue.MarshalMap(newContextItem(entry))
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to marshal context entry", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return storeError("append context", err)
	}

	s.logger.Debug("Context entry appended",
		zap.String("entryID", entry.ID()),
		zap.String("user", entry.User()),
		zap.String("project", entry.Project()),
	)
	return nil
}

// SearchByProject returns every visible entry whose project tag matches
// exactly. Matching is key equality on the index, not substring or fuzzy,
// and retrieval order is index-internal. Malformed records are dropped so
// the caller always receives the clean subset; zero matches yield an empty
// slice.
func (s *ContextStore) SearchByProject(ctx context.Context, project string) ([]*entities.ContextEntry, error) {
	entries := []*entities.ContextEntry{}
	if project == "" {
		return entries, nil
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(s.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: projectGSIPK(project)},
		},
	}

	for {
		queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
		result, err := s.client.Query(queryCtx, input)
		cancel()
		if err != nil {
			return nil, storeError("search context", err)
		}

		for _, item := range result.Items {
			entry := decodeContextItem(item)
			if entry == nil {
				s.logger.Warn("Dropping malformed context record from result set",
					zap.String("project", project),
				)
				continue
			}
			entries = append(entries, entry)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return entries, nil
}
