package dynamodb

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB client. It honors the
// two condition expressions the repositories use (existence checks and the
// projects compare-and-set), which is what makes the concurrency tests
// meaningful.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// queryPages, when set, is served page by page regardless of items
	queryPages [][]map[string]types.AttributeValue

	// err, when set, fails every call
	err error

	getCalls    int
	putCalls    int
	updateCalls int
	queryCalls  int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(key map[string]types.AttributeValue) string {
	pk := key["PK"].(*types.AttributeValueMemberS).Value
	sk := key["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, bool) {
	attr, ok := item[name]
	if !ok {
		return "", false
	}
	s, ok := attr.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) seed(item map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[itemKey(item)] = copyItem(item)
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}

	item, ok := f.items[itemKey(params.Key)]
	if !ok {
		return &awsdynamodb.GetItemOutput{}, nil
	}
	return &awsdynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.err != nil {
		return nil, f.err
	}

	key := itemKey(params.Item)
	if params.ConditionExpression != nil &&
		strings.Contains(*params.ConditionExpression, "attribute_not_exists(PK)") {
		if _, exists := f.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("item exists")}
		}
	}
	f.items[key] = copyItem(params.Item)
	return &awsdynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.err != nil {
		return nil, f.err
	}

	item, exists := f.items[itemKey(params.Key)]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("no such item")}
	}

	expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
	current, hasProjects := stringAttr(item, "Projects")
	if hasProjects {
		if current != expected {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("projects changed")}
		}
	} else if expected != "" {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("projects changed")}
	}

	updated := params.ExpressionAttributeValues[":updated"].(*types.AttributeValueMemberS).Value
	item["Projects"] = &types.AttributeValueMemberS{Value: updated}

	return &awsdynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.err != nil {
		return nil, f.err
	}

	if f.queryPages != nil {
		page := f.queryPages[0]
		f.queryPages = f.queryPages[1:]
		out := &awsdynamodb.QueryOutput{Items: page}
		if len(f.queryPages) > 0 {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "cursor"},
			}
		} else {
			f.queryPages = nil
		}
		return out, nil
	}

	wanted := params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value
	out := &awsdynamodb.QueryOutput{}
	for _, item := range f.items {
		if gsi, ok := stringAttr(item, "GSI1PK"); ok && gsi == wanted {
			out.Items = append(out.Items, copyItem(item))
		}
	}
	return out, nil
}
