package dynamodb

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vault-backend/domain/core/entities"
)

// Record codec: translates between raw store items and the entity types.
//
// Context items exist in two shapes. Items written by the current backend
// carry their semantic fields as top-level attributes. Items written by the
// first dashboard generation carry a single "Fields" list attribute of
// alternating name/value string tokens. Both decode through one normalization
// path; shape is detected per item and is not a correctness signal.

const (
	fieldID      = "id"
	fieldUser    = "user"
	fieldProject = "project"
	fieldContent = "content"

	legacyFieldsAttr = "Fields"

	projectDelimiter = ","
)

// userItem is the stored representation of a registry record
type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ID         string `dynamodbav:"Id"`
	Name       string `dynamodbav:"Name"`
	Projects   string `dynamodbav:"Projects"`
	CreatedAt  int64  `dynamodbav:"CreatedAt"`
}

// contextItem is the current stored representation of a context entry
type contextItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	ID         string `dynamodbav:"Id"`
	User       string `dynamodbav:"User"`
	Project    string `dynamodbav:"Project"`
	Content    string `dynamodbav:"Content"`
}

// newUserItem builds the stored form of a registry record
func newUserItem(user *entities.User) userItem {
	return userItem{
		PK:         userPK(user.ID()),
		SK:         userSK,
		EntityType: entityTypeUser,
		ID:         user.ID(),
		Name:       user.Name(),
		Projects:   encodeProjects(user.Projects()),
		CreatedAt:  user.CreatedAt().Unix(),
	}
}

// newContextItem builds the stored form of a context entry
func newContextItem(entry *entities.ContextEntry) contextItem {
	return contextItem{
		PK:         userPK(entry.User()),
		SK:         contextSK(entry.ID()),
		GSI1PK:     projectGSIPK(entry.Project()),
		GSI1SK:     contextSK(entry.ID()),
		EntityType: entityTypeContext,
		ID:         entry.ID(),
		User:       entry.User(),
		Project:    entry.Project(),
		Content:    entry.Content(),
	}
}

// decodeUserItem rebuilds a User from a raw item. The projects field splits
// on the delimiter into ordered non-empty tokens; an absent or empty field
// yields an empty set rather than an error.
func decodeUserItem(raw map[string]types.AttributeValue) (*entities.User, error) {
	var item userItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user item: %w", err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("user item missing Id attribute")
	}
	return entities.ReconstructUser(item.ID, item.Name, splitProjects(item.Projects), item.CreatedAt), nil
}

// decodeContextItem normalizes a raw index record to a ContextEntry.
// Returns nil for malformed or incomplete records: partially-written items
// are expected under concurrent writes and are filtered, not failed.
func decodeContextItem(raw map[string]types.AttributeValue) *entities.ContextEntry {
	if legacy, ok := raw[legacyFieldsAttr]; ok {
		return decodeLegacyPairs(legacy)
	}

	var item contextItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil
	}
	if item.ID == "" || item.User == "" || item.Project == "" || item.Content == "" {
		return nil
	}
	return entities.ReconstructContextEntry(item.ID, item.User, item.Project, item.Content)
}

// decodeLegacyPairs parses the flat alternating name/value token list
func decodeLegacyPairs(attr types.AttributeValue) *entities.ContextEntry {
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok || len(list.Value)%2 != 0 {
		return nil
	}

	fields := make(map[string]string, len(list.Value)/2)
	for i := 0; i+1 < len(list.Value); i += 2 {
		name, ok := list.Value[i].(*types.AttributeValueMemberS)
		if !ok {
			return nil
		}
		value, ok := list.Value[i+1].(*types.AttributeValueMemberS)
		if !ok {
			return nil
		}
		fields[name.Value] = value.Value
	}

	// Exactly the four expected fields, nothing more, nothing missing.
	if len(fields) != 4 {
		return nil
	}
	for _, name := range []string{fieldID, fieldUser, fieldProject, fieldContent} {
		if fields[name] == "" {
			return nil
		}
	}

	return entities.ReconstructContextEntry(
		fields[fieldID],
		fields[fieldUser],
		fields[fieldProject],
		fields[fieldContent],
	)
}

// encodeProjects joins project identifiers with the storage delimiter.
// Identifier validation at the boundary guarantees the delimiter never
// appears inside a legal project identifier.
func encodeProjects(projects []string) string {
	return strings.Join(projects, projectDelimiter)
}

// splitProjects is the inverse of encodeProjects, dropping empty tokens
func splitProjects(joined string) []string {
	if joined == "" {
		return []string{}
	}
	parts := strings.Split(joined, projectDelimiter)
	projects := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			projects = append(projects, p)
		}
	}
	return projects
}
