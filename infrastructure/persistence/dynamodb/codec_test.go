package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault-backend/domain/core/entities"
)

func mapShapeItem(id, user, project, content string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: userPK(user)},
		"SK":         &types.AttributeValueMemberS{Value: contextSK(id)},
		"GSI1PK":     &types.AttributeValueMemberS{Value: projectGSIPK(project)},
		"GSI1SK":     &types.AttributeValueMemberS{Value: contextSK(id)},
		"EntityType": &types.AttributeValueMemberS{Value: entityTypeContext},
		"Id":         &types.AttributeValueMemberS{Value: id},
		"User":       &types.AttributeValueMemberS{Value: user},
		"Project":    &types.AttributeValueMemberS{Value: project},
		"Content":    &types.AttributeValueMemberS{Value: content},
	}
}

func legacyShapeItem(pairs ...string) map[string]types.AttributeValue {
	list := make([]types.AttributeValue, 0, len(pairs))
	for _, p := range pairs {
		list = append(list, &types.AttributeValueMemberS{Value: p})
	}
	return map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: "USER#u1"},
		"SK":     &types.AttributeValueMemberS{Value: "CONTEXT#legacy"},
		"Fields": &types.AttributeValueMemberL{Value: list},
	}
}

func TestDecodeContextItem_MapShape(t *testing.T) {
	entry := decodeContextItem(mapShapeItem("e1", "u1", "alpha-1a2b3c4d", "note1"))
	require.NotNil(t, entry)
	assert.Equal(t, "e1", entry.ID())
	assert.Equal(t, "u1", entry.User())
	assert.Equal(t, "alpha-1a2b3c4d", entry.Project())
	assert.Equal(t, "note1", entry.Content())
}

func TestDecodeContextItem_LegacyFlatShape(t *testing.T) {
	entry := decodeContextItem(legacyShapeItem(
		"id", "e1",
		"user", "u1",
		"project", "alpha-1a2b3c4d",
		"content", "note1",
	))
	require.NotNil(t, entry)
	assert.Equal(t, "e1", entry.ID())
	assert.Equal(t, "u1", entry.User())
	assert.Equal(t, "alpha-1a2b3c4d", entry.Project())
	assert.Equal(t, "note1", entry.Content())
}

func TestDecodeContextItem_RoundTrip(t *testing.T) {
	entry, err := entities.NewContextEntry("u1", "alpha-1a2b3c4d", "remember this")
	require.NoError(t, err)

	item := newContextItem(entry)
	raw := mapShapeItem(item.ID, item.User, item.Project, item.Content)

	decoded := decodeContextItem(raw)
	require.NotNil(t, decoded)
	assert.Equal(t, entry.User(), decoded.User())
	assert.Equal(t, entry.Project(), decoded.Project())
	assert.Equal(t, entry.Content(), decoded.Content())
}

func TestDecodeContextItem_Malformed(t *testing.T) {
	tests := []struct {
		name string
		item map[string]types.AttributeValue
	}{
		{
			name: "map shape missing content",
			item: func() map[string]types.AttributeValue {
				item := mapShapeItem("e1", "u1", "p1", "c1")
				delete(item, "Content")
				return item
			}(),
		},
		{
			name: "map shape empty user",
			item: mapShapeItem("e1", "", "p1", "c1"),
		},
		{
			name: "legacy odd token count",
			item: legacyShapeItem("id", "e1", "user"),
		},
		{
			name: "legacy missing field",
			item: legacyShapeItem("id", "e1", "user", "u1", "project", "p1"),
		},
		{
			name: "legacy extra field",
			item: legacyShapeItem("id", "e1", "user", "u1", "project", "p1", "content", "c1", "extra", "x"),
		},
		{
			name: "legacy non-string token",
			item: map[string]types.AttributeValue{
				"Fields": &types.AttributeValueMemberL{Value: []types.AttributeValue{
					&types.AttributeValueMemberS{Value: "id"},
					&types.AttributeValueMemberN{Value: "42"},
				}},
			},
		},
		{
			name: "legacy attribute not a list",
			item: map[string]types.AttributeValue{
				"Fields": &types.AttributeValueMemberS{Value: "id,e1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, decodeContextItem(tt.item))
		})
	}
}

func TestDecodeUserItem(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: userPK("u1")},
		"SK":        &types.AttributeValueMemberS{Value: userSK},
		"Id":        &types.AttributeValueMemberS{Value: "u1"},
		"Name":      &types.AttributeValueMemberS{Value: "Jane Doe"},
		"Projects":  &types.AttributeValueMemberS{Value: "alpha-1a2b,beta-3c4d"},
		"CreatedAt": &types.AttributeValueMemberN{Value: "1700000000"},
	}

	user, err := decodeUserItem(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID())
	assert.Equal(t, "Jane Doe", user.Name())
	assert.Equal(t, []string{"alpha-1a2b", "beta-3c4d"}, user.Projects())
	assert.Equal(t, int64(1700000000), user.CreatedAt().Unix())
}

func TestDecodeUserItem_MissingProjectsDefaultsEmpty(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"Id":        &types.AttributeValueMemberS{Value: "u1"},
		"Name":      &types.AttributeValueMemberS{Value: "Jane"},
		"CreatedAt": &types.AttributeValueMemberN{Value: "1700000000"},
	}

	user, err := decodeUserItem(raw)
	require.NoError(t, err)
	assert.Empty(t, user.Projects())
	assert.NotNil(t, user.Projects())
}

func TestEncodeSplitProjects(t *testing.T) {
	projects := []string{"alpha-1a2b", "beta-3c4d", "gamma-5e6f"}
	assert.Equal(t, projects, splitProjects(encodeProjects(projects)))

	assert.Equal(t, []string{}, splitProjects(""))
	assert.Equal(t, []string{"a"}, splitProjects("a,,"))
	assert.Equal(t, "", encodeProjects(nil))
}
