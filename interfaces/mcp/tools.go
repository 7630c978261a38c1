package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"vault-backend/application/services"
	pkgerrors "vault-backend/pkg/errors"
)

// VaultTools holds references needed by the tool handlers
type VaultTools struct {
	Service  *services.VaultService
	Identity string
	Logger   *zap.Logger
}

// --- Input types ---

type SaveContextInput struct {
	Project string `json:"project" jsonschema:"Project identifier to tag the entry with"`
	Content string `json:"content" jsonschema:"Free-text content to remember"`
}

type GetContextInput struct {
	Project string `json:"project" jsonschema:"Project identifier to load entries for"`
}

type AddProjectInput struct {
	Name string `json:"name" jsonschema:"Human-readable project name; a unique suffix is appended"`
}

// --- Output types ---

type contextEntryOutput struct {
	User    string `json:"user"`
	Project string `json:"project"`
	Content string `json:"content"`
}

type userOutput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Projects  []string `json:"projects"`
	CreatedAt int64    `json:"createdAt"`
}

// --- Handlers ---

func (t *VaultTools) SaveContext(ctx context.Context, _ *mcp.CallToolRequest, input SaveContextInput) (*mcp.CallToolResult, any, error) {
	entry, err := t.Service.SubmitContext(ctx, t.Identity, input.Project, input.Content)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return toolError("No registry record for identity %q; establish the identity first", t.Identity), nil, nil
		}
		return toolError("Failed to save context: %v", err), nil, nil
	}
	return toolJSON(map[string]string{"id": entry.ID()})
}

func (t *VaultTools) GetContext(ctx context.Context, _ *mcp.CallToolRequest, input GetContextInput) (*mcp.CallToolResult, any, error) {
	entries, err := t.Service.GetContextByProject(ctx, input.Project)
	if err != nil {
		return toolError("Failed to load context: %v", err), nil, nil
	}

	out := make([]contextEntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, contextEntryOutput{
			User:    entry.User(),
			Project: entry.Project(),
			Content: entry.Content(),
		})
	}
	return toolJSON(out)
}

func (t *VaultTools) ListProjects(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	projects, err := t.Service.ListUserProjects(ctx, t.Identity)
	if err != nil {
		return toolError("Failed to list projects: %v", err), nil, nil
	}
	return toolJSON(projects)
}

func (t *VaultTools) AddProject(ctx context.Context, _ *mcp.CallToolRequest, input AddProjectInput) (*mcp.CallToolResult, any, error) {
	user, err := t.Service.AddProject(ctx, t.Identity, input.Name)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return toolError("No registry record for identity %q; establish the identity first", t.Identity), nil, nil
		}
		return toolError("Failed to add project: %v", err), nil, nil
	}
	return toolJSON(toUserOutput(user.ID(), user.Name(), user.Projects(), user.CreatedAt().Unix()))
}

func (t *VaultTools) GetUser(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	user, err := t.Service.GetUserProfile(ctx, t.Identity)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return toolJSON(struct{}{})
		}
		return toolError("Failed to get user: %v", err), nil, nil
	}
	return toolJSON(toUserOutput(user.ID(), user.Name(), user.Projects(), user.CreatedAt().Unix()))
}

// --- Helpers ---

func toUserOutput(id, name string, projects []string, createdAt int64) userOutput {
	return userOutput{ID: id, Name: name, Projects: projects, CreatedAt: createdAt}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError("Failed to encode result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
