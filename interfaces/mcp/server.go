// Package mcp exposes the gateway operations as MCP tools so agent clients
// can save and load shared context directly. The caller identity is fixed by
// server configuration; MCP clients never authenticate per call.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"vault-backend/application/services"
)

// New creates a fully configured MCP server with all tools registered
func New(service *services.VaultService, identity string, logger *zap.Logger) *mcp.Server {
	vt := &VaultTools{
		Service:  service,
		Identity: identity,
		Logger:   logger,
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "vault-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "save_context",
		Description: "Save a context entry under a project. Use whenever something worth remembering across sessions is learned.",
	}, vt.SaveContext)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_context",
		Description: "Load every context entry saved under a project. Recently saved entries may lag briefly behind the index.",
	}, vt.GetContext)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_projects",
		Description: "List the project identifiers registered for the configured identity",
	}, vt.ListProjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_project",
		Description: "Register a new project for the configured identity; returns the generated unique project identifier",
	}, vt.AddProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_user",
		Description: "Get the profile of the configured identity",
	}, vt.GetUser)

	return srv
}
