// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
)

// NewMCPServer initializes and configures the ration MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Least-Cost Ration Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: formulate_ration ---
	s.AddTool(mcp.NewTool("formulate_ration",
		mcp.WithDescription("Compute the least-cost feed ration that meets the minimum nutrient fractions of a profile."),
		mcp.WithString("profile", mcp.Description("Requirement profile to formulate (defaults to the configured profile).")),
		mcp.WithNumber("target_mass", mcp.Description("Total ration mass in kg (defaults to the configured target mass).")),
		mcp.WithObject("requirements", mcp.Description("Minimum fractions keyed by nutrient, e.g. {\"cp\": 0.18}. Applied on top of the profile.")),
		mcp.WithString("catalog_path", mcp.Description("Ingredient catalog file (YAML, JSON or CSV). Defaults to the configured catalog.")),
	), h.handleFormulateRation)

	// --- 2. Tool: list_ingredients ---
	s.AddTool(mcp.NewTool("list_ingredients",
		mcp.WithDescription("List the ingredients of a catalog with their unit price and nutrient fractions."),
		mcp.WithString("catalog_path", mcp.Description("Ingredient catalog file. Defaults to the configured catalog.")),
	), h.handleListIngredients)

	// --- 3. Tool: list_profiles ---
	s.AddTool(mcp.NewTool("list_profiles",
		mcp.WithDescription("List the known requirement profiles and their minimum nutrient fractions."),
	), h.handleListProfiles)

	return s
}

// StartMCPServer starts the ration MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
