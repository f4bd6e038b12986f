package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// blendResponse is the JSON returned by formulate_ration.
type blendResponse struct {
	RunID          string                         `json:"run_id"`
	Profile        string                         `json:"profile"`
	TargetMass     float64                        `json:"target_mass"`
	Lines          []schema.EnrichedBlendLine     `json:"lines"`
	TotalCost      float64                        `json:"total_cost"`
	ObjectiveValue float64                        `json:"objective_value"`
	Nutrients      []schema.EnrichedNutrientLevel `json:"nutrients"`
}

func (h *toolHandler) handleFormulateRation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("profile", ""); p != "" && p != cfg.ProfileName {
		reqs, ok := cfg.Profiles[p]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown profile %q", p)), nil
		}
		cfg.ProfileName = p
		cfg.Requirements = reqs
	}
	if m := request.GetFloat("target_mass", 0); m != 0 {
		cfg.TargetMass = m
	}
	if c := request.GetString("catalog_path", ""); c != "" {
		cfg.CatalogPath = c
	}

	overrides, err := requirementOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid requirements: %v", err)), nil
	}
	for _, r := range overrides {
		cfg.Requirements = cfg.Requirements.With(r.Nutrient, r.MinimumFraction)
	}

	result, err := core.GetFormulationResult(ctx, cfg, h.mgr)
	if err != nil {
		if kind := schema.KindOf(err); kind != "" {
			return mcp.NewToolResultError(fmt.Sprintf("formulation failed (%s): %v", kind, err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("formulation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(blendResponse{
		RunID:          result.RunID,
		Profile:        result.Profile,
		TargetMass:     result.TargetMass,
		Lines:          schema.EnrichLines(result),
		TotalCost:      result.TotalCost,
		ObjectiveValue: result.ObjectiveValue,
		Nutrients:      schema.EnrichNutrients(result.Nutrients),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListIngredients(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if c := request.GetString("catalog_path", ""); c != "" {
		cfg.CatalogPath = c
	}

	cat, err := core.GetCatalog(cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, _ := json.MarshalIndent(cat.Ingredients(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListProfiles(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.GetProfiles(h.baseCfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// requirementOverrides reads the optional requirements object of a tool call.
func requirementOverrides(request mcp.CallToolRequest) (schema.Requirements, error) {
	raw, ok := request.GetArguments()["requirements"]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("requirements must be an object of nutrient fractions")
	}
	values := make(map[string]float64, len(obj))
	for key, v := range obj {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("requirement %q must be a number", key)
		}
		values[key] = f
	}
	return contract.ParseRequirementMap(values)
}
