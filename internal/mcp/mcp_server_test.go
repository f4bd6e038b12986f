package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	mcp_internal "github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/mcp"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		TargetMass:     schema.DefaultTargetMass,
		ProfileName:    schema.DefaultProfileName,
		Requirements:   schema.DairyRequirements(),
		Profiles:       schema.DefaultProfiles(),
		Precision:      contract.DefaultPrecision,
		Currency:       contract.DefaultCurrency,
		Workers:        1,
		SolverTimeout:  contract.DefaultSolverTimeout,
		HistoryBackend: schema.NoneBackend,
	}
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), nil, "test")
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestFormulateRation(t *testing.T) {
	res := callTool(t, "formulate_ration", map[string]any{})
	require.False(t, res.IsError, resultText(res))

	var decoded struct {
		Profile   string  `json:"profile"`
		TotalCost float64 `json:"total_cost"`
		Lines     []struct {
			Ingredient string  `json:"ingredient"`
			Quantity   float64 `json:"quantity"`
			Share      float64 `json:"share"`
		} `json:"lines"`
		Nutrients []struct {
			Nutrient string `json:"nutrient"`
			Label    string `json:"label"`
		} `json:"nutrients"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &decoded))
	assert.Equal(t, "dairy", decoded.Profile)
	assert.Equal(t, 30.65, decoded.TotalCost)
	require.Len(t, decoded.Lines, 4)
	assert.Equal(t, "Silagem de Milho", decoded.Lines[0].Ingredient)
	assert.InDelta(t, 70.85, decoded.Lines[0].Share, 1e-9)
	assert.Len(t, decoded.Nutrients, 5)
}

func TestFormulateRation_TargetMassScalesCost(t *testing.T) {
	res := callTool(t, "formulate_ration", map[string]any{"target_mass": 40.0})
	require.False(t, res.IsError, resultText(res))

	var decoded struct {
		TargetMass     float64 `json:"target_mass"`
		ObjectiveValue float64 `json:"objective_value"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &decoded))
	assert.Equal(t, 40.0, decoded.TargetMass)
	assert.InDelta(t, 2*30.659143968871597, decoded.ObjectiveValue, 1e-6)
}

func TestFormulateRation_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"unknown profile", map[string]any{"profile": "beef"}, `unknown profile "beef"`},
		{"requirements not an object", map[string]any{"requirements": "cp=0.2"}, "requirements must be an object"},
		{"requirement not a number", map[string]any{"requirements": map[string]any{"cp": "high"}}, `requirement "cp" must be a number`},
		{"unknown nutrient", map[string]any{"requirements": map[string]any{"fat": 0.05}}, "unknown nutrient 'fat'"},
		{"infeasible", map[string]any{"requirements": map[string]any{"ca": 0.5}}, "formulation failed (INFEASIBLE)"},
		{"negative mass", map[string]any{"target_mass": -5.0}, "formulation failed (INVALID_INPUT)"},
		{"missing catalog", map[string]any{"catalog_path": "/nonexistent/feed.yaml"}, "failed to load catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, "formulate_ration", tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestListIngredients(t *testing.T) {
	res := callTool(t, "list_ingredients", map[string]any{})
	require.False(t, res.IsError, resultText(res))

	var ingredients []schema.Ingredient
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &ingredients))
	require.Len(t, ingredients, 6)
	assert.Equal(t, "Minerais", ingredients[5].Name)
	assert.Equal(t, 0.16, ingredients[5].Content[schema.Calcium])
}

func TestListIngredients_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,price,cp\nCapim,0.3,0.08\n"), 0o644))

	res := callTool(t, "list_ingredients", map[string]any{"catalog_path": path})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "Capim")
}

func TestListProfiles(t *testing.T) {
	res := callTool(t, "list_profiles", nil)
	require.False(t, res.IsError)

	var profiles []schema.Profile
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "dairy", profiles[0].Name)
	assert.Equal(t, schema.DairyRequirements(), profiles[0].Requirements)
}
