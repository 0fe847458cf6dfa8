package tools

import (
	"fmt"

	"nutritionagent/nutrition"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a new tool registry over the given reference store.
// confidenceFloor gates which match a nutrition computation will accept.
func NewRegistry(store *nutrition.Store, confidenceFloor float64) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("registry requires a nutrition store")
	}

	tools := map[string]Tool{
		"ingredient_lookup": NewIngredientLookup(store),
		"nutrition_compute": NewNutritionCompute(store, confidenceFloor),
	}

	registry := Registry(tools)
	return &registry, nil
}

// GetTools returns all tools in the registry as a slice
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
