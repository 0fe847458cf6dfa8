package nutritionagent

import (
	"context"

	"nutritionagent/tools"
)

type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

// SessionRunner drives one planning session against the nutrition tools.
type SessionRunner interface {
	Run(ctx context.Context, task string) (string, error)
}

// NutritionReport is the final structured answer expected from the reasoning process.
type NutritionReport struct {
	Summary    string            `json:"summary"`
	Calories   float64           `json:"calories"`
	Macros     map[string]float64 `json:"macros"`
	Micros     map[string]float64 `json:"micros"`
	Unresolved []string          `json:"unresolved"`
}

// IsValid checks if the NutritionReport meets basic validation requirements
func (r *NutritionReport) IsValid() bool {
	if r.Summary == "" {
		return false
	}

	// Calories must be non-negative; zero is legal when nothing resolved,
	// but then every ingredient must be accounted for in Unresolved.
	if r.Calories < 0 {
		return false
	}
	if r.Calories == 0 && len(r.Unresolved) == 0 {
		return false
	}

	for _, v := range r.Macros {
		if v < 0 {
			return false
		}
	}
	for _, v := range r.Micros {
		if v < 0 {
			return false
		}
	}

	return true
}
