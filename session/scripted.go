package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"nutritionagent"
	"nutritionagent/tools"
)

// Ingredient is one item/quantity pair the scripted reasoner works through.
type Ingredient struct {
	Item string `json:"item"`
	Qty  string `json:"qty"`
}

// ScriptedReasoner is a deterministic stand-in for a real reasoning process.
// It looks up each ingredient, computes the total profile, then finalizes.
// It only serves as a learning aid to exercise the session loop phases; real
// reasoners may not be so kind.
type ScriptedReasoner struct {
	ingredients []Ingredient
}

func NewScriptedReasoner(ingredients []Ingredient) *ScriptedReasoner {
	return &ScriptedReasoner{ingredients: ingredients}
}

// Decide implements Reasoner.
func (r *ScriptedReasoner) Decide(ctx context.Context, task string, history []Observation) (Decision, error) {
	slog.Info("SCRIPTED: Invoked", "history_len", len(history))

	// Phase 1: no lookups yet -> look up every ingredient.
	if !hasOutput(history, "ingredient_lookup") {
		calls := make([]tools.Call, 0, len(r.ingredients))
		for _, ing := range r.ingredients {
			calls = append(calls, tools.Call{
				Name:  "ingredient_lookup",
				Input: map[string]any{"name": ing.Item, "max_results": float64(3)},
			})
		}
		slog.Info("SCRIPTED: Returning lookup calls", "count", len(calls))
		return Decision{ToolCalls: calls}, nil
	}

	// Phase 2: lookups done -> compute the aggregate profile.
	if !hasOutput(history, computeToolName) {
		items := make([]any, 0, len(r.ingredients))
		for _, ing := range r.ingredients {
			items = append(items, map[string]any{"item": ing.Item, "qty": ing.Qty})
		}
		slog.Info("SCRIPTED: Returning nutrition_compute call")
		return Decision{ToolCalls: []tools.Call{{
			Name:  computeToolName,
			Input: map[string]any{"ingredients": items},
		}}}, nil
	}

	// Phase 3: computation observed -> finalize with its data.
	for i := len(history) - 1; i >= 0; i-- {
		obs := history[i]
		if obs.Tool != computeToolName || obs.Output == nil {
			continue
		}
		final, err := json.Marshal(reportFromProfile(obs.Output, len(r.ingredients)))
		if err != nil {
			return Decision{}, fmt.Errorf("failed to marshal final answer: %w", err)
		}
		slog.Info("SCRIPTED: Returning final answer")
		return Decision{Final: string(final)}, nil
	}

	return Decision{}, fmt.Errorf("no nutrition_compute observation to finalize from")
}

func hasOutput(history []Observation, tool string) bool {
	for _, obs := range history {
		if obs.Tool == tool && obs.Output != nil {
			return true
		}
	}
	return false
}

// reportFromProfile reads a rendered computation observation back into the
// structured report the session accepts as final.
func reportFromProfile(output map[string]any, ingredientCount int) nutritionagent.NutritionReport {
	report := nutritionagent.NutritionReport{
		Summary: fmt.Sprintf("Aggregate nutrition for %d ingredients.", ingredientCount),
		Macros:  map[string]float64{},
		Micros:  map[string]float64{},
	}

	if s, ok := output["calories"].(string); ok {
		report.Calories = parseAmount(s)
	}
	if macros, ok := output["macros"].(map[string]any); ok {
		for key, v := range macros {
			if s, ok := v.(string); ok {
				report.Macros[key] = parseAmount(s)
			}
		}
	}
	if micros, ok := output["micros"].(map[string]any); ok {
		for key, v := range micros {
			if s, ok := v.(string); ok {
				report.Micros[key] = parseAmount(s)
			}
		}
	}
	if unresolved, ok := output["unresolved"].([]any); ok {
		for _, v := range unresolved {
			if name, ok := v.(string); ok {
				report.Unresolved = append(report.Unresolved, name)
			}
		}
	}

	return report
}

// parseAmount strips the unit suffix from a rendered value ("296.0 kcal").
func parseAmount(s string) float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return v
}
