package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutritionagent/nutrition"
)

type NutritionCompute struct {
	store           *nutrition.Store
	matcher         *nutrition.Matcher
	confidenceFloor float64
}

func NewNutritionCompute(store *nutrition.Store, confidenceFloor float64) *NutritionCompute {
	return &NutritionCompute{
		store:           store,
		matcher:         nutrition.NewMatcher(store),
		confidenceFloor: confidenceFloor,
	}
}

func (t *NutritionCompute) Name() string  { return "nutrition_compute" }
func (t *NutritionCompute) Title() string { return "Compute Recipe Nutrition" }
func (t *NutritionCompute) Description() string {
	return "Computes the aggregate nutrition profile for a list of ingredients with free-text quantities. An optional food_id from a prior ingredient_lookup pins that exact record instead of matching by name. Ingredients that cannot be matched or whose quantity cannot be parsed are listed under unresolved."
}

func (t *NutritionCompute) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ingredients": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"item":    {Type: "string"},
						"qty":     {Type: "string"},
						"food_id": {Type: "string"},
					},
					Required: []string{"item", "qty"},
				},
			},
		},
		Required: []string{"ingredients"},
	}
}

func (t *NutritionCompute) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"calories": {Type: "string"},
			"macros": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"carbs":   {Type: "string"},
					"protein": {Type: "string"},
					"fat":     {Type: "string"},
				},
			},
			"micros": {
				Type: "object",
				// keys vary with the contributing records
			},
			"unresolved": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"macros", "micros", "unresolved"},
	}
}

func (t *NutritionCompute) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	rawItems, ok := input["ingredients"].([]any)
	if !ok {
		return nil, fmt.Errorf("nutrition_compute requires an ingredients list")
	}

	items := make([]nutrition.LineItem, 0, len(rawItems))
	for i, raw := range rawItems {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ingredient %d is not an object", i)
		}
		name, ok := entry["item"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("ingredient %d has no item name", i)
		}
		qty, _ := entry["qty"].(string)

		item := nutrition.LineItem{Name: name, Quantity: nutrition.Normalize(qty)}

		// A food_id pin resolves directly; a pin that misses stays
		// unresolved rather than silently matching something else.
		// Otherwise pick the top-ranked candidate at or above the
		// confidence floor.
		if id, ok := entry["food_id"].(string); ok && id != "" {
			if record, found := t.store.ByID(id); found {
				item.Record = &record
			}
		} else if candidates := t.matcher.Match(nutrition.IngredientQuery{Name: name, MaxResults: 1}); len(candidates) > 0 {
			if candidates[0].Confidence >= t.confidenceFloor {
				record := candidates[0].Record
				item.Record = &record
			}
		}

		items = append(items, item)
	}

	profile := nutrition.Aggregate(items)

	out := map[string]any{
		"macros":     renderNutrients(profile.Macros()),
		"micros":     renderNutrients(profile.Micros()),
		"unresolved": unresolvedList(profile),
	}
	if calories, ok := profile.Calories(); ok {
		out["calories"] = renderValue(nutrition.NutrientCalories, calories)
	}

	return out, nil
}

func unresolvedList(profile nutrition.AggregatedProfile) []any {
	// Initialize to prevent nil when empty
	out := make([]any, 0, len(profile.Unresolved))
	for _, name := range profile.Unresolved {
		out = append(out, name)
	}
	return out
}

func renderNutrients(values map[string]float64) map[string]any {
	out := make(map[string]any, len(values))
	for key, v := range values {
		out[key] = renderValue(key, v)
	}
	return out
}

// renderValue renders a numeric nutrient with its unit suffix for the tool
// boundary. Internal values stay numeric; only the observation text carries
// units. Micro keys encode their unit in the suffix (iron_mg, folate_mcg).
func renderValue(key string, v float64) string {
	switch {
	case key == nutrition.NutrientCalories:
		return fmt.Sprintf("%.1f kcal", v)
	case strings.HasSuffix(key, "_mcg"):
		return fmt.Sprintf("%.1f mcg", v)
	case strings.HasSuffix(key, "_mg"):
		return fmt.Sprintf("%.1f mg", v)
	default:
		return fmt.Sprintf("%.1f g", v)
	}
}
