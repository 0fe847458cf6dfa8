package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutritionagent/nutrition"
)

type IngredientLookup struct {
	store   *nutrition.Store
	matcher *nutrition.Matcher
}

func NewIngredientLookup(store *nutrition.Store) *IngredientLookup {
	return &IngredientLookup{store: store, matcher: nutrition.NewMatcher(store)}
}

func (t *IngredientLookup) Name() string  { return "ingredient_lookup" }
func (t *IngredientLookup) Title() string { return "Look Up Ingredient" }
func (t *IngredientLookup) Description() string {
	return "Finds reference foods matching an ingredient name using fuzzy matching. Returns candidates ordered by match_score with per-100g nutrient data."
}

func (t *IngredientLookup) InputSchema() *jsonschema.Schema {
	minResults := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {
				Type: "string",
			},
			"max_results": {
				Type:    "integer",
				Minimum: &minResults,
			},
		},
		Required: []string{"name"},
	}
}

func (t *IngredientLookup) OutputSchema() *jsonschema.Schema {
	minScore := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ingredient_searched": {Type: "string"},
			"results_found":       {Type: "integer"},
			"matches": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"food_id":     {Type: "string"},
						"description": {Type: "string"},
						"source":      {Type: "string"},
						"confidence":  {Type: "number", Minimum: &minScore},
						"match_score": {Type: "number", Minimum: &minScore},
						"nutrients": {
							Type: "object",
							// sparse per-100g values, keys vary per record
						},
					},
					Required: []string{"food_id", "description", "source", "confidence", "match_score"},
				},
			},
		},
		Required: []string{"ingredient_searched", "results_found", "matches"},
	}
}

func (t *IngredientLookup) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	name, ok := input["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("ingredient_lookup requires a non-empty name")
	}

	maxResults := nutrition.DefaultMaxResults
	if v, ok := input["max_results"].(float64); ok && v >= 1 {
		maxResults = int(v)
	}

	candidates := t.matcher.Match(nutrition.IngredientQuery{Name: name, MaxResults: maxResults})

	type outMatch struct {
		FoodID      string             `json:"food_id"`
		Description string             `json:"description"`
		Source      string             `json:"source"`
		Confidence  float64            `json:"confidence"`
		MatchScore  float64            `json:"match_score"`
		Nutrients   map[string]float64 `json:"nutrients,omitempty"`
	}
	out := struct {
		IngredientSearched string     `json:"ingredient_searched"`
		ResultsFound       int        `json:"results_found"`
		Matches            []outMatch `json:"matches"`
	}{
		IngredientSearched: name,
		ResultsFound:       len(candidates),
	}

	// Initialize matches slice to prevent nil when empty: a non-matching
	// query returns an empty list, never an error.
	out.Matches = make([]outMatch, 0, len(candidates))

	for _, c := range candidates {
		out.Matches = append(out.Matches, outMatch{
			FoodID:      c.Record.FoodID,
			Description: c.Record.Description,
			Source:      c.Record.Source,
			Confidence:  c.Confidence,
			MatchScore:  c.Score,
			Nutrients:   c.Record.Nutrients,
		})
	}

	// marshal -> map[string]any to keep outputs uniform
	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}
