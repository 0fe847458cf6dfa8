package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherExactMatch(t *testing.T) {
	matcher := NewMatcher(newTestStore(t))

	// Case-insensitive containment counts as exact and scores 1.0.
	candidates := matcher.Match(IngredientQuery{Name: "broccoli"})
	require.NotEmpty(t, candidates)

	top := candidates[0]
	assert.Equal(t, "usda_broccoli_raw", top.Record.FoodID)
	assert.Equal(t, 1.0, top.Score)
	assert.GreaterOrEqual(t, top.Confidence, top.Score)
	assert.LessOrEqual(t, top.Confidence, 1.0)
}

func TestMatcherFuzzyMatch(t *testing.T) {
	matcher := NewMatcher(newTestStore(t))

	// "canned chickpeas" is not a contiguous substring of any description, so
	// this exercises the blended fuzzy path.
	candidates := matcher.Match(IngredientQuery{Name: "canned chickpeas"})
	require.NotEmpty(t, candidates)

	top := candidates[0]
	assert.Equal(t, "usda_chickpeas_canned", top.Record.FoodID)
	assert.Greater(t, top.Score, 0.4)
	assert.Less(t, top.Score, 1.0)
	assert.GreaterOrEqual(t, top.Confidence, top.Score)
}

func TestMatcherNoMatch(t *testing.T) {
	matcher := NewMatcher(newTestStore(t))

	// Zero candidates is a valid outcome, not an error.
	assert.Empty(t, matcher.Match(IngredientQuery{Name: "unicorn dust"}))
	assert.Empty(t, matcher.Match(IngredientQuery{Name: ""}))
	assert.Empty(t, matcher.Match(IngredientQuery{Name: "   "}))
}

func TestMatcherTieBreakAndLimit(t *testing.T) {
	// Two records that both contain the query; ranking must follow insertion
	// order, and MaxResults must truncate.
	store, err := NewStoreFromRecords([]FoodRecord{
		{FoodID: "cheddar_block", Description: "Cheese, cheddar, block", Source: SourceUSDA},
		{FoodID: "cheddar_shredded", Description: "Cheese, cheddar, shredded", Source: SourceUSDA},
	})
	require.NoError(t, err)
	matcher := NewMatcher(store)

	candidates := matcher.Match(IngredientQuery{Name: "cheese"})
	require.Len(t, candidates, 2)
	assert.Equal(t, "cheddar_block", candidates[0].Record.FoodID)
	assert.Equal(t, "cheddar_shredded", candidates[1].Record.FoodID)

	limited := matcher.Match(IngredientQuery{Name: "cheese", MaxResults: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "cheddar_block", limited[0].Record.FoodID)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		ingredient  string
		description string
		check       func(t *testing.T, score float64)
	}{
		{
			name:        "identical after noise stripping",
			ingredient:  "coconut milk",
			description: "Coconut milk, canned",
			check: func(t *testing.T, score float64) {
				assert.InDelta(t, 1.0, score, 1e-9)
			},
		},
		{
			name:        "partial token overlap",
			ingredient:  "chickpeas",
			description: "Chickpeas (garbanzo beans), canned, drained",
			check: func(t *testing.T, score float64) {
				assert.Greater(t, score, 0.5)
				assert.Less(t, score, 1.0)
			},
		},
		{
			name:        "no relation",
			ingredient:  "unicorn dust",
			description: "Broccoli, raw",
			check: func(t *testing.T, score float64) {
				assert.Less(t, score, 0.2)
			},
		},
		{
			name:        "empty ingredient",
			ingredient:  "",
			description: "Broccoli, raw",
			check: func(t *testing.T, score float64) {
				assert.Zero(t, score)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.ingredient, tt.description)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			tt.check(t, score)
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		record   FoodRecord
		expected float64
	}{
		{
			name:     "usda bonus scaled by record confidence",
			score:    0.8,
			record:   FoodRecord{Source: SourceUSDA, Confidence: 0.95},
			expected: 0.8475,
		},
		{
			name:     "usda without stated confidence gets full bonus",
			score:    0.8,
			record:   FoodRecord{Source: SourceUSDA},
			expected: 0.85,
		},
		{
			name:     "llm estimate gets no bonus",
			score:    0.8,
			record:   FoodRecord{Source: SourceLLMEstimate, Confidence: 0.6},
			expected: 0.8,
		},
		{
			name:     "user added gets no bonus",
			score:    0.8,
			record:   FoodRecord{Source: SourceUserAdded},
			expected: 0.8,
		},
		{
			name:     "capped at one",
			score:    1.0,
			record:   FoodRecord{Source: SourceUSDA, Confidence: 0.95},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Confidence(tt.score, tt.record)
			assert.InDelta(t, tt.expected, c, 1e-9)
			assert.GreaterOrEqual(t, c, tt.score)
		})
	}
}
