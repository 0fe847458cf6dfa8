package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		expectedGrams  float64
		expectedMethod Method
	}{
		{
			name:           "plain grams",
			raw:            "200g",
			expectedGrams:  200,
			expectedMethod: MethodMass,
		},
		{
			name:           "grams with space and word",
			raw:            "200 grams",
			expectedGrams:  200,
			expectedMethod: MethodMass,
		},
		{
			name:           "kilograms",
			raw:            "1.5 kg",
			expectedGrams:  1500,
			expectedMethod: MethodMass,
		},
		{
			name:           "ounces",
			raw:            "2 oz",
			expectedGrams:  56.7,
			expectedMethod: MethodMass,
		},
		{
			name:           "pounds",
			raw:            "1 lb",
			expectedGrams:  453.6,
			expectedMethod: MethodMass,
		},
		{
			name:           "cups",
			raw:            "2 cups",
			expectedGrams:  480,
			expectedMethod: MethodVolume,
		},
		{
			name:           "tablespoons",
			raw:            "1 tbsp",
			expectedGrams:  15,
			expectedMethod: MethodVolume,
		},
		{
			name:           "milliliters",
			raw:            "250 ml",
			expectedGrams:  250,
			expectedMethod: MethodVolume,
		},
		{
			name:           "plain fraction of a cup",
			raw:            "1/2 cup",
			expectedGrams:  120,
			expectedMethod: MethodVolume,
		},
		{
			name:           "mixed fraction",
			raw:            "1 1/2 cups",
			expectedGrams:  360,
			expectedMethod: MethodVolume,
		},
		{
			name:           "range resolves to midpoint",
			raw:            "1-2 tbsp",
			expectedGrams:  22.5,
			expectedMethod: MethodVolume,
		},
		{
			name:           "count with known unit weight",
			raw:            "2 cloves",
			expectedGrams:  10,
			expectedMethod: MethodCount,
		},
		{
			name:           "count with filler word",
			raw:            "2 cloves of garlic",
			expectedGrams:  10,
			expectedMethod: MethodCount,
		},
		{
			name:           "count of cans",
			raw:            "1 can",
			expectedGrams:  400,
			expectedMethod: MethodCount,
		},
		{
			name:           "count with no unit falls back to generic weight",
			raw:            "3",
			expectedGrams:  150,
			expectedMethod: MethodCount,
		},
		{
			name:           "count with unknown unit falls back to generic weight",
			raw:            "2 florets",
			expectedGrams:  100,
			expectedMethod: MethodCount,
		},
		{
			name:           "vague to taste",
			raw:            "to taste",
			expectedGrams:  1,
			expectedMethod: MethodVague,
		},
		{
			name:           "vague handful without magnitude",
			raw:            "a handful",
			expectedGrams:  10,
			expectedMethod: MethodVague,
		},
		{
			name:           "vague pinch",
			raw:            "pinch of salt",
			expectedGrams:  1,
			expectedMethod: MethodVague,
		},
		{
			name:           "uppercase input",
			raw:            "200G",
			expectedGrams:  200,
			expectedMethod: MethodMass,
		},
		{
			name:           "whitespace padding",
			raw:            "  2 cups  ",
			expectedGrams:  480,
			expectedMethod: MethodVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Normalize(tt.raw)
			assert.Equal(t, tt.raw, q.Raw)
			assert.Equal(t, tt.expectedMethod, q.Method)
			assert.InDelta(t, tt.expectedGrams, q.Grams, 1e-9)
			assert.True(t, q.Resolved())
			assert.Greater(t, q.Grams, 0.0, "resolved quantities carry a strictly positive gram weight")
		})
	}
}

func TestNormalizeUnresolved(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "no numeric token and no vague keyword", raw: "some"},
		{name: "words only", raw: "as needed"},
		{name: "zero magnitude", raw: "0 g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Normalize(tt.raw)
			assert.Equal(t, MethodUnresolved, q.Method)
			assert.False(t, q.Resolved())
			assert.Zero(t, q.Grams)
		})
	}
}
