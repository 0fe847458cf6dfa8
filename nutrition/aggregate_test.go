package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateScalesByGramWeight(t *testing.T) {
	records := testRecords()
	broccoli := records[2]

	// 100g of a single record reproduces its per-100g values exactly.
	profile := Aggregate([]LineItem{{
		Name:     "broccoli",
		Quantity: Quantity{Raw: "100g", Grams: 100, Method: MethodMass},
		Record:   &broccoli,
	}})

	assert.Empty(t, profile.Unresolved)
	require.Len(t, profile.Nutrients, len(broccoli.Nutrients))
	for key, expected := range broccoli.Nutrients {
		assert.InDelta(t, expected, profile.Nutrients[key], 1e-9, key)
	}

	// 250g scales linearly.
	scaled := Aggregate([]LineItem{{
		Name:     "broccoli",
		Quantity: Quantity{Raw: "250g", Grams: 250, Method: MethodMass},
		Record:   &broccoli,
	}})
	assert.InDelta(t, 85, scaled.Nutrients[NutrientCalories], 1e-9)
}

func TestAggregateOrderIndependent(t *testing.T) {
	records := testRecords()
	items := []LineItem{
		{Name: "chickpeas", Quantity: Quantity{Grams: 200, Method: MethodMass}, Record: &records[0]},
		{Name: "tomato", Quantity: Quantity{Grams: 120, Method: MethodCount}, Record: &records[1]},
		{Name: "olive oil", Quantity: Quantity{Grams: 15, Method: MethodVolume}, Record: &records[3]},
	}
	reversed := []LineItem{items[2], items[1], items[0]}

	forward := Aggregate(items)
	backward := Aggregate(reversed)

	require.Equal(t, len(forward.Nutrients), len(backward.Nutrients))
	for key, v := range forward.Nutrients {
		assert.InDelta(t, v, backward.Nutrients[key], 1e-9, key)
	}
}

func TestAggregateUnresolved(t *testing.T) {
	records := testRecords()

	profile := Aggregate([]LineItem{
		{
			Name:     "chickpeas",
			Quantity: Quantity{Grams: 100, Method: MethodMass},
			Record:   &records[0],
		},
		{
			// No acceptable match.
			Name:     "unicorn dust",
			Quantity: Quantity{Grams: 100, Method: MethodMass},
		},
		{
			// Matched but the quantity never parsed.
			Name:     "tomato",
			Quantity: Quantity{Raw: "some", Method: MethodUnresolved},
			Record:   &records[1],
		},
	})

	assert.Equal(t, []string{"unicorn dust", "tomato"}, profile.Unresolved)

	// Only the chickpeas contributed; the tomato's vitamin C key must be
	// absent, not zero.
	assert.InDelta(t, 139, profile.Nutrients[NutrientCalories], 1e-9)
	_, present := profile.Nutrients["vitamin_c_mg"]
	assert.False(t, present)
}

func TestAggregateSparseNutrients(t *testing.T) {
	records := testRecords()
	oliveOil := records[3]

	profile := Aggregate([]LineItem{{
		Name:     "olive oil",
		Quantity: Quantity{Grams: 15, Method: MethodVolume},
		Record:   &oliveOil,
	}})

	// The record carries only calories and fat; no other key may appear.
	assert.Len(t, profile.Nutrients, 2)
	assert.InDelta(t, 132.6, profile.Nutrients[NutrientCalories], 1e-9)
	assert.InDelta(t, 15, profile.Nutrients[NutrientFat], 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	profile := Aggregate(nil)
	assert.Empty(t, profile.Nutrients)
	assert.Empty(t, profile.Unresolved)

	_, ok := profile.Calories()
	assert.False(t, ok)
}

func TestAggregatedProfileSplits(t *testing.T) {
	records := testRecords()
	profile := Aggregate([]LineItem{{
		Name:     "tomato",
		Quantity: Quantity{Grams: 100, Method: MethodMass},
		Record:   &records[1],
	}})

	calories, ok := profile.Calories()
	require.True(t, ok)
	assert.InDelta(t, 18, calories, 1e-9)

	macros := profile.Macros()
	assert.Len(t, macros, 3)
	assert.Contains(t, macros, NutrientCarbs)
	assert.Contains(t, macros, NutrientProtein)
	assert.Contains(t, macros, NutrientFat)
	assert.NotContains(t, macros, NutrientCalories)

	micros := profile.Micros()
	assert.Len(t, micros, 1)
	assert.InDelta(t, 13.7, micros["vitamin_c_mg"], 1e-9)
}
