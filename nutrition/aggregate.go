package nutrition

// LineItem pairs one ingredient's quantity with its chosen food record.
// Record is nil when no candidate met the confidence floor.
type LineItem struct {
	Name     string
	Quantity Quantity
	Record   *FoodRecord
}

// AggregatedProfile is the summed nutrient profile across a list of line
// items. Nutrients holds only keys that received at least one contribution;
// a nutrient absent from every contributing record is omitted, never zeroed.
// Unresolved lists ingredients excluded from the totals.
type AggregatedProfile struct {
	Nutrients  map[string]float64
	Unresolved []string
}

// Aggregate scales each resolved line item's per-100g nutrients by its gram
// weight and sums them. Unresolved ingredients (no acceptable match, or an
// unparseable quantity) are recorded by name rather than silently dropped.
// Summation is order-independent up to float rounding.
func Aggregate(items []LineItem) AggregatedProfile {
	profile := AggregatedProfile{Nutrients: make(map[string]float64)}

	for _, item := range items {
		if item.Record == nil || !item.Quantity.Resolved() {
			profile.Unresolved = append(profile.Unresolved, item.Name)
			continue
		}

		scale := item.Quantity.Grams / 100.0
		for key, per100 := range item.Record.Nutrients {
			profile.Nutrients[key] += per100 * scale
		}
	}

	return profile
}

// Calories returns the summed calories, and whether any record contributed them.
func (p AggregatedProfile) Calories() (float64, bool) {
	v, ok := p.Nutrients[NutrientCalories]
	return v, ok
}

// Macros returns the carb/protein/fat subset of the profile.
func (p AggregatedProfile) Macros() map[string]float64 {
	out := make(map[string]float64)
	for key, v := range p.Nutrients {
		if IsMacro(key) {
			out[key] = v
		}
	}
	return out
}

// Micros returns every nutrient that is neither calories nor a macro.
func (p AggregatedProfile) Micros() map[string]float64 {
	out := make(map[string]float64)
	for key, v := range p.Nutrients {
		if key != NutrientCalories && !IsMacro(key) {
			out[key] = v
		}
	}
	return out
}
