package nutrition

// Source tags for food record provenance.
const (
	SourceUSDA        = "usda"
	SourceLLMEstimate = "llm_estimate"
	SourceUserAdded   = "user_added"
)

// Canonical nutrient keys. Macros are reported separately from micros; any
// other key present in a record (iron_mg, vitamin_c_mg, ...) is a micro.
const (
	NutrientCalories = "calories"
	NutrientCarbs    = "carbs"
	NutrientProtein  = "protein"
	NutrientFat      = "fat"
)

// FoodRecord is one reference food with nutrient values per 100g. The
// Nutrients map is sparse: a key absent from the map means the value is
// unknown for this record, not zero.
type FoodRecord struct {
	FoodID      string             `json:"food_id"`
	Description string             `json:"description"`
	Source      string             `json:"source"`
	Confidence  float64            `json:"confidence"`
	Nutrients   map[string]float64 `json:"nutrients,omitempty"`
}

// IsMacro reports whether key is one of the three macro nutrients.
func IsMacro(key string) bool {
	return key == NutrientCarbs || key == NutrientProtein || key == NutrientFat
}
