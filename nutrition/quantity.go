package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

// Method tags how a quantity was normalized to grams.
type Method string

const (
	MethodMass       Method = "mass"
	MethodVolume     Method = "volume"
	MethodCount      Method = "count"
	MethodVague      Method = "vague"
	MethodUnresolved Method = "unresolved"
)

// Quantity is a raw quantity expression plus its derived gram weight. Grams
// is meaningful only when Method is not MethodUnresolved, and is then
// strictly positive.
type Quantity struct {
	Raw    string `json:"raw"`
	Grams  float64 `json:"grams"`
	Method Method `json:"method"`
}

// Resolved reports whether the quantity carries a usable gram weight.
func (q Quantity) Resolved() bool {
	return q.Method != MethodUnresolved
}

// massUnits convert directly to grams.
var massUnits = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"mg": 0.001,
	"oz": 28.35, "ounce": 28.35, "ounces": 28.35,
	"lb": 453.6, "lbs": 453.6, "pound": 453.6, "pounds": 453.6,
}

// volumeUnits use density-agnostic approximations (1 tbsp ~ 15g regardless
// of the ingredient). A known accuracy limitation, kept deliberately.
var volumeUnits = map[string]float64{
	"tsp": 5, "teaspoon": 5, "teaspoons": 5,
	"tbsp": 15, "tablespoon": 15, "tablespoons": 15,
	"cup": 240, "cups": 240,
	"ml": 1, "milliliter": 1, "milliliters": 1,
	"l": 1000, "liter": 1000, "liters": 1000,
}

// unitWeights are average per-unit weights for countable quantities.
var unitWeights = map[string]float64{
	"clove": 5, "cloves": 5,
	"slice": 30, "slices": 30,
	"egg": 50, "eggs": 50,
	"can": 400, "cans": 400,
	"bunch": 150, "bunches": 150,
	"pinch": 1, "pinches": 1,
	"handful": 10, "handfuls": 10,
}

// genericUnitWeight applies to countable quantities with no known unit class.
const genericUnitWeight = 50.0

// vagueWeights are small fixed fallbacks for quantities with no numeric token.
var vagueWeights = []struct {
	keyword string
	grams   float64
}{
	{"to taste", 1},
	{"handful", 10},
	{"pinch", 1},
	{"dash", 1},
	{"splash", 5},
}

// magnitudePattern matches a leading number with optional fraction
// ("1/2", "1 1/2") or range ("1-2"). ASCII digits only.
var magnitudePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(?:\s+(\d+)\s*/\s*(\d+)|\s*/\s*(\d+)|\s*-\s*(\d+(?:\.\d+)?))?`)

// Normalize parses a quantity expression into a gram weight. It never fails:
// an expression with no numeric token and no vague-quantity keyword comes
// back tagged MethodUnresolved for the aggregator to report.
func Normalize(raw string) Quantity {
	text := strings.ToLower(strings.TrimSpace(raw))
	unresolved := Quantity{Raw: raw, Method: MethodUnresolved}

	magnitude, rest, ok := parseMagnitude(text)
	if !ok {
		for _, v := range vagueWeights {
			if strings.Contains(text, v.keyword) {
				return Quantity{Raw: raw, Grams: v.grams, Method: MethodVague}
			}
		}
		return unresolved
	}
	if magnitude <= 0 {
		return unresolved
	}

	unit := unitToken(rest)
	if factor, ok := massUnits[unit]; ok {
		return Quantity{Raw: raw, Grams: magnitude * factor, Method: MethodMass}
	}
	if factor, ok := volumeUnits[unit]; ok {
		return Quantity{Raw: raw, Grams: magnitude * factor, Method: MethodVolume}
	}

	// Countable: per-class average unit weight when known, generic otherwise.
	weight := genericUnitWeight
	if w, ok := unitWeights[unit]; ok {
		weight = w
	}
	return Quantity{Raw: raw, Grams: magnitude * weight, Method: MethodCount}
}

// parseMagnitude extracts the numeric magnitude from the front of text,
// resolving fractions and range midpoints, and returns the remainder.
func parseMagnitude(text string) (float64, string, bool) {
	m := magnitudePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, text, false
	}

	whole, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, text, false
	}

	value := whole
	switch {
	case m[2] != "" && m[3] != "": // mixed fraction: "1 1/2"
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den > 0 {
			value = whole + num/den
		}
	case m[4] != "": // plain fraction: "1/2"
		den, _ := strconv.ParseFloat(m[4], 64)
		if den > 0 {
			value = whole / den
		}
	case m[5] != "": // range: "1-2" resolves to its midpoint
		hi, _ := strconv.ParseFloat(m[5], 64)
		value = (whole + hi) / 2
	}

	rest := strings.TrimSpace(text[len(m[0]):])
	return value, rest, true
}

// unitToken picks the unit word following the magnitude, skipping filler.
func unitToken(rest string) string {
	fields := strings.Fields(rest)
	for _, f := range fields {
		f = strings.Trim(f, ".,")
		if f == "of" || f == "a" || f == "an" || f == "" {
			continue
		}
		return f
	}
	return ""
}
