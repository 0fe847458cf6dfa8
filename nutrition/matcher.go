package nutrition

import (
	"sort"
	"strings"
)

// DefaultMaxResults bounds a lookup when the query does not ask for a count.
const DefaultMaxResults = 5

// scoreFloor discards fuzzy candidates with effectively no token overlap.
const scoreFloor = 0.2

// trustedSourceBonus is added to confidence for high-trust provenance.
const trustedSourceBonus = 0.05

// IngredientQuery is one lookup request against the store.
type IngredientQuery struct {
	Name       string
	MaxResults int
}

// MatchCandidate references a store record together with its match score and
// derived confidence, both in [0,1]. Score measures textual similarity only;
// confidence folds in provenance so rankings can be tuned without rescoring.
type MatchCandidate struct {
	Record     FoodRecord
	Score      float64
	Confidence float64
}

// Matcher ranks store candidates for free-text ingredient names.
type Matcher struct {
	store *Store
}

func NewMatcher(store *Store) *Matcher {
	return &Matcher{store: store}
}

// Match returns up to MaxResults candidates ordered by descending score,
// ties broken by store insertion order. An empty result is not an error;
// callers must handle zero candidates.
func (m *Matcher) Match(query IngredientQuery) []MatchCandidate {
	name := strings.TrimSpace(query.Name)
	if name == "" {
		return nil
	}

	max := query.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}

	// Exact pass: the query contained case-insensitively in a description
	// counts as an exact match and scores 1.0.
	if exact := m.store.Search(name); len(exact) > 0 {
		if len(exact) > max {
			exact = exact[:max]
		}
		out := make([]MatchCandidate, len(exact))
		for i, rec := range exact {
			out[i] = MatchCandidate{Record: rec, Score: 1.0, Confidence: Confidence(1.0, rec)}
		}
		return out
	}

	// Fuzzy pass over the whole store. Iterating in insertion order plus a
	// stable sort keeps equal-score rankings reproducible.
	var candidates []MatchCandidate
	for _, rec := range m.store.Records() {
		score := Score(name, rec.Description)
		if score < scoreFloor {
			continue
		}
		candidates = append(candidates, MatchCandidate{
			Record:     rec,
			Score:      score,
			Confidence: Confidence(score, rec),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

// Score computes textual similarity between an ingredient name and a food
// description: a blend of string similarity (30%), word overlap (50%) and
// key-token presence (20%).
func Score(ingredient, description string) float64 {
	a := normalizeText(ingredient)
	b := normalizeText(description)
	if a == "" || b == "" {
		return 0
	}

	return similarity(a, b)*0.3 + wordOverlap(a, b)*0.5 + keyTokenPresence(a, b)*0.2
}

// Confidence derives a candidate's confidence from its score and the record.
// USDA-sourced data gets a trust bonus, scaled by the record's own default
// confidence when one is stated; confidence never drops below score and is
// capped at 1.
func Confidence(score float64, rec FoodRecord) float64 {
	c := score
	if rec.Source == SourceUSDA {
		weight := rec.Confidence
		if weight <= 0 || weight > 1 {
			weight = 1
		}
		c += trustedSourceBonus * weight
	}
	if c > 1 {
		c = 1
	}
	return c
}

// noiseWords carry no signal for ingredient identity and are stripped before
// comparison.
var noiseWords = map[string]bool{
	"raw": true, "cooked": true, "fresh": true, "canned": true, "frozen": true,
	"dried": true, "with": true, "without": true, "added": true, "no": true,
	"low": true, "high": true, "organic": true, "prepared": true, "liquid": true,
	"expressed": true, "from": true, "grated": true, "meat": true,
}

func normalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	replacer := strings.NewReplacer(",", " ", "(", " ", ")", " ")
	text = replacer.Replace(text)

	var kept []string
	for _, w := range strings.Fields(text) {
		if len(w) > 1 && !noiseWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// wordOverlap is the fraction of ingredient words present in the description.
func wordOverlap(ingredient, description string) float64 {
	ingredientWords := strings.Fields(ingredient)
	if len(ingredientWords) == 0 {
		return 0
	}

	descWords := make(map[string]bool)
	for _, w := range strings.Fields(description) {
		descWords[w] = true
	}

	matches := 0
	for _, w := range ingredientWords {
		if descWords[w] {
			matches++
		}
	}
	return float64(matches) / float64(len(ingredientWords))
}

// keyTokenPresence checks whether the identifying words of the ingredient all
// appear in the description, regardless of order. Two-word ingredients like
// "coconut milk" require both words; longer ones require two thirds.
func keyTokenPresence(ingredient, description string) float64 {
	ingredientWords := strings.Fields(ingredient)
	descWords := make(map[string]bool)
	for _, w := range strings.Fields(description) {
		descWords[w] = true
	}

	matches := 0
	for _, w := range ingredientWords {
		if descWords[w] {
			matches++
		}
	}

	switch len(ingredientWords) {
	case 0:
		return 0
	case 1:
		if matches == 1 {
			return 1
		}
		return 0
	case 2:
		if matches == 2 {
			return 1
		}
		return 0
	default:
		threshold := float64(len(ingredientWords)) * 0.67
		if threshold < 2 {
			threshold = 2
		}
		if float64(matches) >= threshold {
			return 1
		}
		return 0
	}
}

// similarity is a Levenshtein-based ratio in [0,1] over the normalized strings.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rows instead of the full matrix.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
