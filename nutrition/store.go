package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nutritionagent/tools/storage"
)

// Store is the read-only reference collection of food records. Once built it
// is safe to share across concurrent sessions without locking. Insertion
// order is preserved so equal-score matches rank reproducibly.
type Store struct {
	records []FoodRecord
	byID    map[string]int
}

// NewStore loads and validates records from the given state. Any load or
// decode failure wraps ErrStoreUnavailable: the core cannot proceed without
// its reference data.
func NewStore(ctx context.Context, state storage.StoreState) (*Store, error) {
	data, err := state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var records []FoodRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrStoreUnavailable, err)
	}

	return newStore(records)
}

// NewStoreFromRecords builds a store directly from records, primarily for tests.
func NewStoreFromRecords(records []FoodRecord) (*Store, error) {
	return newStore(records)
}

func newStore(records []FoodRecord) (*Store, error) {
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		if rec.FoodID == "" {
			return nil, fmt.Errorf("%w: record %d has no food_id", ErrInvalidRecord, i)
		}
		if _, dup := byID[rec.FoodID]; dup {
			return nil, fmt.Errorf("%w: duplicate food_id %q", ErrInvalidRecord, rec.FoodID)
		}
		for key, val := range rec.Nutrients {
			if val < 0 {
				return nil, fmt.Errorf("%w: %s has negative %s", ErrInvalidRecord, rec.FoodID, key)
			}
		}
		byID[rec.FoodID] = i
	}
	return &Store{records: records, byID: byID}, nil
}

// Records returns all records in insertion order. Callers must not mutate.
func (s *Store) Records() []FoodRecord {
	return s.records
}

// Count returns the number of records in the store.
func (s *Store) Count() int {
	return len(s.records)
}

// ByID returns the record with the given food_id.
func (s *Store) ByID(foodID string) (FoodRecord, bool) {
	i, ok := s.byID[foodID]
	if !ok {
		return FoodRecord{}, false
	}
	return s.records[i], true
}

// Search returns records whose description contains text, case-insensitively,
// in insertion order.
func (s *Store) Search(text string) []FoodRecord {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}

	var out []FoodRecord
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Description), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// HighProtein returns records with at least minProtein grams of protein per
// 100g. Records without protein data are excluded, not treated as zero.
func (s *Store) HighProtein(minProtein float64) []FoodRecord {
	var out []FoodRecord
	for _, rec := range s.records {
		if p, ok := rec.Nutrients[NutrientProtein]; ok && p >= minProtein {
			out = append(out, rec)
		}
	}
	return out
}
