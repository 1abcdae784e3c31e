package nutrition

import (
	"context"
	"strings"
)

// Info holds nutrient values for a specific ingredient amount.
type Info struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`
	SodiumMG float64 `json:"sodium_mg"`
}

// Lookup resolves nutrient values for an ingredient amount in grams.
type Lookup interface {
	Lookup(ctx context.Context, ingredient string, amountGrams float64) (Info, error)
}

// Conversion captures the unit simplifications used when summing recipe
// nutrition: milliliters convert to grams at a fixed ratio and "pieces"
// lines are excluded entirely. Both are deliberate approximations.
type Conversion struct {
	MillilitersPerGram float64
	IncludePieces      bool
	DefaultServings    int
}

// DefaultConversion returns the standard conversion rules: 1 ml = 1 g,
// pieces skipped, 4 servings when a recipe does not state any.
func DefaultConversion() Conversion {
	return Conversion{
		MillilitersPerGram: 1.0,
		IncludePieces:      false,
		DefaultServings:    4,
	}
}

// per100g is nutrient data for 100 grams of an ingredient.
type per100g struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
	fiber    float64
}

type fallbackEntry struct {
	name string
	data per100g
}

// fallbackTable holds rough per-100g estimates for common ingredients,
// used when the USDA lookup is unavailable or fails. Ordered so matching
// is deterministic.
var fallbackTable = []fallbackEntry{
	{"chicken", per100g{calories: 165, protein: 31, carbs: 0, fat: 3.6, fiber: 0}},
	{"rice", per100g{calories: 130, protein: 2.7, carbs: 28, fat: 0.3, fiber: 0.4}},
	{"broccoli", per100g{calories: 34, protein: 2.8, carbs: 7, fat: 0.4, fiber: 2.6}},
	{"salmon", per100g{calories: 208, protein: 20, carbs: 0, fat: 13, fiber: 0}},
	{"egg", per100g{calories: 155, protein: 13, carbs: 1.1, fat: 11, fiber: 0}},
	{"olive oil", per100g{calories: 884, protein: 0, carbs: 0, fat: 100, fiber: 0}},
	{"tomato", per100g{calories: 18, protein: 0.9, carbs: 3.9, fat: 0.2, fiber: 1.2}},
	{"spinach", per100g{calories: 23, protein: 2.9, carbs: 3.6, fat: 0.4, fiber: 2.2}},
	{"potato", per100g{calories: 77, protein: 2, carbs: 17, fat: 0.1, fiber: 2.1}},
	{"beef", per100g{calories: 250, protein: 26, carbs: 0, fat: 15, fiber: 0}},
}

var genericFallback = per100g{calories: 100, protein: 5, carbs: 15, fat: 3, fiber: 2}

// FallbackTable is a Lookup backed entirely by the built-in estimate table.
// It never fails: unrecognized ingredients get a generic estimate.
type FallbackTable struct{}

func (FallbackTable) Lookup(_ context.Context, ingredient string, amountGrams float64) (Info, error) {
	data := genericFallback
	lower := strings.ToLower(ingredient)
	for _, entry := range fallbackTable {
		if strings.Contains(lower, entry.name) || strings.Contains(entry.name, lower) {
			data = entry.data
			break
		}
	}

	scale := amountGrams / 100.0
	return Info{
		Calories: data.calories * scale,
		ProteinG: data.protein * scale,
		CarbsG:   data.carbs * scale,
		FatG:     data.fat * scale,
		FiberG:   data.fiber * scale,
	}, nil
}
