package grocery

import (
	"math"
	"strings"

	"mealmind/internal/config"
	"mealmind/internal/logging"
)

// ItemCost is the price estimate for one aggregated ingredient.
type ItemCost struct {
	Ingredient    string  `json:"ingredient"`
	AmountGrams   float64 `json:"amount_grams"`
	EstimatedCost float64 `json:"estimated_cost"`
	PricePerKG    float64 `json:"price_per_kg"`
	Category      string  `json:"category"`
}

type priceEntry struct {
	name       string
	pricePerKG float64
	category   string
}

// Estimator prices ingredients from a static per-kilogram table seeded
// with the configured base costs. Matching order is fixed so partial
// matches are deterministic.
type Estimator struct {
	prices  []priceEntry
	protein float64
	veg     float64
	grain   float64
	dairy   float64
	logger  *logging.Logger
}

func NewEstimator(cfg *config.Config, logger *logging.Logger) *Estimator {
	protein := cfg.DefaultProteinCost
	veg := cfg.DefaultVegetableCost
	grain := cfg.DefaultGrainCost
	dairy := cfg.DefaultDairyCost

	return &Estimator{
		protein: protein,
		veg:     veg,
		grain:   grain,
		dairy:   dairy,
		logger:  logger,
		prices: []priceEntry{
			{"chicken", protein, "protein"},
			{"beef", protein * 1.5, "protein"},
			{"pork", protein * 1.2, "protein"},
			{"fish", protein * 1.8, "protein"},
			{"salmon", protein * 2.0, "protein"},
			{"turkey", protein * 1.1, "protein"},
			{"tofu", protein * 0.5, "protein"},
			{"egg", protein * 0.8, "protein"},
			{"lentils", protein * 0.3, "protein"},
			{"beans", protein * 0.3, "protein"},

			{"broccoli", veg, "vegetable"},
			{"spinach", veg * 1.2, "vegetable"},
			{"carrot", veg * 0.7, "vegetable"},
			{"tomato", veg * 0.9, "vegetable"},
			{"onion", veg * 0.6, "vegetable"},
			{"garlic", veg * 2.0, "vegetable"},
			{"bell pepper", veg * 1.3, "vegetable"},
			{"lettuce", veg * 0.8, "vegetable"},
			{"cucumber", veg * 0.9, "vegetable"},
			{"zucchini", veg * 1.0, "vegetable"},

			{"rice", grain, "grain"},
			{"pasta", grain * 1.1, "grain"},
			{"bread", grain * 1.5, "grain"},
			{"quinoa", grain * 2.5, "grain"},
			{"oats", grain * 0.8, "grain"},
			{"potato", veg * 0.5, "grain"},
			{"sweet potato", veg * 0.8, "grain"},

			{"milk", dairy * 0.5, "dairy"},
			{"cheese", dairy * 1.5, "dairy"},
			{"yogurt", dairy * 0.8, "dairy"},
			{"butter", dairy * 1.2, "dairy"},
			{"cream", dairy * 1.0, "dairy"},

			{"olive oil", 15.0, "oil"},
			{"vegetable oil", 8.0, "oil"},
			{"soy sauce", 6.0, "condiment"},
			{"vinegar", 4.0, "condiment"},
			{"honey", 12.0, "condiment"},

			{"salt", 2.0, "spice"},
			{"pepper", 20.0, "spice"},
			{"cumin", 25.0, "spice"},
			{"paprika", 22.0, "spice"},
			{"basil", 30.0, "herb"},
			{"oregano", 28.0, "herb"},
		},
	}
}

// EstimateIngredient prices an ingredient amount. Unknown ingredients
// fall through to a generic price so the list total stays usable.
func (e *Estimator) EstimateIngredient(ingredient string, amountGrams float64) ItemCost {
	pricePerKG, category := e.findPrice(ingredient)
	cost := pricePerKG * amountGrams / 1000.0

	return ItemCost{
		Ingredient:    ingredient,
		AmountGrams:   amountGrams,
		EstimatedCost: math.Round(cost*100) / 100,
		PricePerKG:    pricePerKG,
		Category:      category,
	}
}

func (e *Estimator) findPrice(ingredient string) (float64, string) {
	name := strings.ToLower(ingredient)

	for _, entry := range e.prices {
		if entry.name == name {
			return entry.pricePerKG, entry.category
		}
	}

	for _, entry := range e.prices {
		if strings.Contains(name, entry.name) || strings.Contains(entry.name, name) {
			e.logger.Info("ingredient_cost_partial_match", "ingredient", ingredient, "matched", entry.name)
			return entry.pricePerKG, entry.category
		}
	}

	switch {
	case containsAny(name, "meat", "chicken", "beef", "pork", "fish"):
		return e.protein, "protein"
	case containsAny(name, "vegetable", "veggie", "green"):
		return e.veg, "vegetable"
	case containsAny(name, "rice", "pasta", "bread", "grain"):
		return e.grain, "grain"
	case containsAny(name, "milk", "cheese", "dairy", "yogurt"):
		return e.dairy, "dairy"
	}

	e.logger.Warn("ingredient_cost_generic_default", "ingredient", ingredient)
	return 10.0, "unknown"
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
