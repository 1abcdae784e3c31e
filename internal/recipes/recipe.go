package recipes

import (
	"context"

	"mealmind/internal/constraints"
	"mealmind/internal/profile"
	"mealmind/internal/shared"
)

// Meal types in the fixed planning order.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// MealTypes lists the meal slots of a day in planning order.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner}

// Ingredient is one ingredient line of a recipe. Unit is "grams", "ml" or
// "pieces".
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Candidate is a recipe proposed for one meal slot. Candidates are immutable
// once validated; a regeneration always produces a new Candidate.
type Candidate struct {
	Name               string       `json:"name"`
	MealType           string       `json:"meal_type"`
	Cuisine            string       `json:"cuisine,omitempty"`
	CookingTimeMinutes int          `json:"cooking_time_minutes"`
	Servings           int          `json:"servings"`
	Ingredients        []Ingredient `json:"ingredients"`
	Instructions       []string     `json:"instructions"`
	Tags               []string     `json:"tags,omitempty"`
	SuitableFor        []string     `json:"suitable_for,omitempty"`
}

// MemoryContext is the compacted long-term memory passed into generation
// prompts.
type MemoryContext struct {
	CommonIngredients   []string
	DislikedIngredients []string
	PlansGenerated      int
}

// PlanningContext is everything about the household a generator needs to
// propose a fitting recipe.
type PlanningContext struct {
	HouseholdID        string
	Members            []profile.Member
	CookingTimeMax     int
	Appliances         []string
	BudgetWeekly       float64
	CuisinePreferences []string
	Memory             MemoryContext
}

// Request asks a Source for one candidate. Feedback is empty on the first
// attempt for a slot and carries the prior attempt's validation feedback on
// retries.
type Request struct {
	MealType    string
	Context     PlanningContext
	Constraints constraints.ConstraintSet
	Feedback    string
}

// Source produces candidate recipes. Implementations may fail; callers are
// expected to substitute a deterministic fallback candidate on error.
type Source interface {
	Generate(ctx context.Context, req Request) (Candidate, shared.AgentMeta, error)
}
