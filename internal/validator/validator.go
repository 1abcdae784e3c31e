package validator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"mealmind/internal/constraints"
	"mealmind/internal/logging"
	"mealmind/internal/nutrition"
	"mealmind/internal/profile"
	"mealmind/internal/recipes"
)

// restrictionPatterns maps each supported dietary restriction to the
// ingredient terms it forbids.
var restrictionPatterns = map[string][]string{
	"vegan":       {"meat", "chicken", "beef", "pork", "fish", "egg", "milk", "cheese", "butter", "cream", "yogurt"},
	"vegetarian":  {"meat", "chicken", "beef", "pork", "fish", "salmon"},
	"gluten-free": {"wheat", "bread", "pasta", "flour", "barley", "rye"},
	"dairy-free":  {"milk", "cheese", "butter", "cream", "yogurt"},
	"keto":        {"rice", "pasta", "bread", "potato", "sugar"},
	"low-carb":    {"rice", "pasta", "bread", "potato"},
}

// mealShares is the assumed fraction of a day's calories per meal type.
var mealShares = map[string]float64{
	recipes.MealBreakfast: 0.25,
	recipes.MealLunch:     0.35,
	recipes.MealDinner:    0.40,
}

const unknownMealShare = 0.33

// Result is the outcome of validating one candidate. It is never mutated
// after construction; revalidating the same inputs yields an identical
// Result.
type Result struct {
	Compliant           bool
	Violations          []string
	Warnings            []string
	Recommendations     []string
	NutritionPerServing nutrition.Info
}

// Validator checks candidate recipes against a household's constraints.
type Validator struct {
	lookup nutrition.Lookup
	conv   nutrition.Conversion
	logger *logging.Logger
}

// New creates a Validator using the given nutrient lookup and unit
// conversion rules.
func New(lookup nutrition.Lookup, conv nutrition.Conversion, logger *logging.Logger) *Validator {
	return &Validator{
		lookup: lookup,
		conv:   conv,
		logger: logger,
	}
}

// Validate runs every check against the candidate, in severity order:
// allergens, dietary restrictions, health conditions, calorie targets,
// nutritional balance. Only the first three can produce blocking
// violations; a candidate is compliant when it has none.
func (v *Validator) Validate(ctx context.Context, recipe recipes.Candidate, roster []profile.Member, set constraints.ConstraintSet) Result {
	result := Result{
		NutritionPerServing: v.nutritionPerServing(ctx, recipe),
	}

	result.Violations = append(result.Violations, v.checkAllergens(recipe, set.Allergies)...)
	result.Violations = append(result.Violations, v.checkRestrictions(recipe, set.DietaryRestrictions)...)

	conditionViolations, conditionWarnings := v.checkHealthConditions(recipe, set)
	result.Violations = append(result.Violations, conditionViolations...)
	result.Warnings = append(result.Warnings, conditionWarnings...)

	result.Warnings = append(result.Warnings, v.checkCalorieTargets(result.NutritionPerServing, roster, recipe.MealType)...)

	if result.NutritionPerServing.ProteinG < 15 {
		result.Recommendations = append(result.Recommendations, "Consider adding more protein sources")
	}
	if result.NutritionPerServing.FiberG < 5 {
		result.Recommendations = append(result.Recommendations, "Consider adding more fiber-rich ingredients")
	}
	if result.NutritionPerServing.SodiumMG > 800 {
		result.Warnings = append(result.Warnings, "High sodium content - consider reducing salt")
	}

	result.Compliant = len(result.Violations) == 0

	v.logger.Info("recipe_validated",
		"recipe", recipe.Name,
		"compliant", result.Compliant,
		"violations", len(result.Violations),
		"warnings", len(result.Warnings),
	)

	return result
}

// checkAllergens is the highest severity check and can never be downgraded
// to a warning. A plural allergen term also matches its singular form, so
// "peanuts" catches "peanut butter".
func (v *Validator) checkAllergens(recipe recipes.Candidate, allergies []string) []string {
	var violations []string
	for _, ing := range recipe.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, allergen := range allergies {
			term := strings.ToLower(allergen)
			if strings.Contains(name, term) || strings.Contains(name, strings.TrimSuffix(term, "s")) {
				violations = append(violations, fmt.Sprintf("ALLERGEN ALERT: %s (found in %s)", allergen, ing.Name))
			}
		}
	}
	return violations
}

func (v *Validator) checkRestrictions(recipe recipes.Candidate, restrictions []string) []string {
	var violations []string
	for _, restriction := range restrictions {
		forbidden, ok := restrictionPatterns[strings.ToLower(restriction)]
		if !ok {
			continue
		}
		for _, ing := range recipe.Ingredients {
			name := strings.ToLower(ing.Name)
			for _, term := range forbidden {
				if strings.Contains(name, term) {
					violations = append(violations, fmt.Sprintf("%s restriction violated: contains %s", restriction, ing.Name))
					break
				}
			}
		}
	}
	return violations
}

// checkHealthConditions flags "avoid" terms as violations and, when none of
// a condition's "prefer" terms appear anywhere in the recipe, emits one
// warning suggesting up to three of them.
func (v *Validator) checkHealthConditions(recipe recipes.Candidate, set constraints.ConstraintSet) ([]string, []string) {
	var violations, warnings []string

	for _, condition := range set.HealthConditions {
		guideline := set.HealthGuidelines[strings.ReplaceAll(strings.ToLower(condition), "-", " ")]

		for _, ing := range recipe.Ingredients {
			name := strings.ToLower(ing.Name)
			for _, avoid := range guideline.Avoid {
				if strings.Contains(name, strings.ToLower(avoid)) {
					violations = append(violations, fmt.Sprintf("%s: should avoid %s", condition, ing.Name))
				}
			}
		}

		if len(guideline.Prefer) == 0 {
			continue
		}
		hasPreferred := false
		for _, ing := range recipe.Ingredients {
			name := strings.ToLower(ing.Name)
			for _, prefer := range guideline.Prefer {
				if strings.Contains(name, strings.ToLower(prefer)) {
					hasPreferred = true
					break
				}
			}
			if hasPreferred {
				break
			}
		}
		if !hasPreferred {
			suggested := guideline.Prefer
			if len(suggested) > 3 {
				suggested = suggested[:3]
			}
			warnings = append(warnings, fmt.Sprintf("%s: consider adding %s", condition, strings.Join(suggested, ", ")))
		}
	}

	return violations, warnings
}

// checkCalorieTargets warns per member when the per-serving calories land
// more than 30% away from the member's expected share for this meal type.
func (v *Validator) checkCalorieTargets(perServing nutrition.Info, roster []profile.Member, mealType string) []string {
	share, ok := mealShares[mealType]
	if !ok {
		share = unknownMealShare
	}

	var warnings []string
	for _, member := range roster {
		if member.CalorieTarget <= 0 {
			continue
		}
		expected := float64(member.CalorieTarget) * share
		difference := math.Abs(perServing.Calories - expected)
		if difference <= expected*0.3 {
			continue
		}
		if perServing.Calories > expected {
			warnings = append(warnings, fmt.Sprintf(
				"%s: %s is %d calories over target (%d expected)",
				member.Name, mealType, int(perServing.Calories-expected), int(expected),
			))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"%s: %s is %d calories under target (%d expected)",
				member.Name, mealType, int(expected-perServing.Calories), int(expected),
			))
		}
	}
	return warnings
}

// nutritionPerServing sums nutrient lookups across weight-bearing
// ingredient lines and divides by the serving count. Lookup failures are
// logged and skipped rather than failing the validation.
func (v *Validator) nutritionPerServing(ctx context.Context, recipe recipes.Candidate) nutrition.Info {
	var total nutrition.Info

	for _, ing := range recipe.Ingredients {
		var amountGrams float64
		switch ing.Unit {
		case "ml":
			amountGrams = ing.Amount * v.conv.MillilitersPerGram
		case "pieces":
			if !v.conv.IncludePieces {
				continue
			}
			amountGrams = ing.Amount
		default:
			amountGrams = ing.Amount
		}

		info, err := v.lookup.Lookup(ctx, ing.Name, amountGrams)
		if err != nil {
			v.logger.Warn("nutrition_calculation_error", "ingredient", ing.Name, "error", err)
			continue
		}

		total.Calories += info.Calories
		total.ProteinG += info.ProteinG
		total.CarbsG += info.CarbsG
		total.FatG += info.FatG
		total.FiberG += info.FiberG
		total.SugarG += info.SugarG
		total.SodiumMG += info.SodiumMG
	}

	servings := recipe.Servings
	if servings <= 0 {
		servings = v.conv.DefaultServings
	}

	divide := func(x float64) float64 {
		return math.Round(x/float64(servings)*100) / 100
	}
	return nutrition.Info{
		Calories: divide(total.Calories),
		ProteinG: divide(total.ProteinG),
		CarbsG:   divide(total.CarbsG),
		FatG:     divide(total.FatG),
		FiberG:   divide(total.FiberG),
		SugarG:   divide(total.SugarG),
		SodiumMG: divide(total.SodiumMG),
	}
}

// Feedback renders the result as regeneration guidance: violations first,
// then warnings, then recommendations, as labeled groups.
func (r Result) Feedback() string {
	if r.Compliant {
		return "Recipe is compliant with all requirements."
	}

	var parts []string

	if len(r.Violations) > 0 {
		parts = append(parts, "CRITICAL ISSUES:")
		for _, v := range r.Violations {
			parts = append(parts, "  - "+v)
		}
	}
	if len(r.Warnings) > 0 {
		parts = append(parts, "\nWARNINGS:")
		for _, w := range r.Warnings {
			parts = append(parts, "  - "+w)
		}
	}
	if len(r.Recommendations) > 0 {
		parts = append(parts, "\nRECOMMENDATIONS:")
		for _, rec := range r.Recommendations {
			parts = append(parts, "  - "+rec)
		}
	}

	return strings.Join(parts, "\n")
}
