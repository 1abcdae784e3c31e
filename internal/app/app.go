// Package app wires the planning pipeline together: plan a week, score
// it, build the grocery list, archive it and render the summary.
package app

import (
	"context"
	"fmt"
	"strings"

	"mealmind/internal/config"
	"mealmind/internal/grocery"
	"mealmind/internal/importer"
	"mealmind/internal/logging"
	"mealmind/internal/memory"
	"mealmind/internal/metrics"
	"mealmind/internal/optimizer"
	"mealmind/internal/planner"
	"mealmind/internal/profile"
	"mealmind/internal/recipes"
)

// App holds the application's dependencies.
type App struct {
	profiles      *profile.Store
	mealPlanner   *planner.Planner
	scheduleOpt   *optimizer.Optimizer
	groceries     *grocery.Builder
	bank          *memory.Bank
	metricsStore  *metrics.Store
	recipeClipper *importer.Importer
	cfg           *config.Config
	logger        *logging.Logger
}

// NewApp creates and initializes a new App instance.
func NewApp(
	profiles *profile.Store,
	mealPlanner *planner.Planner,
	scheduleOpt *optimizer.Optimizer,
	groceries *grocery.Builder,
	bank *memory.Bank,
	metricsStore *metrics.Store,
	recipeClipper *importer.Importer,
	cfg *config.Config,
	logger *logging.Logger,
) *App {
	return &App{
		profiles:      profiles,
		mealPlanner:   mealPlanner,
		scheduleOpt:   scheduleOpt,
		groceries:     groceries,
		bank:          bank,
		metricsStore:  metricsStore,
		recipeClipper: recipeClipper,
		cfg:           cfg,
		logger:        logger,
	}
}

// PlanResult bundles everything one planning run produces.
type PlanResult struct {
	Plan         *planner.WeeklyPlan
	Optimization optimizer.Result
	Grocery      grocery.List
	Summary      string
}

// RunPlan plans a week for the household and runs the follow-up stages.
// Archiving and metrics failures are logged but never discard a finished
// plan.
func (a *App) RunPlan(ctx context.Context, householdID string, days, maxRetries int) (*PlanResult, error) {
	household, err := a.profiles.Get(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load household %s: %w", householdID, err)
	}
	if household == nil {
		return nil, fmt.Errorf("household %s not found", householdID)
	}

	plan, err := a.mealPlanner.PlanWeek(ctx, householdID, days, maxRetries)
	if err != nil {
		return nil, err
	}

	optimization := a.scheduleOpt.Optimize(plan, household.CookingTimeMax)
	groceryList := a.groceries.Build(plan, household.BudgetWeekly)

	if err := a.bank.StorePlan(ctx, plan); err != nil {
		a.logger.Warn("plan_archive_failed", "plan_id", plan.ID, "error", err)
	}
	for _, meta := range plan.Metas {
		if err := a.metricsStore.RecordMeta(ctx, meta); err != nil {
			a.logger.Warn("metrics_record_failed", "agent", meta.AgentName, "error", err)
		}
	}

	result := &PlanResult{
		Plan:         plan,
		Optimization: optimization,
		Grocery:      groceryList,
	}
	result.Summary = renderSummary(household, result)
	return result, nil
}

// ImportRecipe clips a recipe page into the library.
func (a *App) ImportRecipe(ctx context.Context, url string) (*recipes.LibraryEntry, error) {
	entry, meta, err := a.recipeClipper.ImportURL(ctx, url)
	if recordErr := a.metricsStore.RecordMeta(ctx, meta); recordErr != nil {
		a.logger.Warn("metrics_record_failed", "agent", meta.AgentName, "error", recordErr)
	}
	return entry, err
}

// RecordDislike stores a rejected ingredient for future planning context.
func (a *App) RecordDislike(ctx context.Context, householdID, ingredient string) error {
	return a.bank.AddDislikedIngredient(ctx, householdID, ingredient)
}

// SeedDemo creates a demo household so a fresh install has something to
// plan for. Returns the household ID.
func (a *App) SeedDemo(ctx context.Context) (string, error) {
	household := &profile.Household{
		ID:                 "demo-family",
		Name:               "Demo Family",
		CookingTimeMax:     45,
		BudgetWeekly:       150,
		MealsPerDay:        3,
		CuisinePreferences: []string{"italian", "asian"},
		Appliances:         []string{"oven", "stove", "blender"},
		Members: []profile.Member{
			{
				Name:             "Alex",
				Age:              38,
				Allergies:        []string{"peanuts"},
				HealthConditions: []string{"diabetes"},
				CalorieTarget:    2200,
			},
			{
				Name:                "Sam",
				Age:                 35,
				DietaryRestrictions: []string{"vegetarian"},
				Preferences:         []string{"spicy food"},
				CalorieTarget:       1800,
			},
			{
				Name:     "Riley",
				Age:      8,
				Dislikes: []string{"mushrooms"},
			},
		},
	}

	if err := a.profiles.Save(ctx, household); err != nil {
		return "", fmt.Errorf("failed to seed demo household: %w", err)
	}

	a.logger.Info("demo_household_seeded", "household_id", household.ID)
	return household.ID, nil
}

// renderSummary formats the full planning result for terminal output.
func renderSummary(household *profile.Household, result *PlanResult) string {
	divider := strings.Repeat("=", 70)

	var lines []string
	lines = append(lines, "\n"+divider)
	lines = append(lines, "  MEALMIND WEEKLY MEAL PLAN")
	lines = append(lines, divider)
	lines = append(lines, fmt.Sprintf("\nHousehold: %s", household.Name))
	lines = append(lines, fmt.Sprintf("Days: %d", len(result.Plan.Days)))
	lines = append(lines, "")

	for _, day := range result.Plan.Days {
		lines = append(lines, fmt.Sprintf("\nDAY %d", day.Day))
		lines = append(lines, strings.Repeat("-", 70))

		for _, slot := range day.Slots {
			if slot.Recipe == nil {
				lines = append(lines, fmt.Sprintf("\n  %s: no compliant recipe after %d attempts",
					strings.ToUpper(slot.MealType), slot.Attempts))
				continue
			}

			lines = append(lines, fmt.Sprintf("\n  %s: %s", strings.ToUpper(slot.MealType), slot.Recipe.Name))
			lines = append(lines, fmt.Sprintf("  Cuisine: %s | Time: %d min",
				slot.Recipe.Cuisine, slot.Recipe.CookingTimeMinutes))
			lines = append(lines, fmt.Sprintf("  Nutrition: %.0f cal | P: %.0fg | C: %.0fg | F: %.0fg",
				slot.Nutrition.Calories, slot.Nutrition.ProteinG, slot.Nutrition.CarbsG, slot.Nutrition.FatG))
		}
	}

	stats := result.Optimization.TimeStats
	lines = append(lines, "\n"+divider)
	lines = append(lines, "  OPTIMIZATION SUMMARY")
	lines = append(lines, divider)
	lines = append(lines, "\nCooking Time:")
	lines = append(lines, fmt.Sprintf("   Average per day: %.0f minutes", stats.AveragePerDay))
	lines = append(lines, fmt.Sprintf("   Total for week: %d minutes", stats.TotalMinutes))
	lines = append(lines, fmt.Sprintf("   Range: %d - %d minutes", stats.MinDay, stats.MaxDay))
	lines = append(lines, fmt.Sprintf("\nOptimization Score: %.1f/100", result.Optimization.Score))

	if len(result.Optimization.Recommendations) > 0 {
		lines = append(lines, "\nRecommendations:")
		recommendations := result.Optimization.Recommendations
		if len(recommendations) > 5 {
			recommendations = recommendations[:5]
		}
		for _, rec := range recommendations {
			lines = append(lines, "   - "+rec)
		}
	}

	lines = append(lines, "\n"+divider)
	lines = append(lines, "  GROCERY LIST SUMMARY")
	lines = append(lines, divider)
	lines = append(lines, fmt.Sprintf("\nTotal Items: %d", result.Grocery.TotalItems))
	lines = append(lines, fmt.Sprintf("Estimated Cost: $%.2f", result.Grocery.TotalEstimatedCost))

	lines = append(lines, "\nCategories:")
	for _, category := range grocery.CategoryOrder() {
		items, ok := result.Grocery.ItemsByCategory[category]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("   - %s: %d items", category, len(items)))
	}

	if len(result.Grocery.ShoppingTips) > 0 {
		lines = append(lines, "\nShopping Tips:")
		tips := result.Grocery.ShoppingTips
		if len(tips) > 3 {
			tips = tips[:3]
		}
		for _, tip := range tips {
			lines = append(lines, "   - "+tip)
		}
	}

	lines = append(lines, "\n"+divider)
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}
