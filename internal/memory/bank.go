// Package memory is the long-term store: past meal plans and disliked
// ingredients per household, compacted into prompt context for the next
// planning run.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"mealmind/internal/logging"
	"mealmind/internal/memory/memory_db"
	"mealmind/internal/planner"
	"mealmind/internal/recipes"
)

// planHistoryLimit caps how many plans are kept per household.
const planHistoryLimit = 10

// compactPlanWindow is how many recent plans feed CompactContext.
const compactPlanWindow = 2

// StoredPlan is one archived weekly plan.
type StoredPlan struct {
	ID        string
	WeekOf    string
	CreatedAt time.Time
	Plan      planner.WeeklyPlan
}

// Bank persists plan history and dislikes in SQLite.
type Bank struct {
	queries *memory_db.Queries
	db      *sql.DB
	logger  *logging.Logger
}

func NewBank(db *sql.DB, logger *logging.Logger) *Bank {
	return &Bank{
		queries: memory_db.New(db),
		db:      db,
		logger:  logger,
	}
}

// StorePlan archives a finished plan and prunes the household's history
// down to the retention limit, oldest first.
func (b *Bank) StorePlan(ctx context.Context, plan *planner.WeeklyPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan %s: %w", plan.ID, err)
	}

	now := time.Now().UTC()
	err = b.queries.InsertMealPlan(ctx, memory_db.InsertMealPlanParams{
		ID:          plan.ID,
		HouseholdID: plan.HouseholdID,
		WeekOf:      now.Format("2006-01-02"),
		Data:        string(data),
		CreatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("failed to store plan %s: %w", plan.ID, err)
	}

	err = b.queries.DeleteOldPlans(ctx, memory_db.DeleteOldPlansParams{
		HouseholdID: plan.HouseholdID,
		Limit:       planHistoryLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to prune plan history for %s: %w", plan.HouseholdID, err)
	}

	b.logger.Info("meal_plan_stored", "household_id", plan.HouseholdID, "plan_id", plan.ID)
	return nil
}

// RecentPlans returns up to limit archived plans, newest first.
func (b *Bank) RecentPlans(ctx context.Context, householdID string, limit int) ([]StoredPlan, error) {
	rows, err := b.queries.ListRecentPlans(ctx, memory_db.ListRecentPlansParams{
		HouseholdID: householdID,
		Limit:       int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for %s: %w", householdID, err)
	}

	var plans []StoredPlan
	for _, row := range rows {
		stored := StoredPlan{
			ID:        row.ID,
			WeekOf:    row.WeekOf,
			CreatedAt: row.CreatedAt,
		}
		if err := json.Unmarshal([]byte(row.Data), &stored.Plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan %s: %w", row.ID, err)
		}
		plans = append(plans, stored)
	}
	return plans, nil
}

// PlanCount reports how many plans are archived for the household.
func (b *Bank) PlanCount(ctx context.Context, householdID string) (int, error) {
	count, err := b.queries.CountPlans(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("failed to count plans for %s: %w", householdID, err)
	}
	return int(count), nil
}

// AddDislikedIngredient records an ingredient the household rejected.
// Recording the same ingredient twice is a no-op.
func (b *Bank) AddDislikedIngredient(ctx context.Context, householdID, ingredient string) error {
	err := b.queries.InsertDislike(ctx, memory_db.InsertDislikeParams{
		HouseholdID: householdID,
		Ingredient:  ingredient,
		RecordedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record dislike for %s: %w", householdID, err)
	}

	b.logger.Info("disliked_ingredient_added", "household_id", householdID, "ingredient", ingredient)
	return nil
}

// DislikedIngredients returns the household's dislikes in recording order.
func (b *Bank) DislikedIngredients(ctx context.Context, householdID string) ([]string, error) {
	dislikes, err := b.queries.ListDislikes(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dislikes for %s: %w", householdID, err)
	}
	return dislikes, nil
}

// CompactContext condenses the household's recent history into a small
// summary for prompts: the ten most used ingredients across the last two
// plans, the dislike list, and how many recent plans informed it.
func (b *Bank) CompactContext(ctx context.Context, householdID string) (recipes.MemoryContext, error) {
	recent, err := b.RecentPlans(ctx, householdID, compactPlanWindow)
	if err != nil {
		return recipes.MemoryContext{}, err
	}

	frequency := map[string]int{}
	var order []string
	for _, stored := range recent {
		for _, day := range stored.Plan.Days {
			for _, slot := range day.Accepted() {
				for _, ing := range slot.Recipe.Ingredients {
					if ing.Name == "" {
						continue
					}
					if _, seen := frequency[ing.Name]; !seen {
						order = append(order, ing.Name)
					}
					frequency[ing.Name]++
				}
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return frequency[order[i]] > frequency[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}

	dislikes, err := b.DislikedIngredients(ctx, householdID)
	if err != nil {
		return recipes.MemoryContext{}, err
	}

	return recipes.MemoryContext{
		CommonIngredients:   order,
		DislikedIngredients: dislikes,
		PlansGenerated:      len(recent),
	}, nil
}
