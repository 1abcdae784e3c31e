package planner

import (
	"context"
	"fmt"
	"strings"

	"mealmind/internal/constraints"
	"mealmind/internal/logging"
	"mealmind/internal/nutrition"
	"mealmind/internal/profile"
	"mealmind/internal/recipes"
	"mealmind/internal/shared"
	"mealmind/internal/validator"

	"github.com/google/uuid"
)

// SlotState is the state of one (day, meal) slot in the bounded
// generate/validate loop.
type SlotState string

const (
	StateGenerating SlotState = "generating"
	StateValidating SlotState = "validating"
	StateAccepted   SlotState = "accepted"
	StateExhausted  SlotState = "exhausted"
)

// Slot is one (day, meal type) planning unit. An exhausted slot keeps its
// last validation result so callers can see why it failed.
type Slot struct {
	Day        int                `json:"day"`
	MealType   string             `json:"meal_type"`
	State      SlotState          `json:"state"`
	Attempts   int                `json:"attempts"`
	Recipe     *recipes.Candidate `json:"recipe,omitempty"`
	Nutrition  nutrition.Info     `json:"nutrition,omitempty"`
	LastResult *validator.Result  `json:"last_result,omitempty"`
}

// DayPlan groups the slots of one day.
type DayPlan struct {
	Day   int    `json:"day"`
	Slots []Slot `json:"slots"`
}

// Accepted returns the day's accepted slots in meal order.
func (d DayPlan) Accepted() []Slot {
	var accepted []Slot
	for _, s := range d.Slots {
		if s.State == StateAccepted {
			accepted = append(accepted, s)
		}
	}
	return accepted
}

// WeeklyPlan is the orchestrator's result: every slot, accepted or
// exhausted, plus the agent metadata accumulated while generating.
type WeeklyPlan struct {
	ID          string             `json:"id"`
	HouseholdID string             `json:"household_id"`
	Days        []DayPlan          `json:"days"`
	Metas       []shared.AgentMeta `json:"-"`
}

// FailedSlots returns every slot that exhausted its retry budget.
func (p *WeeklyPlan) FailedSlots() []Slot {
	var failed []Slot
	for _, day := range p.Days {
		for _, s := range day.Slots {
			if s.State == StateExhausted {
				failed = append(failed, s)
			}
		}
	}
	return failed
}

// TotalAccepted counts accepted slots across the week.
func (p *WeeklyPlan) TotalAccepted() int {
	n := 0
	for _, day := range p.Days {
		n += len(day.Accepted())
	}
	return n
}

// HouseholdGetter reads household profiles.
type HouseholdGetter interface {
	Get(ctx context.Context, id string) (*profile.Household, error)
}

// MemoryReader supplies compacted long-term context for prompts.
type MemoryReader interface {
	CompactContext(ctx context.Context, householdID string) (recipes.MemoryContext, error)
}

// Planner drives the generate/validate/retry loop across a week of meal
// slots.
type Planner struct {
	households HouseholdGetter
	source     recipes.Source
	fallback   recipes.Source
	validator  *validator.Validator
	memory     MemoryReader
	guidelines map[string]constraints.Guideline
	logger     *logging.Logger
}

// New creates a Planner. memory may be nil when no memory bank is wired.
func New(
	households HouseholdGetter,
	source recipes.Source,
	v *validator.Validator,
	memory MemoryReader,
	logger *logging.Logger,
) *Planner {
	return &Planner{
		households: households,
		source:     source,
		fallback:   recipes.FallbackSource{},
		validator:  v,
		memory:     memory,
		guidelines: constraints.DefaultGuidelines(),
		logger:     logger,
	}
}

// PlanWeek plans days*3 meal slots for a household.
//
// Request validation fails fast: unknown household, empty roster or a
// non-positive cooking ceiling abort before any generation work. After
// that, slots are fully independent; one slot exhausting its retry budget
// never aborts the rest of the week.
func (p *Planner) PlanWeek(ctx context.Context, householdID string, days, maxRetries int) (*WeeklyPlan, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("maxRetries must be positive, got %d", maxRetries)
	}

	household, err := p.households.Get(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load household %s: %w", householdID, err)
	}
	if household == nil {
		return nil, fmt.Errorf("household %s not found", householdID)
	}

	report := profile.CheckCompleteness(household)
	if !report.Valid {
		return nil, fmt.Errorf("household profile incomplete: %s", strings.Join(report.Errors, ", "))
	}

	set := constraints.Aggregate(household, p.guidelines)
	pctx := p.planningContext(ctx, household)

	p.logger.Info("starting_meal_plan_generation",
		"household_id", householdID,
		"days", days,
		"max_retries", maxRetries,
	)

	plan := &WeeklyPlan{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
	}

	for day := 1; day <= days; day++ {
		dayPlan := DayPlan{Day: day}
		for _, mealType := range recipes.MealTypes {
			slot := p.runSlot(ctx, plan, day, mealType, pctx, set, household.Members, maxRetries)
			dayPlan.Slots = append(dayPlan.Slots, slot)
		}
		plan.Days = append(plan.Days, dayPlan)
	}

	p.logger.Info("meal_plan_completed",
		"household_id", householdID,
		"accepted", plan.TotalAccepted(),
		"failed", len(plan.FailedSlots()),
	)

	return plan, nil
}

// runSlot is the bounded state machine for one slot: Generating and
// Validating alternate until a candidate is accepted or the retry budget
// runs out, with each retry carrying the prior attempt's feedback.
func (p *Planner) runSlot(
	ctx context.Context,
	plan *WeeklyPlan,
	day int,
	mealType string,
	pctx recipes.PlanningContext,
	set constraints.ConstraintSet,
	roster []profile.Member,
	maxRetries int,
) Slot {
	slot := Slot{Day: day, MealType: mealType, State: StateGenerating}
	feedback := ""

	for attempt := 0; attempt < maxRetries; attempt++ {
		slot.Attempts = attempt + 1

		candidate := p.generate(ctx, plan, recipes.Request{
			MealType:    mealType,
			Context:     pctx,
			Constraints: set,
			Feedback:    feedback,
		})

		slot.State = StateValidating
		result := p.validator.Validate(ctx, candidate, roster, set)
		slot.LastResult = &result

		if result.Compliant {
			slot.State = StateAccepted
			slot.Recipe = &candidate
			slot.Nutrition = result.NutritionPerServing
			p.logger.Info("slot_accepted",
				"day", day,
				"meal_type", mealType,
				"recipe", candidate.Name,
				"attempt", slot.Attempts,
			)
			return slot
		}

		p.logger.Warn("slot_validation_failed",
			"day", day,
			"meal_type", mealType,
			"recipe", candidate.Name,
			"attempt", slot.Attempts,
			"violations", len(result.Violations),
		)

		feedback = result.Feedback()
		slot.State = StateGenerating
	}

	slot.State = StateExhausted
	slot.Recipe = nil
	p.logger.Error("slot_exhausted",
		"day", day,
		"meal_type", mealType,
		"max_retries", maxRetries,
	)
	return slot
}

// generate asks the configured source for a candidate, substituting the
// deterministic fallback on any error so a single upstream failure never
// propagates.
func (p *Planner) generate(ctx context.Context, plan *WeeklyPlan, req recipes.Request) recipes.Candidate {
	candidate, meta, err := p.source.Generate(ctx, req)
	plan.Metas = append(plan.Metas, meta)
	if err == nil {
		return candidate
	}

	p.logger.Warn("recipe_generation_failed",
		"meal_type", req.MealType,
		"error", err,
	)

	candidate, meta, _ = p.fallback.Generate(ctx, req)
	plan.Metas = append(plan.Metas, meta)
	return candidate
}

// planningContext assembles the household summary handed to generators.
// Memory failures are absorbed; planning proceeds with an empty context.
func (p *Planner) planningContext(ctx context.Context, household *profile.Household) recipes.PlanningContext {
	pctx := recipes.PlanningContext{
		HouseholdID:        household.ID,
		Members:            household.Members,
		CookingTimeMax:     household.CookingTimeMax,
		Appliances:         household.Appliances,
		BudgetWeekly:       household.BudgetWeekly,
		CuisinePreferences: household.CuisinePreferences,
	}

	if p.memory != nil {
		memCtx, err := p.memory.CompactContext(ctx, household.ID)
		if err != nil {
			p.logger.Warn("memory_context_unavailable", "household_id", household.ID, "error", err)
		} else {
			pctx.Memory = memCtx
		}
	}

	return pctx
}
