package planner

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mealmind/internal/logging"
	"mealmind/internal/nutrition"
	"mealmind/internal/profile"
	"mealmind/internal/recipes"
	"mealmind/internal/shared"
	"mealmind/internal/validator"
)

type stubHouseholds struct {
	households map[string]*profile.Household
}

func (s stubHouseholds) Get(_ context.Context, id string) (*profile.Household, error) {
	return s.households[id], nil
}

// scriptedSource returns candidates in order, repeating the last one once
// the script runs out. calls counts Generate invocations per meal type.
type scriptedSource struct {
	script []recipes.Candidate
	calls  map[string]int
	next   int
}

func (s *scriptedSource) Generate(_ context.Context, req recipes.Request) (recipes.Candidate, shared.AgentMeta, error) {
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[req.MealType]++

	candidate := s.script[len(s.script)-1]
	if s.next < len(s.script) {
		candidate = s.script[s.next]
		s.next++
	}
	candidate.MealType = req.MealType
	return candidate, shared.AgentMeta{AgentName: "scripted"}, nil
}

type failingSource struct{ calls int }

func (f *failingSource) Generate(_ context.Context, _ recipes.Request) (recipes.Candidate, shared.AgentMeta, error) {
	f.calls++
	return recipes.Candidate{}, shared.AgentMeta{AgentName: "failing"}, fmt.Errorf("upstream unavailable")
}

func compliantCandidate(name string) recipes.Candidate {
	return recipes.Candidate{
		Name:               name,
		CookingTimeMinutes: 30,
		Servings:           4,
		Ingredients: []recipes.Ingredient{
			{Name: "rice", Amount: 300, Unit: "grams"},
			{Name: "broccoli", Amount: 300, Unit: "grams"},
		},
	}
}

func violatingCandidate() recipes.Candidate {
	return recipes.Candidate{
		Name:               "Peanut Chicken",
		CookingTimeMinutes: 30,
		Servings:           4,
		Ingredients: []recipes.Ingredient{
			{Name: "peanut butter", Amount: 100, Unit: "grams"},
		},
	}
}

func testHousehold() *profile.Household {
	return &profile.Household{
		ID:             "hh-1",
		Name:           "Testers",
		CookingTimeMax: 45,
		Members: []profile.Member{
			{Name: "Bob", Allergies: []string{"peanuts"}},
		},
	}
}

func newTestPlanner(source recipes.Source, households map[string]*profile.Household) *Planner {
	v := validator.New(nutrition.FallbackTable{}, nutrition.DefaultConversion(), logging.NewNop())
	return New(stubHouseholds{households: households}, source, v, nil, logging.NewNop())
}

func TestPlanWeekRequestValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownHousehold", func(t *testing.T) {
		p := newTestPlanner(&scriptedSource{script: []recipes.Candidate{compliantCandidate("X")}}, map[string]*profile.Household{})
		if _, err := p.PlanWeek(ctx, "missing", 3, 2); err == nil {
			t.Fatal("Expected an error for unknown household, got nil")
		}
	})

	t.Run("EmptyRoster", func(t *testing.T) {
		h := testHousehold()
		h.Members = nil
		p := newTestPlanner(&scriptedSource{script: []recipes.Candidate{compliantCandidate("X")}}, map[string]*profile.Household{"hh-1": h})
		if _, err := p.PlanWeek(ctx, "hh-1", 3, 2); err == nil {
			t.Fatal("Expected an error for empty roster, got nil")
		}
	})

	t.Run("NonPositiveCeiling", func(t *testing.T) {
		h := testHousehold()
		h.CookingTimeMax = 0
		p := newTestPlanner(&scriptedSource{script: []recipes.Candidate{compliantCandidate("X")}}, map[string]*profile.Household{"hh-1": h})
		if _, err := p.PlanWeek(ctx, "hh-1", 3, 2); err == nil {
			t.Fatal("Expected an error for non-positive cooking ceiling, got nil")
		}
	})

	t.Run("NonPositiveDays", func(t *testing.T) {
		p := newTestPlanner(&scriptedSource{script: []recipes.Candidate{compliantCandidate("X")}}, map[string]*profile.Household{"hh-1": testHousehold()})
		if _, err := p.PlanWeek(ctx, "hh-1", 0, 2); err == nil {
			t.Fatal("Expected an error for zero days, got nil")
		}
	})

	t.Run("NoGenerationBeforeFailFast", func(t *testing.T) {
		source := &scriptedSource{script: []recipes.Candidate{compliantCandidate("X")}}
		p := newTestPlanner(source, map[string]*profile.Household{})
		p.PlanWeek(ctx, "missing", 3, 2)
		if len(source.calls) != 0 {
			t.Errorf("Expected no generation calls for an invalid request, got %v", source.calls)
		}
	})
}

func TestPlanWeekAcceptsCompliant(t *testing.T) {
	ctx := context.Background()
	source := &scriptedSource{script: []recipes.Candidate{compliantCandidate("Rice Bowl")}}
	p := newTestPlanner(source, map[string]*profile.Household{"hh-1": testHousehold()})

	plan, err := p.PlanWeek(ctx, "hh-1", 2, 3)
	if err != nil {
		t.Fatalf("PlanWeek failed: %v", err)
	}

	if len(plan.Days) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(plan.Days))
	}
	if plan.TotalAccepted() != 6 {
		t.Errorf("Expected 6 accepted slots, got %d", plan.TotalAccepted())
	}
	if len(plan.FailedSlots()) != 0 {
		t.Errorf("Expected no failed slots, got %d", len(plan.FailedSlots()))
	}
	if plan.ID == "" {
		t.Error("Expected plan to have an ID")
	}

	for _, day := range plan.Days {
		for _, slot := range day.Slots {
			if slot.Attempts != 1 {
				t.Errorf("Expected 1 attempt per slot, got %d", slot.Attempts)
			}
			if slot.Recipe == nil {
				t.Error("Expected accepted slot to carry its recipe")
			}
			if slot.Nutrition.Calories == 0 {
				t.Error("Expected accepted slot to carry a nutrition summary")
			}
		}
	}
}

func TestPlanWeekRetryAcceptsSecondAttempt(t *testing.T) {
	ctx := context.Background()
	// One slot: first candidate violates, second complies.
	source := &scriptedSource{script: []recipes.Candidate{
		violatingCandidate(),
		compliantCandidate("Safe Rice Bowl"),
		compliantCandidate("Safe Rice Bowl"),
	}}
	p := newTestPlanner(source, map[string]*profile.Household{"hh-1": testHousehold()})

	plan, err := p.PlanWeek(ctx, "hh-1", 1, 2)
	if err != nil {
		t.Fatalf("PlanWeek failed: %v", err)
	}

	breakfast := plan.Days[0].Slots[0]
	if breakfast.State != StateAccepted {
		t.Fatalf("Expected breakfast accepted, got %s", breakfast.State)
	}
	if breakfast.Attempts != 2 {
		t.Errorf("Expected 2 attempts for the retried slot, got %d", breakfast.Attempts)
	}
	if source.calls[recipes.MealBreakfast] != 2 {
		t.Errorf("Expected exactly 2 generation calls for breakfast, got %d", source.calls[recipes.MealBreakfast])
	}
	if breakfast.Recipe.Name != "Safe Rice Bowl" {
		t.Errorf("Expected the attempt-2 recipe, got '%s'", breakfast.Recipe.Name)
	}
}

func TestPlanWeekExhaustionContinues(t *testing.T) {
	ctx := context.Background()
	// Always violating: every slot exhausts, but planning never aborts.
	source := &scriptedSource{script: []recipes.Candidate{violatingCandidate()}}
	p := newTestPlanner(source, map[string]*profile.Household{"hh-1": testHousehold()})

	plan, err := p.PlanWeek(ctx, "hh-1", 2, 2)
	if err != nil {
		t.Fatalf("PlanWeek must not fail on exhausted slots: %v", err)
	}

	failed := plan.FailedSlots()
	if len(failed) != 6 {
		t.Fatalf("Expected all 6 slots exhausted, got %d", len(failed))
	}
	for _, slot := range failed {
		if slot.State != StateExhausted {
			t.Errorf("Expected state exhausted, got %s", slot.State)
		}
		if slot.Recipe != nil {
			t.Error("An exhausted slot must never carry a non-compliant recipe")
		}
		if slot.LastResult == nil {
			t.Fatal("Expected exhausted slot to carry its last validation result")
		}
		if len(slot.LastResult.Violations) == 0 {
			t.Error("Expected the last result to explain the failure")
		}
		if slot.Attempts != 2 {
			t.Errorf("Expected the full retry budget of 2 attempts, got %d", slot.Attempts)
		}
	}
	// Each of the 6 slots gets at most maxRetries calls.
	for meal, calls := range source.calls {
		if calls != 4 {
			t.Errorf("Expected 4 calls for %s (2 days x 2 retries), got %d", meal, calls)
		}
	}
}

func TestPlanWeekFeedbackThreading(t *testing.T) {
	ctx := context.Background()

	var feedbacks []string
	source := &capturingSource{
		inner:     &scriptedSource{script: []recipes.Candidate{violatingCandidate(), compliantCandidate("Fixed")}},
		feedbacks: &feedbacks,
	}
	p := newTestPlanner(source, map[string]*profile.Household{"hh-1": testHousehold()})

	if _, err := p.PlanWeek(ctx, "hh-1", 1, 2); err != nil {
		t.Fatalf("PlanWeek failed: %v", err)
	}

	if feedbacks[0] != "" {
		t.Errorf("Expected empty feedback on the first attempt, got %q", feedbacks[0])
	}
	if len(feedbacks) < 2 || feedbacks[1] == "" {
		t.Fatal("Expected the second attempt to carry feedback")
	}
	if want := "ALLERGEN ALERT: peanuts (found in peanut butter)"; !strings.Contains(feedbacks[1], want) {
		t.Errorf("Expected feedback to contain %q, got %q", want, feedbacks[1])
	}
}

func TestPlanWeekSourceFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	source := &failingSource{}
	p := newTestPlanner(source, map[string]*profile.Household{"hh-1": testHousehold()})

	plan, err := p.PlanWeek(ctx, "hh-1", 1, 2)
	if err != nil {
		t.Fatalf("PlanWeek must absorb source failures: %v", err)
	}

	// The fallback candidates carry no peanuts, so the week completes.
	if plan.TotalAccepted() != 3 {
		t.Errorf("Expected 3 accepted fallback slots, got %d", plan.TotalAccepted())
	}
	if source.calls == 0 {
		t.Error("Expected the failing source to have been tried")
	}
}

type capturingSource struct {
	inner     recipes.Source
	feedbacks *[]string
}

func (c *capturingSource) Generate(ctx context.Context, req recipes.Request) (recipes.Candidate, shared.AgentMeta, error) {
	*c.feedbacks = append(*c.feedbacks, req.Feedback)
	return c.inner.Generate(ctx, req)
}
