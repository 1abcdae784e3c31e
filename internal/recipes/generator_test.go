package recipes

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mealmind/internal/constraints"
	"mealmind/internal/llm"
	"mealmind/internal/profile"
)

type MockTextGenerator struct {
	content string
	err     error
	prompts []string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.content}, nil
}

const mockRecipeJSON = `{
  "name": "Lentil Curry",
  "meal_type": "dinner",
  "cuisine": "Indian",
  "cooking_time_minutes": 35,
  "servings": 4,
  "ingredients": [
    {"name": "lentils", "amount": 300, "unit": "grams"},
    {"name": "coconut milk", "amount": 200, "unit": "ml"}
  ],
  "instructions": ["Simmer lentils", "Add coconut milk"],
  "tags": ["vegan"],
  "suitable_for": ["Alice"]
}`

func TestGenerator(t *testing.T) {
	ctx := context.Background()
	req := Request{
		MealType: MealDinner,
		Context: PlanningContext{
			HouseholdID:    "hh",
			Members:        []profile.Member{{Name: "Alice", DietaryRestrictions: []string{"vegetarian"}}},
			CookingTimeMax: 45,
		},
		Constraints: constraints.ConstraintSet{
			Allergies:           []string{"peanuts"},
			DietaryRestrictions: []string{"vegetarian"},
		},
	}

	t.Run("ParsesCandidate", func(t *testing.T) {
		mock := &MockTextGenerator{content: mockRecipeJSON}
		gen := NewGenerator(mock)

		candidate, meta, err := gen.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if candidate.Name != "Lentil Curry" {
			t.Errorf("Expected 'Lentil Curry', got '%s'", candidate.Name)
		}
		if len(candidate.Ingredients) != 2 {
			t.Errorf("Expected 2 ingredients, got %d", len(candidate.Ingredients))
		}
		if meta.AgentName != "RecipeGenerator" {
			t.Errorf("Expected agent name 'RecipeGenerator', got '%s'", meta.AgentName)
		}
	})

	t.Run("PromptCarriesConstraints", func(t *testing.T) {
		mock := &MockTextGenerator{content: mockRecipeJSON}
		gen := NewGenerator(mock)

		if _, _, err := gen.Generate(ctx, req); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		prompt := mock.prompts[0]
		if !strings.Contains(prompt, "peanuts") {
			t.Error("Expected prompt to mention the peanuts allergy")
		}
		if !strings.Contains(prompt, "vegetarian") {
			t.Error("Expected prompt to mention the vegetarian restriction")
		}
	})

	t.Run("FeedbackThreadedIntoPrompt", func(t *testing.T) {
		mock := &MockTextGenerator{content: mockRecipeJSON}
		gen := NewGenerator(mock)

		retryReq := req
		retryReq.Feedback = "CRITICAL ISSUES:\n  - ALLERGEN ALERT: peanuts (found in peanut butter)"
		if _, _, err := gen.Generate(ctx, retryReq); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if !strings.Contains(mock.prompts[0], "ALLERGEN ALERT") {
			t.Error("Expected prompt to carry the validation feedback")
		}
	})

	t.Run("StripsMarkdownFences", func(t *testing.T) {
		mock := &MockTextGenerator{content: "```json\n" + mockRecipeJSON + "\n```"}
		gen := NewGenerator(mock)

		candidate, _, err := gen.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if candidate.Name != "Lentil Curry" {
			t.Errorf("Expected 'Lentil Curry', got '%s'", candidate.Name)
		}
	})

	t.Run("MalformedJSONIsError", func(t *testing.T) {
		mock := &MockTextGenerator{content: "Sure! Here is a recipe for you."}
		gen := NewGenerator(mock)

		if _, _, err := gen.Generate(ctx, req); err == nil {
			t.Fatal("Expected an error for malformed output, got nil")
		}
	})

	t.Run("UpstreamErrorPropagates", func(t *testing.T) {
		mock := &MockTextGenerator{err: fmt.Errorf("rate limited")}
		gen := NewGenerator(mock)

		if _, _, err := gen.Generate(ctx, req); err == nil {
			t.Fatal("Expected an error when the backend fails, got nil")
		}
	})
}

func TestFallbackSource(t *testing.T) {
	ctx := context.Background()

	t.Run("VegetarianDinnerHasNoMeat", func(t *testing.T) {
		req := Request{
			MealType: MealDinner,
			Constraints: constraints.ConstraintSet{
				DietaryRestrictions: []string{"vegetarian"},
			},
		}

		candidate, _, err := FallbackSource{}.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		forbidden := []string{"chicken", "beef", "pork", "fish", "salmon"}
		for _, ing := range candidate.Ingredients {
			for _, f := range forbidden {
				if strings.Contains(strings.ToLower(ing.Name), f) {
					t.Errorf("Vegetarian fallback contains %s", ing.Name)
				}
			}
		}
	})

	t.Run("GlutenFreeBreakfast", func(t *testing.T) {
		req := Request{
			MealType: MealBreakfast,
			Constraints: constraints.ConstraintSet{
				DietaryRestrictions: []string{"gluten-free"},
			},
		}

		candidate, _, err := FallbackSource{}.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		for _, ing := range candidate.Ingredients {
			for _, f := range []string{"wheat", "bread", "pasta", "flour"} {
				if strings.Contains(strings.ToLower(ing.Name), f) {
					t.Errorf("Gluten-free fallback contains %s", ing.Name)
				}
			}
		}
	})

	t.Run("MealTypeAndRosterApplied", func(t *testing.T) {
		req := Request{
			MealType: MealLunch,
			Context: PlanningContext{
				Members: []profile.Member{{Name: "Alice"}, {Name: "Bob"}},
			},
		}

		candidate, meta, err := FallbackSource{}.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if candidate.MealType != MealLunch {
			t.Errorf("Expected meal type lunch, got '%s'", candidate.MealType)
		}
		if len(candidate.SuitableFor) != 2 {
			t.Errorf("Expected 2 suitable members, got %v", candidate.SuitableFor)
		}
		if meta.AgentName != "FallbackSource" {
			t.Errorf("Expected agent name 'FallbackSource', got '%s'", meta.AgentName)
		}
	})
}
