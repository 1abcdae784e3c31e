package recipes

import (
	"context"
	"strings"

	"mealmind/internal/shared"
)

// FallbackSource produces deterministic built-in candidates. It never fails
// and is substituted whenever the real generator errors out, so that a
// single flaky upstream call never sinks a whole plan.
type FallbackSource struct{}

// Generate returns a built-in candidate for the requested meal type,
// honoring vegetarian and gluten-free restrictions.
func (FallbackSource) Generate(_ context.Context, req Request) (Candidate, shared.AgentMeta, error) {
	meta := shared.AgentMeta{AgentName: "FallbackSource"}

	vegetarian := false
	glutenFree := false
	for _, r := range req.Constraints.DietaryRestrictions {
		switch strings.ToLower(r) {
		case "vegetarian", "vegan":
			vegetarian = true
		case "gluten-free":
			glutenFree = true
		}
	}

	var candidate Candidate
	switch req.MealType {
	case MealBreakfast:
		if vegetarian {
			candidate = oatmealBreakfast()
		} else if glutenFree {
			candidate = scrambledEggsBreakfast()
		} else {
			candidate = vegetableOmelette()
		}
	case MealLunch:
		if vegetarian {
			candidate = quinoaBowlLunch()
		} else {
			candidate = chickenSaladLunch()
		}
	default:
		if vegetarian {
			candidate = tofuStirFryDinner()
		} else {
			candidate = bakedSalmonDinner()
		}
	}

	candidate.MealType = req.MealType
	for _, m := range req.Context.Members {
		candidate.SuitableFor = append(candidate.SuitableFor, m.Name)
	}
	return candidate, meta, nil
}

func oatmealBreakfast() Candidate {
	return Candidate{
		Name:               "Oatmeal with Fruits and Nuts",
		Cuisine:            "American",
		CookingTimeMinutes: 15,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "oats", Amount: 300, Unit: "grams"},
			{Name: "banana", Amount: 400, Unit: "grams"},
			{Name: "blueberries", Amount: 200, Unit: "grams"},
			{Name: "walnuts", Amount: 100, Unit: "grams"},
			{Name: "honey", Amount: 60, Unit: "ml"},
			{Name: "cinnamon", Amount: 5, Unit: "grams"},
		},
		Instructions: []string{
			"Cook oats in water according to package directions",
			"Slice bananas",
			"Divide oatmeal into 4 bowls",
			"Top with bananas, blueberries, and walnuts",
			"Drizzle with honey and sprinkle cinnamon",
		},
		Tags: []string{"vegetarian", "high-fiber"},
	}
}

func scrambledEggsBreakfast() Candidate {
	return Candidate{
		Name:               "Scrambled Eggs with Roasted Vegetables",
		Cuisine:            "American",
		CookingTimeMinutes: 25,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "eggs", Amount: 8, Unit: "pieces"},
			{Name: "bell pepper", Amount: 150, Unit: "grams"},
			{Name: "onion", Amount: 100, Unit: "grams"},
			{Name: "tomato", Amount: 150, Unit: "grams"},
			{Name: "olive oil", Amount: 20, Unit: "ml"},
			{Name: "potato", Amount: 300, Unit: "grams"},
		},
		Instructions: []string{
			"Dice potatoes and roast at 400F for 15 minutes",
			"Chop vegetables into small pieces",
			"Saute onions, peppers, and tomatoes for 5 minutes",
			"Beat eggs and scramble until cooked through",
			"Serve with roasted potatoes",
		},
		Tags: []string{"high-protein", "gluten-free"},
	}
}

func vegetableOmelette() Candidate {
	return Candidate{
		Name:               "Vegetable Omelette with Potatoes",
		Cuisine:            "American",
		CookingTimeMinutes: 20,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "eggs", Amount: 8, Unit: "pieces"},
			{Name: "bell pepper", Amount: 150, Unit: "grams"},
			{Name: "onion", Amount: 100, Unit: "grams"},
			{Name: "tomato", Amount: 100, Unit: "grams"},
			{Name: "potato", Amount: 300, Unit: "grams"},
			{Name: "olive oil", Amount: 20, Unit: "ml"},
		},
		Instructions: []string{
			"Chop vegetables and potato into small pieces",
			"Saute potatoes for 10 minutes until golden",
			"Add onions and bell peppers, cook 3 minutes",
			"Beat eggs and pour over vegetables",
			"Cook until eggs are set, about 5 minutes",
		},
		Tags: []string{"high-protein", "vegetarian"},
	}
}

func quinoaBowlLunch() Candidate {
	return Candidate{
		Name:               "Mediterranean Quinoa Bowl",
		Cuisine:            "Mediterranean",
		CookingTimeMinutes: 30,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "quinoa", Amount: 300, Unit: "grams"},
			{Name: "chickpeas", Amount: 400, Unit: "grams"},
			{Name: "cherry tomatoes", Amount: 200, Unit: "grams"},
			{Name: "cucumber", Amount: 150, Unit: "grams"},
			{Name: "red onion", Amount: 100, Unit: "grams"},
			{Name: "olive oil", Amount: 40, Unit: "ml"},
			{Name: "lemon juice", Amount: 30, Unit: "ml"},
			{Name: "feta cheese", Amount: 100, Unit: "grams"},
		},
		Instructions: []string{
			"Cook quinoa according to package instructions",
			"Drain and rinse chickpeas",
			"Chop all vegetables",
			"Mix quinoa, chickpeas, and vegetables in a large bowl",
			"Whisk together olive oil and lemon juice",
			"Pour dressing over salad and top with crumbled feta",
		},
		Tags: []string{"vegetarian", "high-protein", "mediterranean"},
	}
}

func chickenSaladLunch() Candidate {
	return Candidate{
		Name:               "Grilled Chicken Salad Bowl",
		Cuisine:            "Mediterranean",
		CookingTimeMinutes: 30,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "chicken breast", Amount: 600, Unit: "grams"},
			{Name: "mixed greens", Amount: 200, Unit: "grams"},
			{Name: "cherry tomatoes", Amount: 200, Unit: "grams"},
			{Name: "cucumber", Amount: 150, Unit: "grams"},
			{Name: "quinoa", Amount: 200, Unit: "grams"},
			{Name: "olive oil", Amount: 30, Unit: "ml"},
			{Name: "lemon juice", Amount: 30, Unit: "ml"},
		},
		Instructions: []string{
			"Cook quinoa according to package instructions",
			"Season and grill chicken for 6-7 minutes per side",
			"Chop vegetables while chicken cooks",
			"Slice cooked chicken into strips",
			"Assemble bowls and drizzle with olive oil and lemon juice",
		},
		Tags: []string{"high-protein", "low-carb"},
	}
}

func tofuStirFryDinner() Candidate {
	return Candidate{
		Name:               "Vegetable Stir-Fry with Tofu",
		Cuisine:            "Asian",
		CookingTimeMinutes: 35,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "firm tofu", Amount: 400, Unit: "grams"},
			{Name: "broccoli", Amount: 300, Unit: "grams"},
			{Name: "bell pepper", Amount: 200, Unit: "grams"},
			{Name: "carrot", Amount: 150, Unit: "grams"},
			{Name: "snap peas", Amount: 200, Unit: "grams"},
			{Name: "rice", Amount: 300, Unit: "grams"},
			{Name: "soy sauce", Amount: 40, Unit: "ml"},
			{Name: "sesame oil", Amount: 20, Unit: "ml"},
			{Name: "garlic", Amount: 15, Unit: "grams"},
			{Name: "ginger", Amount: 10, Unit: "grams"},
		},
		Instructions: []string{
			"Cook rice according to package instructions",
			"Press and cube tofu, then pan-fry until golden",
			"Stir-fry garlic and ginger for 30 seconds",
			"Add vegetables and stir-fry for 5-7 minutes",
			"Add tofu and soy sauce, toss to combine",
			"Serve over rice",
		},
		Tags: []string{"vegetarian", "high-protein", "asian"},
	}
}

func bakedSalmonDinner() Candidate {
	return Candidate{
		Name:               "Baked Salmon with Roasted Vegetables",
		Cuisine:            "American",
		CookingTimeMinutes: 40,
		Servings:           4,
		Ingredients: []Ingredient{
			{Name: "salmon", Amount: 600, Unit: "grams"},
			{Name: "broccoli", Amount: 300, Unit: "grams"},
			{Name: "sweet potato", Amount: 400, Unit: "grams"},
			{Name: "carrot", Amount: 200, Unit: "grams"},
			{Name: "olive oil", Amount: 40, Unit: "ml"},
			{Name: "garlic", Amount: 20, Unit: "grams"},
			{Name: "lemon", Amount: 2, Unit: "pieces"},
		},
		Instructions: []string{
			"Preheat oven to 400F (200C)",
			"Cut vegetables into bite-sized pieces",
			"Toss vegetables with olive oil and minced garlic",
			"Roast vegetables for 20 minutes",
			"Season salmon and add to the baking sheet",
			"Roast another 15-20 minutes until salmon is cooked through",
		},
		Tags: []string{"high-protein", "omega-3"},
	}
}
