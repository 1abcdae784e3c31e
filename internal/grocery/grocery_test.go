package grocery

import (
	"strings"
	"testing"

	"mealmind/internal/config"
	"mealmind/internal/logging"
	"mealmind/internal/planner"
	"mealmind/internal/recipes"
)

func testEstimator() *Estimator {
	return NewEstimator(&config.Config{
		DefaultProteinCost:   15,
		DefaultVegetableCost: 5,
		DefaultGrainCost:     3,
		DefaultDairyCost:     8,
	}, logging.NewNop())
}

func testBuilder() *Builder {
	return NewBuilder(testEstimator(), logging.NewNop())
}

func acceptedDay(n int, meals ...recipes.Candidate) planner.DayPlan {
	day := planner.DayPlan{Day: n}
	for i := range meals {
		day.Slots = append(day.Slots, planner.Slot{
			Day:      n,
			MealType: recipes.MealTypes[i%len(recipes.MealTypes)],
			State:    planner.StateAccepted,
			Recipe:   &meals[i],
		})
	}
	return day
}

func weekOf(days ...planner.DayPlan) *planner.WeeklyPlan {
	return &planner.WeeklyPlan{ID: "plan-1", HouseholdID: "hh-1", Days: days}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		ingredient string
		want       string
	}{
		{"chicken breast", "Meat & Poultry"},
		{"salmon fillet", "Seafood"},
		{"tofu", "Meat Alternatives"},
		{"eggs", "Dairy & Eggs"},
		{"sweet potato", "Vegetables"},
		{"whole wheat bread", "Bakery"},
		{"quinoa", "Grains & Pasta"},
		{"olive oil", "Oils & Condiments"},
		{"dried oregano", "Spices & Herbs"},
		{"lemon", "Fruits"},
		{"ground meat", "Meat & Poultry"},
		{"mixed vegetables", "Vegetables"},
		{"dragon fruit", "Fruits"},
		{"saffron", "Other"},
	}

	for _, tc := range cases {
		if got := categorize(tc.ingredient); got != tc.want {
			t.Errorf("categorize(%q) = %q, want %q", tc.ingredient, got, tc.want)
		}
	}
}

func TestEstimateIngredient(t *testing.T) {
	e := testEstimator()

	t.Run("DirectMatch", func(t *testing.T) {
		cost := e.EstimateIngredient("chicken", 1000)
		if cost.EstimatedCost != 15.00 {
			t.Errorf("Expected $15.00 per kg of chicken, got %f", cost.EstimatedCost)
		}
		if cost.Category != "protein" {
			t.Errorf("Expected category protein, got %s", cost.Category)
		}
	})

	t.Run("PartialMatch", func(t *testing.T) {
		cost := e.EstimateIngredient("chicken breast", 500)
		if cost.EstimatedCost != 7.50 {
			t.Errorf("Expected $7.50 for 500g chicken breast, got %f", cost.EstimatedCost)
		}
	})

	t.Run("PricedByMultiplier", func(t *testing.T) {
		cost := e.EstimateIngredient("quinoa", 500)
		if cost.EstimatedCost != 3.75 {
			t.Errorf("Expected $3.75 for 500g quinoa, got %f", cost.EstimatedCost)
		}
	})

	t.Run("KeywordGuess", func(t *testing.T) {
		cost := e.EstimateIngredient("mystery greens", 500)
		if cost.Category != "vegetable" {
			t.Errorf("Expected a vegetable guess, got %s", cost.Category)
		}
		if cost.EstimatedCost != 2.50 {
			t.Errorf("Expected $2.50, got %f", cost.EstimatedCost)
		}
	})

	t.Run("GenericFallback", func(t *testing.T) {
		cost := e.EstimateIngredient("saffron", 100)
		if cost.Category != "unknown" {
			t.Errorf("Expected category unknown, got %s", cost.Category)
		}
		if cost.PricePerKG != 10.0 {
			t.Errorf("Expected generic $10/kg, got %f", cost.PricePerKG)
		}
	})
}

func TestBuildAggregation(t *testing.T) {
	b := testBuilder()

	plan := weekOf(
		acceptedDay(1, recipes.Candidate{
			Name: "Stir Fry",
			Ingredients: []recipes.Ingredient{
				{Name: "Rice", Amount: 200, Unit: "grams"},
				{Name: "olive oil", Amount: 50, Unit: "ml"},
				{Name: "egg", Amount: 2, Unit: "pieces"},
			},
		}),
		acceptedDay(2, recipes.Candidate{
			Name: "Fried Rice",
			Ingredients: []recipes.Ingredient{
				{Name: "rice", Amount: 150, Unit: "grams"},
				{Name: "olive oil", Amount: 25, Unit: "grams"},
				{Name: "egg", Amount: 3, Unit: "pieces"},
			},
		}),
	)

	list := b.Build(plan, 0)

	byName := map[string]Item{}
	for _, item := range list.Items {
		byName[item.Name] = item
	}

	t.Run("MergesAcrossMealsCaseInsensitively", func(t *testing.T) {
		rice := byName["Rice"]
		if rice.TotalAmount != 350 {
			t.Errorf("Expected 350 grams of rice, got %f", rice.TotalAmount)
		}
		if rice.Unit != "grams" {
			t.Errorf("Expected grams, got %s", rice.Unit)
		}
		if len(rice.UsedInMeals) != 2 {
			t.Fatalf("Expected rice in 2 meals, got %v", rice.UsedInMeals)
		}
		if rice.UsedInMeals[0] != "Day 1 - Stir Fry" {
			t.Errorf("Expected meal label 'Day 1 - Stir Fry', got %q", rice.UsedInMeals[0])
		}
	})

	t.Run("MillilitersConvertToGrams", func(t *testing.T) {
		oil := byName["Olive Oil"]
		if oil.TotalAmount != 75 {
			t.Errorf("Expected 75 grams of olive oil, got %f", oil.TotalAmount)
		}
		if oil.Unit != "grams" {
			t.Errorf("Expected grams, got %s", oil.Unit)
		}
	})

	t.Run("PiecesStaySeparate", func(t *testing.T) {
		egg := byName["Egg"]
		if egg.Unit != "pieces" {
			t.Errorf("Expected pieces, got %s", egg.Unit)
		}
		if egg.TotalAmount != 5 {
			t.Errorf("Expected 5 pieces, got %f", egg.TotalAmount)
		}
	})

	t.Run("SortedByCategoryThenName", func(t *testing.T) {
		for i := 1; i < len(list.Items); i++ {
			prev, cur := list.Items[i-1], list.Items[i]
			if prev.Category > cur.Category || (prev.Category == cur.Category && prev.Name > cur.Name) {
				t.Errorf("Items out of order: %s/%s before %s/%s", prev.Category, prev.Name, cur.Category, cur.Name)
			}
		}
	})
}

func TestShoppingTips(t *testing.T) {
	b := testBuilder()
	plan := weekOf(acceptedDay(1, recipes.Candidate{
		Name: "Steak Night",
		Ingredients: []recipes.Ingredient{
			{Name: "beef", Amount: 1000, Unit: "grams"},
			{Name: "broccoli", Amount: 300, Unit: "grams"},
		},
	}))

	t.Run("OverBudget", func(t *testing.T) {
		// beef $22.50 + broccoli $1.50 = $24.00
		list := b.Build(plan, 20)
		want := "Estimated cost ($24.00) exceeds budget ($20.00) by $4.00"
		if !hasTip(list.ShoppingTips, want) {
			t.Errorf("Expected tip %q, got %v", want, list.ShoppingTips)
		}
		if !hasTip(list.ShoppingTips, "Consider: buying generic brands, using coupons, or adjusting recipes") {
			t.Errorf("Expected a savings tip, got %v", list.ShoppingTips)
		}
	})

	t.Run("UnderBudget", func(t *testing.T) {
		list := b.Build(plan, 30)
		want := "Within budget! You have $6.00 remaining"
		if !hasTip(list.ShoppingTips, want) {
			t.Errorf("Expected tip %q, got %v", want, list.ShoppingTips)
		}
	})

	t.Run("NoBudgetNoBudgetTips", func(t *testing.T) {
		list := b.Build(plan, 0)
		for _, tip := range list.ShoppingTips {
			if strings.Contains(tip, "budget") {
				t.Errorf("Expected no budget tips without a budget, got %q", tip)
			}
		}
	})

	t.Run("FreshAndExpensive", func(t *testing.T) {
		list := b.Build(plan, 0)
		if !hasTip(list.ShoppingTips, "Buy fresh items (2 items) closer to when you'll use them") {
			t.Errorf("Expected a freshness tip, got %v", list.ShoppingTips)
		}
		// Beef is above the $10 threshold.
		found := false
		for _, tip := range list.ShoppingTips {
			if strings.HasPrefix(tip, "Most expensive items: ") && strings.Contains(tip, "Beef") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected an expensive items tip naming Beef, got %v", list.ShoppingTips)
		}
	})

	t.Run("StorageTipAlwaysPresent", func(t *testing.T) {
		list := b.Build(plan, 0)
		if !hasTip(list.ShoppingTips, "Store herbs and vegetables properly to extend freshness") {
			t.Errorf("Expected the storage tip, got %v", list.ShoppingTips)
		}
	})
}

func TestChecklist(t *testing.T) {
	b := testBuilder()
	plan := weekOf(acceptedDay(1, recipes.Candidate{
		Name: "Dinner",
		Ingredients: []recipes.Ingredient{
			{Name: "broccoli", Amount: 300, Unit: "grams"},
			{Name: "bread", Amount: 200, Unit: "grams"},
		},
	}))

	checklist := b.Build(plan, 0).Checklist()

	if !strings.Contains(checklist, "WEEKLY GROCERY LIST") {
		t.Error("Expected the checklist banner")
	}
	if !strings.Contains(checklist, "TOTAL ITEMS: 2") {
		t.Errorf("Expected the item count, got:\n%s", checklist)
	}

	// Vegetables come before Bakery in store walking order.
	vegIdx := strings.Index(checklist, "VEGETABLES")
	bakeryIdx := strings.Index(checklist, "BAKERY")
	if vegIdx == -1 || bakeryIdx == -1 || vegIdx > bakeryIdx {
		t.Errorf("Expected VEGETABLES before BAKERY, got:\n%s", checklist)
	}

	if !strings.Contains(checklist, "[ ] Broccoli") {
		t.Errorf("Expected a checkbox line for Broccoli, got:\n%s", checklist)
	}
}

func hasTip(tips []string, want string) bool {
	for _, tip := range tips {
		if tip == want {
			return true
		}
	}
	return false
}
