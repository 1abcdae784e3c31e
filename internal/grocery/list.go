// Package grocery turns a finished weekly plan into an aggregated,
// categorized shopping list with cost estimates and tips.
package grocery

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"mealmind/internal/logging"
	"mealmind/internal/planner"
)

type categoryRule struct {
	pattern  string
	category string
}

// categoryRules map ingredient name fragments to store sections. Order
// matters: the first matching rule wins.
var categoryRules = []categoryRule{
	{"chicken", "Meat & Poultry"},
	{"beef", "Meat & Poultry"},
	{"pork", "Meat & Poultry"},
	{"turkey", "Meat & Poultry"},
	{"fish", "Seafood"},
	{"salmon", "Seafood"},
	{"shrimp", "Seafood"},
	{"tofu", "Meat Alternatives"},
	{"egg", "Dairy & Eggs"},

	{"milk", "Dairy & Eggs"},
	{"cheese", "Dairy & Eggs"},
	{"yogurt", "Dairy & Eggs"},
	{"butter", "Dairy & Eggs"},
	{"cream", "Dairy & Eggs"},

	{"broccoli", "Vegetables"},
	{"carrot", "Vegetables"},
	{"spinach", "Vegetables"},
	{"tomato", "Vegetables"},
	{"onion", "Vegetables"},
	{"garlic", "Vegetables"},
	{"bell pepper", "Vegetables"},
	{"lettuce", "Vegetables"},
	{"cucumber", "Vegetables"},
	{"zucchini", "Vegetables"},
	{"potato", "Vegetables"},
	{"sweet potato", "Vegetables"},

	{"rice", "Grains & Pasta"},
	{"pasta", "Grains & Pasta"},
	{"bread", "Bakery"},
	{"quinoa", "Grains & Pasta"},
	{"oats", "Grains & Pasta"},

	{"olive oil", "Oils & Condiments"},
	{"vegetable oil", "Oils & Condiments"},
	{"soy sauce", "Oils & Condiments"},
	{"vinegar", "Oils & Condiments"},
	{"honey", "Oils & Condiments"},

	{"salt", "Spices & Herbs"},
	{"pepper", "Spices & Herbs"},
	{"cumin", "Spices & Herbs"},
	{"paprika", "Spices & Herbs"},
	{"basil", "Spices & Herbs"},
	{"oregano", "Spices & Herbs"},

	{"lemon", "Fruits"},
	{"apple", "Fruits"},
	{"banana", "Fruits"},
}

// checklistOrder is the store walking order used when rendering.
var checklistOrder = []string{
	"Vegetables",
	"Fruits",
	"Meat & Poultry",
	"Seafood",
	"Dairy & Eggs",
	"Grains & Pasta",
	"Bakery",
	"Oils & Condiments",
	"Spices & Herbs",
	"Meat Alternatives",
	"Other",
}

// freshCategories spoil fastest and drive the freshness tip.
var freshCategories = map[string]bool{
	"Vegetables":     true,
	"Fruits":         true,
	"Seafood":        true,
	"Meat & Poultry": true,
}

// CategoryOrder returns the store walking order used for rendering.
func CategoryOrder() []string {
	return append([]string(nil), checklistOrder...)
}

// Item is one aggregated shopping line.
type Item struct {
	Name          string   `json:"name"`
	TotalAmount   float64  `json:"total_amount"`
	Unit          string   `json:"unit"`
	Category      string   `json:"category"`
	EstimatedCost float64  `json:"estimated_cost"`
	UsedInMeals   []string `json:"used_in_meals"`
}

// List is the complete shopping list for one weekly plan.
type List struct {
	Items              []Item            `json:"items"`
	ItemsByCategory    map[string][]Item `json:"items_by_category"`
	TotalItems         int               `json:"total_items"`
	TotalEstimatedCost float64           `json:"total_estimated_cost"`
	ShoppingTips       []string          `json:"shopping_tips"`
}

// Builder aggregates a plan's accepted meals into a List.
type Builder struct {
	estimator *Estimator
	logger    *logging.Logger
}

func NewBuilder(estimator *Estimator, logger *logging.Logger) *Builder {
	return &Builder{estimator: estimator, logger: logger}
}

type aggregate struct {
	totalAmount float64
	unit        string
	meals       []string
}

// Build aggregates every accepted meal's ingredients, prices and
// categorizes them, and attaches shopping tips. A budget of zero means
// no budget was set.
func (b *Builder) Build(plan *planner.WeeklyPlan, budget float64) List {
	b.logger.Info("creating_grocery_list", "days", len(plan.Days))

	aggregated, order := b.aggregateIngredients(plan)

	var items []Item
	for _, name := range order {
		data := aggregated[name]
		cost := b.estimator.EstimateIngredient(name, data.totalAmount)

		items = append(items, Item{
			Name:          titleCase(name),
			TotalAmount:   math.Round(data.totalAmount*10) / 10,
			Unit:          data.unit,
			Category:      categorize(name),
			EstimatedCost: cost.EstimatedCost,
			UsedInMeals:   data.meals,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	byCategory := map[string][]Item{}
	totalCost := 0.0
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
		totalCost += item.EstimatedCost
	}

	list := List{
		Items:              items,
		ItemsByCategory:    byCategory,
		TotalItems:         len(items),
		TotalEstimatedCost: math.Round(totalCost*100) / 100,
		ShoppingTips:       shoppingTips(items, totalCost, budget),
	}

	b.logger.Info("grocery_list_created",
		"total_items", list.TotalItems,
		"total_cost", list.TotalEstimatedCost,
		"categories", len(byCategory),
	)

	return list
}

// aggregateIngredients merges ingredient lines across accepted meals,
// keyed by lowercased name. Milliliters convert to grams one to one;
// piece counts stay in their own unit rather than mixing with weights.
func (b *Builder) aggregateIngredients(plan *planner.WeeklyPlan) (map[string]*aggregate, []string) {
	aggregated := map[string]*aggregate{}
	var order []string

	for _, day := range plan.Days {
		for _, slot := range day.Accepted() {
			mealLabel := fmt.Sprintf("Day %d - %s", day.Day, slot.Recipe.Name)

			for _, ing := range slot.Recipe.Ingredients {
				name := strings.ToLower(ing.Name)

				agg, ok := aggregated[name]
				if !ok {
					agg = &aggregate{}
					aggregated[name] = agg
					order = append(order, name)
				}

				var grams float64
				switch ing.Unit {
				case "ml":
					grams = ing.Amount
				case "pieces":
					grams = 0
				default:
					grams = ing.Amount
				}

				if grams > 0 {
					agg.totalAmount += grams
					agg.unit = "grams"
				} else if agg.unit == "" {
					agg.unit = ing.Unit
					agg.totalAmount = ing.Amount
				} else {
					agg.totalAmount += ing.Amount
				}

				agg.meals = append(agg.meals, mealLabel)
			}
		}
	}

	return aggregated, order
}

func categorize(ingredient string) string {
	name := strings.ToLower(ingredient)

	for _, rule := range categoryRules {
		if strings.Contains(name, rule.pattern) {
			return rule.category
		}
	}

	switch {
	case containsAny(name, "meat", "chicken", "beef", "pork"):
		return "Meat & Poultry"
	case containsAny(name, "fish", "seafood", "salmon"):
		return "Seafood"
	case containsAny(name, "vegetable", "veggie"):
		return "Vegetables"
	case containsAny(name, "fruit"):
		return "Fruits"
	case containsAny(name, "milk", "cheese", "dairy"):
		return "Dairy & Eggs"
	case containsAny(name, "rice", "pasta", "grain"):
		return "Grains & Pasta"
	case containsAny(name, "spice", "herb", "seasoning"):
		return "Spices & Herbs"
	}

	return "Other"
}

func shoppingTips(items []Item, totalCost, budget float64) []string {
	var tips []string

	if budget > 0 && totalCost > budget {
		tips = append(tips, fmt.Sprintf(
			"Estimated cost ($%.2f) exceeds budget ($%.2f) by $%.2f",
			totalCost, budget, totalCost-budget,
		))
		tips = append(tips, "Consider: buying generic brands, using coupons, or adjusting recipes")
	} else if budget > 0 {
		tips = append(tips, fmt.Sprintf("Within budget! You have $%.2f remaining", budget-totalCost))
	}

	fresh := 0
	for _, item := range items {
		if freshCategories[item.Category] {
			fresh++
		}
	}
	if fresh > 0 {
		tips = append(tips, fmt.Sprintf("Buy fresh items (%d items) closer to when you'll use them", fresh))
	}

	var bulkNames []string
	for _, item := range items {
		if len(item.UsedInMeals) >= 3 {
			bulkNames = append(bulkNames, item.Name)
		}
	}
	if len(bulkNames) > 0 {
		if len(bulkNames) > 3 {
			bulkNames = bulkNames[:3]
		}
		tips = append(tips, fmt.Sprintf("Consider buying in bulk: %s (used 3+ times)", strings.Join(bulkNames, ", ")))
	}

	tips = append(tips, "Store herbs and vegetables properly to extend freshness")

	expensive := append([]Item(nil), items...)
	sort.SliceStable(expensive, func(i, j int) bool {
		return expensive[i].EstimatedCost > expensive[j].EstimatedCost
	})
	if len(expensive) > 3 {
		expensive = expensive[:3]
	}
	if len(expensive) > 0 && expensive[0].EstimatedCost > 10 {
		names := make([]string, len(expensive))
		for i, item := range expensive {
			names[i] = item.Name
		}
		tips = append(tips, "Most expensive items: "+strings.Join(names, ", "))
	}

	return tips
}

// Checklist renders the list as a printable shopping checklist, walking
// categories in store order.
func (l List) Checklist() string {
	divider := strings.Repeat("=", 60)

	var lines []string
	lines = append(lines, divider)
	lines = append(lines, "  WEEKLY GROCERY LIST")
	lines = append(lines, divider)
	lines = append(lines, "")

	for _, category := range checklistOrder {
		items, ok := l.ItemsByCategory[category]
		if !ok {
			continue
		}

		lines = append(lines, strings.ToUpper(category))
		lines = append(lines, strings.Repeat("-", 60))
		for _, item := range items {
			amount := strconv.FormatFloat(item.TotalAmount, 'g', -1, 64)
			if item.Unit == "grams" {
				amount = fmt.Sprintf("%.0f", item.TotalAmount)
			}
			lines = append(lines, fmt.Sprintf("  [ ] %-30s %6s %-8s $%6.2f",
				item.Name, amount, item.Unit, item.EstimatedCost))
		}
		lines = append(lines, "")
	}

	lines = append(lines, divider)
	lines = append(lines, fmt.Sprintf("TOTAL ITEMS: %d", l.TotalItems))
	lines = append(lines, fmt.Sprintf("ESTIMATED COST: $%.2f", l.TotalEstimatedCost))
	lines = append(lines, divider)

	if len(l.ShoppingTips) > 0 {
		lines = append(lines, "")
		lines = append(lines, "SHOPPING TIPS:")
		for _, tip := range l.ShoppingTips {
			lines = append(lines, "   - "+tip)
		}
	}

	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
