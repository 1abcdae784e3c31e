// Package optimizer scores a finished weekly plan for cooking effort and
// ingredient reuse, and suggests batch cooking and prep-ahead work.
package optimizer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"mealmind/internal/logging"
	"mealmind/internal/planner"
)

// batchProteins are the base proteins worth cooking once for several meals.
var batchProteins = []string{"chicken", "beef", "pork", "fish", "salmon", "tofu"}

// prepAheadItems are ingredients that keep well once chopped or cooked,
// in suggestion priority order.
var prepAheadItems = []string{
	"onion", "carrot", "bell pepper", "broccoli", "zucchini",
	"rice", "quinoa", "pasta",
	"chicken", "beef",
}

// TimeStats summarizes cooking minutes across the week.
type TimeStats struct {
	TotalMinutes  int     `json:"total_minutes"`
	AveragePerDay float64 `json:"average_per_day"`
	MaxDay        int     `json:"max_day"`
	MinDay        int     `json:"min_day"`
	DailyTimes    []int   `json:"daily_times"`
}

// OrderedDay is one day with its accepted meals sorted longest-cooking
// first, so the big dish goes on the stove before the sides.
type OrderedDay struct {
	Day              int            `json:"day"`
	Meals            []planner.Slot `json:"meals"`
	TotalCookingTime int            `json:"total_cooking_time"`
	WithinLimit      bool           `json:"within_limit"`
}

// Result is the full optimization report for a weekly plan.
type Result struct {
	Days            []OrderedDay   `json:"days"`
	TimeStats       TimeStats      `json:"cooking_time_stats"`
	IngredientReuse map[string]int `json:"ingredient_reuse"`
	Score           float64        `json:"score"`
	Recommendations []string       `json:"recommendations"`
}

// Optimizer analyzes finished plans. It never mutates the plan and never
// fails; a plan with no accepted slots just yields an empty report.
type Optimizer struct {
	logger *logging.Logger
}

func New(logger *logging.Logger) *Optimizer {
	return &Optimizer{logger: logger}
}

// Optimize scores the plan against the household's daily cooking ceiling
// and collects every recommendation the analysis produces.
func (o *Optimizer) Optimize(plan *planner.WeeklyPlan, cookingTimeMax int) Result {
	o.logger.Info("optimizing_schedule", "days", len(plan.Days))

	stats := analyzeCookingTimes(plan.Days)
	counts, order := ingredientReuse(plan.Days)

	var recommendations []string
	if stats.AveragePerDay > float64(cookingTimeMax) {
		recommendations = append(recommendations, fmt.Sprintf(
			"Average cooking time (%.0f min) exceeds target (%d min). Consider simpler recipes.",
			stats.AveragePerDay, cookingTimeMax,
		))
	}
	recommendations = append(recommendations, batchCookingSuggestions(plan.Days, counts, order)...)
	recommendations = append(recommendations, prepAheadSuggestions(plan.Days)...)

	singleUse := 0
	for _, count := range counts {
		if count == 1 {
			singleUse++
		}
	}
	if float64(singleUse) > float64(len(counts))*0.5 {
		recommendations = append(recommendations, "Consider recipes with more overlapping ingredients to reduce grocery costs")
	}

	result := Result{
		Days:            orderDays(plan.Days, cookingTimeMax),
		TimeStats:       stats,
		IngredientReuse: counts,
		Score:           optimizationScore(stats, counts, cookingTimeMax),
		Recommendations: recommendations,
	}

	o.logger.Info("schedule_optimized",
		"score", result.Score,
		"avg_time", stats.AveragePerDay,
		"recommendations", len(recommendations),
	)

	return result
}

// analyzeCookingTimes sums accepted meal cooking times per day. Exhausted
// slots carry no recipe and contribute nothing.
func analyzeCookingTimes(days []planner.DayPlan) TimeStats {
	stats := TimeStats{}
	minDay := -1

	for _, day := range days {
		dayTime := 0
		for _, slot := range day.Accepted() {
			dayTime += slot.Recipe.CookingTimeMinutes
		}
		stats.DailyTimes = append(stats.DailyTimes, dayTime)
		stats.TotalMinutes += dayTime
		if dayTime > stats.MaxDay {
			stats.MaxDay = dayTime
		}
		if minDay == -1 || dayTime < minDay {
			minDay = dayTime
		}
	}

	if minDay >= 0 {
		stats.MinDay = minDay
	}
	if len(days) > 0 {
		stats.AveragePerDay = float64(stats.TotalMinutes) / float64(len(days))
	}
	return stats
}

// ingredientReuse counts how many meals use each lowercased ingredient
// name. The returned order slice records first appearance, keeping the
// suggestions deterministic.
func ingredientReuse(days []planner.DayPlan) (map[string]int, []string) {
	counts := map[string]int{}
	var order []string

	for _, day := range days {
		for _, slot := range day.Accepted() {
			for _, ing := range slot.Recipe.Ingredients {
				name := strings.ToLower(ing.Name)
				if _, seen := counts[name]; !seen {
					order = append(order, name)
				}
				counts[name]++
			}
		}
	}
	return counts, order
}

// orderDays sorts each day's accepted meals by cooking time, longest
// first, and flags days whose total exceeds the ceiling.
func orderDays(days []planner.DayPlan, cookingTimeMax int) []OrderedDay {
	var ordered []OrderedDay
	for _, day := range days {
		meals := day.Accepted()
		sort.SliceStable(meals, func(i, j int) bool {
			return meals[i].Recipe.CookingTimeMinutes > meals[j].Recipe.CookingTimeMinutes
		})

		total := 0
		for _, meal := range meals {
			total += meal.Recipe.CookingTimeMinutes
		}

		ordered = append(ordered, OrderedDay{
			Day:              day.Day,
			Meals:            meals,
			TotalCookingTime: total,
			WithinLimit:      total <= cookingTimeMax,
		})
	}
	return ordered
}

func batchCookingSuggestions(days []planner.DayPlan, counts map[string]int, order []string) []string {
	var suggestions []string

	var frequent []string
	for _, name := range order {
		if counts[name] >= 3 {
			frequent = append(frequent, name)
		}
	}
	if len(frequent) > 0 {
		if len(frequent) > 5 {
			frequent = frequent[:5]
		}
		suggestions = append(suggestions, "Consider batch cooking: "+strings.Join(frequent, ", "))
	}

	// Group meals by base protein, one entry per matching ingredient line.
	groups := map[string][]int{}
	for _, day := range days {
		for _, slot := range day.Accepted() {
			for _, ing := range slot.Recipe.Ingredients {
				name := strings.ToLower(ing.Name)
				for _, protein := range batchProteins {
					if strings.Contains(name, protein) {
						groups[protein] = append(groups[protein], day.Day)
						break
					}
				}
			}
		}
	}
	for _, protein := range batchProteins {
		usedDays := groups[protein]
		if len(usedDays) < 2 {
			continue
		}
		labels := make([]string, len(usedDays))
		for i, d := range usedDays {
			labels[i] = fmt.Sprintf("Day %d", d)
		}
		suggestions = append(suggestions, fmt.Sprintf("Batch cook %s for %s to save time", protein, strings.Join(labels, ", ")))
	}

	return suggestions
}

func prepAheadSuggestions(days []planner.DayPlan) []string {
	usage := map[string][]int{}
	var order []string

	for _, day := range days {
		for _, slot := range day.Accepted() {
			for _, ing := range slot.Recipe.Ingredients {
				name := strings.ToLower(ing.Name)
				if _, seen := usage[name]; !seen {
					order = append(order, name)
				}
				usage[name] = append(usage[name], day.Day)
			}
		}
	}

	var suggestions []string
	for _, item := range prepAheadItems {
		var itemDays []int
		for _, name := range order {
			if strings.Contains(name, item) && len(usage[name]) >= 2 {
				itemDays = usage[name]
				break
			}
		}
		if len(itemDays) == 0 {
			continue
		}

		sorted := append([]int(nil), itemDays...)
		sort.Ints(sorted)
		labels := make([]string, len(sorted))
		for i, d := range sorted {
			labels[i] = strconv.Itoa(d)
		}
		suggestions = append(suggestions, fmt.Sprintf("Prep %s ahead for Days %s", item, strings.Join(labels, ", ")))
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

// optimizationScore starts at 100, penalizes average time over the
// ceiling (up to 30) and uneven day-to-day distribution (15), rewards
// ingredient reuse (up to 15), and clamps to [0, 100].
func optimizationScore(stats TimeStats, counts map[string]int, cookingTimeMax int) float64 {
	score := 100.0

	if stats.AveragePerDay > float64(cookingTimeMax) {
		penalty := (stats.AveragePerDay - float64(cookingTimeMax)) / float64(cookingTimeMax) * 30
		score -= math.Min(penalty, 30)
	}

	if stats.MaxDay > 0 {
		variance := float64(stats.MaxDay-stats.MinDay) / float64(stats.MaxDay)
		if variance > 0.5 {
			score -= 15
		}
	}

	reused := 0
	for _, count := range counts {
		if count >= 2 {
			reused++
		}
	}
	if len(counts) > 0 {
		score += float64(reused) / float64(len(counts)) * 15
	}

	return math.Max(0.0, math.Min(100.0, score))
}
