package constraints

import (
	"sort"
	"strings"

	"mealmind/internal/profile"
)

// Guideline holds the avoid/prefer terms for one health condition.
type Guideline struct {
	Avoid  []string
	Prefer []string
}

// ConstraintSet is the union of every member's dietary constraints,
// recomputed from the household on each use.
type ConstraintSet struct {
	Allergies           []string
	DietaryRestrictions []string
	HealthConditions    []string
	Dislikes            []string
	// HealthGuidelines maps each active condition (lower-cased) to its
	// avoid/prefer terms. Unknown conditions map to empty guidelines.
	HealthGuidelines map[string]Guideline
}

// DefaultGuidelines returns the built-in health condition reference table.
// Keys are lower case; Aggregate normalizes condition names before lookup.
func DefaultGuidelines() map[string]Guideline {
	return map[string]Guideline{
		"diabetes": {
			Avoid:  []string{"sugar", "white bread", "candy", "soda"},
			Prefer: []string{"whole grains", "vegetables", "lean protein"},
		},
		"pcos": {
			Avoid:  []string{"refined carbs", "sugary foods"},
			Prefer: []string{"low-GI foods", "lean protein", "vegetables"},
		},
		"high blood pressure": {
			Avoid:  []string{"salt", "processed foods", "fatty meats"},
			Prefer: []string{"low sodium", "vegetables", "whole grains"},
		},
		"gluten intolerance": {
			Avoid:  []string{"wheat", "barley", "rye"},
			Prefer: []string{"rice", "quinoa", "gluten-free grains"},
		},
	}
}

// Aggregate builds a ConstraintSet from the household's members.
//
// Values are deduplicated case-insensitively (the first spelling seen wins)
// and sorted for a deterministic result regardless of member order. The
// guidelines table is consulted per distinct health condition; conditions
// without an entry resolve to an empty guideline, never an error.
func Aggregate(h *profile.Household, guidelines map[string]Guideline) ConstraintSet {
	if guidelines == nil {
		guidelines = DefaultGuidelines()
	}

	var allergies, restrictions, conditions, dislikes collector
	for _, m := range h.Members {
		allergies.addAll(m.Allergies)
		restrictions.addAll(m.DietaryRestrictions)
		conditions.addAll(m.HealthConditions)
		dislikes.addAll(m.Dislikes)
	}

	set := ConstraintSet{
		Allergies:           allergies.sorted(),
		DietaryRestrictions: restrictions.sorted(),
		HealthConditions:    conditions.sorted(),
		Dislikes:            dislikes.sorted(),
		HealthGuidelines:    map[string]Guideline{},
	}

	for _, condition := range set.HealthConditions {
		key := normalizeCondition(condition)
		g, ok := guidelines[key]
		if !ok {
			g = Guideline{}
		}
		set.HealthGuidelines[key] = g
	}

	return set
}

// normalizeCondition lowers the condition name and accepts hyphenated
// spellings ("high-blood-pressure" matches "high blood pressure").
func normalizeCondition(condition string) string {
	return strings.ReplaceAll(strings.ToLower(condition), "-", " ")
}

// collector accumulates case-insensitively distinct strings.
type collector struct {
	seen   map[string]bool
	values []string
}

func (c *collector) addAll(values []string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if c.seen == nil {
			c.seen = map[string]bool{}
		}
		key := strings.ToLower(v)
		if c.seen[key] {
			continue
		}
		c.seen[key] = true
		c.values = append(c.values, v)
	}
}

func (c *collector) sorted() []string {
	sort.Strings(c.values)
	return c.values
}
