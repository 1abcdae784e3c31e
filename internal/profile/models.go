package profile

import "fmt"

// Member is one person in a household, with their personal dietary
// constraints. Names are unique within a household.
type Member struct {
	Name                string   `json:"name"`
	Age                 int      `json:"age,omitempty"`
	HealthConditions    []string `json:"health_conditions,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Preferences         []string `json:"preferences,omitempty"`
	Dislikes            []string `json:"dislikes,omitempty"`
	// CalorieTarget is daily calories; 0 means no target.
	CalorieTarget int `json:"calorie_target,omitempty"`
}

// Household groups members that eat together and share cooking constraints.
type Household struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Members            []Member `json:"members"`
	CookingTimeMax     int      `json:"cooking_time_max_minutes"`
	BudgetWeekly       float64  `json:"budget_weekly,omitempty"`
	CuisinePreferences []string `json:"cuisine_preferences,omitempty"`
	Appliances         []string `json:"shared_appliances,omitempty"`
	MealsPerDay        int      `json:"meal_count_per_day"`
}

// Member returns the member with the given name, or nil.
func (h *Household) Member(name string) *Member {
	for i := range h.Members {
		if h.Members[i].Name == name {
			return &h.Members[i]
		}
	}
	return nil
}

// CompletenessReport says whether a household profile carries enough
// information to plan meals for it.
type CompletenessReport struct {
	Valid       bool
	Errors      []string
	Warnings    []string
	MemberCount int
}

// CheckCompleteness validates a household before planning starts. Missing
// members or a non-positive cooking ceiling are errors; a member without any
// stated constraint is only worth a warning.
func CheckCompleteness(h *Household) CompletenessReport {
	report := CompletenessReport{MemberCount: len(h.Members)}

	if len(h.Members) == 0 {
		report.Errors = append(report.Errors, "No family members added to household")
	}

	for _, m := range h.Members {
		if len(m.HealthConditions) == 0 && len(m.Allergies) == 0 && len(m.DietaryRestrictions) == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s has no dietary constraints specified", m.Name))
		}
	}

	if h.CookingTimeMax <= 0 {
		report.Errors = append(report.Errors, "Cooking time must be greater than 0")
	}

	report.Valid = len(report.Errors) == 0
	return report
}
