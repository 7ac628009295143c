// Package nutrition holds the user-facing dietary domain types and the
// caloric model that turns a profile into a daily calorie target.
package nutrition

// ActivityLevel describes habitual physical activity.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal describes what the user wants the plan to achieve.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
	GoalHealth      Goal = "health"
)

// MealType classifies a meal slot within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// KnownMealType reports whether t is one of the recognized meal types.
func KnownMealType(t MealType) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// UserProfile is the immutable demographic input to plan generation.
type UserProfile struct {
	Age               int           `json:"age"`
	Gender            string        `json:"gender"`
	HeightCm          float64       `json:"height_cm"`
	WeightKg          float64       `json:"weight_kg"`
	TargetWeightKg    float64       `json:"target_weight_kg"`
	ActivityLevel     ActivityLevel `json:"activity_level"`
	Goal              Goal          `json:"goal"`
	MedicalConditions []string      `json:"medical_conditions,omitempty"`
	Allergies         []string      `json:"allergies,omitempty"`
	TimelineWeeks     int           `json:"timeline_weeks"`
}

// DietPreferences captures how the user wants to eat.
// CuisinePreferences is ordered; the first entry is the primary cuisine.
type DietPreferences struct {
	DietType           string              `json:"diet_type"`
	CuisinePreferences []string            `json:"cuisine_preferences,omitempty"`
	TastePreferences   []string            `json:"taste_preferences,omitempty"`
	FoodRestrictions   []string            `json:"food_restrictions,omitempty"`
	MealsPerDay        int                 `json:"meals_per_day"`
	PreferredMealTimes map[MealType]string `json:"preferred_meal_times,omitempty"`
}

// MealCount returns the requested meals per day clamped to a usable value.
func (p DietPreferences) MealCount() int {
	if p.MealsPerDay < 3 {
		return 3
	}
	return p.MealsPerDay
}

// PrimaryCuisine returns the first cuisine preference, or a neutral default.
func (p DietPreferences) PrimaryCuisine() string {
	if len(p.CuisinePreferences) > 0 {
		return p.CuisinePreferences[0]
	}
	return "international"
}
