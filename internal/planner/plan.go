// Package planner implements the diet plan generation pipeline: caloric
// targeting, prompt construction, model response repair, validation, and the
// deterministic template fallback.
package planner

import (
	"diet-planner/internal/nutrition"
)

// Ingredient is a single recipe ingredient with its measured amount.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// InstructionStep is one numbered preparation step. Steps are strictly
// increasing from 1 within a meal.
type InstructionStep struct {
	Step        int    `json:"step"`
	Instruction string `json:"instruction"`
}

// GeneratedMeal is a single meal slot in a day plan.
type GeneratedMeal struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	MealType     nutrition.MealType `json:"meal_type"`
	MealTime     string             `json:"meal_time,omitempty"`
	Calories     float64            `json:"calories"`
	Protein      float64            `json:"protein,omitempty"`
	Carbs        float64            `json:"carbs,omitempty"`
	Fat          float64            `json:"fat,omitempty"`
	Ingredients  []Ingredient       `json:"ingredients,omitempty"`
	Instructions []InstructionStep  `json:"instructions,omitempty"`
	PrepTime     int                `json:"prep_time,omitempty"`
	CookTime     int                `json:"cook_time,omitempty"`
	Difficulty   string             `json:"difficulty,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	CuisineType  string             `json:"cuisine_type,omitempty"`
}

// DayPlan is the meal set for one day of the week. DayNumber is 1-7 and
// DayName is locked 1:1 to it (1=Monday .. 7=Sunday).
type DayPlan struct {
	DayNumber        int             `json:"day_number"`
	DayName          string          `json:"day_name"`
	TotalDayCalories float64         `json:"total_day_calories"`
	Meals            []GeneratedMeal `json:"meals"`
}

// GeneratedDietPlan is a complete weekly plan. Days always has exactly 7
// entries once validated; a plan of any other length is rejected outright.
type GeneratedDietPlan struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TotalCalories int       `json:"total_calories"`
	DurationWeeks int       `json:"duration_weeks"`
	Days          []DayPlan `json:"days"`

	// AIGenerated reports whether the plan came from the model or from the
	// template fallback. Informational only; both paths satisfy the same
	// invariants.
	AIGenerated bool `json:"ai_generated"`
}

// dayNames is index-locked to day numbers 1-7.
var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
