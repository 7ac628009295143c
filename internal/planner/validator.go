package planner

import (
	"encoding/json"
	"errors"
	"fmt"

	"diet-planner/internal/nutrition"
)

// ErrInvalidPlanShape is returned when a parsed plan violates a domain
// invariant. Any violation anywhere rejects the whole plan; there is no
// partial acceptance.
var ErrInvalidPlanShape = errors.New("invalid plan shape")

// Loose mirror types for validation: pointer fields distinguish an absent
// value from a zero one, and json.RawMessage defers day parsing so a
// non-sequence "days" is reported as a shape error rather than a type error.
type rawMeal struct {
	Name         *string            `json:"name"`
	Description  string             `json:"description"`
	MealType     *string            `json:"meal_type"`
	MealTime     string             `json:"meal_time"`
	Calories     *float64           `json:"calories"`
	Protein      float64            `json:"protein"`
	Carbs        float64            `json:"carbs"`
	Fat          float64            `json:"fat"`
	Ingredients  []Ingredient       `json:"ingredients"`
	Instructions []InstructionStep  `json:"instructions"`
	PrepTime     int                `json:"prep_time"`
	CookTime     int                `json:"cook_time"`
	Difficulty   string             `json:"difficulty"`
	Tags         []string           `json:"tags"`
	CuisineType  string             `json:"cuisine_type"`
}

type rawDay struct {
	DayNumber        int       `json:"day_number"`
	DayName          string    `json:"day_name"`
	TotalDayCalories float64   `json:"total_day_calories"`
	Meals            []rawMeal `json:"meals"`
}

type rawPlan struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TotalCalories float64         `json:"total_calories"`
	DurationWeeks int             `json:"duration_weeks"`
	Days          json.RawMessage `json:"days"`
}

// ValidatePlan checks a parsed model response against the plan invariants
// and converts it into a GeneratedDietPlan. Checks run in order and
// short-circuit on the first failure:
//
//   - the document is a JSON object with a "days" sequence
//   - the sequence has exactly 7 entries (never truncated or padded)
//   - every day has a non-empty meal list
//   - every meal has a non-empty name, a recognized meal type, and a
//     numeric calorie value >= 0
//
// Day numbers and names are normalized to their index-locked values;
// optional meal fields pass through as parsed.
func ValidatePlan(doc json.RawMessage) (*GeneratedDietPlan, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidPlanShape)
	}

	var raw rawPlan
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidPlanShape, err)
	}
	if raw.Days == nil {
		return nil, fmt.Errorf("%w: missing days field", ErrInvalidPlanShape)
	}

	var days []rawDay
	if err := json.Unmarshal(raw.Days, &days); err != nil {
		return nil, fmt.Errorf("%w: days is not a sequence: %v", ErrInvalidPlanShape, err)
	}
	if len(days) != 7 {
		return nil, fmt.Errorf("%w: expected exactly 7 days, got %d", ErrInvalidPlanShape, len(days))
	}

	plan := &GeneratedDietPlan{
		Name:          raw.Name,
		Description:   raw.Description,
		TotalCalories: int(raw.TotalCalories),
		DurationWeeks: raw.DurationWeeks,
		Days:          make([]DayPlan, 0, 7),
	}
	if plan.DurationWeeks < 1 {
		plan.DurationWeeks = 1
	}

	for i, day := range days {
		if len(day.Meals) == 0 {
			return nil, fmt.Errorf("%w: day %d has no meals", ErrInvalidPlanShape, i+1)
		}

		out := DayPlan{
			DayNumber:        i + 1,
			DayName:          dayNames[i],
			TotalDayCalories: day.TotalDayCalories,
			Meals:            make([]GeneratedMeal, 0, len(day.Meals)),
		}

		for j, meal := range day.Meals {
			if meal.Name == nil || *meal.Name == "" {
				return nil, fmt.Errorf("%w: day %d meal %d has no name", ErrInvalidPlanShape, i+1, j+1)
			}
			if meal.MealType == nil || !nutrition.KnownMealType(nutrition.MealType(*meal.MealType)) {
				return nil, fmt.Errorf("%w: day %d meal %q has unrecognized meal type", ErrInvalidPlanShape, i+1, *meal.Name)
			}
			if meal.Calories == nil {
				return nil, fmt.Errorf("%w: day %d meal %q has no calorie value", ErrInvalidPlanShape, i+1, *meal.Name)
			}
			if *meal.Calories < 0 {
				return nil, fmt.Errorf("%w: day %d meal %q has negative calories", ErrInvalidPlanShape, i+1, *meal.Name)
			}

			out.Meals = append(out.Meals, GeneratedMeal{
				Name:         *meal.Name,
				Description:  meal.Description,
				MealType:     nutrition.MealType(*meal.MealType),
				MealTime:     meal.MealTime,
				Calories:     *meal.Calories,
				Protein:      meal.Protein,
				Carbs:        meal.Carbs,
				Fat:          meal.Fat,
				Ingredients:  meal.Ingredients,
				Instructions: meal.Instructions,
				PrepTime:     meal.PrepTime,
				CookTime:     meal.CookTime,
				Difficulty:   meal.Difficulty,
				Tags:         meal.Tags,
				CuisineType:  meal.CuisineType,
			})
		}

		if out.TotalDayCalories == 0 {
			for _, m := range out.Meals {
				out.TotalDayCalories += m.Calories
			}
		}
		plan.Days = append(plan.Days, out)
	}

	return plan, nil
}
