package planner

import (
	"encoding/json"
	"fmt"

	"diet-planner/internal/nutrition"
)

// defaultMealTimes backs meal slots the user gave no preferred time for.
// Snack slots past the first cycle through the snack times.
var defaultMealTimes = map[nutrition.MealType]string{
	nutrition.MealBreakfast: "08:00",
	nutrition.MealLunch:     "13:00",
	nutrition.MealDinner:    "19:00",
	nutrition.MealSnack:     "11:00",
}

var snackTimes = []string{"11:00", "16:00", "21:00"}

// mealSlate returns the ordered meal types for a day. Three meals are always
// breakfast/lunch/dinner; every requested meal beyond the third adds another
// snack slot, so the slate always has exactly mealsPerDay entries.
func mealSlate(mealsPerDay int) []nutrition.MealType {
	slate := []nutrition.MealType{nutrition.MealBreakfast, nutrition.MealLunch, nutrition.MealDinner}
	for len(slate) < mealsPerDay {
		slate = append(slate, nutrition.MealSnack)
	}
	return slate
}

// BuildFallbackPlan deterministically constructs a 7-day plan from the
// template library. It satisfies the same invariants as AI output by
// construction and is re-validated defensively; a validation failure here is
// a defect in the template library, not a recoverable condition.
func (lib *TemplateLibrary) BuildFallbackPlan(
	targetCalories int,
	prefs nutrition.DietPreferences,
	profile nutrition.UserProfile,
) (*GeneratedDietPlan, error) {
	mealsPerDay := prefs.MealCount()
	split := nutrition.SplitCalories(targetCalories, mealsPerDay)
	slate := mealSlate(mealsPerDay)

	plan := &GeneratedDietPlan{
		Name:          fmt.Sprintf("Balanced %s Plan", titleGoal(profile.Goal)),
		Description:   fmt.Sprintf("A structured 7-day plan of roughly %d kcal per day with %d meals.", targetCalories, mealsPerDay),
		TotalCalories: targetCalories,
		DurationWeeks: durationWeeks(profile),
		Days:          make([]DayPlan, 0, 7),
	}

	for dayIdx := 0; dayIdx < 7; dayIdx++ {
		day := DayPlan{
			DayNumber: dayIdx + 1,
			DayName:   dayNames[dayIdx],
			Meals:     make([]GeneratedMeal, 0, mealsPerDay),
		}

		snackSlot := 0
		for _, mealType := range slate {
			tmpl := lib.Select(mealType, dayIdx)

			meal := GeneratedMeal{
				Name:         tmpl.Name,
				Description:  tmpl.Description,
				MealType:     mealType,
				MealTime:     slotTime(prefs, mealType, snackSlot),
				Calories:     float64(split.Calories),
				Protein:      split.ProteinG,
				Carbs:        split.CarbsG,
				Fat:          split.FatG,
				Ingredients:  tmpl.Ingredients,
				Instructions: numberSteps(tmpl.Instructions),
				PrepTime:     tmpl.PrepTime,
				CookTime:     tmpl.CookTime,
				Difficulty:   tmpl.Difficulty,
				Tags:         tmpl.Tags,
				CuisineType:  tmpl.CuisineType,
			}
			if mealType == nutrition.MealSnack {
				snackSlot++
			}

			day.TotalDayCalories += meal.Calories
			day.Meals = append(day.Meals, meal)
		}
		plan.Days = append(plan.Days, day)
	}

	// Defensive re-validation. Failing here means a template is missing a
	// required field and there is no further fallback beneath this one.
	doc, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("fallback plan marshal: %w", err)
	}
	validated, err := ValidatePlan(doc)
	if err != nil {
		return nil, fmt.Errorf("fallback plan failed self-validation (template library defect): %w", err)
	}

	validated.AIGenerated = false
	return validated, nil
}

// slotTime resolves the meal time for a slot: the user's preferred time when
// set, otherwise a default. Additional snack slots cycle the snack times so
// two snacks never collide.
func slotTime(prefs nutrition.DietPreferences, mealType nutrition.MealType, snackSlot int) string {
	if t, ok := prefs.PreferredMealTimes[mealType]; ok && t != "" && (mealType != nutrition.MealSnack || snackSlot == 0) {
		return t
	}
	if mealType == nutrition.MealSnack {
		return snackTimes[snackSlot%len(snackTimes)]
	}
	return defaultMealTimes[mealType]
}

func numberSteps(instructions []string) []InstructionStep {
	steps := make([]InstructionStep, 0, len(instructions))
	for i, text := range instructions {
		steps = append(steps, InstructionStep{Step: i + 1, Instruction: text})
	}
	return steps
}

func titleGoal(goal nutrition.Goal) string {
	switch goal {
	case nutrition.GoalWeightLoss:
		return "Weight Loss"
	case nutrition.GoalMuscleGain:
		return "Muscle Gain"
	case nutrition.GoalHealth:
		return "Health"
	default:
		return "Maintenance"
	}
}

func durationWeeks(profile nutrition.UserProfile) int {
	if profile.TimelineWeeks > 0 {
		return profile.TimelineWeeks
	}
	return 1
}
