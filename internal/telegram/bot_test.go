package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diet-planner/internal/nutrition"
	"diet-planner/internal/planner"
)

func TestParseProfileArgs(t *testing.T) {
	profile, prefs, err := parseProfileArgs(
		"age=30 gender=male height=180 weight=80 activity=moderate goal=weight_loss meals=4 diet=vegetarian allergies=peanuts,soy weeks=6")
	require.NoError(t, err)

	assert.Equal(t, 30, profile.Age)
	assert.Equal(t, "male", profile.Gender)
	assert.Equal(t, 180.0, profile.HeightCm)
	assert.Equal(t, 80.0, profile.WeightKg)
	assert.Equal(t, nutrition.ActivityModerate, profile.ActivityLevel)
	assert.Equal(t, nutrition.GoalWeightLoss, profile.Goal)
	assert.Equal(t, []string{"peanuts", "soy"}, profile.Allergies)
	assert.Equal(t, 6, profile.TimelineWeeks)
	assert.Equal(t, 4, prefs.MealsPerDay)
	assert.Equal(t, "vegetarian", prefs.DietType)
}

func TestParseProfileArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"MissingEquals", "age 30", `expected key=value`},
		{"UnknownField", "age=30 height=180 weight=80 shoe=44", `unknown field "shoe"`},
		{"BadNumber", "age=thirty height=180 weight=80", "bad value for age"},
		{"MissingRequired", "age=30 gender=male", "age, height and weight are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseProfileArgs(tt.args)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFormatPlan(t *testing.T) {
	plan := &planner.GeneratedDietPlan{
		Name:          "Balanced Maintenance Plan",
		TotalCalories: 2100,
		AIGenerated:   false,
		Days: []planner.DayPlan{
			{DayName: "Monday", Meals: []planner.GeneratedMeal{
				{Name: "Oatmeal", MealType: nutrition.MealBreakfast, MealTime: "08:00", Calories: 700},
			}},
		},
	}

	out := formatPlan(plan)
	assert.Contains(t, out, "Balanced Maintenance Plan (template, 2100 kcal/day)")
	assert.Contains(t, out, "Monday:")
	assert.Contains(t, out, "08:00 breakfast - Oatmeal (700 kcal)")

	plan.AIGenerated = true
	assert.Contains(t, formatPlan(plan), "(AI, 2100 kcal/day)")
}

func TestFormatProfile(t *testing.T) {
	out := formatProfile(nutrition.UserProfile{
		Age:           30,
		Gender:        "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: nutrition.ActivitySedentary,
		Goal:          nutrition.GoalMaintenance,
	}, nutrition.DietPreferences{MealsPerDay: 3})

	assert.Contains(t, out, "Age: 30")
	assert.Contains(t, out, "Daily target: 2136 kcal")
}
