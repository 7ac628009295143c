package planner

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalWeek(t *testing.T) json.RawMessage {
	t.Helper()
	days := make([]map[string]any, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, map[string]any{
			"day_number": i + 1,
			"meals": []map[string]any{
				{"name": fmt.Sprintf("Meal %d", i+1), "meal_type": "breakfast", "calories": 500},
				{"name": "Soup", "meal_type": "lunch", "calories": 600},
				{"name": "Stew", "meal_type": "dinner", "calories": 700},
			},
		})
	}
	doc, err := json.Marshal(map[string]any{
		"name": "Test Plan",
		"days": days,
	})
	require.NoError(t, err)
	return doc
}

func TestValidatePlanAcceptsMinimalWeek(t *testing.T) {
	plan, err := ValidatePlan(minimalWeek(t))
	require.NoError(t, err)

	require.Len(t, plan.Days, 7)
	assert.Equal(t, "Test Plan", plan.Name)
	assert.Equal(t, 1, plan.DurationWeeks)

	for i, day := range plan.Days {
		assert.Equal(t, i+1, day.DayNumber)
		assert.Equal(t, dayNames[i], day.DayName)
		assert.Equal(t, 1800.0, day.TotalDayCalories)
		assert.Len(t, day.Meals, 3)
	}
}

func TestValidatePlanNormalizesDayNumbersAndNames(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(minimalWeek(t), &doc))
	days := doc["days"].([]any)
	days[0].(map[string]any)["day_number"] = 99
	days[0].(map[string]any)["day_name"] = "Funday"
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	plan, err := ValidatePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Days[0].DayNumber)
	assert.Equal(t, "Monday", plan.Days[0].DayName)
}

func TestValidatePlanRejections(t *testing.T) {
	mutate := func(t *testing.T, fn func(doc map[string]any)) json.RawMessage {
		t.Helper()
		var doc map[string]any
		require.NoError(t, json.Unmarshal(minimalWeek(t), &doc))
		fn(doc)
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		return raw
	}

	tests := []struct {
		name string
		doc  json.RawMessage
		want string
	}{
		{
			name: "SixDays",
			doc: mutate(t, func(doc map[string]any) {
				doc["days"] = doc["days"].([]any)[:6]
			}),
			want: "expected exactly 7 days, got 6",
		},
		{
			name: "EightDays",
			doc: mutate(t, func(doc map[string]any) {
				days := doc["days"].([]any)
				doc["days"] = append(days, days[0])
			}),
			want: "expected exactly 7 days, got 8",
		},
		{
			name: "MissingDays",
			doc:  json.RawMessage(`{"name": "no days"}`),
			want: "missing days field",
		},
		{
			name: "DaysNotASequence",
			doc:  json.RawMessage(`{"days": {"monday": []}}`),
			want: "days is not a sequence",
		},
		{
			name: "EmptyMealListOnDayThree",
			doc: mutate(t, func(doc map[string]any) {
				doc["days"].([]any)[2].(map[string]any)["meals"] = []any{}
			}),
			want: "day 3 has no meals",
		},
		{
			name: "MealWithoutName",
			doc: mutate(t, func(doc map[string]any) {
				meals := doc["days"].([]any)[0].(map[string]any)["meals"].([]any)
				delete(meals[1].(map[string]any), "name")
			}),
			want: "meal 2 has no name",
		},
		{
			name: "MealWithEmptyName",
			doc: mutate(t, func(doc map[string]any) {
				meals := doc["days"].([]any)[0].(map[string]any)["meals"].([]any)
				meals[0].(map[string]any)["name"] = ""
			}),
			want: "has no name",
		},
		{
			name: "UnrecognizedMealType",
			doc: mutate(t, func(doc map[string]any) {
				meals := doc["days"].([]any)[4].(map[string]any)["meals"].([]any)
				meals[0].(map[string]any)["meal_type"] = "brunch"
			}),
			want: "unrecognized meal type",
		},
		{
			name: "MissingCalories",
			doc: mutate(t, func(doc map[string]any) {
				meals := doc["days"].([]any)[6].(map[string]any)["meals"].([]any)
				delete(meals[2].(map[string]any), "calories")
			}),
			want: "no calorie value",
		},
		{
			name: "NegativeCalories",
			doc: mutate(t, func(doc map[string]any) {
				meals := doc["days"].([]any)[0].(map[string]any)["meals"].([]any)
				meals[0].(map[string]any)["calories"] = -1
			}),
			want: "negative calories",
		},
		{
			name: "EmptyDocument",
			doc:  nil,
			want: "empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatePlan(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPlanShape)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidatePlanZeroCaloriesAllowed(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(minimalWeek(t), &doc))
	meals := doc["days"].([]any)[0].(map[string]any)["meals"].([]any)
	meals[0].(map[string]any)["calories"] = 0
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	plan, err := ValidatePlan(raw)
	require.NoError(t, err)
	assert.Zero(t, plan.Days[0].Meals[0].Calories)
}

func TestValidatePlanKeepsStatedDayTotal(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(minimalWeek(t), &doc))
	doc["days"].([]any)[0].(map[string]any)["total_day_calories"] = 2500
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	plan, err := ValidatePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, plan.Days[0].TotalDayCalories)
}
