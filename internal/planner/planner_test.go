package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diet-planner/internal/llm"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/shared"
)

type mockTextGenerator struct {
	response llm.ContentResponse
	err      error
	calls    int
}

func (m *mockTextGenerator) GenerateContent(_ context.Context, _ string) (llm.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return m.response, nil
}

func testProfile() nutrition.UserProfile {
	return nutrition.UserProfile{
		Age:           30,
		Gender:        "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: nutrition.ActivitySedentary,
		Goal:          nutrition.GoalMaintenance,
	}
}

func validWeekJSON(t *testing.T) string {
	t.Helper()
	days := make([]map[string]any, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, map[string]any{
			"day_number": i + 1,
			"meals": []map[string]any{
				{"name": "Omelette", "meal_type": "breakfast", "calories": 600},
				{"name": "Salad Bowl", "meal_type": "lunch", "calories": 700},
				{"name": "Roast Chicken", "meal_type": "dinner", "calories": 800},
			},
		})
	}
	out, err := json.Marshal(map[string]any{
		"name":           "Chef's Week",
		"total_calories": 2100,
		"duration_weeks": 1,
		"days":           days,
	})
	require.NoError(t, err)
	return string(out)
}

func TestGeneratePlanAcceptsModelResponse(t *testing.T) {
	gen := &mockTextGenerator{response: llm.ContentResponse{
		Content: "Here is your plan:\n```json\n" + validWeekJSON(t) + "\n```\nEnjoy!",
		Usage:   shared.TokenUsage{PromptTokens: 900, CompletionTokens: 1200, Model: "gemini-2.0-flash"},
	}}
	p := NewPlanner(gen, NewTemplateLibrary(), zap.NewNop())

	plan, meta, err := p.GeneratePlan(context.Background(), testProfile(), nutrition.DietPreferences{})
	require.NoError(t, err)

	assert.True(t, plan.AIGenerated)
	assert.Equal(t, "Chef's Week", plan.Name)
	assert.Len(t, plan.Days, 7)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "plan", meta.Stage)
	assert.Equal(t, 1200, meta.Usage.CompletionTokens)
}

func TestGeneratePlanBackfillsTotalCalories(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(validWeekJSON(t)), &doc))
	delete(doc, "total_calories")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	gen := &mockTextGenerator{response: llm.ContentResponse{Content: string(raw)}}
	p := NewPlanner(gen, NewTemplateLibrary(), zap.NewNop())

	profile := testProfile()
	plan, _, err := p.GeneratePlan(context.Background(), profile, nutrition.DietPreferences{})
	require.NoError(t, err)
	assert.Equal(t, nutrition.TargetCalories(profile), plan.TotalCalories)
}

func TestGeneratePlanFallsBack(t *testing.T) {
	sixDays := func(t *testing.T) string {
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(validWeekJSON(t)), &doc))
		doc["days"] = doc["days"].([]any)[:6]
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		return string(raw)
	}

	tests := []struct {
		name string
		gen  *mockTextGenerator
	}{
		{
			name: "MissingAPIKey",
			gen:  &mockTextGenerator{err: llm.ErrAPIKeyMissing},
		},
		{
			name: "TransportFailure",
			gen:  &mockTextGenerator{err: fmt.Errorf("calling model: %w", llm.ErrTransport)},
		},
		{
			name: "MalformedEnvelope",
			gen:  &mockTextGenerator{err: llm.ErrMalformedEnvelope},
		},
		{
			name: "UnparseableResponse",
			gen:  &mockTextGenerator{response: llm.ContentResponse{Content: "I cannot produce JSON today."}},
		},
		{
			name: "InvalidPlanShape",
			gen:  &mockTextGenerator{response: llm.ContentResponse{Content: sixDays(t)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlanner(tt.gen, NewTemplateLibrary(), zap.NewNop())

			profile := testProfile()
			plan, meta, err := p.GeneratePlan(context.Background(), profile, nutrition.DietPreferences{MealsPerDay: 3})
			require.NoError(t, err)

			assert.False(t, plan.AIGenerated)
			assert.Len(t, plan.Days, 7)
			assert.Equal(t, nutrition.TargetCalories(profile), plan.TotalCalories)
			assert.Equal(t, "fallback", meta.Stage)
			for _, day := range plan.Days {
				assert.Len(t, day.Meals, 3)
			}
		})
	}
}

func TestGeneratePlanFallbackKeepsTokenUsage(t *testing.T) {
	// A response that parses but fails validation still consumed tokens;
	// they must show up on the fallback meta.
	gen := &mockTextGenerator{response: llm.ContentResponse{
		Content: `{"days": []}`,
		Usage:   shared.TokenUsage{PromptTokens: 900, CompletionTokens: 40, Model: "gemini-2.0-flash"},
	}}
	p := NewPlanner(gen, NewTemplateLibrary(), zap.NewNop())

	_, meta, err := p.GeneratePlan(context.Background(), testProfile(), nutrition.DietPreferences{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", meta.Stage)
	assert.Equal(t, 900, meta.Usage.PromptTokens)
}

func TestGenerateRecipeDetail(t *testing.T) {
	detail := `{
		"description": "A rich tomato stew.",
		"ingredients": [{"name": "tomatoes", "amount": 400, "unit": "g"}],
		"instructions": [
			{"step": 4, "instruction": "Chop the tomatoes."},
			{"step": 9, "instruction": "Simmer for 20 minutes."}
		],
		"prep_time": 10,
		"cook_time": 25,
		"difficulty": "easy"
	}`
	gen := &mockTextGenerator{response: llm.ContentResponse{Content: detail}}
	p := NewPlanner(gen, NewTemplateLibrary(), zap.NewNop())

	meal, meta, err := p.GenerateRecipeDetail(context.Background(), GeneratedMeal{
		Name:     "Tomato Stew",
		MealType: nutrition.MealDinner,
		Calories: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, "recipe", meta.Stage)
	assert.Equal(t, "A rich tomato stew.", meal.Description)
	require.Len(t, meal.Instructions, 2)
	// Model step numbers are discarded in favor of sequential ones.
	assert.Equal(t, 1, meal.Instructions[0].Step)
	assert.Equal(t, 2, meal.Instructions[1].Step)
}

func TestGenerateRecipeDetailFallsBackToTemplate(t *testing.T) {
	gen := &mockTextGenerator{err: llm.ErrAPIKeyMissing}
	p := NewPlanner(gen, NewTemplateLibrary(), zap.NewNop())

	meal, meta, err := p.GenerateRecipeDetail(context.Background(), GeneratedMeal{
		Name:     "Mystery Lunch",
		MealType: nutrition.MealLunch,
		Calories: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, "recipe_fallback", meta.Stage)
	assert.Equal(t, "Mystery Lunch", meal.Name)
	assert.NotEmpty(t, meal.Ingredients)
	assert.NotEmpty(t, meal.Instructions)
}
