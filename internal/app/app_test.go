package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diet-planner/internal/database"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/planner"
	"diet-planner/internal/shopping"
	"diet-planner/internal/storage"
)

type stubTextGenerator struct {
	response string
	err      error
}

func (s *stubTextGenerator) GenerateContent(_ context.Context, _ string) (llm.ContentResponse, error) {
	if s.err != nil {
		return llm.ContentResponse{}, s.err
	}
	return llm.ContentResponse{Content: s.response}, nil
}

func newTestApp(t *testing.T, gen llm.TextGenerator) (*App, *database.DB) {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	templates, err := storage.NewTemplateStore(t.TempDir(), logger)
	require.NoError(t, err)

	a, err := New(
		gen,
		planner.NewPlanRepository(db.SQL),
		NewProfileRepository(db.SQL),
		metrics.NewStore(db.SQL),
		shopping.NewRepository(db.SQL),
		templates,
		logger,
	)
	require.NoError(t, err)
	return a, db
}

func testProfile() (nutrition.UserProfile, nutrition.DietPreferences) {
	return nutrition.UserProfile{
			Age:           30,
			Gender:        "male",
			HeightCm:      180,
			WeightKg:      80,
			ActivityLevel: nutrition.ActivitySedentary,
			Goal:          nutrition.GoalMaintenance,
		}, nutrition.DietPreferences{
			MealsPerDay: 3,
		}
}

func TestGenerateDietPlanWithoutAPIKey(t *testing.T) {
	a, _ := newTestApp(t, &stubTextGenerator{err: llm.ErrAPIKeyMissing})
	profile, prefs := testProfile()
	ctx := context.Background()

	result, err := a.GenerateDietPlan(ctx, "42", profile, prefs)
	require.NoError(t, err)

	plan := result.Plan
	require.NotNil(t, plan)
	assert.False(t, plan.AIGenerated)
	assert.Len(t, plan.Days, 7)
	for _, day := range plan.Days {
		assert.Len(t, day.Meals, 3)
	}

	// All 21 meals persisted, shopping list attached.
	assert.Equal(t, 21, result.Save.Requested)
	assert.Equal(t, 21, result.Save.Persisted)
	assert.Empty(t, result.Save.Failures)
	assert.NotZero(t, result.ShoppingListID)

	stored, err := a.ActivePlan(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.Save.PlanID, stored.ID)
	assert.Len(t, stored.Plan.Days, 7)

	list, err := a.ShoppingList(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.NotEmpty(t, list.Items)
}

func TestGenerateDietPlanReplacesActivePlan(t *testing.T) {
	a, _ := newTestApp(t, &stubTextGenerator{err: llm.ErrAPIKeyMissing})
	profile, prefs := testProfile()
	ctx := context.Background()

	first, err := a.GenerateDietPlan(ctx, "7", profile, prefs)
	require.NoError(t, err)
	second, err := a.GenerateDietPlan(ctx, "7", profile, prefs)
	require.NoError(t, err)
	require.NotEqual(t, first.Save.PlanID, second.Save.PlanID)

	active, err := a.ActivePlan(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.Save.PlanID, active.ID)
}

func TestProfileRoundTrip(t *testing.T) {
	a, _ := newTestApp(t, &stubTextGenerator{err: llm.ErrAPIKeyMissing})
	profile, prefs := testProfile()
	profile.Allergies = []string{"peanuts"}
	ctx := context.Background()

	missing, _, err := a.GetProfile(ctx, "9")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, a.SaveProfile(ctx, "9", profile, prefs))

	gotProfile, gotPrefs, err := a.GetProfile(ctx, "9")
	require.NoError(t, err)
	require.NotNil(t, gotProfile)
	assert.Equal(t, profile, *gotProfile)
	assert.Equal(t, prefs, *gotPrefs)

	// Saving again overwrites rather than duplicating.
	profile.WeightKg = 78
	require.NoError(t, a.SaveProfile(ctx, "9", profile, prefs))
	gotProfile, _, err = a.GetProfile(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, 78.0, gotProfile.WeightKg)
}

func TestImportTemplateExtendsLibrary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><h1>Shakshuka</h1><p>Eggs poached in tomato sauce.</p></body></html>"))
	}))
	defer srv.Close()

	gen := &stubTextGenerator{response: `{
		"name": "Shakshuka",
		"description": "Eggs poached in spiced tomato sauce",
		"meal_type": "breakfast",
		"ingredients": [{"name": "eggs", "amount": 3, "unit": "piece"}],
		"instructions": ["Simmer the sauce.", "Poach the eggs in it."],
		"prep_time": 10,
		"cook_time": 15,
		"difficulty": "easy",
		"cuisine_type": "middle eastern"
	}`}
	a, _ := newTestApp(t, gen)
	ctx := context.Background()

	tmpl, err := a.ImportTemplate(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Shakshuka", tmpl.Name)
	assert.Equal(t, nutrition.MealBreakfast, tmpl.MealType)

	// The reloaded library survives an app restart via the store.
	loaded, err := a.templates.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Shakshuka", loaded[0].Name)
}

func TestGetStatsRecordsFallbackMetrics(t *testing.T) {
	a, _ := newTestApp(t, &stubTextGenerator{err: llm.ErrAPIKeyMissing})
	profile, prefs := testProfile()
	ctx := context.Background()

	_, err := a.GenerateDietPlan(ctx, "1", profile, prefs)
	require.NoError(t, err)

	stats, err := a.GetStats(ctx)
	require.NoError(t, err)
	// The fallback consumed no tokens, so no per-model usage shows up.
	assert.Empty(t, stats.Usage)
	assert.Greater(t, stats.Sys.Goroutines, 0)
}
