package planner

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"diet-planner/internal/nutrition"
)

//go:embed plan_prompt.md
var planPrompt string

//go:embed recipe_prompt.md
var recipePrompt string

var (
	planPromptTmpl   = template.Must(template.New("plan").Parse(planPrompt))
	recipePromptTmpl = template.Must(template.New("recipe").Parse(recipePrompt))
)

type planPromptData struct {
	Profile           nutrition.UserProfile
	MedicalConditions string
	Allergies         string
	FoodRestrictions  string
	DietType          string
	PrimaryCuisine    string
	MealsPerDay       int
	TargetCalories    int
	PerMeal           nutrition.MacroSplit
}

// BuildPlanPrompt deterministically renders the weekly plan generation
// request: the exact day and meal counts, the diet constraints, the calorie
// target, and a literal JSON skeleton the model is asked to mimic.
func BuildPlanPrompt(profile nutrition.UserProfile, prefs nutrition.DietPreferences, targetCalories int) (string, error) {
	dietType := prefs.DietType
	if dietType == "" {
		dietType = "balanced"
	}

	data := planPromptData{
		Profile:           profile,
		MedicalConditions: strings.Join(profile.MedicalConditions, ", "),
		Allergies:         strings.Join(profile.Allergies, ", "),
		FoodRestrictions:  strings.Join(prefs.FoodRestrictions, ", "),
		DietType:          dietType,
		PrimaryCuisine:    prefs.PrimaryCuisine(),
		MealsPerDay:       prefs.MealCount(),
		TargetCalories:    targetCalories,
		PerMeal:           nutrition.SplitCalories(targetCalories, prefs.MealCount()),
	}

	var buf bytes.Buffer
	if err := planPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildRecipePrompt renders the detail request for a single meal.
func BuildRecipePrompt(meal GeneratedMeal) (string, error) {
	var buf bytes.Buffer
	if err := recipePromptTmpl.Execute(&buf, meal); err != nil {
		return "", err
	}
	return buf.String(), nil
}
