package planner

import (
	"context"
	"encoding/json"
	"time"

	"diet-planner/internal/jsonrepair"
	"diet-planner/internal/llm"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/shared"

	"go.uber.org/zap"
)

// Planner runs the plan generation pipeline. Each invocation is a pure
// function of its inputs plus a single model call; there is no shared mutable
// state between concurrent requests.
type Planner struct {
	textGen llm.TextGenerator
	library *TemplateLibrary
	logger  *zap.Logger
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator, library *TemplateLibrary, logger *zap.Logger) *Planner {
	return &Planner{
		textGen: textGen,
		library: library,
		logger:  logger.Named("planner"),
	}
}

// GeneratePlan produces a complete, valid 7-day diet plan for the given
// profile and preferences. The model is attempted exactly once; any failure
// after prompt building (missing key, transport, malformed envelope,
// unparseable response, invalid shape) routes to the template fallback, so
// the caller always receives a usable plan in bounded time. The returned
// error is non-nil only when the fallback itself fails self-validation,
// which indicates a template library defect.
func (p *Planner) GeneratePlan(
	ctx context.Context,
	profile nutrition.UserProfile,
	prefs nutrition.DietPreferences,
) (*GeneratedDietPlan, shared.GenerationMeta, error) {
	start := time.Now()

	target := nutrition.TargetCalories(profile)
	p.logger.Info("computed calorie target",
		zap.Int("target_calories", target),
		zap.String("goal", string(profile.Goal)),
		zap.Int("meals_per_day", prefs.MealCount()),
	)

	prompt, err := BuildPlanPrompt(profile, prefs, target)
	if err != nil {
		return p.fallback(target, prefs, profile, start, shared.TokenUsage{}, "prompt rendering failed", err)
	}

	p.logger.Debug("awaiting model response", zap.Int("prompt_len", len(prompt)))
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return p.fallback(target, prefs, profile, start, resp.Usage, "model call failed", err)
	}

	doc, err := jsonrepair.Extract(resp.Content)
	if err != nil {
		return p.fallback(target, prefs, profile, start, resp.Usage, "response unparseable", err)
	}

	plan, err := ValidatePlan(doc)
	if err != nil {
		return p.fallback(target, prefs, profile, start, resp.Usage, "plan failed validation", err)
	}

	plan.AIGenerated = true
	if plan.TotalCalories <= 0 {
		plan.TotalCalories = target
	}

	p.logger.Info("ai plan accepted",
		zap.String("plan_name", plan.Name),
		zap.Int("total_calories", plan.TotalCalories),
	)
	return plan, shared.GenerationMeta{
		Stage:   "plan",
		Usage:   resp.Usage,
		Latency: time.Since(start),
	}, nil
}

// fallback converts any pipeline failure into a deterministic template plan.
func (p *Planner) fallback(
	target int,
	prefs nutrition.DietPreferences,
	profile nutrition.UserProfile,
	start time.Time,
	usage shared.TokenUsage,
	reason string,
	cause error,
) (*GeneratedDietPlan, shared.GenerationMeta, error) {
	p.logger.Warn("falling back to template plan",
		zap.String("reason", reason),
		zap.Error(cause),
	)

	plan, err := p.library.BuildFallbackPlan(target, prefs, profile)
	if err != nil {
		// No further fallback beneath this one; abort loudly.
		p.logger.Error("fallback generator failed self-validation", zap.Error(err))
		return nil, shared.GenerationMeta{Stage: "fallback", Usage: usage, Latency: time.Since(start)}, err
	}

	return plan, shared.GenerationMeta{
		Stage:   "fallback",
		Usage:   usage,
		Latency: time.Since(start),
	}, nil
}

// recipeDetail is the loose shape of a recipe detail response.
type recipeDetail struct {
	Description  string            `json:"description"`
	Ingredients  []Ingredient      `json:"ingredients"`
	Instructions []InstructionStep `json:"instructions"`
	PrepTime     int               `json:"prep_time"`
	CookTime     int               `json:"cook_time"`
	Difficulty   string            `json:"difficulty"`
	Tags         []string          `json:"tags"`
}

// GenerateRecipeDetail enriches a meal with a full recipe: ingredients,
// numbered instructions, timings. It runs through the same repair machinery
// as plan generation and falls back to the template library on any failure.
func (p *Planner) GenerateRecipeDetail(ctx context.Context, meal GeneratedMeal) (GeneratedMeal, shared.GenerationMeta, error) {
	start := time.Now()

	prompt, err := BuildRecipePrompt(meal)
	if err != nil {
		return p.templateDetail(meal, start, shared.TokenUsage{}, err), shared.GenerationMeta{Stage: "recipe_fallback", Latency: time.Since(start)}, nil
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err == nil {
		var detail recipeDetail
		if doc, exErr := jsonrepair.Extract(resp.Content); exErr != nil {
			err = exErr
		} else if umErr := json.Unmarshal(doc, &detail); umErr != nil {
			err = umErr
		} else {
			applyDetail(&meal, detail)
			return meal, shared.GenerationMeta{
				Stage:   "recipe",
				Usage:   resp.Usage,
				Latency: time.Since(start),
			}, nil
		}
	}

	return p.templateDetail(meal, start, resp.Usage, err), shared.GenerationMeta{
		Stage:   "recipe_fallback",
		Usage:   resp.Usage,
		Latency: time.Since(start),
	}, nil
}

func (p *Planner) templateDetail(meal GeneratedMeal, start time.Time, usage shared.TokenUsage, cause error) GeneratedMeal {
	p.logger.Warn("falling back to template recipe detail",
		zap.String("meal", meal.Name),
		zap.Error(cause),
	)
	tmpl := p.library.Select(meal.MealType, 0)
	if meal.Description == "" {
		meal.Description = tmpl.Description
	}
	if len(meal.Ingredients) == 0 {
		meal.Ingredients = tmpl.Ingredients
	}
	if len(meal.Instructions) == 0 {
		meal.Instructions = numberSteps(tmpl.Instructions)
	}
	if meal.PrepTime == 0 {
		meal.PrepTime = tmpl.PrepTime
	}
	if meal.CookTime == 0 {
		meal.CookTime = tmpl.CookTime
	}
	if meal.Difficulty == "" {
		meal.Difficulty = tmpl.Difficulty
	}
	return meal
}

// applyDetail merges a parsed detail response into the meal. Instruction
// steps are renumbered from 1 so the strictly-increasing invariant holds
// regardless of how the model numbered them.
func applyDetail(meal *GeneratedMeal, detail recipeDetail) {
	if detail.Description != "" {
		meal.Description = detail.Description
	}
	if len(detail.Ingredients) > 0 {
		meal.Ingredients = detail.Ingredients
	}
	if len(detail.Instructions) > 0 {
		steps := make([]InstructionStep, 0, len(detail.Instructions))
		for i, s := range detail.Instructions {
			steps = append(steps, InstructionStep{Step: i + 1, Instruction: s.Instruction})
		}
		meal.Instructions = steps
	}
	if detail.PrepTime > 0 {
		meal.PrepTime = detail.PrepTime
	}
	if detail.CookTime > 0 {
		meal.CookTime = detail.CookTime
	}
	if detail.Difficulty != "" {
		meal.Difficulty = detail.Difficulty
	}
	if len(detail.Tags) > 0 {
		meal.Tags = detail.Tags
	}
}
