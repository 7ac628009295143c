// Package app wires the generation pipeline to persistence: it runs plan
// generation, stores the result, records metrics, and maintains the template
// library used for fallback plans.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"diet-planner/internal/clipper"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/planner"
	"diet-planner/internal/shopping"
	"diet-planner/internal/storage"
)

// App is the application service behind every user-facing command.
type App struct {
	textGen   llm.TextGenerator
	plans     *planner.PlanRepository
	profiles  *ProfileRepository
	metrics   *metrics.Store
	shopping  *shopping.Repository
	templates *storage.TemplateStore
	clipper   *clipper.Clipper
	logger    *zap.Logger

	mu      sync.RWMutex
	planner *planner.Planner
}

// New builds the App, loading stored meal templates into the fallback
// library.
func New(
	textGen llm.TextGenerator,
	plans *planner.PlanRepository,
	profiles *ProfileRepository,
	metricsStore *metrics.Store,
	shoppingRepo *shopping.Repository,
	templates *storage.TemplateStore,
	logger *zap.Logger,
) (*App, error) {
	a := &App{
		textGen:   textGen,
		plans:     plans,
		profiles:  profiles,
		metrics:   metricsStore,
		shopping:  shoppingRepo,
		templates: templates,
		clipper:   clipper.NewClipper(textGen, logger),
		logger:    logger.Named("app"),
	}
	if err := a.reloadLibrary(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) reloadLibrary() error {
	extra, err := a.templates.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load template library: %w", err)
	}

	library := planner.NewTemplateLibrary(extra...)
	a.mu.Lock()
	a.planner = planner.NewPlanner(a.textGen, library, a.logger)
	a.mu.Unlock()

	a.logger.Info("template library loaded", zap.Int("stored_templates", len(extra)))
	return nil
}

func (a *App) currentPlanner() *planner.Planner {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.planner
}

// PlanResult bundles a generated plan with its persistence outcome.
type PlanResult struct {
	Plan           *planner.GeneratedDietPlan
	Save           planner.SaveReport
	ShoppingListID int64
}

// GenerateDietPlan runs the full pipeline for a user: generate, persist,
// record metrics, and build the shopping list. Generation failure past the
// fallback is the only fatal outcome; persistence and metrics problems are
// logged and reported, not raised.
func (a *App) GenerateDietPlan(ctx context.Context, userID string, profile nutrition.UserProfile, prefs nutrition.DietPreferences) (PlanResult, error) {
	plan, meta, err := a.currentPlanner().GeneratePlan(ctx, profile, prefs)
	if err != nil {
		return PlanResult{}, fmt.Errorf("failed to generate diet plan: %w", err)
	}

	if err := a.metrics.RecordMeta(ctx, meta); err != nil {
		a.logger.Warn("failed to record generation metrics", zap.Error(err))
	}

	report, err := a.plans.SavePlan(ctx, userID, plan)
	if err != nil {
		// The plan itself is still good; hand it back unsaved.
		a.logger.Error("failed to persist plan", zap.String("user_id", userID), zap.Error(err))
		return PlanResult{Plan: plan}, nil
	}
	for _, saveErr := range report.Failures {
		a.logger.Warn("plan meal not persisted", zap.Int64("plan_id", report.PlanID), zap.Error(saveErr))
	}

	result := PlanResult{Plan: plan, Save: report}
	items := shopping.BuildFromPlan(plan)
	if len(items) > 0 {
		listID, err := a.shopping.Save(ctx, userID, report.PlanID, items)
		if err != nil {
			a.logger.Warn("failed to save shopping list", zap.Int64("plan_id", report.PlanID), zap.Error(err))
		} else {
			result.ShoppingListID = listID
		}
	}

	a.logger.Info("diet plan generated",
		zap.String("user_id", userID),
		zap.Bool("ai_generated", plan.AIGenerated),
		zap.Int("total_calories", plan.TotalCalories),
		zap.Int("meals_persisted", report.Persisted),
		zap.Int("meals_requested", report.Requested))
	return result, nil
}

// SaveProfile stores the user's profile and preferences.
func (a *App) SaveProfile(ctx context.Context, userID string, profile nutrition.UserProfile, prefs nutrition.DietPreferences) error {
	return a.profiles.Save(ctx, userID, profile, prefs)
}

// GetProfile returns the user's stored profile and preferences, if any.
func (a *App) GetProfile(ctx context.Context, userID string) (*nutrition.UserProfile, *nutrition.DietPreferences, error) {
	return a.profiles.Get(ctx, userID)
}

// ActivePlan returns the user's active stored plan, if any.
func (a *App) ActivePlan(ctx context.Context, userID string) (*planner.PersistedPlan, error) {
	return a.plans.ActivePlan(ctx, userID)
}

// ShoppingList returns the shopping list attached to a plan, if any.
func (a *App) ShoppingList(ctx context.Context, planID int64) (*shopping.List, error) {
	return a.shopping.GetByPlan(ctx, planID)
}

// RecipeDetail expands a plan meal into a full recipe.
func (a *App) RecipeDetail(ctx context.Context, meal planner.GeneratedMeal) (planner.GeneratedMeal, error) {
	detailed, meta, err := a.currentPlanner().GenerateRecipeDetail(ctx, meal)
	if err != nil {
		return planner.GeneratedMeal{}, err
	}
	if err := a.metrics.RecordMeta(ctx, meta); err != nil {
		a.logger.Warn("failed to record recipe metrics", zap.Error(err))
	}
	return detailed, nil
}

// ImportTemplate clips a recipe from the web, stores it, and reloads the
// fallback library so the new template is available immediately.
func (a *App) ImportTemplate(ctx context.Context, url string) (planner.MealTemplate, error) {
	tmpl, err := a.clipper.ClipRecipe(ctx, url)
	if err != nil {
		return planner.MealTemplate{}, err
	}
	if _, err := a.templates.Save(tmpl); err != nil {
		return planner.MealTemplate{}, err
	}
	if err := a.reloadLibrary(); err != nil {
		return planner.MealTemplate{}, err
	}
	return tmpl, nil
}

// Stats summarizes today's model usage and process health.
type Stats struct {
	Usage []metrics.DailyUsage
	Sys   metrics.SysHealth
}

// GetStats returns today's usage totals and a process health snapshot.
func (a *App) GetStats(ctx context.Context) (Stats, error) {
	usage, err := a.metrics.GetDailyUsage(ctx, time.Now().UTC())
	if err != nil {
		return Stats{}, err
	}
	return Stats{Usage: usage, Sys: metrics.SnapshotSysHealth()}, nil
}
