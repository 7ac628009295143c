package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PersistedPlan is a stored diet plan row.
type PersistedPlan struct {
	ID            int64
	UserID        string
	Name          string
	TotalCalories int
	AIGenerated   bool
	Plan          *GeneratedDietPlan
	CreatedAt     time.Time
}

// SaveReport describes the outcome of a best-effort plan persistence batch.
// Persistence is deliberately lenient: a failed meal record is reported and
// skipped, never rolled back, so Persisted may be less than Requested.
type SaveReport struct {
	PlanID    int64
	Requested int
	Persisted int
	Failures  []error
}

// PlanRepository is a database-backed store for generated plans and their
// per-meal recipe and entry records.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan inserts the plan header and marks it as the user's active plan,
// deactivating any previous one. Concurrent generations for the same user
// thus converge on a single active plan.
func (r *PlanRepository) CreatePlan(ctx context.Context, userID string, plan *GeneratedDietPlan) (int64, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal plan: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE diet_plans SET active = 0 WHERE user_id = ? AND active = 1`, userID,
	); err != nil {
		return 0, fmt.Errorf("failed to deactivate previous plans: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO diet_plans (user_id, name, description, total_calories, duration_weeks, ai_generated, plan_data, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		userID, plan.Name, plan.Description, plan.TotalCalories, plan.DurationWeeks,
		plan.AIGenerated, string(planJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert plan: %w", err)
	}
	return res.LastInsertId()
}

// CreateRecipe inserts the full recipe record for one meal.
func (r *PlanRepository) CreateRecipe(ctx context.Context, planID int64, meal GeneratedMeal) (int64, error) {
	mealJSON, err := json.Marshal(meal)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal recipe: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (plan_id, name, meal_type, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		planID, meal.Name, string(meal.MealType), string(mealJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}
	return res.LastInsertId()
}

// CreateMealEntry inserts the day/slot record pointing at a recipe.
func (r *PlanRepository) CreateMealEntry(ctx context.Context, planID, recipeID int64, dayNumber int, meal GeneratedMeal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_entries (plan_id, recipe_id, day_number, meal_type, meal_time, calories, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		planID, recipeID, dayNumber, string(meal.MealType), meal.MealTime, meal.Calories, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal entry: %w", err)
	}
	return res.LastInsertId()
}

// SavePlan persists a plan and all its per-meal records best-effort: the
// plan header must succeed, but individual recipe/entry failures are
// collected into the report and skipped rather than aborting the batch.
func (r *PlanRepository) SavePlan(ctx context.Context, userID string, plan *GeneratedDietPlan) (SaveReport, error) {
	planID, err := r.CreatePlan(ctx, userID, plan)
	if err != nil {
		return SaveReport{}, err
	}

	report := SaveReport{PlanID: planID}
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			report.Requested++

			recipeID, err := r.CreateRecipe(ctx, planID, meal)
			if err != nil {
				report.Failures = append(report.Failures,
					fmt.Errorf("day %d meal %q: %w", day.DayNumber, meal.Name, err))
				continue
			}
			if _, err := r.CreateMealEntry(ctx, planID, recipeID, day.DayNumber, meal); err != nil {
				report.Failures = append(report.Failures,
					fmt.Errorf("day %d meal %q entry: %w", day.DayNumber, meal.Name, err))
				continue
			}
			report.Persisted++
		}
	}
	return report, nil
}

// ActivePlan returns the user's current active plan, or nil if none exists.
func (r *PlanRepository) ActivePlan(ctx context.Context, userID string) (*PersistedPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, total_calories, ai_generated, plan_data, created_at
		 FROM diet_plans WHERE user_id = ? AND active = 1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	)
	return scanPlan(row)
}

// ListRecent retrieves the N most recent plans for a user.
func (r *PlanRepository) ListRecent(ctx context.Context, userID string, limit int) ([]PersistedPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, total_calories, ai_generated, plan_data, created_at
		 FROM diet_plans WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []PersistedPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*PersistedPlan, error) {
	var p PersistedPlan
	var planJSON string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.TotalCalories, &p.AIGenerated, &planJSON, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan plan row: %w", err)
	}

	var plan GeneratedDietPlan
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan data: %w", err)
	}
	p.Plan = &plan
	return &p, nil
}
