// Package shopping aggregates a weekly plan's ingredients into a persisted
// shopping list.
package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"diet-planner/internal/planner"
)

// Item is one aggregated shopping list entry. Amounts are summed across the
// week for ingredients sharing a name and unit.
type Item struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// List is a persisted shopping list for one plan.
type List struct {
	ID        int64
	UserID    string
	PlanID    int64
	Items     []Item
	CreatedAt time.Time
}

// BuildFromPlan flattens every ingredient in the plan into an aggregated,
// alphabetically sorted item list.
func BuildFromPlan(plan *planner.GeneratedDietPlan) []Item {
	type key struct {
		name string
		unit string
	}
	totals := make(map[key]float64)
	display := make(map[key]string)

	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			for _, ing := range meal.Ingredients {
				if ing.Name == "" {
					continue
				}
				k := key{name: strings.ToLower(ing.Name), unit: strings.ToLower(ing.Unit)}
				totals[k] += ing.Amount
				if _, ok := display[k]; !ok {
					display[k] = ing.Name
				}
			}
		}
	}

	items := make([]Item, 0, len(totals))
	for k, amount := range totals {
		items = append(items, Item{Name: display[k], Amount: amount, Unit: k.unit})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

// Repository stores shopping lists in the database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save persists a list for the given plan and returns its ID.
func (r *Repository) Save(ctx context.Context, userID string, planID int64, items []Item) (int64, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, plan_id, items, created_at) VALUES (?, ?, ?, ?)`,
		userID, planID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return res.LastInsertId()
}

// GetByPlan returns the most recent list for a plan, or nil if none exists.
func (r *Repository) GetByPlan(ctx context.Context, planID int64) (*List, error) {
	var l List
	var itemsJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_id, items, created_at
		 FROM shopping_lists WHERE plan_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		planID,
	).Scan(&l.ID, &l.UserID, &l.PlanID, &itemsJSON, &l.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query shopping list for plan %d: %w", planID, err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &l.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &l, nil
}
