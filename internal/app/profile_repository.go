package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"diet-planner/internal/nutrition"
)

// ProfileRepository stores each user's profile and diet preferences. One row
// per user, replaced wholesale on save.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save upserts the user's profile and preferences.
func (r *ProfileRepository) Save(ctx context.Context, userID string, profile nutrition.UserProfile, prefs nutrition.DietPreferences) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, profile_data, preferences_data, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   profile_data = excluded.profile_data,
		   preferences_data = excluded.preferences_data,
		   updated_at = excluded.updated_at`,
		userID, string(profileJSON), string(prefsJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile for user %s: %w", userID, err)
	}
	return nil
}

// Get returns the stored profile and preferences, or (nil, nil, nil) if the
// user has none.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*nutrition.UserProfile, *nutrition.DietPreferences, error) {
	var profileJSON, prefsJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT profile_data, preferences_data FROM user_profiles WHERE user_id = ?`,
		userID,
	).Scan(&profileJSON, &prefsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load profile for user %s: %w", userID, err)
	}

	var profile nutrition.UserProfile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	var prefs nutrition.DietPreferences
	if err := json.Unmarshal([]byte(prefsJSON), &prefs); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return &profile, &prefs, nil
}
