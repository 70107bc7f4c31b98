package database

import (
	"github.com/pkg/errors"

	"github.com/example/vocabdiary/pkg/models"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct{}

// NewProfileRepository creates a new repository instance
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// GetOrCreate returns the user's profile, creating one with the default daily
// goal on first touch.
func (r *ProfileRepository) GetOrCreate(userID int64) (*models.Profile, error) {
	_, err := DB.Exec(`
		INSERT INTO profiles (user_id, daily_goal)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, models.DefaultDailyGoal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create profile")
	}
	var profile models.Profile
	if err := DB.Get(&profile, "SELECT * FROM profiles WHERE user_id = $1", userID); err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// UpdateGoal sets the user's daily mastery goal
func (r *ProfileRepository) UpdateGoal(userID int64, goal int) error {
	_, err := DB.Exec(`
		INSERT INTO profiles (user_id, daily_goal)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET daily_goal = excluded.daily_goal
	`, userID, goal)
	if err != nil {
		return errors.Wrap(err, "failed to update daily goal")
	}
	return nil
}

// ResetToDefault restores the user's profile to the default daily goal
func (r *ProfileRepository) ResetToDefault(userID int64) error {
	return r.UpdateGoal(userID, models.DefaultDailyGoal)
}
