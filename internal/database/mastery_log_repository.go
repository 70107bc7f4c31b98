package database

import (
	"time"

	"github.com/pkg/errors"
)

// MasteryLogRepository handles database operations for daily mastery logs
type MasteryLogRepository struct{}

// NewMasteryLogRepository creates a new repository instance
func NewMasteryLogRepository() *MasteryLogRepository {
	return &MasteryLogRepository{}
}

// Increment adds count to the user's log for the given day, creating the row
// on first use. Logs only ever grow; reset deletes them wholesale.
func (r *MasteryLogRepository) Increment(userID int64, day time.Time, count int) error {
	_, err := DB.Exec(`
		INSERT INTO daily_mastery_logs (user_id, date, mastered_words_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET
			mastered_words_count = daily_mastery_logs.mastered_words_count + excluded.mastered_words_count
	`, userID, day.Format(dateLayout), count)
	if err != nil {
		return errors.Wrap(err, "failed to increment mastery log")
	}
	return nil
}

// CountFor returns the mastered-word count for a user and day, zero if no log
// exists yet.
func (r *MasteryLogRepository) CountFor(userID int64, day time.Time) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COALESCE(SUM(mastered_words_count), 0) FROM daily_mastery_logs
		WHERE user_id = $1 AND date = $2
	`, userID, day.Format(dateLayout))
	if err != nil {
		return 0, errors.Wrap(err, "failed to get mastery log count")
	}
	return count, nil
}

// DeleteByUser removes all of a user's mastery logs
func (r *MasteryLogRepository) DeleteByUser(userID int64) error {
	_, err := DB.Exec("DELETE FROM daily_mastery_logs WHERE user_id = $1", userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete mastery logs")
	}
	return nil
}
