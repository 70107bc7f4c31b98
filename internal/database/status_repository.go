package database

import (
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabdiary/pkg/models"
)

// StatusRepository handles database operations for per-user word statuses
type StatusRepository struct{}

// NewStatusRepository creates a new repository instance
func NewStatusRepository() *StatusRepository {
	return &StatusRepository{}
}

// GetByUserAndWord returns the status for a specific user and word
func (r *StatusRepository) GetByUserAndWord(userID int64, wordID int) (*models.WordStatus, error) {
	var status models.WordStatus
	err := DB.Get(&status,
		"SELECT * FROM word_statuses WHERE user_id = $1 AND word_id = $2",
		userID, wordID)
	if err != nil {
		return nil, notFound(err)
	}
	return &status, nil
}

// Upsert writes the status, inserting or updating on the (user_id, word_id)
// key. The unique constraint keeps concurrent first answers from producing
// duplicate rows.
func (r *StatusRepository) Upsert(status *models.WordStatus) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO word_statuses (user_id, word_id, status, consecutive_correct, next_review, training_set_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, word_id) DO UPDATE SET
				status = excluded.status,
				consecutive_correct = excluded.consecutive_correct,
				next_review = excluded.next_review,
				training_set_id = excluded.training_set_id,
				updated_at = CURRENT_TIMESTAMP
			RETURNING id
		`
		return DB.QueryRow(
			query,
			status.UserID,
			status.WordID,
			status.Status,
			status.ConsecutiveCorrect,
			status.NextReview,
			status.TrainingSetID,
		).Scan(&status.ID)
	}

	// SQLite path without RETURNING
	_, err := DB.Exec(`
		INSERT INTO word_statuses (user_id, word_id, status, consecutive_correct, next_review, training_set_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			status = excluded.status,
			consecutive_correct = excluded.consecutive_correct,
			next_review = excluded.next_review,
			training_set_id = excluded.training_set_id,
			updated_at = CURRENT_TIMESTAMP
	`,
		status.UserID,
		status.WordID,
		status.Status,
		status.ConsecutiveCorrect,
		status.NextReview,
		status.TrainingSetID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert word status")
	}
	return DB.QueryRow(
		"SELECT id FROM word_statuses WHERE user_id = $1 AND word_id = $2",
		status.UserID, status.WordID,
	).Scan(&status.ID)
}

// FirstDue returns the oldest due status for a user among reviewable states.
// Word id breaks ties so selection stays deterministic.
func (r *StatusRepository) FirstDue(userID int64, now time.Time) (*models.WordStatus, error) {
	var status models.WordStatus
	err := DB.Get(&status, `
		SELECT * FROM word_statuses
		WHERE user_id = $1
		  AND status IN ('in_review', 'mastered')
		  AND next_review IS NOT NULL
		  AND next_review <= $2
		ORDER BY next_review, word_id
		LIMIT 1
	`, userID, now)
	if err != nil {
		return nil, notFound(err)
	}
	return &status, nil
}

// ListByTrainingSet returns all statuses attached to a training set
func (r *StatusRepository) ListByTrainingSet(setID int64) ([]models.WordStatus, error) {
	var statuses []models.WordStatus
	err := DB.Select(&statuses,
		"SELECT * FROM word_statuses WHERE training_set_id = $1 ORDER BY word_id", setID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list statuses by training set")
	}
	return statuses, nil
}

// CountByTrainingSet returns the number of statuses attached to a training set
func (r *StatusRepository) CountByTrainingSet(setID int64) (int, error) {
	var count int
	err := DB.Get(&count,
		"SELECT COUNT(*) FROM word_statuses WHERE training_set_id = $1", setID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count training set members")
	}
	return count, nil
}

// CountByStatus returns the number of a user's statuses in a given state
func (r *StatusRepository) CountByStatus(userID int64, state models.LearningState) (int, error) {
	var count int
	err := DB.Get(&count,
		"SELECT COUNT(*) FROM word_statuses WHERE user_id = $1 AND status = $2",
		userID, state)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count statuses")
	}
	return count, nil
}

// CountInOpenSets returns how many of a user's words sit in a non-mastered
// training set. This is what the dashboard reports as "in review".
func (r *StatusRepository) CountInOpenSets(userID int64) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM word_statuses ws
		JOIN training_sets ts ON ws.training_set_id = ts.id
		WHERE ws.user_id = $1 AND NOT ts.is_mastered
	`, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count statuses in open sets")
	}
	return count, nil
}

// CompletedWithReviewDates returns the user's first-try and mastered statuses
// that carry a next-review timestamp, ordered by that timestamp. The progress
// chart groups these by day, reusing next_review as a completion-date proxy.
func (r *StatusRepository) CompletedWithReviewDates(userID int64) ([]models.WordStatus, error) {
	var statuses []models.WordStatus
	err := DB.Select(&statuses, `
		SELECT * FROM word_statuses
		WHERE user_id = $1
		  AND status IN ('first_try', 'mastered')
		  AND next_review IS NOT NULL
		ORDER BY next_review, word_id
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get completed statuses")
	}
	return statuses, nil
}

// DueCount pairs a user with the number of words due for review.
type DueCount struct {
	UserID int64 `db:"user_id"`
	Count  int   `db:"due_count"`
}

// DueCountsByUser returns, per user, how many words are due at the given time.
func (r *StatusRepository) DueCountsByUser(now time.Time) ([]DueCount, error) {
	var counts []DueCount
	err := DB.Select(&counts, `
		SELECT user_id, COUNT(*) AS due_count FROM word_statuses
		WHERE status IN ('in_review', 'mastered')
		  AND next_review IS NOT NULL
		  AND next_review <= $1
		GROUP BY user_id
		ORDER BY user_id
	`, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get due counts")
	}
	return counts, nil
}

// DeleteByUser removes all of a user's statuses
func (r *StatusRepository) DeleteByUser(userID int64) error {
	_, err := DB.Exec("DELETE FROM word_statuses WHERE user_id = $1", userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete statuses")
	}
	return nil
}
