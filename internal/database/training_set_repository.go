package database

import (
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabdiary/pkg/models"
)

// dateLayout is how DATE columns are bound, for both backends.
const dateLayout = "2006-01-02"

// TrainingSetRepository handles database operations for training sets
type TrainingSetRepository struct{}

// NewTrainingSetRepository creates a new repository instance
func NewTrainingSetRepository() *TrainingSetRepository {
	return &TrainingSetRepository{}
}

// GetByID returns a training set by id, scoped to its owner
func (r *TrainingSetRepository) GetByID(id, userID int64) (*models.TrainingSet, error) {
	var set models.TrainingSet
	err := DB.Get(&set,
		"SELECT id, user_id, creation_date, is_mastered FROM training_sets WHERE id = $1 AND user_id = $2",
		id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &set, nil
}

// CurrentOpen returns the user's open (non-mastered) set for the given day.
func (r *TrainingSetRepository) CurrentOpen(userID int64, day time.Time) (*models.TrainingSet, error) {
	var set models.TrainingSet
	err := DB.Get(&set, `
		SELECT id, user_id, creation_date, is_mastered FROM training_sets
		WHERE user_id = $1 AND creation_date = $2 AND NOT is_mastered
		ORDER BY id
		LIMIT 1
	`, userID, day.Format(dateLayout))
	if err != nil {
		return nil, notFound(err)
	}
	return &set, nil
}

// GetOrCreateOpen returns the user's open set for the day, creating one if
// absent. The partial unique index makes the insert race-safe: concurrent
// callers collide on (user_id, creation_date) and both see the same set.
func (r *TrainingSetRepository) GetOrCreateOpen(userID int64, day time.Time) (*models.TrainingSet, error) {
	_, err := DB.Exec(`
		INSERT INTO training_sets (user_id, creation_date, is_mastered)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id, creation_date) WHERE NOT is_mastered DO NOTHING
	`, userID, day.Format(dateLayout))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create training set")
	}
	return r.CurrentOpen(userID, day)
}

// ListOpenWithWords returns the user's non-mastered sets that still hold at
// least one word, oldest first, with the member count attached.
func (r *TrainingSetRepository) ListOpenWithWords(userID int64) ([]models.TrainingSet, error) {
	var sets []models.TrainingSet
	err := DB.Select(&sets, `
		SELECT ts.id, ts.user_id, ts.creation_date, ts.is_mastered, COUNT(ws.id) AS word_count
		FROM training_sets ts
		JOIN word_statuses ws ON ws.training_set_id = ts.id
		WHERE ts.user_id = $1 AND NOT ts.is_mastered
		GROUP BY ts.id, ts.user_id, ts.creation_date, ts.is_mastered
		ORDER BY ts.creation_date, ts.id
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list open training sets")
	}
	return sets, nil
}

// MarkMastered flags a set as mastered, making it terminal
func (r *TrainingSetRepository) MarkMastered(id int64) error {
	_, err := DB.Exec("UPDATE training_sets SET is_mastered = TRUE WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "failed to mark training set mastered")
	}
	return nil
}

// DeleteByUser removes all of a user's training sets
func (r *TrainingSetRepository) DeleteByUser(userID int64) error {
	_, err := DB.Exec("DELETE FROM training_sets WHERE user_id = $1", userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete training sets")
	}
	return nil
}
