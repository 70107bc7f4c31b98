package models

import (
	"database/sql"
	"time"
)

// LearningState is the per-user learning state of a word. A word the user has
// never answered has no WordStatus row at all, so there is no "unseen" member.
type LearningState string

const (
	StateFirstTry LearningState = "first_try"
	StateInReview LearningState = "in_review"
	StateMastered LearningState = "mastered"
)

// WordStatus tracks a user's progress with a specific word
type WordStatus struct {
	ID                 int64         `json:"id" db:"id"`
	UserID             int64         `json:"user_id" db:"user_id"`
	WordID             int           `json:"word_id" db:"word_id"`
	Status             LearningState `json:"status" db:"status"`
	ConsecutiveCorrect int           `json:"consecutive_correct" db:"consecutive_correct"`
	NextReview         sql.NullTime  `json:"next_review" db:"next_review"`
	TrainingSetID      sql.NullInt64 `json:"training_set_id" db:"training_set_id"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// InTrainingSet reports whether the status currently belongs to a retry group.
func (s *WordStatus) InTrainingSet() bool {
	return s.TrainingSetID.Valid
}

// DueAt reports whether the word is scheduled and due at the given time.
func (s *WordStatus) DueAt(now time.Time) bool {
	return s.NextReview.Valid && !s.NextReview.Time.After(now)
}
