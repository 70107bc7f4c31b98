package models

import "time"

// TrainingSet groups the words a user failed on a given day into a retriable batch
type TrainingSet struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	CreationDate time.Time `json:"creation_date" db:"creation_date"`
	IsMastered   bool      `json:"is_mastered" db:"is_mastered"`
	// WordCount is populated by list queries, not stored.
	WordCount int `json:"word_count" db:"word_count"`
}
