package models

import "time"

// DailyMasteryLog counts the words a user mastered on a calendar day
type DailyMasteryLog struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"user_id" db:"user_id"`
	Date               time.Time `json:"date" db:"date"`
	MasteredWordsCount int       `json:"mastered_words_count" db:"mastered_words_count"`
}
