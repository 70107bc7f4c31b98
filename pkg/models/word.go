package models

import (
	"database/sql"
	"time"
)

// Word represents an English word and its Portuguese translation
type Word struct {
	ID             int            `json:"id" db:"id"`
	TextEnglish    string         `json:"text_english" db:"text_english"`
	TextPortuguese string         `json:"text_portuguese" db:"text_portuguese"`
	Synonyms       sql.NullString `json:"-" db:"synonyms"` // alternate Portuguese translations, not used by answer matching
	Complexity     int            `json:"complexity" db:"complexity"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}
