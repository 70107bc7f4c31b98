package learning

import (
	"database/sql"
	"strings"
	"time"

	"github.com/example/vocabdiary/pkg/models"
)

// Policy holds the scheduling rules applied to word statuses. All methods are
// pure over the status they receive; persistence is the caller's concern.
type Policy struct {
	// RetryDelay is how soon a failed word comes back for review.
	RetryDelay time.Duration
	// DayInterval is the unit multiplied by the consecutive-correct counter
	// to schedule the next review of a known word.
	DayInterval time.Duration
}

// DefaultPolicy returns the policy with the standard delays
func DefaultPolicy() *Policy {
	return &Policy{
		RetryDelay:  10 * time.Minute,
		DayInterval: 24 * time.Hour,
	}
}

// Matches compares a submitted answer with the expected translation using a
// case-insensitive, whitespace-trimmed exact match. Synonyms are not
// consulted.
func (p *Policy) Matches(answer, target string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(target))
}

// ApplyCorrect handles a correct answer for a word with no open training set.
// firstEncounter marks a word answered right the very first time it was seen.
// The counter acts as an increasing interval multiplier, minimum one day.
func (p *Policy) ApplyCorrect(st *models.WordStatus, firstEncounter bool, now time.Time) {
	st.ConsecutiveCorrect++
	if firstEncounter {
		st.Status = models.StateFirstTry
	} else {
		st.Status = models.StateMastered
	}
	interval := time.Duration(st.ConsecutiveCorrect) * p.DayInterval
	if interval < p.DayInterval {
		interval = p.DayInterval
	}
	st.NextReview = sql.NullTime{Time: now.Add(interval), Valid: true}
	st.TrainingSetID = sql.NullInt64{}
}

// ApplyClearedInSet handles a correct answer for a word that sits in an open
// training set. Only the counter moves; state, schedule and set membership
// stay untouched until the whole set is mastered.
func (p *Policy) ApplyClearedInSet(st *models.WordStatus) {
	st.ConsecutiveCorrect++
}

// ApplyIncorrect handles a wrong answer: back to review, counter reset,
// retry shortly, and the word joins the given training set.
func (p *Policy) ApplyIncorrect(st *models.WordStatus, setID int64, now time.Time) {
	st.Status = models.StateInReview
	st.ConsecutiveCorrect = 0
	st.NextReview = sql.NullTime{Time: now.Add(p.RetryDelay), Valid: true}
	st.TrainingSetID = sql.NullInt64{Int64: setID, Valid: true}
}

// ApplyMastered forces a word into the mastered state, detached from any set.
// Used by the manual override and when a whole training set is mastered.
func (p *Policy) ApplyMastered(st *models.WordStatus, now time.Time) {
	st.Status = models.StateMastered
	st.ConsecutiveCorrect = 1
	st.NextReview = sql.NullTime{Time: now.Add(p.DayInterval), Valid: true}
	st.TrainingSetID = sql.NullInt64{}
}
