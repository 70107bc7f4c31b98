// Package learning implements the progress-tracking core: the answer-checking
// scheduling policy, training-set grouping, word selection and the dashboard
// aggregates.
package learning

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabdiary/internal/database"
	"github.com/example/vocabdiary/internal/session"
	"github.com/example/vocabdiary/pkg/models"
)

// Config tunes service behavior.
type Config struct {
	// AutoMasterOnClear masters a training set as soon as every member has
	// been cleared in the current session, instead of waiting for the
	// explicit master operation.
	AutoMasterOnClear bool
}

// Service wires the scheduling policy to the repositories and the
// training-session store.
type Service struct {
	words    *database.WordRepository
	statuses *database.StatusRepository
	sets     *database.TrainingSetRepository
	logs     *database.MasteryLogRepository
	profiles *database.ProfileRepository
	sessions *session.Store
	policy   *Policy

	autoMaster bool
	now        func() time.Time
}

// NewService creates a service instance
func NewService(sessions *session.Store, cfg Config) *Service {
	return &Service{
		words:      database.NewWordRepository(),
		statuses:   database.NewStatusRepository(),
		sets:       database.NewTrainingSetRepository(),
		logs:       database.NewMasteryLogRepository(),
		profiles:   database.NewProfileRepository(),
		sessions:   sessions,
		policy:     DefaultPolicy(),
		autoMaster: cfg.AutoMasterOnClear,
		now:        time.Now,
	}
}

// AnswerResult is the outcome of an answer submission.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// SubmitAnswer checks an answer against the word's translation and applies
// the scheduling policy. The status row is created lazily on the first
// submission for the (user, word) pair.
func (s *Service) SubmitAnswer(userID int64, wordID int, answer string) (*AnswerResult, error) {
	word, err := s.words.GetByID(wordID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	correct := s.policy.Matches(answer, word.TextPortuguese)

	st, err := s.statuses.GetByUserAndWord(userID, wordID)
	created := false
	if errors.Is(err, database.ErrNotFound) {
		st = &models.WordStatus{UserID: userID, WordID: wordID}
		created = true
	} else if err != nil {
		return nil, err
	}

	switch {
	case correct && st.InTrainingSet():
		setID := st.TrainingSetID.Int64
		s.policy.ApplyClearedInSet(st)
		if err := s.statuses.Upsert(st); err != nil {
			return nil, err
		}
		s.sessions.MarkCleared(userID, setID, wordID)
		if s.autoMaster {
			if err := s.masterSetIfCleared(userID, setID); err != nil {
				return nil, err
			}
		}
	case correct:
		s.policy.ApplyCorrect(st, created, now)
		if err := s.statuses.Upsert(st); err != nil {
			return nil, err
		}
	default:
		set, err := s.sets.GetOrCreateOpen(userID, now)
		if err != nil {
			return nil, err
		}
		s.policy.ApplyIncorrect(st, set.ID, now)
		if err := s.statuses.Upsert(st); err != nil {
			return nil, err
		}
	}

	return &AnswerResult{Correct: correct, CorrectAnswer: word.TextPortuguese}, nil
}

// masterSetIfCleared masters the set once the session cleared list covers
// every member.
func (s *Service) masterSetIfCleared(userID, setID int64) error {
	total, err := s.statuses.CountByTrainingSet(setID)
	if err != nil {
		return err
	}
	if total == 0 || s.sessions.ClearedCount(userID, setID) < total {
		return nil
	}
	return s.MasterSet(userID, setID)
}

// MarkCorrect is the manual override for answers the matcher wrongly
// rejected: the word is forced to mastered regardless of prior state.
func (s *Service) MarkCorrect(userID int64, wordID int) error {
	if _, err := s.words.GetByID(wordID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrWordNotFound
		}
		return err
	}
	st, err := s.statuses.GetByUserAndWord(userID, wordID)
	if errors.Is(err, database.ErrNotFound) {
		st = &models.WordStatus{UserID: userID, WordID: wordID}
	} else if err != nil {
		return err
	}
	s.policy.ApplyMastered(st, s.now().UTC())
	return s.statuses.Upsert(st)
}

// MasterSet masters a whole training set: the daily log grows by the member
// count, the set becomes terminal, and every member is detached and mastered.
func (s *Service) MasterSet(userID, setID int64) error {
	set, err := s.sets.GetByID(setID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrTrainingSetNotFound
		}
		return err
	}
	if set.IsMastered {
		return ErrSetAlreadyMastered
	}

	now := s.now().UTC()

	// Count before detaching; afterwards the set has no members to count.
	count, err := s.statuses.CountByTrainingSet(setID)
	if err != nil {
		return err
	}
	if count > 0 {
		if err := s.logs.Increment(userID, now, count); err != nil {
			return err
		}
	}

	if err := s.sets.MarkMastered(setID); err != nil {
		return err
	}

	members, err := s.statuses.ListByTrainingSet(setID)
	if err != nil {
		return err
	}
	for i := range members {
		st := &members[i]
		s.policy.ApplyMastered(st, now)
		if err := s.statuses.Upsert(st); err != nil {
			return err
		}
	}

	s.sessions.Drop(userID, setID)
	return nil
}

// ResetProgress removes all of a user's learning state and restores the
// default profile.
func (s *Service) ResetProgress(userID int64) error {
	if err := s.statuses.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.sets.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.logs.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.profiles.ResetToDefault(userID); err != nil {
		return err
	}
	s.sessions.DropUser(userID)
	return nil
}

// NextWord picks the next word for a general study session: the oldest due
// reviewable word first, otherwise a random unseen word. A nil word with nil
// error means the session is finished.
func (s *Service) NextWord(userID int64) (*models.Word, error) {
	due, err := s.statuses.FirstDue(userID, s.now().UTC())
	if err == nil {
		return s.words.GetByID(due.WordID)
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	word, err := s.words.RandomUnseen(userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return word, err
}

// NextTrainingWord picks a random member of the training set not yet cleared
// in the current session. ErrSetExhausted signals that every member has been
// cleared this sitting.
func (s *Service) NextTrainingWord(userID, setID int64) (*models.Word, error) {
	if _, err := s.sets.GetByID(setID, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTrainingSetNotFound
		}
		return nil, err
	}

	members, err := s.statuses.ListByTrainingSet(setID)
	if err != nil {
		return nil, err
	}
	cleared := s.sessions.Cleared(userID, setID)

	var pending []models.WordStatus
	for _, st := range members {
		if _, ok := cleared[st.WordID]; !ok {
			pending = append(pending, st)
		}
	}
	if len(pending) == 0 {
		return nil, ErrSetExhausted
	}

	pick := pending[rand.Intn(len(pending))]
	return s.words.GetByID(pick.WordID)
}

// ListOpenSets returns the user's open training sets that still hold words.
func (s *Service) ListOpenSets(userID int64) ([]models.TrainingSet, error) {
	return s.sets.ListOpenWithWords(userID)
}

// Counts aggregates the dashboard counters.
type Counts struct {
	FirstTry     int `json:"first_try"`
	Mastered     int `json:"mastered"`
	InReview     int `json:"in_review"`
	TotalLearned int `json:"total_learned"`
}

// Counts returns the user's dashboard counters. InReview counts words sitting
// in an open training set, matching what the training list shows.
func (s *Service) Counts(userID int64) (*Counts, error) {
	firstTry, err := s.statuses.CountByStatus(userID, models.StateFirstTry)
	if err != nil {
		return nil, err
	}
	mastered, err := s.statuses.CountByStatus(userID, models.StateMastered)
	if err != nil {
		return nil, err
	}
	inReview, err := s.statuses.CountInOpenSets(userID)
	if err != nil {
		return nil, err
	}
	return &Counts{
		FirstTry:     firstTry,
		Mastered:     mastered,
		InReview:     inReview,
		TotalLearned: firstTry + mastered,
	}, nil
}

// ProgressPoint is one day on the cumulative progress chart.
type ProgressPoint struct {
	Date         string `json:"date"`
	TotalLearned int    `json:"total_learned"`
}

// ProgressSeries builds the cumulative learned-words series, grouping learned
// statuses by the calendar day of their next-review timestamp. The timestamp
// stands in for the completion date, which it trails by the review interval.
func (s *Service) ProgressSeries(userID int64) ([]ProgressPoint, error) {
	statuses, err := s.statuses.CompletedWithReviewDates(userID)
	if err != nil {
		return nil, err
	}

	var series []ProgressPoint
	total := 0
	for _, st := range statuses {
		day := st.NextReview.Time.UTC().Format("2006-01-02")
		total++
		if n := len(series); n > 0 && series[n-1].Date == day {
			series[n-1].TotalLearned = total
			continue
		}
		series = append(series, ProgressPoint{Date: day, TotalLearned: total})
	}
	return series, nil
}

// DailyProgress compares today's mastery count against the user's goal.
type DailyProgress struct {
	Goal          int `json:"goal"`
	AchievedToday int `json:"achieved_today"`
	Percent       int `json:"percent"`
}

// DailyProgress returns the user's progress toward the daily mastery goal,
// with the percentage capped at 100.
func (s *Service) DailyProgress(userID int64) (*DailyProgress, error) {
	profile, err := s.profiles.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	achieved, err := s.logs.CountFor(userID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	percent := 0
	if profile.DailyGoal > 0 {
		percent = achieved * 100 / profile.DailyGoal
	}
	if percent > 100 {
		percent = 100
	}
	return &DailyProgress{
		Goal:          profile.DailyGoal,
		AchievedToday: achieved,
		Percent:       percent,
	}, nil
}

// Profile returns the user's profile, creating the default one when absent.
func (s *Service) Profile(userID int64) (*models.Profile, error) {
	return s.profiles.GetOrCreate(userID)
}

// SetDailyGoal updates the user's daily mastery goal.
func (s *Service) SetDailyGoal(userID int64, goal int) error {
	return s.profiles.UpdateGoal(userID, goal)
}
