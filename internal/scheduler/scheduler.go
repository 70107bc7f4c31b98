package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/vocabdiary/internal/database"
	"github.com/example/vocabdiary/internal/session"
)

// Scheduler manages the background housekeeping jobs. Review scheduling
// itself stays lazy: due words are found by comparing against the clock at
// selection time, never by a timer.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  *session.Store
	statuses  *database.StatusRepository
	logger    *zap.Logger
}

// New creates a new scheduler instance
func New(sessions *session.Store, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		statuses:  database.NewStatusRepository(),
		logger:    logger,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Abandoned training sessions hold only ephemeral cleared-lists; sweep
	// them so the map doesn't grow unbounded.
	s.scheduler.Every(15).Minutes().Do(s.sweepSessions)

	// Morning digest of how many words each user has waiting.
	s.scheduler.Every(1).Day().At("06:00").Do(s.dueDigest)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sweepSessions() {
	if dropped := s.sessions.Sweep(time.Now()); dropped > 0 {
		s.logger.Info("expired idle training sessions", zap.Int("dropped", dropped))
	}
}

func (s *Scheduler) dueDigest() {
	counts, err := s.statuses.DueCountsByUser(time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to collect due counts", zap.Error(err))
		return
	}
	for _, c := range counts {
		s.logger.Info("words due for review",
			zap.Int64("user_id", c.UserID),
			zap.Int("due", c.Count),
		)
	}
}
