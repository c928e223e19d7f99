package scheduler

import (
	"context"
	"time"

	"duty_rotation_bot/internal/app" // For RotationService interface
	"duty_rotation_bot/internal/domain/rotation"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RotationScheduler owns the periodic triggers: a daily check that rolls a
// rotation over into a fresh cycle once the current one is exhausted, and
// a weekly digest of the coming week's slots.
type RotationScheduler struct {
	cronEngine       *cron.Cron
	rotationService  app.RotationService // Using the interface
	rotationRepo     rotation.Repository
	logger           *logrus.Entry
	cronSpecRollover string
	cronSpecDigest   string
}

func NewRotationScheduler(
	rotationService app.RotationService,
	rotationRepo rotation.Repository,
	logger *logrus.Entry,
	cronSpecRollover string, // e.g. "0 9 * * *" (9:00 AM daily)
	cronSpecDigest string, // e.g. "0 10 * * 1" (10:00 AM on Mondays)
) *RotationScheduler {
	return &RotationScheduler{
		cronEngine:       cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		rotationService:  rotationService,
		rotationRepo:     rotationRepo,
		logger:           logger,
		cronSpecRollover: cronSpecRollover,
		cronSpecDigest:   cronSpecDigest,
	}
}

func (s *RotationScheduler) Start() {
	s.logger.Info("Starting rotation scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecRollover, func() {
		s.logger.Info("Cron job triggered for rotation rollover check")
		for _, typ := range []rotation.ScheduleType{rotation.TypeWeekdayPair, rotation.TypeSaturdaySolo} {
			s.rolloverIfExhausted(typ)
		}
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add rollover cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecDigest, func() {
		s.logger.Info("Cron job triggered for weekly digest")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.rotationService.AnnounceUpcoming(ctx, time.Now()); err != nil {
			s.logger.WithError(err).Error("Error during weekly digest")
		}
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add weekly digest cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Rotation scheduler started with jobs")
}

// rolloverIfExhausted generates the next cycle for a schedule type when no
// cycle exists yet or the latest one ended before today.
func (s *RotationScheduler) rolloverIfExhausted(typ rotation.ScheduleType) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logCtx := s.logger.WithField("schedule_type", typ)

	cycles, err := s.rotationRepo.ListCyclesByType(ctx, typ)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list cycles for rollover check")
		return
	}

	today := rotation.Date(time.Now())
	if len(cycles) > 0 {
		latest := cycles[len(cycles)-1]
		if !latest.EndDate.Before(today) {
			logCtx.WithField("cycle_id", latest.ID).Debug("Current cycle still running; no rollover")
			return
		}
	}

	logCtx.Info("Current cycle exhausted; generating the next one")
	if _, err := s.rotationService.InitiateRotation(ctx, typ, today); err != nil {
		logCtx.WithError(err).Error("Error generating next rotation cycle")
	}
}

func (s *RotationScheduler) Stop() {
	s.logger.Info("Stopping rotation scheduler...")
	ctx := s.cronEngine.Stop() // Stops new job starts, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Rotation scheduler gracefully stopped")
}
