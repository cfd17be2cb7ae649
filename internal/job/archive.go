package job

import (
	contextPkg "HomeFinder/pkg/context"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	defaultArchiveSchedule = "0 2 * * *"
	defaultArchiveIdle     = 30 * 24 * time.Hour
	archiveTimeout         = 5 * time.Minute
)

type Archiver interface {
	ArchiveIdle(ctx context.Context, idleFor time.Duration) (int64, error)
}

// ArchiveJob soft-deletes conversations that went quiet. It implements cron.Job.
type ArchiveJob struct {
	log      *logrus.Logger
	archiver Archiver
	idleFor  time.Duration
}

func NewArchiveJob(log *logrus.Logger, archiver Archiver, idleFor time.Duration) *ArchiveJob {
	if idleFor <= 0 {
		idleFor = defaultArchiveIdle
	}
	return &ArchiveJob{log: log, archiver: archiver, idleFor: idleFor}
}

func (j *ArchiveJob) Run() {
	requestID := fmt.Sprintf("archive-%d", time.Now().Unix())
	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), archiveTimeout)
	defer cancel()

	rows, err := j.archiver.ArchiveIdle(ctx, j.idleFor)
	if err != nil {
		j.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("[Cron] Conversation archiving failed")
		return
	}

	j.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"archived":   rows,
	}).Info("[Cron] Conversation archiving done")
}

// StartCronJob schedules the archive job on ARCHIVE_SCHEDULE (standard
// five-field cron, nightly at 02:00 by default) and the rate limit sweep on
// LIMITER_SWEEP_SCHEDULE. ARCHIVE_IDLE_AFTER sets the idle period as a Go
// duration.
func StartCronJob(log *logrus.Logger, archiver Archiver, sweepers ...Sweeper) (*cron.Cron, error) {
	schedule := os.Getenv("ARCHIVE_SCHEDULE")
	if schedule == "" {
		schedule = defaultArchiveSchedule
	}

	idleFor := defaultArchiveIdle
	if v, err := time.ParseDuration(os.Getenv("ARCHIVE_IDLE_AFTER")); err == nil && v > 0 {
		idleFor = v
	}

	c := cron.New()
	if _, err := c.AddJob(schedule, NewArchiveJob(log, archiver, idleFor)); err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_SCHEDULE %q: %w", schedule, err)
	}

	if len(sweepers) > 0 {
		sweepSchedule := os.Getenv("LIMITER_SWEEP_SCHEDULE")
		if sweepSchedule == "" {
			sweepSchedule = defaultSweepSchedule
		}
		if _, err := c.AddJob(sweepSchedule, NewSweepJob(log, sweepers...)); err != nil {
			return nil, fmt.Errorf("invalid LIMITER_SWEEP_SCHEDULE %q: %w", sweepSchedule, err)
		}
	}

	c.Start()
	log.WithFields(logrus.Fields{
		"schedule": schedule,
		"idle_for": idleFor.String(),
	}).Info("Conversation archive job scheduled")

	return c, nil
}
