package job

import (
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSweepSchedule = "@every 10m"

// Sweeper drops per-key rate limit buckets that have gone idle.
type Sweeper interface {
	SweepRateLimits(now time.Time) int
}

type SweepJob struct {
	log      *logrus.Logger
	sweepers []Sweeper
	now      func() time.Time
}

func NewSweepJob(log *logrus.Logger, sweepers ...Sweeper) *SweepJob {
	return &SweepJob{log: log, sweepers: sweepers, now: time.Now}
}

func (j *SweepJob) Run() {
	now := j.now()
	removed := 0
	for _, s := range j.sweepers {
		removed += s.SweepRateLimits(now)
	}

	j.log.WithField("removed", removed).Debug("[Cron] Rate limit buckets swept")
}
