// Package jobs hosts the scheduled maintenance tasks that run inside
// the server process.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// StartActivityPruner schedules hourly deletion of activity entries
// older than the retention window. Pruning runs off the request path
// so a busy feed never pays for cleanup. The returned cron must be
// stopped by the caller on shutdown.
func StartActivityPruner(activities *repository.ActivityRepo, retention time.Duration) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := activities.DeleteOlderThan(ctx, retention)
		if err != nil {
			logrus.WithError(err).Warn("activity-pruner: delete failed")
			return
		}
		if n > 0 {
			logrus.WithField("pruned", n).Info("activity-pruner: removed expired entries")
		}
	})
	if err != nil {
		// Schedule spec is a constant; failing to parse it is a bug.
		logrus.WithError(err).Error("activity-pruner: schedule registration failed")
		return c
	}
	c.Start()
	return c
}
