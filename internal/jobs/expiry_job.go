package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guided-platform/matching-service/internal/services"
)

// ExpirySchedule runs the sweep once a day, shortly after midnight.
const ExpirySchedule = "15 0 * * *"

// ExpiryJob sweeps stale pending invites into the expired status.
type ExpiryJob struct {
	inviteService services.InviteService
	logger        *slog.Logger
	window        time.Duration
}

func NewExpiryJob(inviteService services.InviteService, logger *slog.Logger) *ExpiryJob {
	return &ExpiryJob{
		inviteService: inviteService,
		logger:        logger,
		window:        services.ExpiryWindow,
	}
}

// Run performs one sweep. Errors are logged, not returned, so a failed
// sweep never stops the scheduler.
func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expired, err := j.inviteService.ExpireStale(ctx, j.window)
	if err != nil {
		j.logger.Error("invite expiry sweep failed", "error", err)
		return
	}

	if expired > 0 {
		j.logger.Info("invite expiry sweep finished", "expired", expired)
	}
}

// Schedule registers the job on the given cron runner.
func (j *ExpiryJob) Schedule(c *cron.Cron) error {
	_, err := c.AddJob(ExpirySchedule, j)
	return err
}
