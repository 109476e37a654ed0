package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/townhub-api/internal/application/notify"
	"github.com/townhub-api/internal/application/purge"
	syncapp "github.com/townhub-api/internal/application/sync"
	"github.com/townhub-api/internal/config"
)

// Scheduler runs the recurring jobs in-process. Hosted deployments usually
// leave it disabled and drive /v1/tasks/* from an external cron service
// instead; both paths invoke the same application services.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(cfg *config.Config, sync syncapp.Service, notifySvc notify.Service, purgeSvc purge.Service, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.SyncSchedule, func() {
		report := sync.Run(context.Background())
		logger.Info("calendar sync finished",
			"inserted", report.Totals.Inserted,
			"updated", report.Totals.Updated,
			"skipped", report.Totals.Skipped)
	})
	if err != nil {
		return nil, err
	}

	_, err = c.AddFunc(cfg.TaskSchedule, func() {
		digest := notifySvc.DailyDigest(context.Background())
		logger.Info("daily digest finished", "success", digest.Success, "events", digest.EventCount)

		reminders := notifySvc.EventReminders(context.Background())
		logger.Info("event reminders finished", "sent", reminders.Sent, "skipped", reminders.Skipped)

		p := purgeSvc.Run(context.Background())
		logger.Info("purge finished",
			"events_deleted", p.EventsDeleted,
			"obituaries_deleted", p.ObituariesDeleted,
			"listings_deactivated", p.ListingsDeactivated)
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("in-process scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("in-process scheduler stopped")
}
