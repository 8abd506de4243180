package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/tiffin-backend/internal/app/service"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// Scheduler runs the periodic maintenance jobs: threshold refresh and the
// idle cart sweep.
type Scheduler struct {
	cron        *cron.Cron
	thresholds  service.ThresholdService
	carts       service.CartService
	refreshSpec string
	sweepSpec   string
	now         func() time.Time
}

func NewScheduler(thresholds service.ThresholdService, carts service.CartService, refreshSpec, sweepSpec string) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		thresholds:  thresholds,
		carts:       carts,
		refreshSpec: refreshSpec,
		sweepSpec:   sweepSpec,
		now:         time.Now,
	}
}

// Start registers both jobs and starts the cron loop. An empty spec skips its job.
func (s *Scheduler) Start() error {
	if s.refreshSpec != "" {
		if _, err := s.cron.AddFunc(s.refreshSpec, s.refreshThresholds); err != nil {
			logger.Error("Failed to add cron job for threshold refresh", err, map[string]interface{}{
				"spec": s.refreshSpec,
			})
			return err
		}
	}
	if s.sweepSpec != "" {
		if _, err := s.cron.AddFunc(s.sweepSpec, s.sweepCarts); err != nil {
			logger.Error("Failed to add cron job for cart sweep", err, map[string]interface{}{
				"spec": s.sweepSpec,
			})
			return err
		}
	}

	s.cron.Start()
	logger.Info("Scheduler started", map[string]interface{}{
		"refresh_spec": s.refreshSpec,
		"sweep_spec":   s.sweepSpec,
		"jobs":         len(s.cron.Entries()),
	})
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Scheduler stopped", nil)
}

func (s *Scheduler) refreshThresholds() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.thresholds.Refresh(ctx); err != nil {
		logger.Error("Scheduled threshold refresh failed", err)
		return
	}
	logger.Debug("Scheduled threshold refresh completed", nil)
}

func (s *Scheduler) sweepCarts() {
	dropped := s.carts.SweepIdle(s.now())
	logger.Debug("Scheduled cart sweep completed", map[string]interface{}{
		"dropped": dropped,
	})
}
