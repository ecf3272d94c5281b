package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"trip-planner-service/internal/platform/logger"
)

// SyncScheduler pulls from the remote endpoint at a fixed interval while
// the service is in cloud mode and online.
type SyncScheduler struct {
	sync     *SyncService
	cron     *cron.Cron
	interval time.Duration
	timeout  time.Duration
}

func NewSyncScheduler(sync *SyncService, interval time.Duration) *SyncScheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SyncScheduler{
		sync:     sync,
		cron:     cron.New(),
		interval: interval,
		timeout:  interval,
	}
}

// Start registers the periodic pull and starts the cron runner.
func (s *SyncScheduler) Start() error {
	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return fmt.Errorf("sync scheduler: schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	logger.Info("sync scheduler started", map[string]interface{}{"interval": s.interval.String()})
	return nil
}

// Stop halts the runner and waits for a running pull to finish.
func (s *SyncScheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("sync scheduler stopped")
}

// RunOnce performs one periodic tick.
func (s *SyncScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if !s.sync.ShouldAutoSync(ctx) {
		return
	}

	res, err := s.sync.SyncFromCloud(ctx)
	if err != nil {
		logger.Error("scheduled sync failed", err)
		return
	}
	logger.Debug("scheduled sync completed", map[string]interface{}{
		"ok":       res.OK,
		"notes":    res.Notes,
		"document": res.DocumentUpdated,
	})
}
