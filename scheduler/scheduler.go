// Package scheduler implements background job scheduling
package scheduler

import (
	"context"
	"log"
	"time"

	"agroclima.app/config"
	"agroclima.app/service"
)

// Scheduler triggers the climate sync job on a fixed interval. It shares
// the same service as the HTTP trigger surface, so the two entry points
// cannot drift apart.
type Scheduler struct {
	config      *config.SchedulerConfig
	syncService service.ClimateSyncServiceInterface
}

// NewScheduler creates a scheduler around the shared sync service
func NewScheduler(config *config.SchedulerConfig, syncService service.ClimateSyncServiceInterface) *Scheduler {
	return &Scheduler{
		config:      config,
		syncService: syncService,
	}
}

// Start begins the scheduler's operations; it blocks until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	if !s.config.Enabled {
		log.Println("Scheduler disabled, skipping periodic climate sync")
		return
	}

	s.scheduleInterval(ctx, time.Duration(s.config.IntervalMinutes)*time.Minute, func() {
		if _, err := s.syncService.RunSync(ctx, false); err != nil {
			log.Printf("Error running scheduled climate sync: %v\n", err)
		}
	})
}

func (s *Scheduler) scheduleInterval(ctx context.Context, interval time.Duration, job func()) {
	job()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job()
		}
	}
}
