package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
)

// Janitor purges old events from a Monitor on a cron schedule, applying the
// retention window independently of capacity eviction.
type Janitor struct {
	monitor       *Monitor
	cron          *cron.Cron
	retentionDays int
	spec          string
	log           *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewJanitor creates a retention janitor for the monitor.
func NewJanitor(monitor *Monitor, cfg Config, log *logger.Logger) *Janitor {
	cfg.ApplyDefaults()
	return &Janitor{
		monitor:       monitor,
		cron:          cron.New(),
		retentionDays: cfg.RetentionDays,
		spec:          cfg.JanitorSpec,
		log:           log.WithComponent("metrics.janitor"),
	}
}

// Start schedules the retention purge. Calling Start on a running janitor is
// a no-op.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return nil
	}
	if _, err := cron.ParseStandard(j.spec); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.spec, err)
	}
	if _, err := j.cron.AddFunc(j.spec, j.purge); err != nil {
		return fmt.Errorf("failed to schedule retention purge: %w", err)
	}

	j.cron.Start()
	j.running = true
	j.log.Info("retention janitor started", logger.Fields(
		"schedule", j.spec,
		"retention_days", j.retentionDays,
	))
	return nil
}

func (j *Janitor) purge() {
	removed := j.monitor.PurgeOlderThan(j.retentionDays)
	if removed > 0 {
		j.log.Info("retention purge completed", logger.Fields("removed", removed))
	} else {
		j.log.Debug("retention purge completed, nothing to remove")
	}
}

// Stop halts the schedule and waits for a running purge to finish.
func (j *Janitor) Stop(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return nil
	}
	stopCtx := j.cron.Stop()
	<-stopCtx.Done()
	j.running = false
	j.log.Info("retention janitor stopped")
	return nil
}
