package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/commerce-backend/config"
	"github.com/dustin/commerce-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const defaultProbeInterval = 5 * time.Minute

// JobFunc is the work run on every tick.
type JobFunc func(ctx context.Context) error

// PeriodicWorker runs a job on a fixed interval using a cron scheduler
type PeriodicWorker struct {
	name     string
	cron     *cron.Cron
	job      JobFunc
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	cancel  context.CancelFunc
	// first tracks the immediate run, which cron does not know about
	first sync.WaitGroup
}

// ProbeInterval parses WORKER_PROBE_INTERVAL, defaulting to five minutes.
func ProbeInterval(cfg *config.WorkerConfig) (time.Duration, error) {
	if cfg == nil || cfg.ProbeInterval == "" {
		return defaultProbeInterval, nil
	}
	d, err := time.ParseDuration(cfg.ProbeInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid probe interval '%s': %v", cfg.ProbeInterval, err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("invalid probe interval '%s': must be at least 1s", cfg.ProbeInterval)
	}
	return d, nil
}

// NewPeriodicWorker creates a cron-scheduled worker with validation and defaults
func NewPeriodicWorker(cfg *config.WorkerConfig, name string, job JobFunc, log *logger.Logger) (*PeriodicWorker, error) {
	interval, err := ProbeInterval(cfg)
	if err != nil {
		return nil, err
	}

	return &PeriodicWorker{
		name:     name,
		cron:     cron.New(),
		job:      job,
		interval: interval,
		logger:   log.WithComponent("worker").WithField("worker", name),
	}, nil
}

// Interval returns the effective schedule.
func (w *PeriodicWorker) Interval() time.Duration {
	return w.interval
}

// Start schedules the job and runs it once immediately.
func (w *PeriodicWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.entryID > 0 {
		return fmt.Errorf("worker %s already started", w.name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.logger.Info(fmt.Sprintf("Starting worker %s (every %v)", w.name, w.interval))

	entryID, err := w.cron.AddFunc("@every "+w.interval.String(), func() { w.tick(ctx) })
	if err != nil {
		cancel()
		w.logger.Error("Failed to schedule worker " + w.name + ": " + err.Error())
		return err
	}

	w.entryID = entryID
	w.cancel = cancel
	w.cron.Start()

	w.first.Add(1)
	go func() {
		defer w.first.Done()
		w.tick(ctx)
	}()

	return nil
}

func (w *PeriodicWorker) tick(ctx context.Context) {
	w.logger.Debug("Running job for worker: " + w.name)

	if err := w.job(ctx); err != nil {
		w.logger.ErrorErr("Job failed for worker "+w.name, err)
		return
	}
	w.logger.Debug("Job completed for worker: " + w.name)
}

// Stop removes the schedule and waits for a running job to finish
func (w *PeriodicWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.logger.Info("Stopping worker: " + w.name)

	if w.entryID > 0 {
		w.cron.Remove(w.entryID)
		w.entryID = 0
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	ctx := w.cron.Stop()
	<-ctx.Done()
	w.first.Wait()

	w.logger.Info("Worker stopped: " + w.name)
	return nil
}

// IsRunning checks if the worker has active cron entries
func (w *PeriodicWorker) IsRunning() bool {
	return len(w.cron.Entries()) > 0
}
