package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// Sweeper removes expired entries and reports how many were evicted
type Sweeper interface {
	Sweep(now time.Time) int
}

// CacheSweepWorker periodically evicts expired assessment cache entries
//
// Architecture assumptions:
// - Single server instance (the cache is in-process state)
type CacheSweepWorker struct {
	sweeper  Sweeper
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCacheSweepWorker creates a new worker sweeping the cache at the given interval
func NewCacheSweepWorker(sweeper Sweeper, interval time.Duration) *CacheSweepWorker {
	return &CacheSweepWorker{
		sweeper:  sweeper,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop
// Does not block server startup
func (w *CacheSweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("Assessment cache sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *CacheSweepWorker) Stop() {
	logging.Default().Info("Assessment cache sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Assessment cache sweep worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *CacheSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := w.sweeper.Sweep(time.Now()); evicted > 0 {
				logging.Default().Info("Assessment cache sweep completed",
					"evicted", evicted)
			}

		case <-w.stopCh:
			logging.Default().Info("Assessment cache sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Assessment cache sweep worker context cancelled")
			return
		}
	}
}
