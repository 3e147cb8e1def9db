package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/secmon-lab/themis/pkg/service/worker"
)

// mockSweeper counts sweep invocations for testing
type mockSweeper struct {
	mu      sync.Mutex
	calls   int
	evicted int
}

func (m *mockSweeper) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.evicted
}

func (m *mockSweeper) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCacheSweepWorker_PeriodicSweep(t *testing.T) {
	ctx := context.Background()
	sweeper := &mockSweeper{evicted: 2}

	w := worker.NewCacheSweepWorker(sweeper, 20*time.Millisecond)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	// Wait for several intervals to elapse
	time.Sleep(110 * time.Millisecond)
	w.Stop()

	calls := sweeper.callCount()
	if calls < 2 {
		t.Errorf("expected at least 2 sweeps, got %d", calls)
	}
}

func TestCacheSweepWorker_StopsCleanly(t *testing.T) {
	ctx := context.Background()
	sweeper := &mockSweeper{}

	w := worker.NewCacheSweepWorker(sweeper, 10*time.Millisecond)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	stopStart := time.Now()
	w.Stop()
	stopDuration := time.Since(stopStart)

	if stopDuration > time.Second {
		t.Errorf("Stop() took too long: %v", stopDuration)
	}

	// No further sweeps once stopped
	callsAtStop := sweeper.callCount()
	time.Sleep(50 * time.Millisecond)
	if got := sweeper.callCount(); got != callsAtStop {
		t.Errorf("expected no sweeps after Stop, had %d then %d", callsAtStop, got)
	}
}

func TestCacheSweepWorker_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := &mockSweeper{}

	w := worker.NewCacheSweepWorker(sweeper, 10*time.Millisecond)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	callsAfterCancel := sweeper.callCount()
	time.Sleep(50 * time.Millisecond)
	if got := sweeper.callCount(); got != callsAfterCancel {
		t.Errorf("expected no sweeps after context cancel, had %d then %d", callsAfterCancel, got)
	}
}
