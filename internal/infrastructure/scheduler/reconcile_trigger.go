package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appordering "github.com/retailportal/backend/internal/application/ordering"
	"github.com/retailportal/backend/internal/infrastructure/config"
)

// Reconciler runs one reconciliation pass against the ERP
type Reconciler interface {
	Run(ctx context.Context) (*appordering.ReconcileReport, error)
}

// ReconcileTrigger runs the reconciliation service on a fixed interval.
// It is an in-process trigger; the sync HTTP endpoint offers the same
// pass on demand.
type ReconcileTrigger struct {
	interval   time.Duration
	reconciler Reconciler
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReconcileTrigger creates a new reconcile trigger
func NewReconcileTrigger(cfg config.SyncConfig, reconciler Reconciler, logger *zap.Logger) *ReconcileTrigger {
	return &ReconcileTrigger{
		interval:   cfg.Interval,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Start starts the trigger loop
func (t *ReconcileTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Reconcile trigger started", zap.Duration("interval", t.interval))
	return nil
}

// Stop stops the trigger and waits for an in-flight pass to finish
func (t *ReconcileTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Reconcile trigger stopped")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Reconcile trigger stop timed out")
		return ctx.Err()
	}
}

func (t *ReconcileTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

func (t *ReconcileTrigger) runOnce(ctx context.Context) {
	report, err := t.reconciler.Run(ctx)
	if err != nil {
		t.logger.Error("Scheduled reconciliation failed", zap.Error(err))
		return
	}

	t.logger.Info("Scheduled reconciliation completed",
		zap.Int("checked", report.Checked),
		zap.Int("synced", report.Synced),
		zap.Int("errors", report.Errors),
	)
}
