package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appordering "github.com/retailportal/backend/internal/application/ordering"
	"github.com/retailportal/backend/internal/infrastructure/config"
)

type countingReconciler struct {
	runs int32
	err  error
}

func (r *countingReconciler) Run(ctx context.Context) (*appordering.ReconcileReport, error) {
	atomic.AddInt32(&r.runs, 1)
	if r.err != nil {
		return nil, r.err
	}
	return &appordering.ReconcileReport{Checked: 2, Synced: 1}, nil
}

func (r *countingReconciler) count() int32 {
	return atomic.LoadInt32(&r.runs)
}

func TestReconcileTrigger_RunsOnInterval(t *testing.T) {
	reconciler := &countingReconciler{}
	trigger := NewReconcileTrigger(config.SyncConfig{Interval: 10 * time.Millisecond}, reconciler, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return reconciler.count() >= 2
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
}

func TestReconcileTrigger_StopHaltsLoop(t *testing.T) {
	reconciler := &countingReconciler{}
	trigger := NewReconcileTrigger(config.SyncConfig{Interval: 10 * time.Millisecond}, reconciler, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return reconciler.count() >= 1
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))

	stopped := reconciler.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, reconciler.count())
}

func TestReconcileTrigger_KeepsTickingAfterFailure(t *testing.T) {
	reconciler := &countingReconciler{err: errors.New("erp unreachable")}
	trigger := NewReconcileTrigger(config.SyncConfig{Interval: 10 * time.Millisecond}, reconciler, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return reconciler.count() >= 3
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
}

func TestReconcileTrigger_StartIsIdempotent(t *testing.T) {
	reconciler := &countingReconciler{}
	trigger := NewReconcileTrigger(config.SyncConfig{Interval: time.Hour}, reconciler, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
	require.NoError(t, trigger.Stop(stopCtx))
}
