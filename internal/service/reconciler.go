package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/metrics"
)

// Report 一次对账的结果
type Report struct {
	Drift     []model.CounterDrift `json:"drift"`
	Repaired  int                  `json:"repaired"`
	CheckedAt time.Time            `json:"checked_at"`
}

// Clean 没有发现漂移
func (r Report) Clean() bool { return len(r.Drift) == 0 }

// ByCounter 按计数器名称汇总
func (r Report) ByCounter() map[string]int {
	out := make(map[string]int, 3)
	for _, d := range r.Drift {
		out[d.Counter]++
	}
	return out
}

// CounterReconciler 以边表为准核对并修复冗余计数
type CounterReconciler struct {
	counters repository.CounterRepository
	metrics  *metrics.Metrics
	timeout  time.Duration

	// 连续失败时最多 30s 打一次日志
	failLog rate.Sometimes
}

func NewCounterReconciler(counters repository.CounterRepository, m *metrics.Metrics) *CounterReconciler {
	return &CounterReconciler{
		counters: counters,
		metrics:  m,
		timeout:  time.Minute,
		failLog:  rate.Sometimes{Interval: 30 * time.Second},
	}
}

// Check 只读扫描
func (r *CounterReconciler) Check(ctx context.Context) (Report, error) {
	drift, err := r.counters.FindDrift(ctx)
	if err != nil {
		return Report{}, storageErr("reconcile.check", err)
	}
	rep := Report{Drift: drift, CheckedAt: time.Now().UTC()}
	for counter, n := range rep.ByCounter() {
		r.metrics.AddDrift(counter, n)
	}
	return rep, nil
}

// Reconcile 扫描后在一个事务内按边表重写漂移的计数；幂等
func (r *CounterReconciler) Reconcile(ctx context.Context) (Report, error) {
	rep, err := r.Check(ctx)
	if err != nil || rep.Clean() {
		return rep, err
	}
	n, err := r.counters.Repair(ctx, rep.Drift)
	if err != nil {
		return rep, storageErr("reconcile.repair", err)
	}
	rep.Repaired = n
	logger.Warn("counter drift repaired",
		zap.Int("drift", len(rep.Drift)),
		zap.Int("repaired", n),
		zap.Any("by_counter", rep.ByCounter()),
	)
	return rep, nil
}

// Start 后台定时对账；返回停止函数
func (r *CounterReconciler) Start(interval time.Duration) func(context.Context) error {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.runOnce()
			case <-stopCh:
				return
			}
		}
	}()

	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *CounterReconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.Reconcile(ctx); err != nil {
		r.failLog.Do(func() {
			logger.Warn("counter reconcile failed", zap.Error(err))
		})
	}
}
