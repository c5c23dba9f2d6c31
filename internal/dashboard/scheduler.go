package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/metrics"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

// SnapshotBuilder runs one aggregation pass.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// Scheduler recomputes the dashboard snapshot on a fixed interval. Ticks
// that fire while a pass is still running are skipped, never stacked.
type Scheduler struct {
	builder  SnapshotBuilder
	interval time.Duration
	metrics  *metrics.Metrics

	mu     sync.RWMutex
	latest *models.Snapshot

	running  atomic.Bool
	ticker   *time.Ticker
	stopChan chan struct{}
}

func NewScheduler(builder SnapshotBuilder, interval time.Duration, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		builder:  builder,
		interval: interval,
		metrics:  m,
		stopChan: make(chan struct{}),
	}
}

// Start runs an immediate first pass and then refreshes on the interval
// until Stop is called or the context ends.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("[Scheduler] Starting aggregation scheduler",
		slog.Duration("interval", s.interval))

	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.Refresh(ctx)
		for {
			select {
			case <-s.ticker.C:
				s.Refresh(ctx)
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	slog.Info("[Scheduler] Stopping aggregation scheduler")
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
}

// Latest returns the most recent snapshot, nil before the first pass
// completes.
func (s *Scheduler) Latest() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Refresh runs one aggregation pass unless an earlier one is still in
// flight.
func (s *Scheduler) Refresh(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("[Scheduler] Previous aggregation pass still running, skipping tick")
		if s.metrics != nil {
			s.metrics.AggregationRuns.WithLabelValues("skipped").Inc()
		}
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	snapshot, err := s.builder.BuildSnapshot(ctx)
	if err != nil {
		slog.Error("[Scheduler] Aggregation pass failed",
			slog.String("error", err.Error()))
		if s.metrics != nil {
			s.metrics.AggregationRuns.WithLabelValues("error").Inc()
		}
		return
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.AggregationRuns.WithLabelValues("ok").Inc()
		s.metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}
}
