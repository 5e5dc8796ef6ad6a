// Package sweeper periodically clears password reset tokens whose expiry has passed.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
)

type ResetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int, error)
}

type Config struct {
	Interval time.Duration
	// RunTimeout bounds a single pass.
	RunTimeout time.Duration
}

type Sweeper struct {
	cfg     Config
	store   ResetTokenStore
	metrics *observability.SweepMetrics
	prom    *observability.Prom
	log     *slog.Logger
	now     func() time.Time

	readyMu sync.RWMutex
	ready   bool
}

// New builds a sweeper. prom may be nil.
func New(cfg Config, store ResetTokenStore, metrics *observability.SweepMetrics, prom *observability.Prom, log *slog.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Second
	}
	if metrics == nil {
		metrics = observability.NewSweepMetrics()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Sweeper{cfg: cfg, store: store, metrics: metrics, prom: prom, log: log, now: time.Now}
}

func (s *Sweeper) setReady(v bool) {
	s.readyMu.Lock()
	s.ready = v
	s.readyMu.Unlock()
}

func (s *Sweeper) Ready() bool {
	s.readyMu.RLock()
	defer s.readyMu.RUnlock()
	return s.ready
}

func (s *Sweeper) Metrics() *observability.SweepMetrics {
	return s.metrics
}

// RunOnce performs a single pass and records it.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.store.ClearExpiredResetTokens(ctx, s.now())
	s.metrics.ObserveRun(time.Since(start), n, err)

	if s.prom != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.prom.SweepRuns.WithLabelValues(result).Inc()
		if n > 0 {
			s.prom.SweepCleared.Add(float64(n))
		}
	}

	return n, err
}

// Run sweeps immediately and then every Interval until ctx is cancelled.
// After a failed pass the next one is delayed by an exponential backoff
// that never exceeds Interval.
func (s *Sweeper) Run(ctx context.Context) error {
	s.setReady(true)
	defer s.setReady(false)

	failures := 0
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper received shutdown signal")
			return nil

		case <-timer.C:
			n, err := s.RunOnce(ctx)

			next := s.cfg.Interval
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				next = Backoff(failures, s.cfg.Interval)
				failures++
				s.log.Error("sweep failed", "err", err, "attempt", failures, "retry_in", next)
			} else {
				failures = 0
				if n > 0 {
					s.log.Info("sweep cleared expired reset tokens", "count", n)
				} else {
					s.log.Debug("sweep found nothing to clear")
				}
			}

			timer.Reset(next)
		}
	}
}
