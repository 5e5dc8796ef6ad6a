package observability

import (
	"sync/atomic"
	"time"
)

// SweepMetrics is the in-process view of sweeper activity served on its health endpoint.
type SweepMetrics struct {
	runs    atomic.Uint64
	failed  atomic.Uint64
	cleared atomic.Uint64

	lastRunUnixNano atomic.Int64
	durationMax     atomic.Int64
}

func NewSweepMetrics() *SweepMetrics {
	return &SweepMetrics{}
}

func (m *SweepMetrics) ObserveRun(d time.Duration, cleared int, err error) {
	m.runs.Add(1)
	if err != nil {
		m.failed.Add(1)
	} else if cleared > 0 {
		m.cleared.Add(uint64(cleared))
	}
	m.lastRunUnixNano.Store(time.Now().UnixNano())

	ns := d.Nanoseconds()
	for {
		curr := m.durationMax.Load()

		if ns <= curr {
			return
		}

		if m.durationMax.CompareAndSwap(curr, ns) {
			return
		}
	}
}

type SweepMetricsSnapshot struct {
	Runs        uint64        `json:"runs"`
	Failed      uint64        `json:"failed"`
	Cleared     uint64        `json:"cleared"`
	LastRun     *time.Time    `json:"lastRun,omitempty"`
	MaxDuration time.Duration `json:"maxDurationNs"`
}

func (m *SweepMetrics) Snapshot() SweepMetricsSnapshot {
	s := SweepMetricsSnapshot{
		Runs:        m.runs.Load(),
		Failed:      m.failed.Load(),
		Cleared:     m.cleared.Load(),
		MaxDuration: time.Duration(m.durationMax.Load()),
	}

	if ns := m.lastRunUnixNano.Load(); ns > 0 {
		t := time.Unix(0, ns).UTC()
		s.LastRun = &t
	}

	return s
}
