package sweeper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	calls   atomic.Int32
	cleared int
	err     error
}

func (f *fakeStore) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	f.calls.Add(1)
	return f.cleared, f.err
}

func TestRunOnce_RecordsMetrics(t *testing.T) {
	prom := observability.NewProm(prometheus.NewRegistry())
	store := &fakeStore{cleared: 3}
	s := New(Config{Interval: time.Minute}, store, nil, prom, nil)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	store.err = errors.New("db down")
	store.cleared = 0
	_, err = s.RunOnce(context.Background())
	require.Error(t, err)

	snap := s.Metrics().Snapshot()
	assert.Equal(t, uint64(2), snap.Runs)
	assert.Equal(t, uint64(1), snap.Failed)
	assert.Equal(t, uint64(3), snap.Cleared)
	require.NotNil(t, snap.LastRun)

	assert.Equal(t, 1.0, testutil.ToFloat64(prom.SweepRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(prom.SweepRuns.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(prom.SweepCleared))
}

func TestRun_SweepsUntilCancelled(t *testing.T) {
	store := &fakeStore{}
	s := New(Config{Interval: 10 * time.Millisecond}, store, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return store.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.Ready())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.False(t, s.Ready())
}

func TestBackoff(t *testing.T) {
	assert.GreaterOrEqual(t, Backoff(0, time.Minute), 2*time.Second)
	assert.Less(t, Backoff(0, time.Minute), 3*time.Second)
	assert.GreaterOrEqual(t, Backoff(2, time.Minute), 8*time.Second)

	d := Backoff(30, time.Minute)
	assert.GreaterOrEqual(t, d, time.Minute)
	assert.Less(t, d, time.Minute+250*time.Millisecond)
}

func TestHealthHandler(t *testing.T) {
	s := New(Config{}, &fakeStore{}, nil, nil, nil)
	h := s.HealthHandler(func(ctx context.Context) error { return nil }, prometheus.NewRegistry())

	get := func(path string) int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/healthz"))
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz"))
	assert.Equal(t, http.StatusOK, get("/stats"))
	assert.Equal(t, http.StatusOK, get("/metrics"))

	s.setReady(true)
	assert.Equal(t, http.StatusOK, get("/readyz"))
}
