package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type SyncMetricsCollector struct {
	Runs        *prometheus.CounterVec
	Subscribers *prometheus.CounterVec
	RunDuration prometheus.Histogram
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

var (
	globalCollector *SyncMetricsCollector
	collectorOnce   sync.Once
)

func getCollector() *SyncMetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = &SyncMetricsCollector{
			Runs: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "climate_sync_runs_total",
					Help: "The total number of climate sync runs",
				},
				[]string{"outcome"},
			),
			Subscribers: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "climate_sync_subscribers_total",
					Help: "The total number of subscribers processed, by result",
				},
				[]string{"status"},
			),
			RunDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "climate_sync_run_duration_seconds",
					Help:    "Climate sync run duration in seconds",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
				},
			),
			CacheHits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "climate_cache_hits_total",
					Help: "The total number of cache hits",
				},
				[]string{"cache_type"},
			),
			CacheMisses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "climate_cache_misses_total",
					Help: "The total number of cache misses",
				},
				[]string{"cache_type"},
			),
		}
	})
	return globalCollector
}

// SyncMetrics records run-level outcomes of the climate sync job
type SyncMetrics struct {
	collector *SyncMetricsCollector
}

func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{collector: getCollector()}
}

// RecordRun counts one completed run with the given outcome ("success" or "failure")
func (m *SyncMetrics) RecordRun(outcome string) {
	m.collector.Runs.WithLabelValues(outcome).Inc()
}

// RecordSubscriber counts one processed subscriber by result status
func (m *SyncMetrics) RecordSubscriber(status string) {
	m.collector.Subscribers.WithLabelValues(status).Inc()
}

// ObserveRunDuration records how long a full run took
func (m *SyncMetrics) ObserveRunDuration(seconds float64) {
	m.collector.RunDuration.Observe(seconds)
}

// CacheMetrics records hit/miss counts for a named cache
type CacheMetrics struct {
	cacheType string
	hits      int64
	misses    int64
	collector *SyncMetricsCollector
	mu        sync.RWMutex
}

func NewCacheMetrics(cacheType string) *CacheMetrics {
	return &CacheMetrics{
		cacheType: cacheType,
		collector: getCollector(),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	m.collector.CacheHits.WithLabelValues(m.cacheType).Inc()
}

func (m *CacheMetrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	m.collector.CacheMisses.WithLabelValues(m.cacheType).Inc()
}

// GetStats returns a snapshot of the local hit/miss counters
func (m *CacheMetrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.hits + m.misses
	var hitRatio float64
	if total > 0 {
		hitRatio = float64(m.hits) / float64(total)
	}

	return map[string]interface{}{
		"cache_type": m.cacheType,
		"hits":       m.hits,
		"misses":     m.misses,
		"total":      total,
		"hit_ratio":  hitRatio,
	}
}
