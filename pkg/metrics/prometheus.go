package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage names used as the "stage" label.
const (
	StageLoad   = "load"
	StageRank   = "rank"
	StageRender = "render"
)

// defaultDurationBuckets covers sub-millisecond CSV loads up to multi-second
// renders of very large inputs.
var defaultDurationBuckets = []float64{0.5, 1, 5, 10, 50, 100, 500, 1000, 5000} //nolint:gochecknoglobals // constant bucket layout

// Manager owns the Prometheus collectors for one process.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Ingest
	recordsLoaded  prometheus.Counter
	recordsSkipped prometheus.Counter

	// Ranking
	distinctTitles prometheus.Gauge
	rankedEntries  prometheus.Gauge

	// Run
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	runErrors     *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "watchrank",
		histogramBuckets: defaultDurationBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "records_loaded_total",
		Help:      "Total number of watch records read from the input",
	})

	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "records_skipped_total",
		Help:      "Total number of records without a usable title",
	})

	m.distinctTitles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "distinct_titles",
		Help:      "Number of distinct titles seen in the last run",
	})

	m.rankedEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "ranked_entries",
		Help:      "Number of entries drawn in the last chart",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "run_duration_milliseconds",
		Help:      "Wall time of a full load, rank and render run in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      "stage_duration_milliseconds",
			Help:      "Wall time of each run stage in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.runErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "errors_total",
			Help:      "Total number of failed runs by error kind",
		},
		[]string{"kind"},
	)

	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run",
	})
}

// RecordRecordsLoaded adds n loaded records.
func (m *Manager) RecordRecordsLoaded(n int) {
	if m.enabled && n > 0 {
		m.recordsLoaded.Add(float64(n))
	}
}

// RecordRecordsSkipped adds n records that had no usable title.
func (m *Manager) RecordRecordsSkipped(n int) {
	if m.enabled && n > 0 {
		m.recordsSkipped.Add(float64(n))
	}
}

// UpdateDistinctTitles sets the distinct title gauge.
func (m *Manager) UpdateDistinctTitles(n int) {
	if m.enabled {
		m.distinctTitles.Set(float64(n))
	}
}

// UpdateRankedEntries sets the number of entries drawn.
func (m *Manager) UpdateRankedEntries(n int) {
	if m.enabled {
		m.rankedEntries.Set(float64(n))
	}
}

// RecordStageDuration observes the duration of one stage.
func (m *Manager) RecordStageDuration(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(millis(d))
	}
}

// RecordRunDuration observes the duration of a full run.
func (m *Manager) RecordRunDuration(d time.Duration) {
	if m.enabled {
		m.runDuration.Observe(millis(d))
	}
}

// RecordError counts a failed run of the given kind.
func (m *Manager) RecordError(kind string) {
	if m.enabled {
		m.runErrors.WithLabelValues(kind).Inc()
	}
}

// MarkSuccess stamps the last successful run time.
func (m *Manager) MarkSuccess(at time.Time) {
	if m.enabled {
		m.lastSuccess.Set(float64(at.Unix()))
	}
}

// WriteTextfile writes every collected metric to path in the Prometheus
// text exposition format, for node_exporter's textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Default returns the global metrics manager.
func Default() *Manager { return globalManager }
