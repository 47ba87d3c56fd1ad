package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Tab metrics
	TabsActive prometheus.Gauge
	TabsTotal  prometheus.Counter

	// Frame metrics
	FrameDuration   prometheus.Histogram
	SamplesTotal    prometheus.Counter
	SamplesDropped  *prometheus.CounterVec
	TrackerDropouts prometheus.Counter

	// Pipeline metrics
	PipelinesStarted *prometheus.CounterVec
	PipelinesEnded   *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	PipelinesRunning prometheus.Gauge

	// Page output metrics
	CommandsTotal     *prometheus.CounterVec
	CommandsDropped   *prometheus.CounterVec
	FeedbackTotal     *prometheus.CounterVec
	FeedbackThrottled prometheus.Counter

	// Drift metrics
	DriftUpdates *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
	stop      chan struct{}
	stopOnce  sync.Once

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveTabs        int64   `json:"active_tabs"`
	ActiveConnections int64   `json:"active_connections"`
	PipelinesStarted  int64   `json:"pipelines_started"`
	PipelinesFailed   int64   `json:"pipelines_failed"`
	CommandsEmitted   int64   `json:"commands_emitted"`
	TotalDuration     float64 `json:"total_duration"` // sum of all request durations
	RequestCount      int64   `json:"request_count"`  // count for averaging
}

// NewMetrics creates a metrics collector registered with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// New creates a metrics collector registered with reg. Tests pass a fresh
// prometheus.NewRegistry() so collectors never clash.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),
		stop:      make(chan struct{}),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gazeweb_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gazeweb_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gazeweb_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Tab metrics
		TabsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gazeweb_tabs_active",
				Help: "Number of open tabs",
			},
		),
		TabsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gazeweb_tabs_total",
				Help: "Total number of tabs opened",
			},
		),

		// Frame metrics
		FrameDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gazeweb_frame_duration_seconds",
				Help:    "Wall time spent processing one frame",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
			},
		),
		SamplesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gazeweb_samples_total",
				Help: "Total number of tracker samples consumed",
			},
		),
		SamplesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_samples_dropped_total",
				Help: "Tracker samples dropped before filtering",
			},
			[]string{"reason"},
		),
		TrackerDropouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gazeweb_tracker_dropouts_total",
				Help: "Number of tracker dropouts detected",
			},
		),

		// Pipeline metrics
		PipelinesStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_pipelines_started_total",
				Help: "Total number of pipelines started",
			},
			[]string{"kind", "slot"},
		),
		PipelinesEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_pipelines_ended_total",
				Help: "Total number of pipelines ended by outcome",
			},
			[]string{"kind", "outcome"},
		),
		PipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gazeweb_pipeline_duration_seconds",
				Help:    "Frame time from pipeline start to end",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 3, 5, 10, 30},
			},
			[]string{"kind"},
		),
		PipelinesRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gazeweb_pipelines_running",
				Help: "Number of running pipelines across tabs",
			},
		),

		// Page output metrics
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_commands_total",
				Help: "Total number of page commands emitted",
			},
			[]string{"type"},
		),
		CommandsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_commands_dropped_total",
				Help: "Page commands that could not be delivered",
			},
			[]string{"reason"},
		),
		FeedbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_feedback_total",
				Help: "Total number of feedback requests sent",
			},
			[]string{"kind"},
		),
		FeedbackThrottled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gazeweb_feedback_throttled_total",
				Help: "Feedback requests dropped by the rate limiter",
			},
		),

		// Drift metrics
		DriftUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_drift_updates_total",
				Help: "Drift correction updates by result",
			},
			[]string{"result"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gazeweb_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazeweb_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gazeweb_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime updates the uptime metric until Close
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.stop:
			return
		}
	}
}

// Close stops the uptime updater
func (m *Metrics) Close() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordFrame records the processing time of one frame and the samples it
// consumed
func (m *Metrics) RecordFrame(duration time.Duration, samples int) {
	if m == nil {
		return
	}
	m.FrameDuration.Observe(duration.Seconds())
	m.SamplesTotal.Add(float64(samples))
}

// RecordSamplesDropped records samples lost before filtering
func (m *Metrics) RecordSamplesDropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SamplesDropped.WithLabelValues(reason).Add(float64(n))
}

// IncTrackerDropouts counts a detected tracker dropout
func (m *Metrics) IncTrackerDropouts() {
	if m == nil {
		return
	}
	m.TrackerDropouts.Inc()
}

// RecordPipelineStarted records a pipeline start
func (m *Metrics) RecordPipelineStarted(kind, slot string) {
	if m == nil {
		return
	}
	m.PipelinesStarted.WithLabelValues(kind, slot).Inc()
	m.PipelinesRunning.Inc()

	m.mu.Lock()
	m.snapshot.PipelinesStarted++
	m.mu.Unlock()
}

// RecordPipelineEnded records a pipeline end. Outcome is succeeded, failed
// or aborted.
func (m *Metrics) RecordPipelineEnded(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PipelinesEnded.WithLabelValues(kind, outcome).Inc()
	m.PipelineDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.PipelinesRunning.Dec()

	if outcome == "failed" {
		m.mu.Lock()
		m.snapshot.PipelinesFailed++
		m.mu.Unlock()
	}
}

// RecordCommand records an emitted page command
func (m *Metrics) RecordCommand(cmdType string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(cmdType).Inc()

	m.mu.Lock()
	m.snapshot.CommandsEmitted++
	m.mu.Unlock()
}

// RecordCommandDropped records an undeliverable page command
func (m *Metrics) RecordCommandDropped(reason string) {
	if m == nil {
		return
	}
	m.CommandsDropped.WithLabelValues(reason).Inc()
}

// RecordFeedback records a feedback request that was sent
func (m *Metrics) RecordFeedback(kind string) {
	if m == nil {
		return
	}
	m.FeedbackTotal.WithLabelValues(kind).Inc()
}

// IncFeedbackThrottled counts a feedback request dropped by rate limiting
func (m *Metrics) IncFeedbackThrottled() {
	if m == nil {
		return
	}
	m.FeedbackThrottled.Inc()
}

// RecordDriftUpdate records a drift correction update
func (m *Metrics) RecordDriftUpdate(result string) {
	if m == nil {
		return
	}
	m.DriftUpdates.WithLabelValues(result).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetTabsActive sets the number of open tabs
func (m *Metrics) SetTabsActive(count int) {
	if m == nil {
		return
	}
	m.TabsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveTabs = int64(count)
	m.mu.Unlock()
}

// IncTabsTotal increments the total tabs counter
func (m *Metrics) IncTabsTotal() {
	if m == nil {
		return
	}
	m.TabsTotal.Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
