package prometheus

// AppMetrics holds every application metric, grouped by layer.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analytics engine
	ClusteringRunsTotal      CounterVec
	ClusteringDuration       HistogramVec
	AnomalyRunsTotal         CounterVec
	AnomalyDetectionDuration HistogramVec
	AnomaliesFoundTotal      CounterVec
	TextAnalysisTotal        CounterVec
	TextAnalysisDuration     HistogramVec

	// Infrastructure
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec
	DBQueryDuration    HistogramVec
	EventsPublished    CounterVec
	EventPublishErrors CounterVec

	// Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers every application metric against the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total",
		"Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds",
		"HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests",
		"Active HTTP requests", "method")

	m.ClusteringRunsTotal = collector.RegisterCounter("clustering_runs_total",
		"Clustering runs", "status")
	m.ClusteringDuration = collector.RegisterHistogram("clustering_duration_seconds",
		"Clustering run duration", DefaultAnalysisDurationBuckets, "source")
	m.AnomalyRunsTotal = collector.RegisterCounter("anomaly_runs_total",
		"Anomaly detection runs", "status")
	m.AnomalyDetectionDuration = collector.RegisterHistogram("anomaly_detection_duration_seconds",
		"Anomaly detection run duration", DefaultAnalysisDurationBuckets, "source")
	m.AnomaliesFoundTotal = collector.RegisterCounter("anomalies_found_total",
		"Anomalies found", "type", "severity")
	m.TextAnalysisTotal = collector.RegisterCounter("text_analysis_total",
		"Text analysis calls", "operation")
	m.TextAnalysisDuration = collector.RegisterHistogram("text_analysis_duration_seconds",
		"Text analysis duration", DefaultAnalysisDurationBuckets, "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total",
		"Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total",
		"Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds",
		"Database query duration", DefaultDBDurationBuckets, "operation")
	m.EventsPublished = collector.RegisterCounter("events_published_total",
		"Events published to the broker", "topic")
	m.EventPublishErrors = collector.RegisterCounter("event_publish_errors_total",
		"Event publish failures", "topic")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status",
		"Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total",
		"Total errors", "component", "code")

	return m
}

// NewNoopMetrics returns AppMetrics whose every instrument discards writes.
// Intended for tests and the CLI, where no registry is running.
func NewNoopMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:        noopCounterVec{},
		HTTPRequestDuration:      noopHistogramVec{},
		HTTPActiveRequests:       noopGaugeVec{},
		ClusteringRunsTotal:      noopCounterVec{},
		ClusteringDuration:       noopHistogramVec{},
		AnomalyRunsTotal:         noopCounterVec{},
		AnomalyDetectionDuration: noopHistogramVec{},
		AnomaliesFoundTotal:      noopCounterVec{},
		TextAnalysisTotal:        noopCounterVec{},
		TextAnalysisDuration:     noopHistogramVec{},
		CacheHitsTotal:           noopCounterVec{},
		CacheMissesTotal:         noopCounterVec{},
		DBQueryDuration:          noopHistogramVec{},
		EventsPublished:          noopCounterVec{},
		EventPublishErrors:       noopCounterVec{},
		HealthCheckStatus:        noopGaugeVec{},
		ErrorsTotal:              noopCounterVec{},
	}
}
