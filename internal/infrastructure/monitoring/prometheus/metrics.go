package prometheus

import (
	"fmt"
	"time"

	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis pipeline
	AnalysesTotal       CounterVec
	AnalysisDuration    HistogramVec
	DocumentUploadSize  HistogramVec
	ClausesDetected     HistogramVec
	ExtractionTotal     CounterVec
	ClassifierFallbacks CounterVec

	// Assistant and reporting
	ChatMessagesTotal     CounterVec
	BenchmarksTotal       CounterVec
	ComparisonsTotal      CounterVec
	ComplianceChecksTotal CounterVec

	// Infrastructure
	DBQueryDuration  HistogramVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// System health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultSizeBuckets             = []float64{1000, 10000, 100000, 1000000, 10000000, 50000000}
	DefaultClauseCountBuckets      = []float64{0, 1, 2, 5, 10, 20, 50}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all application metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Analysis pipeline
	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Completed analyses", "risk_level", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "End-to-end analysis duration", DefaultAnalysisDurationBuckets, "status")
	m.DocumentUploadSize = collector.RegisterHistogram("document_upload_size_bytes", "Uploaded document size", DefaultSizeBuckets, "format")
	m.ClausesDetected = collector.RegisterHistogram("clauses_detected", "Clauses detected per document", DefaultClauseCountBuckets, "risk_level")
	m.ExtractionTotal = collector.RegisterCounter("extractions_total", "Document extractions", "format", "method", "status")
	m.ClassifierFallbacks = collector.RegisterCounter("classifier_fallbacks_total", "Clause classifications that fell back to keyword rules")

	// Assistant and reporting
	m.ChatMessagesTotal = collector.RegisterCounter("chat_messages_total", "Chat messages handled", "grounded")
	m.BenchmarksTotal = collector.RegisterCounter("benchmarks_total", "Benchmark reports generated", "industry")
	m.ComparisonsTotal = collector.RegisterCounter("comparisons_total", "Document comparisons run", "status")
	m.ComplianceChecksTotal = collector.RegisterCounter("compliance_checks_total", "Compliance checks run", "jurisdiction", "status")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	// System health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, reqSize, respSize int64) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// AnalysisRecorder adapts AppMetrics to the analysis service's Metrics
// contract.
type AnalysisRecorder struct {
	metrics *AppMetrics
}

// NewAnalysisRecorder builds the pipeline metrics adapter.
func NewAnalysisRecorder(metrics *AppMetrics) *AnalysisRecorder {
	return &AnalysisRecorder{metrics: metrics}
}

// ObserveAnalysis records one finished pipeline run.
func (r *AnalysisRecorder) ObserveAnalysis(duration time.Duration, level common.RiskLevel, failed bool) {
	status := "completed"
	if failed {
		status = "failed"
	}
	r.metrics.AnalysesTotal.WithLabelValues(string(level), status).Inc()
	r.metrics.AnalysisDuration.WithLabelValues(status).Observe(duration.Seconds())
}
