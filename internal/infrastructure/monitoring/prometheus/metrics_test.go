package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/pkg/types/common"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.AnalysesTotal)
	assert.NotNil(t, m.AnalysisDuration)
	assert.NotNil(t, m.DocumentUploadSize)
	assert.NotNil(t, m.ClausesDetected)
	assert.NotNil(t, m.ExtractionTotal)
	assert.NotNil(t, m.ChatMessagesTotal)
	assert.NotNil(t, m.BenchmarksTotal)
	assert.NotNil(t, m.ComparisonsTotal)
	assert.NotNil(t, m.ComplianceChecksTotal)
	assert.NotNil(t, m.DBQueryDuration)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.ErrorsTotal)
}

func TestRecordHTTPRequest_AllMetricsUpdated(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/analyses", 201, 100*time.Millisecond, 1024, 2048)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/analyses",status_code="201"} 1`)
	assert.Contains(t, output, "test_unit_http_request_duration_seconds_count")
	assert.Contains(t, output, "test_unit_http_request_size_bytes_count")
	assert.Contains(t, output, "test_unit_http_response_size_bytes_count")
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "chat_context", true)
	RecordCacheAccess(m, "chat_context", true)
	RecordCacheAccess(m, "chat_context", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="chat_context"} 2`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="chat_context"} 1`)
}

func TestRecordError(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordError(m, "pipeline", "extraction_failed")

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_errors_total{component="pipeline",error_type="extraction_failed"} 1`)
}

func TestAnalysisRecorder_ObserveAnalysis(t *testing.T) {
	m, c := newTestAppMetrics(t)
	recorder := NewAnalysisRecorder(m)

	recorder.ObserveAnalysis(2*time.Second, common.RiskHigh, false)
	recorder.ObserveAnalysis(time.Second, common.RiskLow, false)
	recorder.ObserveAnalysis(500*time.Millisecond, "", true)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_analyses_total{risk_level="High",status="completed"} 1`)
	assert.Contains(t, output, `test_unit_analyses_total{risk_level="Low",status="completed"} 1`)
	assert.Contains(t, output, `test_unit_analyses_total{risk_level="",status="failed"} 1`)
	assert.Contains(t, output, `test_unit_analysis_duration_seconds_count{status="completed"} 2`)
}
