package handlers

import (
	"net/http"

	benchmarkapp "github.com/agreemshield/agreemshield/internal/application/benchmark"
	comparisonapp "github.com/agreemshield/agreemshield/internal/application/comparison"
	complianceapp "github.com/agreemshield/agreemshield/internal/application/compliance"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// AdvisoryHandler groups the secondary analysis endpoints: market
// benchmarking, multi-document comparison, and jurisdiction compliance.
type AdvisoryHandler struct {
	benchmarks  benchmarkapp.Service
	comparisons comparisonapp.Service
	compliance  complianceapp.Service
}

// NewAdvisoryHandler creates an AdvisoryHandler.
func NewAdvisoryHandler(
	benchmarks benchmarkapp.Service,
	comparisons comparisonapp.Service,
	compliance complianceapp.Service,
) *AdvisoryHandler {
	return &AdvisoryHandler{
		benchmarks:  benchmarks,
		comparisons: comparisons,
		compliance:  compliance,
	}
}

// Benchmark handles POST /api/v1/benchmark.
func (h *AdvisoryHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	var req agreement.BenchmarkRequest
	if err := decodeJSON(r, &req, 0); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.benchmarks.Benchmark(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Compare handles POST /api/v1/comparisons.
func (h *AdvisoryHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req agreement.ComparisonRequest
	if err := decodeJSON(r, &req, 0); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.comparisons.Compare(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CheckCompliance handles POST /api/v1/compliance/check.
func (h *AdvisoryHandler) CheckCompliance(w http.ResponseWriter, r *http.Request) {
	var req agreement.ComplianceRequest
	if err := decodeJSON(r, &req, 0); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.compliance.Check(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
