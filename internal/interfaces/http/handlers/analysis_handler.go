package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	analysisapp "github.com/agreemshield/agreemshield/internal/application/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// defaultMaxUploadSize caps agreement uploads at 20 MiB.
const defaultMaxUploadSize = 20 << 20

// AnalysisHandler exposes the agreement analysis pipeline over HTTP.
type AnalysisHandler struct {
	service       analysisapp.Service
	maxUploadSize int64
	logger        logging.Logger
}

// NewAnalysisHandler creates an AnalysisHandler. A non-positive
// maxUploadSize falls back to the default cap.
func NewAnalysisHandler(service analysisapp.Service, maxUploadSize int64, logger logging.Logger) *AnalysisHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalysisHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        logger.Named("analysis_handler"),
	}
}

// Create handles POST /api/v1/analyses. It accepts a multipart form with a
// "file" part plus optional "startup_type" and "funding_stage" fields, runs
// the full pipeline synchronously, and returns the completed analysis.
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeDocumentTooLarge, "upload exceeds size limit"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read uploaded file"))
		return
	}

	req := agreement.AnalyzeRequest{
		Filename:     header.Filename,
		StartupType:  r.FormValue("startup_type"),
		FundingStage: r.FormValue("funding_stage"),
		Content:      content,
	}

	dto, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// Get handles GET /api/v1/analyses/{analysisID}.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := common.ID(chi.URLParam(r, "analysisID"))

	dto, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// List handles GET /api/v1/analyses with optional page, page_size, and
// risk_level query parameters.
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePagination(r)

	req := agreement.ListAnalysesRequest{Pagination: page}
	if v := r.URL.Query().Get("risk_level"); v != "" {
		level := common.RiskLevel(v)
		if !level.Valid() {
			writeError(w, errors.Newf(errors.ErrCodeBadRequest, "unknown risk level %q", v))
			return
		}
		req.RiskLevel = level
	}

	rows, total, err := h.service.List(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	totalPages := 0
	if page.PageSize > 0 {
		totalPages = int((total + int64(page.PageSize) - 1) / int64(page.PageSize))
	}
	writeJSON(w, http.StatusOK, common.PageResponse[agreement.AnalysisSummaryDTO]{
		Items:      rows,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	})
}

// Delete handles DELETE /api/v1/analyses/{analysisID}.
func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := common.ID(chi.URLParam(r, "analysisID"))

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/stats.
func (h *AnalysisHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
