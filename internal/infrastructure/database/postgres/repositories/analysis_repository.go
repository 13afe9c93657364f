// Package repositories provides PostgreSQL-backed implementations of the
// AgreemShield domain repository interfaces.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	appErrors "github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Persistence record
// ─────────────────────────────────────────────────────────────────────────────

// analysisRecord is the JSONB shape of a stored analysis aggregate. Scalar
// columns duplicate the fields used for filtering and stats so listing never
// has to unpack the payload.
type analysisRecord struct {
	ID              common.ID                     `json:"id"`
	Status          common.Status                 `json:"status"`
	StartupType     string                        `json:"startup_type"`
	FundingStage    string                        `json:"funding_stage"`
	Document        agreement.DocumentDTO         `json:"document"`
	Clauses         []agreement.ClauseDTO         `json:"clauses"`
	RiskAssessment  agreement.RiskAssessmentDTO   `json:"risk_assessment"`
	Predictions     agreement.PredictionDTO       `json:"predictions"`
	Recommendations []agreement.RecommendationDTO `json:"recommendations"`
	FailureReason   string                        `json:"failure_reason,omitempty"`
	CreatedAt       time.Time                     `json:"created_at"`
	CompletedAt     *time.Time                    `json:"completed_at,omitempty"`
}

func recordFromAggregate(a *analysis.Analysis) analysisRecord {
	return analysisRecord{
		ID:              a.ID,
		Status:          a.Status,
		StartupType:     a.StartupType,
		FundingStage:    a.FundingStage,
		Document:        a.Document,
		Clauses:         a.Clauses,
		RiskAssessment:  a.RiskAssessment,
		Predictions:     a.Predictions,
		Recommendations: a.Recommendations,
		FailureReason:   a.FailureReason,
		CreatedAt:       a.CreatedAt,
		CompletedAt:     a.CompletedAt,
	}
}

func (r analysisRecord) toAggregate() *analysis.Analysis {
	return &analysis.Analysis{
		ID:              r.ID,
		Status:          r.Status,
		StartupType:     r.StartupType,
		FundingStage:    r.FundingStage,
		Document:        r.Document,
		Clauses:         r.Clauses,
		RiskAssessment:  r.RiskAssessment,
		Predictions:     r.Predictions,
		Recommendations: r.Recommendations,
		FailureReason:   r.FailureReason,
		CreatedAt:       r.CreatedAt,
		CompletedAt:     r.CompletedAt,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AnalysisRepository
// ─────────────────────────────────────────────────────────────────────────────

// AnalysisRepository is the PostgreSQL implementation of the analysis
// domain's Repository interface. The full aggregate lives in a JSONB payload
// column; filter and stats columns are maintained alongside it on every save.
type AnalysisRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, logger logging.Logger) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, logger: logger}
}

var _ analysis.Repository = (*AnalysisRepository)(nil)

// Save upserts the aggregate. Analyses are written once on creation and then
// rewritten as the pipeline moves them through running and terminal states.
func (r *AnalysisRepository) Save(ctx context.Context, a *analysis.Analysis) error {
	r.logger.Debug("AnalysisRepository.Save", logging.String("analysis_id", string(a.ID)))

	payload, err := json.Marshal(recordFromAggregate(a))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to marshal analysis payload")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analyses (
			id, status, startup_type, funding_stage, filename,
			risk_score, risk_level, payload, created_at, completed_at
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,$10
		)
		ON CONFLICT (id) DO UPDATE SET
			status       = EXCLUDED.status,
			risk_score   = EXCLUDED.risk_score,
			risk_level   = EXCLUDED.risk_level,
			payload      = EXCLUDED.payload,
			completed_at = EXCLUDED.completed_at`,
		a.ID, a.Status, a.StartupType, a.FundingStage, a.Document.Filename,
		a.RiskAssessment.OverallScore, a.RiskAssessment.OverallLevel, payload,
		a.CreatedAt, a.CompletedAt,
	)
	if err != nil {
		r.logger.Error("AnalysisRepository.Save", logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to save analysis")
	}

	return nil
}

// GetByID loads one aggregate by its identifier.
func (r *AnalysisRepository) GetByID(ctx context.Context, id common.ID) (*analysis.Analysis, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM analyses WHERE id = $1`, id,
	).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, appErrors.Newf(appErrors.ErrCodeAnalysisNotFound, "analysis %s not found", id)
		}
		r.logger.Error("AnalysisRepository.GetByID", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load analysis")
	}

	return unmarshalRecord(payload)
}

// List returns a page of aggregates matching the filter, newest first, along
// with the total match count.
func (r *AnalysisRepository) List(ctx context.Context, filter analysis.ListFilter, page common.Pagination) ([]*analysis.Analysis, int64, error) {
	where, args := buildListWhere(filter)

	var total int64
	countSQL := "SELECT COUNT(*) FROM analyses" + where
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		r.logger.Error("AnalysisRepository.List count", logging.Err(err))
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to count analyses")
	}

	dataSQL := fmt.Sprintf(
		"SELECT payload FROM analyses%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		r.logger.Error("AnalysisRepository.List", logging.Err(err))
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	var results []*analysis.Analysis
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan analysis row")
		}
		a, err := unmarshalRecord(payload)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate analyses")
	}

	return results, total, nil
}

// Delete removes an analysis. Missing rows map to the not-found error so the
// HTTP layer can answer 404.
func (r *AnalysisRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("AnalysisRepository.Delete", logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to delete analysis")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.Newf(appErrors.ErrCodeAnalysisNotFound, "analysis %s not found", id)
	}

	r.logger.Info("Deleted analysis", logging.String("analysis_id", string(id)))
	return nil
}

// Stats aggregates platform-wide figures across completed analyses. The top
// clause types are counted straight from the JSONB payloads.
func (r *AnalysisRepository) Stats(ctx context.Context) (*analysis.Stats, error) {
	stats := &analysis.Stats{
		RiskLevelCounts: make(map[common.RiskLevel]int),
		TopClauseTypes:  make(map[agreement.ClauseType]int),
	}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(risk_score) FILTER (WHERE status = $1), 0)
		FROM analyses`, common.StatusCompleted,
	).Scan(&stats.TotalAnalyses, &stats.AverageRiskScore)
	if err != nil {
		r.logger.Error("AnalysisRepository.Stats totals", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to compute analysis totals")
	}

	levelRows, err := r.pool.Query(ctx, `
		SELECT risk_level, COUNT(*)
		FROM analyses
		WHERE status = $1
		GROUP BY risk_level`, common.StatusCompleted,
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to compute risk level counts")
	}
	defer levelRows.Close()
	for levelRows.Next() {
		var level common.RiskLevel
		var count int
		if err := levelRows.Scan(&level, &count); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan risk level row")
		}
		stats.RiskLevelCounts[level] = count
	}
	if err := levelRows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate risk level rows")
	}

	typeRows, err := r.pool.Query(ctx, `
		SELECT c->>'type', COUNT(*)
		FROM analyses, jsonb_array_elements(payload->'clauses') AS c
		WHERE status = $1
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT 5`, common.StatusCompleted,
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to compute clause type counts")
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var clauseType agreement.ClauseType
		var count int
		if err := typeRows.Scan(&clauseType, &count); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan clause type row")
		}
		stats.TopClauseTypes[clauseType] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate clause type rows")
	}

	return stats, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func buildListWhere(filter analysis.ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.RiskLevel != "" {
		args = append(args, filter.RiskLevel)
		clauses = append(clauses, fmt.Sprintf("risk_level = $%d", len(args)))
	}
	if filter.StartupType != "" {
		args = append(args, filter.StartupType)
		clauses = append(clauses, fmt.Sprintf("startup_type = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func unmarshalRecord(payload []byte) (*analysis.Analysis, error) {
	var rec analysisRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to unmarshal analysis payload")
	}
	return rec.toAggregate(), nil
}
