// Package analysis implements the agreement-analysis bounded context
// aggregate root and invariant enforcement for the AgreemShield platform.
// All business rules that concern a completed or in-flight analysis live
// here; persistence and transport concerns are handled by separate
// repository and adapter layers.
package analysis

import (
	"time"

	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Aggregate root
// ─────────────────────────────────────────────────────────────────────────────

// Analysis is the aggregate root for one analyzed funding agreement. It is
// created in StatusPending, moves to StatusRunning while the pipeline works,
// and finishes in StatusCompleted or StatusFailed.
type Analysis struct {
	ID           common.ID
	Status       common.Status
	StartupType  string
	FundingStage string

	Document        agreement.DocumentDTO
	Clauses         []agreement.ClauseDTO
	RiskAssessment  agreement.RiskAssessmentDTO
	Predictions     agreement.PredictionDTO
	Recommendations []agreement.RecommendationDTO

	FailureReason string

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// allowedTransitions defines the valid next states reachable from each
// status. Transitions not listed are illegal and rejected by setStatus.
var allowedTransitions = map[common.Status][]common.Status{
	common.StatusPending: {common.StatusRunning, common.StatusFailed},
	common.StatusRunning: {common.StatusCompleted, common.StatusFailed},
}

// New creates a pending analysis for the given document parameters.
func New(startupType, fundingStage string, doc agreement.DocumentDTO) *Analysis {
	if startupType == "" {
		startupType = DefaultStartupType
	}
	if fundingStage == "" {
		fundingStage = DefaultFundingStage
	}
	return &Analysis{
		ID:           common.NewID(),
		Status:       common.StatusPending,
		StartupType:  startupType,
		FundingStage: fundingStage,
		Document:     doc,
		CreatedAt:    time.Now().UTC(),
	}
}

// Defaults applied when the caller does not state the startup profile.
const (
	DefaultStartupType  = "saas"
	DefaultFundingStage = "Seed"
)

// Start moves the analysis into the running state.
func (a *Analysis) Start() error {
	return a.setStatus(common.StatusRunning)
}

// Complete records the pipeline output and moves the analysis to completed.
func (a *Analysis) Complete(
	clauses []agreement.ClauseDTO,
	assessment agreement.RiskAssessmentDTO,
	predictions agreement.PredictionDTO,
	recommendations []agreement.RecommendationDTO,
) error {
	if err := a.setStatus(common.StatusCompleted); err != nil {
		return err
	}
	a.Clauses = clauses
	a.RiskAssessment = assessment
	a.Predictions = predictions
	a.Recommendations = recommendations
	now := time.Now().UTC()
	a.CompletedAt = &now
	return nil
}

// Fail records a terminal failure with its reason.
func (a *Analysis) Fail(reason string) error {
	if err := a.setStatus(common.StatusFailed); err != nil {
		return err
	}
	a.FailureReason = reason
	now := time.Now().UTC()
	a.CompletedAt = &now
	return nil
}

func (a *Analysis) setStatus(next common.Status) error {
	for _, allowed := range allowedTransitions[a.Status] {
		if allowed == next {
			a.Status = next
			return nil
		}
	}
	return errors.Newf(errors.ErrCodeConflict, "analysis %s cannot move from %s to %s", a.ID, a.Status, next)
}

// IsTerminal reports whether the analysis reached a final state.
func (a *Analysis) IsTerminal() bool {
	return a.Status == common.StatusCompleted || a.Status == common.StatusFailed
}

// Summary derives the compact clause roll-up from the stored clauses.
func (a *Analysis) Summary() agreement.SummaryDTO {
	s := agreement.SummaryDTO{Total: len(a.Clauses)}
	for _, c := range a.Clauses {
		switch c.RiskLevel {
		case common.RiskHigh:
			s.High++
		case common.RiskMedium:
			s.Medium++
		case common.RiskLow:
			s.Low++
		}
	}
	return s
}

// ClausesOfType returns the stored clauses matching the given type.
func (a *Analysis) ClausesOfType(t agreement.ClauseType) []agreement.ClauseDTO {
	var out []agreement.ClauseDTO
	for _, c := range a.Clauses {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// HighRiskClauses returns the stored clauses flagged High.
func (a *Analysis) HighRiskClauses() []agreement.ClauseDTO {
	var out []agreement.ClauseDTO
	for _, c := range a.Clauses {
		if c.RiskLevel == common.RiskHigh {
			out = append(out, c)
		}
	}
	return out
}

// ToDTO renders the aggregate as the public analysis payload.
func (a *Analysis) ToDTO() agreement.AnalysisDTO {
	analyzedAt := a.CreatedAt
	if a.CompletedAt != nil {
		analyzedAt = *a.CompletedAt
	}
	doc := a.Document
	doc.Text = ""
	doc.Sections = nil
	return agreement.AnalysisDTO{
		ID:              a.ID,
		Document:        doc,
		StartupType:     a.StartupType,
		FundingStage:    a.FundingStage,
		Clauses:         a.Clauses,
		RiskAssessment:  a.RiskAssessment,
		Predictions:     a.Predictions,
		Recommendations: a.Recommendations,
		Summary:         a.Summary(),
		AnalyzedAt:      common.Timestamp(analyzedAt),
	}
}

// ToSummaryDTO renders the aggregate as a listing row.
func (a *Analysis) ToSummaryDTO() agreement.AnalysisSummaryDTO {
	return agreement.AnalysisSummaryDTO{
		ID:           a.ID,
		Filename:     a.Document.Filename,
		StartupType:  a.StartupType,
		OverallScore: a.RiskAssessment.OverallScore,
		OverallLevel: a.RiskAssessment.OverallLevel,
		ClauseCount:  len(a.Clauses),
		AnalyzedAt:   common.Timestamp(a.CreatedAt),
	}
}
