// Package compliance checks stored analyses against per-jurisdiction legal
// requirement tables. Each required rule is matched by keyword against the
// agreement text; missing required rules become violations with suggested
// fix language.
package compliance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	domain "github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// AnalysisProvider loads stored analyses for compliance checking.
type AnalysisProvider interface {
	GetAggregate(ctx context.Context, id common.ID) (*domain.Analysis, error)
}

// Service runs multi-jurisdiction compliance checks.
type Service interface {
	Check(ctx context.Context, req agreement.ComplianceRequest) (*agreement.ComplianceResponse, error)
}

type service struct {
	analyses AnalysisProvider
	log      logging.Logger
}

// NewService builds the compliance service.
func NewService(analyses AnalysisProvider, log logging.Logger) Service {
	if log == nil {
		log = logging.Default()
	}
	return &service{analyses: analyses, log: log.Named("compliance")}
}

func (s *service) Check(ctx context.Context, req agreement.ComplianceRequest) (*agreement.ComplianceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid compliance request")
	}
	if err := req.AnalysisID.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis id")
	}

	a, err := s.analyses.GetAggregate(ctx, req.AnalysisID)
	if err != nil {
		return nil, err
	}

	text := documentText(a)
	results := make(map[string]agreement.JurisdictionResultDTO, len(req.Jurisdictions))
	for _, jurisdiction := range req.Jurisdictions {
		rules, ok := complianceRules[jurisdiction]
		if !ok {
			s.log.Warn("no compliance rules for jurisdiction",
				logging.String("jurisdiction", jurisdiction))
			continue
		}
		results[jurisdiction] = checkJurisdiction(text, rules)
	}
	if len(results) == 0 {
		return nil, errors.Newf(errors.ErrCodeComplianceFailed,
			"no rule tables for jurisdictions %s", strings.Join(req.Jurisdictions, ", "))
	}

	summary := summarize(results)
	s.log.Info("compliance checked",
		logging.String("analysis_id", string(req.AnalysisID)),
		logging.Strings("jurisdictions", req.Jurisdictions),
		logging.Int("violations", summary.TotalViolations))

	return &agreement.ComplianceResponse{
		Jurisdictions: req.Jurisdictions,
		Results:       results,
		Summary:       summary,
		CheckedAt:     common.Timestamp(time.Now().UTC()),
	}, nil
}

// documentText assembles the searchable lowercase text for keyword checks.
// The stored document text is preferred; clause texts cover analyses whose
// raw text was trimmed before persistence.
func documentText(a *domain.Analysis) string {
	if a.Document.Text != "" {
		return strings.ToLower(a.Document.Text)
	}
	var b strings.Builder
	for _, c := range a.Clauses {
		if c.FullText != "" {
			b.WriteString(strings.ToLower(c.FullText))
		} else {
			b.WriteString(strings.ToLower(c.Text))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func checkJurisdiction(docText string, rules jurisdictionRules) agreement.JurisdictionResultDTO {
	var (
		violations []agreement.ComplianceViolationDTO
		warnings   []agreement.ComplianceWarningDTO
		missing    []string

		totalRequired  int
		compliantCount int
	)

	for _, r := range rules.Rules {
		found := false
		for _, kw := range r.Keywords {
			if strings.Contains(docText, kw) {
				found = true
				break
			}
		}

		switch {
		case r.Required && !found:
			totalRequired++
			violations = append(violations, agreement.ComplianceViolationDTO{
				RuleID:      r.ID,
				RuleName:    r.Name,
				Severity:    r.Severity,
				Description: r.Description,
				Issue:       "Required clause missing",
				Fix:         fixFor(r),
			})
			missing = append(missing, r.Name)
		case r.Required && found:
			totalRequired++
			compliantCount++
		case !r.Required && !found:
			warnings = append(warnings, agreement.ComplianceWarningDTO{
				RuleID:         r.ID,
				RuleName:       r.Name,
				Description:    r.Description,
				Recommendation: fmt.Sprintf("Consider adding: %s", r.Description),
			})
		}
	}

	score := 100.0
	if totalRequired > 0 {
		score = math.Round(float64(compliantCount)/float64(totalRequired)*1000) / 10
	}

	status := "compliant"
	if len(violations) > 0 {
		status = "needs_review"
		for _, v := range violations {
			if v.Severity == severityCritical {
				status = "critical_violation"
				break
			}
		}
	}

	return agreement.JurisdictionResultDTO{
		Framework:       rules.Framework,
		Status:          status,
		ComplianceScore: score,
		Violations:      violations,
		Warnings:        warnings,
		MissingClauses:  missing,
	}
}

// fixFor returns model clause language for a violated rule, falling back
// to a placeholder built from the rule description.
func fixFor(r rule) string {
	if fix, ok := fixTemplates[r.ID]; ok {
		return fix
	}
	return fmt.Sprintf("Add clause addressing: %s", r.Description)
}

func summarize(results map[string]agreement.JurisdictionResultDTO) agreement.ComplianceSummaryDTO {
	var (
		totalViolations int
		totalWarnings   int
		criticalIssues  []string
	)
	for jurisdiction, result := range results {
		totalViolations += len(result.Violations)
		totalWarnings += len(result.Warnings)
		for _, v := range result.Violations {
			if v.Severity == severityCritical {
				criticalIssues = append(criticalIssues, fmt.Sprintf("%s: %s", jurisdiction, v.RuleName))
			}
		}
	}

	overallStatus := "compliant"
	riskLevel := "low"
	switch {
	case totalViolations == 0:
	case len(criticalIssues) > 0:
		overallStatus = "critical_violations"
		riskLevel = "critical"
	case totalViolations > 3:
		overallStatus = "multiple_violations"
		riskLevel = "high"
	default:
		overallStatus = "minor_issues"
		riskLevel = "medium"
	}

	return agreement.ComplianceSummaryDTO{
		OverallStatus:   overallStatus,
		RiskLevel:       riskLevel,
		TotalViolations: totalViolations,
		TotalWarnings:   totalWarnings,
		RequiresAction:  totalViolations > 0,
		CriticalIssues:  criticalIssues,
	}
}
