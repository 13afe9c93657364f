// Package chat answers free-text questions about funding agreements using
// templated explanations. When a question is anchored to a stored analysis
// the answer is grounded in that document's clauses, risk assessment, and
// recommendations.
package chat

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// Dangerous clauses quoted in a grounded risk answer.
const maxQuotedClauses = 3

// AnalysisProvider loads stored analyses for grounding.
type AnalysisProvider interface {
	GetAggregate(ctx context.Context, id common.ID) (*domain.Analysis, error)
}

// ContextCache keeps recently used analyses close to the assistant so
// follow-up questions skip the repository. A nil cache disables it.
type ContextCache interface {
	Get(ctx context.Context, id common.ID) (*domain.Analysis, bool)
	Set(ctx context.Context, a *domain.Analysis)
}

// Service is the chat assistant.
type Service interface {
	Chat(ctx context.Context, req agreement.ChatRequest) (*agreement.ChatResponse, error)
}

type service struct {
	analyses AnalysisProvider
	cache    ContextCache
	log      logging.Logger
}

// NewService builds the chat service. Cache may be nil.
func NewService(analyses AnalysisProvider, cache ContextCache, log logging.Logger) Service {
	if log == nil {
		log = logging.Default()
	}
	return &service{analyses: analyses, cache: cache, log: log.Named("chat")}
}

func (s *service) Chat(ctx context.Context, req agreement.ChatRequest) (*agreement.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid chat request")
	}

	var analysis *domain.Analysis
	if req.AnalysisID != "" {
		a, err := s.loadAnalysis(ctx, req.AnalysisID)
		if err != nil {
			return nil, err
		}
		analysis = a
	}

	message := strings.ToLower(req.Message)
	response := s.respond(message, analysis)

	s.log.Debug("chat answered",
		logging.String("analysis_id", string(req.AnalysisID)),
		logging.Bool("grounded", analysis != nil))

	return &agreement.ChatResponse{
		Response:   response,
		AnalysisID: req.AnalysisID,
		Grounded:   analysis != nil,
	}, nil
}

func (s *service) loadAnalysis(ctx context.Context, id common.ID) (*domain.Analysis, error) {
	if err := id.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis id")
	}
	if s.cache != nil {
		if a, ok := s.cache.Get(ctx, id); ok {
			return a, nil
		}
	}
	a, err := s.analyses.GetAggregate(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.ErrCodeChatContextNotFound, "analysis for chat context not found")
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, a)
	}
	return a, nil
}

func (s *service) respond(message string, analysis *domain.Analysis) string {
	if isGreeting(message) {
		return greetingResponse
	}

	if analysis != nil && asksAboutRisk(message) {
		return riskAnswer(analysis)
	}

	for _, t := range topics {
		if !t.match(message) {
			continue
		}
		answer := t.response
		if analysis != nil {
			if grounded := groundedAddendum(t, analysis); grounded != "" {
				answer += "\n\n" + grounded
			}
		}
		return answer
	}

	if analysis != nil {
		return riskAnswer(analysis)
	}
	return helpResponse
}

var riskWords = []string{"risk", "dangerous", "my agreement", "my document", "red flag"}

func asksAboutRisk(message string) bool {
	for _, w := range riskWords {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}

// riskAnswer renders the stored risk assessment as a conversational reply.
func riskAnswer(a *domain.Analysis) string {
	assessment := a.RiskAssessment

	var b strings.Builder
	fmt.Fprintf(&b, "Risk analysis for %s:\n\n", a.Document.Filename)
	fmt.Fprintf(&b, "Overall Risk: %s (score %.1f/100, higher is safer)\n", assessment.OverallLevel, assessment.OverallScore)
	fmt.Fprintf(&b, "Clauses analyzed: %d, red flags: %d\n", assessment.ClauseCount, assessment.RedFlags)

	if len(assessment.DangerousClauses) > 0 {
		b.WriteString("\nHigh-risk clauses found:\n")
		for i, dc := range assessment.DangerousClauses {
			if i == maxQuotedClauses {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", dc.Type, dc.Concern)
		}
	}
	if assessment.Summary != "" {
		b.WriteString("\n")
		b.WriteString(assessment.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

// groundedAddendum ties a topic answer back to the analyzed document: the
// matching clause's explanation plus the stored negotiation recommendation.
func groundedAddendum(t topic, a *domain.Analysis) string {
	clauseType := agreement.ClauseType(t.clauseType)

	var clause *agreement.ClauseDTO
	for i := range a.Clauses {
		if a.Clauses[i].Type == clauseType {
			clause = &a.Clauses[i]
			break
		}
	}
	if clause == nil {
		return fmt.Sprintf("Your document does not contain a %s clause.", t.clauseType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "In your document: the %s clause is rated %s risk.", clause.Type, clause.RiskLevel)
	if clause.Explanation != "" {
		b.WriteString(" " + clause.Explanation)
	}
	for _, rec := range a.Recommendations {
		if rec.Clause == clauseType {
			fmt.Fprintf(&b, "\nRecommendation: %s", rec.Recommendation)
			break
		}
	}
	return b.String()
}
