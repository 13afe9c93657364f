// Package comparison ranks multiple analyzed agreements side by side,
// picking a winner per clause type and overall, and estimating the
// financial cost of choosing each deal.
package comparison

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	domain "github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	// Assumed startup valuation for financial impact estimates.
	assumedValuation = 10_000_000

	// Exposure-to-cost conversion caps: risk exposure maps to at most 30%
	// additional dilution and at most 50% exit value reduction.
	maxEquityLossPct    = 30
	maxExitReductionPct = 50

	// Clause preview length inside comparison results.
	versionPreviewChars = 200

	defaultComparisonName = "Document Comparison"
)

// riskRank orders risk levels for clause-by-clause comparison. Lower rank
// wins; an unknown level ranks worst.
var riskRank = map[common.RiskLevel]int{
	common.RiskLow:    1,
	common.RiskMedium: 2,
	common.RiskHigh:   3,
}

const unknownRiskRank = 5

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// AnalysisProvider loads stored analyses for comparison.
type AnalysisProvider interface {
	GetAggregate(ctx context.Context, id common.ID) (*domain.Analysis, error)
}

// Service compares stored analyses.
type Service interface {
	Compare(ctx context.Context, req agreement.ComparisonRequest) (*agreement.ComparisonResponse, error)
}

type service struct {
	analyses AnalysisProvider
	log      logging.Logger
}

// NewService builds the comparison service.
func NewService(analyses AnalysisProvider, log logging.Logger) Service {
	if log == nil {
		log = logging.Default()
	}
	return &service{analyses: analyses, log: log.Named("comparison")}
}

func (s *service) Compare(ctx context.Context, req agreement.ComparisonRequest) (*agreement.ComparisonResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeComparisonTooFew, "invalid comparison request")
	}

	docs := make([]comparedDoc, 0, len(req.AnalysisIDs))
	for idx, id := range req.AnalysisIDs {
		if err := id.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis id")
		}
		a, err := s.analyses.GetAggregate(ctx, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, newComparedDoc(idx+1, a))
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = defaultComparisonName
	}

	clauseComparison := compareClauses(docs)
	winner := determineWinner(docs)
	impacts := financialImpacts(docs)

	s.log.Info("documents compared",
		logging.Int("documents", len(docs)),
		logging.Int("winner", winner.DocumentIndex),
		logging.Float64("confidence", winner.Confidence))

	return &agreement.ComparisonResponse{
		Name:             name,
		Documents:        documentDTOs(docs),
		Winner:           winner,
		ClauseComparison: clauseComparison,
		FinancialImpacts: impacts,
		Summary:          summarize(docs, winner, impacts),
		ComparedAt:       common.Timestamp(time.Now().UTC()),
	}, nil
}

// ---------------------------------------------------------------------------
// Working set
// ---------------------------------------------------------------------------

// comparedDoc is one document's metrics extracted for ranking. exposure is
// risk on a 0-100 scale where higher means riskier, derived from the
// inverted overall score so penalties grow with risk.
type comparedDoc struct {
	index    int
	id       common.ID
	filename string
	score    float64
	level    common.RiskLevel
	exposure float64
	high     int
	redFlags int
	clauses  []agreement.ClauseDTO
}

func newComparedDoc(index int, a *domain.Analysis) comparedDoc {
	high := 0
	for _, c := range a.Clauses {
		if c.RiskLevel == common.RiskHigh {
			high++
		}
	}
	return comparedDoc{
		index:    index,
		id:       a.ID,
		filename: a.Document.Filename,
		score:    a.RiskAssessment.OverallScore,
		level:    a.RiskAssessment.OverallLevel,
		exposure: 100 - a.RiskAssessment.OverallScore,
		high:     high,
		redFlags: a.RiskAssessment.RedFlags,
		clauses:  a.Clauses,
	}
}

func documentDTOs(docs []comparedDoc) []agreement.ComparedDocumentDTO {
	out := make([]agreement.ComparedDocumentDTO, len(docs))
	for i, d := range docs {
		out[i] = agreement.ComparedDocumentDTO{
			DocumentIndex: d.index,
			AnalysisID:    d.id,
			Filename:      d.filename,
			OverallScore:  d.score,
			RiskLevel:     d.level,
			TotalClauses:  len(d.clauses),
			HighRiskCount: d.high,
			RedFlags:      d.redFlags,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Clause-by-clause comparison
// ---------------------------------------------------------------------------

func compareClauses(docs []comparedDoc) map[agreement.ClauseType]agreement.ClauseComparisonDTO {
	types := map[agreement.ClauseType]struct{}{}
	for _, d := range docs {
		for _, c := range d.clauses {
			types[c.Type] = struct{}{}
		}
	}

	out := make(map[agreement.ClauseType]agreement.ClauseComparisonDTO, len(types))
	for ct := range types {
		var versions []agreement.ClauseVersionDTO
		for _, d := range docs {
			for _, c := range d.clauses {
				if c.Type != ct {
					continue
				}
				versions = append(versions, agreement.ClauseVersionDTO{
					DocumentIndex: d.index,
					RiskLevel:     c.RiskLevel,
					Text:          truncate(c.Text, versionPreviewChars),
				})
				break
			}
		}
		if len(versions) == 0 {
			continue
		}

		best := versions[0]
		for _, v := range versions[1:] {
			if rankOf(v.RiskLevel) < rankOf(best.RiskLevel) {
				best = v
			}
		}
		out[ct] = agreement.ClauseComparisonDTO{
			WinnerDocument: best.DocumentIndex,
			WinnerRisk:     best.RiskLevel,
			Versions:       versions,
		}
	}
	return out
}

func rankOf(level common.RiskLevel) int {
	if r, ok := riskRank[level]; ok {
		return r
	}
	return unknownRiskRank
}

// ---------------------------------------------------------------------------
// Winner
// ---------------------------------------------------------------------------

// determineWinner scores every document (lower is better) and picks the
// lowest. Risk exposure weighs ten points per unit, each high-risk clause
// adds five, each red flag fifteen.
func determineWinner(docs []comparedDoc) agreement.WinnerDTO {
	type scored struct {
		doc   comparedDoc
		total float64
	}
	scores := make([]scored, len(docs))
	for i, d := range docs {
		scores[i] = scored{
			doc:   d,
			total: d.exposure*10 + float64(d.high)*5 + float64(d.redFlags)*15,
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].total < scores[j].total })

	best := scores[0]
	confidence := 0.95
	if len(scores) >= 2 {
		confidence = confidenceFor(best.total, scores[1].total)
	}
	return agreement.WinnerDTO{
		DocumentIndex: best.doc.index,
		Filename:      best.doc.filename,
		Score:         math.Round(best.total*100) / 100,
		Confidence:    confidence,
	}
}

// confidenceFor maps the gap between the two best scores onto a confidence
// figure: near-ties land around 0.60, clear winners approach 0.95.
func confidenceFor(best, secondBest float64) float64 {
	if best == 0 && secondBest == 0 {
		return 0.60
	}
	if secondBest == 0 {
		return 0.92
	}

	diff := math.Abs(best-secondBest) / math.Max(secondBest, 1)
	var confidence float64
	switch {
	case diff < 0.1:
		confidence = 0.60 + diff/0.1*0.10
	case diff < 0.3:
		confidence = 0.70 + (diff-0.1)/0.2*0.15
	default:
		confidence = math.Min(0.85+(diff-0.3)*0.1, 0.95)
	}
	return math.Round(confidence*100) / 100
}

// ---------------------------------------------------------------------------
// Financial impact
// ---------------------------------------------------------------------------

func financialImpacts(docs []comparedDoc) []agreement.FinancialImpactDTO {
	out := make([]agreement.FinancialImpactDTO, len(docs))
	bestTotal := math.MaxFloat64
	for i, d := range docs {
		equityLossPct := d.exposure / 100 * maxEquityLossPct
		exitReductionPct := d.exposure / 100 * maxExitReductionPct
		total := math.Round(assumedValuation*equityLossPct/100 + assumedValuation*exitReductionPct/100)

		out[i] = agreement.FinancialImpactDTO{
			DocumentIndex:      d.index,
			Filename:           d.filename,
			EquityLossPct:      math.Round(equityLossPct*10) / 10,
			ExitReductionPct:   math.Round(exitReductionPct*10) / 10,
			TotalFinancialRisk: total,
		}
		if total < bestTotal {
			bestTotal = total
		}
	}
	for i := range out {
		out[i].VersusBestDeal = out[i].TotalFinancialRisk - bestTotal
	}
	return out
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

func summarize(docs []comparedDoc, winner agreement.WinnerDTO, impacts []agreement.FinancialImpactDTO) string {
	var winnerDoc comparedDoc
	for _, d := range docs {
		if d.index == winner.DocumentIndex {
			winnerDoc = d
			break
		}
	}
	var winnerImpact agreement.FinancialImpactDTO
	for _, im := range impacts {
		if im.DocumentIndex == winner.DocumentIndex {
			winnerImpact = im
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Winner: Document %d - %s\n", winner.DocumentIndex, winner.Filename)
	fmt.Fprintf(&b, "Overall Risk Score: %.2f (%s)\n", winnerDoc.score, winnerDoc.level)
	fmt.Fprintf(&b, "High Risk Clauses: %d, Red Flags: %d\n", winnerDoc.high, winnerDoc.redFlags)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", winner.Confidence*100)
	fmt.Fprintf(&b, "Estimated Equity Loss: %.1f%%, Exit Reduction: %.1f%%",
		winnerImpact.EquityLossPct, winnerImpact.ExitReductionPct)

	for _, im := range impacts {
		if im.DocumentIndex == winner.DocumentIndex || im.VersusBestDeal <= 0 {
			continue
		}
		fmt.Fprintf(&b, "\nDocument %d carries $%.0f more financial risk", im.DocumentIndex, im.VersusBestDeal)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
