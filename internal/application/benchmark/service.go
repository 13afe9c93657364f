// Package benchmark scores agreement terms against market percentile data.
// Each measurable clause is placed on the percentile curve for its industry
// and funding stage, and the document gets an overall market score.
package benchmark

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

// AnalysisProvider loads stored analyses for benchmarking.
type AnalysisProvider interface {
	GetAggregate(ctx context.Context, id common.ID) (*domain.Analysis, error)
}

// Service benchmarks stored analyses against market data.
type Service interface {
	Benchmark(ctx context.Context, req agreement.BenchmarkRequest) (*agreement.BenchmarkResponse, error)
}

type service struct {
	analyses AnalysisProvider
	log      logging.Logger
}

// NewService builds the benchmark service.
func NewService(analyses AnalysisProvider, log logging.Logger) Service {
	if log == nil {
		log = logging.Default()
	}
	return &service{analyses: analyses, log: log.Named("benchmark")}
}

func (s *service) Benchmark(ctx context.Context, req agreement.BenchmarkRequest) (*agreement.BenchmarkResponse, error) {
	if err := req.AnalysisID.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis id")
	}

	a, err := s.analyses.GetAggregate(ctx, req.AnalysisID)
	if err != nil {
		return nil, err
	}

	industry := normalizeIndustry(firstNonEmpty(req.StartupType, a.StartupType))
	stage := firstNonEmpty(req.FundingStage, a.FundingStage)

	var (
		benchmarked     []agreement.ClauseBenchmarkDTO
		totalScore      float64
		founderFriendly int
	)
	for _, c := range a.Clauses {
		value, ok := extractValue(c)
		if !ok {
			continue
		}
		row, ok := lookup(c.Type, industry, stage)
		if !ok {
			continue
		}

		pct := percentileOf(value, row)
		benchmarked = append(benchmarked, agreement.ClauseBenchmarkDTO{
			ClauseType: c.Type,
			YourValue:  value,
			MarketData: agreement.MarketDataDTO{
				P25:       row.P25,
				Median:    row.Median,
				P75:       row.P75,
				Frequency: row.Frequency,
			},
			Percentile:        pct,
			IsStandard:        pct >= 25 && pct <= 75,
			IsFounderFriendly: pct <= 50,
			Comparison:        comparisonFor(pct),
			Recommendations:   recommendationsFor(c.Type, row, pct),
		})
		if pct <= 50 {
			founderFriendly++
		}
		// The closer to the 25th percentile, the better the score.
		totalScore += 100 - math.Abs(pct-25)
	}

	overall := 0.0
	if len(benchmarked) > 0 {
		overall = math.Round(totalScore/float64(len(benchmarked))*10) / 10
	}

	s.log.Info("document benchmarked",
		logging.String("analysis_id", string(req.AnalysisID)),
		logging.String("industry", industry),
		logging.String("stage", stage),
		logging.Int("clauses", len(benchmarked)),
		logging.Float64("score", overall))

	return &agreement.BenchmarkResponse{
		StartupType:        industry,
		FundingStage:       stage,
		BenchmarkedClauses: benchmarked,
		Summary: agreement.BenchmarkSummaryDTO{
			TotalClausesBenchmarked: len(benchmarked),
			FounderFriendlyClauses:  founderFriendly,
			OverallMarketScore:      overall,
			Rating:                  ratingFor(overall),
		},
		Insights:    insights(benchmarked, founderFriendly, stage),
		GeneratedAt: common.Timestamp(time.Now().UTC()),
	}, nil
}

// insights summarizes the benchmark in a few sentences of market context.
func insights(benchmarked []agreement.ClauseBenchmarkDTO, founderFriendly int, stage string) []string {
	if len(benchmarked) == 0 {
		return []string{"No measurable terms found to benchmark against market data."}
	}

	out := make([]string, 0, 2)
	unfavorable := len(benchmarked) - founderFriendly
	if unfavorable > founderFriendly {
		out = append(out, fmt.Sprintf("This agreement has more investor-friendly terms than typical %s deals", stage))
	} else {
		out = append(out, fmt.Sprintf("This agreement has balanced or founder-friendly terms for %s", stage))
	}

	outliers := 0
	for _, b := range benchmarked {
		if b.Percentile > 75 {
			outliers++
		}
	}
	if outliers > 0 {
		out = append(out, fmt.Sprintf("%d clauses are significantly worse than market standard", outliers))
	}
	return out
}

// normalizeIndustry maps the stored lowercase startup type onto the market
// table keys. Unknown industries fall back to SaaS.
func normalizeIndustry(startupType string) string {
	switch strings.ToLower(strings.TrimSpace(startupType)) {
	case "fintech":
		return "Fintech"
	case "biotech":
		return "Biotech"
	default:
		return "SaaS"
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
