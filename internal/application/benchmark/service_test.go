package benchmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

type stubProvider struct {
	analyses map[common.ID]*domain.Analysis
}

func (p *stubProvider) GetAggregate(_ context.Context, id common.ID) (*domain.Analysis, error) {
	a, ok := p.analyses[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
	}
	return a, nil
}

func storedAnalysis(clauses ...agreement.ClauseDTO) (*stubProvider, common.ID) {
	id := common.NewID()
	return &stubProvider{analyses: map[common.ID]*domain.Analysis{
		id: {
			ID:           id,
			Status:       common.StatusCompleted,
			StartupType:  "saas",
			FundingStage: "Series A",
			Clauses:      clauses,
		},
	}}, id
}

func TestBenchmarkLiquidationMultiple(t *testing.T) {
	t.Parallel()

	provider, id := storedAnalysis(agreement.ClauseDTO{
		Type:     agreement.ClauseLiquidationPreference,
		FullText: "The holders shall receive a 2x participating liquidation preference.",
	})
	svc := NewService(provider, logging.NewNopLogger())

	resp, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{AnalysisID: id})
	require.NoError(t, err)
	require.Len(t, resp.BenchmarkedClauses, 1)

	b := resp.BenchmarkedClauses[0]
	assert.Equal(t, agreement.ClauseLiquidationPreference, b.ClauseType)
	assert.Equal(t, 2.0, b.YourValue)
	// SaaS Series A: p25=1.0, median=1.0, p75=1.5. A 2x multiple sits past
	// the 75th percentile.
	assert.Greater(t, b.Percentile, 75.0)
	assert.False(t, b.IsFounderFriendly)
	assert.Equal(t, "Poor - Worse than 75% of deals", b.Comparison)
	require.Len(t, b.Recommendations, 2)
	assert.Contains(t, b.Recommendations[0], "worst 25%")
}

func TestBenchmarkPlainPreferenceIsStandard(t *testing.T) {
	t.Parallel()

	provider, id := storedAnalysis(agreement.ClauseDTO{
		Type:     agreement.ClauseLiquidationPreference,
		FullText: "Standard liquidation preference on distribution of proceeds.",
	})
	svc := NewService(provider, logging.NewNopLogger())

	resp, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{AnalysisID: id})
	require.NoError(t, err)
	require.Len(t, resp.BenchmarkedClauses, 1)

	b := resp.BenchmarkedClauses[0]
	assert.Equal(t, 1.0, b.YourValue)
	assert.Equal(t, 25.0, b.Percentile)
	assert.True(t, b.IsFounderFriendly)
	assert.True(t, b.IsStandard)
	assert.Equal(t, 100.0, resp.Summary.OverallMarketScore)
	assert.Equal(t, "Excellent", resp.Summary.Rating)
}

func TestBenchmarkBiotechTable(t *testing.T) {
	t.Parallel()

	provider, id := storedAnalysis(agreement.ClauseDTO{
		Type:     agreement.ClauseLiquidationPreference,
		FullText: "2x liquidation preference.",
	})
	svc := NewService(provider, logging.NewNopLogger())

	resp, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{
		AnalysisID:  id,
		StartupType: "biotech",
	})
	require.NoError(t, err)
	require.Len(t, resp.BenchmarkedClauses, 1)

	// Biotech Series A median is 2.0, so the same multiple is market rate.
	assert.Equal(t, "Biotech", resp.StartupType)
	assert.Equal(t, 50.0, resp.BenchmarkedClauses[0].Percentile)
	assert.True(t, resp.BenchmarkedClauses[0].IsFounderFriendly)
}

func TestBenchmarkVestingMonths(t *testing.T) {
	t.Parallel()

	provider, id := storedAnalysis(agreement.ClauseDTO{
		Type:     agreement.ClauseVesting,
		FullText: "Founder shares vest over 48 months with a 12-month cliff.",
	})
	svc := NewService(provider, logging.NewNopLogger())

	resp, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{AnalysisID: id})
	require.NoError(t, err)
	require.Len(t, resp.BenchmarkedClauses, 1)
	// 48 months is the all-stages market median.
	assert.Equal(t, 48.0, resp.BenchmarkedClauses[0].YourValue)
	assert.Equal(t, 50.0, resp.BenchmarkedClauses[0].Percentile)
}

func TestBenchmarkSkipsUnmeasurableClauses(t *testing.T) {
	t.Parallel()

	provider, id := storedAnalysis(
		agreement.ClauseDTO{Type: agreement.ClauseIPAssignment, FullText: "All IP is assigned to the company."},
		agreement.ClauseDTO{Type: agreement.ClauseGeneral, FullText: "Miscellaneous provisions."},
	)
	svc := NewService(provider, logging.NewNopLogger())

	resp, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{AnalysisID: id})
	require.NoError(t, err)
	assert.Empty(t, resp.BenchmarkedClauses)
	assert.Equal(t, 0.0, resp.Summary.OverallMarketScore)
	assert.Equal(t, "Needs Improvement", resp.Summary.Rating)
	require.Len(t, resp.Insights, 1)
	assert.Contains(t, resp.Insights[0], "No measurable terms")
}

func TestBenchmarkUnknownAnalysis(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubProvider{analyses: map[common.ID]*domain.Analysis{}}, logging.NewNopLogger())

	_, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{AnalysisID: common.NewID()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))
}

func TestBenchmarkInvalidID(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubProvider{}, logging.NewNopLogger())

	_, err := svc.Benchmark(context.Background(), agreement.BenchmarkRequest{AnalysisID: "not-a-uuid"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestPercentileInterpolation(t *testing.T) {
	t.Parallel()

	row := stageData{P25: 1.0, Median: 2.0, P75: 3.0}
	assert.Equal(t, 25.0, percentileOf(0.5, row))
	assert.Equal(t, 25.0, percentileOf(1.0, row))
	assert.Equal(t, 37.5, percentileOf(1.5, row))
	assert.Equal(t, 50.0, percentileOf(2.0, row))
	assert.Equal(t, 62.5, percentileOf(2.5, row))
	assert.Equal(t, 75.0, percentileOf(3.0, row))
	assert.Equal(t, 100.0, percentileOf(100, row), "cap at 100")
}

func TestRatingBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Excellent", ratingFor(80))
	assert.Equal(t, "Good", ratingFor(65))
	assert.Equal(t, "Fair", ratingFor(50))
	assert.Equal(t, "Needs Improvement", ratingFor(49.9))
}
