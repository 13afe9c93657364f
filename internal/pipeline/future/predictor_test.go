package future

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/internal/pipeline/risk"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

func predict(t *testing.T, clauses []agreement.ClauseDTO) agreement.PredictionDTO {
	t.Helper()
	assessment := risk.Assess(clauses)
	got, err := NewPredictor(logging.NewNopLogger()).Predict(
		context.Background(), clauses, assessment, "saas", "Seed")
	require.NoError(t, err)
	return got
}

func findPeriod(pred agreement.PredictionDTO, period agreement.Horizon) []agreement.FutureRiskDTO {
	for _, entry := range pred.Timeline {
		if entry.Period == period {
			return entry.Risks
		}
	}
	return nil
}

func findRisk(risks []agreement.FutureRiskDTO, title string) *agreement.FutureRiskDTO {
	for i := range risks {
		if risks[i].Title == title {
			return &risks[i]
		}
	}
	return nil
}

func TestPredictBoardControlCascade(t *testing.T) {
	t.Parallel()

	clauses := []agreement.ClauseDTO{
		{Type: agreement.ClauseBoardControl, RiskLevel: common.RiskHigh},
	}
	pred := predict(t, clauses)

	short := findPeriod(pred, agreement.HorizonShortTerm)
	r := findRisk(short, "Board Control Issues")
	require.NotNil(t, r)
	assert.Equal(t, 85, r.Probability)
	assert.Equal(t, agreement.ImpactHigh, r.Impact)

	mid := findPeriod(pred, agreement.HorizonMidTerm)
	r = findRisk(mid, "Forced CEO Replacement")
	require.NotNil(t, r)
	assert.Equal(t, 45, r.Probability)
	assert.Equal(t, agreement.ImpactCritical, r.Impact)
}

func TestPredictLiquidationAndEconomicPressure(t *testing.T) {
	t.Parallel()

	// Several High financial clauses push the financial category to High
	// severity, which unlocks the 3+ year wipeout scenario.
	clauses := []agreement.ClauseDTO{
		{Type: agreement.ClauseLiquidationPreference, RiskLevel: common.RiskHigh},
		{Type: agreement.ClauseAntiDilution, RiskLevel: common.RiskHigh},
	}
	pred := predict(t, clauses)

	long := findPeriod(pred, agreement.HorizonLongTerm)
	r := findRisk(long, "Loss of Economic Value")
	require.NotNil(t, r)
	assert.Equal(t, 82, r.Probability)

	veryLong := findPeriod(pred, agreement.HorizonVeryLongTerm)
	r = findRisk(veryLong, "Total Equity Wipeout")
	require.NotNil(t, r)
	assert.Equal(t, 40, r.Probability)
	assert.Equal(t, agreement.ImpactCritical, r.Impact)
}

func TestPredictMediumVestingTriggersMidTerm(t *testing.T) {
	t.Parallel()

	clauses := []agreement.ClauseDTO{
		{Type: agreement.ClauseVesting, RiskLevel: common.RiskMedium},
	}
	pred := predict(t, clauses)

	mid := findPeriod(pred, agreement.HorizonMidTerm)
	r := findRisk(mid, "Equity Loss on Departure")
	require.NotNil(t, r)
	assert.Equal(t, 50, r.Probability)
}

func TestPredictRepeatedClauseScalesProbability(t *testing.T) {
	t.Parallel()

	// Two high liquidation preference clauses: 82 + round(8*(1-1/2)) = 86.
	clauses := []agreement.ClauseDTO{
		{Type: agreement.ClauseLiquidationPreference, RiskLevel: common.RiskHigh},
		{Type: agreement.ClauseLiquidationPreference, RiskLevel: common.RiskHigh},
	}
	pred := predict(t, clauses)

	long := findPeriod(pred, agreement.HorizonLongTerm)
	r := findRisk(long, "Loss of Economic Value")
	require.NotNil(t, r)
	assert.Equal(t, 86, r.Probability)
}

func TestScaledProbability(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 82, scaled(82, 1))
	assert.Equal(t, 86, scaled(82, 2))
	assert.Equal(t, 50, scaled(45, 3))
	assert.Equal(t, 95, scaled(94, 10))
}

func TestPredictEmptyTimelineDefaults(t *testing.T) {
	t.Parallel()

	pred := predict(t, []agreement.ClauseDTO{
		{Type: agreement.ClauseGeneral, RiskLevel: common.RiskLow},
	})

	assert.Empty(t, pred.Timeline)
	assert.Equal(t, 50, pred.OverallOutlook.Probability)
	assert.Equal(t, agreement.SentimentConcerning, pred.OverallOutlook.Sentiment)
}

func TestSentimentBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, agreement.SentimentUnfavorable, sentiment(75, 0))
	assert.Equal(t, agreement.SentimentUnfavorable, sentiment(10, 4))
	assert.Equal(t, agreement.SentimentConcerning, sentiment(55, 0))
	assert.Equal(t, agreement.SentimentConcerning, sentiment(10, 2))
	assert.Equal(t, agreement.SentimentModerate, sentiment(35, 0))
	assert.Equal(t, agreement.SentimentFavorable, sentiment(20, 1))
}

func TestOverallProbabilityMean(t *testing.T) {
	t.Parallel()

	timeline := []agreement.TimelineEntryDTO{
		{Period: agreement.HorizonShortTerm, Risks: []agreement.FutureRiskDTO{
			{Probability: 80}, {Probability: 60},
		}},
		{Period: agreement.HorizonMidTerm, Risks: []agreement.FutureRiskDTO{
			{Probability: 40},
		}},
	}
	assert.Equal(t, 60, overallProbability(timeline))
	assert.Equal(t, 50, overallProbability(nil))
}

func TestOutlookSummaryBands(t *testing.T) {
	t.Parallel()

	assert.Contains(t, outlookSummary(75, "fintech", "Series A"), "significantly higher-than-average risk")
	assert.Contains(t, outlookSummary(55, "saas", "Seed"), "several concerning terms")
	assert.Contains(t, outlookSummary(30, "saas", "Seed"), "relatively balanced")
}
