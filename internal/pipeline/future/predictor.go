// Package future projects agreement risk forward across four horizons.
// Predictions come from historical outcome rates for comparable agreements,
// keyed on which high and medium risk clause types are present.
package future

import (
	"context"
	"fmt"
	"math"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/internal/pipeline/risk"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// Predictor produces timeline risk projections.
type Predictor struct {
	log logging.Logger
}

// NewPredictor constructs a Predictor.
func NewPredictor(log logging.Logger) *Predictor {
	if log == nil {
		log = logging.Default()
	}
	return &Predictor{log: log.Named("future")}
}

// Predict builds the four-horizon timeline plus the overall outlook.
// Horizons with no applicable risks are omitted from the timeline.
func (p *Predictor) Predict(ctx context.Context, clauses []agreement.ClauseDTO, assessment agreement.RiskAssessmentDTO, startupType, fundingStage string) (agreement.PredictionDTO, error) {
	if err := ctx.Err(); err != nil {
		return agreement.PredictionDTO{}, err
	}

	highTypes := typeCount(clauses, common.RiskHigh)
	mediumTypes := typeCount(clauses, common.RiskMedium)
	highCount := countLevel(clauses, common.RiskHigh)

	controlRisk := categoryRisk(assessment, risk.CategoryOperational)
	economicRisk := categoryRisk(assessment, risk.CategoryFinancial)

	var timeline []agreement.TimelineEntryDTO
	appendPeriod := func(period agreement.Horizon, risks []agreement.FutureRiskDTO) {
		if len(risks) > 0 {
			timeline = append(timeline, agreement.TimelineEntryDTO{Period: period, Risks: risks})
		}
	}

	appendPeriod(agreement.HorizonShortTerm, shortTermRisks(highTypes))
	appendPeriod(agreement.HorizonMidTerm, midTermRisks(highTypes, mediumTypes))
	appendPeriod(agreement.HorizonLongTerm, longTermRisks(highTypes, controlRisk))
	appendPeriod(agreement.HorizonVeryLongTerm, veryLongTermRisks(highTypes, economicRisk))

	probability := overallProbability(timeline)
	outlook := agreement.OutlookDTO{
		Probability: probability,
		Sentiment:   sentiment(probability, highCount),
		Summary:     outlookSummary(probability, startupType, fundingStage),
	}

	p.log.Debug("future risks predicted",
		logging.Int("periods", len(timeline)),
		logging.Int("probability", probability),
		logging.String("sentiment", string(outlook.Sentiment)))

	return agreement.PredictionDTO{Timeline: timeline, OverallOutlook: outlook}, nil
}

func typeCount(clauses []agreement.ClauseDTO, level common.RiskLevel) map[agreement.ClauseType]int {
	counts := make(map[agreement.ClauseType]int)
	for _, c := range clauses {
		if c.RiskLevel == level {
			counts[c.Type]++
		}
	}
	return counts
}

// scaled bumps a historical base probability when the triggering clause
// type occurs more than once in the document: base + 8*(1 - 1/n),
// rounded and capped at 95. A single occurrence keeps the base rate.
func scaled(base, n int) int {
	if n <= 1 {
		return base
	}
	p := base + int(math.Round(8*(1-1/float64(n))))
	if p > 95 {
		return 95
	}
	return p
}

func countLevel(clauses []agreement.ClauseDTO, level common.RiskLevel) int {
	n := 0
	for _, c := range clauses {
		if c.RiskLevel == level {
			n++
		}
	}
	return n
}

// categoryRisk turns a category severity into a 0-100 pressure figure used
// by the long-horizon triggers.
func categoryRisk(assessment agreement.RiskAssessmentDTO, category string) int {
	cat, ok := assessment.RiskCategories[category]
	if !ok {
		return 0
	}
	switch cat.Severity {
	case common.RiskHigh:
		return 85
	case common.RiskMedium:
		return 45
	default:
		return 10
	}
}

func shortTermRisks(high map[agreement.ClauseType]int) []agreement.FutureRiskDTO {
	var risks []agreement.FutureRiskDTO
	if n := high[agreement.ClauseBoardControl]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Board Control Issues",
			Probability: scaled(85, n),
			Impact:      agreement.ImpactHigh,
			Description: "Investor majority on board may begin blocking key decisions on hiring, partnerships, or product direction.",
		})
	}
	if n := high[agreement.ClauseInformationRights] + high[agreement.ClauseVotingRights]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Cash Flow Restrictions",
			Probability: scaled(65, n),
			Impact:      agreement.ImpactMedium,
			Description: "Information rights may evolve into investor micromanagement of expenses and burn rate.",
		})
	}
	if n := high[agreement.ClauseNoShop]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Fundraising Limitations",
			Probability: scaled(55, n),
			Impact:      agreement.ImpactMedium,
			Description: "Exclusivity periods may extend, limiting ability to explore other funding options.",
		})
	}
	return risks
}

func midTermRisks(high, medium map[agreement.ClauseType]int) []agreement.FutureRiskDTO {
	var risks []agreement.FutureRiskDTO
	if n := high[agreement.ClauseAntiDilution]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Founder Dilution at Next Round",
			Probability: scaled(78, n),
			Impact:      agreement.ImpactCritical,
			Description: "Anti-dilution clause will trigger if forced to raise down-round. Founders could lose 25-40% additional equity.",
		})
	}
	if n := high[agreement.ClauseBoardControl]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Forced CEO Replacement",
			Probability: scaled(45, n),
			Impact:      agreement.ImpactCritical,
			Description: "Based on similar agreements, investor board control often leads to founder removal if KPIs missed.",
		})
	}
	if n := high[agreement.ClauseVotingRights] + medium[agreement.ClauseDragAlong]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Fundraising Blocked",
			Probability: scaled(60, n),
			Impact:      agreement.ImpactHigh,
			Description: "Drag-along and board control give investors power to block future fundraising if they disagree with terms.",
		})
	}
	if n := high[agreement.ClauseVesting] + medium[agreement.ClauseVesting]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Equity Loss on Departure",
			Probability: scaled(50, n),
			Impact:      agreement.ImpactHigh,
			Description: "If removed or decide to leave, unvested equity will be forfeited, potentially losing millions in value.",
		})
	}
	return risks
}

func longTermRisks(high map[agreement.ClauseType]int, controlRisk int) []agreement.FutureRiskDTO {
	var risks []agreement.FutureRiskDTO
	if n := high[agreement.ClauseDragAlong]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Forced Acquisition",
			Probability: scaled(70, n),
			Impact:      agreement.ImpactCritical,
			Description: "Investors may force sale to return capital to their fund, even if company could be worth 10x more in 3 years.",
		})
	}
	if n := high[agreement.ClauseLiquidationPreference]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Loss of Economic Value",
			Probability: scaled(82, n),
			Impact:      agreement.ImpactCritical,
			Description: "3x participating liquidation preference means in most exits, founders receive <10% of what their equity percentage suggests.",
		})
	}
	if controlRisk > 70 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Complete Loss of Control",
			Probability: 55,
			Impact:      agreement.ImpactHigh,
			Description: "Cumulative effect of board control, vesting clawbacks, and investor rights creates situation where founders have no real authority.",
		})
	}
	if n := high[agreement.ClauseIPAssignment]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "IP Ownership Disputes",
			Probability: scaled(35, n),
			Impact:      agreement.ImpactMedium,
			Description: "Broad IP assignment could create disputes if founders want to start new ventures in similar space.",
		})
	}
	return risks
}

func veryLongTermRisks(high map[agreement.ClauseType]int, economicRisk int) []agreement.FutureRiskDTO {
	var risks []agreement.FutureRiskDTO
	if n := high[agreement.ClauseLiquidationPreference]; n > 0 && economicRisk > 70 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Total Equity Wipeout",
			Probability: scaled(40, n),
			Impact:      agreement.ImpactCritical,
			Description: "If company exits for <5x current valuation, liquidation preferences and accumulated dividends could consume entire proceeds.",
		})
	}
	if n := high[agreement.ClauseIPAssignment]; n > 0 {
		risks = append(risks, agreement.FutureRiskDTO{
			Title:       "Future Venture Limitations",
			Probability: scaled(30, n),
			Impact:      agreement.ImpactMedium,
			Description: "If company fails, inability to reuse technology or ideas could limit opportunities for next startup.",
		})
	}
	return risks
}

// overallProbability is the mean of every predicted risk probability,
// defaulting to 50 when the timeline is empty.
func overallProbability(timeline []agreement.TimelineEntryDTO) int {
	var sum, n int
	for _, period := range timeline {
		for _, r := range period.Risks {
			sum += r.Probability
			n++
		}
	}
	if n == 0 {
		return 50
	}
	return int(math.Floor(float64(sum) / float64(n)))
}

func sentiment(probability, highCount int) agreement.Sentiment {
	switch {
	case probability >= 70 || highCount >= 4:
		return agreement.SentimentUnfavorable
	case probability >= 50 || highCount >= 2:
		return agreement.SentimentConcerning
	case probability >= 30:
		return agreement.SentimentModerate
	default:
		return agreement.SentimentFavorable
	}
}

func outlookSummary(probability int, startupType, fundingStage string) string {
	switch {
	case probability >= 70:
		return fmt.Sprintf("Based on analysis of similar %s agreements at %s stage, this contract has significantly higher-than-average risk for founders. %d%% chance of major adverse events within 3 years.", startupType, fundingStage, probability)
	case probability >= 50:
		return fmt.Sprintf("This agreement contains several concerning terms. Historical data from %s startups shows %d%% probability of founder-unfavorable outcomes.", startupType, probability)
	default:
		return fmt.Sprintf("While some risks exist, this agreement is relatively balanced compared to typical %s contracts at %s stage. %d%% probability of issues.", startupType, fundingStage, probability)
	}
}
