package risk

import (
	"fmt"
	"math"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// Risk category membership. Clause types outside these sets are counted in
// the distribution but not categorized.
var (
	operationalTypes = map[agreement.ClauseType]bool{
		agreement.ClauseBoardControl:      true,
		agreement.ClauseVotingRights:      true,
		agreement.ClauseInformationRights: true,
		agreement.ClauseVesting:           true,
	}
	regulatoryTypes = map[agreement.ClauseType]bool{
		agreement.ClauseIPAssignment:      true,
		agreement.ClauseRepsAndWarranties: true,
	}
	financialTypes = map[agreement.ClauseType]bool{
		agreement.ClauseLiquidationPreference: true,
		agreement.ClauseAntiDilution:          true,
		agreement.ClausePayToPlay:             true,
		agreement.ClauseProRata:               true,
		agreement.ClauseDragAlong:             true,
		agreement.ClauseConversionRights:      true,
		agreement.ClauseRedemptionRights:      true,
	}
)

// Category names used in the assessment payload.
const (
	CategoryOperational = "operational"
	CategoryRegulatory  = "regulatory"
	CategoryFinancial   = "financial"
)

// Assess rolls annotated clauses up into the document-level assessment.
//
// The score is founder-friendly and inverted: Low-risk clauses raise it,
// High-risk clauses drag it down, so a LOW score means a DANGEROUS
// agreement. A document with no clauses scores a clean 100.
func Assess(clauses []agreement.ClauseDTO) agreement.RiskAssessmentDTO {
	if len(clauses) == 0 {
		return agreement.RiskAssessmentDTO{
			OverallScore:     100,
			OverallLevel:     common.RiskLow,
			RiskDistribution: map[common.RiskLevel]int{common.RiskHigh: 0, common.RiskMedium: 0, common.RiskLow: 0},
			DangerousClauses: []agreement.DangerousClauseDTO{},
			Summary:          "No clauses detected; nothing to assess.",
		}
	}

	distribution := map[common.RiskLevel]int{common.RiskHigh: 0, common.RiskMedium: 0, common.RiskLow: 0}
	for _, c := range clauses {
		level := c.RiskLevel
		if !level.Valid() {
			level = common.RiskLow
		}
		distribution[level]++
	}

	total := len(clauses)
	score := (float64(distribution[common.RiskLow])*common.RiskLow.Weight() +
		float64(distribution[common.RiskMedium])*common.RiskMedium.Weight() +
		float64(distribution[common.RiskHigh])*common.RiskHigh.Weight()) / float64(total)
	score = math.Round(score*10) / 10

	var level common.RiskLevel
	switch {
	case score < 40:
		level = common.RiskHigh
	case score < 70:
		level = common.RiskMedium
	default:
		level = common.RiskLow
	}

	dangerous := make([]agreement.DangerousClauseDTO, 0)
	for _, c := range clauses {
		if c.RiskLevel == common.RiskHigh {
			concern := c.Explanation
			if concern == "" {
				concern = "Requires careful review"
			}
			dangerous = append(dangerous, agreement.DangerousClauseDTO{
				Type:      c.Type,
				RiskLevel: c.RiskLevel,
				Concern:   concern,
			})
		}
	}

	clauseTypes := make(map[agreement.ClauseType]agreement.ClauseTypeStatsDTO)
	for _, c := range clauses {
		stats, ok := clauseTypes[c.Type]
		if !ok {
			stats = agreement.ClauseTypeStatsDTO{
				RiskLevels: map[common.RiskLevel]int{common.RiskHigh: 0, common.RiskMedium: 0, common.RiskLow: 0},
			}
		}
		stats.Count++
		if c.RiskLevel.Valid() {
			stats.RiskLevels[c.RiskLevel]++
		}
		clauseTypes[c.Type] = stats
	}

	return agreement.RiskAssessmentDTO{
		OverallScore:     score,
		OverallLevel:     level,
		RiskDistribution: distribution,
		ClauseCount:      total,
		DangerousClauses: dangerous,
		ClauseTypes:      clauseTypes,
		RedFlags:         len(dangerous),
		RiskCategories:   categorize(clauses),
		Summary:          riskSummary(score, distribution),
	}
}

func categorize(clauses []agreement.ClauseDTO) map[string]agreement.RiskCategoryDTO {
	categories := map[string]agreement.RiskCategoryDTO{
		CategoryOperational: {Severity: common.RiskLow},
		CategoryRegulatory:  {Severity: common.RiskLow},
		CategoryFinancial:   {Severity: common.RiskLow},
	}

	categoryOf := func(t agreement.ClauseType) string {
		switch {
		case operationalTypes[t]:
			return CategoryOperational
		case regulatoryTypes[t]:
			return CategoryRegulatory
		case financialTypes[t]:
			return CategoryFinancial
		default:
			return ""
		}
	}

	for _, c := range clauses {
		name := categoryOf(c.Type)
		if name == "" {
			continue
		}
		cat := categories[name]
		cat.Count++
		switch c.RiskLevel {
		case common.RiskHigh:
			cat.Severity = common.RiskHigh
			cat.Clauses = append(cat.Clauses, c.Type)
		case common.RiskMedium:
			if cat.Severity != common.RiskHigh {
				cat.Severity = common.RiskMedium
			}
		}
		categories[name] = cat
	}
	return categories
}

// riskSummary keys its message to the inverted score: a low score means a
// dangerous agreement.
func riskSummary(score float64, distribution map[common.RiskLevel]int) string {
	high := distribution[common.RiskHigh]
	medium := distribution[common.RiskMedium]

	switch {
	case score < 30:
		return fmt.Sprintf("High Risk Agreement: %d critical clauses require immediate attention. Strongly recommend legal review before signing.", high)
	case score < 50:
		return fmt.Sprintf("Moderate-High Risk: %d high-risk and %d medium-risk clauses detected. Negotiate key terms before proceeding.", high, medium)
	case score < 70:
		return fmt.Sprintf("Moderate Risk: Agreement has %d areas needing negotiation. Generally acceptable with modifications.", medium)
	default:
		return "Low Risk: Agreement appears founder-friendly with standard market terms."
	}
}
