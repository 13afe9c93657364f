package risk

import (
	"regexp"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// highRiskPatterns are phrase shapes that immediately mark a clause High
// regardless of any model output. Matching is case-insensitive.
var highRiskPatterns = map[agreement.ClauseType][]*regexp.Regexp{
	agreement.ClauseLiquidationPreference: compileRules(
		`\d+[xX]\s+participating`,
		`[3-9]x\s+preference`,
		`participating\s+preferred`,
	),
	agreement.ClauseAntiDilution: compileRules(
		`full\s+ratchet`,
		`no\s+(?:exception|carve[- ]out)`,
	),
	agreement.ClauseBoardControl: compileRules(
		`investor(?:s)?\s+(?:appoint|designate).*majority`,
		`investor.*control.*board`,
		`tie[- ]breaking.*investor`,
	),
	agreement.ClauseVesting: compileRules(
		`no\s+acceleration`,
		`[5-9][- ]year.*vesting`,
		`repurchase.*unvested`,
	),
	agreement.ClauseIPAssignment: compileRules(
		`all.*IP.*to.*company`,
		`prior.*invention`,
		`side.*project`,
	),
	agreement.ClauseDragAlong: compileRules(
		`forced\s+to\s+sell`,
		`no\s+minimum\s+price`,
		`any\s+price`,
	),
}

func compileRules(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// matchHighRiskRule reports whether any high-risk phrase for the clause
// type matches the text.
func matchHighRiskRule(text string, clauseType agreement.ClauseType) bool {
	for _, re := range highRiskPatterns[clauseType] {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Heuristic fallback classification groups.
var (
	heuristicHighRiskTypes = map[agreement.ClauseType]bool{
		agreement.ClauseLiquidationPreference: true,
		agreement.ClauseAntiDilution:          true,
		agreement.ClauseBoardControl:          true,
		agreement.ClauseDragAlong:             true,
		agreement.ClauseVotingRights:          true,
	}

	heuristicLowRiskTypes = map[agreement.ClauseType]bool{
		agreement.ClauseInformationRights: true,
		agreement.ClauseProRata:           true,
		agreement.ClausePayToPlay:         true,
	}

	extremeTerms = []string{"force", "require", "must", "control", "majority", "all"}
)

// Explanation templates per clause type and level, with a generic fallback
// for types that have no dedicated wording.
var explanationTemplates = map[agreement.ClauseType]map[common.RiskLevel]string{
	agreement.ClauseLiquidationPreference: {
		common.RiskHigh:   "Extremely unfavorable terms. Investor takes disproportionate share of exit proceeds, potentially leaving founders with nothing.",
		common.RiskMedium: "Standard protection for investors but could impact founder returns in modest exits.",
		common.RiskLow:    "Fair and balanced liquidation terms following market standards.",
	},
	agreement.ClauseAntiDilution: {
		common.RiskHigh:   "Full ratchet or harsh terms that can severely dilute founders in down-rounds. Negotiate to weighted average.",
		common.RiskMedium: "Standard anti-dilution protection. May cause some dilution in down-rounds.",
		common.RiskLow:    "Founder-friendly anti-dilution terms or reasonable protections.",
	},
	agreement.ClauseBoardControl: {
		common.RiskHigh:   "Founders lose control of the company. Investors can make unilateral decisions.",
		common.RiskMedium: "Balanced board composition but investor influence is significant.",
		common.RiskLow:    "Founder-controlled board with investor observer rights or minority representation.",
	},
	agreement.ClauseVesting: {
		common.RiskHigh:   "Harsh vesting terms with long cliff periods or limited acceleration. Risk of losing equity if removed.",
		common.RiskMedium: "Standard 4-year vesting with 1-year cliff. Common but limits founder flexibility.",
		common.RiskLow:    "Accelerated vesting or founder-friendly terms.",
	},
	agreement.ClauseIPAssignment: {
		common.RiskHigh:   "Overly broad IP assignment including personal projects and prior work. Limits future opportunities.",
		common.RiskMedium: "Standard IP assignment for work related to company business.",
		common.RiskLow:    "Limited IP assignment with clear carve-outs for prior and unrelated work.",
	},
	agreement.ClauseDragAlong: {
		common.RiskHigh:   "Can be forced to sell at any price. No minimum threshold protection.",
		common.RiskMedium: "Standard drag-along with some price protections.",
		common.RiskLow:    "Well-protected with minimum price thresholds and founder approval rights.",
	},
}

func explanationFor(clauseType agreement.ClauseType, level common.RiskLevel) string {
	if byLevel, ok := explanationTemplates[clauseType]; ok {
		if text, ok := byLevel[level]; ok {
			return text
		}
	}
	switch level {
	case common.RiskHigh:
		return "This " + string(clauseType) + " clause contains unfavorable terms that significantly impact founder rights and equity."
	case common.RiskLow:
		return "This " + string(clauseType) + " clause appears reasonable and balanced."
	default:
		return "This " + string(clauseType) + " clause is fairly standard but requires careful consideration."
	}
}
