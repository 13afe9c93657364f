package clause

import (
	"regexp"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// typeSignature holds the keyword and phrase evidence that identifies one
// clause type. Keyword hits score lower than phrase pattern hits.
type typeSignature struct {
	keywords []string
	patterns []*regexp.Regexp
}

const (
	keywordScore = 2
	patternScore = 3
)

var typeSignatures = map[agreement.ClauseType]typeSignature{
	agreement.ClauseLiquidationPreference: {
		keywords: []string{"liquidation", "preference", "distribution", "proceeds", "participating", "non-participating"},
		patterns: compile(
			`liquidation\s+preference`,
			`distribution\s+of\s+proceeds`,
			`participating\s+preferred`,
			`\d+x\s+preference`,
		),
	},
	agreement.ClauseAntiDilution: {
		keywords: []string{"anti-dilution", "antidilution", "ratchet", "weighted average", "down round", "conversion price"},
		patterns: compile(
			`anti[- ]?dilution`,
			`full\s+ratchet`,
			`weighted\s+average`,
			`down\s+round`,
		),
	},
	agreement.ClauseBoardControl: {
		keywords: []string{"board", "director", "appoint", "designate", "composition", "seat"},
		patterns: compile(
			`board\s+of\s+directors`,
			`board\s+composition`,
			`(?:appoint|designate|elect)\s+(?:\w+\s+)*director`,
			`board\s+seat`,
		),
	},
	agreement.ClauseVesting: {
		keywords: []string{"vesting", "vest", "cliff", "acceleration", "unvested", "repurchase"},
		patterns: compile(
			`vesting\s+(?:schedule|period)`,
			`\d+[- ](?:year|month)\s+(?:vesting|cliff)`,
			`(?:single|double)[- ]trigger`,
			`unvested\s+shares`,
		),
	},
	agreement.ClauseIPAssignment: {
		keywords: []string{"intellectual property", "invention", "assignment", "patent", "trademark", "copyright"},
		patterns: compile(
			`(?:intellectual\s+property|ip)\s+assignment`,
			`assignment\s+of\s+inventions`,
			`prior\s+inventions?`,
			`work\s+(?:made\s+)?for\s+hire`,
		),
	},
	agreement.ClauseDragAlong: {
		keywords: []string{"drag-along", "drag along", "compel", "forced sale", "sale of the company"},
		patterns: compile(
			`drag[- ]along`,
			`compel(?:led)?\s+to\s+sell`,
			`sale\s+of\s+the\s+company`,
		),
	},
	agreement.ClauseInformationRights: {
		keywords: []string{"information rights", "financial statements", "inspection", "reports", "budget"},
		patterns: compile(
			`information\s+rights`,
			`financial\s+statements`,
			`inspection\s+rights`,
			`(?:monthly|quarterly|annual)\s+(?:reports?|budget)`,
		),
	},
	agreement.ClauseNoShop: {
		keywords: []string{"no-shop", "no shop", "exclusivity", "solicit", "standstill"},
		patterns: compile(
			`no[- ]shop`,
			`exclusivity\s+period`,
			`shall\s+not\s+solicit`,
		),
	},
	agreement.ClauseProRata: {
		keywords: []string{"pro rata", "pro-rata", "preemptive", "participation right", "subsequent financing"},
		patterns: compile(
			`pro[- ]rata`,
			`preemptive\s+rights?`,
			`right\s+to\s+participate`,
		),
	},
	agreement.ClausePayToPlay: {
		keywords: []string{"pay-to-play", "pay to play", "participate in subsequent", "forfeit"},
		patterns: compile(
			`pay[- ]to[- ]play`,
			`forfeit\s+(?:\w+\s+)*rights`,
		),
	},
	agreement.ClauseConversionRights: {
		keywords: []string{"conversion", "convert", "common stock", "automatic conversion"},
		patterns: compile(
			`conversion\s+(?:rights?|price|ratio)`,
			`convert(?:ible)?\s+into\s+common`,
			`automatic\s+conversion`,
		),
	},
	agreement.ClauseRedemptionRights: {
		keywords: []string{"redemption", "redeem", "repurchase", "buy back"},
		patterns: compile(
			`redemption\s+rights?`,
			`redeem\s+(?:\w+\s+)*shares`,
		),
	},
	agreement.ClauseRepsAndWarranties: {
		keywords: []string{"represents", "warrants", "representations", "warranties", "disclosure"},
		patterns: compile(
			`representations?\s+and\s+warranties`,
			`represents?\s+and\s+warrants?`,
			`disclosure\s+schedule`,
		),
	},
	agreement.ClauseVotingRights: {
		keywords: []string{"voting", "vote", "consent", "approval", "protective provisions"},
		patterns: compile(
			`voting\s+rights?`,
			`protective\s+provisions`,
			`(?:prior\s+)?(?:written\s+)?consent\s+of`,
			`approval\s+of\s+(?:the\s+)?(?:investors?|holders?)`,
		),
	},
	agreement.ClauseExitRights: {
		keywords: []string{"exit", "ipo", "public offering", "acquisition", "registration rights"},
		patterns: compile(
			`registration\s+rights?`,
			`initial\s+public\s+offering`,
			`exit\s+event`,
			`deemed\s+liquidation`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// Key-term extraction patterns shared across clause types plus type-specific
// additions.
var (
	reNumericTerm = regexp.MustCompile(`\d+(?:\.\d+)?[xX%]?`)

	typeTermPatterns = map[agreement.ClauseType][]*regexp.Regexp{
		agreement.ClauseLiquidationPreference: compile(`participating|non-participating`),
		agreement.ClauseAntiDilution:          compile(`full\s+ratchet|weighted\s+average`),
		agreement.ClauseVesting:               compile(`\d+[- ](?:year|month)`),
	}
)

const maxNumericTerms = 5
