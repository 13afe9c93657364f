package benchmark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// ---------------------------------------------------------------------------
// Market data tables
// ---------------------------------------------------------------------------

// stageData holds the percentile spread observed in the market for one
// clause type at one funding stage. Frequency is the share of deals that
// include the clause at all.
type stageData struct {
	P25       float64
	Median    float64
	P75       float64
	Frequency int
}

// allStages is the stage key used when a clause's market terms do not vary
// by funding round.
const allStages = "All Stages"

// fallbackIndustry is used when no table exists for the requested industry.
const fallbackIndustry = "SaaS"

// marketData indexes benchmark rows by clause type, industry, and funding
// stage. Figures reflect aggregated term-sheet surveys.
var marketData = map[agreement.ClauseType]map[string]map[string]stageData{
	agreement.ClauseLiquidationPreference: {
		"SaaS": {
			"Pre-seed": {P25: 1.0, Median: 1.0, P75: 1.0, Frequency: 95},
			"Seed":     {P25: 1.0, Median: 1.0, P75: 1.5, Frequency: 98},
			"Series A": {P25: 1.0, Median: 1.0, P75: 1.5, Frequency: 100},
			"Series B": {P25: 1.0, Median: 1.5, P75: 2.0, Frequency: 100},
		},
		"Fintech": {
			"Seed":     {P25: 1.0, Median: 1.5, P75: 2.0, Frequency: 98},
			"Series A": {P25: 1.0, Median: 1.5, P75: 2.0, Frequency: 100},
		},
		"Biotech": {
			"Seed":     {P25: 1.5, Median: 2.0, P75: 2.5, Frequency: 100},
			"Series A": {P25: 1.5, Median: 2.0, P75: 3.0, Frequency: 100},
		},
	},
	agreement.ClauseBoardControl: {
		"SaaS": {
			"Seed":     {P25: 1, Median: 1, P75: 2, Frequency: 85},
			"Series A": {P25: 1, Median: 2, P75: 2, Frequency: 95},
			"Series B": {P25: 2, Median: 2, P75: 3, Frequency: 98},
		},
	},
	agreement.ClauseVesting: {
		"SaaS": {
			allStages: {P25: 36, Median: 48, P75: 48, Frequency: 92},
		},
	},
	agreement.ClauseProRata: {
		"SaaS": {
			"Seed":     {P25: 1, Median: 1, P75: 1, Frequency: 75},
			"Series A": {P25: 1, Median: 1, P75: 1, Frequency: 90},
		},
	},
}

// lookup resolves the market row for a clause type, falling back to the
// SaaS table when the industry is unknown and to the all-stages row when
// the stage is unknown.
func lookup(clauseType agreement.ClauseType, industry, stage string) (stageData, bool) {
	byIndustry, ok := marketData[clauseType]
	if !ok {
		return stageData{}, false
	}
	byStage, ok := byIndustry[industry]
	if !ok {
		byStage, ok = byIndustry[fallbackIndustry]
		if !ok {
			return stageData{}, false
		}
	}
	if row, ok := byStage[stage]; ok {
		return row, true
	}
	row, ok := byStage[allStages]
	return row, ok
}

// ---------------------------------------------------------------------------
// Percentile math
// ---------------------------------------------------------------------------

// percentileOf places a clause value within the market spread. Values at or
// below the 25th percentile map to 25; values between known percentiles are
// interpolated linearly; values above the 75th percentile are capped at 100.
func percentileOf(value float64, row stageData) float64 {
	switch {
	case value <= row.P25:
		return 25
	case value <= row.Median:
		if row.Median == row.P25 {
			return 25
		}
		return 25 + (value-row.P25)/(row.Median-row.P25)*25
	case value <= row.P75:
		if row.P75 == row.Median {
			return 50
		}
		return 50 + (value-row.Median)/(row.P75-row.Median)*25
	default:
		extra := (value - row.P75) / row.P75 * 25
		if extra > 25 {
			extra = 25
		}
		return 75 + extra
	}
}

// comparisonFor renders the percentile as a verdict. Lower percentiles are
// better for founders.
func comparisonFor(percentile float64) string {
	switch {
	case percentile <= 25:
		return "Excellent - Better than 75% of deals"
	case percentile <= 50:
		return "Good - Better than median"
	case percentile <= 75:
		return "Below Average - Worse than median"
	default:
		return "Poor - Worse than 75% of deals"
	}
}

func recommendationsFor(clauseType agreement.ClauseType, row stageData, percentile float64) []string {
	switch {
	case percentile > 75:
		return []string{
			fmt.Sprintf("Your %s is in the worst 25%% of deals. Strong negotiation recommended.", clauseType),
			fmt.Sprintf("Market standard is %s. Push for closer to this.", formatValue(row.Median)),
		}
	case percentile > 50:
		return []string{
			fmt.Sprintf("You can likely negotiate better terms. Median is %s.", formatValue(row.Median)),
		}
	default:
		return []string{"Your terms are competitive. This is a founder-friendly clause."}
	}
}

func ratingFor(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 65:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

var (
	reMultiple    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[xX]\b`)
	reBoardSeats  = regexp.MustCompile(`(\d+)\s*(?:board\s+)?seats?`)
	reVestMonths  = regexp.MustCompile(`(\d+)\s*months?`)
	reVestYears   = regexp.MustCompile(`(\d+)[- ]years?`)
	wordMultiples = map[string]float64{"two times": 2.0, "three times": 3.0}
)

// extractValue pulls the numeric term out of a clause so it can be placed
// on the market curve. Returns false when the clause type has no measurable
// term or the text carries none.
func extractValue(c agreement.ClauseDTO) (float64, bool) {
	text := strings.ToLower(c.FullText)
	if text == "" {
		text = strings.ToLower(c.Text)
	}

	switch c.Type {
	case agreement.ClauseLiquidationPreference:
		if m := reMultiple.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, true
			}
		}
		for phrase, v := range wordMultiples {
			if strings.Contains(text, phrase) {
				return v, true
			}
		}
		// A preference clause with no stated multiple is a plain 1x.
		return 1.0, true
	case agreement.ClauseBoardControl:
		if m := reBoardSeats.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, true
			}
		}
	case agreement.ClauseVesting:
		if m := reVestMonths.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, true
			}
		}
		if m := reVestYears.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v * 12, true
			}
		}
	case agreement.ClauseProRata:
		// Presence is the measurable fact for pro-rata rights.
		return 1, true
	}
	return 0, false
}
