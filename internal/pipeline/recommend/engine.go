// Package recommend turns annotated clauses into prioritized negotiation
// recommendations from a playbook of per-type templates.
package recommend

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// maxMediumRecommendations caps how many medium-risk clause types get their
// own recommendation so the output stays focused on what matters.
const maxMediumRecommendations = 3

// instanceSnippetChars bounds the per-occurrence excerpt carried in Instances.
const instanceSnippetChars = 120

// Engine produces negotiation recommendations.
type Engine struct {
	log logging.Logger
}

// NewEngine constructs an Engine.
func NewEngine(log logging.Logger) *Engine {
	if log == nil {
		log = logging.Default()
	}
	return &Engine{log: log.Named("recommend")}
}

// Generate returns recommendations ordered by priority: every High-risk
// clause type gets a Critical entry, then up to three Medium-risk clause
// types get High entries. Repeat occurrences of a type fold into its
// existing entry as an extra Instances snippet instead of a duplicate.
func (e *Engine) Generate(ctx context.Context, clauses []agreement.ClauseDTO) ([]agreement.RecommendationDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recommendations := make([]agreement.RecommendationDTO, 0)
	index := make(map[agreement.ClauseType]int)
	emit := func(c agreement.ClauseDTO, priority agreement.Priority) bool {
		key := typeKey(c)
		if i, ok := index[key]; ok {
			recommendations[i].Instances = append(recommendations[i].Instances, snippet(c))
			return false
		}
		rec := build(c, priority)
		rec.Instances = []string{snippet(c)}
		index[key] = len(recommendations)
		recommendations = append(recommendations, rec)
		return true
	}

	for _, c := range clauses {
		if c.RiskLevel == common.RiskHigh {
			emit(c, agreement.PriorityCritical)
		}
	}
	mediumTypes := 0
	for _, c := range clauses {
		if c.RiskLevel != common.RiskMedium {
			continue
		}
		if _, seen := index[typeKey(c)]; !seen && mediumTypes >= maxMediumRecommendations {
			continue
		}
		if emit(c, agreement.PriorityHigh) {
			mediumTypes++
		}
	}

	e.log.Debug("recommendations generated",
		logging.Int("clauses", len(clauses)),
		logging.Int("recommendations", len(recommendations)))
	return recommendations, nil
}

func typeKey(c agreement.ClauseDTO) agreement.ClauseType {
	if c.Type == "" {
		return agreement.ClauseGeneral
	}
	return c.Type
}

// snippet is the short excerpt of a clause occurrence carried in Instances.
func snippet(c agreement.ClauseDTO) string {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		text = strings.TrimSpace(c.FullText)
	}
	if len(text) <= instanceSnippetChars {
		return text
	}
	cut := instanceSnippetChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func build(c agreement.ClauseDTO, priority agreement.Priority) agreement.RecommendationDTO {
	clauseType := c.Type
	if clauseType == "" {
		clauseType = agreement.ClauseGeneral
	}
	level := c.RiskLevel
	if !level.Valid() {
		level = common.RiskMedium
	}

	tpl, ok := templates[clauseType][level]
	if !ok {
		tpl = genericTemplate(clauseType, level)
	}

	return agreement.RecommendationDTO{
		Priority:        priority,
		Clause:          clauseType,
		Issue:           tpl.issue,
		Recommendation:  tpl.recommendation,
		NegotiationTips: tpl.tips,
		ExpectedImpact:  tpl.impact,
	}
}
