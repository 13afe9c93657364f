// Package risk classifies clause risk and rolls individual annotations up
// into a document-level assessment. Classification layers three detectors:
// hard high-risk phrase rules, an optional trained model, and a heuristic
// fallback keyed on clause type.
package risk

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// Confidence assigned by the non-model detectors.
const (
	ruleConfidence      = 0.9
	heuristicConfidence = 0.7
)

// Classifier annotates clauses with risk levels.
type Classifier struct {
	model *Model
	log   logging.Logger
}

// NewClassifier constructs a Classifier, loading a trained model from
// modelDir when one exists. A missing model is not an error; the
// classifier falls back to rules and heuristics.
func NewClassifier(modelDir string, log logging.Logger) *Classifier {
	if log == nil {
		log = logging.Default()
	}
	log = log.Named("risk")

	var model *Model
	if modelDir != "" {
		m, err := LoadModel(filepath.Join(modelDir, ModelFileName))
		if err != nil {
			log.Warn("no trained risk model, using rule and heuristic detection",
				logging.Err(err))
		} else {
			model = m
			log.Info("risk model loaded",
				logging.Int("vocabulary", len(m.Vocab)),
				logging.Float64("accuracy", m.Accuracy))
		}
	}
	return &Classifier{model: model, log: log}
}

// NewClassifierWithModel constructs a Classifier around an already loaded
// model. Pass nil to force rule and heuristic detection only.
func NewClassifierWithModel(model *Model, log logging.Logger) *Classifier {
	if log == nil {
		log = logging.Default()
	}
	return &Classifier{model: model, log: log.Named("risk")}
}

// Classify determines the risk level of one clause.
func (c *Classifier) Classify(text string, clauseType agreement.ClauseType, startupType string) (common.RiskLevel, float64, string, agreement.DetectionMethod) {
	if clauseType == "" {
		clauseType = agreement.ClauseGeneral
	}

	var (
		level  common.RiskLevel
		conf   float64
		method agreement.DetectionMethod
	)

	switch {
	case matchHighRiskRule(text, clauseType):
		level, conf, method = common.RiskHigh, ruleConfidence, agreement.DetectionRule
	case c.model != nil:
		level, conf = c.model.Predict(text)
		method = agreement.DetectionML
	default:
		level, conf, method = heuristicLevel(text, clauseType), heuristicConfidence, agreement.DetectionHeuristic
	}

	level = adjustForContext(level, clauseType, startupType)
	return level, conf, explanationFor(clauseType, level), method
}

// Annotate classifies every clause in place and returns the same slice.
func (c *Classifier) Annotate(ctx context.Context, clauses []agreement.ClauseDTO, startupType string) ([]agreement.ClauseDTO, error) {
	for i := range clauses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := clauses[i].FullText
		if text == "" {
			text = clauses[i].Text
		}
		level, conf, explanation, method := c.Classify(text, clauses[i].Type, startupType)
		clauses[i].RiskLevel = level
		clauses[i].Confidence = conf
		clauses[i].Explanation = explanation
		clauses[i].DetectionMethod = method
	}

	c.log.Debug("clauses annotated",
		logging.Int("clauses", len(clauses)),
		logging.Bool("model_loaded", c.model != nil))
	return clauses, nil
}

// heuristicLevel is the fallback when neither a rule nor a model decides.
// High-risk clause types escalate on extreme wording; information-style
// clause types default Low; everything else is Medium.
func heuristicLevel(text string, clauseType agreement.ClauseType) common.RiskLevel {
	if heuristicHighRiskTypes[clauseType] {
		lower := strings.ToLower(text)
		for _, term := range extremeTerms {
			if strings.Contains(lower, term) {
				return common.RiskHigh
			}
		}
		return common.RiskMedium
	}
	if heuristicLowRiskTypes[clauseType] {
		return common.RiskLow
	}
	return common.RiskMedium
}

// adjustForContext applies industry-specific escalations.
func adjustForContext(level common.RiskLevel, clauseType agreement.ClauseType, startupType string) common.RiskLevel {
	switch strings.ToLower(startupType) {
	case "healthtech":
		if clauseType == agreement.ClauseIPAssignment && level == common.RiskLow {
			return common.RiskMedium
		}
	case "fintech":
		if clauseType == agreement.ClauseVotingRights && level == common.RiskMedium {
			return common.RiskHigh
		}
	}
	return level
}

// HasModel reports whether a trained model backs this classifier.
func (c *Classifier) HasModel() bool { return c.model != nil }
