package risk

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Trained model
// ---------------------------------------------------------------------------

// Model is a multinomial naive Bayes text classifier over a bag-of-words
// vocabulary, trained on labeled clause text and persisted as JSON. It
// stands in for heavier ML serving: predictions are deterministic, fast,
// and need no external runtime.
type Model struct {
	Version         int                            `json:"version"`
	Classes         []common.RiskLevel             `json:"classes"`
	Vocab           map[string]int                 `json:"vocab"`
	LogPrior        map[common.RiskLevel]float64   `json:"log_prior"`
	LogLikelihood   map[common.RiskLevel][]float64 `json:"log_likelihood"`
	UnseenLog       map[common.RiskLevel]float64   `json:"unseen_log"`
	TrainingSamples int                            `json:"training_samples"`
	Accuracy        float64                        `json:"accuracy"`
	TrainedAt       time.Time                      `json:"trained_at"`
}

const modelVersion = 1

// ModelFileName is the file the classifier looks for inside the model
// directory.
const ModelFileName = "risk_model.json"

// Predict scores the text against every class and returns the winning risk
// level plus a normalized confidence.
func (m *Model) Predict(text string) (common.RiskLevel, float64) {
	tokens := Tokenize(text)

	scores := make(map[common.RiskLevel]float64, len(m.Classes))
	for _, class := range m.Classes {
		score := m.LogPrior[class]
		likes := m.LogLikelihood[class]
		for _, tok := range tokens {
			if idx, ok := m.Vocab[tok]; ok {
				score += likes[idx]
			} else {
				score += m.UnseenLog[class]
			}
		}
		scores[class] = score
	}

	best := m.Classes[0]
	for _, class := range m.Classes[1:] {
		if scores[class] > scores[best] {
			best = class
		}
	}

	// Softmax in log space for a stable confidence value.
	maxScore := scores[best]
	var sum float64
	for _, class := range m.Classes {
		sum += math.Exp(scores[class] - maxScore)
	}
	confidence := 1.0 / sum
	return best, confidence
}

// Save writes the model as JSON, creating the directory when missing.
func (m *Model) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeModelLoadFailed, "failed to create model directory")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode model")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeModelLoadFailed, "failed to write model file")
	}
	return nil
}

// LoadModel reads a trained model from disk. A missing file is reported
// with ErrCodeModelUnavailable so callers can fall back to heuristics.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrCodeModelUnavailable, "no trained model at %s", path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeModelLoadFailed, "failed to read model file")
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelLoadFailed, "failed to decode model file")
	}
	if len(m.Classes) == 0 || len(m.Vocab) == 0 {
		return nil, errors.New(errors.ErrCodeModelLoadFailed, "model file is empty or truncated")
	}
	return &m, nil
}

// ---------------------------------------------------------------------------
// Tokenization
// ---------------------------------------------------------------------------

var reToken = regexp.MustCompile(`[a-z][a-z-]+`)

// English stopwords that carry no risk signal in agreement text.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "shall": true,
	"that": true, "this": true, "any": true, "such": true, "its": true,
	"are": true, "has": true, "have": true, "will": true, "not": true,
	"were": true, "been": true, "which": true, "upon": true, "hereby": true,
	"herein": true, "thereof": true, "may": true, "from": true, "into": true,
}

// Tokenize lowercases text and returns alphabetic tokens with stopwords
// removed.
func Tokenize(text string) []string {
	raw := reToken.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if !stopwords[tok] {
			out = append(out, tok)
		}
	}
	return out
}
