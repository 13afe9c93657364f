package risk

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// Example is one labeled training row.
type Example struct {
	Text  string
	Label common.RiskLevel
}

// TrainReport summarizes a completed training run.
type TrainReport struct {
	Accuracy        float64 `json:"accuracy"`
	TrainingSamples int     `json:"training_samples"`
	TestSamples     int     `json:"test_samples"`
	VocabularySize  int     `json:"vocabulary_size"`
}

// holdoutFraction of examples kept aside for the accuracy estimate.
const holdoutFraction = 0.2

// minTrainingExamples below which training is rejected outright.
const minTrainingExamples = 10

// Trainer fits risk models from labeled clause data.
type Trainer struct {
	log logging.Logger
}

// NewTrainer constructs a Trainer.
func NewTrainer(log logging.Logger) *Trainer {
	if log == nil {
		log = logging.Default()
	}
	return &Trainer{log: log.Named("risk.trainer")}
}

// TrainFromCSV reads labeled rows from a CSV file with columns
// clause_text, clause_type, risk_level and fits a model, saving it to
// modelPath.
func (t *Trainer) TrainFromCSV(csvPath, modelPath string) (*TrainReport, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTrainingDataInvalid, "failed to open training data")
	}
	defer f.Close()

	examples, err := readExamples(f)
	if err != nil {
		return nil, err
	}

	model, report, err := t.Train(examples)
	if err != nil {
		return nil, err
	}
	if err := model.Save(modelPath); err != nil {
		return nil, err
	}

	t.log.Info("risk model trained",
		logging.String("model_path", modelPath),
		logging.Int("training_samples", report.TrainingSamples),
		logging.Int("test_samples", report.TestSamples),
		logging.Float64("accuracy", report.Accuracy))
	return report, nil
}

// readExamples parses CSV rows into examples, validating the header and
// every label.
func readExamples(r io.Reader) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTrainingDataInvalid, "training data has no header row")
	}
	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "clause_text":
			textCol = i
		case "risk_level":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, errors.New(errors.ErrCodeTrainingDataInvalid,
			"training data must have clause_text and risk_level columns")
	}

	var examples []Example
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTrainingDataInvalid, "malformed training data row")
		}
		if len(row) <= textCol || len(row) <= labelCol {
			continue
		}
		label := common.RiskLevel(strings.TrimSpace(row[labelCol]))
		if !label.Valid() {
			return nil, errors.Newf(errors.ErrCodeTrainingDataInvalid,
				"unknown risk level %q in training data", row[labelCol])
		}
		text := strings.TrimSpace(row[textCol])
		if text == "" {
			continue
		}
		examples = append(examples, Example{Text: text, Label: label})
	}
	return examples, nil
}

// Train fits a multinomial naive Bayes model with Laplace smoothing. The
// last holdoutFraction of each class is kept for the accuracy estimate.
func (t *Trainer) Train(examples []Example) (*Model, *TrainReport, error) {
	if len(examples) < minTrainingExamples {
		return nil, nil, errors.Newf(errors.ErrCodeTrainingDataInvalid,
			"training requires at least %d examples, got %d", minTrainingExamples, len(examples))
	}

	train, test := splitHoldout(examples)

	classes := []common.RiskLevel{common.RiskLow, common.RiskMedium, common.RiskHigh}

	// Build vocabulary and per-class token counts.
	vocab := make(map[string]int)
	classTokenCounts := make(map[common.RiskLevel]map[int]float64, len(classes))
	classTotals := make(map[common.RiskLevel]float64, len(classes))
	classDocs := make(map[common.RiskLevel]float64, len(classes))
	for _, class := range classes {
		classTokenCounts[class] = make(map[int]float64)
	}

	for _, ex := range train {
		classDocs[ex.Label]++
		for _, tok := range Tokenize(ex.Text) {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
			}
			classTokenCounts[ex.Label][idx]++
			classTotals[ex.Label]++
		}
	}
	if len(vocab) == 0 {
		return nil, nil, errors.New(errors.ErrCodeTrainingFailed, "training produced an empty vocabulary")
	}

	vocabSize := float64(len(vocab))
	model := &Model{
		Version:         modelVersion,
		Classes:         classes,
		Vocab:           vocab,
		LogPrior:        make(map[common.RiskLevel]float64, len(classes)),
		LogLikelihood:   make(map[common.RiskLevel][]float64, len(classes)),
		UnseenLog:       make(map[common.RiskLevel]float64, len(classes)),
		TrainingSamples: len(train),
		TrainedAt:       time.Now().UTC(),
	}

	totalDocs := float64(len(train))
	for _, class := range classes {
		// Smoothed prior keeps classes absent from training usable.
		model.LogPrior[class] = math.Log((classDocs[class] + 1) / (totalDocs + float64(len(classes))))

		denom := classTotals[class] + vocabSize
		likes := make([]float64, len(vocab))
		for idx := range likes {
			likes[idx] = math.Log((classTokenCounts[class][idx] + 1) / denom)
		}
		model.LogLikelihood[class] = likes
		model.UnseenLog[class] = math.Log(1 / denom)
	}

	// Holdout accuracy.
	report := &TrainReport{
		TrainingSamples: len(train),
		TestSamples:     len(test),
		VocabularySize:  len(vocab),
	}
	if len(test) > 0 {
		correct := 0
		for _, ex := range test {
			if got, _ := model.Predict(ex.Text); got == ex.Label {
				correct++
			}
		}
		report.Accuracy = float64(correct) / float64(len(test))
	}
	model.Accuracy = report.Accuracy

	return model, report, nil
}

// splitHoldout keeps the last holdoutFraction of each class as test data so
// every class is represented on both sides.
func splitHoldout(examples []Example) (train, test []Example) {
	byClass := make(map[common.RiskLevel][]Example)
	for _, ex := range examples {
		byClass[ex.Label] = append(byClass[ex.Label], ex)
	}

	classes := make([]common.RiskLevel, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	for _, class := range classes {
		group := byClass[class]
		cut := len(group) - int(math.Floor(float64(len(group))*holdoutFraction))
		if cut < 1 {
			cut = 1
		}
		train = append(train, group[:cut]...)
		test = append(test, group[cut:]...)
	}
	return train, test
}
