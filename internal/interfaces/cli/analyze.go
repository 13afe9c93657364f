package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agreemshield/agreemshield/internal/application/analysis"
	domain "github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/pipeline/clause"
	"github.com/agreemshield/agreemshield/internal/pipeline/extract"
	"github.com/agreemshield/agreemshield/internal/pipeline/future"
	"github.com/agreemshield/agreemshield/internal/pipeline/recommend"
	"github.com/agreemshield/agreemshield/internal/pipeline/risk"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

type analyzeOptions struct {
	startupType  string
	fundingStage string
	modelDir     string
	ocr          bool
}

func newAnalyzeCommand(root *RootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a funding agreement locally",
		Long: `Run the full analysis pipeline on a local document without a server:
extraction, clause segmentation, risk scoring, impact prediction, and
negotiation recommendations. The result is printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.startupType, "startup-type", "", "startup category (e.g. saas, biotech)")
	cmd.Flags().StringVar(&opts.fundingStage, "funding-stage", "", "funding stage (e.g. seed, series-a)")
	cmd.Flags().StringVar(&opts.modelDir, "model-dir", "", "directory holding the trained risk model")
	cmd.Flags().BoolVar(&opts.ocr, "ocr", false, "enable OCR fallback for scanned PDFs")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *RootOptions, opts *analyzeOptions, path string) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := buildLogger(root)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	modelDir := opts.modelDir
	if modelDir == "" {
		modelDir = cfg.Pipeline.ModelDir
	}

	svc := analysis.NewService(analysis.Config{
		Extractor: extract.New(extract.Config{
			MaxFileSizeBytes:   cfg.Pipeline.MaxUploadSize,
			MinDirectTextChars: cfg.Pipeline.MinDirectTextChars,
			OCREnabled:         opts.ocr,
			OCRBinary:          cfg.Pipeline.OCRBinary,
			OCRTimeout:         cfg.Pipeline.OCRTimeout,
		}, log),
		Segmenter:   clause.NewSegmenter(log),
		Classifier:  risk.NewClassifier(modelDir, log),
		Predictor:   future.NewPredictor(log),
		Recommender: recommend.NewEngine(log),
		Repo:        discardRepo{},
		Logger:      log,
	})

	dto, err := svc.Analyze(cmd.Context(), agreement.AnalyzeRequest{
		Filename:     filepath.Base(path),
		StartupType:  opts.startupType,
		FundingStage: opts.fundingStage,
		Content:      content,
	})
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), dto)
}

// discardRepo satisfies the analysis repository for one-shot local runs
// where nothing needs to be persisted.
type discardRepo struct{}

func (discardRepo) Save(context.Context, *domain.Analysis) error { return nil }

func (discardRepo) GetByID(_ context.Context, id common.ID) (*domain.Analysis, error) {
	return nil, errors.Newf(errors.ErrCodeAnalysisNotFound, "analysis %s not found", id)
}

func (discardRepo) List(context.Context, domain.ListFilter, common.Pagination) ([]*domain.Analysis, int64, error) {
	return nil, 0, nil
}

func (discardRepo) Delete(_ context.Context, id common.ID) error {
	return errors.Newf(errors.ErrCodeAnalysisNotFound, "analysis %s not found", id)
}

func (discardRepo) Stats(context.Context) (*domain.Stats, error) {
	return &domain.Stats{}, nil
}
