// Package analysis provides the application-level service orchestrating the
// full agreement analysis pipeline: extraction, clause segmentation, risk
// classification, future prediction, and recommendations. It sits between
// the HTTP handlers and the pipeline packages.
package analysis

import (
	"context"
	"time"

	domain "github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/internal/pipeline/clause"
	"github.com/agreemshield/agreemshield/internal/pipeline/extract"
	"github.com/agreemshield/agreemshield/internal/pipeline/future"
	"github.com/agreemshield/agreemshield/internal/pipeline/recommend"
	"github.com/agreemshield/agreemshield/internal/pipeline/risk"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// DocumentStore archives raw uploads. Implementations live in the storage
// infrastructure layer; a nil store disables archiving.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Metrics receives pipeline observations. A nil recorder disables them.
type Metrics interface {
	ObserveAnalysis(duration time.Duration, level common.RiskLevel, failed bool)
}

// Service is the agreement analysis facade.
type Service interface {
	Analyze(ctx context.Context, req agreement.AnalyzeRequest) (*agreement.AnalysisDTO, error)
	Get(ctx context.Context, id common.ID) (*agreement.AnalysisDTO, error)
	GetAggregate(ctx context.Context, id common.ID) (*domain.Analysis, error)
	List(ctx context.Context, req agreement.ListAnalysesRequest) ([]agreement.AnalysisSummaryDTO, int64, error)
	Delete(ctx context.Context, id common.ID) error
	Stats(ctx context.Context) (*agreement.StatsResponse, error)
}

type service struct {
	extractor   *extract.Extractor
	segmenter   *clause.Segmenter
	classifier  *risk.Classifier
	predictor   *future.Predictor
	recommender *recommend.Engine

	repo    domain.Repository
	store   DocumentStore
	metrics Metrics
	log     logging.Logger
}

// Config bundles the service dependencies. Extractor through Recommender
// and Repo are required; Store and Metrics are optional.
type Config struct {
	Extractor   *extract.Extractor
	Segmenter   *clause.Segmenter
	Classifier  *risk.Classifier
	Predictor   *future.Predictor
	Recommender *recommend.Engine
	Repo        domain.Repository
	Store       DocumentStore
	Metrics     Metrics
	Logger      logging.Logger
}

// NewService wires the pipeline into a Service.
func NewService(cfg Config) Service {
	log := cfg.Logger
	if log == nil {
		log = logging.Default()
	}
	return &service{
		extractor:   cfg.Extractor,
		segmenter:   cfg.Segmenter,
		classifier:  cfg.Classifier,
		predictor:   cfg.Predictor,
		recommender: cfg.Recommender,
		repo:        cfg.Repo,
		store:       cfg.Store,
		metrics:     cfg.Metrics,
		log:         log.Named("analysis"),
	}
}

func (s *service) Analyze(ctx context.Context, req agreement.AnalyzeRequest) (*agreement.AnalysisDTO, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis request")
	}

	doc, err := s.extractor.Extract(ctx, req.Filename, req.Content)
	if err != nil {
		s.observe(start, "", true)
		return nil, err
	}

	agg := domain.New(req.StartupType, req.FundingStage, *doc)
	if err := agg.Start(); err != nil {
		return nil, err
	}

	s.archive(ctx, agg, req)

	dto, err := s.runPipeline(ctx, agg)
	if err != nil {
		s.failAndSave(ctx, agg, err)
		s.observe(start, "", true)
		return nil, err
	}

	if err := s.repo.Save(ctx, agg); err != nil {
		s.observe(start, "", true)
		return nil, err
	}

	s.observe(start, dto.RiskAssessment.OverallLevel, false)
	s.log.Info("analysis completed",
		logging.String("analysis_id", string(agg.ID)),
		logging.String("filename", doc.Filename),
		logging.Int("clauses", len(dto.Clauses)),
		logging.Float64("score", dto.RiskAssessment.OverallScore),
		logging.Duration("elapsed", time.Since(start)))
	return dto, nil
}

// runPipeline executes segmentation through recommendation and completes
// the aggregate.
func (s *service) runPipeline(ctx context.Context, agg *domain.Analysis) (*agreement.AnalysisDTO, error) {
	clauses, err := s.segmenter.Segment(ctx, &agg.Document)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "clause segmentation failed")
	}

	clauses, err = s.classifier.Annotate(ctx, clauses, agg.StartupType)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "risk classification failed")
	}

	assessment := risk.Assess(clauses)

	predictions, err := s.predictor.Predict(ctx, clauses, assessment, agg.StartupType, agg.FundingStage)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictionFailed, "future prediction failed")
	}

	recommendations, err := s.recommender.Generate(ctx, clauses)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRecommendationFailed, "recommendation generation failed")
	}

	if err := agg.Complete(clauses, assessment, predictions, recommendations); err != nil {
		return nil, err
	}
	dto := agg.ToDTO()
	return &dto, nil
}

// archive stores the raw upload; failures are logged and do not fail the
// analysis.
func (s *service) archive(ctx context.Context, agg *domain.Analysis, req agreement.AnalyzeRequest) {
	if s.store == nil {
		return
	}
	key := "uploads/" + string(agg.ID) + "/" + agg.Document.Filename
	storedKey, err := s.store.Put(ctx, key, req.Content, contentTypeFor(agg.Document.Format))
	if err != nil {
		s.log.Warn("failed to archive raw document",
			logging.String("analysis_id", string(agg.ID)), logging.Err(err))
		return
	}
	agg.Document.StorageKey = storedKey
}

func (s *service) failAndSave(ctx context.Context, agg *domain.Analysis, cause error) {
	if err := agg.Fail(cause.Error()); err != nil {
		s.log.Error("failed to mark analysis failed",
			logging.String("analysis_id", string(agg.ID)), logging.Err(err))
		return
	}
	if err := s.repo.Save(ctx, agg); err != nil {
		s.log.Error("failed to persist failed analysis",
			logging.String("analysis_id", string(agg.ID)), logging.Err(err))
	}
}

func (s *service) observe(start time.Time, level common.RiskLevel, failed bool) {
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(time.Since(start), level, failed)
	}
}

func contentTypeFor(format agreement.DocumentFormat) string {
	switch format {
	case agreement.FormatPDF:
		return "application/pdf"
	case agreement.FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}

func (s *service) Get(ctx context.Context, id common.ID) (*agreement.AnalysisDTO, error) {
	agg, err := s.GetAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := agg.ToDTO()
	return &dto, nil
}

func (s *service) GetAggregate(ctx context.Context, id common.ID) (*domain.Analysis, error) {
	if err := id.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis id")
	}
	agg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return agg, nil
}

func (s *service) List(ctx context.Context, req agreement.ListAnalysesRequest) ([]agreement.AnalysisSummaryDTO, int64, error) {
	page := req.Pagination
	if err := page.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid pagination")
	}
	filter := domain.ListFilter{RiskLevel: req.RiskLevel}
	aggs, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	rows := make([]agreement.AnalysisSummaryDTO, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, agg.ToSummaryDTO())
	}
	return rows, total, nil
}

func (s *service) Delete(ctx context.Context, id common.ID) error {
	if err := id.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis id")
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Stats(ctx context.Context) (*agreement.StatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &agreement.StatsResponse{
		TotalAnalyses:    stats.TotalAnalyses,
		AverageRiskScore: stats.AverageRiskScore,
		RiskLevelCounts:  stats.RiskLevelCounts,
		TopClauseTypes:   stats.TopClauseTypes,
	}, nil
}
