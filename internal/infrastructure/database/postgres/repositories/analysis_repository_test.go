//go:build integration

// Package repositories_test provides integration tests for the PostgreSQL
// repository implementations. Tests are gated behind the "integration" build
// tag and require AGREEMSHIELD_TEST_DATABASE_URL to point at a disposable
// PostgreSQL instance.
package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agreemshield/agreemshield/internal/domain/analysis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/database/postgres/repositories"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────────────────────────────────────

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("AGREEMSHIELD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AGREEMSHIELD_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applyAnalysesSchema(t, pool)
	return pool
}

func applyAnalysesSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	ddl := `
	CREATE TABLE IF NOT EXISTS analyses (
		id            TEXT PRIMARY KEY,
		status        TEXT NOT NULL DEFAULT 'pending',
		startup_type  TEXT NOT NULL DEFAULT '',
		funding_stage TEXT NOT NULL DEFAULT '',
		filename      TEXT NOT NULL DEFAULT '',
		risk_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_level    TEXT NOT NULL DEFAULT '',
		payload       JSONB NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at  TIMESTAMPTZ
	);
	TRUNCATE analyses;
	`
	_, err := pool.Exec(ctx, ddl)
	require.NoError(t, err)
}

func newCompletedAnalysis(startupType string, score float64, level common.RiskLevel) *analysis.Analysis {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &analysis.Analysis{
		ID:           common.NewID(),
		Status:       common.StatusCompleted,
		StartupType:  startupType,
		FundingStage: "Seed",
		Document: agreement.DocumentDTO{
			Filename: "agreement.pdf",
			Format:   agreement.FormatPDF,
		},
		Clauses: []agreement.ClauseDTO{
			{Index: 1, Type: agreement.ClauseLiquidationPreference, Text: "1x liquidation preference", RiskLevel: level},
		},
		RiskAssessment: agreement.RiskAssessmentDTO{
			OverallScore: score,
			OverallLevel: level,
			ClauseCount:  1,
		},
		CreatedAt:   now,
		CompletedAt: &now,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestAnalysisRepositorySaveAndGet(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	a := newCompletedAnalysis("saas", 82.5, common.RiskLow)
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, common.StatusCompleted, got.Status)
	assert.Equal(t, 82.5, got.RiskAssessment.OverallScore)
	require.Len(t, got.Clauses, 1)
}

func TestAnalysisRepositorySaveUpserts(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	a := newCompletedAnalysis("saas", 50, common.RiskMedium)
	require.NoError(t, repo.Save(ctx, a))

	a.RiskAssessment.OverallScore = 75
	a.RiskAssessment.OverallLevel = common.RiskLow
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(75), got.RiskAssessment.OverallScore)
	assert.Equal(t, common.RiskLow, got.RiskAssessment.OverallLevel)
}

func TestAnalysisRepositoryGetByIDNotFound(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())

	_, err := repo.GetByID(context.Background(), common.NewID())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))
}

func TestAnalysisRepositoryListFilters(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newCompletedAnalysis("saas", 80, common.RiskLow)))
	require.NoError(t, repo.Save(ctx, newCompletedAnalysis("saas", 40, common.RiskHigh)))
	require.NoError(t, repo.Save(ctx, newCompletedAnalysis("biotech", 45, common.RiskHigh)))

	page := common.Pagination{Page: 1, PageSize: 10}

	all, total, err := repo.List(ctx, analysis.ListFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	high, total, err := repo.List(ctx, analysis.ListFilter{RiskLevel: common.RiskHigh}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, high, 2)

	biotech, total, err := repo.List(ctx, analysis.ListFilter{RiskLevel: common.RiskHigh, StartupType: "biotech"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, biotech, 1)
	assert.Equal(t, "biotech", biotech[0].StartupType)
}

func TestAnalysisRepositoryListPagination(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, newCompletedAnalysis("saas", 60, common.RiskMedium)))
	}

	first, total, err := repo.List(ctx, analysis.ListFilter{}, common.Pagination{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, first, 2)

	last, _, err := repo.List(ctx, analysis.ListFilter{}, common.Pagination{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func TestAnalysisRepositoryDelete(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	a := newCompletedAnalysis("saas", 70, common.RiskMedium)
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Delete(ctx, a.ID))

	_, err := repo.GetByID(ctx, a.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))

	err = repo.Delete(ctx, a.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisNotFound))
}

func TestAnalysisRepositoryStats(t *testing.T) {
	pool := testPool(t)
	repo := repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newCompletedAnalysis("saas", 80, common.RiskLow)))
	require.NoError(t, repo.Save(ctx, newCompletedAnalysis("saas", 40, common.RiskHigh)))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalAnalyses)
	assert.InDelta(t, 60, stats.AverageRiskScore, 0.001)
	assert.Equal(t, 1, stats.RiskLevelCounts[common.RiskLow])
	assert.Equal(t, 1, stats.RiskLevelCounts[common.RiskHigh])
	assert.Equal(t, 2, stats.TopClauseTypes[agreement.ClauseLiquidationPreference])
}
