package analysis

import (
	"context"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// ListFilter narrows a listing query.
type ListFilter struct {
	RiskLevel   common.RiskLevel
	StartupType string
}

// Stats aggregates platform-wide analysis figures.
type Stats struct {
	TotalAnalyses    int64
	AverageRiskScore float64
	RiskLevelCounts  map[common.RiskLevel]int
	TopClauseTypes   map[agreement.ClauseType]int
}

// Repository persists and retrieves Analysis aggregates.
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, id common.ID) (*Analysis, error)
	List(ctx context.Context, filter ListFilter, page common.Pagination) ([]*Analysis, int64, error)
	Delete(ctx context.Context, id common.ID) error
	Stats(ctx context.Context) (*Stats, error)
}
