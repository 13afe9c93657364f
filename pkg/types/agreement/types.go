package agreement

import (
	"fmt"
	"strings"

	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// DocumentFormat identifies a supported upload format.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	FormatTXT  DocumentFormat = "txt"
)

// FormatFromFilename derives the DocumentFormat from a file name extension.
func FormatFromFilename(name string) (DocumentFormat, error) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", fmt.Errorf("file %q has no extension", name)
	}
	switch strings.ToLower(name[idx+1:]) {
	case "pdf":
		return FormatPDF, nil
	case "docx", "doc":
		return FormatDOCX, nil
	case "txt":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", name[idx:])
	}
}

// IsValid checks if the DocumentFormat is supported.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatTXT:
		return true
	default:
		return false
	}
}

// ExtractionMethod records how text was obtained from a document.
type ExtractionMethod string

const (
	ExtractionDirect      ExtractionMethod = "direct"
	ExtractionOCR         ExtractionMethod = "ocr"
	ExtractionOCRFallback ExtractionMethod = "ocr_fallback"
	ExtractionDOCX        ExtractionMethod = "docx"
	ExtractionPlain       ExtractionMethod = "plain"
)

// ClauseType classifies a clause found in a funding agreement.
type ClauseType string

const (
	ClauseLiquidationPreference ClauseType = "Liquidation Preference"
	ClauseAntiDilution          ClauseType = "Anti-Dilution"
	ClauseBoardControl          ClauseType = "Board Control"
	ClauseVesting               ClauseType = "Vesting"
	ClauseIPAssignment          ClauseType = "IP Assignment"
	ClauseDragAlong             ClauseType = "Drag-Along Rights"
	ClauseInformationRights     ClauseType = "Information Rights"
	ClauseNoShop                ClauseType = "No-Shop Clause"
	ClauseProRata               ClauseType = "Pro-Rata Rights"
	ClausePayToPlay             ClauseType = "Pay-to-Play"
	ClauseConversionRights      ClauseType = "Conversion Rights"
	ClauseRedemptionRights      ClauseType = "Redemption Rights"
	ClauseRepsAndWarranties     ClauseType = "Representations & Warranties"
	ClauseVotingRights          ClauseType = "Voting Rights"
	ClauseExitRights            ClauseType = "Exit Rights"
	ClauseGeneral               ClauseType = "General Clause"
)

// KnownClauseTypes lists every classifiable clause type, excluding the
// General Clause fallback.
func KnownClauseTypes() []ClauseType {
	return []ClauseType{
		ClauseLiquidationPreference,
		ClauseAntiDilution,
		ClauseBoardControl,
		ClauseVesting,
		ClauseIPAssignment,
		ClauseDragAlong,
		ClauseInformationRights,
		ClauseNoShop,
		ClauseProRata,
		ClausePayToPlay,
		ClauseConversionRights,
		ClauseRedemptionRights,
		ClauseRepsAndWarranties,
		ClauseVotingRights,
		ClauseExitRights,
	}
}

// IsValid reports whether the clause type is a known classification target
// or the General Clause fallback.
func (t ClauseType) IsValid() bool {
	if t == ClauseGeneral {
		return true
	}
	for _, known := range KnownClauseTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// DetectionMethod records how a risk annotation was produced.
type DetectionMethod string

const (
	DetectionRule      DetectionMethod = "rule_based"
	DetectionML        DetectionMethod = "ml"
	DetectionHeuristic DetectionMethod = "heuristic"
)

// Horizon is a forward-looking prediction window.
type Horizon string

const (
	HorizonShortTerm    Horizon = "6-12 months"
	HorizonMidTerm      Horizon = "1-2 years"
	HorizonLongTerm     Horizon = "2-3 years"
	HorizonVeryLongTerm Horizon = "3+ years"
)

// Horizons returns the prediction windows in chronological order.
func Horizons() []Horizon {
	return []Horizon{HorizonShortTerm, HorizonMidTerm, HorizonLongTerm, HorizonVeryLongTerm}
}

// Impact grades the severity of a predicted future risk.
type Impact string

const (
	ImpactMedium   Impact = "Medium"
	ImpactHigh     Impact = "High"
	ImpactCritical Impact = "Critical"
)

// Sentiment summarizes the overall outlook of an agreement.
type Sentiment string

const (
	SentimentFavorable   Sentiment = "Favorable"
	SentimentModerate    Sentiment = "Moderate"
	SentimentConcerning  Sentiment = "Concerning"
	SentimentUnfavorable Sentiment = "Unfavorable"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
)

// SectionDTO is a titled slice of a document used for clause segmentation.
type SectionDTO struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// DocumentDTO describes an ingested agreement document.
type DocumentDTO struct {
	Filename         string           `json:"filename"`
	Format           DocumentFormat   `json:"format"`
	Pages            int              `json:"page_count"`
	WordCount        int              `json:"word_count"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	Text             string           `json:"text,omitempty"`
	Sections         []SectionDTO     `json:"sections,omitempty"`
	StorageKey       string           `json:"storage_key,omitempty"`
}

// EntityDTO is a named entity found in clause text.
type EntityDTO struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ClauseDTO is a classified clause with its risk annotation.
type ClauseDTO struct {
	Index           int              `json:"id"`
	Type            ClauseType       `json:"type"`
	Title           string           `json:"title,omitempty"`
	Text            string           `json:"text"`
	FullText        string           `json:"full_text,omitempty"`
	Position        int              `json:"position"`
	Entities        []EntityDTO      `json:"entities,omitempty"`
	KeyTerms        []string         `json:"key_terms,omitempty"`
	RiskLevel       common.RiskLevel `json:"risk_level,omitempty"`
	Confidence      float64          `json:"confidence,omitempty"`
	Explanation     string           `json:"explanation,omitempty"`
	DetectionMethod DetectionMethod  `json:"detection_method,omitempty"`
}

// DangerousClauseDTO is a high-risk clause surfaced in the assessment summary.
type DangerousClauseDTO struct {
	Type      ClauseType       `json:"type"`
	RiskLevel common.RiskLevel `json:"risk_level"`
	Concern   string           `json:"concern"`
}

// RiskCategoryDTO groups clauses under an operational, regulatory, or
// financial umbrella.
type RiskCategoryDTO struct {
	Count    int              `json:"count"`
	Severity common.RiskLevel `json:"severity"`
	Clauses  []ClauseType     `json:"clauses,omitempty"`
}

// ClauseTypeStatsDTO aggregates per-type clause counts.
type ClauseTypeStatsDTO struct {
	Count      int                      `json:"count"`
	RiskLevels map[common.RiskLevel]int `json:"risk_levels"`
}

// RiskAssessmentDTO is the document-level risk roll-up.
type RiskAssessmentDTO struct {
	OverallScore     float64                           `json:"overall_score"`
	OverallLevel     common.RiskLevel                  `json:"overall_level"`
	RiskDistribution map[common.RiskLevel]int          `json:"risk_distribution"`
	ClauseCount      int                               `json:"clause_count"`
	DangerousClauses []DangerousClauseDTO              `json:"dangerous_clauses"`
	ClauseTypes      map[ClauseType]ClauseTypeStatsDTO `json:"clause_types,omitempty"`
	RedFlags         int                               `json:"red_flags"`
	RiskCategories   map[string]RiskCategoryDTO        `json:"risk_categories,omitempty"`
	Summary          string                            `json:"summary"`
}

// FutureRiskDTO is a single predicted risk within a horizon.
type FutureRiskDTO struct {
	Title       string `json:"title"`
	Probability int    `json:"probability"`
	Impact      Impact `json:"impact"`
	Description string `json:"description"`
}

// TimelineEntryDTO groups predicted risks for one horizon.
type TimelineEntryDTO struct {
	Period Horizon         `json:"period"`
	Risks  []FutureRiskDTO `json:"risks"`
}

// OutlookDTO is the aggregate forward-looking verdict.
type OutlookDTO struct {
	Probability int       `json:"probability"`
	Sentiment   Sentiment `json:"sentiment"`
	Summary     string    `json:"summary"`
}

// PredictionDTO is the full future risk projection for an agreement.
type PredictionDTO struct {
	Timeline       []TimelineEntryDTO `json:"timeline"`
	OverallOutlook OutlookDTO         `json:"overall_outlook"`
}

// RecommendationDTO is an actionable negotiation recommendation. When the
// same clause type occurs several times in a document there is still one
// recommendation for it, with Instances carrying a snippet per occurrence.
type RecommendationDTO struct {
	Priority        Priority   `json:"priority"`
	Clause          ClauseType `json:"clause"`
	Issue           string     `json:"issue"`
	Recommendation  string     `json:"recommendation"`
	NegotiationTips []string   `json:"negotiation_tips"`
	ExpectedImpact  string     `json:"expected_impact"`
	Instances       []string   `json:"instances,omitempty"`
}

// SummaryDTO is the compact clause count roll-up.
type SummaryDTO struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// AnalysisDTO is the complete result of analyzing one agreement.
type AnalysisDTO struct {
	ID              common.ID           `json:"id"`
	Document        DocumentDTO         `json:"document_info"`
	StartupType     string              `json:"startup_type"`
	FundingStage    string              `json:"funding_stage"`
	Clauses         []ClauseDTO         `json:"clauses"`
	RiskAssessment  RiskAssessmentDTO   `json:"risk_assessment"`
	Predictions     PredictionDTO       `json:"future_predictions"`
	Recommendations []RecommendationDTO `json:"recommendations"`
	Summary         SummaryDTO          `json:"summary"`
	AnalyzedAt      common.Timestamp    `json:"analysis_timestamp"`
}

// AnalyzeRequest carries parameters for a document analysis.
type AnalyzeRequest struct {
	Filename     string `json:"filename"`
	StartupType  string `json:"startup_type"`
	FundingStage string `json:"funding_stage"`
	Content      []byte `json:"-"`
}

// Validate checks if the AnalyzeRequest is valid.
func (r AnalyzeRequest) Validate() error {
	if r.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if _, err := FormatFromFilename(r.Filename); err != nil {
		return err
	}
	if len(r.Content) == 0 {
		return fmt.Errorf("document content must not be empty")
	}
	return nil
}

// ChatRequest is a question for the assistant, optionally anchored to a
// previous analysis.
type ChatRequest struct {
	Message    string    `json:"message"`
	AnalysisID common.ID `json:"analysis_id,omitempty"`
}

// Validate checks if the ChatRequest is valid.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message must not be empty")
	}
	return nil
}

// ChatResponse is the assistant's answer.
type ChatResponse struct {
	Response   string    `json:"response"`
	AnalysisID common.ID `json:"analysis_id,omitempty"`
	Grounded   bool      `json:"grounded"`
}

// BenchmarkRequest asks for market benchmarking of an analysis.
type BenchmarkRequest struct {
	AnalysisID   common.ID `json:"analysis_id"`
	StartupType  string    `json:"startup_type,omitempty"`
	FundingStage string    `json:"funding_stage,omitempty"`
}

// MarketDataDTO carries the percentile spread for one clause benchmark.
type MarketDataDTO struct {
	P25       float64 `json:"25th_percentile"`
	Median    float64 `json:"median"`
	P75       float64 `json:"75th_percentile"`
	Frequency int     `json:"frequency"`
}

// ClauseBenchmarkDTO compares one clause against market data.
type ClauseBenchmarkDTO struct {
	ClauseType        ClauseType    `json:"clause_type"`
	YourValue         float64       `json:"your_value"`
	MarketData        MarketDataDTO `json:"market_data"`
	Percentile        float64       `json:"your_percentile"`
	IsStandard        bool          `json:"is_standard"`
	IsFounderFriendly bool          `json:"is_founder_friendly"`
	Comparison        string        `json:"comparison"`
	Recommendations   []string      `json:"recommendations"`
}

// BenchmarkSummaryDTO is the document-level benchmark roll-up.
type BenchmarkSummaryDTO struct {
	TotalClausesBenchmarked int     `json:"total_clauses_benchmarked"`
	FounderFriendlyClauses  int     `json:"founder_friendly_clauses"`
	OverallMarketScore      float64 `json:"overall_market_score"`
	Rating                  string  `json:"rating"`
}

// BenchmarkResponse is the full market benchmark report.
type BenchmarkResponse struct {
	StartupType        string               `json:"startup_type"`
	FundingStage       string               `json:"funding_stage"`
	BenchmarkedClauses []ClauseBenchmarkDTO `json:"benchmarked_clauses"`
	Summary            BenchmarkSummaryDTO  `json:"summary"`
	Insights           []string             `json:"insights"`
	GeneratedAt        common.Timestamp     `json:"timestamp"`
}

// ComparisonRequest asks for a side-by-side comparison of analyses.
type ComparisonRequest struct {
	Name        string      `json:"name,omitempty"`
	AnalysisIDs []common.ID `json:"analysis_ids"`
}

// Validate checks if the ComparisonRequest is valid.
func (r ComparisonRequest) Validate() error {
	if len(r.AnalysisIDs) < 2 {
		return fmt.Errorf("comparison requires at least two analyses")
	}
	return nil
}

// ComparedDocumentDTO is one document's stats inside a comparison.
type ComparedDocumentDTO struct {
	DocumentIndex int              `json:"document_id"`
	AnalysisID    common.ID        `json:"analysis_id"`
	Filename      string           `json:"filename"`
	OverallScore  float64          `json:"overall_risk_score"`
	RiskLevel     common.RiskLevel `json:"risk_level"`
	TotalClauses  int              `json:"total_clauses"`
	HighRiskCount int              `json:"high_risk_count"`
	RedFlags      int              `json:"red_flags"`
}

// ClauseComparisonDTO records the best version of one clause type across
// compared documents.
type ClauseComparisonDTO struct {
	WinnerDocument int                `json:"winner_document"`
	WinnerRisk     common.RiskLevel   `json:"winner_risk_level"`
	Versions       []ClauseVersionDTO `json:"all_versions"`
}

// ClauseVersionDTO is one document's rendition of a clause type.
type ClauseVersionDTO struct {
	DocumentIndex int              `json:"document_id"`
	RiskLevel     common.RiskLevel `json:"risk_level"`
	Text          string           `json:"text"`
}

// FinancialImpactDTO estimates the cost of choosing one agreement.
type FinancialImpactDTO struct {
	DocumentIndex      int     `json:"document_id"`
	Filename           string  `json:"filename"`
	EquityLossPct      float64 `json:"estimated_equity_loss"`
	ExitReductionPct   float64 `json:"estimated_exit_reduction"`
	TotalFinancialRisk float64 `json:"total_financial_risk"`
	VersusBestDeal     float64 `json:"vs_best_deal"`
}

// WinnerDTO identifies the best agreement in a comparison.
type WinnerDTO struct {
	DocumentIndex int     `json:"winner_document_id"`
	Filename      string  `json:"winner_filename"`
	Score         float64 `json:"winner_score"`
	Confidence    float64 `json:"confidence"`
}

// ComparisonResponse is the full multi-document comparison report.
type ComparisonResponse struct {
	Name             string                             `json:"comparison_name"`
	Documents        []ComparedDocumentDTO              `json:"documents"`
	Winner           WinnerDTO                          `json:"winner"`
	ClauseComparison map[ClauseType]ClauseComparisonDTO `json:"clause_comparison"`
	FinancialImpacts []FinancialImpactDTO               `json:"financial_impact"`
	Summary          string                             `json:"summary"`
	ComparedAt       common.Timestamp                   `json:"timestamp"`
}

// ComplianceRequest asks for jurisdiction compliance checks on an analysis.
type ComplianceRequest struct {
	AnalysisID    common.ID `json:"analysis_id"`
	Jurisdictions []string  `json:"jurisdictions"`
}

// Validate checks if the ComplianceRequest is valid.
func (r ComplianceRequest) Validate() error {
	if len(r.Jurisdictions) == 0 {
		return fmt.Errorf("at least one jurisdiction is required")
	}
	return nil
}

// ComplianceViolationDTO is a required rule missing from the agreement.
type ComplianceViolationDTO struct {
	RuleID      string `json:"rule_id"`
	RuleName    string `json:"rule_name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Issue       string `json:"issue"`
	Fix         string `json:"fix"`
}

// ComplianceWarningDTO is an optional rule not found in the agreement.
type ComplianceWarningDTO struct {
	RuleID         string `json:"rule_id"`
	RuleName       string `json:"rule_name"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// JurisdictionResultDTO is the compliance verdict for one jurisdiction.
type JurisdictionResultDTO struct {
	Framework       string                   `json:"framework"`
	Status          string                   `json:"status"`
	ComplianceScore float64                  `json:"compliance_score"`
	Violations      []ComplianceViolationDTO `json:"violations"`
	Warnings        []ComplianceWarningDTO   `json:"warnings"`
	MissingClauses  []string                 `json:"missing_clauses"`
}

// ComplianceSummaryDTO rolls up compliance across jurisdictions.
type ComplianceSummaryDTO struct {
	OverallStatus   string   `json:"overall_status"`
	RiskLevel       string   `json:"risk_level"`
	TotalViolations int      `json:"total_violations"`
	TotalWarnings   int      `json:"total_warnings"`
	RequiresAction  bool     `json:"requires_action"`
	CriticalIssues  []string `json:"critical_issues"`
}

// ComplianceResponse is the multi-jurisdiction compliance report.
type ComplianceResponse struct {
	Jurisdictions []string                         `json:"jurisdictions_checked"`
	Results       map[string]JurisdictionResultDTO `json:"results"`
	Summary       ComplianceSummaryDTO             `json:"summary"`
	CheckedAt     common.Timestamp                 `json:"timestamp"`
}

// StatsResponse summarizes platform activity.
type StatsResponse struct {
	TotalAnalyses    int64                    `json:"total_analyses"`
	AverageRiskScore float64                  `json:"average_risk_score"`
	RiskLevelCounts  map[common.RiskLevel]int `json:"risk_level_counts"`
	TopClauseTypes   map[ClauseType]int       `json:"top_clause_types"`
}

// ListAnalysesRequest carries parameters for listing stored analyses.
type ListAnalysesRequest struct {
	Pagination common.Pagination `json:"pagination"`
	RiskLevel  common.RiskLevel  `json:"risk_level,omitempty"`
}

// AnalysisSummaryDTO is a compact row returned by listing endpoints.
type AnalysisSummaryDTO struct {
	ID           common.ID        `json:"id"`
	Filename     string           `json:"filename"`
	StartupType  string           `json:"startup_type"`
	OverallScore float64          `json:"overall_score"`
	OverallLevel common.RiskLevel `json:"overall_level"`
	ClauseCount  int              `json:"clause_count"`
	AnalyzedAt   common.Timestamp `json:"analyzed_at"`
}
