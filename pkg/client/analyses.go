package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/agreemshield/agreemshield/pkg/types/agreement"
	"github.com/agreemshield/agreemshield/pkg/types/common"
)

// AnalyzeOptions carries optional metadata for an upload.
type AnalyzeOptions struct {
	StartupType  string
	FundingStage string
}

// Analyze uploads an agreement document and runs the full analysis pipeline.
func (c *Client) Analyze(ctx context.Context, filename string, content []byte, opts AnalyzeOptions) (*agreement.AnalysisDTO, error) {
	fields := map[string]string{}
	if opts.StartupType != "" {
		fields["startup_type"] = opts.StartupType
	}
	if opts.FundingStage != "" {
		fields["funding_stage"] = opts.FundingStage
	}

	var result agreement.AnalysisDTO
	if err := c.postMultipart(ctx, "/api/v1/analyses", filename, content, fields, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAnalysis retrieves a stored analysis by ID.
func (c *Client) GetAnalysis(ctx context.Context, id common.ID) (*agreement.AnalysisDTO, error) {
	var result agreement.AnalysisDTO
	if err := c.get(ctx, fmt.Sprintf("/api/v1/analyses/%s", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAnalysesOptions filters and paginates analysis listings.
type ListAnalysesOptions struct {
	Page      int
	PageSize  int
	RiskLevel common.RiskLevel
}

// ListAnalyses lists stored analyses, newest first.
func (c *Client) ListAnalyses(ctx context.Context, opts ListAnalysesOptions) (*common.PageResponse[agreement.AnalysisSummaryDTO], error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.RiskLevel != "" {
		q.Set("risk_level", string(opts.RiskLevel))
	}

	path := "/api/v1/analyses"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result common.PageResponse[agreement.AnalysisSummaryDTO]
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAnalysis removes a stored analysis.
func (c *Client) DeleteAnalysis(ctx context.Context, id common.ID) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/analyses/%s", id))
}

// Stats returns platform-wide aggregates.
func (c *Client) Stats(ctx context.Context) (*agreement.StatsResponse, error) {
	var result agreement.StatsResponse
	if err := c.get(ctx, "/api/v1/stats", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Chat sends a message to the agreement assistant.
func (c *Client) Chat(ctx context.Context, req agreement.ChatRequest) (*agreement.ChatResponse, error) {
	var result agreement.ChatResponse
	if err := c.post(ctx, "/api/v1/chat", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Benchmark compares an analysis against market data.
func (c *Client) Benchmark(ctx context.Context, req agreement.BenchmarkRequest) (*agreement.BenchmarkResponse, error) {
	var result agreement.BenchmarkResponse
	if err := c.post(ctx, "/api/v1/benchmark", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Compare runs a multi-document comparison.
func (c *Client) Compare(ctx context.Context, req agreement.ComparisonRequest) (*agreement.ComparisonResponse, error) {
	var result agreement.ComparisonResponse
	if err := c.post(ctx, "/api/v1/comparisons", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckCompliance runs jurisdiction compliance checks on an analysis.
func (c *Client) CheckCompliance(ctx context.Context, req agreement.ComplianceRequest) (*agreement.ComplianceResponse, error) {
	var result agreement.ComplianceResponse
	if err := c.post(ctx, "/api/v1/compliance/check", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
