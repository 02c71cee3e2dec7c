package salesforce

import (
	"context"
	"fmt"
	"net/http"
)

// AggregateResult wraps an executed aggregate query with the text that was
// run, so agent callers can inspect and refine it.
type AggregateResult struct {
	Query      string          `json:"query"`
	Aggregates []AggregateSpec `json:"aggregates"`
	GroupBy    string          `json:"groupBy,omitempty"`
	Results    *QueryResponse  `json:"results"`
}

// Aggregate builds and executes an aggregate query for the spec.
func (c *Client) Aggregate(ctx context.Context, spec QuerySpec) (*AggregateResult, error) {
	soql := BuildAggregateQuery(spec)
	resp, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	return &AggregateResult{
		Query:      soql,
		Aggregates: spec.Aggregates,
		GroupBy:    spec.GroupBy,
		Results:    resp,
	}, nil
}

// TrendResult is an executed time-series query.
type TrendResult struct {
	Query     string          `json:"query"`
	Period    TrendPeriod     `json:"period"`
	Lookback  int             `json:"timeframe"`
	DateField string          `json:"dateField"`
	Metrics   []AggregateSpec `json:"metrics"`
	Trends    []SObject       `json:"trends"`
}

// TrendAnalysis builds and executes the bucketed trend query for the spec.
func (c *Client) TrendAnalysis(ctx context.Context, spec TrendSpec) (*TrendResult, error) {
	soql := BuildTrendQuery(spec)
	resp, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	metrics := spec.Metrics
	if len(metrics) == 0 {
		metrics = []AggregateSpec{{Function: "COUNT", Field: identityField, Alias: "Total"}}
	}
	return &TrendResult{
		Query:     soql,
		Period:    spec.Period,
		Lookback:  spec.Lookback,
		DateField: spec.DateField,
		Metrics:   metrics,
		Trends:    resp.Records,
	}, nil
}

// PipelineSummary totals the open pipeline across stages.
type PipelineSummary struct {
	TotalPipelineValue float64   `json:"totalPipelineValue"`
	TotalOpportunities float64   `json:"totalOpportunities"`
	StageBreakdown     []SObject `json:"stageBreakdown"`
}

// PipelineResult is the combined output of the pipeline analysis queries.
type PipelineResult struct {
	Timeframe       string          `json:"timeframe"`
	OwnerID         string          `json:"ownerId,omitempty"`
	Summary         PipelineSummary `json:"summary"`
	WinLossAnalysis []SObject       `json:"winLossAnalysis"`
	ConversionRates []SObject       `json:"conversionRates"`
	Forecasting     SObject         `json:"forecasting,omitempty"`
}

// PipelineAnalysis runs the stage-breakdown, win/loss and stage-count
// queries for open opportunities in the timeframe (a SOQL date literal such
// as THIS_QUARTER) and combines them in memory. The optional forecast query
// is best-effort: its failure leaves Forecasting empty.
func (c *Client) PipelineAnalysis(ctx context.Context, timeframe, ownerID string, includeForecasting bool) (*PipelineResult, error) {
	ownerFilter := ""
	if ownerID != "" {
		ownerFilter = fmt.Sprintf(" AND OwnerId = '%s'", ownerID)
	}

	pipelineQuery := fmt.Sprintf(
		"SELECT StageName, COUNT(Id) RecordCount, SUM(Amount) TotalValue, AVG(Amount) AvgDealSize, AVG(Probability) AvgProbability "+
			"FROM Opportunity WHERE CloseDate >= %s AND IsClosed = false%s GROUP BY StageName ORDER BY SUM(Amount) DESC",
		timeframe, ownerFilter)
	pipeline, err := c.Query(ctx, pipelineQuery)
	if err != nil {
		return nil, err
	}

	winLossQuery := fmt.Sprintf(
		"SELECT IsWon, COUNT(Id) Count, SUM(Amount) Value FROM Opportunity "+
			"WHERE CloseDate = %s AND IsClosed = true%s GROUP BY IsWon",
		timeframe, ownerFilter)
	winLoss, err := c.Query(ctx, winLossQuery)
	if err != nil {
		return nil, err
	}

	conversionQuery := fmt.Sprintf(
		"SELECT StageName, COUNT(Id) OppsInStage FROM Opportunity "+
			"WHERE CloseDate >= %s%s GROUP BY StageName",
		timeframe, ownerFilter)
	conversion, err := c.Query(ctx, conversionQuery)
	if err != nil {
		return nil, err
	}

	var forecast SObject
	if includeForecasting {
		forecastQuery := fmt.Sprintf(
			"SELECT SUM(Amount) WeightedValue, SUM(Amount * Probability / 100) ForecastAmount "+
				"FROM Opportunity WHERE CloseDate = %s AND IsClosed = false%s",
			timeframe, ownerFilter)
		if resp, err := c.Query(ctx, forecastQuery); err == nil && len(resp.Records) > 0 {
			forecast = resp.Records[0]
		}
	}

	summary := PipelineSummary{StageBreakdown: pipeline.Records}
	for _, stage := range pipeline.Records {
		summary.TotalPipelineValue += numField(stage, "TotalValue")
		summary.TotalOpportunities += numField(stage, "RecordCount")
	}

	return &PipelineResult{
		Timeframe:       timeframe,
		OwnerID:         ownerID,
		Summary:         summary,
		WinLossAnalysis: winLoss.Records,
		ConversionRates: conversion.Records,
		Forecasting:     forecast,
	}, nil
}

// CaseInsightsResult is the combined output of the support-case queries.
type CaseInsightsResult struct {
	Timeframe         string            `json:"timeframe"`
	Filters           map[string]string `json:"filters"`
	VolumeMetrics     []SObject         `json:"volumeMetrics"`
	EscalationMetrics SObject           `json:"escalationMetrics"`
	ChannelBreakdown  []SObject         `json:"channelBreakdown"`
	OwnerPerformance  []SObject         `json:"ownerPerformance"`
}

// CaseInsights analyzes support case volume, escalations, channels, and
// owner load for the timeframe, with optional priority/status filters.
func (c *Client) CaseInsights(ctx context.Context, timeframe, priority, status string) (*CaseInsightsResult, error) {
	filters := fmt.Sprintf("CreatedDate = %s", timeframe)
	if priority != "" {
		filters += fmt.Sprintf(" AND Priority = '%s'", priority)
	}
	if status != "" {
		filters += fmt.Sprintf(" AND Status = '%s'", status)
	}

	volume, err := c.Query(ctx, fmt.Sprintf(
		"SELECT Status, Priority, COUNT(Id) CaseCount FROM Case WHERE %s GROUP BY Status, Priority ORDER BY Priority, Status", filters))
	if err != nil {
		return nil, err
	}

	escalation, err := c.Query(ctx, fmt.Sprintf(
		"SELECT COUNT(Id) TotalCases FROM Case WHERE %s", filters))
	if err != nil {
		return nil, err
	}

	channel, err := c.Query(ctx, fmt.Sprintf(
		"SELECT Account.Type AccountType, COUNT(Id) CaseCount FROM Case WHERE %s AND Account.Type != null GROUP BY Account.Type ORDER BY COUNT(Id) DESC", filters))
	if err != nil {
		return nil, err
	}

	owner, err := c.Query(ctx, fmt.Sprintf(
		"SELECT Owner.Name, COUNT(Id) CasesHandled FROM Case WHERE %s GROUP BY Owner.Name ORDER BY COUNT(Id) DESC LIMIT 10", filters))
	if err != nil {
		return nil, err
	}

	result := &CaseInsightsResult{
		Timeframe:         timeframe,
		Filters:           map[string]string{"priority": priority, "status": status},
		VolumeMetrics:     volume.Records,
		EscalationMetrics: SObject{},
		ChannelBreakdown:  channel.Records,
		OwnerPerformance:  owner.Records,
	}
	if len(escalation.Records) > 0 {
		result.EscalationMetrics = escalation.Records[0]
	}
	return result, nil
}

// FunnelMetric is the per-source conversion summary of the lead funnel.
type FunnelMetric struct {
	Source         string  `json:"source"`
	TotalLeads     float64 `json:"totalLeads"`
	ConvertedLeads float64 `json:"convertedLeads"`
	ConversionRate string  `json:"conversionRate"`
}

// LeadFunnelResult is the combined output of the lead funnel queries.
type LeadFunnelResult struct {
	Timeframe        string         `json:"timeframe"`
	SourceFilter     string         `json:"sourceFilter,omitempty"`
	LeadVolume       []SObject      `json:"leadVolume"`
	FunnelMetrics    []FunnelMetric `json:"funnelMetrics"`
	QualityAnalysis  []SObject      `json:"qualityAnalysis"`
	TopOpportunities []SObject      `json:"topOpportunities"`
}

// LeadFunnel analyzes lead conversion by source: volume, conversion rate,
// quality rating spread, and the top converted opportunities.
func (c *Client) LeadFunnel(ctx context.Context, timeframe, source string) (*LeadFunnelResult, error) {
	sourceFilter := ""
	if source != "" {
		sourceFilter = fmt.Sprintf(" AND LeadSource = '%s'", source)
	}

	volume, err := c.Query(ctx, fmt.Sprintf(
		"SELECT LeadSource, Status, COUNT(Id) LeadCount FROM Lead WHERE CreatedDate = %s%s GROUP BY LeadSource, Status ORDER BY LeadSource, Status",
		timeframe, sourceFilter))
	if err != nil {
		return nil, err
	}

	conversion, err := c.Query(ctx, fmt.Sprintf(
		"SELECT LeadSource, COUNT(Id) TotalLeads, SUM(CASE WHEN IsConverted = true THEN 1 ELSE 0 END) ConvertedLeads "+
			"FROM Lead WHERE CreatedDate = %s%s GROUP BY LeadSource ORDER BY COUNT(Id) DESC",
		timeframe, sourceFilter))
	if err != nil {
		return nil, err
	}

	quality, err := c.Query(ctx, fmt.Sprintf(
		"SELECT LeadSource, Rating, COUNT(Id) Count FROM Lead WHERE CreatedDate = %s AND Rating != null%s GROUP BY LeadSource, Rating ORDER BY LeadSource, Rating",
		timeframe, sourceFilter))
	if err != nil {
		return nil, err
	}

	opportunities, err := c.Query(ctx, fmt.Sprintf(
		"SELECT Account.Name, ConvertedOpportunity.Amount, ConvertedOpportunity.StageName, ConvertedOpportunity.CloseDate, LeadSource "+
			"FROM Lead WHERE CreatedDate = %s AND IsConverted = true AND ConvertedOpportunity.Id != null%s "+
			"ORDER BY ConvertedOpportunity.Amount DESC NULLS LAST LIMIT 20",
		timeframe, sourceFilter))
	if err != nil {
		return nil, err
	}

	metrics := make([]FunnelMetric, 0, len(conversion.Records))
	for _, rec := range conversion.Records {
		total := numField(rec, "TotalLeads")
		converted := numField(rec, "ConvertedLeads")
		metrics = append(metrics, FunnelMetric{
			Source:         strField(rec, "LeadSource"),
			TotalLeads:     total,
			ConvertedLeads: converted,
			ConversionRate: fmt.Sprintf("%.2f%%", conversionRate(converted, total)),
		})
	}

	return &LeadFunnelResult{
		Timeframe:        timeframe,
		SourceFilter:     source,
		LeadVolume:       volume.Records,
		FunnelMetrics:    metrics,
		QualityAnalysis:  quality.Records,
		TopOpportunities: opportunities.Records,
	}, nil
}

// ReportData accesses existing platform reports: resolve by name (ambiguous
// matches return the candidate list), list recently-run reports when neither
// id nor name is given, then fetch analytics metadata with a plain record
// query as fallback.
func (c *Client) ReportData(ctx context.Context, reportID, reportName string) (map[string]interface{}, error) {
	targetID := reportID

	if reportName != "" && reportID == "" {
		soql := fmt.Sprintf(
			"SELECT Id, Name, DeveloperName FROM Report WHERE Name LIKE '%%%s%%' OR DeveloperName LIKE '%%%s%%' LIMIT 10",
			reportName, reportName)
		resp, err := c.Query(ctx, soql)
		if err != nil {
			return nil, err
		}
		if len(resp.Records) == 0 {
			return nil, NewRemoteError(http.StatusNotFound, "REPORT_NOT_FOUND", fmt.Sprintf("no reports found matching: %s", reportName))
		}
		if len(resp.Records) > 1 {
			return map[string]interface{}{
				"message":          "Multiple reports found. Please specify reportId or be more specific.",
				"availableReports": resp.Records,
			}, nil
		}
		targetID = strField(resp.Records[0], "Id")
	}

	if targetID == "" {
		resp, err := c.Query(ctx,
			"SELECT Id, Name, DeveloperName, LastRunDate FROM Report WHERE LastRunDate != null ORDER BY LastRunDate DESC LIMIT 20")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"message": "Available reports in your org:",
			"reports": resp.Records,
		}, nil
	}

	var metadata map[string]interface{}
	if err := c.doRequest(ctx, http.MethodGet, "/analytics/reports/"+targetID, nil, nil, &metadata); err == nil {
		return map[string]interface{}{
			"reportId": targetID,
			"metadata": metadata,
		}, nil
	}

	resp, err := c.Query(ctx, fmt.Sprintf(
		"SELECT Id, Name, DeveloperName, Description, LastRunDate FROM Report WHERE Id = '%s'", targetID))
	if err != nil {
		return nil, err
	}
	result := map[string]interface{}{
		"message": "Report found but analytics API access may be limited",
	}
	if len(resp.Records) > 0 {
		result["report"] = resp.Records[0]
	}
	return result, nil
}

// conversionRate computes converted/total as a percentage, defaulting to 0
// when total is 0.
func conversionRate(converted, total float64) float64 {
	if total == 0 {
		return 0
	}
	return converted / total * 100
}

// numField pulls a numeric value out of a decoded record; aggregate columns
// arrive as float64 (or nil for empty groups).
func numField(rec SObject, key string) float64 {
	if v, ok := rec[key]; ok && v != nil {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

func strField(rec SObject, key string) string {
	if v, ok := rec[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
