package server

import (
	"context"

	"github.com/santorres/salesforce-fastmcp/pkg/mcp"
	"github.com/santorres/salesforce-fastmcp/pkg/salesforce"
)

func (s *ToolBus) handleRelationships(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	recordID := stringArg(req, "record_id")
	if objectName == "" || recordID == "" {
		return missingArg("object_name and record_id"), nil
	}

	if relName := stringArg(req, "relationship_name"); relName != "" {
		records, err := s.client.ResolveNamedRelationship(ctx, objectName, recordID, relName)
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(map[string]interface{}{"records": records}), nil
	}

	result, err := s.client.RelatedRecords(ctx, objectName, recordID)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(map[string]interface{}{"relationships": result.Children}), nil
}

func (s *ToolBus) handleLookup(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	searchTerm := stringArg(req, "search_term")
	if objectName == "" || searchTerm == "" {
		return missingArg("object_name and search_term"), nil
	}

	fields := stringSliceArg(req, "search_fields")
	limit := intArg(req, "limit", 10)

	result, err := s.client.Lookup(ctx, objectName, searchTerm, fields, limit)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleHierarchy(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	recordID := stringArg(req, "record_id")
	if objectName == "" || recordID == "" {
		return missingArg("object_name and record_id"), nil
	}

	if stringArg(req, "direction") == "up" {
		result, err := s.client.ResolveParents(ctx, objectName, recordID, 0)
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(result), nil
	}

	result, err := s.client.ResolveChildren(ctx, objectName, recordID, 0)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleAggregate(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	aggregates := aggregateSpecsArg(req, "aggregates")
	if objectName == "" || len(aggregates) == 0 {
		return missingArg("object_name and aggregates"), nil
	}

	spec := salesforce.QuerySpec{
		Object:     objectName,
		Aggregates: aggregates,
		GroupBy:    stringArg(req, "group_by"),
		Where:      stringArg(req, "where_clause"),
		Limit:      intArg(req, "limit", 100),
	}

	result, err := s.client.Aggregate(ctx, spec)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleReports(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	result, err := s.client.ReportData(ctx, stringArg(req, "report_id"), stringArg(req, "report_name"))
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleTrendAnalysis(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	if objectName == "" {
		return missingArg("object_name"), nil
	}

	dateField := stringArg(req, "date_field")
	if dateField == "" {
		dateField = "CreatedDate"
	}
	period := salesforce.TrendPeriod(stringArg(req, "period"))
	if period == "" {
		period = salesforce.PeriodMonth
	}
	lookback := intArg(req, "timeframe", 6)
	metrics := aggregateSpecsArg(req, "metrics")

	spec := salesforce.NewTrendSpec(objectName, dateField, period, metrics, lookback)
	result, err := s.client.TrendAnalysis(ctx, spec)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handlePipeline(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	timeframe := stringArg(req, "timeframe")
	if timeframe == "" {
		timeframe = "THIS_QUARTER"
	}

	result, err := s.client.PipelineAnalysis(ctx, timeframe, stringArg(req, "owner_id"), boolArg(req, "include_forecasting"))
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleCaseInsights(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	timeframe := stringArg(req, "timeframe")
	if timeframe == "" {
		timeframe = "THIS_MONTH"
	}

	result, err := s.client.CaseInsights(ctx, timeframe, stringArg(req, "priority"), stringArg(req, "status"))
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleLeadFunnel(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	timeframe := stringArg(req, "timeframe")
	if timeframe == "" {
		timeframe = "THIS_QUARTER"
	}

	result, err := s.client.LeadFunnel(ctx, timeframe, stringArg(req, "source"))
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}
