package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santorres/salesforce-fastmcp/pkg/mcp"
	"github.com/santorres/salesforce-fastmcp/pkg/salesforce"
)

const (
	// Passthrough tools
	ToolQuery    = "salesforce_query"
	ToolSObjects = "salesforce_sobjects"
	ToolRecent   = "salesforce_recent"
	ToolSearch   = "salesforce_search"
	ToolDescribe = "salesforce_describe"
	// Record tools
	ToolCreate = "salesforce_create"
	ToolUpdate = "salesforce_update"
	ToolDelete = "salesforce_delete"
	// Navigation and search tools
	ToolRelationships = "salesforce_relationships"
	ToolLookup        = "salesforce_lookup"
	ToolHierarchy     = "salesforce_hierarchy"
	// Analytics tools
	ToolAggregate     = "salesforce_aggregate"
	ToolReports       = "salesforce_reports"
	ToolTrendAnalysis = "salesforce_trend_analysis"
	ToolPipeline      = "salesforce_pipeline"
	ToolCaseInsights  = "salesforce_case_insights"
	ToolLeadFunnel    = "salesforce_lead_funnel"
)

// ToolBus exposes the Salesforce connector as MCP tools. The client is
// injected at construction; there is no lazily-initialized global.
type ToolBus struct {
	client *salesforce.Client
}

func NewToolBus(client *salesforce.Client) *ToolBus {
	return &ToolBus{client: client}
}

// HandleCallTool executes a tool. Connector failures come back as tool
// results with IsError set, not as RPC errors, so the agent can read them.
func (s *ToolBus) HandleCallTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcp.CallToolParams
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, &mcp.Error{Code: mcp.ErrInvalidParams, Message: "Invalid params"}
	}

	switch req.Name {
	case ToolQuery:
		return s.handleQuery(ctx, req)
	case ToolSObjects:
		return s.handleSObjects(ctx, req)
	case ToolRecent:
		return s.handleRecent(ctx, req)
	case ToolSearch:
		return s.handleSearch(ctx, req)
	case ToolDescribe:
		return s.handleDescribe(ctx, req)
	case ToolCreate:
		return s.handleCreate(ctx, req)
	case ToolUpdate:
		return s.handleUpdate(ctx, req)
	case ToolDelete:
		return s.handleDelete(ctx, req)
	case ToolRelationships:
		return s.handleRelationships(ctx, req)
	case ToolLookup:
		return s.handleLookup(ctx, req)
	case ToolHierarchy:
		return s.handleHierarchy(ctx, req)
	case ToolAggregate:
		return s.handleAggregate(ctx, req)
	case ToolReports:
		return s.handleReports(ctx, req)
	case ToolTrendAnalysis:
		return s.handleTrendAnalysis(ctx, req)
	case ToolPipeline:
		return s.handlePipeline(ctx, req)
	case ToolCaseInsights:
		return s.handleCaseInsights(ctx, req)
	case ToolLeadFunnel:
		return s.handleLeadFunnel(ctx, req)
	}

	return nil, &mcp.Error{Code: mcp.ErrMethodNotFound, Message: fmt.Sprintf("Tool '%s' not found", req.Name)}
}

// textResult formats data as an indented JSON tool result.
func textResult(data interface{}) mcp.CallToolResult {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("failed to format result: %w", err))
	}
	return mcp.CallToolResult{
		Content: []mcp.Content{{Type: "text", Text: string(jsonBytes)}},
	}
}

func errorResult(err error) mcp.CallToolResult {
	return mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
	}
}

func missingArg(name string) mcp.CallToolResult {
	return mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{{Type: "text", Text: fmt.Sprintf("%s required", name)}},
	}
}

// argument helpers: MCP arguments arrive as decoded JSON, so numbers are
// float64 and arrays are []interface{}.

func stringArg(req mcp.CallToolParams, key string) string {
	val, _ := req.Arguments[key].(string)
	return val
}

func intArg(req mcp.CallToolParams, key string, fallback int) int {
	if val, ok := req.Arguments[key].(float64); ok {
		return int(val)
	}
	return fallback
}

func boolArg(req mcp.CallToolParams, key string) bool {
	val, _ := req.Arguments[key].(bool)
	return val
}

func stringSliceArg(req mcp.CallToolParams, key string) []string {
	raw, ok := req.Arguments[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// aggregateSpecsArg decodes the aggregates/metrics argument: an array of
// {function, field, alias} objects.
func aggregateSpecsArg(req mcp.CallToolParams, key string) []salesforce.AggregateSpec {
	raw, ok := req.Arguments[key].([]interface{})
	if !ok {
		return nil
	}
	specs := make([]salesforce.AggregateSpec, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		spec := salesforce.AggregateSpec{}
		if fn, ok := m["function"].(string); ok {
			spec.Function = fn
		}
		if field, ok := m["field"].(string); ok {
			spec.Field = field
		}
		if alias, ok := m["alias"].(string); ok {
			spec.Alias = alias
		}
		specs = append(specs, spec)
	}
	return specs
}
