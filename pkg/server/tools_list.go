package server

import (
	"context"
	"encoding/json"

	"github.com/santorres/salesforce-fastmcp/pkg/mcp"
)

// HandleListTools returns the full Salesforce tool surface
func (s *ToolBus) HandleListTools(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var allTools []mcp.Tool

	allTools = append(allTools, mcp.Tool{
		Name:        ToolQuery,
		Description: "Execute SOQL queries against Salesforce. Use this when you already know the exact query text.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"q": map[string]interface{}{
					"type":        "string",
					"description": "The SOQL query to execute",
				},
			},
			"required": []string{"q"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolSObjects,
		Description: "List all available Salesforce objects. Use this FIRST to discover what data is available.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolRecent,
		Description: "Fetch recently accessed Salesforce records.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of recent records to return (default 20)",
				},
			},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolSearch,
		Description: "Execute SOSL searches against Salesforce. Use this when you already know the exact search text.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"q": map[string]interface{}{
					"type":        "string",
					"description": "The SOSL search query to execute",
				},
			},
			"required": []string{"q"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolDescribe,
		Description: "Get detailed metadata for a Salesforce object including fields and child relationships. Use this before building queries against an unfamiliar object.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the Salesforce object to describe (e.g., Account, Contact)",
				},
			},
			"required": []string{"object_name"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolCreate,
		Description: "Create a new record in Salesforce. Use salesforce_describe first to see required fields.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the Salesforce object (e.g., Account, Contact)",
				},
				"record_data": map[string]interface{}{
					"type":        "object",
					"description": "The field values for the new record",
				},
			},
			"required": []string{"object_name", "record_data"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolUpdate,
		Description: "Update an existing record in Salesforce.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the Salesforce object",
				},
				"record_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the record to update",
				},
				"record_data": map[string]interface{}{
					"type":        "object",
					"description": "The field values to update",
				},
			},
			"required": []string{"object_name", "record_id", "record_data"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolDelete,
		Description: "Delete a record from Salesforce. This action cannot be undone.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the Salesforce object",
				},
				"record_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the record to delete",
				},
			},
			"required": []string{"object_name", "record_id"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolRelationships,
		Description: "Get related records for a Salesforce record. Pass relationship_name for a specific relationship, or omit it to scan the first few child relationships.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the Salesforce object (e.g., Account)",
				},
				"record_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the parent record",
				},
				"relationship_name": map[string]interface{}{
					"type":        "string",
					"description": "Child object to query directly (e.g., Contact, Opportunity). Optional.",
				},
			},
			"required": []string{"object_name", "record_id"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolLookup,
		Description: "Search for records by name, email, or other fields. Full-text search with an automatic filtered-query fallback.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The object to search (e.g., Account, Contact, Lead)",
				},
				"search_term": map[string]interface{}{
					"type":        "string",
					"description": "The term to search for (e.g., \"John Smith\", \"acme\", \"john@example.com\")",
				},
				"search_fields": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Fields to project and, on fallback, match against (default [\"Name\"])",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Max results (default 10)",
				},
			},
			"required": []string{"object_name", "search_term"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolHierarchy,
		Description: "Navigate parent-child relationships. direction 'up' resolves parent reference fields, 'down' walks discovered child relationships.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The Salesforce object of the starting record",
				},
				"record_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the starting record",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down"},
					"description": "Traversal direction (default down)",
				},
			},
			"required": []string{"object_name", "record_id"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolAggregate,
		Description: "Get statistical analysis of Salesforce data: COUNT, SUM, AVG, MAX, MIN with optional grouping and filtering.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The object to aggregate (e.g., Opportunity)",
				},
				"aggregates": map[string]interface{}{
					"type":        "array",
					"description": "Aggregate expressions. Each entry: function (COUNT/SUM/AVG/MAX/MIN), field, optional alias.",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"function": map[string]interface{}{"type": "string", "description": "COUNT, SUM, AVG, MAX, or MIN"},
							"field":    map[string]interface{}{"type": "string", "description": "Field to aggregate"},
							"alias":    map[string]interface{}{"type": "string", "description": "Output alias (default FUNCTION_field)"},
						},
						"required": []string{"function", "field"},
					},
				},
				"group_by": map[string]interface{}{
					"type":        "string",
					"description": "Field to group by (e.g., StageName)",
				},
				"where_clause": map[string]interface{}{
					"type":        "string",
					"description": "Raw SOQL WHERE predicate (without the WHERE keyword)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Max result rows (default 100)",
				},
			},
			"required": []string{"object_name", "aggregates"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolReports,
		Description: "Access existing Salesforce reports. Pass report_id or report_name, or neither to list recently run reports.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"report_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the report to fetch",
				},
				"report_name": map[string]interface{}{
					"type":        "string",
					"description": "Report name to search for (partial match)",
				},
			},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolTrendAnalysis,
		Description: "Analyze trends over time: record counts or metrics bucketed by day, week, or month.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"object_name": map[string]interface{}{
					"type":        "string",
					"description": "The object to analyze (e.g., Opportunity, Case, Lead)",
				},
				"date_field": map[string]interface{}{
					"type":        "string",
					"description": "Date field to bucket on (default CreatedDate)",
				},
				"period": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"day", "week", "month"},
					"description": "Bucket granularity (default month)",
				},
				"metrics": map[string]interface{}{
					"type":        "array",
					"description": "Metrics per bucket, same shape as salesforce_aggregate aggregates (default COUNT(Id))",
					"items":       map[string]interface{}{"type": "object"},
				},
				"timeframe": map[string]interface{}{
					"type":        "integer",
					"description": "Lookback window in periods (default 6)",
				},
			},
			"required": []string{"object_name"},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolPipeline,
		Description: "Comprehensive sales pipeline analysis: stage breakdown, win/loss, conversion counts, optional forecast.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"timeframe": map[string]interface{}{
					"type":        "string",
					"description": "SOQL date literal (e.g., THIS_QUARTER, LAST_QUARTER, THIS_YEAR). Default THIS_QUARTER.",
				},
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one opportunity owner. Optional.",
				},
				"include_forecasting": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the weighted forecast query (default false)",
				},
			},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolCaseInsights,
		Description: "Support case analysis: volume, escalations, channel breakdown, owner load.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"timeframe": map[string]interface{}{
					"type":        "string",
					"description": "SOQL date literal (default THIS_MONTH)",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"description": "Filter by case priority. Optional.",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Filter by case status. Optional.",
				},
			},
		},
	})

	allTools = append(allTools, mcp.Tool{
		Name:        ToolLeadFunnel,
		Description: "Lead conversion funnel analysis by source with quality metrics and top converted opportunities.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"timeframe": map[string]interface{}{
					"type":        "string",
					"description": "SOQL date literal (default THIS_QUARTER)",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one lead source. Optional.",
				},
			},
		},
	})

	return mcp.ListToolsResult{Tools: allTools}, nil
}
