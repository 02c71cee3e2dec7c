package server

import (
	"context"

	"github.com/santorres/salesforce-fastmcp/pkg/mcp"
	"github.com/santorres/salesforce-fastmcp/pkg/salesforce"
)

func (s *ToolBus) handleQuery(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	soql := stringArg(req, "q")
	if soql == "" {
		return missingArg("q"), nil
	}

	result, err := s.client.Query(ctx, soql)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleSObjects(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	result, err := s.client.SObjects(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleRecent(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 20)

	result, err := s.client.Recent(ctx, limit)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleSearch(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	sosl := stringArg(req, "q")
	if sosl == "" {
		return missingArg("q"), nil
	}

	result, err := s.client.Search(ctx, sosl)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleDescribe(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	if objectName == "" {
		return missingArg("object_name"), nil
	}

	schema, err := s.client.DescribeCached(ctx, objectName)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(schema), nil
}

func (s *ToolBus) handleCreate(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	data, okData := req.Arguments["record_data"].(map[string]interface{})
	if objectName == "" || !okData {
		return missingArg("object_name and record_data"), nil
	}

	result, err := s.client.Create(ctx, objectName, data)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result), nil
}

func (s *ToolBus) handleUpdate(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	recordID := stringArg(req, "record_id")
	data, okData := req.Arguments["record_data"].(map[string]interface{})
	if objectName == "" || recordID == "" || !okData {
		return missingArg("object_name, record_id and record_data"), nil
	}

	if err := s.client.Update(ctx, objectName, recordID, data); err != nil {
		return errorResult(err), nil
	}
	return textResult(salesforce.SObject{"success": true, "id": recordID}), nil
}

func (s *ToolBus) handleDelete(ctx context.Context, req mcp.CallToolParams) (mcp.CallToolResult, error) {
	objectName := stringArg(req, "object_name")
	recordID := stringArg(req, "record_id")
	if objectName == "" || recordID == "" {
		return missingArg("object_name and record_id"), nil
	}

	if err := s.client.Delete(ctx, objectName, recordID); err != nil {
		return errorResult(err), nil
	}
	return textResult(salesforce.SObject{"success": true, "id": recordID}), nil
}
