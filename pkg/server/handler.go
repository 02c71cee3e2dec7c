package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/santorres/salesforce-fastmcp/pkg/mcp"
)

// NewHandler creates the HTTP handler for the MCP server
func NewHandler(bus *ToolBus) http.Handler {
	server := mcp.NewServer()

	server.Register("tools/list", bus.HandleListTools)
	server.Register("tools/call", bus.HandleCallTool)

	server.Register("ping", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return "pong", nil
	})

	log.Println("MCP Server initialized with Salesforce ToolBus")
	return server
}
