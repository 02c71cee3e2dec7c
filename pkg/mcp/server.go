package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
)

// HandlerFunc matches the signature of an MCP method handler
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Server routes JSON-RPC methods to registered handlers. It carries no
// connector state of its own; tool semantics live in the tool bus.
type Server struct {
	handlers map[string]HandlerFunc
	mu       sync.RWMutex
}

// NewServer creates a new MCP Server
func NewServer() *Server {
	return &Server{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register registers a handler for a specific method
func (s *Server) Register(method string, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// ServeHTTP handles MCP over HTTP as plain POST JSON-RPC.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, nil, ErrParse, "Parse error")
		return
	}
	defer r.Body.Close()

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, nil, ErrParse, "Parse error")
		return
	}

	resp := s.handleRequest(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleRequest(ctx context.Context, req Request) Response {
	s.mu.RLock()
	handler, ok := s.handlers[req.Method]
	s.mu.RUnlock()

	if !ok {
		return Response{
			JSONRPC: JSONRPCVersion,
			ID:      req.ID,
			Error:   &Error{Code: ErrMethodNotFound, Message: "Method not found"},
		}
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		// Standardized MCP errors pass through untouched
		if mcpErr, ok := err.(*Error); ok {
			return Response{
				JSONRPC: JSONRPCVersion,
				ID:      req.ID,
				Error:   mcpErr,
			}
		}
		log.Printf("MCP Internal Error: %v", err)
		return Response{
			JSONRPC: JSONRPCVersion,
			ID:      req.ID,
			Error:   &Error{Code: ErrInternal, Message: fmt.Sprintf("Internal error: %v", err)},
		}
	}

	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      req.ID,
		Result:  result,
	}
}

func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, msg string) {
	resp := Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: msg},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK) // JSON-RPC errors are 200 OK HTTP
	json.NewEncoder(w).Encode(resp)
}
