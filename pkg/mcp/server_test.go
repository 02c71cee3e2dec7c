package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRPC(t *testing.T, server *Server, body interface{}) Response {
	t.Helper()
	jsonBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(jsonBytes))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestServerDispatch(t *testing.T) {
	server := NewServer()
	server.Register("ping", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return "pong", nil
	})

	resp := postRPC(t, server, Request{JSONRPC: JSONRPCVersion, Method: "ping", ID: 1})
	assert.Nil(t, resp.Error)
	assert.Equal(t, "pong", resp.Result)
}

func TestServerMethodNotFound(t *testing.T) {
	server := NewServer()
	resp := postRPC(t, server, Request{JSONRPC: JSONRPCVersion, Method: "nope", ID: 1})
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrMethodNotFound, resp.Error.Code)
}

func TestServerPassesThroughMCPErrors(t *testing.T) {
	server := NewServer()
	server.Register("fail", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return nil, &Error{Code: ErrInvalidParams, Message: "bad args"}
	})

	resp := postRPC(t, server, Request{JSONRPC: JSONRPCVersion, Method: "fail", ID: "abc"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrInvalidParams, resp.Error.Code)
	assert.Equal(t, "bad args", resp.Error.Message)
}

func TestServerRejectsNonPost(t *testing.T) {
	server := NewServer()
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
