package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/foomo/globalcontent-mcp/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the original HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// httpRequestFromContext extracts the original HTTP request from the context
func httpRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return withHTTPRequest(ctx, r)
}

// NewMcpHTTPServer creates a streamable HTTP MCP server on endpoint
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
}

// McpHTTPSSEServer combines the MCP HTTP server with SSE endpoints
type McpHTTPSSEServer struct {
	mux       *http.ServeMux
	sseServer *MCPSSEServer
}

// NewMcpHTTPSSEServer creates a new MCP server with both HTTP and SSE capabilities
func NewMcpHTTPSSEServer(logger *zap.Logger, s *server.MCPServer, serviceInstance service.Service, endpoint string, config *SSEServerConfig) *McpHTTPSSEServer {
	sseServer := NewMCPSSEServer(logger, serviceInstance, config)

	mux := http.NewServeMux()
	mux.Handle(endpoint, NewMcpHTTPServer(s, endpoint))

	mux.HandleFunc(endpoint+"/sse", sseServer.HandleSSE)
	mux.HandleFunc(endpoint+"/sse/validate", sseServer.HandleValidateSSE)
	mux.HandleFunc(endpoint+"/sse/clients", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, map[string]interface{}{
			"connectedClients": sseServer.ClientCount(),
			"clients":          sseServer.GetConnectedClients(),
		})
	})
	mux.HandleFunc(endpoint+"/sse/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, sseServer.GetStats())
	})

	return &McpHTTPSSEServer{
		mux:       mux,
		sseServer: sseServer,
	}
}

// ServeHTTP implements http.Handler
func (s *McpHTTPSSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// GetSSEServer returns the underlying SSE server for direct access
func (s *McpHTTPSSEServer) GetSSEServer() *MCPSSEServer {
	return s.sseServer
}

func (s *McpHTTPSSEServer) Close() {
	s.sseServer.Close()
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}
