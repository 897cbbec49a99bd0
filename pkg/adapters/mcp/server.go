// Package mcp exposes a workflow and its session store as a Model Context
// Protocol server, so MCP-capable clients can inspect the definition and
// the state of past and running sessions.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/ensemble"
	"github.com/aretw0/ensemble/internal/dto"
	"github.com/aretw0/ensemble/internal/presentation/graph"
	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

// Server wraps a workflow definition and session store as an MCP server.
type Server struct {
	def       *domain.WorkflowDefinition
	store     ports.SessionStore
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server for the given definition. store may be
// nil; the session tools then report that persistence is disabled.
func NewServer(def *domain.WorkflowDefinition, store ports.SessionStore) *Server {
	s := &Server{
		def:       def,
		store:     store,
		mcpServer: server.NewMCPServer("ensemble-mcp", strings.TrimSpace(ensemble.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: inspect_workflow
	s.mcpServer.AddTool(mcp.NewTool("inspect_workflow",
		mcp.WithDescription("Get the workflow definition: agents, states, transitions and exit conditions."),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(dto.FromDefinition(s.def))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the workflow as a Mermaid diagram. Pass session_id to overlay that session's progress."),
		mcp.WithString("session_id", mcp.Description("Optional session ID to overlay visited and current states")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var overlay *graph.Overlay
		if id := request.GetString("session_id", ""); id != "" {
			if s.store == nil {
				return mcp.NewToolResultError("session persistence is disabled"), nil
			}
			session, err := s.store.Load(ctx, id)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
			}
			overlay = graph.FromSession(session)
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(s.def, overlay)), nil
	})

	// TOOL: list_sessions
	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List the IDs of all stored sessions."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if s.store == nil {
			return mcp.NewToolResultError("session persistence is disabled"), nil
		}
		ids, err := s.store.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_session
	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the full state of one session: status, current state, decisions and turn history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The session ID to inspect")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if s.store == nil {
			return mcp.NewToolResultError("session persistence is disabled"), nil
		}
		id, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		session, err := s.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("session %q not found", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(session)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) registerResources() {
	// EXPOSE: ensemble://workflow
	s.mcpServer.AddResource(mcp.NewResource("ensemble://workflow", "Workflow Definition",
		mcp.WithMIMEType("application/json"),
	), func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(dto.FromDefinition(s.def))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal workflow: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "ensemble://workflow",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
