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

	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

const componentsURI = "zonecheck://components"

// Engine defines what the MCP server needs from the zonecheck engine.
type Engine interface {
	Check(ctx context.Context, query string) (*domain.Verdict, error)
	Components() ([]string, error)
	Component(name string) (*domain.Component, error)
}

// CheckArgs are the arguments of the check_query tool.
type CheckArgs struct {
	Query string `json:"query"`
}

// ComponentArgs are the arguments of the get_component tool.
type ComponentArgs struct {
	Name string `json:"name"`
}

// ComponentList is the result of the list_components tool.
type ComponentList struct {
	Components []string `json:"components" jsonschema_description:"Names of the available components"`
}

// Server wraps the zonecheck Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("zonecheck-mcp", strings.TrimSpace(zonecheck.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the protocol over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	checkTool := mcp.NewTool("check_query",
		mcp.WithDescription("Answer a zonecheck query. Kinds: refinement (A <= B), consistency, determinism, "+
			"reachability (S -> [locations](constraint); [locations](constraint)). "+
			"Systems combine components with || (composition), && (conjunction) and \\\\ (quotient)."),
		mcp.WithString("query", mcp.Required(), mcp.Description(`The query, e.g. "refinement: Administration <= (Spec \\ Researcher) \\ Machine"`)),
		mcp.WithOutputSchema[domain.Verdict](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheck))

	listTool := mcp.NewTool("list_components",
		mcp.WithDescription("List the names of the available components."),
		mcp.WithOutputSchema[ComponentList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("get_component",
		mcp.WithDescription("Get the definition of one component: clocks, locations and edges."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ComponentArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		c, err := s.engine.Component(args.Name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		jsonBytes, _ := json.Marshal(c)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args CheckArgs) (domain.Verdict, error) {
	if strings.TrimSpace(args.Query) == "" {
		return domain.Verdict{}, fmt.Errorf("query is required")
	}
	v, err := s.engine.Check(ctx, args.Query)
	if err != nil {
		slog.Warn("MCP check rejected", "query", args.Query, "err", err)
		return domain.Verdict{}, fmt.Errorf("check failed: %w", err)
	}
	return *v, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ComponentList, error) {
	names, err := s.engine.Components()
	if err != nil {
		return ComponentList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ComponentList{Components: names}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(componentsURI, "Available Components",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.engine.Components()
		if err != nil {
			return nil, fmt.Errorf("failed to list components: %w", err)
		}
		components := make([]*domain.Component, 0, len(names))
		for _, name := range names {
			c, err := s.engine.Component(name)
			if err != nil {
				return nil, err
			}
			components = append(components, c)
		}
		jsonBytes, _ := json.Marshal(components)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      componentsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
