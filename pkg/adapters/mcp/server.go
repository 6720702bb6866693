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

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MatrixURI is the resource exposing the whole matrix.
const MatrixURI = "lattice://matrix"

// EnvironmentList is the output of list_environments.
type EnvironmentList struct {
	Environments []string `json:"environments" jsonschema_description:"Canonical selectors, interpreter-group-variant-mode"`
}

// GroupList is the output of list_groups.
type GroupList struct {
	Groups []domain.TestGroup `json:"groups" jsonschema_description:"Declared test groups in declaration order"`
}

// LintResult is the output of lint_paths.
type LintResult struct {
	Kept []string `json:"kept" jsonschema_description:"Paths static analysis should look at"`
}

// PlanArgs are the arguments of resolve_plan.
type PlanArgs struct {
	Selector string `json:"selector"`
	Posargs  string `json:"posargs,omitempty"`
}

// LintArgs are the arguments of lint_paths.
type LintArgs struct {
	Paths string `json:"paths"`
}

// Server exposes a MatrixInspector as an MCP server. Like the HTTP API it
// never executes commands.
type Server struct {
	inspector ports.MatrixInspector
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger used by the transports.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(inspector ports.MatrixInspector, version string, opts ...Option) *Server {
	s := &Server{
		inspector: inspector,
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(version)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("MCP server shutting down (SSE)", "address", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_environments",
		mcp.WithDescription("List every environment of the test matrix."),
		mcp.WithOutputSchema[EnvironmentList](),
	), mcp.NewStructuredToolHandler(s.handleListEnvironments))

	s.mcpServer.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List the declared test groups with their deps and commands."),
		mcp.WithOutputSchema[GroupList](),
	), mcp.NewStructuredToolHandler(s.handleListGroups))

	s.mcpServer.AddTool(mcp.NewTool("resolve_plan",
		mcp.WithDescription("Resolve an environment selector into the install, setup and test steps a run would execute. Nothing is executed."),
		mcp.WithString("selector", mcp.Required(), mcp.Description("Environment selector, e.g. py36-unit-default-dev")),
		mcp.WithString("posargs", mcp.Description("Space separated arguments substituted for {posargs}")),
		mcp.WithOutputSchema[domain.Plan](),
	), mcp.NewStructuredToolHandler(s.handleResolvePlan))

	s.mcpServer.AddTool(mcp.NewTool("lint_paths",
		mcp.WithDescription("Filter paths through the lint include/exclude rule."),
		mcp.WithString("paths", mcp.Required(), mcp.Description("Paths separated by newlines or commas")),
		mcp.WithOutputSchema[LintResult](),
	), mcp.NewStructuredToolHandler(s.handleLintPaths))
}

func (s *Server) handleListEnvironments(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (EnvironmentList, error) {
	envs, err := s.inspector.Environments()
	if err != nil {
		return EnvironmentList{}, fmt.Errorf("list environments failed: %w", err)
	}
	out := EnvironmentList{Environments: make([]string, len(envs))}
	for i, sel := range envs {
		out.Environments[i] = sel.String()
	}
	return out, nil
}

func (s *Server) handleListGroups(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (GroupList, error) {
	return GroupList{Groups: s.inspector.Groups()}, nil
}

func (s *Server) handleResolvePlan(ctx context.Context, request mcp.CallToolRequest, args PlanArgs) (domain.Plan, error) {
	if strings.TrimSpace(args.Selector) == "" {
		return domain.Plan{}, fmt.Errorf("selector is required")
	}
	plan, err := s.inspector.Plan(args.Selector, strings.Fields(args.Posargs))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("resolve %s failed: %w", args.Selector, err)
	}
	return plan, nil
}

func (s *Server) handleLintPaths(ctx context.Context, request mcp.CallToolRequest, args LintArgs) (LintResult, error) {
	paths := strings.FieldsFunc(args.Paths, func(r rune) bool { return r == '\n' || r == ',' })
	for i := range paths {
		paths[i] = strings.TrimSpace(paths[i])
	}
	kept, err := s.inspector.LintPaths(paths)
	if err != nil {
		return LintResult{}, fmt.Errorf("lint failed: %w", err)
	}
	if kept == nil {
		kept = []string{}
	}
	return LintResult{Kept: kept}, nil
}

// matrixDocument is the body of the lattice://matrix resource.
type matrixDocument struct {
	Environments []string           `json:"environments"`
	Groups       []domain.TestGroup `json:"groups"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(MatrixURI, "Test matrix",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.matrixJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      MatrixURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (s *Server) matrixJSON() (string, error) {
	envs, err := s.inspector.Environments()
	if err != nil {
		return "", fmt.Errorf("failed to list environments: %w", err)
	}
	doc := matrixDocument{Groups: s.inspector.Groups()}
	for _, sel := range envs {
		doc.Environments = append(doc.Environments, sel.String())
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
