package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInspector implements ports.MatrixInspector over a fixed matrix.
type fakeInspector struct {
	m *domain.Matrix
}

func (f fakeInspector) Environments() ([]domain.Selector, error) { return f.m.Environments() }

func (f fakeInspector) Groups() []domain.TestGroup {
	g, _ := f.m.Groups.Get("unit")
	return []domain.TestGroup{g}
}

func (f fakeInspector) Plan(selector string, posargs []string) (domain.Plan, error) {
	sel, err := f.m.Resolve(selector)
	if err != nil {
		return domain.Plan{}, err
	}
	return f.m.Plan(sel, posargs)
}

func (f fakeInspector) LintPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if p != ".git/config" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeInspector) Runs() ports.RunStore { return nil }

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	catalog, err := domain.NewCatalog(domain.TestGroup{Name: "unit", Commands: []domain.Command{{Line: "pytest {posargs}"}}})
	require.NoError(t, err)
	m := &domain.Matrix{EnvList: []string{"{py36,py37}-unit-default-dev"}, Groups: catalog}
	return NewServer(fakeInspector{m: m}, " 1.0.0\n", opts...)
}

func TestListEnvironments(t *testing.T) {
	s := newTestServer(t)
	out, err := s.handleListEnvironments(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"py36-unit-default-dev", "py37-unit-default-dev"}, out.Environments)
}

func TestListGroups(t *testing.T) {
	s := newTestServer(t)
	out, err := s.handleListGroups(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, out.Groups, 1)
	assert.Equal(t, "unit", out.Groups[0].Name)
}

func TestResolvePlan(t *testing.T) {
	s := newTestServer(t)

	plan, err := s.handleResolvePlan(context.Background(), mcp.CallToolRequest{}, PlanArgs{Selector: "py37-unit-default-dev", Posargs: "-x  -q"})
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "pytest -x -q", plan.Steps[0].Line)

	_, err = s.handleResolvePlan(context.Background(), mcp.CallToolRequest{}, PlanArgs{Selector: "py36-bogus-default-dev"})
	assert.ErrorIs(t, err, domain.ErrUnknownGroup)

	_, err = s.handleResolvePlan(context.Background(), mcp.CallToolRequest{}, PlanArgs{})
	assert.Error(t, err)
}

func TestLintPaths(t *testing.T) {
	s := newTestServer(t)
	out, err := s.handleLintPaths(context.Background(), mcp.CallToolRequest{}, LintArgs{Paths: ".git/config, setup.py\nholoviews/core.py"})
	require.NoError(t, err)
	assert.Equal(t, []string{"setup.py", "holoviews/core.py"}, out.Kept)

	out, err = s.handleLintPaths(context.Background(), mcp.CallToolRequest{}, LintArgs{Paths: ".git/config"})
	require.NoError(t, err)
	assert.NotNil(t, out.Kept)
	assert.Empty(t, out.Kept)
}

func TestMatrixResource(t *testing.T) {
	s := newTestServer(t)
	text, err := s.matrixJSON()
	require.NoError(t, err)

	var doc matrixDocument
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	assert.Len(t, doc.Environments, 2)
	assert.Equal(t, "unit", doc.Groups[0].Name)
}

// syncBuffer guards a bytes.Buffer written from the listener goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServeSSE_UsesInjectedLogger(t *testing.T) {
	var out syncBuffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	s := newTestServer(t, WithLogger(logger))
	assert.Same(t, logger, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.ServeSSE(ctx, 0))
	assert.Contains(t, out.String(), "MCP server shutting down (SSE)")
}

func TestNewServer_DefaultLogger(t *testing.T) {
	s := newTestServer(t)
	assert.Same(t, slog.Default(), s.logger)
}
