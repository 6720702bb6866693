package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	latticehttp "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matrixInspector implements ports.MatrixInspector over a domain.Matrix.
type matrixInspector struct {
	m     *domain.Matrix
	store ports.RunStore
}

func (i *matrixInspector) Environments() ([]domain.Selector, error) { return i.m.Environments() }

func (i *matrixInspector) Groups() []domain.TestGroup {
	var out []domain.TestGroup
	for _, n := range i.m.Groups.Names() {
		g, _ := i.m.Groups.Get(n)
		out = append(out, g)
	}
	return out
}

func (i *matrixInspector) Plan(selector string, posargs []string) (domain.Plan, error) {
	sel, err := i.m.Resolve(selector)
	if err != nil {
		return domain.Plan{}, err
	}
	return i.m.Plan(sel, posargs)
}

func (i *matrixInspector) LintPaths(paths []string) ([]string, error) { return paths, nil }

func (i *matrixInspector) Runs() ports.RunStore { return i.store }

func newInspector(t *testing.T, store ports.RunStore) *matrixInspector {
	t.Helper()
	catalog, err := domain.NewCatalog(
		domain.TestGroup{Name: "flakes", Commands: []domain.Command{{Line: "flake8"}}},
		domain.TestGroup{Name: "unit", Deps: []string{"pytest"}, Commands: []domain.Command{{Line: "pytest {posargs}"}}},
	)
	require.NoError(t, err)
	return &matrixInspector{
		m: &domain.Matrix{
			Axes:           []domain.Axis{{Name: domain.AxisInterpreter, Values: []string{"py36"}}},
			EnvList:        []string{"py36-{flakes,unit}-default-dev"},
			Groups:         catalog,
			InstallCommand: "pip install {deps}",
		},
		store: store,
	}
}

func get(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func TestHandler_Health(t *testing.T) {
	h := latticehttp.NewHandler(newInspector(t, nil))

	var body map[string]string
	w := get(t, h, "/healthz", &body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_Environments(t *testing.T) {
	h := latticehttp.NewHandler(newInspector(t, nil))

	var envs []latticehttp.Environment
	w := get(t, h, "/environments", &envs)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, envs, 2)
	assert.Equal(t, "py36-flakes-default-dev", envs[0].Name)
	assert.Equal(t, "unit", envs[1].Group)
}

func TestHandler_Groups(t *testing.T) {
	h := latticehttp.NewHandler(newInspector(t, nil))

	var groups []domain.TestGroup
	get(t, h, "/groups", &groups)
	require.Len(t, groups, 2)
	assert.Equal(t, "flakes", groups[0].Name)
}

func TestHandler_Plan(t *testing.T) {
	h := latticehttp.NewHandler(newInspector(t, nil))

	var plan domain.Plan
	w := get(t, h, "/plan/py36-unit-default-dev?posargs=-x&posargs=-q", &plan)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "pip install pytest", plan.Steps[0].Line)
	assert.Equal(t, "pytest -x -q", plan.Steps[1].Line)

	tests := map[string]int{
		"/plan/py36-bogus-default-dev": http.StatusNotFound,
		"/plan/py99-unit-default-dev":  http.StatusNotFound,
		"/plan/py36-unit":              http.StatusBadRequest,
	}
	for path, code := range tests {
		var e latticehttp.ErrorResponse
		w := get(t, h, path, &e)
		assert.Equal(t, code, w.Code, path)
		assert.NotEmpty(t, e.Error, path)
	}
}

func TestHandler_Runs(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), &domain.RunRecord{ID: "r1", Selector: "py36-unit-default-dev", Status: domain.RunPassed}))
	h := latticehttp.NewHandler(newInspector(t, store))

	var ids []string
	get(t, h, "/runs", &ids)
	assert.Equal(t, []string{"r1"}, ids)

	var rec domain.RunRecord
	w := get(t, h, "/runs/r1", &rec)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RunPassed, rec.Status)

	w = get(t, h, "/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_RunsWithoutHistory(t *testing.T) {
	h := latticehttp.NewHandler(newInspector(t, nil))

	var ids []string
	w := get(t, h, "/runs", &ids)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ids)

	w = get(t, h, "/runs/x", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("lattice_runs_total 1\n"))
	})
	h := latticehttp.NewHandler(newInspector(t, nil), latticehttp.WithMetricsHandler(metrics))

	w := get(t, h, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lattice_runs_total")
}

func TestHandler_ReadOnly(t *testing.T) {
	h := latticehttp.NewHandler(newInspector(t, nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/plan/py36-unit-default-dev", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, latticehttp.StatusFor(errors.New("boom")))
	assert.Equal(t, http.StatusUnprocessableEntity, latticehttp.StatusFor(domain.ErrCompositeCycle))
}
