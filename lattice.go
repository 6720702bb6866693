package lattice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/adapters/process"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lint"
	"github.com/aretw0/lattice/pkg/ports"
)

// Version is the lattice release, overridden at build time with -ldflags.
var Version = "0.4.0"

// Engine is the high-level entry point for the lattice library.
// It owns a loaded matrix and knows how to plan, run and lint against it.
type Engine struct {
	matrix   *domain.Matrix
	loader   ports.MatrixLoader
	runner   ports.CommandRunner
	store    ports.RunStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	output   io.Writer
	environ  func() []string
	timeout  time.Duration
	lint     *lint.Filter
	executor *runtime.Executor

	// Name is the directory holding the latticefile, used as a log label.
	Name string
}

var _ ports.MatrixInspector = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLoader injects a custom MatrixLoader instead of the latticefile reader.
func WithLoader(l ports.MatrixLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithMatrix uses an already built matrix. The path given to New is ignored.
func WithMatrix(m *domain.Matrix) Option {
	return func(e *Engine) {
		e.matrix = m
	}
}

// WithCommandRunner replaces the default "sh -c" process runner.
func WithCommandRunner(r ports.CommandRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithRunStore enables run history.
func WithRunStore(s ports.RunStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes runs of the same environment across processes.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithOutput streams command output to w.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.output = w
	}
}

// WithEnviron replaces os.Environ as the source of pass-through variables.
func WithEnviron(fn func() []string) Option {
	return func(e *Engine) {
		e.environ = fn
	}
}

// WithCommandTimeout bounds every command. Zero disables the limit.
func WithCommandTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New loads the latticefile at path and prepares an engine around it.
// With WithMatrix or WithLoader the path may be empty.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.matrix == nil {
		if eng.loader == nil {
			eng.loader = config.NewLoader()
		}
		m, err := eng.loader.Load(path)
		if err != nil {
			return nil, err
		}
		eng.matrix = m
	} else if err := eng.matrix.Validate(); err != nil {
		return nil, err
	}

	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			eng.Name = filepath.Base(filepath.Dir(abs))
		}
	}

	filter, err := lint.New(eng.matrix.Lint)
	if err != nil {
		return nil, err
	}
	eng.lint = filter

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("project", eng.Name)
	}
	if eng.runner == nil {
		eng.runner = process.NewRunner()
	}

	eng.executor = runtime.NewExecutor(eng.runner,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithOutput(eng.output),
		runtime.WithRunStore(eng.store),
		runtime.WithLocker(eng.locker, eng.lockTTL),
		runtime.WithEnviron(eng.environ),
		runtime.WithCommandTimeout(eng.timeout),
	)
	return eng, nil
}

// Matrix returns the loaded descriptor.
func (e *Engine) Matrix() *domain.Matrix {
	return e.matrix
}

// Environments lists every environment of the matrix.
func (e *Engine) Environments() ([]domain.Selector, error) {
	return e.matrix.Environments()
}

// Groups lists the declared test groups in declaration order.
func (e *Engine) Groups() []domain.TestGroup {
	names := e.matrix.Groups.Names()
	out := make([]domain.TestGroup, 0, len(names))
	for _, name := range names {
		g, _ := e.matrix.Groups.Get(name)
		out = append(out, g)
	}
	return out
}

// Resolve parses and checks a selector against the matrix.
func (e *Engine) Resolve(selector string) (domain.Selector, error) {
	return e.matrix.Resolve(selector)
}

// Plan resolves a selector into the steps Run would execute, without running anything.
func (e *Engine) Plan(selector string, posargs []string) (domain.Plan, error) {
	sel, err := e.matrix.Resolve(selector)
	if err != nil {
		return domain.Plan{}, err
	}
	return e.matrix.Plan(sel, posargs)
}

// Run installs and runs one environment. Selector problems are reported
// before any command runs, with a nil record.
func (e *Engine) Run(ctx context.Context, selector string, posargs []string) (*domain.RunRecord, error) {
	plan, err := e.Plan(selector, posargs)
	if err != nil {
		return nil, err
	}
	return e.executor.Execute(ctx, plan)
}

// RunAll runs several environments one after another; an empty list means
// every environment of the matrix. All selectors are resolved up front. With
// failFast the first failed environment stops the rest. The returned error
// joins the error of every failed environment.
func (e *Engine) RunAll(ctx context.Context, selectors []string, posargs []string, failFast bool) ([]*domain.RunRecord, error) {
	plans, err := e.plans(selectors, posargs)
	if err != nil {
		return nil, err
	}

	var (
		records []*domain.RunRecord
		errs    []error
	)
	for _, plan := range plans {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		rec, err := e.executor.Execute(ctx, plan)
		records = append(records, rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", plan.Selector, err))
			if failFast {
				break
			}
		}
	}
	return records, errors.Join(errs...)
}

func (e *Engine) plans(selectors []string, posargs []string) ([]domain.Plan, error) {
	if len(selectors) == 0 {
		envs, err := e.matrix.Environments()
		if err != nil {
			return nil, err
		}
		for _, sel := range envs {
			selectors = append(selectors, sel.String())
		}
	}
	plans := make([]domain.Plan, 0, len(selectors))
	for _, s := range selectors {
		plan, err := e.Plan(s, posargs)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// LintPaths applies the lint rule to the given paths.
func (e *Engine) LintPaths(paths []string) ([]string, error) {
	return e.lint.Filter(paths), nil
}

// LintWalk lists the files under root that static analysis should look at.
func (e *Engine) LintWalk(ctx context.Context, root string) ([]string, error) {
	return e.lint.Walk(ctx, root)
}

// LintDiagnostics parses linter output and drops suppressed findings.
func (e *Engine) LintDiagnostics(r io.Reader) ([]lint.Diagnostic, error) {
	diags, err := lint.ParseDiagnostics(r)
	if err != nil {
		return nil, err
	}
	return e.lint.FilterDiagnostics(diags), nil
}

// Lint returns the lint filter built from the matrix rule.
func (e *Engine) Lint() *lint.Filter {
	return e.lint
}

// Runs returns the run history store, or nil when history is disabled.
func (e *Engine) Runs() ports.RunStore {
	return e.store
}
