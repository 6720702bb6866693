package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed holder can block an environment.
const DefaultLockTTL = 30 * time.Minute

// Executor runs plans step by step and records the outcome.
type Executor struct {
	runner  ports.CommandRunner
	store   ports.RunStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	output  io.Writer
	environ func() []string
	timeout time.Duration
	newID   func() string
	now     func() time.Time
}

// ExecutorOption configures the executor.
type ExecutorOption func(*Executor)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ExecutorOption {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOutput streams the combined command output to w.
func WithOutput(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.output = w
	}
}

// WithRunStore persists every finished run.
func WithRunStore(store ports.RunStore) ExecutorOption {
	return func(e *Executor) {
		e.store = store
	}
}

// WithLocker holds a lock on the selector for the duration of each run.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.locker = locker
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

// WithEnviron replaces os.Environ as the source of pass-through variables.
func WithEnviron(fn func() []string) ExecutorOption {
	return func(e *Executor) {
		if fn != nil {
			e.environ = fn
		}
	}
}

// WithCommandTimeout bounds every command. Zero disables the limit.
func WithCommandTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithIDGenerator overrides the run ID source.
func WithIDGenerator(fn func() string) ExecutorOption {
	return func(e *Executor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExecutor creates an executor around a command runner.
func NewExecutor(runner ports.CommandRunner, opts ...ExecutorOption) *Executor {
	e := &Executor{
		runner:  runner,
		lockTTL: DefaultLockTTL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		environ: osEnviron,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the plan and returns its record. The record is never nil,
// even when an error is returned, so callers can always report what happened.
//
// Steps run in order. A failing install step skips everything after it and
// the error wraps domain.ErrInstallFailed. A failing setup or test step skips
// the rest and wraps domain.ErrCommandFailed, unless the command ignores
// errors. Cancelling ctx kills the running command and marks the run aborted.
func (e *Executor) Execute(ctx context.Context, plan domain.Plan) (*domain.RunRecord, error) {
	sel := plan.Selector.String()
	rec := &domain.RunRecord{
		ID:        e.newID(),
		Selector:  sel,
		StartedAt: e.now(),
		Steps:     make([]domain.StepResult, 0, len(plan.Steps)),
	}
	logger := e.logger.With("run_id", rec.ID, "selector", sel)

	logger.Info("run.start", "steps", len(plan.Steps))
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{EventBase: e.base(domain.EventRunStart, rec)})
	}

	// OnRunFinish always follows OnRunStart, also when the lock is not acquired.
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, sel, e.lockTTL)
		if err != nil {
			return e.finish(ctx, logger, rec, domain.RunError, fmt.Errorf("failed to lock environment %s: %w", sel, err))
		}
		defer func() {
			// The run context may already be cancelled.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release environment lock", "error", err)
			}
		}()
	}

	env := BuildEnv(e.environ(), plan.PassEnv, plan.Env)

	var runErr error
	status := domain.RunPassed
	for i, step := range plan.Steps {
		if runErr != nil {
			rec.Steps = append(rec.Steps, domain.StepResult{
				Phase:   step.Phase,
				Group:   step.Group,
				Command: step.Line,
				Skipped: true,
			})
			continue
		}

		res, err := e.runStep(ctx, logger, rec, i, step, plan.WorkDir, env)
		rec.Steps = append(rec.Steps, res)

		switch {
		case ctx.Err() != nil:
			status = domain.RunAborted
			runErr = fmt.Errorf("run %s aborted: %w", sel, ctx.Err())
		case err != nil:
			status = domain.RunFailed
			runErr = err
		}
	}

	return e.finish(ctx, logger, rec, status, runErr)
}

func (e *Executor) runStep(ctx context.Context, logger *slog.Logger, rec *domain.RunRecord, i int, step domain.Step, dir string, env []string) (domain.StepResult, error) {
	if e.hooks.OnStepStart != nil {
		e.hooks.OnStepStart(ctx, &domain.StepEvent{EventBase: e.base(domain.EventStepStart, rec), Index: i, Step: step})
	}
	logger.Debug("step.start", "phase", step.Phase, "group", step.Group, "command", step.Line)

	out, runErr := e.runner.Run(ctx, ports.CommandSpec{
		Line:    step.Line,
		Dir:     dir,
		Env:     env,
		Output:  e.output,
		Timeout: e.timeout,
	})
	res := domain.StepResult{
		Phase:    step.Phase,
		Group:    step.Group,
		Command:  step.Line,
		ExitCode: out.ExitCode,
		Duration: out.Duration,
		Output:   out.Tail,
	}
	if runErr != nil {
		res.Error = runErr.Error()
	}

	var err error
	if runErr != nil || out.ExitCode != 0 {
		if step.IgnoreErrors && ctx.Err() == nil {
			res.Ignored = true
		} else {
			err = stepError(step, out.ExitCode, runErr)
		}
	}

	attrs := []any{"phase", step.Phase, "command", step.Line, "exit_code", res.ExitCode, "duration", res.Duration}
	switch {
	case res.Ignored:
		logger.Warn("step.finish", append(attrs, "ignored", true)...)
	case err != nil:
		logger.Error("step.finish", append(attrs, "error", err)...)
	default:
		logger.Info("step.finish", attrs...)
	}

	if e.hooks.OnStepFinish != nil {
		e.hooks.OnStepFinish(ctx, &domain.StepEvent{EventBase: e.base(domain.EventStepFinish, rec), Index: i, Step: step, Result: &res})
	}
	return res, err
}

func stepError(step domain.Step, code int, cause error) error {
	sentinel := domain.ErrCommandFailed
	if step.Phase == domain.PhaseInstall {
		sentinel = domain.ErrInstallFailed
	}
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &domain.StepError{Phase: step.Phase, Command: step.Line, ExitCode: code, Err: err}
}

func (e *Executor) finish(ctx context.Context, logger *slog.Logger, rec *domain.RunRecord, status domain.RunStatus, runErr error) (*domain.RunRecord, error) {
	rec.FinishedAt = e.now()
	rec.Status = status
	if runErr != nil {
		rec.Error = runErr.Error()
	}

	if e.store != nil {
		// Persist even when the run was cancelled.
		if err := e.store.Save(context.WithoutCancel(ctx), rec); err != nil {
			logger.Error("failed to save run", "error", err)
			runErr = errors.Join(runErr, fmt.Errorf("failed to save run %s: %w", rec.ID, err))
		}
	}

	passed, failed, skipped := rec.Counts()
	logger.Info("run.finish", "status", status, "duration", rec.Duration(), "passed", passed, "failed", failed, "skipped", skipped)
	if e.hooks.OnRunFinish != nil {
		e.hooks.OnRunFinish(ctx, &domain.RunEvent{
			EventBase: e.base(domain.EventRunFinish, rec),
			Status:    status,
			Duration:  rec.Duration(),
			Err:       runErr,
		})
	}
	return rec, runErr
}

func (e *Executor) base(t domain.EventType, rec *domain.RunRecord) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		RunID:     rec.ID,
		Selector:  rec.Selector,
	}
}
