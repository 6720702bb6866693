package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/ports"
)

// DefaultTailSize is how much trailing output is kept in a CommandResult.
const DefaultTailSize = 4 << 10

// Runner implements ports.CommandRunner by handing each line to a shell.
type Runner struct {
	shell     string
	shellArgs []string
	tailSize  int
	waitDelay time.Duration
}

var _ ports.CommandRunner = (*Runner)(nil)

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithShell replaces the default "sh -c" interpreter. The command line is
// appended as the last argument.
func WithShell(shell string, args ...string) RunnerOption {
	return func(r *Runner) {
		r.shell = shell
		r.shellArgs = args
	}
}

// WithTailSize sets how many trailing bytes of output are kept.
func WithTailSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.tailSize = n
		}
	}
}

// WithWaitDelay bounds how long output pipes are drained after the process
// is killed, so grandchildren holding the pipes cannot hang a run.
func WithWaitDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.waitDelay = d
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		shell:     "sh",
		shellArgs: []string{"-c"},
		tailSize:  DefaultTailSize,
		waitDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command line and waits for it.
func (r *Runner) Run(ctx context.Context, spec ports.CommandSpec) (ports.CommandResult, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.shellArgs...), spec.Line)
	cmd := exec.CommandContext(ctx, r.shell, args...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	cmd.WaitDelay = r.waitDelay
	configureProcessGroup(cmd)

	tail := newTailBuffer(r.tailSize)
	var out io.Writer = tail
	if spec.Output != nil {
		out = io.MultiWriter(tail, spec.Output)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err := cmd.Run()
	result := ports.CommandResult{
		Duration: time.Since(start),
		Tail:     tail.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("command %q interrupted: %w", spec.Line, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, fmt.Errorf("failed to start command %q: %w", spec.Line, err)
	}
	return result, nil
}

// tailBuffer keeps the last n bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newTailBuffer(n int) *tailBuffer {
	return &tailBuffer{max: n}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
