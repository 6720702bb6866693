package ports

import (
	"context"
	"io"
	"time"
)

// CommandSpec describes one command to execute.
type CommandSpec struct {
	// Line is passed to the shell verbatim.
	Line string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is the complete environment of the process (KEY=VALUE).
	Env []string

	// Output receives the combined stdout/stderr as it is produced. May be nil.
	Output io.Writer

	// Timeout bounds the command. Zero means no limit beyond the context.
	Timeout time.Duration
}

// CommandResult is the outcome of a command that was started.
type CommandResult struct {
	ExitCode int
	Duration time.Duration

	// Tail holds the last bytes of the combined output.
	Tail string
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	// Run executes the command and waits for it to finish.
	// A command that runs and exits non-zero is not an error: the exit code is
	// reported in the result. Errors are reserved for commands that could not
	// be started, timed out or were cancelled through ctx.
	Run(ctx context.Context, cmd CommandSpec) (CommandResult, error)
}
