package tests

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/ports"
)

// CommandRunnerContractTest is a reusable test suite that verifies if an adapter complies with ports.CommandRunner.
// It relies on a POSIX shell and skips itself on Windows.
func CommandRunnerContractTest(t *testing.T, runner ports.CommandRunner) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("command runner contract requires a POSIX shell")
	}
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var out bytes.Buffer
		res, err := runner.Run(ctx, ports.CommandSpec{Line: "echo hello", Output: &out})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", res.ExitCode)
		}
		if !strings.Contains(out.String(), "hello") {
			t.Errorf("expected streamed output to contain hello, got %q", out.String())
		}
		if !strings.Contains(res.Tail, "hello") {
			t.Errorf("expected tail to contain hello, got %q", res.Tail)
		}
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		res, err := runner.Run(ctx, ports.CommandSpec{Line: "exit 3"})
		if err != nil {
			t.Fatalf("non-zero exit must not be an error, got %v", err)
		}
		if res.ExitCode != 3 {
			t.Errorf("expected exit code 3, got %d", res.ExitCode)
		}
	})

	t.Run("Environment", func(t *testing.T) {
		res, err := runner.Run(ctx, ports.CommandSpec{Line: `echo "$LATTICE_CONTRACT"`, Env: []string{"LATTICE_CONTRACT=visible"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(res.Tail, "visible") {
			t.Errorf("expected env var in output, got %q", res.Tail)
		}
	})

	t.Run("WorkingDirectory", func(t *testing.T) {
		dir := t.TempDir()
		res, err := runner.Run(ctx, ports.CommandSpec{Line: "pwd", Dir: dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(res.Tail, dir) {
			t.Errorf("expected pwd %q in output, got %q", dir, res.Tail)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		_, err := runner.Run(ctx, ports.CommandSpec{Line: "sleep 5", Timeout: 100 * time.Millisecond})
		if err == nil {
			t.Error("expected timeout error, got nil")
		}
	})

	t.Run("Cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := runner.Run(cctx, ports.CommandSpec{Line: "sleep 5"})
		if err == nil {
			t.Error("expected cancellation error, got nil")
		}
	})
}
