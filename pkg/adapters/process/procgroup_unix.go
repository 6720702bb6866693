//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the shell in its own process group so that
// cancellation kills the whole tree, not only the shell.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
