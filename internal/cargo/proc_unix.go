//go:build unix

package cargo

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts cargo in its own process group so that
// cancellation also reaches the rustc processes it spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
