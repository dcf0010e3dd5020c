//go:build linux

// Package procgroup provides platform-specific subprocess configuration so
// a spawned simulator and anything it forks can be reaped as one group.
package procgroup

import (
	"os/exec"
	"syscall"
)

// Set configures a process group and parent-death signal for the simulator
// subprocess. On Linux, Pdeathsig causes the child to receive SIGTERM when
// the parent process dies (e.g. OOM kill, SIGKILL), so an abandoned
// simulator does not keep running headless.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
