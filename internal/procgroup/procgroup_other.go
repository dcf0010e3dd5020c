//go:build !linux

// Package procgroup provides platform-specific subprocess configuration so
// a spawned simulator and anything it forks can be reaped as one group.
package procgroup

import (
	"os/exec"
	"syscall"
)

// Set configures a process group for the simulator subprocess. Pdeathsig is
// not available off Linux; Setpgid still creates a process group, enabling
// kill -<signal> -<pgid> cleanup by the parent.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
