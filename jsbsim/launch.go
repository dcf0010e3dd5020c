package jsbsim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/mark-goodall/jsbsim-go/internal/procgroup"
)

// readyMarker is the line fragment JSBSim prints on stdout once
// initialization is complete and the console socket is (about to be)
// accepting connections.
const readyMarker = "JSBSim Execution beginning"

// launchedProcess wraps a simulator subprocess spawned by Launch.
type launchedProcess struct {
	cmd *exec.Cmd
}

// buildArgs builds the deterministic simulator argument set from a config.
// Optional fields are omitted entirely rather than passed empty.
func buildArgs(cfg LaunchConfig) []string {
	args := []string{
		fmt.Sprintf("--simulation-rate=%d", cfg.SimRateHz),
		"--root=" + cfg.RootDir,
	}

	if cfg.Aircraft != "" {
		args = append(args, "--aircraft="+cfg.Aircraft)
	}

	if cfg.InitScript != "" {
		args = append(args, "--initfile="+cfg.InitScript)
	}

	if cfg.Script != "" {
		args = append(args, "--script="+cfg.Script)
	}

	if cfg.SuspendOnStart {
		args = append(args, "--suspend")
	}

	if cfg.Realtime {
		args = append(args, "--realtime")
	}

	return args
}

// launchProcess spawns the simulator and blocks until it announces
// readiness on stdout. The stdout stream is not drained past the readiness
// marker. If the stream ends before the marker appears, the process is
// reaped and a LaunchError is returned.
func launchProcess(ctx context.Context, cfg LaunchConfig, log *slog.Logger) (*launchedProcess, error) {
	if cfg.SimRateHz <= 0 {
		return nil, &LaunchError{Message: fmt.Sprintf("simulation rate must be positive, got %d", cfg.SimRateHz)}
	}

	cmd := exec.CommandContext(ctx, cfg.Executable, buildArgs(cfg)...)
	procgroup.Set(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &LaunchError{Message: "failed to create stdout pipe", Cause: err}
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &ExecutableNotFoundError{Path: cfg.Executable, Cause: err}
		}
		return nil, &LaunchError{Message: "failed to start simulator process", Cause: err}
	}

	log.Debug("simulator process started", "executable", cfg.Executable, "pid", cmd.Process.Pid)

	p := &launchedProcess{cmd: cmd}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), readyMarker) {
			log.Debug("simulator announced readiness")
			return p, nil
		}
	}

	// EOF (or a read error) before the readiness marker: the simulator
	// exited during initialization. Reap it and fail the launch.
	p.shutdown(log)
	if err := scanner.Err(); err != nil {
		return nil, &LaunchError{Message: "reading simulator output", Cause: err}
	}
	return nil, &LaunchError{Message: "simulator exited before announcing readiness"}
}

// shutdown terminates the process group and waits for the child:
// SIGTERM, a short grace period, then SIGKILL for a simulator that will
// not die. It tolerates a process that already exited (e.g. after a
// graceful quit) and reports an unclean exit status through the logger
// rather than an error; teardown has no caller to propagate to.
func (p *launchedProcess) shutdown(log *slog.Logger) {
	if p == nil || p.cmd == nil {
		return
	}

	done := make(chan error, 1)
	go func() {
		done <- p.cmd.Wait()
	}()

	_ = procgroup.SignalGroup(p.cmd.Process, syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		_ = procgroup.KillGroup(p.cmd.Process)
		<-done
	}

	if !p.cmd.ProcessState.Success() {
		log.Warn("simulator process did not exit cleanly", "state", p.cmd.ProcessState.String())
	}
}
