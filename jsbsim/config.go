package jsbsim

import (
	"log/slog"
	"time"
)

// LaunchConfig describes how to spawn a simulator instance. The launcher
// takes it by value; a config cannot change under a running launch.
type LaunchConfig struct {
	// Executable is the simulator binary name or path (resolved via PATH
	// when it contains no separator).
	Executable string

	// RootDir is the JSBSim data root passed as --root.
	RootDir string

	// Aircraft is the aircraft model to load on start. Empty omits the flag.
	Aircraft string

	// InitScript is the initialization script for the aircraft. Empty omits
	// the flag.
	InitScript string

	// Script is a run script to execute on start. Empty omits the flag.
	Script string

	// SimRateHz is the simulation tick rate in Hz. Must be positive. Low
	// rates are documented to be numerically unstable in JSBSim; no floor
	// is enforced here.
	SimRateHz int

	// SuspendOnStart starts the simulation in a suspended state.
	SuspendOnStart bool

	// Realtime runs the simulation in real time mode.
	Realtime bool

	// Port is the TCP console port the simulator listens on.
	Port uint16
}

// DefaultLaunchConfig returns a configuration suitable for local testing:
// a suspended Concorde at 400 Hz on port 5556.
func DefaultLaunchConfig() LaunchConfig {
	return LaunchConfig{
		Executable:     "JSBSim",
		RootDir:        "./jsbsim_root",
		Aircraft:       "Concorde",
		InitScript:     "reset00",
		SimRateHz:      400,
		SuspendOnStart: true,
		Realtime:       false,
		Port:           5556,
	}
}

// clientConfig holds Client-level configuration shared by Dial and Launch.
type clientConfig struct {
	logger *slog.Logger

	// commandTimeout bounds each command round trip via socket deadlines.
	// Zero means fully blocking, the console protocol's native behavior.
	commandTimeout time.Duration

	connectAttempts int
	connectBackoff  time.Duration
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		logger:          slog.Default(),
		connectAttempts: 10,
		connectBackoff:  100 * time.Millisecond,
	}
}

// Option is a functional option for configuring a Client.
type Option func(*clientConfig)

// WithLogger sets the structured logger used for launch traces and
// teardown diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCommandTimeout bounds every command round trip with a socket
// deadline. The zero duration restores the default behavior: block until
// the console responds.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.commandTimeout = d
	}
}

// WithConnectRetry tunes how often Launch retries the initial connection
// while the simulator's console socket comes up. Attempts below one are
// treated as a single attempt.
func WithConnectRetry(attempts int, backoff time.Duration) Option {
	return func(c *clientConfig) {
		if attempts < 1 {
			attempts = 1
		}
		c.connectAttempts = attempts
		c.connectBackoff = backoff
	}
}
