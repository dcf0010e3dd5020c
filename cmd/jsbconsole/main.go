// Command jsbconsole controls a JSBSim instance over its TCP console.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark-goodall/jsbsim-go/jsbsim"
)

var (
	addr        string
	profilePath string
	timeout     time.Duration
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "jsbconsole",
	Short: "Control a JSBSim instance over its TCP console",
	Long: `jsbconsole speaks the JSBSim TCP console protocol. It attaches to a
running simulator with --addr, or spawns one itself from a launch profile,
and exposes the console's hold/resume/iterate/get/set commands either
one-shot or through an interactive shell.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "Console address of a running simulator (host:port); spawns one when unset")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "YAML launch profile (default: built-in local testing config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-command deadline (0 blocks until the console responds)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(getCmd, setCmd, stepCmd, holdCmd, resumeCmd, shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger creates a structured logger with the configured verbosity.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// launchConfig resolves the launch configuration from flags.
func launchConfig() (jsbsim.LaunchConfig, error) {
	if profilePath != "" {
		return jsbsim.LoadProfile(profilePath)
	}
	return jsbsim.DefaultLaunchConfig(), nil
}

// openClient attaches to --addr when given, otherwise spawns a simulator
// from the launch profile.
func openClient(ctx context.Context) (*jsbsim.Client, error) {
	opts := []jsbsim.Option{
		jsbsim.WithLogger(newLogger()),
		jsbsim.WithCommandTimeout(timeout),
	}

	if addr != "" {
		return jsbsim.Dial(addr, opts...)
	}

	cfg, err := launchConfig()
	if err != nil {
		return nil, err
	}
	return jsbsim.Launch(ctx, cfg, opts...)
}
