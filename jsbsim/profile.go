package jsbsim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// launchProfile is the YAML form of a LaunchConfig. Booleans are pointers
// so an absent key keeps its default instead of being forced to false.
type launchProfile struct {
	Executable     string `yaml:"executable"`
	RootDir        string `yaml:"root"`
	Aircraft       string `yaml:"aircraft"`
	InitScript     string `yaml:"init_script"`
	Script         string `yaml:"script"`
	SimRateHz      int    `yaml:"simulation_rate_hz"`
	SuspendOnStart *bool  `yaml:"suspend_on_start"`
	Realtime       *bool  `yaml:"realtime"`
	Port           uint16 `yaml:"port"`
}

// LoadProfile reads a launch profile from a YAML file, overlaying it on
// DefaultLaunchConfig. Keys absent from the file keep their defaults.
func LoadProfile(path string) (LaunchConfig, error) {
	cfg := DefaultLaunchConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var profile launchProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return cfg, fmt.Errorf("parsing launch profile %s: %w", path, err)
	}

	if profile.Executable != "" {
		cfg.Executable = profile.Executable
	}
	if profile.RootDir != "" {
		cfg.RootDir = profile.RootDir
	}
	if profile.Aircraft != "" {
		cfg.Aircraft = profile.Aircraft
	}
	if profile.InitScript != "" {
		cfg.InitScript = profile.InitScript
	}
	if profile.Script != "" {
		cfg.Script = profile.Script
	}
	if profile.SimRateHz != 0 {
		cfg.SimRateHz = profile.SimRateHz
	}
	if profile.SuspendOnStart != nil {
		cfg.SuspendOnStart = *profile.SuspendOnStart
	}
	if profile.Realtime != nil {
		cfg.Realtime = *profile.Realtime
	}
	if profile.Port != 0 {
		cfg.Port = profile.Port
	}

	return cfg, nil
}
