package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/termdeck/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	Runner        RunnerConfig  `mapstructure:"runner" yaml:"runner"`
	Sandbox       SandboxConfig `mapstructure:"sandbox" yaml:"sandbox"`
	Service       ServiceConfig `mapstructure:"service" yaml:"service"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// RunnerConfig configures the wrapped tool binary.
type RunnerConfig struct {
	Binary string            `mapstructure:"binary" yaml:"binary"`
	Args   []string          `mapstructure:"args" yaml:"args"`
	Env    map[string]string `mapstructure:"env" yaml:"env"`
}

// SandboxConfig points at the sandbox settings file.
type SandboxConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ServiceConfig controls core service behavior.
type ServiceConfig struct {
	LogMaxEntries        int    `mapstructure:"log_max_entries" yaml:"log_max_entries"`
	MaxOutputLines       int    `mapstructure:"max_output_lines" yaml:"max_output_lines"`
	HistoryMax           int    `mapstructure:"history_max" yaml:"history_max"`
	MaxSessions          int    `mapstructure:"max_sessions" yaml:"max_sessions"`
	SessionSoftLimit     int    `mapstructure:"session_soft_limit" yaml:"session_soft_limit"`
	SessionKeepCount     int    `mapstructure:"session_keep_count" yaml:"session_keep_count"`
	SweepIntervalSeconds int    `mapstructure:"sweep_interval_seconds" yaml:"sweep_interval_seconds"`
	WorkingDir           string `mapstructure:"working_dir" yaml:"working_dir"`
}

// ServiceConfig converts the file representation to the core config.
func (c Config) ServiceConfig() schema.ServiceConfig {
	return schema.ServiceConfig{
		LogMaxEntries:    c.Service.LogMaxEntries,
		MaxOutputLines:   c.Service.MaxOutputLines,
		HistoryMax:       c.Service.HistoryMax,
		MaxSessions:      c.Service.MaxSessions,
		SessionSoftLimit: c.Service.SessionSoftLimit,
		SessionKeepCount: c.Service.SessionKeepCount,
		SweepInterval:    time.Duration(c.Service.SweepIntervalSeconds) * time.Second,
		WorkingDir:       c.Service.WorkingDir,
	}
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Runner: RunnerConfig{
			Binary: "elizaos",
			Args:   []string{},
			Env:    map[string]string{},
		},
		Sandbox: SandboxConfig{
			Path: filepath.Join(home, ".termdeck", "sandbox.json"),
		},
		Service: ServiceConfig{
			LogMaxEntries:        schema.DefaultLogMaxEntries,
			MaxOutputLines:       schema.DefaultMaxOutputLines,
			HistoryMax:           schema.DefaultHistoryMax,
			MaxSessions:          schema.DefaultMaxSessions,
			SessionSoftLimit:     schema.DefaultSessionSoftLimit,
			SessionKeepCount:     schema.DefaultSessionKeepCount,
			SweepIntervalSeconds: int(schema.DefaultSweepInterval / time.Second),
			WorkingDir:           home,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termdeck", "config.yaml"), nil
}
