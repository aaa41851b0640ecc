package schema

import (
	"errors"
	"os"
	"time"
)

// ServiceConfig defines defaults and limits for the core service.
type ServiceConfig struct {
	// LogMaxEntries caps the run log buffer; oldest entries are evicted.
	LogMaxEntries int
	// MaxOutputLines caps stored output per terminal command.
	MaxOutputLines int
	// HistoryMax caps the global command history.
	HistoryMax int
	// MaxSessions caps concurrently open terminal sessions.
	MaxSessions int
	// SessionSoftLimit is the command count that triggers compaction.
	SessionSoftLimit int
	// SessionKeepCount is how many recent commands compaction retains.
	SessionKeepCount int
	// SweepInterval is the period of the background compaction sweep.
	SweepInterval time.Duration
	// WorkingDir is the initial working directory for runs and sessions.
	WorkingDir string
}

const (
	// DefaultLogMaxEntries is the default run log buffer limit.
	DefaultLogMaxEntries = 2000
	// DefaultMaxOutputLines is the default per-command output limit.
	DefaultMaxOutputLines = 1000
	// DefaultHistoryMax is the default global history limit.
	DefaultHistoryMax = 100
	// DefaultMaxSessions is the default open session cap.
	DefaultMaxSessions = 32
	// DefaultSessionSoftLimit is the command count that triggers compaction.
	DefaultSessionSoftLimit = 75
	// DefaultSessionKeepCount is how many commands compaction retains.
	DefaultSessionKeepCount = 50
	// DefaultSweepInterval is the default background sweep period.
	DefaultSweepInterval = time.Minute
	// CompactOutputCeiling bounds retained output per command after compaction.
	CompactOutputCeiling = 200
)

// RetainedOutputLines returns the per-command output cap applied by
// compaction: min(MaxOutputLines, CompactOutputCeiling).
func (c ServiceConfig) RetainedOutputLines() int {
	if c.MaxOutputLines < CompactOutputCeiling {
		return c.MaxOutputLines
	}
	return CompactOutputCeiling
}

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.LogMaxEntries <= 0 {
		cfg.LogMaxEntries = DefaultLogMaxEntries
	}
	if cfg.MaxOutputLines <= 0 {
		cfg.MaxOutputLines = DefaultMaxOutputLines
	}
	if cfg.HistoryMax <= 0 {
		cfg.HistoryMax = DefaultHistoryMax
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.SessionSoftLimit <= 0 {
		cfg.SessionSoftLimit = DefaultSessionSoftLimit
	}
	if cfg.SessionKeepCount <= 0 {
		cfg.SessionKeepCount = DefaultSessionKeepCount
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.WorkingDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ServiceConfig{}, err
		}
		cfg.WorkingDir = home
	}
	if cfg.SessionKeepCount > cfg.SessionSoftLimit {
		return ServiceConfig{}, errors.New("session keep count must not exceed soft limit")
	}
	return cfg, nil
}
