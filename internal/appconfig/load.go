package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("runner.binary", cfg.Runner.Binary)
	v.SetDefault("runner.args", cfg.Runner.Args)
	v.SetDefault("runner.env", cfg.Runner.Env)
	v.SetDefault("sandbox.path", cfg.Sandbox.Path)
	v.SetDefault("service.log_max_entries", cfg.Service.LogMaxEntries)
	v.SetDefault("service.max_output_lines", cfg.Service.MaxOutputLines)
	v.SetDefault("service.history_max", cfg.Service.HistoryMax)
	v.SetDefault("service.max_sessions", cfg.Service.MaxSessions)
	v.SetDefault("service.session_soft_limit", cfg.Service.SessionSoftLimit)
	v.SetDefault("service.session_keep_count", cfg.Service.SessionKeepCount)
	v.SetDefault("service.sweep_interval_seconds", cfg.Service.SweepIntervalSeconds)
	v.SetDefault("service.working_dir", cfg.Service.WorkingDir)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
		if strings.TrimSpace(v.GetString("runner.binary")) == "" {
			return Config{}, fmt.Errorf("runner.binary must not be empty")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	return cfg, nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Runner.Binary = expandEnv(cfg.Runner.Binary)
	for i, arg := range cfg.Runner.Args {
		cfg.Runner.Args[i] = expandEnv(arg)
	}
	for key, val := range cfg.Runner.Env {
		cfg.Runner.Env[key] = expandEnv(val)
	}
	cfg.Sandbox.Path = expandEnv(cfg.Sandbox.Path)
	cfg.Service.WorkingDir = expandEnv(cfg.Service.WorkingDir)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
