// Package config loads pane-wrangler configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (PANE_WRANGLER_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .pane-wrangler.yaml in current directory
//  2. ~/.config/pane-wrangler/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all pane-wrangler configuration.
type Config struct {
	// Session naming and geometry
	Prefix string `yaml:"prefix"` // session name prefix marking owned sessions
	Cols   int    `yaml:"cols"`   // terminal width for new sessions
	Rows   int    `yaml:"rows"`   // terminal height for new sessions

	// Agent placement
	AgentRoot string `yaml:"agent_root"` // panes cd into {agent_root}/{agentId}

	// Multiplexer call bound
	CommandTimeout string `yaml:"command_timeout"` // Go duration string; "0" disables

	// Watch dashboard
	Refresh string `yaml:"refresh"` // Go duration string, e.g. "5s"

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	CommandTimeoutDuration time.Duration `yaml:"-"`
	RefreshDuration        time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Prefix:         "wrangler",
		Cols:           220,
		Rows:           50,
		AgentRoot:      "./src/agents",
		CommandTimeout: "0",
		Refresh:        "5s",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	// Try to load config file
	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	// Environment variables override everything
	mergeEnv(cfg)

	// Parse durations
	var err error
	cfg.CommandTimeoutDuration, err = parseDurationOrDisable(cfg.CommandTimeout, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid command timeout %q: %w", cfg.CommandTimeout, err)
	}
	cfg.RefreshDuration, err = parseDurationOrDisable(cfg.Refresh, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".pane-wrangler.yaml"); err == nil {
		return ".pane-wrangler.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "pane-wrangler", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Prefix != "" {
		cfg.Prefix = file.Prefix
	}
	if file.Cols > 0 {
		cfg.Cols = file.Cols
	}
	if file.Rows > 0 {
		cfg.Rows = file.Rows
	}
	if file.AgentRoot != "" {
		cfg.AgentRoot = file.AgentRoot
	}
	if file.CommandTimeout != "" {
		cfg.CommandTimeout = file.CommandTimeout
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("PANE_WRANGLER_PREFIX"); v != "" {
		cfg.Prefix = v
	}
	if v := os.Getenv("PANE_WRANGLER_COLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cols = n
		}
	}
	if v := os.Getenv("PANE_WRANGLER_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Rows = n
		}
	}
	if v := os.Getenv("PANE_WRANGLER_AGENT_ROOT"); v != "" {
		cfg.AgentRoot = v
	}
	if v := os.Getenv("PANE_WRANGLER_COMMAND_TIMEOUT"); v != "" {
		cfg.CommandTimeout = v
	}
	if v := os.Getenv("PANE_WRANGLER_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
