// Package config provides configuration management for the sqllab CLI.
//
// The SQL Lab editor defaults live in internal/config and are embedded
// here under the "sqllab" key.
package config

import (
	"time"

	intconfig "github.com/leapstack-labs/sqllab/internal/config"
)

// SQLLabConfig is an alias for the shared editor defaults.
type SQLLabConfig = intconfig.SQLLabConfig

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string       `koanf:"state_path" yaml:"state_path"`
	Verbose      bool         `koanf:"verbose" yaml:"verbose"`
	OutputFormat string       `koanf:"output" yaml:"output"`
	LogFormat    string       `koanf:"log_format" yaml:"log_format"`
	Server       ServerConfig `koanf:"server" yaml:"server"`
	SQLLab       SQLLabConfig `koanf:"sqllab" yaml:"sqllab"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port int `koanf:"port" yaml:"port"`
	// SessionSecret signs session cookies. ${VAR} references are expanded.
	SessionSecret   string        `koanf:"session_secret" yaml:"session_secret"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
	Watch           bool          `koanf:"watch" yaml:"watch"`
}

// Default configuration values.
const (
	DefaultStateFile       = ".sqllab/state.db"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat       = "text"
	DefaultPort            = 8088
	DefaultShutdownTimeout = 5 * time.Second
)

// Default returns a Config populated with default values.
func Default() *Config {
	cfg := &Config{
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		Server: ServerConfig{
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
	intconfig.ApplyDefaults(&cfg.SQLLab)
	return cfg
}
