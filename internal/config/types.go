// Package config provides the SQL Lab configuration block shared by the
// CLI, the HTTP server and the bootstrap pipeline.
package config

import "github.com/leapstack-labs/sqllab/pkg/core"

// SQLLabConfig holds the editor defaults exposed to the workspace.
type SQLLabConfig struct {
	// DefaultDBID is the database preselected in new editors (0 = none).
	DefaultDBID  int64  `koanf:"default_dbid" yaml:"default_dbid"`
	DefaultLimit int    `koanf:"default_limit" yaml:"default_limit"`
	MaxLimit     int    `koanf:"max_limit" yaml:"max_limit"`
	DefaultSQL   string `koanf:"default_sql" yaml:"default_sql"`
}

// ServerConf renders the configuration block sent to the workspace.
func (c *SQLLabConfig) ServerConf() core.ServerConf {
	cfg := *c
	ApplyDefaults(&cfg)

	conf := core.ServerConf{
		core.ConfDefaultLimit: cfg.DefaultLimit,
		"SQL_MAX_ROW":         cfg.MaxLimit,
	}
	if cfg.DefaultDBID != 0 {
		conf[core.ConfDefaultDBID] = cfg.DefaultDBID
	}
	return conf
}
