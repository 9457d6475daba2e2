package config

// Default configuration values.
const (
	DefaultSQL        = "SELECT ..."
	DefaultQueryLimit = 1000
	DefaultMaxLimit   = 100000
)

// ApplyDefaults applies default values to an SQLLabConfig.
func ApplyDefaults(c *SQLLabConfig) {
	if c == nil {
		return
	}
	if c.DefaultSQL == "" {
		c.DefaultSQL = DefaultSQL
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = DefaultQueryLimit
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = DefaultMaxLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
}
