package config

import "time"

// Config holds runtime settings for the authkeeper client.
//
// Fields:
//   - APIBaseURL: base URL of the auth backend, including any path prefix.
//   - RequestTimeout: fixed per-request deadline for every API call.
//   - DatabaseDSN: path of the local SQLite database holding credentials.
//   - HealthCheckInterval: how often the client probes server reachability.
//   - Debug: enables request/response logging; leave off in production.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	DatabaseDSN         string
	HealthCheckInterval time.Duration
	Debug               bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 10 * time.Second
	c.DatabaseDSN = "authkeeper.db"
	c.HealthCheckInterval = 30 * time.Second
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
