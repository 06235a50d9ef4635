package config

import "time"

// Config holds runtime settings for the KeyGuard CLI.
//
// RoundTimeout bounds a single protocol round trip; DeviceWaitTimeout bounds
// how long the client waits for the hardware key to be inserted.
type Config struct {
	ServerAddr        string
	KeyFile           string
	RoundTimeout      time.Duration
	DeviceWaitTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:8080"
	c.KeyFile = "keyguard_key.pem"
	c.RoundTimeout = 30 * time.Second
	c.DeviceWaitTimeout = 60 * time.Second
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
