package config

import "time"

// Config holds runtime settings for the katta CLI.
//
// Fields:
//   - ServerURL: base URL of the job service HTTP API.
//   - RequestTimeout: per request timeout for API calls.
//   - SessionTTL: how long a loaded profile stays cached locally.
//   - Token: bearer token sent on mutating requests, empty for none.
//   - SigningKey: the server's HMAC secret. When set, login signs a token
//     for the chosen user instead of using Token.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	Token          string
	SigningKey     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.SessionTTL = 30 * time.Minute
	c.Token = ""
	c.SigningKey = ""
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
