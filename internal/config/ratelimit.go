package config

import "os"

// RateLimitConfig controls the sliding-window admission guard applied in
// front of every endpoint.  The window is a fixed trailing 60 seconds; the
// limit is the number of requests a single client may make inside it.
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
}

// LoadRateLimitConfig reads rate limiting settings from the environment.
// Disabling the limiter turns the middleware into a pass-through.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:   envBool("RATE_LIMIT_ENABLED", true),
		PerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
	}
	if cfg.PerMinute < 1 {
		cfg.Enabled = false
	}
	return cfg
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}
