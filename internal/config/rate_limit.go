package config

import "time"

// RateLimitConfig configures the per-client request limiter. Max 0 disables it.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

func (c RateLimitConfig) Enabled() bool {
	return c.Max > 0
}
