package resilience

import "time"

// CircuitBreakerConfig is the env-driven shape shared by the upstream client
// and the backfill dispatcher.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// Normalize fills non-positive knobs from the defaults; Enabled is left as is.
func (c CircuitBreakerConfig) Normalize() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	c.FailureThreshold = positiveOr(c.FailureThreshold, defaults.FailureThreshold)
	c.HalfOpenMaxReq = positiveOr(c.HalfOpenMaxReq, defaults.HalfOpenMaxReq)
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	return c
}

func positiveOr(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}
