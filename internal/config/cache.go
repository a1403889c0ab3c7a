package config

import "time"

// CacheConfig controls the Redis response cache placed in front of
// record lookups.  Only records that never change after creation are
// cached (schedules, passengers, bookings); trains are always read
// fresh because booking changes their seat count.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	return c
}
