package config

import "time"

// RateLimitConfig configures the Redis token buckets placed in front of
// login and seen-flag writes.  Each write costs one Sheets API call, so
// the write bucket also keeps the group under the API quota.
type RateLimitConfig struct {
	Enabled     bool
	Capacity    int
	RefillEvery time.Duration
	TTL         time.Duration
	Prefix      string
	Debug       bool
}

func LoadRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Capacity:    envInt("RATE_LIMIT_CAPACITY", 20),
		RefillEvery: envDur("RATE_LIMIT_REFILL_EVERY", 3*time.Second),
		TTL:         envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:      getenv("RATE_LIMIT_PREFIX", "catalog:rl"),
		Debug:       envBool("RATE_LIMIT_DEBUG", false),
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.RefillEvery <= 0 {
		def.RefillEvery = time.Second
	}
	// a bucket must outlive a full refill or it resets early
	if full := time.Duration(def.Capacity) * def.RefillEvery; def.TTL < full {
		def.TTL = full
	}
	return def
}
