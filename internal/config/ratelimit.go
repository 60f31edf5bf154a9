package config

import (
    "os"
    "time"
)

// RateLimitConfig controls the token-bucket limiter guarding the login
// and registration form posts. Keys are built from client IP and route;
// state lives in Redis so the limit holds across instances.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimitConfig reads the limiter settings from environment
// variables, clamping nonsensical values to safe minimums. The defaults
// allow a short burst of form posts and then one attempt per second,
// which is generous for a human and hostile to a credential stuffer.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        boolOr("RATE_LIMIT_ENABLED", true),
        Capacity:       intOr("RATE_LIMIT_CAPACITY", 10),
        RefillTokens:   intOr("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: durOr("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            durOr("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         strOr("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // Keep bucket state around long enough to be meaningful between bursts.
    if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
        cfg.TTL = minTTL
    }
    return cfg
}

func strOr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func durOr(key string, def time.Duration) time.Duration {
    if v := os.Getenv(key); v != "" {
        if d, err := time.ParseDuration(v); err == nil {
            return d
        }
    }
    return def
}
