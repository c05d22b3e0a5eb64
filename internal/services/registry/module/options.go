package module

import (
	"time"

	"linkmill/internal/platform/config"
)

// Options controls registry caching
type Options struct {
	CacheTTL time.Duration
}

// FromConfig reads with ENGINE_REGISTRY_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ENGINE_REGISTRY_")
	return Options{
		CacheTTL: c.MayDuration("CACHE_TTL", 5*time.Minute),
	}
}
