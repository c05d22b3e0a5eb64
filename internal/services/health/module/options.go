package module

import (
	"time"

	"linkmill/internal/platform/config"
)

// Options controls the rolling health window
type Options struct {
	Window      time.Duration
	SampleLimit int
	MinSample   int
}

// FromConfig reads with ENGINE_HEALTH_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ENGINE_HEALTH_")
	return Options{
		Window:      c.MayDuration("WINDOW", 24*time.Hour),
		SampleLimit: c.MayInt("SAMPLE", 20),
		MinSample:   c.MayInt("MIN_SAMPLE", 5),
	}
}
