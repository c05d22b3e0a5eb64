package module

import "linkmill/internal/platform/config"

// Options controls selection defaults
type Options struct {
	Limit int
}

// FromConfig reads with ENGINE_PICKER_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ENGINE_PICKER_")
	return Options{
		Limit: c.MayInt("LIMIT", 25),
	}
}
