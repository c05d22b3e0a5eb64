package module

import "linkmill/internal/platform/config"

// Options controls rotation fallback behavior
type Options struct {
	RelaxStep int
}

// FromConfig reads with ENGINE_ROTATION_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ENGINE_ROTATION_")
	return Options{
		RelaxStep: c.MayInt("RELAX_STEP", 20),
	}
}
