package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Overview(ctx context.Context) (Overview, error)
	Platforms(ctx context.Context, in PlatformsInput) ([]PlatformRow, error)
}
