package module

import (
	"context"

	"linkmill/internal/services/api/stats/domain"
	statssvc "linkmill/internal/services/api/stats/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptStatsPort struct{ svc statssvc.Service }

// Overview returns fleet attempt and health totals
func (a adaptStatsPort) Overview(ctx context.Context) (domain.Overview, error) {
	return a.svc.Overview(ctx)
}

// Platforms returns per-platform health rows
func (a adaptStatsPort) Platforms(ctx context.Context, in domain.PlatformsInput) ([]domain.PlatformRow, error) {
	return a.svc.Platforms(ctx, in)
}
