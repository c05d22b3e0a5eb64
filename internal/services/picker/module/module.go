// Package module wires the picker service and exposes its ports
package module

import (
	"linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	"linkmill/internal/services/picker/repo"
	"linkmill/internal/services/picker/service"
)

// Module defines the picker module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the picker module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)

	if overrides.Limit != 0 {
		opts.Limit = overrides.Limit
	}

	svc := service.NewService(deps.PG, repo.NewPG(), deps.Clock, service.Config{
		Limit: opts.Limit,
	}, &deps.Log)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Selector: svc}
	return m
}

// Service returns the concrete service for sibling module wiring
func (m *Module) Service() *service.Svc { return m.svc }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "picker" }

// Prefix returns the module mount prefix (none, picker has no HTTP surface)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
