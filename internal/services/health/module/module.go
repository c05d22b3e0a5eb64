// Package module wires the health service and exposes its ports
package module

import (
	"linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	"linkmill/internal/services/health/repo"
	"linkmill/internal/services/health/service"
)

// Module defines the health module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the health module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)

	if overrides.Window != 0 {
		opts.Window = overrides.Window
	}
	if overrides.SampleLimit != 0 {
		opts.SampleLimit = overrides.SampleLimit
	}
	if overrides.MinSample != 0 {
		opts.MinSample = overrides.MinSample
	}

	svc := service.NewService(deps.PG, repo.NewPG(), deps.Clock, service.Config{
		Window:      opts.Window,
		SampleLimit: opts.SampleLimit,
		MinSample:   opts.MinSample,
	}, &deps.Log)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Store: svc}
	return m
}

// Service returns the concrete service for sibling module wiring
func (m *Module) Service() *service.Svc { return m.svc }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "health" }

// Prefix returns the module mount prefix (none, health has no HTTP surface)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
