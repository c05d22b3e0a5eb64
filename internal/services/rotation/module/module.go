// Package module wires the rotation coordinator and exposes its ports
package module

import (
	"linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	pickerdom "linkmill/internal/services/picker/domain"
	dom "linkmill/internal/services/rotation/domain"
	"linkmill/internal/services/rotation/repo"
	"linkmill/internal/services/rotation/service"
)

// Module defines the rotation module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the rotation module. Usage and selector collaborators are
// wired by the caller since their modules own them
func New(deps modkit.Deps, usage dom.UsageSource, selector pickerdom.SelectorPort) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.NewService(deps.PG, repo.NewPG(), usage, selector, deps.Clock, service.Config{
		RelaxStep: opts.RelaxStep,
	}, &deps.Log)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Rotator: svc}
	return m
}

// Service returns the concrete service for sibling module wiring
func (m *Module) Service() *service.Svc { return m.svc }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "rotation" }

// Prefix returns the module mount prefix (none, rotation has no HTTP surface)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
