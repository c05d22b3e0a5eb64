// Package module wires the triage service and exposes its ports
package module

import (
	"linkmill/internal/core/ruleset"
	"linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	healthdom "linkmill/internal/services/health/domain"
	"linkmill/internal/services/triage/repo"
	"linkmill/internal/services/triage/service"
)

// Module defines the triage module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the triage module. The rule pack is loaded from the
// embedded rules and a panic here means the binary shipped broken rules
func New(deps modkit.Deps, health healthdom.StorePort) *Module {
	pack, err := ruleset.Load()
	if err != nil {
		panic(err)
	}

	var audit repo.AuditSink = repo.Noop{}
	if deps.CH != nil {
		audit = repo.NewCH(deps.CH)
	}

	svc := service.NewService(pack, health, audit, deps.Clock, &deps.Log)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Triage: svc}
	return m
}

// Service returns the concrete service for sibling module wiring
func (m *Module) Service() *service.Svc { return m.svc }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "triage" }

// Prefix returns the module mount prefix (none, triage has no HTTP surface)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
