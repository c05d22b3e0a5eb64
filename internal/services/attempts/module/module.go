// Package module wires the attempt tracker service and exposes its ports
package module

import (
	"linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	dom "linkmill/internal/services/attempts/domain"
	"linkmill/internal/services/attempts/repo"
	"linkmill/internal/services/attempts/service"
	healthdom "linkmill/internal/services/health/domain"
)

// Module defines the attempts module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the attempts module. The health and triage collaborators
// are wired by the caller since their modules own them
func New(deps modkit.Deps, health healthdom.StorePort, triage dom.FailureTriager) *Module {
	svc := service.NewService(deps.PG, repo.NewPG(), health, triage, deps.Clock, &deps.Log)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Tracker: svc}
	return m
}

// Service returns the concrete service for sibling module wiring
func (m *Module) Service() *service.Svc { return m.svc }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "attempts" }

// Prefix returns the module mount prefix (none, attempts has no HTTP surface)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
