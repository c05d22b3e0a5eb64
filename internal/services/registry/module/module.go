// Package module wires the platform registry into the API using modkit
package module

import (
	"net/http"

	modkit "linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	str "linkmill/internal/platform/strings"
	reghttp "linkmill/internal/services/registry/http"
	regrepo "linkmill/internal/services/registry/repo"
	regsvc "linkmill/internal/services/registry/service"
)

// Module implements the registry module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *regsvc.Svc
}

// New constructs the registry module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("registry"), modkit.WithPrefix("/catalog")}, opts...)...)

	o := FromConfig(deps.Cfg)
	svc := regsvc.NewService(deps.PG, regrepo.NewPG(), deps.RDS, o.CacheTTL, deps.Clock, &deps.Log)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Registry: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		reghttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service returns the concrete service for sibling module wiring
func (m *Module) Service() *regsvc.Svc { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
