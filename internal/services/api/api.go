// Package api provides the HTTP API for the engine
package api

import (
	"linkmill/internal/platform/config"
	"linkmill/internal/platform/logger"
	phttp "linkmill/internal/platform/net/http"
	"linkmill/internal/platform/store"

	"linkmill/internal/modkit"
	"linkmill/internal/modkit/httpkit"
	"linkmill/internal/modkit/module"
	"linkmill/internal/modkit/swaggerkit"

	metamod "linkmill/internal/services/api/meta/module"
	statsmod "linkmill/internal/services/api/stats/module"
	registrymod "linkmill/internal/services/registry/module"

	// Worker modules own the scheduling ports and mount no routes
	attemptsmod "linkmill/internal/services/attempts/module"
	healthmod "linkmill/internal/services/health/module"
	pickermod "linkmill/internal/services/picker/module"
	rotationmod "linkmill/internal/services/rotation/module"
	triagemod "linkmill/internal/services/triage/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
		RDS: opt.Store.RDS,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// Worker modules first so their ports exist before anything that
	// depends on them. Order follows the dependency arrows
	healthM := healthmod.New(deps, healthmod.FromConfig(deps.Cfg))
	triageM := triagemod.New(deps, healthM.Service())
	attemptsM := attemptsmod.New(deps, healthM.Service(), triageM.Service())
	pickerM := pickermod.New(deps, pickermod.FromConfig(deps.Cfg))
	rotationM := rotationmod.New(deps, attemptsM.Service(), pickerM.Service())

	mods := []module.Module{
		healthM,
		triageM,
		attemptsM,
		pickerM,
		rotationM,
		metamod.New(deps),
		statsmod.New(deps),
		registrymod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
