// Package http provides http transport for stats
package http

import (
	stdhttp "net/http"

	"linkmill/internal/modkit/httpkit"
	"linkmill/internal/services/api/stats/domain"
	svc "linkmill/internal/services/api/stats/service"
)

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// fleet-wide totals
	httpkit.Get(r, "/overview", h.overview)

	// per-platform health rows
	httpkit.PostJSON[domain.PlatformsInput](r, "/platforms", h.platforms)
}

type handlers struct{ svc svc.Service }

// @Summary Fleet attempt and health totals
// @Tags Stats
// @Produce json
// @Success 200 {object} domain.Overview "ok"
// @Router /stats/overview [get]
func (h *handlers) overview(r *stdhttp.Request) (any, error) {
	return h.svc.Overview(r.Context())
}

// @Summary Per-platform health listing
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.PlatformsInput true "Filter"
// @Success 200 {array} domain.PlatformRow "ok"
// @Router /stats/platforms [post]
func (h *handlers) platforms(r *stdhttp.Request, in domain.PlatformsInput) (any, error) {
	return h.svc.Platforms(r.Context(), in)
}
