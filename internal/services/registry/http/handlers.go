// Package http provides http transport for the platform registry
package http

import (
	stdhttp "net/http"

	"linkmill/internal/modkit/httpkit"
	"linkmill/internal/services/registry/domain"
	svc "linkmill/internal/services/registry/service"

	"github.com/go-chi/chi/v5"
)

// Register mounts registry endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// full catalog
	httpkit.Get(r, "/platforms", h.list)

	// filtered catalog
	httpkit.PostJSON[domain.SearchInput](r, "/platforms/search", h.search)

	// one platform by id
	httpkit.Get(r, "/platforms/{id}", h.get)

	// domain or alias lookup
	httpkit.PostJSON[domain.ResolveInput](r, "/platforms/resolve", h.resolve)

	// re-seed from the embedded catalog
	httpkit.Post(r, "/reload", h.reload)
}

type handlers struct{ svc svc.Service }

// @Summary List all platforms
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Entry "ok"
// @Router /catalog/platforms [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), domain.Filter{})
}

// @Summary Search platforms
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Filter"
// @Success 200 {array} catalog.Entry "ok"
// @Router /catalog/platforms/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.svc.List(r.Context(), in.Filter())
}

// @Summary Get one platform
// @Tags Catalog
// @Produce json
// @Param id path string true "Platform id"
// @Success 200 {object} catalog.Entry "ok"
// @Router /catalog/platforms/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
}

// @Summary Resolve a platform by domain or alias
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.ResolveInput true "Reference"
// @Success 200 {object} catalog.Entry "ok"
// @Router /catalog/platforms/resolve [post]
func (h *handlers) resolve(r *stdhttp.Request, in domain.ResolveInput) (any, error) {
	return h.svc.Resolve(r.Context(), in.Ref)
}

// @Summary Reload the catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]int "ok"
// @Router /catalog/reload [post]
func (h *handlers) reload(r *stdhttp.Request) (any, error) {
	n, err := h.svc.Reload(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]int{"platforms": n}, nil
}
