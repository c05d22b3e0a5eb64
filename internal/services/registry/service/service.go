// Package service implements the platform registry business logic
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"linkmill/internal/core/catalog"
	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/logger"
	"linkmill/internal/platform/store"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	dom "linkmill/internal/services/registry/domain"
	"linkmill/internal/services/registry/repo"
)

// cacheKey holds the full catalog snapshot as JSON.
// Bump the suffix when the entry shape changes
const cacheKey = "registry:catalog:v1"

// Service is the module's registry surface
type Service interface{ dom.RegistryPort }

// Svc implements Service.
// Postgres is the source of truth; the cache is a best-effort snapshot and a
// cache failure is always served as a miss
type Svc struct {
	Repo repo.Repo

	binder   repokit.Binder[repo.Repo]
	db       repokit.TxRunner
	cache    store.Cache
	cacheTTL time.Duration
	clock    ptime.Clock
	log      *logger.Logger
}

// NewService constructs the registry service and panics on nil deps.
// cache may be nil when Redis is disabled
func NewService(db repokit.TxRunner, b repokit.Binder[repo.Repo], cache store.Cache, cacheTTL time.Duration, clock ptime.Clock, log *logger.Logger) *Svc {
	if db == nil {
		panic("registry: db is required")
	}
	if b == nil {
		panic("registry: repo binder is required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if log == nil {
		log = logger.Get()
	}
	ll := log.With().Str("component", "registry").Logger()
	return &Svc{
		Repo:     b.Bind(db),
		binder:   b,
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		clock:    clock,
		log:      &ll,
	}
}

// List returns the entries passing the filter, ordered by id
func (s *Svc) List(ctx context.Context, f dom.Filter) ([]catalog.Entry, error) {
	entries, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Allows(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetByID returns one entry by its catalog id
func (s *Svc) GetByID(ctx context.Context, id string) (catalog.Entry, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, perr.ErrNotFound) {
		return catalog.Entry{}, perr.NotFoundf("platform %s", id)
	}
	if err != nil {
		return catalog.Entry{}, perr.FromPostgres(err, "registry get")
	}
	return e, nil
}

// Resolve normalizes ref as a domain and returns the matching entry
func (s *Svc) Resolve(ctx context.Context, ref string) (catalog.Entry, error) {
	norm := catalog.NormalizeDomain(ref)
	if norm == "" {
		return catalog.Entry{}, perr.InvalidArgf("empty platform reference")
	}
	e, err := s.Repo.GetByDomain(ctx, norm)
	if errors.Is(err, perr.ErrNotFound) {
		// tolerate ids passed where domains are expected
		return s.GetByID(ctx, catalog.IDFor(norm))
	}
	if err != nil {
		return catalog.Entry{}, perr.FromPostgres(err, "registry resolve")
	}
	return e, nil
}

// Reload re-seeds from the embedded catalog plus extra sources.
// The upsert refines attributes in place and never rewrites identity, so
// health history keyed by platform id survives a reload
func (s *Svc) Reload(ctx context.Context, extra ...[]byte) (int, error) {
	entries := catalog.Load(extra...)

	now := s.clock.Now()
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return s.binder.Bind(q).Upsert(ctx, entries, now)
	})
	if err != nil {
		return 0, perr.FromPostgres(err, "registry reload")
	}

	if s.cache != nil {
		s.cache.Del(ctx, cacheKey)
	}

	n, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, perr.FromPostgres(err, "registry count")
	}
	s.log.Info().Int("platforms", n).Msg("registry reloaded")
	return n, nil
}

// snapshot serves the full entry list, cache first
func (s *Svc) snapshot(ctx context.Context) ([]catalog.Entry, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, cacheKey); ok {
			var entries []catalog.Entry
			if err := json.Unmarshal([]byte(raw), &entries); err == nil {
				return entries, nil
			}
			// poisoned snapshot, drop it and fall through
			s.cache.Del(ctx, cacheKey)
		}
	}

	entries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "registry list")
	}

	if s.cache != nil && len(entries) > 0 {
		if raw, err := json.Marshal(entries); err == nil {
			s.cache.Set(ctx, cacheKey, string(raw), s.cacheTTL)
		}
	}
	return entries, nil
}

var _ Service = (*Svc)(nil)
