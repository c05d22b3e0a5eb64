// Package service implements candidate selection business logic
package service

import (
	"context"

	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/logger"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	dom "linkmill/internal/services/picker/domain"
	"linkmill/internal/services/picker/repo"
)

// Service is the module's selection surface
type Service interface{ dom.SelectorPort }

// Config tunes selection defaults
type Config struct {
	// Limit caps how many candidates one pass returns
	Limit int
}

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = 25
	}
	return c
}

// Svc implements Service
type Svc struct {
	Repo repo.Repo

	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	clock  ptime.Clock
	cfg    Config
	log    *logger.Logger
}

// NewService constructs the picker service and panics on nil deps
func NewService(db repokit.TxRunner, b repokit.Binder[repo.Repo], clock ptime.Clock, cfg Config, log *logger.Logger) *Svc {
	if db == nil {
		panic("picker: db is required")
	}
	if b == nil {
		panic("picker: repo binder is required")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if log == nil {
		log = logger.Get()
	}
	ll := log.With().Str("component", "picker").Logger()
	return &Svc{
		Repo:   b.Bind(db),
		binder: b,
		db:     db,
		clock:  clock,
		cfg:    cfg.withDefaults(),
		log:    &ll,
	}
}

// Select returns eligible candidates, least-used first
func (s *Svc) Select(ctx context.Context, c dom.Criteria, exclude []string) ([]dom.Candidate, error) {
	limit := c.Limit
	if limit <= 0 || limit > s.cfg.Limit {
		limit = s.cfg.Limit
	}
	out, err := s.Repo.Eligible(ctx, c, exclude, s.clock.Now(), limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "candidate select")
	}
	return out, nil
}

var _ Service = (*Svc)(nil)
