// Package service implements the rotation coordinator
package service

import (
	"context"

	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/logger"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	pickerdom "linkmill/internal/services/picker/domain"
	dom "linkmill/internal/services/rotation/domain"
	"linkmill/internal/services/rotation/repo"
)

// Service is the module's rotation surface
type Service interface{ dom.RotatorPort }

// Config tunes rotation behavior
type Config struct {
	// RelaxStep is how far the authority floor drops when the strict pass
	// comes back empty
	RelaxStep int
}

func (c Config) withDefaults() Config {
	if c.RelaxStep <= 0 {
		c.RelaxStep = 20
	}
	return c
}

// Svc implements Service
type Svc struct {
	Repo repo.Repo

	binder   repokit.Binder[repo.Repo]
	db       repokit.TxRunner
	usage    dom.UsageSource
	selector pickerdom.SelectorPort
	clock    ptime.Clock
	cfg      Config
	log      *logger.Logger
}

// NewService constructs the rotation service and panics on nil deps
func NewService(
	db repokit.TxRunner,
	b repokit.Binder[repo.Repo],
	usage dom.UsageSource,
	selector pickerdom.SelectorPort,
	clock ptime.Clock,
	cfg Config,
	log *logger.Logger,
) *Svc {
	if db == nil {
		panic("rotation: db is required")
	}
	if b == nil {
		panic("rotation: repo binder is required")
	}
	if usage == nil {
		panic("rotation: usage source is required")
	}
	if selector == nil {
		panic("rotation: selector port is required")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if log == nil {
		log = logger.Get()
	}
	ll := log.With().Str("component", "rotation").Logger()
	return &Svc{
		Repo:     b.Bind(db),
		binder:   b,
		db:       db,
		usage:    usage,
		selector: selector,
		clock:    clock,
		cfg:      cfg.withDefaults(),
		log:      &ll,
	}
}

// Epoch returns the campaign's current rotation epoch
func (s *Svc) Epoch(ctx context.Context, campaignID string) (dom.Epoch, error) {
	if campaignID == "" {
		return dom.Epoch{}, perr.InvalidArgf("campaign id is required")
	}
	ep, err := s.Repo.GetOrCreate(ctx, campaignID, s.clock.Now())
	if err != nil {
		return dom.Epoch{}, perr.FromPostgres(err, "rotation epoch")
	}
	return ep, nil
}

// NextPlatform walks strict criteria, relaxed criteria, then a fresh epoch.
// A campaign never repeats a platform inside one epoch
func (s *Svc) NextPlatform(ctx context.Context, campaignID string, c pickerdom.Criteria) (*pickerdom.Candidate, error) {
	ep, err := s.Epoch(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	used, err := s.usage.UsedPlatforms(ctx, campaignID, ep.StartedAt)
	if err != nil {
		return nil, err
	}

	// strict pass
	if cand, err := s.pick(ctx, c, used); cand != nil || err != nil {
		return cand, err
	}

	// relaxed pass
	relaxed := c.Relax(s.cfg.RelaxStep)
	if cand, err := s.pick(ctx, relaxed, used); cand != nil || err != nil {
		return cand, err
	}

	// every eligible platform is used up, advance the epoch and clear the set
	ep, err = s.Repo.Bump(ctx, campaignID, s.clock.Now())
	if err != nil {
		return nil, perr.FromPostgres(err, "rotation bump")
	}
	s.log.Info().
		Str("campaign_id", campaignID).
		Int("epoch", ep.Epoch).
		Msg("rotation epoch advanced")

	cand, err := s.pick(ctx, relaxed, nil)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		s.log.Warn().Str("campaign_id", campaignID).Msg("platform pool exhausted")
	}
	return cand, nil
}

func (s *Svc) pick(ctx context.Context, c pickerdom.Criteria, exclude []string) (*pickerdom.Candidate, error) {
	cands, err := s.selector.Select(ctx, c, exclude)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, nil
	}
	return &cands[0], nil
}

var _ Service = (*Svc)(nil)
