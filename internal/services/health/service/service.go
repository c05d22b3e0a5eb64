// Package service implements the health store business logic
package service

import (
	"context"
	"errors"
	"time"

	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/logger"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/health/domain"
	"linkmill/internal/services/health/repo"
)

// Service is the module's health surface
type Service interface{ domain.StorePort }

// Config tunes the rolling window used for reliability scoring
type Config struct {
	// Window bounds how far back attempts count toward the rolling rate
	Window time.Duration
	// SampleLimit caps how many recent attempts are folded per recompute
	SampleLimit int
	// MinSample is the floor below which reliability stays neutral
	MinSample int
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = 24 * time.Hour
	}
	if c.SampleLimit <= 0 {
		c.SampleLimit = 20
	}
	if c.MinSample <= 0 {
		c.MinSample = 5
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

// NewService constructs the health service and panics on nil deps
func NewService(db repokit.TxRunner, b repokit.Binder[repo.Repo], clock ptime.Clock, cfg Config, log *logger.Logger) *Svc {
	if db == nil {
		panic("health: db is required")
	}
	if b == nil {
		panic("health: repo binder is required")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if log == nil {
		log = logger.Get()
	}
	ll := log.With().Str("component", "health").Logger()
	return &Svc{
		Repo:   b.Bind(db),
		binder: b,
		db:     db,
		clock:  clock,
		cfg:    cfg.withDefaults(),
		log:    &ll,
	}
}

// MinSample exposes the neutral-score floor for callers deriving reliability
func (s *Svc) MinSample() int { return s.cfg.MinSample }

// Get returns the stored record, or a zero record when none exists yet
func (s *Svc) Get(ctx context.Context, platformID string) (domain.Record, error) {
	rec, err := s.Repo.Get(ctx, platformID)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Record{PlatformID: platformID}, nil
	}
	if err != nil {
		return domain.Record{}, perr.FromPostgres(err, "health get")
	}
	return rec, nil
}

// IsEligible evaluates eligibility lazily against the clock, so expired
// disable windows need no sweeper to re-enable a platform
func (s *Svc) IsEligible(ctx context.Context, platformID string) (bool, error) {
	rec, err := s.Get(ctx, platformID)
	if err != nil {
		return false, err
	}
	return rec.EligibleAt(s.clock.Now()), nil
}

// RecordSuccess folds a success into the counters and resets the streak
func (s *Svc) RecordSuccess(ctx context.Context, platformID string) (domain.Record, error) {
	return s.fold(ctx, platformID, true)
}

// RecordFailure folds a failure or timeout into the counters
func (s *Svc) RecordFailure(ctx context.Context, platformID string) (domain.Record, error) {
	return s.fold(ctx, platformID, false)
}

func (s *Svc) fold(ctx context.Context, platformID string, success bool) (domain.Record, error) {
	now := s.clock.Now()
	rec, err := s.Repo.FoldAttempt(ctx, platformID, success, now, now.Add(-s.cfg.Window), s.cfg.SampleLimit)
	if err != nil {
		return domain.Record{}, perr.FromPostgres(err, "health fold attempt")
	}
	return rec, nil
}

// ApplyBlacklist permanently removes the platform from selection
func (s *Svc) ApplyBlacklist(ctx context.Context, platformID, reason, ruleID string) error {
	if err := s.Repo.SetBlacklist(ctx, platformID, reason, ruleID, s.clock.Now()); err != nil {
		return perr.FromPostgres(err, "health blacklist")
	}
	s.log.Warn().
		Str("platform_id", platformID).
		Str("rule_id", ruleID).
		Str("reason", reason).
		Msg("platform blacklisted")
	return nil
}

// ApplyTemporaryDisable removes the platform from selection for hours
func (s *Svc) ApplyTemporaryDisable(ctx context.Context, platformID, reason string, hours int) error {
	if hours <= 0 {
		return perr.InvalidArgf("disable hours must be positive, got %d", hours)
	}
	now := s.clock.Now()
	until := now.Add(time.Duration(hours) * time.Hour)
	if err := s.Repo.SetDisabledUntil(ctx, platformID, reason, until, now); err != nil {
		return perr.FromPostgres(err, "health disable")
	}
	s.log.Warn().
		Str("platform_id", platformID).
		Time("disabled_until", until).
		Str("reason", reason).
		Msg("platform temporarily disabled")
	return nil
}

// ApplyUnreliableMark flags the platform without touching eligibility
func (s *Svc) ApplyUnreliableMark(ctx context.Context, platformID, reason string) error {
	if err := s.Repo.SetUnreliable(ctx, platformID, reason, s.clock.Now()); err != nil {
		return perr.FromPostgres(err, "health unreliable mark")
	}
	s.log.Info().
		Str("platform_id", platformID).
		Str("reason", reason).
		Msg("platform marked unreliable")
	return nil
}

var _ Service = (*Svc)(nil)
