// Package service implements the attempt tracker business logic
package service

import (
	"context"
	"errors"
	"time"

	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/logger"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	dom "linkmill/internal/services/attempts/domain"
	"linkmill/internal/services/attempts/repo"
	healthdom "linkmill/internal/services/health/domain"

	"github.com/google/uuid"
)

// Service is the module's tracking surface
type Service interface{ dom.TrackerPort }

// Svc implements Service.
// Health counters and triage run synchronously inside the report calls so a
// caller that saw the report return has also seen its consequences applied
type Svc struct {
	Repo repo.Repo

	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	health healthdom.StorePort
	triage dom.FailureTriager
	clock  ptime.Clock
	log    *logger.Logger
}

// NewService constructs the attempts service and panics on nil deps
func NewService(
	db repokit.TxRunner,
	b repokit.Binder[repo.Repo],
	health healthdom.StorePort,
	triage dom.FailureTriager,
	clock ptime.Clock,
	log *logger.Logger,
) *Svc {
	if db == nil {
		panic("attempts: db is required")
	}
	if b == nil {
		panic("attempts: repo binder is required")
	}
	if health == nil {
		panic("attempts: health port is required")
	}
	if triage == nil {
		panic("attempts: triage port is required")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if log == nil {
		log = logger.Get()
	}
	ll := log.With().Str("component", "attempts").Logger()
	return &Svc{
		Repo:   b.Bind(db),
		binder: b,
		db:     db,
		health: health,
		triage: triage,
		clock:  clock,
		log:    &ll,
	}
}

// Begin records a pending attempt for the campaign/platform pair
func (s *Svc) Begin(ctx context.Context, campaignID, platformID string) (dom.Attempt, error) {
	if campaignID == "" || platformID == "" {
		return dom.Attempt{}, perr.InvalidArgf("campaign id and platform id are required")
	}
	att := dom.Attempt{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		PlatformID: platformID,
		Status:     dom.StatusPending,
		StartedAt:  s.clock.Now(),
	}
	if err := s.Repo.Insert(ctx, att); err != nil {
		return dom.Attempt{}, perr.FromPostgres(err, "attempt insert")
	}
	s.log.Debug().
		Str("attempt_id", att.ID).
		Str("campaign_id", campaignID).
		Str("platform_id", platformID).
		Msg("attempt started")
	return att, nil
}

// ReportSuccess completes a pending attempt and folds it into health
func (s *Svc) ReportSuccess(ctx context.Context, attemptID, publishedURL string, responseTimeMS int64) error {
	att, ok, err := s.complete(ctx, attemptID, dom.StatusSuccess, "", publishedURL, responseTimeMS)
	if err != nil || !ok {
		return err
	}
	if _, err := s.health.RecordSuccess(ctx, att.PlatformID); err != nil {
		return err
	}
	s.log.Info().
		Str("attempt_id", att.ID).
		Str("platform_id", att.PlatformID).
		Str("published_url", publishedURL).
		Msg("attempt succeeded")
	return nil
}

// ReportFailure completes a pending attempt, folds it into health and
// triages the failure
func (s *Svc) ReportFailure(ctx context.Context, attemptID, errorMessage string, responseTimeMS int64) error {
	return s.reportDown(ctx, attemptID, dom.StatusFailed, errorMessage, responseTimeMS)
}

// ReportTimeout completes a pending attempt as timed out and triages it
func (s *Svc) ReportTimeout(ctx context.Context, attemptID string, responseTimeMS int64) error {
	return s.reportDown(ctx, attemptID, dom.StatusTimeout, "publish timed out", responseTimeMS)
}

func (s *Svc) reportDown(ctx context.Context, attemptID string, status dom.Status, errorMessage string, responseTimeMS int64) error {
	att, ok, err := s.complete(ctx, attemptID, status, errorMessage, "", responseTimeMS)
	if err != nil || !ok {
		return err
	}
	rec, err := s.health.RecordFailure(ctx, att.PlatformID)
	if err != nil {
		return err
	}
	s.log.Warn().
		Str("attempt_id", att.ID).
		Str("platform_id", att.PlatformID).
		Str("status", string(status)).
		Str("error", errorMessage).
		Int64("response_time_ms", responseTimeMS).
		Msg("attempt failed")
	return s.triage.TriageFailure(ctx, att, rec)
}

// complete flips the attempt and absorbs the not-pending case.
// Duplicate and unknown reports are idempotent no-ops with a warn log
func (s *Svc) complete(
	ctx context.Context,
	attemptID string,
	status dom.Status,
	errorMessage, publishedURL string,
	responseTimeMS int64,
) (dom.Attempt, bool, error) {
	att, ok, err := s.Repo.Complete(ctx, attemptID, status, errorMessage, publishedURL, responseTimeMS, s.clock.Now())
	if err != nil {
		return dom.Attempt{}, false, perr.FromPostgres(err, "attempt complete")
	}
	if !ok {
		s.log.Warn().
			Str("attempt_id", attemptID).
			Str("status", string(status)).
			Msg("report ignored, attempt unknown or already terminal")
		return dom.Attempt{}, false, nil
	}
	return att, true, nil
}

// Get returns one attempt by id
func (s *Svc) Get(ctx context.Context, attemptID string) (dom.Attempt, error) {
	att, err := s.Repo.Get(ctx, attemptID)
	if errors.Is(err, perr.ErrNotFound) {
		return dom.Attempt{}, perr.NotFoundf("attempt %s", attemptID)
	}
	if err != nil {
		return dom.Attempt{}, perr.FromPostgres(err, "attempt get")
	}
	return att, nil
}

// UsedPlatforms returns the distinct platforms the campaign hit since the instant
func (s *Svc) UsedPlatforms(ctx context.Context, campaignID string, since time.Time) ([]string, error) {
	ids, err := s.Repo.UsedPlatforms(ctx, campaignID, since)
	if err != nil {
		return nil, perr.FromPostgres(err, "used platforms")
	}
	return ids, nil
}

var _ Service = (*Svc)(nil)
