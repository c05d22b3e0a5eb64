// Package service contains stats workflows
package service

import (
	"context"

	perr "linkmill/internal/platform/errors"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/api/stats/domain"
	"linkmill/internal/services/api/stats/repo"
)

// Service defines the stats service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the stats service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	clock     ptime.Clock
	minSample int
}

// New constructs a stats service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], clock ptime.Clock, minSample int) *Svc {
	if db == nil {
		panic("stats.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("stats.Service requires a non nil Repo binder")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if minSample <= 0 {
		minSample = 5
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, clock: clock, minSample: minSample}
}

// Overview aggregates attempt outcomes and fleet health
func (s *Svc) Overview(ctx context.Context) (domain.Overview, error) {
	at, err := s.Repo.AttemptTotals(ctx)
	if err != nil {
		return domain.Overview{}, perr.FromPostgres(err, "stats attempt totals")
	}
	ht, err := s.Repo.HealthTotals(ctx, s.clock.Now(), s.minSample)
	if err != nil {
		return domain.Overview{}, perr.FromPostgres(err, "stats health totals")
	}
	return domain.Overview{
		TotalAttempts:         at.Total,
		SuccessfulAttempts:    at.Success,
		FailedAttempts:        at.Failed,
		TimedOutAttempts:      at.TimedOut,
		PendingAttempts:       at.Pending,
		BlacklistedCount:      ht.Blacklisted,
		DisabledCount:         ht.Disabled,
		UnreliableCount:       ht.Unreliable,
		AverageSuccessRatePct: ht.AvgSuccessRate,
	}, nil
}

// Platforms lists per-platform health rows
func (s *Svc) Platforms(ctx context.Context, in domain.PlatformsInput) ([]domain.PlatformRow, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Repo.Platforms(ctx, in.Blacklisted, in.Category, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "stats platforms")
	}
	out := make([]domain.PlatformRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PlatformRow{
			PlatformID:          r.PlatformID,
			Domain:              r.Domain,
			ConsecutiveFailures: r.ConsecutiveFailures,
			RollingSuccess:      r.RollingSuccess,
			RollingTotal:        r.RollingTotal,
			ReliabilityPct:      reliability(r.RollingSuccess, r.RollingTotal, s.minSample),
			Blacklisted:         r.Blacklisted,
			BlacklistReason:     r.BlacklistReason,
			DisabledUntil:       r.DisabledUntil,
			Unreliable:          r.Unreliable,
		})
	}
	return out, nil
}

func reliability(success, total, minSample int) int {
	if total < minSample || total == 0 {
		return 100
	}
	return success * 100 / total
}

var _ Service = (*Svc)(nil)
