// Package repo implements stats queries over Postgres
package repo

import (
	"context"
	"time"

	"linkmill/internal/modkit/repokit"
)

// AttemptTotals are the raw attempt counters
type AttemptTotals struct {
	Total    int64
	Success  int64
	Failed   int64
	TimedOut int64
	Pending  int64
}

// HealthTotals are the raw fleet health counters.
// AvgSuccessRate only averages platforms above the sample floor
type HealthTotals struct {
	Blacklisted    int64
	Disabled       int64
	Unreliable     int64
	AvgSuccessRate float64
}

// HealthRow is one platform's raw health row
type HealthRow struct {
	PlatformID          string
	Domain              string
	ConsecutiveFailures int
	RollingSuccess      int
	RollingTotal        int
	Blacklisted         bool
	BlacklistReason     string
	DisabledUntil       *time.Time
	Unreliable          bool
}

// Repo is the stats storage surface
type Repo interface {
	AttemptTotals(ctx context.Context) (AttemptTotals, error)
	HealthTotals(ctx context.Context, now time.Time, minSample int) (HealthTotals, error)
	Platforms(ctx context.Context, blacklisted *bool, category string, limit int) ([]HealthRow, error)
}

type (
	// PG is the postgres-backed binder
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns a Binder that wires stats queries to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const attemptTotalsSQL = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'success'),
		COUNT(*) FILTER (WHERE status = 'failed'),
		COUNT(*) FILTER (WHERE status = 'timeout'),
		COUNT(*) FILTER (WHERE status = 'pending')
	FROM publish_attempts`

func (r *queries) AttemptTotals(ctx context.Context) (AttemptTotals, error) {
	var t AttemptTotals
	err := r.q.QueryRow(ctx, attemptTotalsSQL).Scan(
		&t.Total, &t.Success, &t.Failed, &t.TimedOut, &t.Pending,
	)
	return t, err
}

const healthTotalsSQL = `
	SELECT
		COUNT(*) FILTER (WHERE blacklisted),
		COUNT(*) FILTER (WHERE disabled_until IS NOT NULL AND disabled_until > $1),
		COUNT(*) FILTER (WHERE unreliable),
		COALESCE(AVG(rolling_success * 100.0 / rolling_total) FILTER (WHERE rolling_total >= $2), 100)
	FROM platform_health`

func (r *queries) HealthTotals(ctx context.Context, now time.Time, minSample int) (HealthTotals, error) {
	var t HealthTotals
	err := r.q.QueryRow(ctx, healthTotalsSQL, now, minSample).Scan(
		&t.Blacklisted, &t.Disabled, &t.Unreliable, &t.AvgSuccessRate,
	)
	return t, err
}

const platformsSQL = `
	SELECT
		h.platform_id, p.domain, h.consecutive_failures, h.rolling_success, h.rolling_total,
		h.blacklisted, COALESCE(h.blacklist_reason, ''), h.disabled_until, h.unreliable
	FROM platform_health h
	JOIN platforms p ON p.id = h.platform_id
	WHERE ($1::boolean IS NULL OR h.blacklisted = $1)
	  AND ($2 = '' OR p.category = $2)
	ORDER BY h.updated_at DESC
	LIMIT $3`

func (r *queries) Platforms(ctx context.Context, blacklisted *bool, category string, limit int) ([]HealthRow, error) {
	rows, err := r.q.Query(ctx, platformsSQL, blacklisted, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HealthRow
	for rows.Next() {
		var h HealthRow
		err := rows.Scan(
			&h.PlatformID, &h.Domain, &h.ConsecutiveFailures, &h.RollingSuccess, &h.RollingTotal,
			&h.Blacklisted, &h.BlacklistReason, &h.DisabledUntil, &h.Unreliable,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
