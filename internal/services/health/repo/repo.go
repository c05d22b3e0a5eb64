// Package repo implements health persistence over Postgres
package repo

import (
	"context"
	"errors"
	"time"

	perr "linkmill/internal/platform/errors"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/health/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the health storage surface
type Repo interface {
	Get(ctx context.Context, platformID string) (domain.Record, error)
	FoldAttempt(ctx context.Context, platformID string, success bool, now, windowStart time.Time, sampleLimit int) (domain.Record, error)
	SetBlacklist(ctx context.Context, platformID, reason, ruleID string, now time.Time) error
	SetDisabledUntil(ctx context.Context, platformID, reason string, until, now time.Time) error
	SetUnreliable(ctx context.Context, platformID, reason string, now time.Time) error
}

type (
	// PG is the postgres-backed binder
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns a Binder that wires health queries to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const recordCols = `
	platform_id, consecutive_failures, rolling_success, rolling_total,
	blacklisted, COALESCE(blacklist_reason, ''), COALESCE(blacklist_rule, ''), blacklisted_at,
	disabled_until, COALESCE(disable_reason, ''),
	unreliable, COALESCE(unreliable_reason, ''), updated_at`

const getSQL = `
	SELECT ` + recordCols + `
	FROM platform_health
	WHERE platform_id = $1`

func (r *queries) Get(ctx context.Context, platformID string) (domain.Record, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, getSQL, platformID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Record{}, perr.ErrNotFound
	}
	return rec, err
}

// foldSQL recomputes the rolling counters from the most recent completed
// attempts inside the window, capped at the sample limit, in the same
// statement that bumps or resets the failure streak
const foldSQL = `
	INSERT INTO platform_health AS h
		(platform_id, consecutive_failures, rolling_success, rolling_total, updated_at)
	SELECT $1, CASE WHEN $2 THEN 0 ELSE 1 END, w.s, w.t, $3
	FROM (
		SELECT
			COUNT(*) FILTER (WHERE x.status = 'success') AS s,
			COUNT(*) AS t
		FROM (
			SELECT status
			FROM publish_attempts
			WHERE platform_id = $1
			  AND completed_at IS NOT NULL
			  AND completed_at >= $4
			ORDER BY completed_at DESC
			LIMIT $5
		) x
	) w
	ON CONFLICT (platform_id) DO UPDATE SET
		consecutive_failures = CASE WHEN $2 THEN 0 ELSE h.consecutive_failures + 1 END,
		rolling_success      = EXCLUDED.rolling_success,
		rolling_total        = EXCLUDED.rolling_total,
		updated_at           = EXCLUDED.updated_at
	RETURNING ` + recordCols

func (r *queries) FoldAttempt(
	ctx context.Context,
	platformID string,
	success bool,
	now, windowStart time.Time,
	sampleLimit int,
) (domain.Record, error) {
	row := r.q.QueryRow(ctx, foldSQL, platformID, success, now, windowStart, sampleLimit)
	return scanRecord(row)
}

const blacklistSQL = `
	INSERT INTO platform_health AS h
		(platform_id, blacklisted, blacklist_reason, blacklist_rule, blacklisted_at, updated_at)
	VALUES ($1, TRUE, $2, $3, $4, $4)
	ON CONFLICT (platform_id) DO UPDATE SET
		blacklisted      = TRUE,
		blacklist_reason = EXCLUDED.blacklist_reason,
		blacklist_rule   = EXCLUDED.blacklist_rule,
		blacklisted_at   = EXCLUDED.blacklisted_at,
		updated_at       = EXCLUDED.updated_at`

func (r *queries) SetBlacklist(ctx context.Context, platformID, reason, ruleID string, now time.Time) error {
	_, err := r.q.Exec(ctx, blacklistSQL, platformID, reason, ruleID, now)
	return err
}

const disableSQL = `
	INSERT INTO platform_health AS h
		(platform_id, disabled_until, disable_reason, updated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (platform_id) DO UPDATE SET
		disabled_until = EXCLUDED.disabled_until,
		disable_reason = EXCLUDED.disable_reason,
		updated_at     = EXCLUDED.updated_at`

func (r *queries) SetDisabledUntil(ctx context.Context, platformID, reason string, until, now time.Time) error {
	_, err := r.q.Exec(ctx, disableSQL, platformID, until, reason, now)
	return err
}

const unreliableSQL = `
	INSERT INTO platform_health AS h
		(platform_id, unreliable, unreliable_reason, updated_at)
	VALUES ($1, TRUE, $2, $3)
	ON CONFLICT (platform_id) DO UPDATE SET
		unreliable        = TRUE,
		unreliable_reason = EXCLUDED.unreliable_reason,
		updated_at        = EXCLUDED.updated_at`

func (r *queries) SetUnreliable(ctx context.Context, platformID, reason string, now time.Time) error {
	_, err := r.q.Exec(ctx, unreliableSQL, platformID, reason, now)
	return err
}

func scanRecord(row repokit.Row) (domain.Record, error) {
	var rec domain.Record
	err := row.Scan(
		&rec.PlatformID, &rec.ConsecutiveFailures, &rec.RollingSuccess, &rec.RollingTotal,
		&rec.Blacklisted, &rec.BlacklistReason, &rec.BlacklistRule, &rec.BlacklistedAt,
		&rec.DisabledUntil, &rec.DisableReason,
		&rec.Unreliable, &rec.UnreliableReason, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}
