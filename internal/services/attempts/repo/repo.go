// Package repo implements attempt persistence over Postgres
package repo

import (
	"context"
	"errors"
	"time"

	perr "linkmill/internal/platform/errors"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/attempts/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the attempt storage surface
type Repo interface {
	Insert(ctx context.Context, att domain.Attempt) error
	Complete(ctx context.Context, attemptID string, status domain.Status, errorMessage, publishedURL string, responseTimeMS int64, now time.Time) (domain.Attempt, bool, error)
	Get(ctx context.Context, attemptID string) (domain.Attempt, error)
	UsedPlatforms(ctx context.Context, campaignID string, since time.Time) ([]string, error)
}

type (
	// PG is the postgres-backed binder
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns a Binder that wires attempt queries to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const attemptCols = `
	id, campaign_id, platform_id, status, started_at, completed_at,
	response_time_ms, COALESCE(error_message, ''), COALESCE(published_url, ''), retry_count`

const insertSQL = `
	INSERT INTO publish_attempts
		(id, campaign_id, platform_id, status, started_at, retry_count)
	VALUES ($1, $2, $3, $4, $5, $6)`

func (r *queries) Insert(ctx context.Context, att domain.Attempt) error {
	_, err := r.q.Exec(ctx, insertSQL,
		att.ID, att.CampaignID, att.PlatformID, string(att.Status), att.StartedAt, att.RetryCount,
	)
	return err
}

// completeSQL flips a pending attempt to a terminal state. The status guard
// makes the transition single-shot: a second report matches zero rows
const completeSQL = `
	UPDATE publish_attempts SET
		status           = $2,
		completed_at     = $3,
		response_time_ms = $4,
		error_message    = NULLIF($5, ''),
		published_url    = NULLIF($6, '')
	WHERE id = $1 AND status = 'pending'
	RETURNING ` + attemptCols

func (r *queries) Complete(
	ctx context.Context,
	attemptID string,
	status domain.Status,
	errorMessage, publishedURL string,
	responseTimeMS int64,
	now time.Time,
) (domain.Attempt, bool, error) {
	row := r.q.QueryRow(ctx, completeSQL,
		attemptID, string(status), now, responseTimeMS, errorMessage, publishedURL,
	)
	att, err := scanAttempt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, err
	}
	return att, true, nil
}

const getSQL = `
	SELECT ` + attemptCols + `
	FROM publish_attempts
	WHERE id = $1`

func (r *queries) Get(ctx context.Context, attemptID string) (domain.Attempt, error) {
	att, err := scanAttempt(r.q.QueryRow(ctx, getSQL, attemptID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Attempt{}, perr.ErrNotFound
	}
	return att, err
}

const usedSQL = `
	SELECT DISTINCT platform_id
	FROM publish_attempts
	WHERE campaign_id = $1 AND started_at >= $2`

func (r *queries) UsedPlatforms(ctx context.Context, campaignID string, since time.Time) ([]string, error) {
	rows, err := r.q.Query(ctx, usedSQL, campaignID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanAttempt(row repokit.Row) (domain.Attempt, error) {
	var (
		att    domain.Attempt
		status string
	)
	err := row.Scan(
		&att.ID, &att.CampaignID, &att.PlatformID, &status, &att.StartedAt, &att.CompletedAt,
		&att.ResponseTimeMS, &att.ErrorMessage, &att.PublishedURL, &att.RetryCount,
	)
	if err != nil {
		return domain.Attempt{}, err
	}
	att.Status = domain.Status(status)
	return att, nil
}
