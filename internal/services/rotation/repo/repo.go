// Package repo implements rotation epoch persistence over Postgres
package repo

import (
	"context"
	"time"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/rotation/domain"
)

// Repo is the rotation storage surface
type Repo interface {
	GetOrCreate(ctx context.Context, campaignID string, now time.Time) (domain.Epoch, error)
	Bump(ctx context.Context, campaignID string, now time.Time) (domain.Epoch, error)
}

type (
	// PG is the postgres-backed binder
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns a Binder that wires rotation queries to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// the no-op DO UPDATE makes RETURNING yield a row for both branches
const getOrCreateSQL = `
	INSERT INTO campaign_rotations (campaign_id, epoch, started_at)
	VALUES ($1, 1, $2)
	ON CONFLICT (campaign_id) DO UPDATE SET campaign_id = EXCLUDED.campaign_id
	RETURNING campaign_id, epoch, started_at`

func (r *queries) GetOrCreate(ctx context.Context, campaignID string, now time.Time) (domain.Epoch, error) {
	return scanEpoch(r.q.QueryRow(ctx, getOrCreateSQL, campaignID, now))
}

const bumpSQL = `
	INSERT INTO campaign_rotations (campaign_id, epoch, started_at)
	VALUES ($1, 1, $2)
	ON CONFLICT (campaign_id) DO UPDATE SET
		epoch      = campaign_rotations.epoch + 1,
		started_at = EXCLUDED.started_at
	RETURNING campaign_id, epoch, started_at`

func (r *queries) Bump(ctx context.Context, campaignID string, now time.Time) (domain.Epoch, error) {
	return scanEpoch(r.q.QueryRow(ctx, bumpSQL, campaignID, now))
}

func scanEpoch(row repokit.Row) (domain.Epoch, error) {
	var ep domain.Epoch
	if err := row.Scan(&ep.CampaignID, &ep.Epoch, &ep.StartedAt); err != nil {
		return domain.Epoch{}, err
	}
	return ep, nil
}
