// Package repo implements platform registry persistence over Postgres
package repo

import (
	"context"
	"errors"
	"time"

	"linkmill/internal/core/catalog"
	perr "linkmill/internal/platform/errors"

	"linkmill/internal/modkit/repokit"

	"github.com/jackc/pgx/v5"
)

// Repo is the registry storage surface
type Repo interface {
	Upsert(ctx context.Context, entries []catalog.Entry, now time.Time) error
	List(ctx context.Context) ([]catalog.Entry, error)
	GetByID(ctx context.Context, id string) (catalog.Entry, error)
	GetByDomain(ctx context.Context, domain string) (catalog.Entry, error)
	Count(ctx context.Context) (int, error)
}

type (
	// PG is the postgres-backed binder
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns a Binder that wires registry queries to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const entryCols = `
	id, domain, display_name, category, authority_score, difficulty,
	auth_required, allows_backlinks, submission_method`

const upsertSQL = `
	INSERT INTO platforms
		(id, domain, display_name, category, authority_score, difficulty,
		 auth_required, allows_backlinks, submission_method, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		domain            = EXCLUDED.domain,
		display_name      = EXCLUDED.display_name,
		category          = EXCLUDED.category,
		authority_score   = EXCLUDED.authority_score,
		difficulty        = EXCLUDED.difficulty,
		auth_required     = EXCLUDED.auth_required,
		allows_backlinks  = EXCLUDED.allows_backlinks,
		submission_method = EXCLUDED.submission_method,
		updated_at        = EXCLUDED.updated_at`

func (r *queries) Upsert(ctx context.Context, entries []catalog.Entry, now time.Time) error {
	for _, e := range entries {
		_, err := r.q.Exec(ctx, upsertSQL,
			e.ID, e.Domain, e.DisplayName, string(e.Category), e.AuthorityScore, string(e.Difficulty),
			e.AuthRequired, e.AllowsBacklinks, string(e.Method), now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const listSQL = `
	SELECT ` + entryCols + `
	FROM platforms
	ORDER BY id`

func (r *queries) List(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := r.q.Query(ctx, listSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const getByIDSQL = `
	SELECT ` + entryCols + `
	FROM platforms
	WHERE id = $1`

func (r *queries) GetByID(ctx context.Context, id string) (catalog.Entry, error) {
	return r.one(ctx, getByIDSQL, id)
}

const getByDomainSQL = `
	SELECT ` + entryCols + `
	FROM platforms
	WHERE domain = $1`

func (r *queries) GetByDomain(ctx context.Context, domain string) (catalog.Entry, error) {
	return r.one(ctx, getByDomainSQL, domain)
}

const countSQL = `SELECT COUNT(*) FROM platforms`

func (r *queries) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *queries) one(ctx context.Context, sql, arg string) (catalog.Entry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Entry{}, perr.ErrNotFound
	}
	return e, err
}

type scanner interface{ Scan(dst ...any) error }

func scanEntry(row scanner) (catalog.Entry, error) {
	var (
		e                            catalog.Entry
		category, difficulty, method string
	)
	err := row.Scan(
		&e.ID, &e.Domain, &e.DisplayName, &category, &e.AuthorityScore, &difficulty,
		&e.AuthRequired, &e.AllowsBacklinks, &method,
	)
	if err != nil {
		return catalog.Entry{}, err
	}
	e.Category = catalog.Category(category)
	e.Difficulty = catalog.Difficulty(difficulty)
	e.Method = catalog.SubmissionMethod(method)
	return e, nil
}
