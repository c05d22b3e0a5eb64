// Package repo implements candidate selection over Postgres
package repo

import (
	"context"
	"time"

	"linkmill/internal/core/catalog"

	"linkmill/internal/modkit/repokit"
	dom "linkmill/internal/services/picker/domain"

	sq "github.com/Masterminds/squirrel"
)

// Repo is the selection storage surface
type Repo interface {
	Eligible(ctx context.Context, c dom.Criteria, exclude []string, now time.Time, limit int) ([]dom.Candidate, error)
}

type (
	// PG is the postgres-backed binder
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns a Binder that wires selection queries to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Eligible builds the selection query.
// A platform with no health row is eligible; one with a row must not be
// blacklisted and any disable window must have passed by now
func (r *queries) Eligible(
	ctx context.Context,
	c dom.Criteria,
	exclude []string,
	now time.Time,
	limit int,
) ([]dom.Candidate, error) {
	b := psql.
		Select(
			"p.id", "p.domain", "p.display_name", "p.category", "p.authority_score",
			"p.difficulty", "p.auth_required", "p.allows_backlinks", "p.submission_method",
			"COALESCE(u.usage_count, 0) AS usage_count",
		).
		From("platforms p").
		LeftJoin("platform_health h ON h.platform_id = p.id").
		LeftJoin(`(
			SELECT platform_id, COUNT(*) AS usage_count
			FROM publish_attempts
			GROUP BY platform_id
		) u ON u.platform_id = p.id`).
		Where(sq.Or{
			sq.Eq{"h.platform_id": nil},
			sq.And{
				sq.Eq{"h.blacklisted": false},
				sq.Or{
					sq.Eq{"h.disabled_until": nil},
					sq.LtOrEq{"h.disabled_until": now},
				},
			},
		})

	if c.MinAuthority > 0 {
		b = b.Where(sq.GtOrEq{"p.authority_score": c.MinAuthority})
	}
	if c.MaxDifficulty != "" {
		b = b.Where(sq.Eq{"p.difficulty": difficultiesUpTo(c.MaxDifficulty)})
	}
	if len(c.Categories) > 0 {
		cats := make([]string, len(c.Categories))
		for i, cat := range c.Categories {
			cats[i] = string(cat)
		}
		b = b.Where(sq.Eq{"p.category": cats})
	}
	if c.AnonymousOnly {
		b = b.Where(sq.Eq{"p.auth_required": false})
	}
	if c.RequireBacklinks {
		b = b.Where(sq.Eq{"p.allows_backlinks": true})
	}
	if len(exclude) > 0 {
		b = b.Where(sq.NotEq{"p.id": exclude})
	}

	b = b.
		OrderBy("usage_count ASC", "p.authority_score DESC", "p.id ASC").
		Limit(uint64(limit))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dom.Candidate
	for rows.Next() {
		var (
			cand                         dom.Candidate
			category, difficulty, method string
		)
		err := rows.Scan(
			&cand.Entry.ID, &cand.Entry.Domain, &cand.Entry.DisplayName, &category,
			&cand.Entry.AuthorityScore, &difficulty, &cand.Entry.AuthRequired,
			&cand.Entry.AllowsBacklinks, &method, &cand.UsageCount,
		)
		if err != nil {
			return nil, err
		}
		cand.Entry.Category = catalog.Category(category)
		cand.Entry.Difficulty = catalog.Difficulty(difficulty)
		cand.Entry.Method = catalog.SubmissionMethod(method)
		out = append(out, cand)
	}
	return out, rows.Err()
}

func difficultiesUpTo(max catalog.Difficulty) []string {
	out := make([]string, 0, 3)
	for _, d := range []catalog.Difficulty{catalog.DifficultyEasy, catalog.DifficultyMedium, catalog.DifficultyHard} {
		if d.Rank() <= max.Rank() {
			out = append(out, string(d))
		}
	}
	return out
}
