// Package domain holds the platform registry contracts
package domain

import "linkmill/internal/core/catalog"

// Filter narrows a registry listing
type Filter struct {
	Categories       []catalog.Category `json:"categories,omitempty"`
	MinAuthority     int                `json:"min_authority,omitempty"`
	MaxDifficulty    catalog.Difficulty `json:"max_difficulty,omitempty"`
	AnonymousOnly    bool               `json:"anonymous_only,omitempty"`
	RequireBacklinks bool               `json:"require_backlinks,omitempty"`
}

// Allows reports whether the entry passes the filter
func (f Filter) Allows(e catalog.Entry) bool {
	if e.AuthorityScore < f.MinAuthority {
		return false
	}
	if f.MaxDifficulty != "" && e.Difficulty.Rank() > f.MaxDifficulty.Rank() {
		return false
	}
	if f.AnonymousOnly && e.AuthRequired {
		return false
	}
	if f.RequireBacklinks && !e.AllowsBacklinks {
		return false
	}
	if len(f.Categories) > 0 {
		hit := false
		for _, c := range f.Categories {
			if e.Category == c {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
