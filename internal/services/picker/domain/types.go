// Package domain holds candidate selection types and contracts
package domain

import "linkmill/internal/core/catalog"

// Criteria narrows the eligible pool for one selection pass
type Criteria struct {
	MinAuthority     int                `json:"min_authority,omitempty"`
	MaxDifficulty    catalog.Difficulty `json:"max_difficulty,omitempty"`
	Categories       []catalog.Category `json:"categories,omitempty"`
	AnonymousOnly    bool               `json:"anonymous_only,omitempty"`
	RequireBacklinks bool               `json:"require_backlinks,omitempty"`
	Limit            int                `json:"limit,omitempty"`

	// Relaxed marks criteria already widened once; a second Relax is a no-op
	Relaxed bool `json:"relaxed,omitempty"`
}

// Relax widens the criteria one step: the authority floor drops and any
// difficulty becomes acceptable. Category and anonymity constraints hold,
// those express hard campaign requirements rather than preferences
func (c Criteria) Relax(authorityStep int) Criteria {
	if c.Relaxed {
		return c
	}
	if authorityStep <= 0 {
		authorityStep = 20
	}
	if c.MinAuthority > authorityStep {
		c.MinAuthority -= authorityStep
	} else {
		c.MinAuthority = 0
	}
	c.MaxDifficulty = catalog.DifficultyHard
	c.Relaxed = true
	return c
}

// Candidate is one selectable platform with its load counter
type Candidate struct {
	Entry      catalog.Entry `json:"entry"`
	UsageCount int64         `json:"usage_count"`
}
