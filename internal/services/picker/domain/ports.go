package domain

import "context"

// SelectorPort picks publish candidates for a campaign
type SelectorPort interface {
	// Select returns eligible platforms matching the criteria, excluding the
	// given ids, least-used first with authority as the tiebreak
	Select(ctx context.Context, c Criteria, exclude []string) ([]Candidate, error)
}
