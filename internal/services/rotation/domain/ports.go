package domain

import (
	"context"
	"time"

	pickerdom "linkmill/internal/services/picker/domain"
)

// RotatorPort hands out the next platform for a campaign
type RotatorPort interface {
	// NextPlatform picks the next platform the campaign should publish to.
	// Returns nil with no error when every platform in the pool is
	// exhausted even after relaxing and starting a fresh epoch
	NextPlatform(ctx context.Context, campaignID string, c pickerdom.Criteria) (*pickerdom.Candidate, error)

	// Epoch returns the campaign's current rotation epoch, creating the
	// first one on demand
	Epoch(ctx context.Context, campaignID string) (Epoch, error)
}

// UsageSource reports which platforms a campaign already hit.
// Implemented by the attempts module
type UsageSource interface {
	UsedPlatforms(ctx context.Context, campaignID string, since time.Time) ([]string, error)
}
