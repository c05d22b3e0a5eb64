package domain

import (
	"context"
	"time"

	healthdom "linkmill/internal/services/health/domain"
)

// TrackerPort is the attempt surface other modules consume
type TrackerPort interface {
	// Begin records a pending attempt and returns it with its generated id
	Begin(ctx context.Context, campaignID, platformID string) (Attempt, error)

	// ReportSuccess completes a pending attempt as successful.
	// Reports against unknown or already-terminal attempts are logged and
	// ignored, never errors
	ReportSuccess(ctx context.Context, attemptID, publishedURL string, responseTimeMS int64) error

	// ReportFailure completes a pending attempt as failed and runs triage
	ReportFailure(ctx context.Context, attemptID, errorMessage string, responseTimeMS int64) error

	// ReportTimeout completes a pending attempt as timed out and runs triage
	ReportTimeout(ctx context.Context, attemptID string, responseTimeMS int64) error

	// Get returns one attempt by id
	Get(ctx context.Context, attemptID string) (Attempt, error)

	// UsedPlatforms returns the distinct platform ids the campaign has
	// attempted since the given instant
	UsedPlatforms(ctx context.Context, campaignID string, since time.Time) ([]string, error)
}

// FailureTriager evaluates a completed failed or timed-out attempt against
// the mitigation rules. Implemented by the triage module
type FailureTriager interface {
	TriageFailure(ctx context.Context, att Attempt, rec healthdom.Record) error
}
