package domain

import "context"

// StorePort is the health surface other modules consume
type StorePort interface {
	// Get returns the record for the platform, or a zero-valued record with
	// the platform id filled in when none exists yet
	Get(ctx context.Context, platformID string) (Record, error)

	// IsEligible reports whether the platform may be selected right now
	IsEligible(ctx context.Context, platformID string) (bool, error)

	// RecordSuccess folds a successful attempt into the counters and resets
	// the consecutive failure streak
	RecordSuccess(ctx context.Context, platformID string) (Record, error)

	// RecordFailure folds a failed or timed-out attempt into the counters
	RecordFailure(ctx context.Context, platformID string) (Record, error)

	// ApplyBlacklist permanently removes the platform from selection
	ApplyBlacklist(ctx context.Context, platformID, reason, ruleID string) error

	// ApplyTemporaryDisable removes the platform from selection for the
	// given number of hours
	ApplyTemporaryDisable(ctx context.Context, platformID, reason string, hours int) error

	// ApplyUnreliableMark flags the platform without affecting eligibility
	ApplyUnreliableMark(ctx context.Context, platformID, reason string) error
}
