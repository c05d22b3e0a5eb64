// Package domain holds health state types and the store contract
package domain

import "time"

// Record is the persisted health state for one platform.
// Counters are recomputed from the attempts table on every write so they can
// never diverge from the source of truth
type Record struct {
	PlatformID          string     `json:"platform_id"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	RollingSuccess      int        `json:"rolling_success"`
	RollingTotal        int        `json:"rolling_total"`
	Blacklisted         bool       `json:"blacklisted"`
	BlacklistReason     string     `json:"blacklist_reason,omitempty"`
	BlacklistRule       string     `json:"blacklist_rule,omitempty"`
	BlacklistedAt       *time.Time `json:"blacklisted_at,omitempty"`
	DisabledUntil       *time.Time `json:"disabled_until,omitempty"`
	DisableReason       string     `json:"disable_reason,omitempty"`
	Unreliable          bool       `json:"unreliable"`
	UnreliableReason    string     `json:"unreliable_reason,omitempty"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Reliability derives the 0-100 score from the rolling window.
// Below minSample attempts the platform is scored a neutral 100 so new
// platforms are not penalized before there is evidence
func (r Record) Reliability(minSample int) int {
	if r.RollingTotal < minSample || r.RollingTotal == 0 {
		return 100
	}
	return r.RollingSuccess * 100 / r.RollingTotal
}

// EligibleAt reports eligibility against the given instant.
// Disable windows expire lazily: a record disabled until T is eligible for
// any query at time >= T without an explicit re-enable
func (r Record) EligibleAt(now time.Time) bool {
	if r.Blacklisted {
		return false
	}
	if r.DisabledUntil != nil && now.Before(*r.DisabledUntil) {
		return false
	}
	return true
}
