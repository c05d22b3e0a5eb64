// Package domain holds DTOs for stats http and service contracts
package domain

import "time"

// Overview aggregates attempt outcomes and health state across the fleet
type Overview struct {
	TotalAttempts         int64   `json:"total_attempts" example:"1204"`
	SuccessfulAttempts    int64   `json:"successful_attempts" example:"830"`
	FailedAttempts        int64   `json:"failed_attempts" example:"290"`
	TimedOutAttempts      int64   `json:"timed_out_attempts" example:"54"`
	PendingAttempts       int64   `json:"pending_attempts" example:"30"`
	BlacklistedCount      int64   `json:"blacklisted_count" example:"2"`
	DisabledCount         int64   `json:"disabled_count" example:"1"`
	UnreliableCount       int64   `json:"unreliable_count" example:"3"`
	AverageSuccessRatePct float64 `json:"average_success_rate_pct" example:"74.5"`
}

// PlatformsInput filters the per-platform health listing
type PlatformsInput struct {
	Blacklisted *bool  `json:"blacklisted,omitempty" example:"true"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof=web2_platform forum directory social wiki docs" example:"web2_platform"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}

// PlatformRow is one platform's health summary
type PlatformRow struct {
	PlatformID          string     `json:"platform_id" example:"dev-to"`
	Domain              string     `json:"domain" example:"dev.to"`
	ConsecutiveFailures int        `json:"consecutive_failures" example:"1"`
	RollingSuccess      int        `json:"rolling_success" example:"14"`
	RollingTotal        int        `json:"rolling_total" example:"20"`
	ReliabilityPct      int        `json:"reliability_pct" example:"70"`
	Blacklisted         bool       `json:"blacklisted" example:"false"`
	BlacklistReason     string     `json:"blacklist_reason,omitempty"`
	DisabledUntil       *time.Time `json:"disabled_until,omitempty"`
	Unreliable          bool       `json:"unreliable" example:"false"`
}
