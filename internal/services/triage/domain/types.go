// Package domain holds triage outcome types
package domain

import (
	"time"

	"linkmill/internal/core/ruleset"
)

// Mitigation is the applied outcome of triaging one failed attempt.
// Exactly one rule decides it; later rules in the pack are never consulted
type Mitigation struct {
	RuleID     string         `json:"rule_id"`
	Action     ruleset.Action `json:"action"`
	PlatformID string         `json:"platform_id"`
	CampaignID string         `json:"campaign_id"`
	AttemptID  string         `json:"attempt_id"`
	Reason     string         `json:"reason"`
	AppliedAt  time.Time      `json:"applied_at"`
}
