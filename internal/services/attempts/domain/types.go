// Package domain holds publish attempt types and tracker contracts
package domain

import "time"

// Status is the lifecycle state of a publish attempt
type Status string

// Attempt lifecycle states. Pending is the only non-terminal state and an
// attempt transitions out of it exactly once
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// Terminal reports whether the status is an end state
func (s Status) Terminal() bool { return s != StatusPending }

// Attempt is one recorded publish against one platform
type Attempt struct {
	ID             string     `json:"id"`
	CampaignID     string     `json:"campaign_id"`
	PlatformID     string     `json:"platform_id"`
	Status         Status     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ResponseTimeMS *int64     `json:"response_time_ms,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	PublishedURL   string     `json:"published_url,omitempty"`
	RetryCount     int        `json:"retry_count"`
}
