// Package domain holds rotation state types and contracts
package domain

import "time"

// Epoch is one campaign's rotation generation.
// Platforms used since StartedAt are excluded until the epoch advances
type Epoch struct {
	CampaignID string    `json:"campaign_id"`
	Epoch      int       `json:"epoch"`
	StartedAt  time.Time `json:"started_at"`
}
