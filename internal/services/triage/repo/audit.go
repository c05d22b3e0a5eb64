// Package repo implements the triage audit sink over ClickHouse
package repo

import (
	"context"

	"linkmill/internal/platform/store"

	dom "linkmill/internal/services/triage/domain"
)

// AuditSink records applied mitigations for offline analysis
type AuditSink interface {
	Record(ctx context.Context, m dom.Mitigation) error
}

// CH writes mitigation events into the mitigation_events table
type CH struct {
	ch store.Clickhouse
}

// NewCH returns a ClickHouse-backed audit sink
func NewCH(ch store.Clickhouse) *CH { return &CH{ch: ch} }

var auditCols = []string{
	"applied_at", "rule_id", "action", "platform_id", "campaign_id", "attempt_id", "reason",
}

// Record inserts one mitigation event
func (c *CH) Record(ctx context.Context, m dom.Mitigation) error {
	return c.ch.Insert(ctx, "mitigation_events", auditCols, [][]any{{
		m.AppliedAt, m.RuleID, string(m.Action), m.PlatformID, m.CampaignID, m.AttemptID, m.Reason,
	}})
}

// Noop is the sink used when ClickHouse is disabled
type Noop struct{}

// Record drops the event
func (Noop) Record(context.Context, dom.Mitigation) error { return nil }
