// Package service implements rule-driven failure triage
package service

import (
	"context"
	"fmt"

	"linkmill/internal/core/ruleset"
	"linkmill/internal/platform/logger"
	ptime "linkmill/internal/platform/time"

	attemptsdom "linkmill/internal/services/attempts/domain"
	healthdom "linkmill/internal/services/health/domain"
	dom "linkmill/internal/services/triage/domain"
	"linkmill/internal/services/triage/repo"
)

// Service is the module's triage surface
type Service interface{ attemptsdom.FailureTriager }

// Svc implements Service
type Svc struct {
	pack   *ruleset.Pack
	health healthdom.StorePort
	audit  repo.AuditSink
	clock  ptime.Clock
	log    *logger.Logger
}

// NewService constructs the triage service and panics on nil deps
func NewService(pack *ruleset.Pack, health healthdom.StorePort, audit repo.AuditSink, clock ptime.Clock, log *logger.Logger) *Svc {
	if pack == nil {
		panic("triage: rule pack is required")
	}
	if health == nil {
		panic("triage: health port is required")
	}
	if audit == nil {
		audit = repo.Noop{}
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if log == nil {
		log = logger.Get()
	}
	ll := log.With().Str("component", "triage").Logger()
	return &Svc{pack: pack, health: health, audit: audit, clock: clock, log: &ll}
}

// TriageFailure evaluates a completed failed or timed-out attempt against
// the ordered rules and applies the first match
func (s *Svc) TriageFailure(ctx context.Context, att attemptsdom.Attempt, rec healthdom.Record) error {
	rule, ok := s.pack.FirstMatch(facts(att, rec))
	if !ok {
		s.log.Debug().
			Str("attempt_id", att.ID).
			Str("platform_id", att.PlatformID).
			Msg("no rule matched")
		return nil
	}

	m := dom.Mitigation{
		RuleID:     rule.ID,
		Action:     rule.Action,
		PlatformID: att.PlatformID,
		CampaignID: att.CampaignID,
		AttemptID:  att.ID,
		Reason:     reason(rule, att, rec),
		AppliedAt:  s.clock.Now(),
	}

	if err := s.apply(ctx, rule, m); err != nil {
		return err
	}

	// audit is best effort, a dead sink never undoes an applied mitigation
	if err := s.audit.Record(ctx, m); err != nil {
		s.log.Warn().Err(err).
			Str("rule_id", m.RuleID).
			Str("platform_id", m.PlatformID).
			Msg("mitigation audit write failed")
	}

	s.log.Warn().
		Str("rule_id", m.RuleID).
		Str("action", string(m.Action)).
		Str("platform_id", m.PlatformID).
		Str("reason", m.Reason).
		Msg("mitigation applied")
	return nil
}

func (s *Svc) apply(ctx context.Context, rule ruleset.Rule, m dom.Mitigation) error {
	switch rule.Action {
	case ruleset.ActionBlacklist:
		return s.health.ApplyBlacklist(ctx, m.PlatformID, m.Reason, m.RuleID)
	case ruleset.ActionTemporaryDisable:
		return s.health.ApplyTemporaryDisable(ctx, m.PlatformID, m.Reason, rule.DisableHours)
	case ruleset.ActionMarkUnreliable:
		return s.health.ApplyUnreliableMark(ctx, m.PlatformID, m.Reason)
	default:
		return fmt.Errorf("triage: unknown action %q", rule.Action)
	}
}

func facts(att attemptsdom.Attempt, rec healthdom.Record) ruleset.Facts {
	var ms int
	if att.ResponseTimeMS != nil {
		ms = int(*att.ResponseTimeMS)
	}
	return ruleset.Facts{
		Timeout:             att.Status == attemptsdom.StatusTimeout,
		ErrorMessage:        att.ErrorMessage,
		ResponseTimeMS:      ms,
		ConsecutiveFailures: rec.ConsecutiveFailures,
		RollingSuccess:      rec.RollingSuccess,
		RollingTotal:        rec.RollingTotal,
	}
}

func reason(rule ruleset.Rule, att attemptsdom.Attempt, rec healthdom.Record) string {
	switch rule.Condition {
	case ruleset.CondErrorPattern:
		return fmt.Sprintf("terminal error: %s", att.ErrorMessage)
	case ruleset.CondConsecutiveFailures:
		return fmt.Sprintf("%d consecutive failures", rec.ConsecutiveFailures)
	case ruleset.CondTimeoutThreshold:
		var ms int64
		if att.ResponseTimeMS != nil {
			ms = *att.ResponseTimeMS
		}
		return fmt.Sprintf("response time %dms over %dms threshold", ms, rule.Threshold)
	case ruleset.CondSuccessRate:
		pct := 0
		if rec.RollingTotal > 0 {
			pct = rec.RollingSuccess * 100 / rec.RollingTotal
		}
		return fmt.Sprintf("success rate %d%% below %d%% over %d attempts", pct, rule.Threshold, rec.RollingTotal)
	default:
		return string(rule.Condition)
	}
}

var _ Service = (*Svc)(nil)
