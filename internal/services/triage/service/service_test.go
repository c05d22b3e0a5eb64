package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkmill/internal/core/ruleset"
	ptime "linkmill/internal/platform/time"

	attemptsdom "linkmill/internal/services/attempts/domain"
	healthdom "linkmill/internal/services/health/domain"
	dom "linkmill/internal/services/triage/domain"
)

type applied struct {
	kind       string
	platformID string
	reason     string
	ruleID     string
	hours      int
}

type fakeHealth struct {
	calls     []applied
	failApply error
}

func (f *fakeHealth) Get(context.Context, string) (healthdom.Record, error) {
	return healthdom.Record{}, nil
}

func (f *fakeHealth) IsEligible(context.Context, string) (bool, error) { return true, nil }

func (f *fakeHealth) RecordSuccess(context.Context, string) (healthdom.Record, error) {
	return healthdom.Record{}, nil
}

func (f *fakeHealth) RecordFailure(context.Context, string) (healthdom.Record, error) {
	return healthdom.Record{}, nil
}

func (f *fakeHealth) ApplyBlacklist(_ context.Context, platformID, reason, ruleID string) error {
	if f.failApply != nil {
		return f.failApply
	}
	f.calls = append(f.calls, applied{kind: "blacklist", platformID: platformID, reason: reason, ruleID: ruleID})
	return nil
}

func (f *fakeHealth) ApplyTemporaryDisable(_ context.Context, platformID, reason string, hours int) error {
	f.calls = append(f.calls, applied{kind: "disable", platformID: platformID, reason: reason, hours: hours})
	return nil
}

func (f *fakeHealth) ApplyUnreliableMark(_ context.Context, platformID, reason string) error {
	f.calls = append(f.calls, applied{kind: "unreliable", platformID: platformID, reason: reason})
	return nil
}

type fakeAudit struct {
	events []dom.Mitigation
	fail   error
}

func (f *fakeAudit) Record(_ context.Context, m dom.Mitigation) error {
	if f.fail != nil {
		return f.fail
	}
	f.events = append(f.events, m)
	return nil
}

func mustPack(t *testing.T) *ruleset.Pack {
	t.Helper()
	pack, err := ruleset.Load()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return pack
}

func failedAttempt(msg string, ms int64) attemptsdom.Attempt {
	return attemptsdom.Attempt{
		ID:             "att-1",
		CampaignID:     "camp-1",
		PlatformID:     "demo-example",
		Status:         attemptsdom.StatusFailed,
		ErrorMessage:   msg,
		ResponseTimeMS: &ms,
	}
}

func TestTerminalErrorBlacklistsImmediately(t *testing.T) {
	fh := &fakeHealth{}
	fa := &fakeAudit{}
	s := NewService(mustPack(t), fh, fa, nil, nil)

	att := failedAttempt("401 Unauthorized", 250)
	rec := healthdom.Record{PlatformID: "demo-example", ConsecutiveFailures: 1}
	if err := s.TriageFailure(context.Background(), att, rec); err != nil {
		t.Fatalf("TriageFailure: %v", err)
	}

	if len(fh.calls) != 1 || fh.calls[0].kind != "blacklist" {
		t.Fatalf("expected a single blacklist, got %+v", fh.calls)
	}
	if fh.calls[0].ruleID == "" {
		t.Fatal("blacklist must carry the matched rule id")
	}
	if len(fa.events) != 1 || fa.events[0].Action != ruleset.ActionBlacklist {
		t.Fatalf("audit must record the mitigation, got %+v", fa.events)
	}
}

func TestThirdConsecutiveFailureBlacklists(t *testing.T) {
	fh := &fakeHealth{}
	s := NewService(mustPack(t), fh, &fakeAudit{}, nil, nil)

	att := failedAttempt("connection refused", 800)
	rec := healthdom.Record{PlatformID: "demo-example", ConsecutiveFailures: 3, RollingTotal: 3}
	if err := s.TriageFailure(context.Background(), att, rec); err != nil {
		t.Fatalf("TriageFailure: %v", err)
	}
	if len(fh.calls) != 1 || fh.calls[0].kind != "blacklist" {
		t.Fatalf("three straight failures must blacklist, got %+v", fh.calls)
	}
}

func TestTwoFailuresApplyNothing(t *testing.T) {
	fh := &fakeHealth{}
	s := NewService(mustPack(t), fh, &fakeAudit{}, nil, nil)

	att := failedAttempt("connection refused", 800)
	rec := healthdom.Record{PlatformID: "demo-example", ConsecutiveFailures: 2, RollingTotal: 2}
	if err := s.TriageFailure(context.Background(), att, rec); err != nil {
		t.Fatalf("TriageFailure: %v", err)
	}
	if len(fh.calls) != 0 {
		t.Fatalf("below threshold must apply nothing, got %+v", fh.calls)
	}
}

func TestSlowTimeoutDisablesTemporarily(t *testing.T) {
	fh := &fakeHealth{}
	fa := &fakeAudit{}
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	s := NewService(mustPack(t), fh, fa, ptime.NewFake(now), nil)

	ms := int64(35000)
	att := attemptsdom.Attempt{
		ID:             "att-2",
		CampaignID:     "camp-1",
		PlatformID:     "demo-example",
		Status:         attemptsdom.StatusTimeout,
		ErrorMessage:   "publish timed out",
		ResponseTimeMS: &ms,
	}
	rec := healthdom.Record{PlatformID: "demo-example", ConsecutiveFailures: 1, RollingTotal: 1}
	if err := s.TriageFailure(context.Background(), att, rec); err != nil {
		t.Fatalf("TriageFailure: %v", err)
	}

	if len(fh.calls) != 1 || fh.calls[0].kind != "disable" {
		t.Fatalf("a 35s timeout must disable, got %+v", fh.calls)
	}
	if fh.calls[0].hours != 24 {
		t.Fatalf("got %d disable hours, want 24", fh.calls[0].hours)
	}
	if len(fa.events) != 1 || !fa.events[0].AppliedAt.Equal(now) {
		t.Fatalf("audit event must carry the clock time, got %+v", fa.events)
	}
}

func TestLowSuccessRateMarksUnreliable(t *testing.T) {
	fh := &fakeHealth{}
	s := NewService(mustPack(t), fh, &fakeAudit{}, nil, nil)

	att := failedAttempt("http 500", 600)
	rec := healthdom.Record{PlatformID: "demo-example", ConsecutiveFailures: 1, RollingSuccess: 2, RollingTotal: 8}
	if err := s.TriageFailure(context.Background(), att, rec); err != nil {
		t.Fatalf("TriageFailure: %v", err)
	}
	if len(fh.calls) != 1 || fh.calls[0].kind != "unreliable" {
		t.Fatalf("25%% success over 8 attempts must mark unreliable, got %+v", fh.calls)
	}
}

func TestFirstMatchWinsOverLaterRules(t *testing.T) {
	fh := &fakeHealth{}
	s := NewService(mustPack(t), fh, &fakeAudit{}, nil, nil)

	// terminal error and three consecutive failures at once: the pattern
	// rule sits first in the pack so only the blacklist applies
	att := failedAttempt("403 Forbidden", 500)
	rec := healthdom.Record{PlatformID: "demo-example", ConsecutiveFailures: 3, RollingSuccess: 0, RollingTotal: 6}
	if err := s.TriageFailure(context.Background(), att, rec); err != nil {
		t.Fatalf("TriageFailure: %v", err)
	}
	if len(fh.calls) != 1 {
		t.Fatalf("exactly one mitigation must apply, got %+v", fh.calls)
	}
	if fh.calls[0].kind != "blacklist" {
		t.Fatalf("got %q, want the pattern blacklist first", fh.calls[0].kind)
	}
}

func TestAuditFailureDoesNotFailTriage(t *testing.T) {
	fh := &fakeHealth{}
	fa := &fakeAudit{fail: errors.New("clickhouse down")}
	s := NewService(mustPack(t), fh, fa, nil, nil)

	att := failedAttempt("401 Unauthorized", 100)
	if err := s.TriageFailure(context.Background(), att, healthdom.Record{}); err != nil {
		t.Fatalf("audit failure must not surface, got %v", err)
	}
	if len(fh.calls) != 1 {
		t.Fatal("mitigation must still apply when the audit sink is down")
	}
}

func TestApplyErrorSurfaces(t *testing.T) {
	fh := &fakeHealth{failApply: errors.New("pg down")}
	s := NewService(mustPack(t), fh, &fakeAudit{}, nil, nil)

	att := failedAttempt("401 Unauthorized", 100)
	err := s.TriageFailure(context.Background(), att, healthdom.Record{})
	if err == nil {
		t.Fatal("health apply errors must surface")
	}
}
