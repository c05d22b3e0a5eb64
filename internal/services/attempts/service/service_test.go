package service

import (
	"context"
	"testing"
	"time"

	perr "linkmill/internal/platform/errors"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	dom "linkmill/internal/services/attempts/domain"
	"linkmill/internal/services/attempts/repo"
	healthdom "linkmill/internal/services/health/domain"
)

type fakeRepo struct {
	attempts map[string]dom.Attempt
}

func newFakeRepo() *fakeRepo { return &fakeRepo{attempts: map[string]dom.Attempt{}} }

func (f *fakeRepo) Insert(_ context.Context, att dom.Attempt) error {
	f.attempts[att.ID] = att
	return nil
}

func (f *fakeRepo) Complete(
	_ context.Context,
	attemptID string,
	status dom.Status,
	errorMessage, publishedURL string,
	responseTimeMS int64,
	now time.Time,
) (dom.Attempt, bool, error) {
	att, ok := f.attempts[attemptID]
	if !ok || att.Status != dom.StatusPending {
		return dom.Attempt{}, false, nil
	}
	att.Status = status
	att.CompletedAt = &now
	att.ResponseTimeMS = &responseTimeMS
	att.ErrorMessage = errorMessage
	att.PublishedURL = publishedURL
	f.attempts[attemptID] = att
	return att, true, nil
}

func (f *fakeRepo) Get(_ context.Context, attemptID string) (dom.Attempt, error) {
	att, ok := f.attempts[attemptID]
	if !ok {
		return dom.Attempt{}, perr.ErrNotFound
	}
	return att, nil
}

func (f *fakeRepo) UsedPlatforms(_ context.Context, campaignID string, since time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, att := range f.attempts {
		if att.CampaignID == campaignID && !att.StartedAt.Before(since) && !seen[att.PlatformID] {
			seen[att.PlatformID] = true
			out = append(out, att.PlatformID)
		}
	}
	return out, nil
}

type fakeBinder struct{ r repo.Repo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(nopDB{}) }

// fakeHealth records which counters were touched
type fakeHealth struct {
	successes []string
	failures  []string
	record    healthdom.Record
}

func (f *fakeHealth) Get(_ context.Context, platformID string) (healthdom.Record, error) {
	return f.record, nil
}

func (f *fakeHealth) IsEligible(context.Context, string) (bool, error) { return true, nil }

func (f *fakeHealth) RecordSuccess(_ context.Context, platformID string) (healthdom.Record, error) {
	f.successes = append(f.successes, platformID)
	return f.record, nil
}

func (f *fakeHealth) RecordFailure(_ context.Context, platformID string) (healthdom.Record, error) {
	f.failures = append(f.failures, platformID)
	f.record.PlatformID = platformID
	f.record.ConsecutiveFailures++
	return f.record, nil
}

func (f *fakeHealth) ApplyBlacklist(context.Context, string, string, string) error { return nil }

func (f *fakeHealth) ApplyTemporaryDisable(context.Context, string, string, int) error { return nil }

func (f *fakeHealth) ApplyUnreliableMark(context.Context, string, string) error { return nil }

type triaged struct {
	att dom.Attempt
	rec healthdom.Record
}

type fakeTriager struct {
	calls []triaged
}

func (f *fakeTriager) TriageFailure(_ context.Context, att dom.Attempt, rec healthdom.Record) error {
	f.calls = append(f.calls, triaged{att: att, rec: rec})
	return nil
}

func newSvc(t *testing.T, fr *fakeRepo, fh *fakeHealth, ft *fakeTriager, clock ptime.Clock) *Svc {
	t.Helper()
	return NewService(nopDB{}, fakeBinder{r: fr}, fh, ft, clock, nil)
}

func TestBeginCreatesPendingAttempt(t *testing.T) {
	fr := newFakeRepo()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	s := newSvc(t, fr, &fakeHealth{}, &fakeTriager{}, ptime.NewFake(now))

	att, err := s.Begin(context.Background(), "camp-1", "dev-to")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if att.ID == "" {
		t.Fatal("attempt id must be generated")
	}
	if att.Status != dom.StatusPending || !att.StartedAt.Equal(now) {
		t.Fatalf("unexpected attempt %+v", att)
	}
	if _, ok := fr.attempts[att.ID]; !ok {
		t.Fatal("attempt not persisted")
	}
}

func TestBeginRejectsEmptyIDs(t *testing.T) {
	s := newSvc(t, newFakeRepo(), &fakeHealth{}, &fakeTriager{}, nil)

	_, err := s.Begin(context.Background(), "", "dev-to")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("got %v, want invalid argument", err)
	}
}

func TestReportSuccessFoldsHealthSkipsTriage(t *testing.T) {
	fr := newFakeRepo()
	fh := &fakeHealth{}
	ft := &fakeTriager{}
	s := newSvc(t, fr, fh, ft, nil)
	ctx := context.Background()

	att, _ := s.Begin(ctx, "camp-1", "dev-to")
	if err := s.ReportSuccess(ctx, att.ID, "https://dev.to/p/1", 420); err != nil {
		t.Fatalf("ReportSuccess: %v", err)
	}

	got := fr.attempts[att.ID]
	if got.Status != dom.StatusSuccess || got.PublishedURL != "https://dev.to/p/1" {
		t.Fatalf("unexpected attempt %+v", got)
	}
	if len(fh.successes) != 1 || fh.successes[0] != "dev-to" {
		t.Fatalf("health success not folded: %v", fh.successes)
	}
	if len(ft.calls) != 0 {
		t.Fatal("success must not run triage")
	}
}

func TestReportFailureRunsTriageWithFreshRecord(t *testing.T) {
	fr := newFakeRepo()
	fh := &fakeHealth{}
	ft := &fakeTriager{}
	s := newSvc(t, fr, fh, ft, nil)
	ctx := context.Background()

	att, _ := s.Begin(ctx, "camp-1", "dev-to")
	if err := s.ReportFailure(ctx, att.ID, "connection refused", 900); err != nil {
		t.Fatalf("ReportFailure: %v", err)
	}

	if len(fh.failures) != 1 {
		t.Fatalf("health failure not folded: %v", fh.failures)
	}
	if len(ft.calls) != 1 {
		t.Fatalf("got %d triage calls, want 1", len(ft.calls))
	}
	call := ft.calls[0]
	if call.att.Status != dom.StatusFailed || call.att.ErrorMessage != "connection refused" {
		t.Fatalf("triage saw wrong attempt %+v", call.att)
	}
	if call.rec.ConsecutiveFailures != 1 {
		t.Fatalf("triage must see the post-fold record, got %+v", call.rec)
	}
}

func TestReportTimeoutUsesTimeoutStatus(t *testing.T) {
	fr := newFakeRepo()
	ft := &fakeTriager{}
	s := newSvc(t, fr, &fakeHealth{}, ft, nil)
	ctx := context.Background()

	att, _ := s.Begin(ctx, "camp-1", "slow-site")
	if err := s.ReportTimeout(ctx, att.ID, 31000); err != nil {
		t.Fatalf("ReportTimeout: %v", err)
	}

	got := fr.attempts[att.ID]
	if got.Status != dom.StatusTimeout {
		t.Fatalf("got status %q, want timeout", got.Status)
	}
	if *got.ResponseTimeMS != 31000 {
		t.Fatalf("got %d ms, want 31000", *got.ResponseTimeMS)
	}
	if len(ft.calls) != 1 || ft.calls[0].att.Status != dom.StatusTimeout {
		t.Fatal("timeout must run triage with timeout status")
	}
}

func TestDuplicateReportIsNoOp(t *testing.T) {
	fr := newFakeRepo()
	fh := &fakeHealth{}
	ft := &fakeTriager{}
	s := newSvc(t, fr, fh, ft, nil)
	ctx := context.Background()

	att, _ := s.Begin(ctx, "camp-1", "dev-to")
	if err := s.ReportSuccess(ctx, att.ID, "https://dev.to/p/1", 100); err != nil {
		t.Fatalf("first report: %v", err)
	}
	if err := s.ReportFailure(ctx, att.ID, "late failure", 100); err != nil {
		t.Fatalf("duplicate report must be a nil no-op, got %v", err)
	}

	got := fr.attempts[att.ID]
	if got.Status != dom.StatusSuccess {
		t.Fatalf("terminal status must not change, got %q", got.Status)
	}
	if len(fh.failures) != 0 || len(ft.calls) != 0 {
		t.Fatal("duplicate report must not touch health or triage")
	}
}

func TestReportUnknownAttemptIsNoOp(t *testing.T) {
	fh := &fakeHealth{}
	s := newSvc(t, newFakeRepo(), fh, &fakeTriager{}, nil)

	if err := s.ReportSuccess(context.Background(), "no-such-id", "", 0); err != nil {
		t.Fatalf("unknown report must be a nil no-op, got %v", err)
	}
	if len(fh.successes) != 0 {
		t.Fatal("unknown report must not touch health")
	}
}

func TestGetNotFound(t *testing.T) {
	s := newSvc(t, newFakeRepo(), &fakeHealth{}, &fakeTriager{}, nil)

	_, err := s.Get(context.Background(), "missing")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestUsedPlatformsFiltersByCampaignAndTime(t *testing.T) {
	fr := newFakeRepo()
	clock := ptime.NewFake(time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))
	s := newSvc(t, fr, &fakeHealth{}, &fakeTriager{}, clock)
	ctx := context.Background()

	epoch := clock.Now()
	if _, err := s.Begin(ctx, "camp-1", "dev-to"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := s.Begin(ctx, "camp-1", "medium-com"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := s.Begin(ctx, "camp-2", "telegraph-ph"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	used, err := s.UsedPlatforms(ctx, "camp-1", epoch)
	if err != nil {
		t.Fatalf("UsedPlatforms: %v", err)
	}
	if len(used) != 2 {
		t.Fatalf("got %v, want the two camp-1 platforms", used)
	}
	for _, id := range used {
		if id == "telegraph-ph" {
			t.Fatal("other campaign's platform leaked into the used set")
		}
	}
}
