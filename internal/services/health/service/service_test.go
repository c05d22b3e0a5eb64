package service

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/testkit"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/health/domain"
	"linkmill/internal/services/health/repo"
)

// fakeRepo records calls and serves canned records
type fakeRepo struct {
	records map[string]domain.Record

	foldCalls     []foldCall
	blacklisted   []string
	disabledUntil map[string]time.Time
	unreliable    []string
	failGet       error
	failFold      error
}

type foldCall struct {
	platformID  string
	success     bool
	now         time.Time
	windowStart time.Time
	sampleLimit int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:       map[string]domain.Record{},
		disabledUntil: map[string]time.Time{},
	}
}

func (f *fakeRepo) Get(_ context.Context, platformID string) (domain.Record, error) {
	if f.failGet != nil {
		return domain.Record{}, f.failGet
	}
	rec, ok := f.records[platformID]
	if !ok {
		return domain.Record{}, perr.ErrNotFound
	}
	return rec, nil
}

func (f *fakeRepo) FoldAttempt(
	_ context.Context,
	platformID string,
	success bool,
	now, windowStart time.Time,
	sampleLimit int,
) (domain.Record, error) {
	if f.failFold != nil {
		return domain.Record{}, f.failFold
	}
	f.foldCalls = append(f.foldCalls, foldCall{platformID, success, now, windowStart, sampleLimit})
	rec := f.records[platformID]
	rec.PlatformID = platformID
	rec.RollingTotal++
	if success {
		rec.RollingSuccess++
		rec.ConsecutiveFailures = 0
	} else {
		rec.ConsecutiveFailures++
	}
	rec.UpdatedAt = now
	f.records[platformID] = rec
	return rec, nil
}

func (f *fakeRepo) SetBlacklist(_ context.Context, platformID, reason, ruleID string, now time.Time) error {
	rec := f.records[platformID]
	rec.PlatformID = platformID
	rec.Blacklisted = true
	rec.BlacklistReason = reason
	rec.BlacklistRule = ruleID
	rec.BlacklistedAt = &now
	f.records[platformID] = rec
	f.blacklisted = append(f.blacklisted, platformID)
	return nil
}

func (f *fakeRepo) SetDisabledUntil(_ context.Context, platformID, reason string, until, _ time.Time) error {
	rec := f.records[platformID]
	rec.PlatformID = platformID
	rec.DisabledUntil = &until
	rec.DisableReason = reason
	f.records[platformID] = rec
	f.disabledUntil[platformID] = until
	return nil
}

func (f *fakeRepo) SetUnreliable(_ context.Context, platformID, reason string, _ time.Time) error {
	rec := f.records[platformID]
	rec.PlatformID = platformID
	rec.Unreliable = true
	rec.UnreliableReason = reason
	f.records[platformID] = rec
	f.unreliable = append(f.unreliable, platformID)
	return nil
}

type fakeBinder struct{ r repo.Repo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(nopDB{}) }

func newSvc(t *testing.T, fr *fakeRepo, clock ptime.Clock, cfg Config) *Svc {
	t.Helper()
	return NewService(nopDB{}, fakeBinder{r: fr}, clock, cfg, nil)
}

func TestNewServicePanicsOnNilDB(t *testing.T) {
	testkit.MustPanic(t, func() {
		NewService(nil, fakeBinder{r: newFakeRepo()}, nil, Config{}, nil)
	})
}

func TestGetMissingRecordIsZero(t *testing.T) {
	s := newSvc(t, newFakeRepo(), nil, Config{})

	rec, err := s.Get(context.Background(), "dev-to")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.PlatformID != "dev-to" || rec.RollingTotal != 0 || rec.Blacklisted {
		t.Fatalf("expected zero record for unknown platform, got %+v", rec)
	}
}

func TestIsEligibleDefaultsTrue(t *testing.T) {
	s := newSvc(t, newFakeRepo(), nil, Config{})

	ok, err := s.IsEligible(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("IsEligible: %v", err)
	}
	if !ok {
		t.Fatal("platform with no health record must be eligible")
	}
}

func TestBlacklistRemovesEligibility(t *testing.T) {
	fr := newFakeRepo()
	s := newSvc(t, fr, nil, Config{})
	ctx := context.Background()

	if err := s.ApplyBlacklist(ctx, "spam-haven", "terminal error", "error_pattern"); err != nil {
		t.Fatalf("ApplyBlacklist: %v", err)
	}
	ok, err := s.IsEligible(ctx, "spam-haven")
	if err != nil {
		t.Fatalf("IsEligible: %v", err)
	}
	if ok {
		t.Fatal("blacklisted platform must not be eligible")
	}
}

func TestTemporaryDisableExpiresWithClock(t *testing.T) {
	fr := newFakeRepo()
	clock := ptime.NewFake(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	s := newSvc(t, fr, clock, Config{})
	ctx := context.Background()

	if err := s.ApplyTemporaryDisable(ctx, "slow-site", "timeout threshold", 24); err != nil {
		t.Fatalf("ApplyTemporaryDisable: %v", err)
	}

	ok, _ := s.IsEligible(ctx, "slow-site")
	if ok {
		t.Fatal("platform must be ineligible inside the disable window")
	}

	clock.Advance(23 * time.Hour)
	ok, _ = s.IsEligible(ctx, "slow-site")
	if ok {
		t.Fatal("platform must stay ineligible one hour before expiry")
	}

	clock.Advance(time.Hour)
	ok, _ = s.IsEligible(ctx, "slow-site")
	if !ok {
		t.Fatal("platform must become eligible once the window has passed")
	}
}

func TestTemporaryDisableRejectsNonPositiveHours(t *testing.T) {
	s := newSvc(t, newFakeRepo(), nil, Config{})

	err := s.ApplyTemporaryDisable(context.Background(), "x", "r", 0)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("got %v, want invalid argument", err)
	}
}

func TestUnreliableMarkKeepsEligibility(t *testing.T) {
	fr := newFakeRepo()
	s := newSvc(t, fr, nil, Config{})
	ctx := context.Background()

	if err := s.ApplyUnreliableMark(ctx, "flaky-site", "low success rate"); err != nil {
		t.Fatalf("ApplyUnreliableMark: %v", err)
	}
	ok, _ := s.IsEligible(ctx, "flaky-site")
	if !ok {
		t.Fatal("unreliable mark must not remove eligibility")
	}
	rec, _ := s.Get(ctx, "flaky-site")
	if !rec.Unreliable || rec.UnreliableReason != "low success rate" {
		t.Fatalf("unreliable flag not persisted: %+v", rec)
	}
}

func TestFoldPassesWindowBounds(t *testing.T) {
	fr := newFakeRepo()
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	clock := ptime.NewFake(now)
	s := newSvc(t, fr, clock, Config{Window: 6 * time.Hour, SampleLimit: 10})
	ctx := context.Background()

	if _, err := s.RecordFailure(ctx, "dev-to"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if _, err := s.RecordSuccess(ctx, "dev-to"); err != nil {
		t.Fatalf("RecordSuccess: %v", err)
	}

	if len(fr.foldCalls) != 2 {
		t.Fatalf("got %d fold calls, want 2", len(fr.foldCalls))
	}
	c := fr.foldCalls[0]
	if c.success || !c.now.Equal(now) || !c.windowStart.Equal(now.Add(-6*time.Hour)) || c.sampleLimit != 10 {
		t.Fatalf("unexpected fold call %+v", c)
	}
	if !fr.foldCalls[1].success {
		t.Fatal("second fold call should carry success")
	}

	rec := fr.records["dev-to"]
	if rec.ConsecutiveFailures != 0 {
		t.Fatalf("success must reset the streak, got %d", rec.ConsecutiveFailures)
	}
}

func TestFoldWrapsRepoErrors(t *testing.T) {
	fr := newFakeRepo()
	fr.failFold = errors.New("boom")
	s := newSvc(t, fr, nil, Config{})

	_, err := s.RecordFailure(context.Background(), "dev-to")
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("got %v, want db error code", err)
	}
}

func TestReliabilityNeutralUnderMinSample(t *testing.T) {
	rec := domain.Record{RollingSuccess: 0, RollingTotal: 3}
	if got := rec.Reliability(5); got != 100 {
		t.Fatalf("got %d, want neutral 100 below the sample floor", got)
	}
	rec = domain.Record{RollingSuccess: 2, RollingTotal: 8}
	if got := rec.Reliability(5); got != 25 {
		t.Fatalf("got %d, want 25", got)
	}
}
