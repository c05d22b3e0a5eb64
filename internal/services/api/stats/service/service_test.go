package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	perr "linkmill/internal/platform/errors"
	"linkmill/internal/platform/testkit"
	ptime "linkmill/internal/platform/time"

	"linkmill/internal/modkit/repokit"
	"linkmill/internal/services/api/stats/domain"
	"linkmill/internal/services/api/stats/repo"
)

type fakeRepo struct {
	attempts repo.AttemptTotals
	health   repo.HealthTotals
	rows     []repo.HealthRow

	healthNow       time.Time
	healthMinSample int

	platformsLimit int
	err            error
}

func (f *fakeRepo) AttemptTotals(context.Context) (repo.AttemptTotals, error) {
	if f.err != nil {
		return repo.AttemptTotals{}, f.err
	}
	return f.attempts, nil
}

func (f *fakeRepo) HealthTotals(_ context.Context, now time.Time, minSample int) (repo.HealthTotals, error) {
	if f.err != nil {
		return repo.HealthTotals{}, f.err
	}
	f.healthNow = now
	f.healthMinSample = minSample
	return f.health, nil
}

func (f *fakeRepo) Platforms(_ context.Context, _ *bool, _ string, limit int) ([]repo.HealthRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.platformsLimit = limit
	return f.rows, nil
}

type fakeBinder struct{ r *fakeRepo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(nopDB{}) }

func newSvc(r *fakeRepo, minSample int) *Svc {
	return New(nopDB{}, fakeBinder{r: r}, ptime.NewFake(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)), minSample)
}

func TestNewPanicsOnNilDB(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, fakeBinder{r: &fakeRepo{}}, nil, 5) })
}

func TestOverviewMergesBothQueries(t *testing.T) {
	r := &fakeRepo{
		attempts: repo.AttemptTotals{Total: 100, Success: 70, Failed: 20, TimedOut: 6, Pending: 4},
		health:   repo.HealthTotals{Blacklisted: 2, Disabled: 1, Unreliable: 3, AvgSuccessRate: 74.5},
	}
	got, err := newSvc(r, 5).Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	want := domain.Overview{
		TotalAttempts:         100,
		SuccessfulAttempts:    70,
		FailedAttempts:        20,
		TimedOutAttempts:      6,
		PendingAttempts:       4,
		BlacklistedCount:      2,
		DisabledCount:         1,
		UnreliableCount:       3,
		AverageSuccessRatePct: 74.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overview mismatch (-want +got):\n%s", diff)
	}
	if r.healthMinSample != 5 {
		t.Fatalf("sample floor must flow to the query, got %d", r.healthMinSample)
	}
	if r.healthNow.IsZero() {
		t.Fatal("health totals must be evaluated against the clock")
	}
}

func TestPlatformsDerivesReliability(t *testing.T) {
	r := &fakeRepo{rows: []repo.HealthRow{
		{PlatformID: "dev-to", RollingSuccess: 14, RollingTotal: 20},
		{PlatformID: "fresh", RollingSuccess: 0, RollingTotal: 2},
	}}
	rows, err := newSvc(r, 5).Platforms(context.Background(), domain.PlatformsInput{})
	if err != nil {
		t.Fatalf("Platforms: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ReliabilityPct != 70 {
		t.Fatalf("14/20 must derive 70, got %d", rows[0].ReliabilityPct)
	}
	// under the sample floor the score stays neutral
	if rows[1].ReliabilityPct != 100 {
		t.Fatalf("2 attempts are below the floor, got %d", rows[1].ReliabilityPct)
	}
	if r.platformsLimit != 100 {
		t.Fatalf("unset limit must default to 100, got %d", r.platformsLimit)
	}
}

func TestPlatformsHonorsLimit(t *testing.T) {
	r := &fakeRepo{}
	if _, err := newSvc(r, 5).Platforms(context.Background(), domain.PlatformsInput{Limit: 25}); err != nil {
		t.Fatalf("Platforms: %v", err)
	}
	if r.platformsLimit != 25 {
		t.Fatalf("got limit %d, want 25", r.platformsLimit)
	}
}

func TestOverviewWrapsRepoErrors(t *testing.T) {
	r := &fakeRepo{err: errors.New("boom")}
	_, err := newSvc(r, 5).Overview(context.Background())
	if err == nil {
		t.Fatal("want error")
	}
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want coded db error, got %v", err)
	}
}
