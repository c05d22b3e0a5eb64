package service

import (
	"context"
	"testing"
	"time"

	"linkmill/internal/core/catalog"
	perr "linkmill/internal/platform/errors"

	"linkmill/internal/modkit/repokit"
	dom "linkmill/internal/services/registry/domain"
	"linkmill/internal/services/registry/repo"
)

type fakeRepo struct {
	entries   map[string]catalog.Entry
	listCalls int
}

func newFakeRepo(entries ...catalog.Entry) *fakeRepo {
	f := &fakeRepo{entries: map[string]catalog.Entry{}}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return f
}

func (f *fakeRepo) Upsert(_ context.Context, entries []catalog.Entry, _ time.Time) error {
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return nil
}

func (f *fakeRepo) List(context.Context) ([]catalog.Entry, error) {
	f.listCalls++
	out := make([]catalog.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (catalog.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return catalog.Entry{}, perr.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) GetByDomain(_ context.Context, domain string) (catalog.Entry, error) {
	for _, e := range f.entries {
		if e.Domain == domain {
			return e, nil
		}
	}
	return catalog.Entry{}, perr.ErrNotFound
}

func (f *fakeRepo) Count(context.Context) (int, error) { return len(f.entries), nil }

type fakeBinder struct{ r repo.Repo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(nopDB{}) }

// fakeCache is an always-up in-memory Cache
type fakeCache struct {
	data map[string]string
	sets int
	dels int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (f *fakeCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(_ context.Context, key, val string, _ time.Duration) {
	f.data[key] = val
	f.sets++
}

func (f *fakeCache) Del(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(f.data, k)
	}
	f.dels++
}

func (f *fakeCache) Close() error { return nil }

func entry(id, domain string, authority int, difficulty catalog.Difficulty, authRequired bool) catalog.Entry {
	return catalog.Entry{
		ID:              id,
		Domain:          domain,
		DisplayName:     domain,
		Category:        catalog.CategoryWeb2,
		AuthorityScore:  authority,
		Difficulty:      difficulty,
		AuthRequired:    authRequired,
		AllowsBacklinks: true,
		Method:          catalog.MethodAPI,
	}
}

func TestListAppliesFilter(t *testing.T) {
	fr := newFakeRepo(
		entry("dev-to", "dev.to", 90, catalog.DifficultyEasy, true),
		entry("telegraph-ph", "telegraph.ph", 85, catalog.DifficultyEasy, false),
		entry("substack-com", "substack.com", 92, catalog.DifficultyHard, true),
	)
	s := NewService(nopDB{}, fakeBinder{r: fr}, nil, 0, nil, nil)

	got, err := s.List(context.Background(), dom.Filter{AnonymousOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "telegraph-ph" {
		t.Fatalf("anonymous filter broken, got %+v", got)
	}

	got, err = s.List(context.Background(), dom.Filter{MinAuthority: 91})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "substack-com" {
		t.Fatalf("authority filter broken, got %+v", got)
	}
}

func TestListReadsThroughCache(t *testing.T) {
	fr := newFakeRepo(entry("dev-to", "dev.to", 90, catalog.DifficultyEasy, true))
	fc := newFakeCache()
	s := NewService(nopDB{}, fakeBinder{r: fr}, fc, time.Minute, nil, nil)
	ctx := context.Background()

	if _, err := s.List(ctx, dom.Filter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := s.List(ctx, dom.Filter{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	if fr.listCalls != 1 {
		t.Fatalf("got %d repo list calls, want 1 (second served from cache)", fr.listCalls)
	}
	if fc.sets != 1 {
		t.Fatalf("got %d cache sets, want 1", fc.sets)
	}
}

func TestPoisonedCacheFallsThrough(t *testing.T) {
	fr := newFakeRepo(entry("dev-to", "dev.to", 90, catalog.DifficultyEasy, true))
	fc := newFakeCache()
	fc.data["registry:catalog:v1"] = "{not json"
	s := NewService(nopDB{}, fakeBinder{r: fr}, fc, time.Minute, nil, nil)

	got, err := s.List(context.Background(), dom.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want repo fallback", len(got))
	}
	if fr.listCalls != 1 {
		t.Fatal("poisoned cache must fall through to the repo")
	}
}

func TestReloadSeedsAndInvalidates(t *testing.T) {
	fr := newFakeRepo()
	fc := newFakeCache()
	fc.data["registry:catalog:v1"] = "[]"
	s := NewService(nopDB{}, fakeBinder{r: fr}, fc, time.Minute, nil, nil)

	n, err := s.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n < 15 {
		t.Fatalf("got %d platforms, want the embedded catalog", n)
	}
	if _, ok := fc.data["registry:catalog:v1"]; ok {
		t.Fatal("reload must invalidate the snapshot")
	}
	if _, ok := fr.entries["writeas-com"]; !ok {
		t.Fatal("seed entry missing after reload")
	}
}

func TestResolveNormalizesAliases(t *testing.T) {
	fr := newFakeRepo(entry("writeas-com", "writeas.com", 78, catalog.DifficultyEasy, false))
	s := NewService(nopDB{}, fakeBinder{r: fr}, nil, 0, nil, nil)
	ctx := context.Background()

	for _, ref := range []string{"write.as", "https://WRITE.AS/about", "writeas.com"} {
		e, err := s.Resolve(ctx, ref)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ref, err)
		}
		if e.ID != "writeas-com" {
			t.Fatalf("Resolve(%q) = %q, want writeas-com", ref, e.ID)
		}
	}
}

func TestResolveFallsBackToID(t *testing.T) {
	fr := newFakeRepo(entry("dev-to", "dev.to", 90, catalog.DifficultyEasy, true))
	s := NewService(nopDB{}, fakeBinder{r: fr}, nil, 0, nil, nil)

	e, err := s.Resolve(context.Background(), "dev-to")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.ID != "dev-to" {
		t.Fatalf("got %q, want dev-to", e.ID)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s := NewService(nopDB{}, fakeBinder{r: newFakeRepo()}, nil, 0, nil, nil)

	_, err := s.GetByID(context.Background(), "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}
