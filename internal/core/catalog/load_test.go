package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSeed(t *testing.T) {
	entries, err := Parse(embedded)
	if err != nil {
		t.Fatalf("Parse(seed): %v", err)
	}
	if len(entries) < 15 {
		t.Fatalf("seed unexpectedly small: %d entries", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			t.Fatalf("seed entry invalid: %v", err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id in seed: %s", e.ID)
		}
		seen[e.ID] = true
	}
	// aliased domains collapse to their canonical form
	if !seen["writeas-com"] {
		t.Fatal("write.as should normalize to writeas-com")
	}
}

func TestParseRejectsBadSource(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"not json", "nope"},
		{"empty platforms", `{"version":1,"platforms":[]}`},
		{"authority out of range", `{"platforms":[{"domain":"x.com","category":"forum","authority_score":140,"difficulty":"easy","submission_method":"api"}]}`},
		{"unknown difficulty", `{"platforms":[{"domain":"x.com","category":"forum","authority_score":50,"difficulty":"trivial","submission_method":"api"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.src)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestMergeIdempotentAndStable(t *testing.T) {
	seed, err := Parse(embedded)
	if err != nil {
		t.Fatalf("Parse(seed): %v", err)
	}

	once := Merge(nil, seed)
	twice := Merge(once, seed)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("merge not idempotent (-once +twice):\n%s", diff)
	}

	// a later source refines attributes but never re-keys
	refinement := []Entry{{
		ID: "dev-to", Domain: "dev.to", DisplayName: "DEV",
		Category: CategoryWeb2, AuthorityScore: 91, Difficulty: DifficultyEasy,
		AuthRequired: true, AllowsBacklinks: true, Method: MethodAPI,
	}}
	merged := Merge(once, refinement)
	if len(merged) != len(once) {
		t.Fatalf("refinement changed entry count: %d -> %d", len(once), len(merged))
	}
	var found bool
	for _, e := range merged {
		if e.ID == "dev-to" {
			found = true
			if e.AuthorityScore != 91 {
				t.Fatalf("attribute not refined: authority %d", e.AuthorityScore)
			}
			if e.Domain != "dev.to" {
				t.Fatalf("identity changed: %q", e.Domain)
			}
		}
	}
	if !found {
		t.Fatal("dev-to missing after merge")
	}
}

func TestLoadFallsBack(t *testing.T) {
	// Load with only an unparsable extra source still succeeds via the seed
	entries := Load([]byte("garbage"))
	if len(entries) < 15 {
		t.Fatalf("expected seed catalog, got %d entries", len(entries))
	}

	// Fallback is never empty and always valid
	fb := Fallback()
	if len(fb) == 0 {
		t.Fatal("fallback must not be empty")
	}
	for _, e := range fb {
		if err := e.Validate(); err != nil {
			t.Fatalf("fallback entry invalid: %v", err)
		}
	}
}
