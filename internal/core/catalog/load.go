package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed seed.json
var embedded []byte

type rawEntry struct {
	Domain          string `json:"domain"`
	DisplayName     string `json:"display_name"`
	Category        string `json:"category"`
	AuthorityScore  int    `json:"authority_score"`
	Difficulty      string `json:"difficulty"`
	AuthRequired    bool   `json:"auth_required"`
	AllowsBacklinks bool   `json:"allows_backlinks"`
	Method          string `json:"submission_method"`
}

type rawSource struct {
	Version   int        `json:"version"`
	Platforms []rawEntry `json:"platforms"`
}

// Parse decodes one JSON source into normalized, validated entries.
// Duplicate domains within a single source collapse to the first occurrence
func Parse(src []byte) ([]Entry, error) {
	var rs rawSource
	if err := json.Unmarshal(src, &rs); err != nil {
		return nil, fmt.Errorf("catalog: parse source: %w", err)
	}
	if len(rs.Platforms) == 0 {
		return nil, fmt.Errorf("catalog: source has no platforms")
	}

	seen := make(map[string]struct{}, len(rs.Platforms))
	out := make([]Entry, 0, len(rs.Platforms))
	for _, r := range rs.Platforms {
		dom := NormalizeDomain(r.Domain)
		id := IDFor(dom)
		if id == "" {
			return nil, fmt.Errorf("catalog: unusable domain %q", r.Domain)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		e := Entry{
			ID:              id,
			Domain:          dom,
			DisplayName:     r.DisplayName,
			Category:        Category(r.Category),
			AuthorityScore:  r.AuthorityScore,
			Difficulty:      Difficulty(r.Difficulty),
			AuthRequired:    r.AuthRequired,
			AllowsBacklinks: r.AllowsBacklinks,
			Method:          SubmissionMethod(r.Method),
		}
		if e.DisplayName == "" {
			e.DisplayName = dom
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Merge folds incoming entries into existing by id. Existing IDs never change;
// later sources refine attributes of an already known entry rather than re-key
// it. Merge is idempotent: merging the same source twice is a no-op
func Merge(existing, incoming []Entry) []Entry {
	byID := make(map[string]int, len(existing))
	out := make([]Entry, len(existing))
	copy(out, existing)
	for i, e := range out {
		byID[e.ID] = i
	}

	for _, in := range incoming {
		if i, ok := byID[in.ID]; ok {
			// refine attributes in place, identity fields stay
			id, dom := out[i].ID, out[i].Domain
			out[i] = in
			out[i].ID, out[i].Domain = id, dom
			continue
		}
		byID[in.ID] = len(out)
		out = append(out, in)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	// re-sorting invalidated byID but Merge returns a fresh slice each call
	return out
}

// Load parses the embedded seed plus any extra sources and merges them in
// order. If nothing parses, the hardcoded fallback set is returned so callers
// always have some candidate set
func Load(extra ...[]byte) []Entry {
	var merged []Entry
	loaded := 0

	if seed, err := Parse(embedded); err == nil {
		merged = Merge(merged, seed)
		loaded++
	}
	for _, src := range extra {
		entries, err := Parse(src)
		if err != nil {
			continue
		}
		merged = Merge(merged, entries)
		loaded++
	}

	if loaded == 0 || len(merged) == 0 {
		return Fallback()
	}
	return merged
}

// Fallback returns the minimal known-good set used when no source loads
func Fallback() []Entry {
	return []Entry{
		{
			ID: "dev-to", Domain: "dev.to", DisplayName: "DEV Community",
			Category: CategoryWeb2, AuthorityScore: 90, Difficulty: DifficultyEasy,
			AuthRequired: true, AllowsBacklinks: true, Method: MethodAPI,
		},
		{
			ID: "telegraph-ph", Domain: "telegraph.ph", DisplayName: "Telegraph",
			Category: CategoryWeb2, AuthorityScore: 85, Difficulty: DifficultyEasy,
			AllowsBacklinks: true, Method: MethodAPI,
		},
		{
			ID: "writeas-com", Domain: "writeas.com", DisplayName: "Write.as",
			Category: CategoryWeb2, AuthorityScore: 78, Difficulty: DifficultyEasy,
			AllowsBacklinks: true, Method: MethodAPI,
		},
	}
}
