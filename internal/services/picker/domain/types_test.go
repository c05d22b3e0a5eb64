package domain

import (
	"testing"

	"linkmill/internal/core/catalog"

	"github.com/google/go-cmp/cmp"
)

func TestRelaxWidensOnce(t *testing.T) {
	c := Criteria{
		MinAuthority:  60,
		MaxDifficulty: catalog.DifficultyEasy,
		AnonymousOnly: true,
	}

	r := c.Relax(20)
	if r.MinAuthority != 40 {
		t.Fatalf("got floor %d, want 40", r.MinAuthority)
	}
	if r.MaxDifficulty != catalog.DifficultyHard {
		t.Fatalf("got difficulty %q, want hard", r.MaxDifficulty)
	}
	if !r.AnonymousOnly {
		t.Fatal("hard requirements must survive relaxation")
	}
	if !r.Relaxed {
		t.Fatal("relaxed marker not set")
	}

	again := r.Relax(20)
	if diff := cmp.Diff(r, again); diff != "" {
		t.Fatalf("second relax must be a no-op (-first +second):\n%s", diff)
	}
}

func TestRelaxFloorsAtZero(t *testing.T) {
	r := Criteria{MinAuthority: 10}.Relax(20)
	if r.MinAuthority != 0 {
		t.Fatalf("got floor %d, want 0", r.MinAuthority)
	}
}
