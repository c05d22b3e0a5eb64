package catalog

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// aliases maps legacy or vanity spellings to the canonical domain.
// Keys are already normalized (lowercase, no www.)
var aliases = map[string]string{
	"write.as":    "writeas.com",
	"writeas":     "writeas.com",
	"telegra.ph":  "telegraph.ph",
	"telegraph":   "telegraph.ph",
	"notion.site": "notion.so",
	"medium.org":  "medium.com",
}

// pool of fresh transformer chains; order matters
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// NormalizeDomain folds a raw domain or URL fragment to its canonical catalog
// form. Idempotent: NormalizeDomain(NormalizeDomain(s)) == NormalizeDomain(s)
func NormalizeDomain(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	s = ns

	// strip scheme, path, port
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimPrefix(s, "www.")
	s = strings.Trim(s, ".")

	if canon, ok := aliases[s]; ok {
		return canon
	}
	return s
}

// IDFor derives the stable catalog id from a domain.
// The id survives reloads because it depends only on the normalized domain
func IDFor(domain string) string {
	d := NormalizeDomain(domain)
	if d == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(d))
	for _, r := range d {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
