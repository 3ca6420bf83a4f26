// Package pipeline wires the discovery phases into a single sequential run:
// sweep, dedup, relevance filter, deep research, content extraction,
// structuring, persistence, and outreach drafting.
package pipeline

import (
	"net/url"
	"strings"

	"github.com/aetherpro/scout/internal/types"
)

// NormalizeURL produces the canonical identity key for a lead URL.
// Scheme and host are case-insensitive per RFC 3986, and a trailing slash
// on the path is not a distinct resource for dedup purposes. Paths and
// query strings otherwise keep their case.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		// Not parseable as an absolute URL. Fall back to a trimmed,
		// lowercased comparison so near-identical junk still collapses.
		return strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), "/"))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

// Dedupe collapses leads with the same normalized URL, keeping the first
// occurrence of each. Input order is preserved for survivors, so earlier
// keywords win ties. cap <= 0 means unbounded; otherwise the survivor list
// is cut off at cap entries.
func Dedupe(leads []types.Lead, cap int) []types.Lead {
	seen := make(map[string]struct{}, len(leads))
	unique := make([]types.Lead, 0, len(leads))
	for _, lead := range leads {
		key := NormalizeURL(lead.URL)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, lead)
		if cap > 0 && len(unique) >= cap {
			break
		}
	}
	return unique
}
