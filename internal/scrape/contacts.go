package scrape

import (
	"regexp"

	"github.com/aetherpro/scout/internal/types"
)

// Contact extraction patterns. Applied to extracted text content; the first
// match wins for each channel.
var (
	emailRegex  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	githubRegex = regexp.MustCompile(`github\.com/([a-zA-Z0-9_-]+)`)
	// Bare @handles only count when not preceded by a word character, so
	// the local part of an email address never reads as a handle.
	twitterRegex  = regexp.MustCompile(`(?:twitter\.com/|x\.com/|(?:^|[^a-zA-Z0-9._])@)([a-zA-Z0-9_]{2,15})`)
	linkedinRegex = regexp.MustCompile(`linkedin\.com/(?:in|company)/([a-zA-Z0-9_-]+)`)
)

// ExtractContacts pulls contact identifiers out of page content using
// pattern heuristics. These are heuristics, not validation: a matched email
// may still be a support alias or a noreply address. Downstream review
// decides whether a contact is usable.
func ExtractContacts(content string) (c types.Contacts) {
	if m := emailRegex.FindString(content); m != "" {
		c.Email = m
	}
	if m := githubRegex.FindStringSubmatch(content); m != nil {
		c.GitHub = "https://github.com/" + m[1]
	}
	if m := twitterRegex.FindStringSubmatch(content); m != nil {
		c.Twitter = "https://twitter.com/" + m[1]
	}
	if m := linkedinRegex.FindStringSubmatch(content); m != nil {
		c.LinkedIn = "https://linkedin.com/in/" + m[1]
	}
	return c
}
