package types

import "time"

// SearchResult is the canonical record returned by a bulk search provider,
// normalized from whatever shape the provider actually produced.
type SearchResult struct {
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Relevance is the parsed output of the relevance-classification oracle call.
type Relevance struct {
	IsAgent    bool    `json:"is_agent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Category   string  `json:"preliminary_category"`
}

// ResearchSource is one supporting source attached by deep research.
type ResearchSource struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content,omitempty"`
	Score   float64 `json:"score"`
}

// Contacts holds contact identifiers extracted from page content.
// Each channel keeps only the first match found.
type Contacts struct {
	Email    string `json:"email,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// HasChannel reports whether any usable outreach channel exists.
func (c Contacts) HasChannel() bool {
	return c.Email != "" || c.GitHub != "" || c.Twitter != ""
}

// ScrapedContent is the extracted page content for a lead's primary URL.
type ScrapedContent struct {
	URL       string            `json:"url"`
	Markdown  string            `json:"markdown"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Contacts  Contacts          `json:"contacts"`
	ScrapedAt time.Time         `json:"scraped_at"`
}

// Lead is a candidate agent moving through the pipeline. Its source URL is
// its identity. Attributes accumulate monotonically as phases run; a lead
// that fails a phase's filter is dropped, never carried forward or retried
// within the same run.
type Lead struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Snippet      string    `json:"snippet"`
	Query        string    `json:"search_query"`
	DiscoveredAt time.Time `json:"discovered_at"`

	// Filled by the relevance filter.
	Relevance *Relevance `json:"relevance,omitempty"`

	// Filled by deep research.
	Research []ResearchSource `json:"research,omitempty"`

	// Filled by content extraction.
	Scraped *ScrapedContent `json:"scraped,omitempty"`
}
