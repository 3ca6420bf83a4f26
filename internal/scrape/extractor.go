// Package scrape fetches and parses page content for researched leads and
// extracts contact identifiers from it.
package scrape

import (
	"context"
	"log/slog"

	"github.com/aetherpro/scout/internal/types"
)

// Extractor fetches rendered page content for one URL. Implementations are
// expected to tolerate JavaScript-rendered pages (or degrade to whatever
// static markup the server hands back, for the local extractor).
type Extractor interface {
	Extract(ctx context.Context, url string) (*types.ScrapedContent, error)
	Name() string
}

// ExtractLeads scrapes the top cap leads' primary URLs. A single fetch
// failure (timeout, non-200, parse error) removes only that lead from the
// output; nothing raises past this function.
func ExtractLeads(ctx context.Context, extractor Extractor, leads []types.Lead, cap int) []types.Lead {
	if cap > 0 && len(leads) > cap {
		leads = leads[:cap]
	}

	scraped := make([]types.Lead, 0, len(leads))
	for _, lead := range leads {
		content, err := extractor.Extract(ctx, lead.URL)
		if err != nil {
			slog.Warn("content extraction failed, dropping lead",
				"extractor", extractor.Name(),
				"url", lead.URL,
				"error", err)
			continue
		}
		lead.Scraped = content
		scraped = append(scraped, lead)
	}

	return scraped
}
