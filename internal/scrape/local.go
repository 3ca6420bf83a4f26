package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aetherpro/scout/internal/types"
)

// LocalExtractor fetches pages directly and parses the static HTML. It
// cannot see JavaScript-rendered content, so it is strictly a degraded
// fallback for installs without a Firecrawl key. Leads whose pages render
// client-side will come back mostly empty and usually drop at the
// structuring phase.
type LocalExtractor struct {
	httpClient *http.Client
	userAgent  string
}

// NewLocalExtractor creates a local HTTP extractor with a bounded timeout.
func NewLocalExtractor(timeout time.Duration) *LocalExtractor {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &LocalExtractor{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "scout-discovery/1.0",
	}
}

func (e *LocalExtractor) Name() string { return "local" }

// Extract fetches one URL and reduces the document to text content.
func (e *LocalExtractor) Extract(ctx context.Context, url string) (*types.ScrapedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", url, err)
	}

	// Strip chrome before flattening to text.
	doc.Find("script, style, nav, header, footer, noscript").Remove()

	metadata := map[string]string{}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		metadata["title"] = title
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		metadata["description"] = desc
	}

	var text strings.Builder
	doc.Find("h1, h2, h3, h4, p, li, a, code, pre").Each(func(_ int, sel *goquery.Selection) {
		line := strings.TrimSpace(sel.Text())
		if line != "" {
			text.WriteString(line)
			text.WriteString("\n")
		}
		// Keep hrefs in the text stream so contact patterns can see
		// profile links that have no visible URL text.
		if href, ok := sel.Attr("href"); ok {
			text.WriteString(href)
			text.WriteString("\n")
		}
	})

	content := text.String()
	return &types.ScrapedContent{
		URL:       url,
		Markdown:  content,
		Metadata:  metadata,
		Contacts:  ExtractContacts(content),
		ScrapedAt: time.Now().UTC(),
	}, nil
}
