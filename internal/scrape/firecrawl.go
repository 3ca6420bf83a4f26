package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aetherpro/scout/internal/types"
)

const firecrawlBaseURL = "https://api.firecrawl.dev/v1"

// FirecrawlExtractor fetches rendered page content through the Firecrawl
// scrape API, which executes JavaScript and waits for dynamic content
// before converting the page to markdown.
type FirecrawlExtractor struct {
	apiKey     string
	baseURL    string
	waitMs     int
	httpClient *http.Client
}

// FirecrawlConfig configures the Firecrawl extractor.
type FirecrawlConfig struct {
	APIKey  string        // if empty, reads FIRECRAWL_API_KEY
	BaseURL string        // default: https://api.firecrawl.dev/v1
	WaitMs  int           // JS render wait in milliseconds (default: 2000)
	Timeout time.Duration // per-request timeout (default: 60s)
}

// NewFirecrawlExtractor creates a Firecrawl-backed extractor.
func NewFirecrawlExtractor(cfg *FirecrawlConfig) (*FirecrawlExtractor, error) {
	if cfg == nil {
		cfg = &FirecrawlConfig{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("FIRECRAWL_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("FIRECRAWL_API_KEY not set")
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = firecrawlBaseURL
	}

	waitMs := cfg.WaitMs
	if waitMs == 0 {
		waitMs = 2000
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &FirecrawlExtractor{
		apiKey:     apiKey,
		baseURL:    baseURL,
		waitMs:     waitMs,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (e *FirecrawlExtractor) Name() string { return "firecrawl" }

type firecrawlRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	WaitFor         int      `json:"waitFor"`
}

type firecrawlResponse struct {
	Markdown string            `json:"markdown"`
	Metadata map[string]string `json:"metadata"`

	// Newer API versions nest the payload under "data".
	Data *struct {
		Markdown string            `json:"markdown"`
		Metadata map[string]string `json:"metadata"`
	} `json:"data,omitempty"`
}

// Extract scrapes one URL and runs contact extraction over the markdown.
func (e *FirecrawlExtractor) Extract(ctx context.Context, url string) (*types.ScrapedContent, error) {
	payload, err := json.Marshal(firecrawlRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		WaitFor:         e.waitMs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building scrape request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request for %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scrape response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape API returned %d for %s", resp.StatusCode, url)
	}

	var decoded firecrawlResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding scrape response: %w", err)
	}

	markdown := decoded.Markdown
	metadata := decoded.Metadata
	if decoded.Data != nil {
		markdown = decoded.Data.Markdown
		metadata = decoded.Data.Metadata
	}

	return &types.ScrapedContent{
		URL:       url,
		Markdown:  markdown,
		Metadata:  metadata,
		Contacts:  ExtractContacts(markdown),
		ScrapedAt: time.Now().UTC(),
	}, nil
}
