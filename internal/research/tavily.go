// Package research enriches filtered leads with supporting sources from a
// deep-research provider.
package research

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

const tavilyURL = "https://api.tavily.com/search"

// Provider is a deep-research backend: refined query in, a small set of
// scored sources out.
type Provider interface {
	Research(ctx context.Context, query string, maxResults int, depth string) ([]types.ResearchSource, error)
}

// TavilyClient implements Provider against the Tavily search API.
type TavilyClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// TavilyConfig configures the Tavily client.
type TavilyConfig struct {
	APIKey  string        // if empty, reads TAVILY_API_KEY
	URL     string        // default: https://api.tavily.com/search
	Timeout time.Duration // per-request timeout (default: 10s)
}

// NewTavilyClient creates a Tavily deep-research client.
func NewTavilyClient(cfg *TavilyConfig) (*TavilyClient, error) {
	if cfg == nil {
		cfg = &TavilyConfig{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("TAVILY_API_KEY not set")
		}
	}

	url := cfg.URL
	if url == "" {
		url = tavilyURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &TavilyClient{
		apiKey:     apiKey,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Research issues one deep-research query.
func (c *TavilyClient) Research(ctx context.Context, query string, maxResults int, depth string) ([]types.ResearchSource, error) {
	if depth == "" {
		depth = "advanced"
	}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    maxResults,
		SearchDepth:   depth,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling research request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building research request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research request for %q: %w", query, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading research response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("research API returned %d", resp.StatusCode)
	}

	var decoded tavilyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding research response: %w", err)
	}

	sources := make([]types.ResearchSource, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		sources = append(sources, types.ResearchSource{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return sources, nil
}
