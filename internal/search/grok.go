package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/aetherpro/scout/internal/ai"
	"github.com/aetherpro/scout/internal/types"
)

const (
	grokBaseURL = "https://api.x.ai/v1"
	grokModel   = "grok-beta"
)

// GrokProvider performs fast web search through Grok's chat-completions
// endpoint, which has native web search. The model is asked for a JSON
// array of results; whatever comes back is parsed defensively.
type GrokProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// GrokConfig configures the Grok search provider.
type GrokConfig struct {
	APIKey  string        // if empty, reads GROK_API_KEY
	BaseURL string        // default: https://api.x.ai/v1
	Timeout time.Duration // per-request timeout (default: 60s)
	// RPS limits outbound request rate; zero means a conservative 2/s.
	RPS float64
}

// NewGrokProvider creates a Grok search provider. A missing API key is a
// setup failure and reported immediately, not deferred to the first query.
func NewGrokProvider(cfg *GrokConfig) (*GrokProvider, error) {
	if cfg == nil {
		cfg = &GrokConfig{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROK_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GROK_API_KEY not set")
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = grokBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	rps := cfg.RPS
	if rps == 0 {
		rps = 2
	}

	return &GrokProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (p *GrokProvider) Name() string { return "grok" }

type grokChatRequest struct {
	Model       string        `json:"model"`
	Messages    []grokMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type grokMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type grokChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Search runs one web search query. A malformed model response degrades to
// an empty result list rather than an error; only transport and API
// failures propagate.
func (p *GrokProvider) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqBody := grokChatRequest{
		Model: grokModel,
		Messages: []grokMessage{
			{
				Role:    "system",
				Content: "You are a web search specialist. Use your web search capabilities to find relevant results.",
			},
			{
				Role:    "user",
				Content: buildSearchPrompt(query, maxResults),
			},
		},
		// Low temperature for factual search.
		Temperature: 0.1,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request for %q: %w", query, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, truncateBody(body))
	}

	var chatResp grokChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decoding search response envelope: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, nil
	}

	// The model's content is untrusted free text. Parse failure is an
	// expected condition and degrades to zero results for this query.
	parsed := ai.Parse[[]types.SearchResult](chatResp.Choices[0].Message.Content, "grok search results")
	if !parsed.Success {
		return nil, nil
	}

	results := parsed.Data
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func buildSearchPrompt(query string, maxResults int) string {
	return fmt.Sprintf(`Search the web for: %s

Return the top %d most relevant results.
For each result, provide the URL, title, a brief snippet, and a relevance score (0-1).

Format as a JSON array:
[
  {
    "url": "https://...",
    "title": "...",
    "snippet": "...",
    "relevance_score": 0.95
  }
]

Focus on authoritative sources. Prioritize official documentation, GitHub repositories, technical blogs, and product pages.`, query, maxResults)
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
