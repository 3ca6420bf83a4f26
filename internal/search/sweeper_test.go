package search

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherpro/scout/internal/types"
)

// stubProvider answers queries from a fixed map and fails the rest.
type stubProvider struct {
	mu      sync.Mutex
	results map[string][]types.SearchResult
	queries []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	p.mu.Unlock()

	results, ok := p.results[query]
	if !ok {
		return nil, fmt.Errorf("query failed: %s", query)
	}
	return results, nil
}

func TestSweepTagsLeads(t *testing.T) {
	provider := &stubProvider{results: map[string][]types.SearchResult{
		"LangChain agent": {
			{URL: "https://example.com/a", Title: "A", Snippet: "agent A"},
			{URL: "https://example.com/b", Title: "B", Snippet: "agent B"},
		},
	}}
	sweeper := NewSweeper(provider, 2)

	swept := sweeper.Sweep(context.Background(), []string{"LangChain agent"}, 10)
	require.Len(t, swept, 1)

	leads := swept["LangChain agent"]
	require.Len(t, leads, 2)
	for _, lead := range leads {
		assert.Equal(t, "LangChain agent", lead.Query)
		assert.False(t, lead.DiscoveredAt.IsZero())
	}
}

func TestSweepOmitsFailedKeywords(t *testing.T) {
	provider := &stubProvider{results: map[string][]types.SearchResult{
		"good keyword": {{URL: "https://example.com", Title: "X"}},
	}}
	sweeper := NewSweeper(provider, 4)

	keywords := []string{"good keyword", "bad keyword", "another bad one"}
	swept := sweeper.Sweep(context.Background(), keywords, 10)

	// Failed keywords are simply absent; the good one is untouched.
	assert.Len(t, swept, 1)
	assert.Contains(t, swept, "good keyword")
	assert.Len(t, provider.queries, 3, "all keywords were attempted")
}

func TestSweepSkipsEmptyURLs(t *testing.T) {
	provider := &stubProvider{results: map[string][]types.SearchResult{
		"keyword": {
			{URL: "", Title: "no url"},
			{URL: "https://example.com", Title: "ok"},
		},
	}}
	sweeper := NewSweeper(provider, 1)

	swept := sweeper.Sweep(context.Background(), []string{"keyword"}, 10)
	assert.Len(t, swept["keyword"], 1)
}

func TestFlattenFollowsKeywordOrder(t *testing.T) {
	swept := map[string][]types.Lead{
		"beta":  {{URL: "https://b.example.com"}},
		"alpha": {{URL: "https://a1.example.com"}, {URL: "https://a2.example.com"}},
	}

	all := Flatten([]string{"alpha", "beta", "missing"}, swept)
	require.Len(t, all, 3)
	assert.Equal(t, "https://a1.example.com", all[0].URL)
	assert.Equal(t, "https://a2.example.com", all[1].URL)
	assert.Equal(t, "https://b.example.com", all[2].URL)
}
