package research

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherpro/scout/internal/types"
)

type stubProvider struct {
	sources []types.ResearchSource
	failOn  string
	queries []string
}

func (p *stubProvider) Research(ctx context.Context, query string, maxResults int, depth string) ([]types.ResearchSource, error) {
	p.queries = append(p.queries, query)
	if p.failOn != "" && strings.Contains(query, p.failOn) {
		return nil, fmt.Errorf("research backend down")
	}
	return p.sources, nil
}

func TestResearchAttachesSources(t *testing.T) {
	provider := &stubProvider{sources: []types.ResearchSource{
		{URL: "https://docs.example.com", Title: "Docs", Score: 0.9},
		{URL: "https://blog.example.com", Title: "Blog", Score: 0.7},
	}}
	adapter := NewAdapter(provider, 3)

	run := types.NewRun([]string{"kw"}, 50)
	leads := []types.Lead{{URL: "https://example.com/agent", Title: "TestAgent"}}

	researched := adapter.Research(context.Background(), run, leads, 30)
	require.Len(t, researched, 1)
	assert.Len(t, researched[0].Research, 2)

	// Sources accumulate on the run for audit.
	require.Len(t, run.Sources, 2)
	assert.Equal(t, "https://docs.example.com", run.Sources[0].URL)

	// Query is derived from the lead title.
	require.Len(t, provider.queries, 1)
	assert.Contains(t, provider.queries[0], "TestAgent")
}

func TestResearchCapsLeadsAndSources(t *testing.T) {
	provider := &stubProvider{sources: []types.ResearchSource{
		{URL: "https://1.example.com"}, {URL: "https://2.example.com"},
		{URL: "https://3.example.com"}, {URL: "https://4.example.com"},
	}}
	adapter := NewAdapter(provider, 2)

	run := types.NewRun([]string{"kw"}, 50)
	leads := []types.Lead{
		{URL: "https://a.example.com", Title: "A"},
		{URL: "https://b.example.com", Title: "B"},
		{URL: "https://c.example.com", Title: "C"},
	}

	researched := adapter.Research(context.Background(), run, leads, 2)
	require.Len(t, researched, 2, "lead cap applies in arrival order")
	assert.Equal(t, "https://a.example.com", researched[0].URL)
	assert.Len(t, researched[0].Research, 2, "per-lead source cap applies")
	assert.Len(t, run.Sources, 4)
}

func TestResearchFailureKeepsLeadWithoutSources(t *testing.T) {
	provider := &stubProvider{
		sources: []types.ResearchSource{{URL: "https://docs.example.com", Score: 0.8}},
		failOn:  "BrokenBot",
	}
	adapter := NewAdapter(provider, 3)

	run := types.NewRun([]string{"kw"}, 50)
	leads := []types.Lead{
		{URL: "https://a.example.com", Title: "AlphaBot"},
		{URL: "https://b.example.com", Title: "BrokenBot"},
	}

	researched := adapter.Research(context.Background(), run, leads, 0)
	require.Len(t, researched, 2, "provider failure never drops the lead")
	assert.Len(t, researched[0].Research, 1)
	assert.Empty(t, researched[1].Research)
	assert.Len(t, run.Sources, 1)
}
