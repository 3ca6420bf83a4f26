package classify

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherpro/scout/internal/types"
)

// stubOracle returns canned responses keyed by a substring of the prompt,
// or an error for prompts matching failOn.
type stubOracle struct {
	responses map[string]string
	fallback  string
	failOn    string
	calls     int
}

func (s *stubOracle) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	s.calls++
	if s.failOn != "" && strings.Contains(prompt, s.failOn) {
		return "", fmt.Errorf("oracle unavailable")
	}
	for key, response := range s.responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return s.fallback, nil
}

func TestClassifyKeepsConfidentAgent(t *testing.T) {
	oracle := &stubOracle{fallback: `{"is_agent": true, "confidence": 0.8, "reasoning": "autonomous", "preliminary_category": "research"}`}
	filter := NewRelevanceFilter(oracle, 0)

	lead, keep, reason := filter.Classify(context.Background(), types.Lead{
		URL: "https://example.com/agent", Title: "ResearchBot",
	})

	assert.True(t, keep)
	assert.Empty(t, reason)
	require.NotNil(t, lead.Relevance)
	assert.Equal(t, 0.8, lead.Relevance.Confidence)
	assert.Equal(t, "research", lead.Relevance.Category)
}

func TestClassifyDrops(t *testing.T) {
	tests := []struct {
		name     string
		response string
		reason   string
	}{
		{
			name:     "not an agent",
			response: `{"is_agent": false, "confidence": 0.9, "reasoning": "just a blog post"}`,
			reason:   "not an agent",
		},
		{
			name:     "below threshold",
			response: `{"is_agent": true, "confidence": 0.5, "reasoning": "maybe"}`,
			reason:   "below threshold",
		},
		{
			name:     "at threshold is not enough",
			response: `{"is_agent": true, "confidence": 0.6, "reasoning": "borderline"}`,
			reason:   "below threshold",
		},
		{
			name:     "unparseable",
			response: "I really couldn't say.",
			reason:   "unparseable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &stubOracle{fallback: tt.response}
			filter := NewRelevanceFilter(oracle, 0.6)

			_, keep, reason := filter.Classify(context.Background(), types.Lead{URL: "https://example.com"})
			assert.False(t, keep)
			assert.Contains(t, reason, tt.reason)
		})
	}
}

func TestFilterLeadsIsolatesFailures(t *testing.T) {
	// The oracle errors only for BrokenBot's prompt; the other leads still
	// get classified.
	oracle := &stubOracle{
		fallback: `{"is_agent": true, "confidence": 0.9, "reasoning": "solid"}`,
		failOn:   "BrokenBot",
	}
	filter := NewRelevanceFilter(oracle, 0.6)

	leads := []types.Lead{
		{URL: "https://example.com/a", Title: "AlphaBot"},
		{URL: "https://example.com/b", Title: "BrokenBot"},
		{URL: "https://example.com/c", Title: "GammaBot"},
	}

	filtered := filter.FilterLeads(context.Background(), leads)
	require.Len(t, filtered, 2)
	assert.Equal(t, "https://example.com/a", filtered[0].URL)
	assert.Equal(t, "https://example.com/c", filtered[1].URL)
	assert.Equal(t, 3, oracle.calls, "every lead gets its oracle call")
}

func TestFilterLeadsEmptyInput(t *testing.T) {
	oracle := &stubOracle{}
	filter := NewRelevanceFilter(oracle, 0.6)

	filtered := filter.FilterLeads(context.Background(), nil)
	assert.Empty(t, filtered)
	assert.Zero(t, oracle.calls)
}
