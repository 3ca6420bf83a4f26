// Package classify holds the two oracle-backed classification steps of the
// pipeline: the cheap yes/no relevance filter applied to every raw lead,
// and the full structuring pass applied to scraped leads.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aetherpro/scout/internal/ai"
	"github.com/aetherpro/scout/internal/types"
)

// DefaultRelevanceThreshold is the minimum oracle confidence for a lead to
// pass the relevance filter. Carried from the production configuration; no
// evidence supports a different default.
const DefaultRelevanceThreshold = 0.6

// RelevanceFilter classifies leads as agent / not-agent using the oracle.
type RelevanceFilter struct {
	oracle    ai.Generator
	threshold float64
}

// NewRelevanceFilter creates a relevance filter. threshold <= 0 selects the
// default.
func NewRelevanceFilter(oracle ai.Generator, threshold float64) *RelevanceFilter {
	if threshold <= 0 {
		threshold = DefaultRelevanceThreshold
	}
	return &RelevanceFilter{oracle: oracle, threshold: threshold}
}

// Classify runs the relevance check for one lead. It returns the lead with
// its Relevance attached and keep=true only when the oracle says it is an
// agent with confidence above the threshold. An unparseable response or a
// per-lead oracle error means keep=false — both are expected conditions,
// not errors.
func (f *RelevanceFilter) Classify(ctx context.Context, lead types.Lead) (result types.Lead, keep bool, reason string) {
	prompt := buildRelevancePrompt(lead)

	response, err := f.oracle.Generate(ctx, prompt, 0.1, 200)
	if err != nil {
		return lead, false, fmt.Sprintf("oracle error: %v", err)
	}

	parsed := ai.Parse[types.Relevance](response, "relevance classification")
	if !parsed.Success {
		return lead, false, "unparseable oracle response"
	}

	rel := parsed.Data
	lead.Relevance = &rel

	if !rel.IsAgent {
		return lead, false, "not an agent"
	}
	if rel.Confidence <= f.threshold {
		return lead, false, fmt.Sprintf("confidence %.2f below threshold %.2f", rel.Confidence, f.threshold)
	}
	return lead, true, ""
}

// FilterLeads classifies a batch. Leads are processed independently: one
// oracle failure or timeout drops that lead and the rest still get their
// turn. The survivor list is always a subset of the input, in input order.
func (f *RelevanceFilter) FilterLeads(ctx context.Context, leads []types.Lead) []types.Lead {
	filtered := make([]types.Lead, 0, len(leads))
	for _, lead := range leads {
		classified, keep, reason := f.Classify(ctx, lead)
		if !keep {
			slog.Debug("lead dropped by relevance filter", "url", lead.URL, "reason", reason)
			continue
		}
		filtered = append(filtered, classified)
	}
	return filtered
}

func buildRelevancePrompt(lead types.Lead) string {
	return fmt.Sprintf(`Analyze this search result and determine if it's an AI agent.

RESULT:
Title: %s
URL: %s
Snippet: %s

Is this an actual AI agent (autonomous software system)?
Consider: Does it perform tasks, make decisions, or automate workflows?

Respond with JSON:
{
  "is_agent": true/false,
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation",
  "preliminary_category": "research/coding/automation/etc"
}`, lead.Title, lead.URL, lead.Snippet)
}
