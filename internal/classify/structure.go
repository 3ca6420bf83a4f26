package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aetherpro/scout/internal/ai"
	"github.com/aetherpro/scout/internal/types"
)

// DefaultMarkdownLimit bounds how much scraped markdown goes into the
// structuring prompt, respecting oracle input limits.
const DefaultMarkdownLimit = 5000

// Structurer turns a scraped, researched lead into a structured agent
// record via a single oracle call.
type Structurer struct {
	oracle        ai.Generator
	markdownLimit int
}

// NewStructurer creates a structurer. markdownLimit <= 0 selects the
// default.
func NewStructurer(oracle ai.Generator, markdownLimit int) *Structurer {
	if markdownLimit <= 0 {
		markdownLimit = DefaultMarkdownLimit
	}
	return &Structurer{oracle: oracle, markdownLimit: markdownLimit}
}

// Structure classifies one lead into an AgentRecord. ok=false means the
// lead is dropped: either the oracle call failed or its output never
// yielded a usable record. Neither aborts the batch. The originating lead
// is preserved on the record for audit.
func (s *Structurer) Structure(ctx context.Context, lead types.Lead) (record types.AgentRecord, ok bool) {
	prompt, err := s.buildStructuringPrompt(lead)
	if err != nil {
		slog.Warn("building structuring prompt failed", "url", lead.URL, "error", err)
		return record, false
	}

	response, err := s.oracle.Generate(ctx, prompt, 0.1, 1000)
	if err != nil {
		slog.Warn("structuring oracle call failed, dropping lead", "url", lead.URL, "error", err)
		return record, false
	}

	parsed := ai.Parse[types.AgentRecord](response, "agent structuring")
	if !parsed.Success {
		slog.Warn("unparseable structuring response, dropping lead", "url", lead.URL, "error", parsed.Error)
		return record, false
	}

	record = parsed.Data
	if record.SourceURL == "" {
		record.SourceURL = lead.URL
	}
	leadCopy := lead
	record.RawLead = &leadCopy
	record.DiscoveredAt = time.Now().UTC()

	if err := record.Validate(); err != nil {
		slog.Warn("structured record failed validation, dropping lead", "url", lead.URL, "error", err)
		return types.AgentRecord{}, false
	}
	return record, true
}

// StructureLeads classifies a batch, processing leads independently.
func (s *Structurer) StructureLeads(ctx context.Context, leads []types.Lead) []types.AgentRecord {
	records := make([]types.AgentRecord, 0, len(leads))
	for _, lead := range leads {
		if record, ok := s.Structure(ctx, lead); ok {
			records = append(records, record)
		}
	}
	return records
}

// structuringInput is the combined evidence handed to the oracle.
type structuringInput struct {
	Lead     leadSummary            `json:"original_result"`
	Markdown string                 `json:"scraped_content"`
	Research []types.ResearchSource `json:"research_sources"`
}

type leadSummary struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Snippet  string         `json:"snippet"`
	Query    string         `json:"search_query"`
	Contacts types.Contacts `json:"extracted_contacts"`
}

func (s *Structurer) buildStructuringPrompt(lead types.Lead) (string, error) {
	markdown := ""
	var contacts types.Contacts
	if lead.Scraped != nil {
		markdown = truncateMarkdown(lead.Scraped.Markdown, s.markdownLimit)
		contacts = lead.Scraped.Contacts
	}

	input := structuringInput{
		Lead: leadSummary{
			URL:      lead.URL,
			Title:    lead.Title,
			Snippet:  lead.Snippet,
			Query:    lead.Query,
			Contacts: contacts,
		},
		Markdown: markdown,
		Research: lead.Research,
	}

	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling structuring input: %w", err)
	}

	return fmt.Sprintf(`Analyze this AI agent and extract structured information.

DATA:
%s

Extract and return JSON:
{
  "name": "Agent name",
  "slug": "url-friendly-slug",
  "description": "1-2 sentence description",
  "capabilities": ["list", "of", "capabilities"],
  "framework": "LangChain/CrewAI/Custom/etc",
  "category": "research/coding/automation/creative/productivity",
  "tags": ["relevant", "tags"],
  "endpoint_url": "API endpoint if available",
  "documentation_url": "Documentation URL",
  "source_url": "Original URL",
  "contacts": {
    "email": "contact email",
    "github": "GitHub URL",
    "twitter": "Twitter handle"
  },
  "confidence_score": 0.0-1.0
}

Be conservative with confidence scores. Omit fields you are not certain about rather than guessing.`, string(data)), nil
}

// truncateMarkdown bounds the markdown prefix without splitting a UTF-8
// sequence mid-rune. Backs off at most 4 bytes, the longest UTF-8 sequence.
func truncateMarkdown(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	truncated := s[:limit]
	for i := 0; i < 4 && len(truncated) > 0; i++ {
		if utf8.ValidString(truncated) {
			return truncated
		}
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}
