package types

import (
	"fmt"
	"time"
)

// AgentRecord is the structured classification produced by the oracle for
// one lead. Fields the oracle was not certain about are left empty rather
// than guessed.
type AgentRecord struct {
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	Framework    string   `json:"framework"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`

	EndpointURL      string `json:"endpoint_url,omitempty"`
	DocumentationURL string `json:"documentation_url,omitempty"`
	SourceURL        string `json:"source_url"`

	Contacts        Contacts `json:"contacts"`
	ConfidenceScore float64  `json:"confidence_score"`

	// RawLead preserves the originating lead for audit. Every stored agent
	// traces back to exactly one lead through this field.
	RawLead      *Lead     `json:"raw_lead,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Validate checks record-level invariants before persistence.
func (a *AgentRecord) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	if a.SourceURL == "" {
		return fmt.Errorf("source URL is required")
	}
	if a.ConfidenceScore < 0.0 || a.ConfidenceScore > 1.0 {
		return fmt.Errorf("confidence score must be between 0.0 and 1.0 (got %.2f)", a.ConfidenceScore)
	}
	return nil
}

// StoredAgent is the persisted form of an AgentRecord. Verification and
// registration state are mutated only by human-review commands, never by
// the pipeline.
type StoredAgent struct {
	ID string `json:"id"`
	AgentRecord

	DiscoveredBy string `json:"discovered_by"`

	Verified          bool      `json:"verified"`
	VerifiedBy        string    `json:"verified_by,omitempty"`
	VerifiedAt        time.Time `json:"verified_at,omitempty"`
	VerificationNotes string    `json:"verification_notes,omitempty"`

	Registered bool `json:"registered"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OutreachStatus is the delivery state of an outreach draft. The pipeline
// only ever creates drafts as pending; sent/failed transitions belong to
// the delivery layer.
type OutreachStatus string

const (
	OutreachPending OutreachStatus = "pending"
	OutreachSent    OutreachStatus = "sent"
	OutreachFailed  OutreachStatus = "failed"
)

// OutreachDraft is one drafted invitation for a stored agent.
type OutreachDraft struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id"`
	Email     string         `json:"contact_email,omitempty"`
	GitHubURL string         `json:"github_url,omitempty"`
	Message   string         `json:"message"`
	Status    OutreachStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// AgentFilter selects stored agents for listing queries. Pointer fields
// distinguish "unset" from "explicitly false".
type AgentFilter struct {
	Verified   *bool
	Registered *bool
	Category   string
	Limit      int
	Offset     int
}

// OutreachFilter selects outreach drafts for listing queries.
type OutreachFilter struct {
	AgentID string
	Status  OutreachStatus
	Limit   int
}

// Statistics summarizes the discovered-agent corpus.
type Statistics struct {
	TotalDiscovered int            `json:"total_discovered"`
	Verified        int            `json:"verified"`
	Registered      int            `json:"registered"`
	ByCategory      map[string]int `json:"by_category"`
	PendingOutreach int            `json:"pending_outreach"`
}
