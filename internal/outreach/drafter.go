// Package outreach drafts invitation messages for newly stored agents.
// Drafts are persisted as pending; nothing in this package sends anything.
package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aetherpro/scout/internal/ai"
	"github.com/aetherpro/scout/internal/types"
)

// Drafter generates personalized outreach drafts for stored agents.
type Drafter struct {
	oracle ai.Generator
}

// NewDrafter creates a drafter.
func NewDrafter(oracle ai.Generator) *Drafter {
	return &Drafter{oracle: oracle}
}

// Draft generates one outreach message for a stored agent. ok=false means
// the agent was skipped: it has no reachable channel, or the oracle call
// failed. Agents with only a Twitter handle are skipped too; drafts target
// email or GitHub.
func (d *Drafter) Draft(ctx context.Context, agent types.StoredAgent) (draft types.OutreachDraft, ok bool) {
	if agent.Contacts.Email == "" && agent.Contacts.GitHub == "" {
		slog.Debug("no outreach channel for agent, skipping", "agent", agent.Name)
		return draft, false
	}

	message, err := d.oracle.Generate(ctx, buildOutreachPrompt(agent), 0.7, 500)
	if err != nil {
		slog.Warn("outreach draft failed, skipping agent", "agent", agent.Name, "error", err)
		return draft, false
	}
	message = strings.TrimSpace(message)
	if message == "" {
		slog.Warn("empty outreach draft, skipping agent", "agent", agent.Name)
		return draft, false
	}

	return types.OutreachDraft{
		ID:        uuid.New().String(),
		AgentID:   agent.ID,
		Email:     agent.Contacts.Email,
		GitHubURL: agent.Contacts.GitHub,
		Message:   message,
		Status:    types.OutreachPending,
		CreatedAt: time.Now().UTC(),
	}, true
}

// DraftAll generates drafts for a batch of stored agents. Agents are
// processed independently; a failure for one never blocks the rest.
func (d *Drafter) DraftAll(ctx context.Context, agents []types.StoredAgent) []types.OutreachDraft {
	drafts := make([]types.OutreachDraft, 0, len(agents))
	for _, agent := range agents {
		if draft, ok := d.Draft(ctx, agent); ok {
			drafts = append(drafts, draft)
		}
	}
	return drafts
}

func buildOutreachPrompt(agent types.StoredAgent) string {
	capabilities := strings.Join(agent.Capabilities, ", ")
	if capabilities == "" {
		capabilities = "unspecified"
	}
	return fmt.Sprintf(`Write a short, friendly outreach message inviting this AI agent's creator to register on the AetherPro agent platform.

AGENT:
Name: %s
Description: %s
Capabilities: %s
Framework: %s
Category: %s

Requirements:
- Under 150 words
- Mention what their agent does specifically (show we actually looked)
- Explain the benefit of registering: discovery, a verified listing, connections to users
- Include a clear call to action to register
- Friendly and direct, not salesy
- Plain text, no subject line, no placeholders

Return only the message text.`,
		agent.Name, agent.Description, capabilities, agent.Framework, agent.Category)
}
