package storage

import (
	"context"
	"log/slog"

	"github.com/aetherpro/scout/internal/types"
)

// PipelineActor is the discovered_by attribution for agents stored by the
// automated pipeline, as opposed to manual imports.
const PipelineActor = "scout-pipeline"

// Gateway is the pipeline's persistence adapter. It turns a batch of
// classified records into stored agents, absorbing per-record failures so
// one bad row never loses the rest of the batch.
type Gateway struct {
	store Storage
}

// NewGateway creates a persistence gateway over a storage backend.
func NewGateway(store Storage) *Gateway {
	return &Gateway{store: store}
}

// Persist upserts each record. Stored agents always start unverified:
// verification is a human decision, never the pipeline's. Returns the
// successfully stored agents, in input order.
func (g *Gateway) Persist(ctx context.Context, records []types.AgentRecord) []types.StoredAgent {
	stored := make([]types.StoredAgent, 0, len(records))
	for i := range records {
		agent, err := g.store.UpsertAgent(ctx, &records[i], PipelineActor)
		if err != nil {
			slog.Warn("failed to store agent, skipping", "source_url", records[i].SourceURL, "error", err)
			continue
		}
		stored = append(stored, *agent)
	}
	return stored
}
