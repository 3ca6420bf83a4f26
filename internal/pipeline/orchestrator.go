package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aetherpro/scout/internal/scrape"
	"github.com/aetherpro/scout/internal/search"
	"github.com/aetherpro/scout/internal/storage"
	"github.com/aetherpro/scout/internal/types"
)

// Phase adapters, named for what they do to the lead stream. Each one
// absorbs its own per-item failures; the orchestrator only sees the
// survivors.
type (
	// Searcher fans keyword queries out to a search provider.
	Searcher interface {
		Sweep(ctx context.Context, keywords []string, perQueryCap int) map[string][]types.Lead
	}

	// Filterer drops leads the oracle does not consider agents.
	Filterer interface {
		FilterLeads(ctx context.Context, leads []types.Lead) []types.Lead
	}

	// Researcher attaches supporting sources to leads and to the run.
	Researcher interface {
		Research(ctx context.Context, run *types.Run, leads []types.Lead, cap int) []types.Lead
	}

	// Structurer turns scraped leads into agent records.
	Structurer interface {
		StructureLeads(ctx context.Context, leads []types.Lead) []types.AgentRecord
	}

	// Persister stores agent records.
	Persister interface {
		Persist(ctx context.Context, records []types.AgentRecord) []types.StoredAgent
	}

	// OutreachDrafter drafts invitations for stored agents.
	OutreachDrafter interface {
		DraftAll(ctx context.Context, agents []types.StoredAgent) []types.OutreachDraft
	}
)

// Deps holds the orchestrator's phase adapters. All are required except
// Drafter, which may be nil when outreach is disabled.
type Deps struct {
	Store      storage.Storage
	Searcher   Searcher
	Filterer   Filterer
	Researcher Researcher
	Extractor  scrape.Extractor
	Structurer Structurer
	Persister  Persister
	Drafter    OutreachDrafter
}

// Orchestrator runs the discovery pipeline end to end. Phases run strictly
// in sequence; each consumes the previous phase's survivors. There is no
// rollback: work persisted before a failure stays persisted, and the run
// record itself tells the story.
type Orchestrator struct {
	cfg  Config
	deps Deps
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if deps.Searcher == nil || deps.Filterer == nil || deps.Researcher == nil ||
		deps.Extractor == nil || deps.Structurer == nil || deps.Persister == nil {
		return nil, fmt.Errorf("all phase adapters except the drafter are required")
	}
	return &Orchestrator{cfg: cfg, deps: deps}, nil
}

// Run executes one discovery run. The returned run is always non-nil once
// the run record was created, even on failure, so callers can report what
// happened. Run status moves running → completed, or running → failed when
// a phase cannot even start (storage unavailable, context canceled).
// Per-lead failures inside a phase never fail the run.
func (o *Orchestrator) Run(ctx context.Context, keywords []string) (*types.Run, error) {
	if len(keywords) == 0 {
		keywords = o.cfg.Keywords
	}

	run := types.NewRun(keywords, o.cfg.MaxResults)
	if err := o.deps.Store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	// Phase 1: bulk search.
	swept := o.deps.Searcher.Sweep(ctx, keywords, o.cfg.PerQueryCap)
	all := search.Flatten(keywords, swept)
	run.Stats.SearchResults = len(all)
	run.AddStep("bulk_search",
		fmt.Sprintf("Searched %d keywords, %d queries answered, %d raw results",
			len(keywords), len(swept), len(all)),
		0.7)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 2: dedup. First-seen keeps the earliest keyword's version.
	unique := Dedupe(all, o.cfg.MaxResults)
	run.Stats.UniqueLeads = len(unique)
	run.AddStep("deduplicate",
		fmt.Sprintf("%d unique leads after URL dedup (cap %d)", len(unique), o.cfg.MaxResults),
		0)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 3: relevance filter.
	filtered := o.deps.Filterer.FilterLeads(ctx, unique)
	run.Stats.FilteredLeads = len(filtered)
	run.AddStep("relevance_filter",
		fmt.Sprintf("%d of %d leads passed relevance filtering", len(filtered), len(unique)),
		0.8)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 4: deep research.
	researched := o.deps.Researcher.Research(ctx, run, filtered, o.cfg.ResearchCap)
	run.Stats.ResearchedLeads = len(researched)
	run.AddStep("deep_research",
		fmt.Sprintf("Researched %d leads, %d supporting sources collected",
			len(researched), len(run.Sources)),
		0.85)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 5: content extraction.
	scraped := scrape.ExtractLeads(ctx, o.deps.Extractor, researched, o.cfg.ScrapeCap)
	run.Stats.ScrapedLeads = len(scraped)
	run.AddStep("content_extraction",
		fmt.Sprintf("Extracted content for %d of %d leads", len(scraped), len(researched)),
		0.9)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 6: structuring.
	records := o.deps.Structurer.StructureLeads(ctx, scraped)
	run.Stats.ClassifiedLeads = len(records)
	run.AddStep("structuring",
		fmt.Sprintf("Structured %d agent records from %d scraped leads",
			len(records), len(scraped)),
		0.95)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 7: persistence.
	stored := o.deps.Persister.Persist(ctx, records)
	run.Stats.StoredAgents = len(stored)
	run.AddStep("persistence",
		fmt.Sprintf("Stored %d of %d agent records", len(stored), len(records)),
		0)
	if err := o.checkpoint(ctx, run); err != nil {
		return run, err
	}

	// Phase 8: outreach drafting.
	if o.cfg.OutreachEnabled && o.deps.Drafter != nil {
		drafts := o.deps.Drafter.DraftAll(ctx, stored)
		created := 0
		for i := range drafts {
			if err := o.deps.Store.CreateOutreach(ctx, &drafts[i]); err != nil {
				slog.Warn("failed to store outreach draft, skipping",
					"agent_id", drafts[i].AgentID, "error", err)
				continue
			}
			created++
		}
		run.Stats.OutreachDrafts = created
		run.AddStep("outreach",
			fmt.Sprintf("Drafted outreach for %d of %d stored agents", created, len(stored)),
			0)
	} else {
		run.AddStep("outreach", "Outreach drafting disabled", 0)
	}

	run.Status = types.RunStatusCompleted
	if err := o.deps.Store.UpdateRun(ctx, run); err != nil {
		return run, fmt.Errorf("failed to finalize run record: %w", err)
	}
	return run, nil
}

// checkpoint persists run progress between phases and enforces the failure
// boundary: a canceled context or an unreachable store means the next phase
// cannot start, so the run fails here rather than producing half a phase.
func (o *Orchestrator) checkpoint(ctx context.Context, run *types.Run) error {
	if err := ctx.Err(); err != nil {
		return o.failRun(run, fmt.Errorf("run canceled: %w", err))
	}
	if err := o.deps.Store.UpdateRun(ctx, run); err != nil {
		return o.failRun(run, fmt.Errorf("failed to checkpoint run: %w", err))
	}
	return nil
}

// failRun transitions the run to failed with an error trace step. The
// update is best-effort: if storage itself is gone the failure is still
// reported to the caller.
func (o *Orchestrator) failRun(run *types.Run, cause error) error {
	run.Status = types.RunStatusFailed
	run.AddStep("error", cause.Error(), 0)
	if err := o.deps.Store.UpdateRun(context.Background(), run); err != nil {
		slog.Error("failed to record run failure", "run_id", run.ID, "error", err)
	}
	return cause
}
