package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherpro/scout/internal/storage"
	"github.com/aetherpro/scout/internal/types"
)

type stubSearcher struct {
	results map[string][]types.Lead
}

func (s *stubSearcher) Sweep(ctx context.Context, keywords []string, perQueryCap int) map[string][]types.Lead {
	return s.results
}

// passFilterer keeps every lead and stamps a fixed relevance.
type passFilterer struct{}

func (passFilterer) FilterLeads(ctx context.Context, leads []types.Lead) []types.Lead {
	out := make([]types.Lead, 0, len(leads))
	for _, lead := range leads {
		lead.Relevance = &types.Relevance{IsAgent: true, Confidence: 0.8, Category: "research"}
		out = append(out, lead)
	}
	return out
}

type stubResearcher struct{}

func (stubResearcher) Research(ctx context.Context, run *types.Run, leads []types.Lead, cap int) []types.Lead {
	out := make([]types.Lead, 0, len(leads))
	for _, lead := range leads {
		source := types.ResearchSource{URL: lead.URL + "/docs", Title: "Docs", Score: 0.9}
		lead.Research = []types.ResearchSource{source}
		out = append(out, lead)
		run.AddSources([]types.Source{{URL: source.URL, Title: source.Title, Score: source.Score}})
	}
	return out
}

type stubExtractor struct{}

func (stubExtractor) Name() string { return "stub" }

func (stubExtractor) Extract(ctx context.Context, url string) (*types.ScrapedContent, error) {
	return &types.ScrapedContent{
		URL:       url,
		Markdown:  "# TestAgent\nContact: dev@example.com",
		Contacts:  types.Contacts{Email: "dev@example.com"},
		ScrapedAt: time.Now().UTC(),
	}, nil
}

type stubStructurer struct{}

func (stubStructurer) StructureLeads(ctx context.Context, leads []types.Lead) []types.AgentRecord {
	records := make([]types.AgentRecord, 0, len(leads))
	for i := range leads {
		lead := leads[i]
		records = append(records, types.AgentRecord{
			Name:            "TestAgent",
			Category:        "research",
			SourceURL:       lead.URL,
			Contacts:        lead.Scraped.Contacts,
			ConfidenceScore: 0.7,
			RawLead:         &lead,
			DiscoveredAt:    time.Now().UTC(),
		})
	}
	return records
}

type stubDrafter struct{}

func (stubDrafter) DraftAll(ctx context.Context, agents []types.StoredAgent) []types.OutreachDraft {
	drafts := make([]types.OutreachDraft, 0, len(agents))
	for i, agent := range agents {
		drafts = append(drafts, types.OutreachDraft{
			ID:        fmt.Sprintf("draft-%d", i),
			AgentID:   agent.ID,
			Email:     agent.Contacts.Email,
			Message:   "Hi! We found " + agent.Name + " and would love to have it on AetherPro.",
			Status:    types.OutreachPending,
			CreatedAt: time.Now().UTC(),
		})
	}
	return drafts
}

func newTestOrchestrator(t *testing.T, searcher Searcher) (*Orchestrator, storage.Storage) {
	t.Helper()

	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := DefaultConfig()
	orch, err := NewOrchestrator(cfg, Deps{
		Store:      store,
		Searcher:   searcher,
		Filterer:   passFilterer{},
		Researcher: stubResearcher{},
		Extractor:  stubExtractor{},
		Structurer: stubStructurer{},
		Persister:  storage.NewGateway(store),
		Drafter:    stubDrafter{},
	})
	require.NoError(t, err)
	return orch, store
}

func TestRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	keyword := "LangChain agent"

	// Two case-variant spellings of the same URL collapse to one lead.
	searcher := &stubSearcher{results: map[string][]types.Lead{
		keyword: {
			{URL: "https://example.com/agent", Title: "TestAgent", Query: keyword},
			{URL: "HTTPS://Example.com/agent/", Title: "TestAgent", Query: keyword},
		},
	}}

	orch, store := newTestOrchestrator(t, searcher)
	run, err := orch.Run(ctx, []string{keyword})
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, types.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.Stats.SearchResults)
	assert.Equal(t, 1, run.Stats.UniqueLeads)
	assert.Equal(t, 1, run.Stats.FilteredLeads)
	assert.Equal(t, 1, run.Stats.ResearchedLeads)
	assert.Equal(t, 1, run.Stats.ScrapedLeads)
	assert.Equal(t, 1, run.Stats.ClassifiedLeads)
	assert.Equal(t, 1, run.Stats.StoredAgents)
	assert.Equal(t, 1, run.Stats.OutreachDrafts)

	// Trace is strictly ordered and covers every phase.
	require.NoError(t, run.Validate())
	actions := make([]string, 0, len(run.Trace))
	for _, step := range run.Trace {
		actions = append(actions, step.Action)
	}
	assert.Equal(t, []string{
		"bulk_search", "deduplicate", "relevance_filter", "deep_research",
		"content_extraction", "structuring", "persistence", "outreach",
	}, actions)
	assert.Len(t, run.Sources, 1)

	// Stored agent starts unverified regardless of confidence.
	agents, err := store.ListAgents(ctx, types.AgentFilter{})
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "TestAgent", agents[0].Name)
	assert.False(t, agents[0].Verified)
	assert.Equal(t, storage.PipelineActor, agents[0].DiscoveredBy)

	// Draft landed with the agent's email channel.
	drafts, err := store.ListOutreach(ctx, types.OutreachFilter{})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, agents[0].ID, drafts[0].AgentID)
	assert.Equal(t, "dev@example.com", drafts[0].Email)
	assert.Equal(t, types.OutreachPending, drafts[0].Status)

	// The persisted run matches what the orchestrator returned.
	saved, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusCompleted, saved.Status)
	assert.Len(t, saved.Trace, len(run.Trace))
}

func TestRunOutreachDisabled(t *testing.T) {
	ctx := context.Background()
	keyword := "CrewAI agent"

	searcher := &stubSearcher{results: map[string][]types.Lead{
		keyword: {{URL: "https://example.com/crew", Title: "Crew", Query: keyword}},
	}}

	store, err := storage.NewStorage(ctx, &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	cfg := DefaultConfig()
	cfg.OutreachEnabled = false

	orch, err := NewOrchestrator(cfg, Deps{
		Store:      store,
		Searcher:   searcher,
		Filterer:   passFilterer{},
		Researcher: stubResearcher{},
		Extractor:  stubExtractor{},
		Structurer: stubStructurer{},
		Persister:  storage.NewGateway(store),
		Drafter:    stubDrafter{},
	})
	require.NoError(t, err)

	run, err := orch.Run(ctx, []string{keyword})
	require.NoError(t, err)

	assert.Equal(t, types.RunStatusCompleted, run.Status)
	assert.Equal(t, 0, run.Stats.OutreachDrafts)

	drafts, err := store.ListOutreach(ctx, types.OutreachFilter{})
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestRunUsesConfiguredKeywordsWhenNoneGiven(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]types.Lead{}}
	orch, _ := newTestOrchestrator(t, searcher)

	run, err := orch.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeywords, run.Keywords)
	assert.Equal(t, types.RunStatusCompleted, run.Status)
	assert.Zero(t, run.Stats.StoredAgents)
}

// brokenStore fails every update, simulating storage loss mid-run.
type brokenStore struct {
	storage.Storage
	failAfter int
	updates   int
}

func (b *brokenStore) UpdateRun(ctx context.Context, run *types.Run) error {
	b.updates++
	if b.updates > b.failAfter {
		return fmt.Errorf("database is gone")
	}
	return b.Storage.UpdateRun(ctx, run)
}

func TestRunFailsWhenCheckpointingBreaks(t *testing.T) {
	ctx := context.Background()
	keyword := "AutoGPT alternative"

	searcher := &stubSearcher{results: map[string][]types.Lead{
		keyword: {{URL: "https://example.com/auto", Title: "Auto", Query: keyword}},
	}}

	inner, err := storage.NewStorage(ctx, &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	defer inner.Close()
	store := &brokenStore{Storage: inner, failAfter: 1}

	orch, err := NewOrchestrator(DefaultConfig(), Deps{
		Store:      store,
		Searcher:   searcher,
		Filterer:   passFilterer{},
		Researcher: stubResearcher{},
		Extractor:  stubExtractor{},
		Structurer: stubStructurer{},
		Persister:  storage.NewGateway(store),
		Drafter:    stubDrafter{},
	})
	require.NoError(t, err)

	run, err := orch.Run(ctx, []string{keyword})
	require.Error(t, err)
	require.NotNil(t, run)

	assert.Equal(t, types.RunStatusFailed, run.Status)
	last := run.Trace[len(run.Trace)-1]
	assert.Equal(t, "error", last.Action)
	assert.Contains(t, last.Description, "checkpoint")
}
