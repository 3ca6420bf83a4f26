package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherpro/scout/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(sourceURL string) *types.AgentRecord {
	return &types.AgentRecord{
		Name:            "TestAgent",
		Slug:            "test-agent",
		Description:     "An autonomous research agent",
		Capabilities:    []string{"research", "summarization"},
		Framework:       "LangChain",
		Category:        "research",
		Tags:            []string{"ai", "research"},
		SourceURL:       sourceURL,
		Contacts:        types.Contacts{Email: "dev@example.com"},
		ConfidenceScore: 0.8,
		DiscoveredAt:    time.Now().UTC(),
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run := types.NewRun([]string{"LangChain agent"}, 50)
	run.AddStep("bulk_search", "searched 1 keyword", 0.7)
	require.NoError(t, store.CreateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusRunning, got.Status)
	assert.Equal(t, []string{"LangChain agent"}, got.Keywords)
	require.Len(t, got.Trace, 1)
	assert.Equal(t, "bulk_search", got.Trace[0].Action)

	run.AddStep("deduplicate", "1 unique lead", 0)
	run.Stats.UniqueLeads = 1
	run.Status = types.RunStatusCompleted
	require.NoError(t, store.UpdateRun(ctx, run))

	got, err = store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusCompleted, got.Status)
	assert.Len(t, got.Trace, 2)
	assert.Equal(t, 1, got.Stats.UniqueLeads)
}

func TestUpdateRunRejectsTerminalReversal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run := types.NewRun([]string{"kw"}, 50)
	run.Status = types.RunStatusFailed
	require.NoError(t, store.CreateRun(ctx, run))

	run.Status = types.RunStatusRunning
	err := store.UpdateRun(ctx, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot return to running")
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetRun(context.Background(), "nope")
	assert.Error(t, err)
}

func TestListRunsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	older := types.NewRun([]string{"old"}, 50)
	older.StartedAt = time.Now().UTC().Add(-time.Hour)
	older.Status = types.RunStatusCompleted
	require.NoError(t, store.CreateRun(ctx, older))

	newer := types.NewRun([]string{"new"}, 50)
	require.NoError(t, store.CreateRun(ctx, newer))

	runs, err := store.ListRuns(ctx, types.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID, "newest first")

	completed, err := store.ListRuns(ctx, types.RunFilter{Status: types.RunStatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, older.ID, completed[0].ID)
}

func TestUpsertAgentInsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	record := testRecord("https://example.com/agent")
	agent, err := store.UpsertAgent(ctx, record, "scout-pipeline")
	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "TestAgent", agent.Name)
	assert.Equal(t, "scout-pipeline", agent.DiscoveredBy)
	assert.False(t, agent.Verified)
	assert.Equal(t, []string{"research", "summarization"}, agent.Capabilities)

	// Re-discovery refreshes content but keeps the same row and the
	// existing verification state.
	require.NoError(t, store.VerifyAgent(ctx, agent.ID, "reviewer", "looks legit"))

	updated := testRecord("https://example.com/agent")
	updated.Name = "TestAgent v2"
	updated.ConfidenceScore = 0.95

	again, err := store.UpsertAgent(ctx, updated, "scout-pipeline")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, again.ID, "same source URL is the same agent")
	assert.Equal(t, "TestAgent v2", again.Name)
	assert.Equal(t, 0.95, again.ConfidenceScore)
	assert.True(t, again.Verified, "verification survives re-discovery")
	assert.Equal(t, "reviewer", again.VerifiedBy)
}

func TestUpsertAgentRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	record := testRecord("https://example.com/agent")
	record.Name = ""
	_, err := store.UpsertAgent(context.Background(), record, "scout-pipeline")
	assert.Error(t, err)
}

func TestUpsertAgentRoundTripsRawLead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	record := testRecord("https://example.com/agent")
	record.RawLead = &types.Lead{
		URL:   "https://example.com/agent",
		Title: "TestAgent",
		Query: "LangChain agent",
	}

	agent, err := store.UpsertAgent(ctx, record, "scout-pipeline")
	require.NoError(t, err)

	got, err := store.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RawLead)
	assert.Equal(t, "LangChain agent", got.RawLead.Query)
}

func TestListAgentsFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a, err := store.UpsertAgent(ctx, testRecord("https://example.com/a"), "scout-pipeline")
	require.NoError(t, err)

	coding := testRecord("https://example.com/b")
	coding.Category = "coding"
	_, err = store.UpsertAgent(ctx, coding, "scout-pipeline")
	require.NoError(t, err)

	require.NoError(t, store.VerifyAgent(ctx, a.ID, "reviewer", ""))

	verified := true
	got, err := store.ListAgents(ctx, types.AgentFilter{Verified: &verified})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = store.ListAgents(ctx, types.AgentFilter{Category: "coding"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "coding", got[0].Category)

	unverified := false
	got, err = store.ListAgents(ctx, types.AgentFilter{Verified: &unverified})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMarkRegistered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agent, err := store.UpsertAgent(ctx, testRecord("https://example.com/agent"), "scout-pipeline")
	require.NoError(t, err)
	require.NoError(t, store.MarkRegistered(ctx, agent.ID))

	got, err := store.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.True(t, got.Registered)

	assert.Error(t, store.MarkRegistered(ctx, "missing-id"))
}

func TestVerificationQueueOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	low := testRecord("https://example.com/low")
	low.ConfidenceScore = 0.5
	mid := testRecord("https://example.com/mid")
	mid.ConfidenceScore = 0.75
	high := testRecord("https://example.com/high")
	high.ConfidenceScore = 0.95

	for _, r := range []*types.AgentRecord{low, mid, high} {
		_, err := store.UpsertAgent(ctx, r, "scout-pipeline")
		require.NoError(t, err)
	}

	// Verified agents leave the queue.
	midStored, err := store.ListAgents(ctx, types.AgentFilter{})
	require.NoError(t, err)
	for _, a := range midStored {
		if a.SourceURL == "https://example.com/mid" {
			require.NoError(t, store.VerifyAgent(ctx, a.ID, "reviewer", ""))
		}
	}

	queue, err := store.GetVerificationQueue(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "https://example.com/high", queue[0].SourceURL, "highest confidence first")
	assert.Equal(t, "https://example.com/low", queue[1].SourceURL)
}

func TestOutreachLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agent, err := store.UpsertAgent(ctx, testRecord("https://example.com/agent"), "scout-pipeline")
	require.NoError(t, err)

	draft := &types.OutreachDraft{
		ID:        uuid.New().String(),
		AgentID:   agent.ID,
		Email:     "dev@example.com",
		Message:   "Hi! Come join AetherPro.",
		Status:    types.OutreachPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateOutreach(ctx, draft))

	drafts, err := store.ListOutreach(ctx, types.OutreachFilter{AgentID: agent.ID})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.Message, drafts[0].Message)
	assert.Equal(t, types.OutreachPending, drafts[0].Status)

	none, err := store.ListOutreach(ctx, types.OutreachFilter{Status: types.OutreachSent})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateOutreachValidation(t *testing.T) {
	store := newTestStore(t)
	err := store.CreateOutreach(context.Background(), &types.OutreachDraft{ID: uuid.New().String(), Message: "hi"})
	assert.Error(t, err, "agent ID required")

	err = store.CreateOutreach(context.Background(), &types.OutreachDraft{ID: uuid.New().String(), AgentID: "a"})
	assert.Error(t, err, "message required")
}

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a, err := store.UpsertAgent(ctx, testRecord("https://example.com/a"), "scout-pipeline")
	require.NoError(t, err)

	coding := testRecord("https://example.com/b")
	coding.Category = "coding"
	b, err := store.UpsertAgent(ctx, coding, "scout-pipeline")
	require.NoError(t, err)

	require.NoError(t, store.VerifyAgent(ctx, a.ID, "reviewer", ""))
	require.NoError(t, store.MarkRegistered(ctx, a.ID))

	require.NoError(t, store.CreateOutreach(ctx, &types.OutreachDraft{
		ID: uuid.New().String(), AgentID: b.ID, Message: "hi",
		Status: types.OutreachPending, CreatedAt: time.Now().UTC(),
	}))

	stats, err := store.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDiscovered)
	assert.Equal(t, 1, stats.Verified)
	assert.Equal(t, 1, stats.Registered)
	assert.Equal(t, 1, stats.PendingOutreach)
	assert.Equal(t, map[string]int{"research": 1, "coding": 1}, stats.ByCategory)
}
