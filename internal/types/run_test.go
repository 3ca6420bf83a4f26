package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun(t *testing.T) {
	run := NewRun([]string{"LangChain agent"}, 50)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.False(t, run.StartedAt.IsZero())
	assert.Empty(t, run.Trace)
}

func TestAddStepOrdering(t *testing.T) {
	run := NewRun([]string{"kw"}, 50)
	run.AddStep("bulk_search", "searched", 0.7)
	run.AddStep("deduplicate", "deduped", 0)
	run.AddStep("relevance_filter", "filtered", 0.8)

	require.Len(t, run.Trace, 3)
	for i, step := range run.Trace {
		assert.Equal(t, i+1, step.Step)
		assert.False(t, step.Timestamp.IsZero())
	}
	require.NoError(t, run.Validate())
}

func TestValidateCatchesBrokenTrace(t *testing.T) {
	run := NewRun([]string{"kw"}, 50)
	run.AddStep("bulk_search", "searched", 0.7)
	run.Trace[0].Step = 5
	assert.Error(t, run.Validate())
}

func TestValidateStatus(t *testing.T) {
	run := NewRun([]string{"kw"}, 50)
	run.Status = RunStatus("paused")
	assert.Error(t, run.Validate())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, RunStatusRunning.IsTerminal())
	assert.True(t, RunStatusCompleted.IsTerminal())
	assert.True(t, RunStatusFailed.IsTerminal())
}

func TestAddSources(t *testing.T) {
	run := NewRun([]string{"kw"}, 50)
	run.AddSources([]Source{{URL: "https://a.example.com", Score: 0.9}})
	run.AddSources([]Source{{URL: "https://b.example.com", Score: 0.8}})
	assert.Len(t, run.Sources, 2)
}
