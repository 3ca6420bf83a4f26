// Package types defines the core data model for the scout discovery pipeline.
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of a discovery run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal reports whether the status is a terminal state.
// Completed and failed runs never transition again.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// TraceStep is one entry in a run's reasoning trace. Steps are strictly
// ordered by the Step counter; every pipeline phase appends at least one.
type TraceStep struct {
	Step        int    `json:"step"`
	Action      string `json:"action"`
	Description string `json:"description"`
	// Confidence is the phase's estimate of its own output quality,
	// not any individual lead's score. Zero means "not meaningful here".
	Confidence float64   `json:"confidence,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Source is an attributed reference collected during deep research.
// Sources accumulate on the run for final audit regardless of whether
// the lead that produced them survives later phases.
type Source struct {
	URL   string  `json:"url"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Run is one discovery execution. It owns its trace and source list
// exclusively; no state is shared between concurrent runs.
type Run struct {
	ID         string      `json:"id"`
	Keywords   []string    `json:"keywords"`
	MaxResults int         `json:"max_results"`
	Status     RunStatus   `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	Trace      []TraceStep `json:"trace"`
	Sources    []Source    `json:"sources"`

	// Phase result counts, filled in as the pipeline progresses.
	Stats RunStats `json:"stats"`
}

// RunStats tracks per-phase counts for a discovery run.
type RunStats struct {
	SearchResults   int `json:"search_results"`
	UniqueLeads     int `json:"unique_leads"`
	FilteredLeads   int `json:"filtered_leads"`
	ResearchedLeads int `json:"researched_leads"`
	ScrapedLeads    int `json:"scraped_leads"`
	ClassifiedLeads int `json:"classified_leads"`
	StoredAgents    int `json:"stored_agents"`
	OutreachDrafts  int `json:"outreach_drafts"`
}

// NewRun creates a run in the running state with a fresh UUID.
func NewRun(keywords []string, maxResults int) *Run {
	return &Run{
		ID:         uuid.New().String(),
		Keywords:   keywords,
		MaxResults: maxResults,
		Status:     RunStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
}

// AddStep appends a trace step with the next step number.
func (r *Run) AddStep(action, description string, confidence float64) {
	r.Trace = append(r.Trace, TraceStep{
		Step:        len(r.Trace) + 1,
		Action:      action,
		Description: description,
		Confidence:  confidence,
		Timestamp:   time.Now().UTC(),
	})
}

// AddSources appends sources to the run-global source list.
func (r *Run) AddSources(sources []Source) {
	r.Sources = append(r.Sources, sources...)
}

// Validate checks run-level invariants, primarily trace ordering.
func (r *Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	switch r.Status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
	default:
		return fmt.Errorf("invalid run status: %q", r.Status)
	}
	for i, step := range r.Trace {
		if step.Step != i+1 {
			return fmt.Errorf("trace step %d has counter %d (expected %d)", i, step.Step, i+1)
		}
	}
	return nil
}

// RunFilter selects runs for listing queries.
type RunFilter struct {
	Status RunStatus // empty matches all
	Limit  int
}
