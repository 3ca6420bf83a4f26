package research

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aetherpro/scout/internal/types"
)

// Adapter drives deep research over a batch of filtered leads, bounding
// external cost with a lead cap and a per-lead source cap.
type Adapter struct {
	provider       Provider
	sourcesPerLead int
}

// NewAdapter creates a research adapter. sourcesPerLead bounds how many
// supporting sources attach to each lead; zero means 3.
func NewAdapter(provider Provider, sourcesPerLead int) *Adapter {
	if sourcesPerLead <= 0 {
		sourcesPerLead = 3
	}
	return &Adapter{provider: provider, sourcesPerLead: sourcesPerLead}
}

// Research enriches the first cap leads, in arrival order, with supporting
// sources. Arrival order rather than confidence order is a deliberate
// policy choice: it keeps cost bounds predictable across reruns of the
// same keyword set.
//
// Every attached source is also appended to the run's global source list
// for final audit, whether or not the lead survives later phases. A
// provider failure for one lead keeps the lead, minus sources, and moves
// on.
func (a *Adapter) Research(ctx context.Context, run *types.Run, leads []types.Lead, cap int) []types.Lead {
	if cap > 0 && len(leads) > cap {
		leads = leads[:cap]
	}

	researched := make([]types.Lead, 0, len(leads))
	for _, lead := range leads {
		query := fmt.Sprintf("%s AI agent details documentation", lead.Title)

		sources, err := a.provider.Research(ctx, query, a.sourcesPerLead, "advanced")
		if err != nil {
			slog.Warn("deep research failed for lead, continuing without sources",
				"url", lead.URL,
				"error", err)
			researched = append(researched, lead)
			continue
		}

		if len(sources) > a.sourcesPerLead {
			sources = sources[:a.sourcesPerLead]
		}
		lead.Research = sources
		researched = append(researched, lead)

		runSources := make([]types.Source, 0, len(sources))
		for _, s := range sources {
			runSources = append(runSources, types.Source{URL: s.URL, Title: s.Title, Score: s.Score})
		}
		run.AddSources(runSources)
	}

	return researched
}
