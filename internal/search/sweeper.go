package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/aetherpro/scout/internal/types"
)

// Sweeper fans one search call per keyword out to the provider and merges
// the answers into a keyword → leads mapping. A failed keyword is logged
// and omitted from the mapping; its absence, not an error, is what callers
// observe. No partial output is produced: Sweep returns only after every
// in-flight query has finished.
type Sweeper struct {
	provider      Provider
	maxConcurrent int64
}

// NewSweeper creates a sweeper over the given provider. maxConcurrent
// bounds in-flight queries; zero means 4.
func NewSweeper(provider Provider, maxConcurrent int) *Sweeper {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Sweeper{provider: provider, maxConcurrent: int64(maxConcurrent)}
}

// Sweep executes one search per keyword concurrently. Every returned lead
// is tagged with the query that produced it and a discovery timestamp.
func (s *Sweeper) Sweep(ctx context.Context, keywords []string, perQueryCap int) map[string][]types.Lead {
	sem := semaphore.NewWeighted(s.maxConcurrent)

	var mu sync.Mutex
	results := make(map[string][]types.Lead, len(keywords))

	var wg sync.WaitGroup
	for _, keyword := range keywords {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context canceled; whatever finished so far is the answer.
			break
		}

		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			defer sem.Release(1)

			searchResults, err := s.provider.Search(ctx, query, perQueryCap)
			if err != nil {
				slog.Warn("search query failed, omitting from sweep",
					"provider", s.provider.Name(),
					"query", query,
					"error", err)
				return
			}

			now := time.Now().UTC()
			leads := make([]types.Lead, 0, len(searchResults))
			for _, r := range searchResults {
				if r.URL == "" {
					continue
				}
				leads = append(leads, types.Lead{
					URL:          r.URL,
					Title:        r.Title,
					Snippet:      r.Snippet,
					Query:        query,
					DiscoveredAt: now,
				})
			}

			mu.Lock()
			results[query] = leads
			mu.Unlock()
		}(keyword)
	}

	wg.Wait()
	return results
}

// Flatten merges a sweep result into a single lead list, ordered by the
// keyword order given (map iteration order is not stable, and dedup depends
// on a deterministic first-seen order).
func Flatten(keywords []string, swept map[string][]types.Lead) []types.Lead {
	var all []types.Lead
	for _, keyword := range keywords {
		all = append(all, swept[keyword]...)
	}
	return all
}
