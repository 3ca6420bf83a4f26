// Package search implements the bulk discovery sweep: per-keyword queries
// against a fast web search provider, executed concurrently and normalized
// into canonical leads.
package search

import (
	"context"

	"github.com/aetherpro/scout/internal/types"
)

// Provider is a bulk keyword search backend. Implementations return a
// bounded list of candidate records for one query. Transient provider
// trouble surfaces as an error; the sweeper absorbs it per-keyword.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
	Name() string
}
