// Package storage defines the persistence interface for discovery runs,
// discovered agents, and outreach drafts.
package storage

import (
	"context"

	"github.com/aetherpro/scout/internal/storage/sqlite"
	"github.com/aetherpro/scout/internal/types"
)

// Storage defines the interface for discovery storage backends.
type Storage interface {
	// Runs
	CreateRun(ctx context.Context, run *types.Run) error
	UpdateRun(ctx context.Context, run *types.Run) error
	GetRun(ctx context.Context, id string) (*types.Run, error)
	ListRuns(ctx context.Context, filter types.RunFilter) ([]*types.Run, error)

	// Agents
	UpsertAgent(ctx context.Context, record *types.AgentRecord, discoveredBy string) (*types.StoredAgent, error)
	GetAgent(ctx context.Context, id string) (*types.StoredAgent, error)
	ListAgents(ctx context.Context, filter types.AgentFilter) ([]*types.StoredAgent, error)
	VerifyAgent(ctx context.Context, id, verifiedBy, notes string) error
	MarkRegistered(ctx context.Context, id string) error
	GetVerificationQueue(ctx context.Context, limit int) ([]*types.StoredAgent, error)

	// Outreach
	CreateOutreach(ctx context.Context, draft *types.OutreachDraft) error
	ListOutreach(ctx context.Context, filter types.OutreachFilter) ([]*types.OutreachDraft, error)

	// Statistics
	GetStatistics(ctx context.Context) (*types.Statistics, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration.
type Config struct {
	// Path is the SQLite database file path.
	// Default: ".scout/scout.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path: ".scout/scout.db",
	}
}

// NewStorage creates a new SQLite storage backend.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".scout/scout.db"
	}
	return sqlite.New(cfg.Path)
}
