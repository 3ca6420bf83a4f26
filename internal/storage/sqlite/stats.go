package sqlite

import (
	"context"
	"fmt"

	"github.com/aetherpro/scout/internal/types"
)

// GetStatistics summarizes the discovered-agent corpus.
func (s *SQLiteStorage) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	stats := &types.Statistics{
		ByCategory: make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(verified), 0),
		       COALESCE(SUM(registered), 0)
		FROM discovered_agents
	`).Scan(&stats.TotalDiscovered, &stats.Verified, &stats.Registered)
	if err != nil {
		return nil, fmt.Errorf("failed to count agents: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM discovered_agents
		WHERE category != '' GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM agent_outreach WHERE status = 'pending'
	`).Scan(&stats.PendingOutreach)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending outreach: %w", err)
	}

	return stats, nil
}
