package sqlite

import (
	"context"
	"fmt"

	"github.com/aetherpro/scout/internal/types"
)

// CreateOutreach inserts a new outreach draft.
func (s *SQLiteStorage) CreateOutreach(ctx context.Context, draft *types.OutreachDraft) error {
	if draft.AgentID == "" {
		return fmt.Errorf("outreach draft requires an agent ID")
	}
	if draft.Message == "" {
		return fmt.Errorf("outreach draft requires a message")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_outreach (id, agent_id, contact_email, github_url, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, draft.ID, draft.AgentID, draft.Email, draft.GitHubURL, draft.Message,
		string(draft.Status), draft.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create outreach draft: %w", err)
	}
	return nil
}

// ListOutreach returns outreach drafts matching the filter, newest-first.
func (s *SQLiteStorage) ListOutreach(ctx context.Context, filter types.OutreachFilter) ([]*types.OutreachDraft, error) {
	query := `
		SELECT id, agent_id, contact_email, github_url, message, status, created_at
		FROM agent_outreach WHERE 1=1
	`
	var args []interface{}
	if filter.AgentID != "" {
		query += " AND agent_id = ?"
		args = append(args, filter.AgentID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outreach drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*types.OutreachDraft
	for rows.Next() {
		var draft types.OutreachDraft
		var status string
		if err := rows.Scan(&draft.ID, &draft.AgentID, &draft.Email, &draft.GitHubURL,
			&draft.Message, &status, &draft.CreatedAt); err != nil {
			return nil, err
		}
		draft.Status = types.OutreachStatus(status)
		drafts = append(drafts, &draft)
	}
	return drafts, rows.Err()
}
