package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aetherpro/scout/internal/types"
)

// UpsertAgent inserts a new discovered agent, or refreshes the existing row
// when the source URL is already known. Upserts never touch verification or
// registration state: a human decision survives re-discovery.
func (s *SQLiteStorage) UpsertAgent(ctx context.Context, record *types.AgentRecord, discoveredBy string) (*types.StoredAgent, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent record: %w", err)
	}

	capabilities, err := json.Marshal(record.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal capabilities: %w", err)
	}
	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	contacts, err := json.Marshal(record.Contacts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contacts: %w", err)
	}
	var rawLead []byte
	if record.RawLead != nil {
		rawLead, err = json.Marshal(record.RawLead)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal raw lead: %w", err)
		}
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO discovered_agents (
			id, name, slug, description, capabilities, framework, category, tags,
			endpoint_url, documentation_url, source_url, contacts, confidence_score,
			raw_lead, discovered_at, discovered_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			description = excluded.description,
			capabilities = excluded.capabilities,
			framework = excluded.framework,
			category = excluded.category,
			tags = excluded.tags,
			endpoint_url = excluded.endpoint_url,
			documentation_url = excluded.documentation_url,
			contacts = excluded.contacts,
			confidence_score = excluded.confidence_score,
			raw_lead = excluded.raw_lead,
			discovered_at = excluded.discovered_at,
			updated_at = excluded.updated_at
	`, uuid.New().String(), record.Name, record.Slug, record.Description, string(capabilities),
		record.Framework, record.Category, string(tags), record.EndpointURL,
		record.DocumentationURL, record.SourceURL, string(contacts), record.ConfidenceScore,
		nullableString(rawLead), record.DiscoveredAt, discoveredBy, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert agent: %w", err)
	}

	return s.getAgentBySourceURL(ctx, record.SourceURL)
}

// GetAgent retrieves a stored agent by ID.
func (s *SQLiteStorage) GetAgent(ctx context.Context, id string) (*types.StoredAgent, error) {
	row := s.db.QueryRowContext(ctx, agentSelect+" WHERE id = ?", id)
	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("agent not found: %s", id)
	}
	return agent, err
}

func (s *SQLiteStorage) getAgentBySourceURL(ctx context.Context, sourceURL string) (*types.StoredAgent, error) {
	row := s.db.QueryRowContext(ctx, agentSelect+" WHERE source_url = ?", sourceURL)
	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("agent not found for source URL: %s", sourceURL)
	}
	return agent, err
}

// ListAgents returns stored agents matching the filter, newest-first.
func (s *SQLiteStorage) ListAgents(ctx context.Context, filter types.AgentFilter) ([]*types.StoredAgent, error) {
	query := agentSelect + " WHERE 1=1"
	var args []interface{}
	if filter.Verified != nil {
		query += " AND verified = ?"
		args = append(args, boolToInt(*filter.Verified))
	}
	if filter.Registered != nil {
		query += " AND registered = ?"
		args = append(args, boolToInt(*filter.Registered))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*types.StoredAgent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// VerifyAgent marks an agent as human-verified.
func (s *SQLiteStorage) VerifyAgent(ctx context.Context, id, verifiedBy, notes string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE discovered_agents
		SET verified = 1, verified_by = ?, verified_at = ?, verification_notes = ?, updated_at = ?
		WHERE id = ?
	`, verifiedBy, time.Now().UTC(), notes, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to verify agent: %w", err)
	}
	return checkAffected(result, id)
}

// MarkRegistered records that the agent's creator registered on the platform.
func (s *SQLiteStorage) MarkRegistered(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE discovered_agents SET registered = 1, updated_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark agent registered: %w", err)
	}
	return checkAffected(result, id)
}

// GetVerificationQueue returns unverified agents, highest confidence first,
// so reviewers see the most promising candidates at the top.
func (s *SQLiteStorage) GetVerificationQueue(ctx context.Context, limit int) ([]*types.StoredAgent, error) {
	query := agentSelect + " WHERE verified = 0 ORDER BY confidence_score DESC, created_at ASC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get verification queue: %w", err)
	}
	defer rows.Close()

	var agents []*types.StoredAgent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

const agentSelect = `
	SELECT id, name, slug, description, capabilities, framework, category, tags,
	       endpoint_url, documentation_url, source_url, contacts, confidence_score,
	       raw_lead, discovered_at, discovered_by, verified, verified_by, verified_at,
	       verification_notes, registered, created_at, updated_at
	FROM discovered_agents
`

func scanAgent(row rowScanner) (*types.StoredAgent, error) {
	var agent types.StoredAgent
	var capabilities, tags, contacts string
	var rawLead sql.NullString
	var verifiedAt sql.NullTime
	var verified, registered int

	err := row.Scan(&agent.ID, &agent.Name, &agent.Slug, &agent.Description, &capabilities,
		&agent.Framework, &agent.Category, &tags, &agent.EndpointURL,
		&agent.DocumentationURL, &agent.SourceURL, &contacts, &agent.ConfidenceScore,
		&rawLead, &agent.DiscoveredAt, &agent.DiscoveredBy, &verified, &agent.VerifiedBy,
		&verifiedAt, &agent.VerificationNotes, &registered, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		return nil, err
	}

	agent.Verified = verified != 0
	agent.Registered = registered != 0
	if verifiedAt.Valid {
		agent.VerifiedAt = verifiedAt.Time
	}

	if err := json.Unmarshal([]byte(capabilities), &agent.Capabilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal capabilities for agent %s: %w", agent.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &agent.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags for agent %s: %w", agent.ID, err)
	}
	if err := json.Unmarshal([]byte(contacts), &agent.Contacts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts for agent %s: %w", agent.ID, err)
	}
	if rawLead.Valid && rawLead.String != "" {
		var lead types.Lead
		if err := json.Unmarshal([]byte(rawLead.String), &lead); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raw lead for agent %s: %w", agent.ID, err)
		}
		agent.RawLead = &lead
	}
	return &agent, nil
}

func checkAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("agent not found: %s", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
