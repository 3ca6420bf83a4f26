package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aetherpro/scout/internal/types"
)

// CreateRun inserts a new discovery run.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *types.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}

	keywords, trace, sources, stats, err := marshalRunColumns(run)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO discovery_runs (id, keywords, max_results, status, started_at, trace, sources, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, keywords, run.MaxResults, string(run.Status), run.StartedAt, trace, sources, stats)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// UpdateRun replaces the mutable columns of an existing run. A terminal
// run is never moved back to running.
func (s *SQLiteStorage) UpdateRun(ctx context.Context, run *types.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}

	existing, err := s.GetRun(ctx, run.ID)
	if err != nil {
		return err
	}
	if existing.Status.IsTerminal() && run.Status == types.RunStatusRunning {
		return fmt.Errorf("run %s is %s and cannot return to running", run.ID, existing.Status)
	}

	_, trace, sources, stats, err := marshalRunColumns(run)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE discovery_runs
		SET status = ?, trace = ?, sources = ?, stats = ?
		WHERE id = ?
	`, string(run.Status), trace, sources, stats, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*types.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, keywords, max_results, status, started_at, trace, sources, stats
		FROM discovery_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, err
}

// ListRuns returns runs newest-first, optionally filtered by status.
func (s *SQLiteStorage) ListRuns(ctx context.Context, filter types.RunFilter) ([]*types.Run, error) {
	query := `
		SELECT id, keywords, max_results, status, started_at, trace, sources, stats
		FROM discovery_runs
	`
	var args []interface{}
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func marshalRunColumns(run *types.Run) (keywords, trace, sources, stats string, err error) {
	kb, err := json.Marshal(run.Keywords)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal keywords: %w", err)
	}
	tb, err := json.Marshal(run.Trace)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal trace: %w", err)
	}
	sb, err := json.Marshal(run.Sources)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal sources: %w", err)
	}
	stb, err := json.Marshal(run.Stats)
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to marshal stats: %w", err)
	}
	return string(kb), string(tb), string(sb), string(stb), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*types.Run, error) {
	var run types.Run
	var status, keywords, trace, sources, stats string

	err := row.Scan(&run.ID, &keywords, &run.MaxResults, &status, &run.StartedAt, &trace, &sources, &stats)
	if err != nil {
		return nil, err
	}
	run.Status = types.RunStatus(status)

	if err := json.Unmarshal([]byte(keywords), &run.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(trace), &run.Trace); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sources for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(stats), &run.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats for run %s: %w", run.ID, err)
	}
	return &run, nil
}
