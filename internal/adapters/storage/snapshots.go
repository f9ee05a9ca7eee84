package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// SaveSnapshot guarda un snapshot. Los snapshots son inmutables: si ya existe
// uno para (game_id, ts) se conserva el original.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, out domain.ControlTableOutput) error {
	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: marshal: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (game_id, ts, fair_value, edge_z, live_total, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id, ts) DO NOTHING`,
		out.GameID,
		unixNano(out.Timestamp),
		out.FairValue,
		out.EdgeZ,
		out.LiveTotal,
		string(payload),
		unixNano(s.now()),
	); err != nil {
		return fmt.Errorf("storage.SaveSnapshot: insert %s: %w", out.GameID, err)
	}
	return nil
}

// LoadSnapshots devuelve los snapshots guardados de un partido en orden cronológico.
func (s *SQLiteStorage) LoadSnapshots(ctx context.Context, gameID string) ([]domain.ControlTableOutput, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM snapshots WHERE game_id = ? ORDER BY ts ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadSnapshots: query: %w", err)
	}
	defer rows.Close()

	var out []domain.ControlTableOutput
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage.LoadSnapshots: scan: %w", err)
		}
		var snap domain.ControlTableOutput
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			return nil, fmt.Errorf("storage.LoadSnapshots: decode %s: %w", gameID, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
