package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// SaveTicks guarda ticks en una sola transacción. Un tick repetido (mismo
// game_id y ts) se ignora: la primera versión es la que se reproduce.
func (s *SQLiteStorage) SaveTicks(ctx context.Context, ticks []domain.ControlTableInput) error {
	if len(ticks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveTicks: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ticks (game_id, ts, elapsed_min, home_score, away_score, live_total, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id, ts) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveTicks: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range ticks {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("storage.SaveTicks: marshal %s@%s: %w", t.GameID, t.Timestamp, err)
		}
		if _, err := stmt.ExecContext(ctx,
			t.GameID,
			unixNano(t.Timestamp),
			t.ElapsedMin,
			t.Home.Score,
			t.Away.Score,
			t.LiveTotal,
			string(payload),
		); err != nil {
			return fmt.Errorf("storage.SaveTicks: insert %s: %w", t.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveTicks: commit: %w", err)
	}
	return nil
}

// ListGames devuelve los partidos con ticks, en orden alfabético.
func (s *SQLiteStorage) ListGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT game_id FROM ticks ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("storage.ListGames: query: %w", err)
	}
	defer rows.Close()

	var games []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage.ListGames: scan: %w", err)
		}
		games = append(games, id)
	}
	return games, rows.Err()
}

// LoadTicks devuelve los ticks de un partido en orden cronológico.
func (s *SQLiteStorage) LoadTicks(ctx context.Context, gameID string) ([]domain.ControlTableInput, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM ticks WHERE game_id = ? ORDER BY ts ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadTicks: query: %w", err)
	}
	defer rows.Close()

	var ticks []domain.ControlTableInput
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage.LoadTicks: scan: %w", err)
		}
		var t domain.ControlTableInput
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return nil, fmt.Errorf("storage.LoadTicks: decode %s: %w", gameID, err)
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}
