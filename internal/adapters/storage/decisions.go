package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/google/uuid"
)

// SaveDecision añade una decisión. Cada fila recibe un UUID propio.
func (s *SQLiteStorage) SaveDecision(ctx context.Context, runID string, dec domain.DecisionOutput) error {
	reasons, err := marshalList(dec.Reasons)
	if err != nil {
		return fmt.Errorf("storage.SaveDecision: marshal reasons: %w", err)
	}
	notes, err := marshalList(dec.Notes)
	if err != nil {
		return fmt.Errorf("storage.SaveDecision: marshal notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions
		  (id, run_id, game_id, ts, side, status, fired, edge_z, threshold,
		   fair_value, market_total, reasons, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		runID,
		dec.GameID,
		unixNano(dec.Timestamp),
		dec.Side.String(),
		dec.Status.String(),
		boolToInt(dec.Fired),
		dec.EdgeZ,
		dec.Threshold,
		dec.FairValue,
		dec.MarketTotal,
		reasons,
		notes,
		unixNano(s.now()),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveDecision: insert %s: %w", dec.GameID, err)
	}
	return nil
}

// GetDecisions devuelve las decisiones de un partido en orden cronológico.
func (s *SQLiteStorage) GetDecisions(ctx context.Context, gameID string) ([]domain.DecisionOutput, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, ts, side, status, fired, edge_z, threshold,
		       fair_value, market_total, reasons, notes
		FROM decisions
		WHERE game_id = ?
		ORDER BY ts ASC, created_at ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetDecisions: query: %w", err)
	}
	defer rows.Close()

	var out []domain.DecisionOutput
	for rows.Next() {
		var (
			dec            domain.DecisionOutput
			ts             int64
			side, status   string
			fired          int
			reasons, notes sql.NullString
		)
		if err := rows.Scan(
			&dec.GameID, &ts, &side, &status, &fired, &dec.EdgeZ, &dec.Threshold,
			&dec.FairValue, &dec.MarketTotal, &reasons, &notes,
		); err != nil {
			return nil, fmt.Errorf("storage.GetDecisions: scan: %w", err)
		}

		dec.Timestamp = fromUnixNano(ts)
		dec.Fired = fired == 1
		if dec.Side, err = domain.ParseSide(side); err != nil {
			return nil, fmt.Errorf("storage.GetDecisions: %w", err)
		}
		if dec.Status, err = domain.ParseDecisionStatus(status); err != nil {
			return nil, fmt.Errorf("storage.GetDecisions: %w", err)
		}
		if reasons.Valid {
			if err := json.Unmarshal([]byte(reasons.String), &dec.Reasons); err != nil {
				return nil, fmt.Errorf("storage.GetDecisions: decode reasons: %w", err)
			}
		}
		if notes.Valid {
			if err := json.Unmarshal([]byte(notes.String), &dec.Notes); err != nil {
				return nil, fmt.Errorf("storage.GetDecisions: decode notes: %w", err)
			}
		}
		out = append(out, dec)
	}
	return out, rows.Err()
}
