package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// SaveCheckpoint hace upsert del estado de un partido. Si es igual al último
// guardado no toca la base de datos.
func (s *SQLiteStorage) SaveCheckpoint(ctx context.Context, cp domain.GameCheckpoint) error {
	st := cp.State

	s.mu.Lock()
	prev, ok := s.states[st.GameID]
	s.mu.Unlock()
	if ok && sameCheckpoint(prev, cp) {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO trigger_states
		  (game_id, over_streak, under_streak, last_decision_ts, last_decision_side, frozen_until, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
		  over_streak        = excluded.over_streak,
		  under_streak       = excluded.under_streak,
		  last_decision_ts   = excluded.last_decision_ts,
		  last_decision_side = excluded.last_decision_side,
		  frozen_until       = excluded.frozen_until,
		  updated_at         = excluded.updated_at`,
		st.GameID,
		st.OverStreak,
		st.UnderStreak,
		nullUnixNano(st.LastDecisionTs),
		st.LastDecisionSide.String(),
		nullUnixNano(cp.FrozenUntil),
		unixNano(s.now()),
	); err != nil {
		return fmt.Errorf("storage.SaveCheckpoint: upsert %s: %w", st.GameID, err)
	}

	s.mu.Lock()
	s.states[st.GameID] = cp
	s.mu.Unlock()
	return nil
}

// LoadCheckpoint devuelve el checkpoint guardado o ErrNotFound.
func (s *SQLiteStorage) LoadCheckpoint(ctx context.Context, gameID string) (domain.GameCheckpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT game_id, over_streak, under_streak, last_decision_ts, last_decision_side, frozen_until
		FROM trigger_states WHERE game_id = ?`, gameID)

	cp, err := scanCheckpoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameCheckpoint{}, ErrNotFound
	}
	if err != nil {
		return domain.GameCheckpoint{}, fmt.Errorf("storage.LoadCheckpoint: %w", err)
	}
	return cp, nil
}

func scanCheckpoint(r rowScanner) (domain.GameCheckpoint, error) {
	var (
		cp     domain.GameCheckpoint
		ts     sql.NullInt64
		frozen sql.NullInt64
		side   string
	)
	st := &cp.State
	if err := r.Scan(&st.GameID, &st.OverStreak, &st.UnderStreak, &ts, &side, &frozen); err != nil {
		return cp, err
	}
	if ts.Valid {
		st.LastDecisionTs = fromUnixNano(ts.Int64)
	}
	if frozen.Valid {
		cp.FrozenUntil = fromUnixNano(frozen.Int64)
	}
	parsed, err := domain.ParseSide(side)
	if err != nil {
		return cp, err
	}
	st.LastDecisionSide = parsed
	return cp, nil
}

func sameCheckpoint(a, b domain.GameCheckpoint) bool {
	return a.State.GameID == b.State.GameID &&
		a.State.OverStreak == b.State.OverStreak &&
		a.State.UnderStreak == b.State.UnderStreak &&
		a.State.LastDecisionTs.Equal(b.State.LastDecisionTs) &&
		a.State.LastDecisionSide == b.State.LastDecisionSide &&
		a.FrozenUntil.Equal(b.FrozenUntil)
}
