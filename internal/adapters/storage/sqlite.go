package storage

// sqlite.go: persistencia de ticks, snapshots, decisiones y estado del trigger.
//
// Estrategia:
//   - `ticks` y `snapshots`: registros inmutables, clave (game_id, ts). Un
//     snapshot ya guardado no se reescribe nunca (ON CONFLICT DO NOTHING):
//     es la referencia del backtest.
//   - `decisions`: append-only, una fila por tick evaluado, con el run_id
//     del replay que la produjo.
//   - `trigger_states`: una fila por partido (UPSERT) con el estado del
//     trigger y la expiración del freeze. Cache en memoria para
//     no reescribir si el estado no cambió (la mayoría de ticks son PASS con
//     rachas a cero).
//   - Timestamps como UnixNano (INTEGER): sin ambigüedad de formato al releer.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/ports"
	_ "modernc.org/sqlite"
)

// ErrNotFound se devuelve cuando no existe el registro pedido.
var ErrNotFound = ports.ErrNotFound

const schema = `
CREATE TABLE IF NOT EXISTS ticks (
    game_id      TEXT    NOT NULL,
    ts           INTEGER NOT NULL,
    elapsed_min  REAL    NOT NULL DEFAULT 0,
    home_score   INTEGER NOT NULL DEFAULT 0,
    away_score   INTEGER NOT NULL DEFAULT 0,
    live_total   REAL    NOT NULL DEFAULT 0,
    payload      TEXT    NOT NULL,
    PRIMARY KEY (game_id, ts)
);

CREATE TABLE IF NOT EXISTS snapshots (
    game_id     TEXT    NOT NULL,
    ts          INTEGER NOT NULL,
    fair_value  REAL    NOT NULL DEFAULT 0,
    edge_z      REAL    NOT NULL DEFAULT 0,
    live_total  REAL    NOT NULL DEFAULT 0,
    payload     TEXT    NOT NULL,
    created_at  INTEGER NOT NULL,
    PRIMARY KEY (game_id, ts)
);

CREATE TABLE IF NOT EXISTS decisions (
    id            TEXT PRIMARY KEY,
    run_id        TEXT    NOT NULL,
    game_id       TEXT    NOT NULL,
    ts            INTEGER NOT NULL,
    side          TEXT    NOT NULL,
    status        TEXT    NOT NULL,
    fired         INTEGER NOT NULL DEFAULT 0,
    edge_z        REAL    NOT NULL DEFAULT 0,
    threshold     REAL    NOT NULL DEFAULT 0,
    fair_value    REAL    NOT NULL DEFAULT 0,
    market_total  REAL    NOT NULL DEFAULT 0,
    reasons       TEXT,
    notes         TEXT,
    created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trigger_states (
    game_id             TEXT PRIMARY KEY,
    over_streak         INTEGER NOT NULL DEFAULT 0,
    under_streak        INTEGER NOT NULL DEFAULT 0,
    last_decision_ts    INTEGER,
    last_decision_side  TEXT    NOT NULL DEFAULT 'PASS',
    frozen_until        INTEGER,
    updated_at          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_game ON decisions(game_id, ts);
CREATE INDEX IF NOT EXISTS idx_decisions_fired ON decisions(fired, ts DESC);
`

// migrations añade columnas que no existen en esquemas anteriores.
var migrations = []string{
	"ALTER TABLE trigger_states ADD COLUMN frozen_until INTEGER",
}

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db     *sql.DB
	states map[string]domain.GameCheckpoint // gameID → último checkpoint guardado
	mu     sync.Mutex
	now    func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	for _, m := range migrations {
		db.Exec(m) // falla si la columna ya existe: se ignora
	}

	s := &SQLiteStorage{
		db:     db,
		states: make(map[string]domain.GameCheckpoint),
		now:    time.Now,
	}
	s.warmCache(context.Background())
	return s, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// warmCache precarga los estados del trigger para evitar escrituras
// redundantes tras un reinicio.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, over_streak, under_streak, last_decision_ts, last_decision_side, frozen_until
		FROM trigger_states`)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err == nil {
			s.states[cp.State.GameID] = cp
		}
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func unixNano(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnixNano(v int64) time.Time {
	return time.Unix(0, v).UTC()
}

func nullUnixNano(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return unixNano(t)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalList[T any](items []T) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
