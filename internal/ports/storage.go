package ports

import (
	"context"
	"errors"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// ErrNotFound lo devuelven los stores cuando no existe el registro pedido.
var ErrNotFound = errors.New("not found")

// TickSource entrega los ticks históricos de un partido en orden cronológico.
type TickSource interface {
	// ListGames devuelve los game IDs con ticks almacenados.
	ListGames(ctx context.Context) ([]string, error)

	// LoadTicks devuelve los ticks de un partido ordenados por timestamp.
	LoadTicks(ctx context.Context, gameID string) ([]domain.ControlTableInput, error)
}

// TickStore persiste ticks importados.
type TickStore interface {
	SaveTicks(ctx context.Context, ticks []domain.ControlTableInput) error
}

// SnapshotStore guarda snapshots como registros inmutables append-only,
// indexados por partido y timestamp.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, out domain.ControlTableOutput) error
	LoadSnapshots(ctx context.Context, gameID string) ([]domain.ControlTableOutput, error)
}

// DecisionStore guarda una decisión por tick evaluado.
type DecisionStore interface {
	SaveDecision(ctx context.Context, runID string, dec domain.DecisionOutput) error
	GetDecisions(ctx context.Context, gameID string) ([]domain.DecisionOutput, error)
}

// CheckpointStore persiste el estado del trigger y el freeze entre reinicios.
type CheckpointStore interface {
	// LoadCheckpoint devuelve ErrNotFound si el partido no tiene estado.
	LoadCheckpoint(ctx context.Context, gameID string) (domain.GameCheckpoint, error)
	SaveCheckpoint(ctx context.Context, cp domain.GameCheckpoint) error
}

// Storage agrupa todo lo que necesita el runner.
type Storage interface {
	TickSource
	TickStore
	SnapshotStore
	DecisionStore
	CheckpointStore

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
