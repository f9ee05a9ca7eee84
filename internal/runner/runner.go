// Package runner reproduce partidos almacenados a través del pipeline,
// persiste snapshots y decisiones, y notifica los disparos. Cada partido
// corre en su propio goroutine; los partidos no comparten estado.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/backtest"
	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/metrics"
	"github.com/alejandrodnm/totalsbot/internal/pipeline"
	"github.com/alejandrodnm/totalsbot/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config controla un replay.
type Config struct {
	Model        domain.ModelConfig
	TickInterval time.Duration         // pausa entre ticks de un partido; 0 = sin pausa
	Concurrency  int                   // partidos en paralelo
	Priors       *domain.BlowoutPriors // nil = sin priors de paliza
	Resume       bool                  // continuar desde el checkpoint persistido
}

// GameSummary resume el replay de un partido.
type GameSummary struct {
	GameID       string
	Ticks        int
	Fired        int
	Frozen       int
	Invalid      int
	FinalState   domain.TriggerState
	LastSnapshot domain.ControlTableOutput
}

// Runner orquesta storage, pipeline y notificador.
type Runner struct {
	cfg      Config
	storage  ports.Storage
	notifier ports.Notifier
	runID    string
}

// New crea un Runner con todas las dependencias inyectadas.
func New(cfg Config, storage ports.Storage, notifier ports.Notifier) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{
		cfg:      cfg,
		storage:  storage,
		notifier: notifier,
		runID:    uuid.NewString(),
	}
}

// RunID identifica las decisiones guardadas por este Runner.
func (r *Runner) RunID() string { return r.runID }

// ReplayAll reproduce todos los partidos almacenados.
func (r *Runner) ReplayAll(ctx context.Context) ([]GameSummary, error) {
	games, err := r.storage.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("runner.ReplayAll: %w", err)
	}
	return r.Replay(ctx, games)
}

// Replay reproduce los partidos dados en paralelo (hasta Concurrency a la vez).
// El primer error cancela el resto.
func (r *Runner) Replay(ctx context.Context, gameIDs []string) ([]GameSummary, error) {
	slog.Info("replay starting",
		"run_id", r.runID,
		"games", len(gameIDs),
		"concurrency", r.cfg.Concurrency,
		"tick_interval", r.cfg.TickInterval,
	)
	start := time.Now()

	summaries := make([]GameSummary, len(gameIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i, id := range gameIDs {
		g.Go(func() error {
			sum, err := r.ReplayGame(gctx, id)
			if err != nil {
				return err
			}
			summaries[i] = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("replay complete",
		"run_id", r.runID,
		"games", len(gameIDs),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return summaries, nil
}

// ReplayGame reproduce los ticks de un partido en orden.
func (r *Runner) ReplayGame(ctx context.Context, gameID string) (GameSummary, error) {
	ticks, err := r.storage.LoadTicks(ctx, gameID)
	if err != nil {
		return GameSummary{}, fmt.Errorf("runner.ReplayGame %s: %w", gameID, err)
	}

	ticks = backtest.SortTicks(ticks)
	game, pending, err := r.newGame(ctx, gameID, ticks)
	if err != nil {
		return GameSummary{}, err
	}

	var limiter *rate.Limiter
	if r.cfg.TickInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(r.cfg.TickInterval), 1)
	}

	sum := GameSummary{GameID: gameID, FinalState: game.State()}
	for _, tick := range pending {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return sum, fmt.Errorf("runner.ReplayGame %s: %w", gameID, err)
			}
		}

		res := game.Step(r.withPriors(tick))
		if err := r.handle(ctx, res); err != nil {
			return sum, fmt.Errorf("runner.ReplayGame %s: %w", gameID, err)
		}

		sum.Ticks++
		sum.LastSnapshot = res.Snapshot
		switch res.Decision.Status {
		case domain.StatusFired:
			sum.Fired++
		case domain.StatusFrozen:
			sum.Frozen++
		case domain.StatusInvalidInput:
			sum.Invalid++
		}
	}
	sum.FinalState = game.State()

	slog.Debug("game replayed",
		"game_id", gameID,
		"ticks", sum.Ticks,
		"fired", sum.Fired,
		"frozen", sum.Frozen,
	)
	return sum, nil
}

// Backtest reproduce un partido contra sus snapshots guardados sin persistir nada.
func (r *Runner) Backtest(ctx context.Context, gameID string) (backtest.Report, error) {
	ticks, err := r.storage.LoadTicks(ctx, gameID)
	if err != nil {
		return backtest.Report{}, fmt.Errorf("runner.Backtest %s: %w", gameID, err)
	}
	if len(ticks) == 0 {
		return backtest.Report{}, fmt.Errorf("runner.Backtest %s: %w", gameID, ports.ErrNotFound)
	}
	stored, err := r.storage.LoadSnapshots(ctx, gameID)
	if err != nil {
		return backtest.Report{}, fmt.Errorf("runner.Backtest %s: %w", gameID, err)
	}

	for i := range ticks {
		ticks[i] = r.withPriors(ticks[i])
	}

	report := backtest.Run(r.cfg.Model, ticks, stored)
	slog.Info("backtest complete",
		"game_id", gameID,
		"ticks", report.Ticks,
		"compared", report.Compared,
		"deterministic", report.Deterministic,
		"mismatches", len(report.Mismatches),
	)
	return report, nil
}

// newGame prepara el stepper de un partido y devuelve los ticks que faltan por
// procesar. Al reanudar se restaura el checkpoint y se saltan los ticks que ya
// tienen snapshot; el último de ellos vuelve a ser la referencia de monotonía.
func (r *Runner) newGame(ctx context.Context, gameID string, ticks []domain.ControlTableInput) (*pipeline.Game, []domain.ControlTableInput, error) {
	if !r.cfg.Resume {
		return pipeline.NewGame(r.cfg.Model, gameID), ticks, nil
	}
	cp, err := r.storage.LoadCheckpoint(ctx, gameID)
	if errors.Is(err, ports.ErrNotFound) {
		return pipeline.NewGame(r.cfg.Model, gameID), ticks, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("runner.newGame %s: %w", gameID, err)
	}

	snaps, err := r.storage.LoadSnapshots(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("runner.newGame %s: %w", gameID, err)
	}
	var (
		last    *domain.ControlTableInput
		pending = ticks
	)
	if n := len(snaps); n > 0 {
		processed := snaps[n-1].Timestamp
		skip := 0
		for skip < len(ticks) && !ticks[skip].Timestamp.After(processed) {
			skip++
		}
		if skip > 0 {
			prev := r.withPriors(ticks[skip-1])
			last = &prev
		}
		pending = ticks[skip:]
	}

	slog.Debug("game resumed",
		"game_id", gameID,
		"last_side", cp.State.LastDecisionSide,
		"last_ts", cp.State.LastDecisionTs,
		"frozen_until", cp.FrozenUntil,
		"skipped", len(ticks)-len(pending),
	)
	return pipeline.ResumeGame(r.cfg.Model, cp, last), pending, nil
}

// withPriors adjunta los priors de paliza del matchup si el tick no trae los suyos.
func (r *Runner) withPriors(tick domain.ControlTableInput) domain.ControlTableInput {
	if tick.Blowout == nil && r.cfg.Priors != nil {
		tick.Blowout = r.cfg.Priors.Matchup(tick.Home.Team, tick.Away.Team)
	}
	return tick
}

// handle persiste y notifica el resultado de un tick. Los fallos del
// notificador solo se registran; los del storage cortan el partido.
func (r *Runner) handle(ctx context.Context, res pipeline.StepResult) error {
	metrics.Observe(res)
	gameID := res.Input.GameID

	if len(res.Sanity.Errors) > 0 || len(res.Sanity.Warnings) > 0 {
		slog.Debug("sanity issues",
			"game_id", gameID,
			"errors", res.Sanity.Errors,
			"warnings", res.Sanity.Warnings,
		)
		if err := r.notifier.NotifySanity(ctx, gameID, res.Sanity); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	if err := r.storage.SaveSnapshot(ctx, res.Snapshot); err != nil {
		return err
	}
	if err := r.storage.SaveDecision(ctx, r.runID, res.Decision); err != nil {
		return err
	}
	if err := r.storage.SaveCheckpoint(ctx, domain.GameCheckpoint{State: res.State, FrozenUntil: res.FrozenUntil}); err != nil {
		return err
	}

	if res.Decision.Fired {
		slog.Info("signal fired",
			"game_id", gameID,
			"side", res.Decision.Side,
			"edge_z", res.Decision.EdgeZ,
			"fair", res.Decision.FairValue,
			"market", res.Decision.MarketTotal,
			"driver", res.Attribution.TopDriver,
		)
		if err := r.notifier.NotifyDecision(ctx, res.Decision, res.Attribution); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
	return nil
}
