package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/adapters/notify"
	"github.com/alejandrodnm/totalsbot/internal/adapters/storage"
	"github.com/alejandrodnm/totalsbot/internal/metrics"
	"github.com/alejandrodnm/totalsbot/internal/runner"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func runImport(ctx context.Context, store *storage.SQLiteStorage, path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open import file", "err", err, "path", path)
		os.Exit(1)
	}
	defer f.Close()

	n, err := runner.ImportJSONL(ctx, f, store)
	if err != nil {
		slog.Error("import failed", "err", err, "imported", n)
		os.Exit(1)
	}
}

func runReplay(ctx context.Context, r *runner.Runner, notifier *notify.Console, gameID string, explain bool) {
	var (
		sums []runner.GameSummary
		err  error
	)
	if gameID != "" {
		sums, err = r.Replay(ctx, []string{gameID})
	} else {
		sums, err = r.ReplayAll(ctx)
	}
	if err != nil {
		slog.Error("replay failed", "err", err, "run_id", r.RunID())
		os.Exit(1)
	}

	for _, s := range sums {
		slog.Info("game summary",
			"game_id", s.GameID,
			"ticks", s.Ticks,
			"fired", s.Fired,
			"frozen", s.Frozen,
			"invalid", s.Invalid,
			"final_fair", s.LastSnapshot.FairValue,
		)
		if explain && s.Ticks > 0 {
			notifier.PrintSnapshot(s.LastSnapshot)
		}
	}
}

func runBacktest(ctx context.Context, r *runner.Runner, store *storage.SQLiteStorage, notifier *notify.Console, gameID string, every int) {
	slog.Info("=== BACKTEST MODE: replay stored ticks vs stored snapshots ===")

	games := []string{gameID}
	if gameID == "" {
		var err error
		games, err = store.ListGames(ctx)
		if err != nil {
			slog.Error("failed to list games", "err", err)
			os.Exit(1)
		}
	}
	if len(games) == 0 {
		slog.Warn("no stored games: nothing to backtest")
		return
	}

	failed := 0
	for _, id := range games {
		report, err := r.Backtest(ctx, id)
		if err != nil {
			slog.Error("backtest failed", "err", err, "game_id", id)
			os.Exit(1)
		}
		notifier.PrintBacktest(report, every)
		if !report.Deterministic {
			failed++
		}
	}

	if failed > 0 {
		slog.Error("backtest found non-reproducible games", "games", failed)
		os.Exit(1)
	}
}

// serveMetrics expone /metrics hasta que ctx se cancele.
func serveMetrics(ctx context.Context, addr string) {
	metrics.Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
