package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/totalsbot/config"
	"github.com/alejandrodnm/totalsbot/internal/adapters/notify"
	"github.com/alejandrodnm/totalsbot/internal/adapters/storage"
	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/runner"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty = defaults)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full tables for fired decisions")
	importPath := flag.String("import", "", "import ticks from a JSON Lines file and exit")
	replay := flag.Bool("replay", false, "replay stored games through the model")
	ratePerSec := flag.Float64("rate", -1, "ticks per second per game in -replay (0 = unlimited, overrides config)")
	resume := flag.Bool("resume", false, "resume trigger state from storage in -replay")
	backtest := flag.Bool("backtest", false, "replay stored ticks against stored snapshots")
	gameID := flag.String("game", "", "restrict -replay/-backtest to one game")
	explain := flag.Bool("explain", false, "print the full control table of the last tick per game")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus /metrics on this address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *ratePerSec >= 0 {
		cfg.Runner.RatePerSec = *ratePerSec
	}
	if *metricsAddr != "" {
		cfg.Runner.MetricsAddr = *metricsAddr
	}
	setupLogger(cfg.Log)

	slog.Info("totalsbot starting",
		"config", *configPath,
		"dsn", cfg.Storage.DSN,
		"import", *importPath,
		"replay", *replay,
		"backtest", *backtest,
		"game", *gameID,
		"blowout_priors", cfg.Model.Blowout.Enabled,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *importPath != "" {
		runImport(ctx, store, *importPath)
		return
	}

	var priors *domain.BlowoutPriors
	if cfg.Runner.BlowoutPriorsPath != "" {
		priors, err = domain.LoadBlowoutPriors(cfg.Runner.BlowoutPriorsPath)
		if err != nil {
			slog.Error("failed to load blowout priors", "err", err, "path", cfg.Runner.BlowoutPriorsPath)
			os.Exit(1)
		}
		slog.Info("blowout priors loaded", "teams", len(priors.Priors), "season", priors.Season)
	}

	if cfg.Runner.MetricsAddr != "" {
		serveMetrics(ctx, cfg.Runner.MetricsAddr)
	}

	notifier := notify.NewConsole(*table || cfg.Runner.TableOutput)
	r := runner.New(runner.Config{
		Model:        cfg.Model,
		TickInterval: cfg.TickInterval(),
		Concurrency:  cfg.Runner.Concurrency,
		Priors:       priors,
		Resume:       *resume,
	}, store, notifier)

	switch {
	case *backtest:
		runBacktest(ctx, r, store, notifier, *gameID, cfg.Runner.TimelineEvery)
	case *replay:
		runReplay(ctx, r, notifier, *gameID, *explain)
	default:
		slog.Warn("nothing to do: pass -import, -replay or -backtest")
		flag.Usage()
		os.Exit(2)
	}

	slog.Info("totalsbot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
