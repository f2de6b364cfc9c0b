package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slipstream-bet/converter/internal/pkg/agent"
	"github.com/slipstream-bet/converter/internal/pkg/bookmakers"
	pkgconfig "github.com/slipstream-bet/converter/internal/pkg/config"
	"github.com/slipstream-bet/converter/internal/pkg/converter"
	"github.com/slipstream-bet/converter/internal/pkg/logging"
	"github.com/slipstream-bet/converter/internal/pkg/matching"
	"github.com/slipstream-bet/converter/internal/pkg/pool"
	"github.com/slipstream-bet/converter/internal/pkg/queue"
	"github.com/slipstream-bet/converter/internal/pkg/server"
	"github.com/slipstream-bet/converter/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Converter service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Parse()

	slog.Info("Loading config", "path", *configPath)
	cfg, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetupLogger(&cfg.Logging, "converter-service")
	slog.Info("Config loaded successfully")

	agentClient, err := agent.NewClient(agent.ClientConfig{
		BaseURL:        cfg.Agent.BaseURL,
		RunTimeout:     cfg.Agent.RunTimeout,
		SessionTimeout: cfg.Agent.SessionTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent client: %w", err)
	}

	sessionPool := pool.New(pool.Config{
		MaxInstances:    cfg.Pool.MaxInstances,
		MaxUsage:        cfg.Pool.MaxUsage,
		MaxMemoryMB:     uint64(cfg.Pool.MaxMemoryMB),
		CleanupInterval: cfg.Pool.CleanupInterval,
		IdleTTL:         cfg.Pool.IdleTTL,
	}, agentClient)

	taskQueue := queue.New(cfg.Queue.MaxSize)

	params := matching.DefaultParams()
	if cfg.Matching.OddsTolerance > 0 {
		params.OddsTolerance = cfg.Matching.OddsTolerance
	}
	if cfg.Matching.TeamThreshold > 0 {
		params.GameThreshold = cfg.Matching.TeamThreshold
	}
	if cfg.Matching.MarketThreshold > 0 {
		params.MarketThreshold = cfg.Matching.MarketThreshold
	}
	if cfg.Matching.GameWeight > 0 {
		params.GameWeight = cfg.Matching.GameWeight
	}
	if cfg.Matching.MarketWeight > 0 {
		params.MarketWeight = cfg.Matching.MarketWeight
	}
	if cfg.Matching.OddsWeight > 0 {
		params.OddsWeight = cfg.Matching.OddsWeight
	}

	for id, bk := range cfg.Bookmakers {
		if bk.MirrorURL == "" {
			continue
		}
		if err := bookmakers.SetMirrorURL(id, bk.MirrorURL); err != nil {
			return fmt.Errorf("bookmaker override %q: %w", id, err)
		}
	}

	var opts converter.Options

	if cfg.Redis.Enabled {
		cache, err := storage.NewResultCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ResultTTL)
		if err != nil {
			return fmt.Errorf("failed to connect result cache: %w", err)
		}
		defer cache.Close()
		opts.Store = cache
		slog.Info("Redis result cache enabled", "addr", cfg.Redis.Addr)
	}

	if cfg.Postgres.Enabled {
		history, err := storage.NewPostgresHistory(cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect conversion history: %w", err)
		}
		defer history.Close()
		opts.History = history
	}

	if cfg.Telegram.Enabled {
		notifier, err := converter.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("Telegram notifier disabled", "error", err)
		} else {
			opts.Notifier = notifier
			slog.Info("Telegram notifications enabled", "chat_id", cfg.Telegram.ChatID)
		}
	}

	orch := converter.New(converter.Config{Workers: cfg.Queue.Workers}, sessionPool, taskQueue, params, opts)
	orch.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := server.New(orch)
	if err := server.Run(ctx, addr, srv.Router(), cfg.HTTP.ReadHeaderTimeout); err != nil {
		orch.Shutdown(30 * time.Second)
		return fmt.Errorf("http server failed: %w", err)
	}

	slog.Info("Shutting down converter service...")
	orch.Shutdown(30 * time.Second)
	slog.Info("Converter service stopped")
	return nil
}
