package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ravenholt/Emberfell_Go/internal/action"
	"github.com/ravenholt/Emberfell_Go/internal/actor"
	"github.com/ravenholt/Emberfell_Go/internal/battle"
	"github.com/ravenholt/Emberfell_Go/internal/concurrency"
	"github.com/ravenholt/Emberfell_Go/internal/config"
	"github.com/ravenholt/Emberfell_Go/internal/content"
	"github.com/ravenholt/Emberfell_Go/internal/database"
	"github.com/ravenholt/Emberfell_Go/internal/database/postgres"
	"github.com/ravenholt/Emberfell_Go/internal/handler"
	"github.com/ravenholt/Emberfell_Go/internal/inventory"
	"github.com/ravenholt/Emberfell_Go/internal/item"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/ratelimit"
	"github.com/ravenholt/Emberfell_Go/internal/server"
	"github.com/ravenholt/Emberfell_Go/internal/worker"
)

const (
	dbMaxConns    = 10
	dbMaxIdleTime = 5 * time.Minute
	dbMaxLifetime = 30 * time.Minute

	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "emberfell",
	})
	log := slog.Default()

	handler.InitValidator()

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:        dbMaxConns,
		MinConns:        database.DefaultMinConnections,
		MaxConnIdleTime: dbMaxIdleTime,
		MaxConnLifetime: dbMaxLifetime,
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	actorRepo := postgres.NewActorRepository(pool)
	progressionRepo := postgres.NewProgressionRepository(pool)
	actionRepo := postgres.NewActionRepository(pool)
	battleRepo := postgres.NewBattleRepository(pool)
	itemRepo := item.NewCachedRepository(postgres.NewItemRepository(pool),
		item.DefaultCacheSize, item.DefaultCacheTTL)

	// Sync authored item definitions into the database before serving
	loader := item.NewLoader()
	itemConfig, err := loader.Load(item.ConfigPath)
	if err != nil {
		log.Error("Failed to load item config", "error", err)
		os.Exit(1)
	}
	if err := loader.Validate(itemConfig); err != nil {
		log.Error("Invalid item config", "error", err)
		os.Exit(1)
	}
	if _, err := loader.SyncToDatabase(ctx, itemConfig, itemRepo); err != nil {
		log.Error("Failed to sync items", "error", err)
		os.Exit(1)
	}

	registry := content.NewRegistry()
	if err := registry.LoadActions(content.ActionsConfigPath); err != nil {
		log.Error("Failed to load actions config", "error", err)
		os.Exit(1)
	}
	if err := registry.LoadMonsters(content.MonstersConfigPath); err != nil {
		log.Error("Failed to load monsters config", "error", err)
		os.Exit(1)
	}

	lockMgr := concurrency.NewLockManager()
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimitCalls, cfg.RateLimitWindow)

	actorService := actor.NewService(actorRepo, progressionRepo, lockMgr)
	actionService := action.NewService(actionRepo, actorRepo, itemRepo, registry,
		inventory.NewLedger(), lockMgr, limiter,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	battleService := battle.NewService(battleRepo, actorRepo, registry, lockMgr, limiter,
		rand.New(rand.NewSource(time.Now().UnixNano())))

	sweeper := worker.NewBattleSweeper(battleRepo, cfg.BattleSweepInterval, cfg.BattleSessionTTL)
	sweeper.Start(ctx)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, pool,
		actorService, actionService, battleService, registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	if err := sweeper.Shutdown(shutdownCtx); err != nil {
		log.Error("Sweeper shutdown failed", "error", err)
	}

	log.Info("Shutdown complete")
}
