package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/cart"
	"github.com/karelbyte/redfox-pos/internal/checkout"
	"github.com/karelbyte/redfox-pos/internal/config"
	"github.com/karelbyte/redfox-pos/internal/database"
	"github.com/karelbyte/redfox-pos/internal/ledger"
	"github.com/karelbyte/redfox-pos/internal/models"
	"github.com/karelbyte/redfox-pos/internal/receipt"
	"github.com/karelbyte/redfox-pos/internal/repositories"
	"github.com/karelbyte/redfox-pos/internal/sales"
	"github.com/karelbyte/redfox-pos/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// --- Cart snapshot storage ---
	var adapter storage.Adapter
	switch cfg.SnapshotBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		adapter = storage.NewRedis(client, cfg.RegisterID)
	case "memory":
		adapter = storage.NewMemory()
	default:
		adapter = storage.NewFile(cfg.SnapshotPath)
	}

	// --- Ledger store ---
	var ledgerStore ledger.Store
	if cfg.LedgerBackend == "postgres" {
		pool, err := database.NewPostgresPool(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatal("postgres connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := repositories.RunMigrations(cfg.PostgresURL, cfg.MigrationsDir); err != nil {
			logger.Fatal("ledger migrations failed", zap.Error(err))
		}
		ledgerStore = repositories.NewLedgerRepository(pool, logger)
	} else {
		ledgerStore = ledger.NewMemoryStore()
	}

	// --- Core ---
	cartStore := cart.NewStore(ctx, adapter, logger)
	drawer := ledger.NewCashLedger(cfg.RegisterID, ledgerStore, logger)
	salesClient := sales.NewClient(cfg.SalesAPIURL, logger)
	formatter := receipt.NewFormatter(cfg.LogoURL)
	coordinator := checkout.NewCoordinator(cartStore, salesClient, drawer, formatter,
		cfg.BusinessLines, cfg.FooterLines, logger)

	// every committed cart mutation lands in the terminal audit log
	cartStore.Subscribe(func(snap models.CartSnapshot) {
		logger.Debug("cart updated",
			zap.Int("lines", len(snap.Lines)),
			zap.String("client", snap.SelectedClientRef))
	})

	r := SetupRoutes(logger, cartStore, drawer, coordinator, cfg)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("POS terminal API listening",
			zap.String("port", cfg.Port),
			zap.String("register_id", cfg.RegisterID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-stopCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown did not finish cleanly", zap.Error(err))
	}
}
