package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/huayhub/huay-engine-backend/api/routes"
	"github.com/huayhub/huay-engine-backend/internal/config"
	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/handlers"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	memoryrepo "github.com/huayhub/huay-engine-backend/internal/repositories/memory"
	mongorepo "github.com/huayhub/huay-engine-backend/internal/repositories/mongodb"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"github.com/huayhub/huay-engine-backend/pkg/mongodb"
	"github.com/huayhub/huay-engine-backend/pkg/refundgateway"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	var (
		lotteryRepo repositories.LotteryRepository
		drawRepo    repositories.DrawRepository
		configRepo  repositories.PayoutConfigRepository
		tierRepo    repositories.PayoutTierRepository
		limitRepo   repositories.NumberLimitRepository
		quotaRepo   repositories.QuotaRepository
	)

	if cfg.MongoDB.InMemory {
		slog.Warn("Running with in-memory repositories, nothing will be persisted")
		lotteryRepo = memoryrepo.NewLotteryRepository()
		drawRepo = memoryrepo.NewDrawRepository()
		configRepo = memoryrepo.NewPayoutConfigRepository()
		tierRepo = memoryrepo.NewPayoutTierRepository()
		limitRepo = memoryrepo.NewNumberLimitRepository()
		quotaRepo = memoryrepo.NewQuotaRepository()
	} else {
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
		db := mongoClient.Database(cfg.MongoDB.Database)

		lotteryRepo = mongorepo.NewLotteryRepository(db)
		drawRepo = mongorepo.NewDrawRepository(db)
		configRepo = mongorepo.NewPayoutConfigRepository(db)
		tierRepo = mongorepo.NewPayoutTierRepository(db)
		limitRepo = mongorepo.NewNumberLimitRepository(db)
		quotaRepo = mongorepo.NewQuotaRepository(db)
	}

	refunds := refundgateway.NewClient(cfg.Refund.BaseURL, cfg.Refund.APIKey, cfg.Refund.Mock)
	locks := engine.NewKeyedLock(time.Duration(cfg.Ledger.LockWaitMS) * time.Millisecond)

	lotteryService := services.NewLotteryService(lotteryRepo)
	drawService := services.NewDrawService(drawRepo, lotteryRepo, quotaRepo, refunds)
	payoutService := services.NewPayoutService(lotteryRepo, configRepo, tierRepo, limitRepo)
	betService := services.NewBetService(drawRepo, lotteryRepo, configRepo, tierRepo, limitRepo, quotaRepo, locks)

	handlerDeps := routes.HandlerDependencies{
		LotteryHandler: handlers.NewLotteryHandler(lotteryService),
		DrawHandler:    handlers.NewDrawHandler(drawService),
		PayoutHandler:  handlers.NewPayoutHandler(payoutService),
		BetHandler:     handlers.NewBetHandler(betService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("Server exiting")
}

// setupLogger installs the process-wide structured logger.
func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
