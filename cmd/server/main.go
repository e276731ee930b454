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

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	rediscache "github.com/splitledger/backend/internal/adapter/cache/redis"
	httpadapter "github.com/splitledger/backend/internal/adapter/http"
	"github.com/splitledger/backend/internal/adapter/repository/postgres"
	"github.com/splitledger/backend/internal/config"
	"github.com/splitledger/backend/internal/usecase/balance"
	"github.com/splitledger/backend/internal/usecase/seeder"
	"github.com/splitledger/backend/internal/usecase/transaction"
	"github.com/splitledger/backend/internal/usecase/user"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// 2. Setup Database
	db, err := postgres.NewDB(cfg.DB.ConnString())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// 3. Setup Redis
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// 4. Initialize Repositories and Cache
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	balanceCache := rediscache.NewBalanceCache(redisClient, cfg.BalanceCacheTTL)

	// 5. Initialize Services (Use Cases)
	userService := user.NewService(userRepo)
	balanceService := balance.NewService(userRepo, transactionRepo, balanceCache, logger)
	transactionService := transaction.NewService(transactionRepo, userService, balanceService, balanceCache, logger)

	if cfg.SeedDemoUsers {
		if err := seeder.NewUserSeeder(userRepo).Seed(ctx); err != nil {
			logger.Fatal("failed to seed demo users", zap.Error(err))
		}
		logger.Info("demo users seeded")
	}

	// 6. Start HTTP server
	readiness := func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	}

	apiServer := httpadapter.NewServer(transactionService, balanceService, logger, readiness)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: apiServer.Router(cfg.APIToken),
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, logger)
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "local" || environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *http.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("http server stopped")
}
