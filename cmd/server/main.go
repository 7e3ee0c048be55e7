// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cashback-backend/internal/adapters/hashing"
	"cashback-backend/internal/adapters/httpapi"
	"cashback-backend/internal/adapters/postgres"
	"cashback-backend/internal/cashback"
	"cashback-backend/internal/common/config"
	"cashback-backend/internal/common/database"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/services/auth"
	"cashback-backend/internal/services/dealer"
	"cashback-backend/internal/services/purchase"
	"cashback-backend/migrations"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting cashback server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Reopen the logger with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Apply migrations ---
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		zapLog.Fatal("goose dialect failed", zap.Error(err))
	}
	if err := goose.Up(pg.DB, "."); err != nil {
		zapLog.Fatal("migrations failed", zap.Error(err))
	}
	zapLog.Info("Migrations applied successfully")

	// --- Init Redis with retry (optional credit-lookup cache) ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis not configured, credit lookups are uncached")
	}

	// --- Wire repositories, collaborators and services ---
	dealerRepo := postgres.NewDealerRepository(pg.DB)
	purchaseRepo := postgres.NewPurchaseRepository(pg.DB)

	hasher := hashing.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer := auth.NewJWTIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiryDuration())

	dealerSvc := dealer.NewService(dealerRepo, hasher, log)
	authSvc := auth.NewService(dealerRepo, hasher, issuer, log)
	purchaseSvc := purchase.NewService(
		purchaseRepo,
		dealerRepo,
		cashback.TiersFromConfig(cfg.Cashback.Tiers),
		cfg.Cashback.AllowList(),
		log,
	)

	var creditCache *redis.Client
	if redisClient != nil {
		creditCache = redisClient.Client
	}
	creditSvc := cashback.NewCreditClient(cfg.Cashback.CreditAPI, creditCache, log)

	api := httpapi.NewServer(dealerSvc, authSvc, purchaseSvc, creditSvc, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		errCh <- srv.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	case err := <-errCh:
		zapLog.Fatal("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Cashback server stopped gracefully")
}
