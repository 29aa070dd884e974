package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plakshaa/xrplwallet/config"
	httpHandler "github.com/plakshaa/xrplwallet/internal/adapter/http/handler"
	"github.com/plakshaa/xrplwallet/internal/adapter/ledger"
	"github.com/plakshaa/xrplwallet/internal/adapter/ledger/solana"
	"github.com/plakshaa/xrplwallet/internal/adapter/ledger/xrpl"
	"github.com/plakshaa/xrplwallet/internal/adapter/oracle"
	pgStorage "github.com/plakshaa/xrplwallet/internal/adapter/storage/postgres"
	redisStorage "github.com/plakshaa/xrplwallet/internal/adapter/storage/redis"
	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/internal/service"
	"github.com/plakshaa/xrplwallet/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Payment Orchestration Core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)

	// Initialize ledger adapters. BTC is registration-only and gets no
	// adapter: its wallets hold addresses, never signing keys.
	registry := ledger.NewRegistry()
	registry.Install(domain.AssetXRP, xrpl.New(cfg.XRPL, log))
	registry.Install(domain.AssetSOL, solana.New(cfg.Solana, log))

	// Initialize core services
	cipher, err := service.NewAESSecretCipher(cfg.Secrets.AESKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize secret cipher")
	}
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Initialize Redis stores. The lock TTL must outlive the slowest ledger
	// submission or a live payment could lose its wallet lock mid-flight.
	lockTTL := cfg.XRPL.SubmitTimeout
	if cfg.Solana.SubmitTimeout > lockTTL {
		lockTTL = cfg.Solana.SubmitTimeout
	}
	walletLock := redisStorage.NewWalletLock(rdb, lockTTL+30*time.Second, log)
	rateCache := redisStorage.NewRateCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize the rate oracle
	rateOracle := oracle.New(cfg.Oracle, rateCache, log)

	// Initialize business services
	custodySvc := service.NewCustodyService(walletRepo, registry, cipher, log)
	paymentSvc := service.NewPaymentService(
		paymentRepo,
		walletRepo,
		custodySvc,
		registry,
		rateOracle,
		walletLock,
		cfg.Oracle.QuoteCurrency,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		CustodySvc:     custodySvc,
		PaymentSvc:     paymentSvc,
		Oracle:         rateOracle,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		QuoteCurrency:  cfg.Oracle.QuoteCurrency,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
