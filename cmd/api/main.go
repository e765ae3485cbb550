package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/auth"
	"github.com/matka/platform/internal/guard"
	"github.com/matka/platform/internal/handler"
	adminhandler "github.com/matka/platform/internal/handler/admin"
	"github.com/matka/platform/internal/infra"
	"github.com/matka/platform/internal/ledger"
	"github.com/matka/platform/internal/policy"
	"github.com/matka/platform/internal/projection"
	"github.com/matka/platform/internal/repository"
	"github.com/matka/platform/internal/service"
	"github.com/matka/platform/internal/settlement"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	playerExpiry, err := time.ParseDuration(cfg.JWTPlayerExpiry)
	if err != nil {
		return fmt.Errorf("parse player JWT expiry: %w", err)
	}
	adminExpiry, err := time.ParseDuration(cfg.JWTAdminExpiry)
	if err != nil {
		return fmt.Errorf("parse admin JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, playerExpiry, adminExpiry)

	// Repositories
	profileRepo := repository.NewProfileRepository()
	walletRepo := repository.NewWalletRepository()
	authUserRepo := repository.NewAuthUserRepository()
	txRepo := repository.NewTransactionRepository()
	betRepo := repository.NewBetRepository()
	bookRepo := repository.NewBookRepository()
	gameTypeRepo := repository.NewGameTypeRepository()
	resultRepo := repository.NewResultRepository()
	utrRepo := repository.NewUTRRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Engines
	ledgerEngine := ledger.NewEngine(profileRepo, walletRepo, txRepo, outboxRepo)
	settlementEngine := settlement.NewEngine(pool, ledgerEngine, betRepo, bookRepo, gameTypeRepo, resultRepo, outboxRepo, logger)

	// Guards and caches
	betLimiter := guard.NewRateLimiter(10, time.Minute)
	store := projection.NewInMemoryStore()
	stakes := policy.StakePolicy{MinStake: cfg.MinStake, MaxStake: cfg.MaxStake}

	// Outbox relay
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	poller := infra.NewOutboxPoller(pool, producer, logger)
	go poller.Start(ctx)

	// Services
	authSvc := service.NewAuthService(pool, authUserRepo, profileRepo, walletRepo, outboxRepo, jwtMgr)
	walletSvc := service.NewWalletService(pool, ledgerEngine, walletRepo, profileRepo, txRepo, store, logger)
	betSvc := service.NewBetService(pool, ledgerEngine, betRepo, bookRepo, gameTypeRepo, betLimiter, stakes, logger)
	utrSvc := service.NewUTRService(pool, ledgerEngine, utrRepo, outboxRepo, store, logger)
	catalogSvc := service.NewCatalogService(pool, bookRepo, gameTypeRepo, resultRepo, store, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	betHandler := handler.NewBetHandler(betSvc)
	bookHandler := handler.NewBookHandler(catalogSvc)
	utrHandler := handler.NewUTRHandler(utrSvc)

	// Admin handlers
	resultAdmin := adminhandler.NewResultHandler(settlementEngine)
	settlementAdmin := adminhandler.NewSettlementHandler(settlementEngine)
	utrAdmin := adminhandler.NewUTRAdminHandler(utrSvc)
	bookAdmin := adminhandler.NewBookAdminHandler(catalogSvc)
	betAdmin := adminhandler.NewBetAdminHandler(betSvc, settlementEngine)
	reportAdmin := adminhandler.NewReportHandler(walletSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(cfg.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/admin/login", authHandler.LoginAdmin)
	})

	// Public catalogue
	r.Get("/books", bookHandler.List)
	r.Get("/books/{slug}/results", bookHandler.Results)
	r.Get("/game-types", bookHandler.GameTypes)

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePlayer(jwtMgr))

		r.Post("/rpc/wallet_overview", walletHandler.Overview)
		r.Post("/rpc/withdraw", walletHandler.Withdraw)

		r.Post("/bets", betHandler.Place)
		r.Get("/bets", betHandler.List)

		r.Post("/utr", utrHandler.Submit)
		r.Get("/utr", utrHandler.List)
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Get("/bets", betAdmin.List)
		r.Get("/utr/pending", utrAdmin.ListPending)
		r.Get("/reports/transactions", reportAdmin.Transactions)

		// Mutating operations require a write-capable role
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.WriteRoles()...))

			r.Post("/rpc/declare_result_and_compute_winners", resultAdmin.DeclareAndCompute)
			r.Post("/rpc/settle_bets", settlementAdmin.SettleBets)
			r.Post("/rpc/mark_bets_lose", betAdmin.MarkLose)
			r.Post("/rpc/approve_utr", utrAdmin.Approve)
			r.Post("/rpc/reject_utr", utrAdmin.Reject)
			r.Post("/rpc/complete_withdrawal", reportAdmin.CompleteWithdrawal)

			r.Post("/books", bookAdmin.Create)
			r.Put("/books/{slug}", bookAdmin.Update)
		})
	})

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
