package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NourWarrag/topup-service/internal/api"
	"github.com/NourWarrag/topup-service/internal/config"
	"github.com/NourWarrag/topup-service/internal/db"
	"github.com/NourWarrag/topup-service/internal/gateway"
	"github.com/NourWarrag/topup-service/internal/logger"
	"github.com/NourWarrag/topup-service/internal/metrics"
	"github.com/NourWarrag/topup-service/internal/repository/postgres"
	"github.com/NourWarrag/topup-service/internal/services"
	"github.com/NourWarrag/topup-service/internal/worker"
	"github.com/shopspring/decimal"
)

func main() {
	// Amounts go over the wire as JSON numbers, matching the balance service
	// contract.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	balance := gateway.NewClient(cfg.BalanceServiceURL, cfg.GatewayMaxAttempts, cfg.GatewayRetryBackoff)

	topUpSvc := services.NewTopUpService(
		repos.Users,
		repos.Beneficiaries,
		repos.Transactions,
		repos.TopUpOptions,
		repos.AuditLogs,
		balance,
		cfg.Policy,
		wp,
	)
	benSvc := services.NewBeneficiaryService(repos.Beneficiaries, repos.AuditLogs, cfg.Policy.MaxBeneficiariesPerUser, wp)

	r := api.NewRouter(cfg, topUpSvc, benSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "balance_service", cfg.BalanceServiceURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
