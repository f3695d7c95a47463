package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/openbooks-hq/openbooks/internal/ap"
	"github.com/openbooks-hq/openbooks/internal/app"
	"github.com/openbooks-hq/openbooks/internal/ar"
	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
	"github.com/openbooks-hq/openbooks/internal/ledger/companies"
	"github.com/openbooks-hq/openbooks/internal/ledger/journals"
	"github.com/openbooks-hq/openbooks/internal/ledger/reports"
	"github.com/openbooks-hq/openbooks/internal/observability"
	"github.com/openbooks-hq/openbooks/internal/platform/db"
	"github.com/openbooks-hq/openbooks/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	companyRepo := companies.NewRepository(pool)

	accountRepo := accounts.NewRepository(pool)
	accountService := accounts.NewService(accountRepo)
	accountHandler := accounts.NewHandler(logger, accountService)

	journalRepo := journals.NewRepository(pool)
	journalService := journals.NewService(journalRepo, companyRepo, logger)
	journalHandler := journals.NewHandler(logger, journalService)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo, accountRepo, companyRepo, logger)
	reportHandler := reports.NewHandler(logger, reportService)

	arRepo := ar.NewRepository(pool)
	arService := ar.NewService(arRepo, logger)
	arHandler := ar.NewHandler(logger, arService)

	apRepo := ap.NewRepository(pool)
	apService := ap.NewService(apRepo, logger)
	apHandler := ap.NewHandler(logger, apService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accountHandler,
		JournalsHandler: journalHandler,
		ReportsHandler:  reportHandler,
		ARHandler:       arHandler,
		APHandler:       apHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
