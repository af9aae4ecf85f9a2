package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/atelierhq/sewtrack-backend/api/routes"
	"github.com/atelierhq/sewtrack-backend/internal/auth"
	"github.com/atelierhq/sewtrack-backend/internal/codes"
	"github.com/atelierhq/sewtrack-backend/internal/orders"
	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/statements"
	"github.com/atelierhq/sewtrack-backend/internal/users"
	"github.com/atelierhq/sewtrack-backend/internal/workflow"
	"github.com/atelierhq/sewtrack-backend/internal/works"
	"github.com/atelierhq/sewtrack-backend/pkg/auth/session"
	"github.com/atelierhq/sewtrack-backend/pkg/config"
	"github.com/atelierhq/sewtrack-backend/pkg/db"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/metrics"
	"github.com/atelierhq/sewtrack-backend/pkg/migrate"
	"github.com/atelierhq/sewtrack-backend/pkg/redis"
	"github.com/atelierhq/sewtrack-backend/pkg/storage/disk"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	files, err := disk.New(cfg.Storage.Dir)
	if err != nil {
		logg.Error(context.Background(), "failed to open file storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	productRepo := products.NewRepository(dbClient.DB())
	workRepo := works.NewRepository(dbClient.DB())
	codeRepo := codes.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	statementRepo := statements.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())

	sheets, err := codes.NewStore(codeRepo, files, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create code store", err)
		os.Exit(1)
	}

	workflowService, err := workflow.NewService(productRepo, workRepo, codeRepo, sheets, files, dbClient, workflowMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow service", err)
		os.Exit(1)
	}

	statementsService, err := statements.NewService(statementRepo, productRepo, workRepo, files, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create statements service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orderRepo, productRepo, workRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo, dbClient, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			sessionManager,
			authService,
			usersService,
			ordersService,
			workflowService,
			statementsService,
			sheets,
			productRepo,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
