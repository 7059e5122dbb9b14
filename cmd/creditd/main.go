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

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/application/usecase"
	"github.com/AnchalSR/credit-system.backend/internal/domain/service"
	"github.com/AnchalSR/credit-system.backend/internal/infrastructure/config"
	infrakafka "github.com/AnchalSR/credit-system.backend/internal/infrastructure/kafka"
	pgRepo "github.com/AnchalSR/credit-system.backend/internal/infrastructure/postgres"
	"github.com/AnchalSR/credit-system.backend/internal/infrastructure/redislock"
	grpcPresentation "github.com/AnchalSR/credit-system.backend/internal/presentation/grpc"
	"github.com/AnchalSR/credit-system.backend/internal/presentation/rest"
	"github.com/AnchalSR/credit-system.backend/pkg/auth"
	pkgkafka "github.com/AnchalSR/credit-system.backend/pkg/kafka"
	"github.com/AnchalSR/credit-system.backend/pkg/observability"
	pkgpostgres "github.com/AnchalSR/credit-system.backend/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Service: cfg.ServiceName,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting credit-system",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Metrics exporter.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	decisionMetrics := observability.NewDecisionMetrics()

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsDir); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	customerRepo := pgRepo.NewCustomerRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	uow := pgRepo.NewUnitOfWork(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := infrakafka.NewEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	locker := redislock.NewLocker(redisClient)

	// Domain services.
	limitPolicy := service.NewApprovedLimitPolicy()
	scorer := service.NewCreditScorerWithWeights(service.ScoreWeights{
		PaymentHistory:  decimal.NewFromFloat(cfg.Scoring.PaymentHistoryWeight),
		LoanCount:       decimal.NewFromFloat(cfg.Scoring.LoanCountWeight),
		CurrentActivity: decimal.NewFromFloat(cfg.Scoring.CurrentActivityWeight),
		Volume:          decimal.NewFromFloat(cfg.Scoring.VolumeWeight),
	})
	engine := service.NewEligibilityEngine(scorer)

	// Wire use cases.
	registerUC := usecase.NewRegisterCustomerUseCase(customerRepo, publisher, limitPolicy)
	eligibilityUC := usecase.NewCheckEligibilityUseCase(customerRepo, loanRepo, engine, decisionMetrics)
	createLoanUC := usecase.NewCreateLoanUseCase(customerRepo, loanRepo, uow, publisher, locker, engine, decisionMetrics)
	getLoanUC := usecase.NewGetLoanUseCase(customerRepo, loanRepo)
	listLoansUC := usecase.NewListCustomerLoansUseCase(customerRepo, loanRepo)

	// JWT service.
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		Expiration: cfg.Auth.JWTExpiration,
	})
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewCreditServiceHandler(
		registerUC, eligibilityUC, createLoanUC, getLoanUC, listLoansUC, logger,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-system stopped")
}
