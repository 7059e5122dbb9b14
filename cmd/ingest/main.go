package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/AnchalSR/credit-system.backend/internal/application/usecase"
	"github.com/AnchalSR/credit-system.backend/internal/infrastructure/config"
	"github.com/AnchalSR/credit-system.backend/internal/infrastructure/ingest"
	pgRepo "github.com/AnchalSR/credit-system.backend/internal/infrastructure/postgres"
	"github.com/AnchalSR/credit-system.backend/pkg/observability"
	pkgpostgres "github.com/AnchalSR/credit-system.backend/pkg/postgres"
)

// ingest loads the historical customer and loan workbooks into PostgreSQL.
// It is safe to re-run: rows are upserted by their workbook identifiers.
func main() {
	cfg := config.Load()

	customerBook := flag.String("customers", cfg.Ingest.CustomerBook, "path to the customer workbook")
	loanBook := flag.String("loans", cfg.Ingest.LoanBook, "path to the loan workbook")
	flag.Parse()

	logger := observability.InitLogger(observability.LogConfig{
		Service: "credit-ingest",
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(ctx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsDir); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	customerRepo := pgRepo.NewCustomerRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	source := ingest.NewWorkbookSource(*customerBook, *loanBook)

	uc := usecase.NewIngestDataUseCase(customerRepo, loanRepo, source)
	summary, err := uc.Execute(ctx)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	// Ingested rows carry explicit identifiers; bring the sequences past them
	// so subsequent registrations do not collide.
	if err := customerRepo.SyncIDSequence(ctx); err != nil {
		logger.Error("failed to sync customer sequence", "error", err)
		os.Exit(1)
	}
	if err := loanRepo.SyncIDSequence(ctx); err != nil {
		logger.Error("failed to sync loan sequence", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete",
		"customers", summary.CustomersLoaded,
		"loans", summary.LoansLoaded,
		"skipped", summary.RowsSkipped,
	)
}
