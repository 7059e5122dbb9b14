package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	"github.com/AnchalSR/credit-system.backend/internal/domain/valueobject"
)

// IngestDataUseCase loads historical customer and loan books into the store.
// Rows keep their workbook-assigned identifiers; re-running the ingestion is
// idempotent through upserts. Malformed rows are skipped and counted, never
// fatal.
type IngestDataUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	source       port.SeedSource
}

// NewIngestDataUseCase wires dependencies.
func NewIngestDataUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	source port.SeedSource,
) *IngestDataUseCase {
	return &IngestDataUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		source:       source,
	}
}

// Execute ingests customers first, then loans, so loan rows always reference
// an existing customer.
func (uc *IngestDataUseCase) Execute(ctx context.Context) (dto.IngestSummary, error) {
	now := time.Now().UTC()
	var summary dto.IngestSummary

	// 1. Customer book.
	customerRows, err := uc.source.Customers(ctx)
	if err != nil {
		return summary, fmt.Errorf("read customer book: %w", err)
	}
	for _, row := range customerRows {
		if row.CustomerID <= 0 || row.FirstName == "" {
			summary.RowsSkipped++
			continue
		}
		customer := model.ReconstructCustomer(
			row.CustomerID,
			row.FirstName, row.LastName, row.Age, row.PhoneNumber,
			row.MonthlySalary, row.ApprovedLimit, row.CurrentDebt,
			now, now,
		)
		if err := uc.customerRepo.Upsert(ctx, customer); err != nil {
			return summary, fmt.Errorf("upsert customer %d: %w", row.CustomerID, err)
		}
		summary.CustomersLoaded++
	}

	// 2. Loan book.
	loanRows, err := uc.source.Loans(ctx)
	if err != nil {
		return summary, fmt.Errorf("read loan book: %w", err)
	}
	for _, row := range loanRows {
		if row.LoanID <= 0 || row.CustomerID <= 0 || row.TenureMonths <= 0 {
			summary.RowsSkipped++
			continue
		}
		status := valueobject.LoanStatusActive
		if !row.EndDate.IsZero() && row.EndDate.Before(now) {
			status = valueobject.LoanStatusClosed
		}
		loan := model.ReconstructLoan(
			row.LoanID, row.CustomerID,
			row.Principal, row.InterestRate,
			row.TenureMonths, row.EMIsPaidOnTime,
			row.StartDate, row.EndDate,
			status,
			now, now,
		)
		if err := uc.loanRepo.Upsert(ctx, loan); err != nil {
			return summary, fmt.Errorf("upsert loan %d: %w", row.LoanID, err)
		}
		summary.LoansLoaded++
	}

	slog.Info("seed ingestion finished",
		"customers", summary.CustomersLoaded,
		"loans", summary.LoansLoaded,
		"skipped", summary.RowsSkipped,
	)
	return summary, nil
}
