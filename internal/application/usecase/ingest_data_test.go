package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnchalSR/credit-system.backend/internal/application/usecase"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
)

func TestIngestData_Execute(t *testing.T) {
	t.Run("loads customers and loans, keeping workbook identifiers", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{}
		loanRepo := &mockLoanRepository{}
		source := &mockSeedSource{
			customers: []port.SeedCustomerRow{
				{
					CustomerID:    301,
					FirstName:     "Asha",
					LastName:      "Verma",
					Age:           32,
					PhoneNumber:   "9876543210",
					MonthlySalary: decimal.NewFromInt(50_000),
					ApprovedLimit: decimal.NewFromInt(1_800_000),
				},
			},
			loans: []port.SeedLoanRow{
				{
					CustomerID:     301,
					LoanID:         9001,
					Principal:      decimal.NewFromInt(400_000),
					TenureMonths:   36,
					InterestRate:   decimal.NewFromInt(13),
					EMIsPaidOnTime: 12,
					StartDate:      time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC),
					EndDate:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		}
		uc := usecase.NewIngestDataUseCase(customerRepo, loanRepo, source)

		summary, err := uc.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, summary.CustomersLoaded)
		assert.Equal(t, 1, summary.LoansLoaded)
		assert.Equal(t, 0, summary.RowsSkipped)

		require.Len(t, customerRepo.upserted, 1)
		assert.Equal(t, int64(301), customerRepo.upserted[0].ID())

		require.Len(t, loanRepo.upserted, 1)
		loan := loanRepo.upserted[0]
		assert.Equal(t, int64(9001), loan.ID())
		assert.Equal(t, "CLOSED", loan.Status().String())
		// The installment is derived from the terms, not read from the row.
		assert.False(t, loan.MonthlyInstallment().IsZero())
	})

	t.Run("skips malformed rows without failing the run", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{}
		loanRepo := &mockLoanRepository{}
		source := &mockSeedSource{
			customers: []port.SeedCustomerRow{
				{CustomerID: 0, FirstName: "NoID"},
				{
					CustomerID:    302,
					FirstName:     "Ravi",
					LastName:      "Iyer",
					Age:           41,
					PhoneNumber:   "9123456780",
					MonthlySalary: decimal.NewFromInt(70_000),
					ApprovedLimit: decimal.NewFromInt(2_500_000),
				},
			},
			loans: []port.SeedLoanRow{
				{CustomerID: 302, LoanID: 9002, TenureMonths: 0},
			},
		}
		uc := usecase.NewIngestDataUseCase(customerRepo, loanRepo, source)

		summary, err := uc.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, summary.CustomersLoaded)
		assert.Equal(t, 0, summary.LoansLoaded)
		assert.Equal(t, 2, summary.RowsSkipped)
	})

	t.Run("fails when the loan book cannot be read", func(t *testing.T) {
		source := &mockSeedSource{loansErr: fmt.Errorf("sheet missing")}
		uc := usecase.NewIngestDataUseCase(&mockCustomerRepository{}, &mockLoanRepository{}, source)

		_, err := uc.Execute(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read loan book")
	})
}
