package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SeedCustomerRow is one customer record from a seed workbook.
type SeedCustomerRow struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	CurrentDebt   decimal.Decimal
}

// SeedLoanRow is one loan record from a seed workbook.
type SeedLoanRow struct {
	CustomerID     int64
	LoanID         int64
	Principal      decimal.Decimal
	TenureMonths   int
	InterestRate   decimal.Decimal
	EMIsPaidOnTime int
	StartDate      time.Time
	EndDate        time.Time
}

// SeedSource reads the historical customer and loan books used to
// bootstrap the system.
type SeedSource interface {
	Customers(ctx context.Context) ([]SeedCustomerRow, error)
	Loans(ctx context.Context) ([]SeedLoanRow, error)
}
