package event

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// CustomerRegistered is raised when a new customer is registered with a
// freshly derived approved limit.
type CustomerRegistered struct {
	events.BaseEvent
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

func NewCustomerRegistered(customerID int64, monthlySalary, approvedLimit decimal.Decimal) CustomerRegistered {
	return CustomerRegistered{
		BaseEvent:     events.NewBaseEvent("credit.customer.registered", formatID(customerID), "Customer"),
		MonthlySalary: monthlySalary,
		ApprovedLimit: approvedLimit,
	}
}

// LoanCreated is raised when an approved loan is persisted.
type LoanCreated struct {
	events.BaseEvent
	CustomerID         int64           `json:"customer_id"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TenureMonths       int             `json:"tenure_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	EndDate            time.Time       `json:"end_date"`
}

func NewLoanCreated(
	loanID, customerID int64,
	principal, interestRate decimal.Decimal,
	tenureMonths int,
	monthlyInstallment decimal.Decimal,
	endDate time.Time,
) LoanCreated {
	return LoanCreated{
		BaseEvent:          events.NewBaseEvent("credit.loan.created", formatID(loanID), "Loan"),
		CustomerID:         customerID,
		Principal:          principal,
		InterestRate:       interestRate,
		TenureMonths:       tenureMonths,
		MonthlyInstallment: monthlyInstallment,
		EndDate:            endDate,
	}
}

// LoanRejected is raised when a loan request fails the eligibility check.
// No loan record exists, so the aggregate is the requesting customer.
type LoanRejected struct {
	events.BaseEvent
	Principal decimal.Decimal `json:"principal"`
	Outcome   string          `json:"outcome"`
	Reason    string          `json:"reason"`
	Score     int             `json:"score"`
}

func NewLoanRejected(customerID int64, principal decimal.Decimal, outcome, reason string, score int) LoanRejected {
	return LoanRejected{
		BaseEvent: events.NewBaseEvent("credit.loan.rejected", formatID(customerID), "Customer"),
		Principal: principal,
		Outcome:   outcome,
		Reason:    reason,
		Score:     score,
	}
}

// LoanClosed is raised when a loan leaves the customer's active exposure.
type LoanClosed struct {
	events.BaseEvent
	CustomerID int64           `json:"customer_id"`
	Principal  decimal.Decimal `json:"principal"`
}

func NewLoanClosed(loanID, customerID int64, principal decimal.Decimal) LoanClosed {
	return LoanClosed{
		BaseEvent:  events.NewBaseEvent("credit.loan.closed", formatID(loanID), "Loan"),
		CustomerID: customerID,
		Principal:  principal,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
