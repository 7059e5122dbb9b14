package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/domain/event"
	"github.com/AnchalSR/credit-system.backend/internal/domain/valueobject"
)

// Loan is an immutable aggregate. Mutations return a new copy.
//
// The monthly installment is never stored independently of its inputs: both
// the constructor and rehydration derive it from principal, rate, and tenure
// through ComputeEMI.
type Loan struct {
	id                 int64
	customerID         int64
	principal          decimal.Decimal
	interestRate       decimal.Decimal
	tenureMonths       int
	monthlyInstallment decimal.Decimal
	emisPaidOnTime     int
	startDate          time.Time
	endDate            time.Time
	status             valueobject.LoanStatus
	createdAt          time.Time
	updatedAt          time.Time
	domainEvents       []event.DomainEvent
}

// NewLoan creates a loan in ACTIVE status. The installment is computed from
// the compound-interest formula and the end date from the tenure. The
// identifier is assigned on first save.
func NewLoan(
	customerID int64,
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	tenureMonths int,
	startDate time.Time,
) (Loan, error) {
	if customerID <= 0 {
		return Loan{}, errors.New("customer ID is required")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("principal must be positive")
	}
	if annualRatePercent.LessThan(decimal.Zero) {
		return Loan{}, errors.New("interest rate must not be negative")
	}
	if tenureMonths <= 0 {
		return Loan{}, errors.New("tenure months must be positive")
	}

	return Loan{
		customerID:         customerID,
		principal:          principal,
		interestRate:       annualRatePercent,
		tenureMonths:       tenureMonths,
		monthlyInstallment: ComputeEMI(principal, annualRatePercent, tenureMonths),
		emisPaidOnTime:     0,
		startDate:          startDate,
		endDate:            startDate.AddDate(0, tenureMonths, 0),
		status:             valueobject.LoanStatusActive,
		createdAt:          startDate,
		updatedAt:          startDate,
	}, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence. The installment
// is re-derived rather than trusted from the row.
func ReconstructLoan(
	id, customerID int64,
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	tenureMonths, emisPaidOnTime int,
	startDate, endDate time.Time,
	status valueobject.LoanStatus,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                 id,
		customerID:         customerID,
		principal:          principal,
		interestRate:       annualRatePercent,
		tenureMonths:       tenureMonths,
		monthlyInstallment: ComputeEMI(principal, annualRatePercent, tenureMonths),
		emisPaidOnTime:     emisPaidOnTime,
		startDate:          startDate,
		endDate:            endDate,
		status:             status,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// WithID returns a copy carrying the identifier assigned by the store.
func (l Loan) WithID(id int64) Loan {
	next := l
	next.id = id
	return next
}

// RecordOnTimePayment counts one installment paid on schedule. Paying the
// final installment closes the loan.
func (l Loan) RecordOnTimePayment(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	if l.emisPaidOnTime >= l.tenureMonths {
		return l, errors.New("all installments already paid")
	}

	next := l
	next.emisPaidOnTime = l.emisPaidOnTime + 1
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	if next.emisPaidOnTime >= next.tenureMonths {
		next.status = valueobject.LoanStatusClosed
		next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, l.customerID, l.principal))
	}

	return next, nil
}

// Close transitions ACTIVE -> CLOSED, e.g. on early settlement.
func (l Loan) Close(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusClosed
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, l.customerID, l.principal))
	return next, nil
}

// RepaymentsLeft returns the number of installments still due, never negative.
func (l Loan) RepaymentsLeft() int {
	left := l.tenureMonths - l.emisPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

// IsActive reports whether the loan still counts toward current exposure.
func (l Loan) IsActive() bool {
	return l.status.Equal(valueobject.LoanStatusActive)
}

func (l Loan) ID() int64                           { return l.id }
func (l Loan) CustomerID() int64                   { return l.customerID }
func (l Loan) Principal() decimal.Decimal          { return l.principal }
func (l Loan) InterestRate() decimal.Decimal       { return l.interestRate }
func (l Loan) TenureMonths() int                   { return l.tenureMonths }
func (l Loan) MonthlyInstallment() decimal.Decimal { return l.monthlyInstallment }
func (l Loan) EMIsPaidOnTime() int                 { return l.emisPaidOnTime }
func (l Loan) StartDate() time.Time                { return l.startDate }
func (l Loan) EndDate() time.Time                  { return l.endDate }
func (l Loan) Status() valueobject.LoanStatus      { return l.status }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent   { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(in []event.DomainEvent) []event.DomainEvent {
	if in == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(in))
	copy(out, in)
	return out
}
