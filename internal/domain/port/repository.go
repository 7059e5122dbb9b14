package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/pkg/events"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
)

// CustomerRepository persists customer aggregates. Save assigns the sequence
// identifier and returns the stored aggregate; Upsert preserves the caller's
// identifier for bulk ingestion.
type CustomerRepository interface {
	Save(ctx context.Context, customer model.Customer) (model.Customer, error)
	Update(ctx context.Context, customer model.Customer) error
	Upsert(ctx context.Context, customer model.Customer) error
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (model.Customer, error)
}

// LoanRepository persists loan aggregates.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) (model.Loan, error)
	Update(ctx context.Context, loan model.Loan) error
	Upsert(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id int64) (model.Loan, error)
	FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error)
	FindActiveByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error)
	SumActiveInstallments(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

// UnitOfWork runs a function whose repository writes must land atomically.
// The repositories passed to fn are scoped to one store transaction; an
// error from fn rolls all of its writes back.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, customers CustomerRepository, loans LoanRepository) error) error
}

// EventPublisher pushes domain events to the message broker. Implementations
// must tolerate a nil or empty batch.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// CustomerLocker serializes loan creation per customer. Lock returns a
// release function; it fails when another creation holds the lock past the
// timeout.
type CustomerLocker interface {
	Lock(ctx context.Context, customerID int64, ttl time.Duration) (release func(context.Context) error, err error)
}
