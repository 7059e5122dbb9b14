package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	"github.com/AnchalSR/credit-system.backend/pkg/events"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	saveFunc        func(ctx context.Context, customer model.Customer) (model.Customer, error)
	updateFunc      func(ctx context.Context, customer model.Customer) error
	findByIDFunc    func(ctx context.Context, id int64) (model.Customer, error)
	findByPhoneFunc func(ctx context.Context, phone string) (model.Customer, error)
	saved           []model.Customer
	updated         []model.Customer
	upserted        []model.Customer
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer model.Customer) (model.Customer, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, customer)
	}
	customer = customer.WithID(int64(len(m.saved) + 1))
	m.saved = append(m.saved, customer)
	return customer, nil
}

func (m *mockCustomerRepository) Update(ctx context.Context, customer model.Customer) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, customer)
	}
	m.updated = append(m.updated, customer)
	return nil
}

func (m *mockCustomerRepository) Upsert(_ context.Context, customer model.Customer) error {
	m.upserted = append(m.upserted, customer)
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Customer{}, port.ErrCustomerNotFound
}

func (m *mockCustomerRepository) FindByPhone(ctx context.Context, phone string) (model.Customer, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return model.Customer{}, port.ErrCustomerNotFound
}

// mockUnitOfWork hands the callback the same repositories the use case
// already holds; rollback behavior is covered at the store level.
type mockUnitOfWork struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
	calls     int
}

func (m *mockUnitOfWork) Within(
	ctx context.Context,
	fn func(ctx context.Context, customers port.CustomerRepository, loans port.LoanRepository) error,
) error {
	m.calls++
	return fn(ctx, m.customers, m.loans)
}

type mockLoanRepository struct {
	saveFunc             func(ctx context.Context, loan model.Loan) (model.Loan, error)
	findByIDFunc         func(ctx context.Context, id int64) (model.Loan, error)
	findByCustomerFunc   func(ctx context.Context, customerID int64) ([]model.Loan, error)
	findActiveFunc       func(ctx context.Context, customerID int64) ([]model.Loan, error)
	saved                []model.Loan
	upserted             []model.Loan
	activeInstallmentSum decimal.Decimal
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) (model.Loan, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	loan = loan.WithID(int64(len(m.saved) + 1))
	m.saved = append(m.saved, loan)
	return loan, nil
}

func (m *mockLoanRepository) Update(_ context.Context, _ model.Loan) error {
	return nil
}

func (m *mockLoanRepository) Upsert(_ context.Context, loan model.Loan) error {
	m.upserted = append(m.upserted, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id int64) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, port.ErrLoanNotFound
}

func (m *mockLoanRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	if m.findByCustomerFunc != nil {
		return m.findByCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockLoanRepository) FindActiveByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockLoanRepository) SumActiveInstallments(_ context.Context, _ int64) (decimal.Decimal, error) {
	return m.activeInstallmentSum, nil
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
	published   []events.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockCustomerLocker struct {
	lockFunc func(ctx context.Context, customerID int64, ttl time.Duration) (func(context.Context) error, error)
	locked   []int64
	released int
}

func (m *mockCustomerLocker) Lock(ctx context.Context, customerID int64, ttl time.Duration) (func(context.Context) error, error) {
	if m.lockFunc != nil {
		return m.lockFunc(ctx, customerID, ttl)
	}
	m.locked = append(m.locked, customerID)
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

type mockSeedSource struct {
	customers []port.SeedCustomerRow
	loans     []port.SeedLoanRow
	loansErr  error
}

func (m *mockSeedSource) Customers(_ context.Context) ([]port.SeedCustomerRow, error) {
	return m.customers, nil
}

func (m *mockSeedSource) Loans(_ context.Context) ([]port.SeedLoanRow, error) {
	if m.loansErr != nil {
		return nil, m.loansErr
	}
	return m.loans, nil
}

// --- Fixtures ---

func testCustomer(id int64, salary int64) model.Customer {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	monthly := decimal.NewFromInt(salary)
	limit := monthly.Mul(decimal.NewFromInt(36))
	return model.ReconstructCustomer(
		id, "Asha", "Verma", 32, "9876543210",
		monthly, limit, decimal.Zero, now, now,
	)
}

func testLoan(id, customerID int64, principal int64, rate float64, tenure, paidOnTime int, start time.Time) model.Loan {
	loan, err := model.NewLoan(customerID, decimal.NewFromInt(principal), decimal.NewFromFloat(rate), tenure, start)
	if err != nil {
		panic(fmt.Sprintf("test loan: %v", err))
	}
	loan = loan.WithID(id)
	for i := 0; i < paidOnTime; i++ {
		loan, err = loan.RecordOnTimePayment(start.AddDate(0, i+1, 0))
		if err != nil {
			panic(fmt.Sprintf("test payment: %v", err))
		}
	}
	return loan.ClearEvents()
}
