package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	pgdb "github.com/AnchalSR/credit-system.backend/pkg/postgres"
)

// CustomerRepo implements port.CustomerRepository. It runs against either
// the pool or a transaction through the Querier abstraction.
type CustomerRepo struct {
	db pgdb.Querier
}

// NewCustomerRepo creates a new repository backed by PostgreSQL.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{db: pool}
}

// Save inserts a new customer and returns the aggregate carrying the
// sequence-assigned identifier.
func (r *CustomerRepo) Save(ctx context.Context, customer model.Customer) (model.Customer, error) {
	query := `
		INSERT INTO customers (
			first_name, last_name, age, phone_number,
			monthly_salary, approved_limit, current_debt,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		customer.FirstName(), customer.LastName(), customer.Age(), customer.PhoneNumber(),
		customer.MonthlySalary(), customer.ApprovedLimit(), customer.CurrentDebt(),
		customer.CreatedAt(), customer.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return model.Customer{}, fmt.Errorf("save customer: %w", err)
	}
	return customer.WithID(id), nil
}

// Update rewrites the mutable columns of an existing customer.
func (r *CustomerRepo) Update(ctx context.Context, customer model.Customer) error {
	query := `
		UPDATE customers SET
			first_name     = $2,
			last_name      = $3,
			age            = $4,
			phone_number   = $5,
			monthly_salary = $6,
			approved_limit = $7,
			current_debt   = $8,
			updated_at     = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		customer.ID(),
		customer.FirstName(), customer.LastName(), customer.Age(), customer.PhoneNumber(),
		customer.MonthlySalary(), customer.ApprovedLimit(), customer.CurrentDebt(),
		customer.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrCustomerNotFound
	}
	return nil
}

// Upsert writes a customer keeping the caller-supplied identifier. Used by
// the seed ingestion, which must preserve workbook identifiers.
func (r *CustomerRepo) Upsert(ctx context.Context, customer model.Customer) error {
	query := `
		INSERT INTO customers (
			id, first_name, last_name, age, phone_number,
			monthly_salary, approved_limit, current_debt,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			first_name     = EXCLUDED.first_name,
			last_name      = EXCLUDED.last_name,
			age            = EXCLUDED.age,
			phone_number   = EXCLUDED.phone_number,
			monthly_salary = EXCLUDED.monthly_salary,
			approved_limit = EXCLUDED.approved_limit,
			current_debt   = EXCLUDED.current_debt,
			updated_at     = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		customer.ID(),
		customer.FirstName(), customer.LastName(), customer.Age(), customer.PhoneNumber(),
		customer.MonthlySalary(), customer.ApprovedLimit(), customer.CurrentDebt(),
		customer.CreatedAt(), customer.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// FindByID retrieves a single customer.
func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	query := customerSelect + ` WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByPhone retrieves a customer by phone number.
func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (model.Customer, error) {
	query := customerSelect + ` WHERE phone_number = $1`
	return r.scanOne(ctx, query, phone)
}

// SyncIDSequence realigns the identity sequence after rows were inserted
// with explicit identifiers. Run once after a seed ingestion.
func (r *CustomerRepo) SyncIDSequence(ctx context.Context) error {
	query := `
		SELECT setval(
			pg_get_serial_sequence('customers', 'id'),
			(SELECT COALESCE(MAX(id), 1) FROM customers)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("sync customer id sequence: %w", err)
	}
	return nil
}

const customerSelect = `
	SELECT id, first_name, last_name, age, phone_number,
	       monthly_salary, approved_limit, current_debt,
	       created_at, updated_at
	FROM customers`

func (r *CustomerRepo) scanOne(ctx context.Context, query string, args ...any) (model.Customer, error) {
	row := r.db.QueryRow(ctx, query, args...)
	customer, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, port.ErrCustomerNotFound
	}
	return customer, err
}

func scanCustomer(s scannable) (model.Customer, error) {
	var (
		id                                        int64
		firstName, lastName                       string
		age                                       int
		phoneNumber                               string
		monthlySalary, approvedLimit, currentDebt decimal.Decimal
		createdAt, updatedAt                      time.Time
	)

	err := s.Scan(
		&id, &firstName, &lastName, &age, &phoneNumber,
		&monthlySalary, &approvedLimit, &currentDebt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Customer{}, fmt.Errorf("scan customer: %w", err)
	}

	return model.ReconstructCustomer(
		id, firstName, lastName, age, phoneNumber,
		monthlySalary, approvedLimit, currentDebt,
		createdAt, updatedAt,
	), nil
}
