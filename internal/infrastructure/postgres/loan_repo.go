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
	"github.com/AnchalSR/credit-system.backend/internal/domain/valueobject"
	pgdb "github.com/AnchalSR/credit-system.backend/pkg/postgres"
)

// LoanRepo implements port.LoanRepository. It runs against either the pool
// or a transaction through the Querier abstraction.
type LoanRepo struct {
	db pgdb.Querier
}

// NewLoanRepo creates a new repository backed by PostgreSQL.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{db: pool}
}

// Save inserts a new loan and returns the aggregate carrying the
// sequence-assigned identifier. The installment column is stored for
// reporting; rehydration re-derives it from the terms.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query := `
		INSERT INTO loans (
			customer_id, principal, interest_rate, tenure_months,
			monthly_installment, emis_paid_on_time,
			start_date, end_date, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		loan.CustomerID(), loan.Principal(), loan.InterestRate(), loan.TenureMonths(),
		loan.MonthlyInstallment(), loan.EMIsPaidOnTime(),
		loan.StartDate(), loan.EndDate(), loan.Status().String(),
		loan.CreatedAt(), loan.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return model.Loan{}, fmt.Errorf("save loan: %w", err)
	}
	return loan.WithID(id), nil
}

// Update rewrites the mutable columns of an existing loan.
func (r *LoanRepo) Update(ctx context.Context, loan model.Loan) error {
	query := `
		UPDATE loans SET
			emis_paid_on_time = $2,
			status            = $3,
			updated_at        = $4
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		loan.ID(), loan.EMIsPaidOnTime(), loan.Status().String(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrLoanNotFound
	}
	return nil
}

// Upsert writes a loan keeping the caller-supplied identifier. Used by the
// seed ingestion, which must preserve workbook identifiers.
func (r *LoanRepo) Upsert(ctx context.Context, loan model.Loan) error {
	query := `
		INSERT INTO loans (
			id, customer_id, principal, interest_rate, tenure_months,
			monthly_installment, emis_paid_on_time,
			start_date, end_date, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			customer_id         = EXCLUDED.customer_id,
			principal           = EXCLUDED.principal,
			interest_rate       = EXCLUDED.interest_rate,
			tenure_months       = EXCLUDED.tenure_months,
			monthly_installment = EXCLUDED.monthly_installment,
			emis_paid_on_time   = EXCLUDED.emis_paid_on_time,
			start_date          = EXCLUDED.start_date,
			end_date            = EXCLUDED.end_date,
			status              = EXCLUDED.status,
			updated_at          = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		loan.ID(), loan.CustomerID(), loan.Principal(), loan.InterestRate(), loan.TenureMonths(),
		loan.MonthlyInstallment(), loan.EMIsPaidOnTime(),
		loan.StartDate(), loan.EndDate(), loan.Status().String(),
		loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("upsert loan: %w", err)
	}
	return nil
}

// FindByID retrieves a single loan.
func (r *LoanRepo) FindByID(ctx context.Context, id int64) (model.Loan, error) {
	query := loanSelect + ` WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, port.ErrLoanNotFound
	}
	return loan, err
}

// FindByCustomerID retrieves the full loan history of a customer, oldest
// first.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	query := loanSelect + ` WHERE customer_id = $1 ORDER BY start_date, id`
	return r.scanMany(ctx, query, customerID)
}

// FindActiveByCustomerID retrieves only the loans still counting toward
// current exposure.
func (r *LoanRepo) FindActiveByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	query := loanSelect + ` WHERE customer_id = $1 AND status = 'ACTIVE' ORDER BY start_date, id`
	return r.scanMany(ctx, query, customerID)
}

// SumActiveInstallments aggregates the monthly burden of a customer's
// active loans in the database.
func (r *LoanRepo) SumActiveInstallments(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(monthly_installment), 0)
		FROM loans
		WHERE customer_id = $1 AND status = 'ACTIVE'
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, customerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum active installments: %w", err)
	}
	return sum, nil
}

// SyncIDSequence realigns the identity sequence after rows were inserted
// with explicit identifiers. Run once after a seed ingestion.
func (r *LoanRepo) SyncIDSequence(ctx context.Context) error {
	query := `
		SELECT setval(
			pg_get_serial_sequence('loans', 'id'),
			(SELECT COALESCE(MAX(id), 1) FROM loans)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("sync loan id sequence: %w", err)
	}
	return nil
}

const loanSelect = `
	SELECT id, customer_id, principal, interest_rate, tenure_months,
	       emis_paid_on_time, start_date, end_date, status,
	       created_at, updated_at
	FROM loans`

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func (r *LoanRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var result []model.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, loan)
	}
	return result, rows.Err()
}

func scanLoan(s scannable) (model.Loan, error) {
	var (
		id, customerID          int64
		principal, interestRate decimal.Decimal
		tenureMonths            int
		emisPaidOnTime          int
		startDate, endDate      time.Time
		statusStr               string
		createdAt, updatedAt    time.Time
	)

	err := s.Scan(
		&id, &customerID, &principal, &interestRate, &tenureMonths,
		&emisPaidOnTime, &startDate, &endDate, &statusStr,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse status: %w", err)
	}

	return model.ReconstructLoan(
		id, customerID, principal, interestRate,
		tenureMonths, emisPaidOnTime,
		startDate, endDate, status,
		createdAt, updatedAt,
	), nil
}
