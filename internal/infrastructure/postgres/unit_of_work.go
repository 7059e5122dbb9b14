package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	pgdb "github.com/AnchalSR/credit-system.backend/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork over a single database transaction.
// The repositories handed to the callback share the transaction, so either
// all their writes commit or none do.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a transactional boundary over the pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Within runs fn inside a transaction. An error from fn rolls everything
// back; otherwise the transaction commits.
func (u *UnitOfWork) Within(
	ctx context.Context,
	fn func(ctx context.Context, customers port.CustomerRepository, loans port.LoanRepository) error,
) error {
	return pgdb.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(ctx, &CustomerRepo{db: tx}, &LoanRepo{db: tx})
	})
}
