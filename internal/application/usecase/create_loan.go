package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/domain/event"
	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	"github.com/AnchalSR/credit-system.backend/internal/domain/service"
	"github.com/AnchalSR/credit-system.backend/pkg/observability"
)

// How long a single creation may hold the per-customer lock.
const createLockTTL = 10 * time.Second

// CreateLoanUseCase runs the eligibility check and, on approval, originates
// the loan and raises the customer's debt. Creations for the same customer
// are serialized through the locker so concurrent requests see each other's
// installments.
type CreateLoanUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	uow          port.UnitOfWork
	publisher    port.EventPublisher
	locker       port.CustomerLocker
	engine       *service.EligibilityEngine
	metrics      *observability.DecisionMetrics
}

// NewCreateLoanUseCase wires dependencies. Metrics may be nil.
func NewCreateLoanUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	uow port.UnitOfWork,
	publisher port.EventPublisher,
	locker port.CustomerLocker,
	engine *service.EligibilityEngine,
	metrics *observability.DecisionMetrics,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		uow:          uow,
		publisher:    publisher,
		locker:       locker,
		engine:       engine,
		metrics:      metrics,
	}
}

// Execute creates a loan when the request passes the eligibility policy.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.CreateLoanRequest,
) (dto.CreateLoanResponse, error) {
	now := time.Now().UTC()

	// 1. Serialize creations for this customer.
	release, err := uc.locker.Lock(ctx, req.CustomerID, createLockTTL)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("acquire customer lock: %w", err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			slog.Warn("release customer lock", "customer_id", req.CustomerID, "error", err)
		}
	}()

	// 2. Load the customer.
	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	// 3. Load the full loan history.
	history, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("load loan history: %w", err)
	}

	// 4. Sum the installments of loans still being served.
	existing, err := uc.loanRepo.SumActiveInstallments(ctx, req.CustomerID)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("sum active installments: %w", err)
	}

	// 5. Resolve eligibility.
	result := uc.engine.Resolve(customer, history, existing, service.LoanRequest{
		Principal:    req.LoanAmount,
		RatePercent:  req.InterestRate,
		TenureMonths: req.TenureMonths,
	}, now)

	if uc.metrics != nil {
		uc.metrics.ObserveDecision(string(result.Outcome), result.Breakdown.Score)
	}

	// 6. Rejections are a business outcome, not an error.
	if !result.Approved {
		rejected := event.NewLoanRejected(
			req.CustomerID, req.LoanAmount,
			string(result.Outcome), result.Reason, result.Breakdown.Score,
		)
		if err := uc.publisher.Publish(ctx, rejected); err != nil {
			return dto.CreateLoanResponse{}, fmt.Errorf("publish events: %w", err)
		}
		return dto.CreateLoanResponse{
			CustomerID:         req.CustomerID,
			Approved:           false,
			Outcome:            string(result.Outcome),
			Reason:             result.Reason,
			MonthlyInstallment: result.MonthlyInstallment,
		}, nil
	}

	// 7. Originate at the corrected rate.
	loan, err := model.NewLoan(req.CustomerID, req.LoanAmount, result.CorrectedRate, req.TenureMonths, now)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 8. Persist the loan and the raised debt atomically.
	err = uc.uow.Within(ctx, func(ctx context.Context, customers port.CustomerRepository, loans port.LoanRepository) error {
		loan, err = loans.Save(ctx, loan)
		if err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		customer, err = customer.AddDebt(loan.Principal(), now)
		if err != nil {
			return fmt.Errorf("raise debt: %w", err)
		}
		if err := customers.Update(ctx, customer); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CreateLoanResponse{}, err
	}

	// 9. Publish the creation event.
	created := event.NewLoanCreated(
		loan.ID(), loan.CustomerID(),
		loan.Principal(), loan.InterestRate(),
		loan.TenureMonths(), loan.MonthlyInstallment(), loan.EndDate(),
	)
	if err := uc.publisher.Publish(ctx, created); err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.ObserveLoanCreated()
	}

	loanID := loan.ID()
	return dto.CreateLoanResponse{
		LoanID:             &loanID,
		CustomerID:         req.CustomerID,
		Approved:           true,
		Outcome:            string(result.Outcome),
		Reason:             result.Reason,
		MonthlyInstallment: loan.MonthlyInstallment(),
	}, nil
}
