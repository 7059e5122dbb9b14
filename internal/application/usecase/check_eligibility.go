package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	"github.com/AnchalSR/credit-system.backend/internal/domain/service"
	"github.com/AnchalSR/credit-system.backend/pkg/observability"
)

// CheckEligibilityUseCase runs the decision engine over a customer's loan
// history without creating anything.
type CheckEligibilityUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
	engine       *service.EligibilityEngine
	metrics      *observability.DecisionMetrics
}

// NewCheckEligibilityUseCase wires dependencies. Metrics may be nil.
func NewCheckEligibilityUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	engine *service.EligibilityEngine,
	metrics *observability.DecisionMetrics,
) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		engine:       engine,
		metrics:      metrics,
	}
}

// Execute loads the customer and history and resolves the request.
func (uc *CheckEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.CheckEligibilityRequest,
) (dto.EligibilityResponse, error) {
	now := time.Now().UTC()

	// 1. Load the customer.
	customer, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("find customer: %w", err)
	}

	// 2. Load the full loan history.
	history, err := uc.loanRepo.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("load loan history: %w", err)
	}

	// 3. Sum the installments of loans still being served.
	existing, err := uc.loanRepo.SumActiveInstallments(ctx, req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("sum active installments: %w", err)
	}

	// 4. Resolve against the score bands and the income burden cap.
	result := uc.engine.Resolve(customer, history, existing, service.LoanRequest{
		Principal:    req.LoanAmount,
		RatePercent:  req.InterestRate,
		TenureMonths: req.TenureMonths,
	}, now)

	if uc.metrics != nil {
		uc.metrics.ObserveDecision(string(result.Outcome), result.Breakdown.Score)
	}

	return toEligibilityResponse(req.CustomerID, req.TenureMonths, result), nil
}

func toEligibilityResponse(customerID int64, tenure int, result service.EligibilityResult) dto.EligibilityResponse {
	components := make([]dto.ScoreComponentResponse, 0, len(result.Breakdown.Components))
	for _, c := range result.Breakdown.Components {
		components = append(components, dto.ScoreComponentResponse{
			Name:       c.Name,
			Weight:     c.Weight,
			Raw:        c.Raw,
			Normalized: c.Normalized,
		})
	}

	return dto.EligibilityResponse{
		CustomerID:         customerID,
		Approved:           result.Approved,
		Outcome:            string(result.Outcome),
		CreditScore:        result.Breakdown.Score,
		OverLimit:          result.Breakdown.OverLimit,
		Components:         components,
		InterestRate:       result.RequestedRate,
		CorrectedRate:      result.CorrectedRate,
		TenureMonths:       tenure,
		MonthlyInstallment: result.MonthlyInstallment,
		Reason:             result.Reason,
	}
}
