package usecase

import (
	"context"
	"fmt"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
)

// ListCustomerLoansUseCase lists the active loans of a customer.
type ListCustomerLoansUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
}

// NewListCustomerLoansUseCase wires dependencies.
func NewListCustomerLoansUseCase(customerRepo port.CustomerRepository, loanRepo port.LoanRepository) *ListCustomerLoansUseCase {
	return &ListCustomerLoansUseCase{customerRepo: customerRepo, loanRepo: loanRepo}
}

// Execute verifies the customer exists and returns their active loans.
func (uc *ListCustomerLoansUseCase) Execute(
	ctx context.Context,
	req dto.ListCustomerLoansRequest,
) ([]dto.LoanResponse, error) {
	if _, err := uc.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	loans, err := uc.loanRepo.FindActiveByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}

	responses := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, toLoanResponse(loan))
	}
	return responses, nil
}
