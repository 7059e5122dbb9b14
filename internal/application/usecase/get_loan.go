package usecase

import (
	"context"
	"fmt"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
)

// GetLoanUseCase retrieves a single loan with its customer summary.
type GetLoanUseCase struct {
	customerRepo port.CustomerRepository
	loanRepo     port.LoanRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(customerRepo port.CustomerRepository, loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{customerRepo: customerRepo, loanRepo: loanRepo}
}

// Execute loads the loan and the embedded customer view.
func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	customer, err := uc.customerRepo.FindByID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	resp := toLoanResponse(loan)
	resp.Customer = &dto.LoanCustomerResponse{
		CustomerID:  customer.ID(),
		FirstName:   customer.FirstName(),
		LastName:    customer.LastName(),
		PhoneNumber: customer.PhoneNumber(),
		Age:         customer.Age(),
	}
	return resp, nil
}

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	return dto.LoanResponse{
		LoanID:             loan.ID(),
		CustomerID:         loan.CustomerID(),
		Principal:          loan.Principal(),
		InterestRate:       loan.InterestRate(),
		TenureMonths:       loan.TenureMonths(),
		MonthlyInstallment: loan.MonthlyInstallment(),
		RepaymentsLeft:     loan.RepaymentsLeft(),
		Status:             loan.Status().String(),
		StartDate:          loan.StartDate(),
		EndDate:            loan.EndDate(),
	}
}
