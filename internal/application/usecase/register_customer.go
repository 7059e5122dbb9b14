package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/domain/event"
	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	"github.com/AnchalSR/credit-system.backend/internal/domain/service"
)

// RegisterCustomerUseCase orchestrates customer registration and the
// approved limit assignment.
type RegisterCustomerUseCase struct {
	customerRepo port.CustomerRepository
	publisher    port.EventPublisher
	limitPolicy  *service.ApprovedLimitPolicy
}

// NewRegisterCustomerUseCase wires dependencies.
func NewRegisterCustomerUseCase(
	customerRepo port.CustomerRepository,
	publisher port.EventPublisher,
	limitPolicy *service.ApprovedLimitPolicy,
) *RegisterCustomerUseCase {
	return &RegisterCustomerUseCase{
		customerRepo: customerRepo,
		publisher:    publisher,
		limitPolicy:  limitPolicy,
	}
}

// Execute computes the approved limit, creates, and persists a customer.
func (uc *RegisterCustomerUseCase) Execute(
	ctx context.Context,
	req dto.RegisterCustomerRequest,
) (dto.CustomerResponse, error) {
	now := time.Now().UTC()

	// 1. A phone number identifies one customer.
	if _, err := uc.customerRepo.FindByPhone(ctx, req.PhoneNumber); err == nil {
		return dto.CustomerResponse{}, port.ErrPhoneAlreadyRegistered
	} else if !errors.Is(err, port.ErrCustomerNotFound) {
		return dto.CustomerResponse{}, fmt.Errorf("check phone: %w", err)
	}

	// 2. Derive the approved limit from income.
	limit := uc.limitPolicy.ComputeApprovedLimit(req.MonthlyIncome)

	// 3. Create the customer aggregate.
	customer, err := model.NewCustomer(
		req.FirstName, req.LastName, req.Age,
		req.PhoneNumber, req.MonthlyIncome, limit, now,
	)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("create customer: %w", err)
	}

	// 4. Persist; the store assigns the identifier.
	customer, err = uc.customerRepo.Save(ctx, customer)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("save customer: %w", err)
	}

	// 5. Publish the registration event.
	registered := event.NewCustomerRegistered(customer.ID(), customer.MonthlySalary(), customer.ApprovedLimit())
	if err := uc.publisher.Publish(ctx, registered); err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toCustomerResponse(customer), nil
}

func toCustomerResponse(customer model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		CustomerID:    customer.ID(),
		FirstName:     customer.FirstName(),
		LastName:      customer.LastName(),
		Age:           customer.Age(),
		PhoneNumber:   customer.PhoneNumber(),
		MonthlyIncome: customer.MonthlySalary(),
		ApprovedLimit: customer.ApprovedLimit(),
		CurrentDebt:   customer.CurrentDebt(),
		CreatedAt:     customer.CreatedAt(),
	}
}
