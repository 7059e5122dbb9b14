package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AnchalSR/credit-system.backend/internal/application/dto"
	"github.com/AnchalSR/credit-system.backend/internal/application/usecase"
	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
	"github.com/AnchalSR/credit-system.backend/internal/infrastructure/redislock"
	"github.com/AnchalSR/credit-system.backend/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// Compile-time assertion that CreditServiceHandler implements CreditServiceServer.
var _ CreditServiceServer = (*CreditServiceHandler)(nil)

// CreditServiceHandler implements the gRPC CreditServiceServer interface.
type CreditServiceHandler struct {
	UnimplementedCreditServiceServer
	registerUC    *usecase.RegisterCustomerUseCase
	eligibilityUC *usecase.CheckEligibilityUseCase
	createLoanUC  *usecase.CreateLoanUseCase
	getLoanUC     *usecase.GetLoanUseCase
	listLoansUC   *usecase.ListCustomerLoansUseCase
	logger        *slog.Logger
}

// NewCreditServiceHandler creates a new CreditServiceHandler.
func NewCreditServiceHandler(
	registerUC *usecase.RegisterCustomerUseCase,
	eligibilityUC *usecase.CheckEligibilityUseCase,
	createLoanUC *usecase.CreateLoanUseCase,
	getLoanUC *usecase.GetLoanUseCase,
	listLoansUC *usecase.ListCustomerLoansUseCase,
	logger *slog.Logger,
) *CreditServiceHandler {
	return &CreditServiceHandler{
		registerUC:    registerUC,
		eligibilityUC: eligibilityUC,
		createLoanUC:  createLoanUC,
		getLoanUC:     getLoanUC,
		listLoansUC:   listLoansUC,
		logger:        logger,
	}
}

// Proto-aligned request/response message types.

// CustomerMsg represents the proto Customer message.
type CustomerMsg struct {
	CustomerID    int64  `json:"customer_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Age           int    `json:"age"`
	PhoneNumber   string `json:"phone_number"`
	MonthlyIncome string `json:"monthly_income"`
	ApprovedLimit string `json:"approved_limit"`
	CurrentDebt   string `json:"current_debt"`
}

// LoanMsg represents the proto Loan message.
type LoanMsg struct {
	LoanID             int64        `json:"loan_id"`
	Customer           *CustomerMsg `json:"customer,omitempty"`
	CustomerID         int64        `json:"customer_id"`
	LoanAmount         string       `json:"loan_amount"`
	InterestRate       string       `json:"interest_rate"`
	Tenure             int          `json:"tenure"`
	MonthlyInstallment string       `json:"monthly_installment"`
	RepaymentsLeft     int          `json:"repayments_left"`
	Status             string       `json:"status"`
	StartDate          string       `json:"start_date"`
	EndDate            string       `json:"end_date"`
}

// RegisterCustomerRequest represents the proto RegisterCustomerRequest message.
type RegisterCustomerRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Age           int    `json:"age"`
	PhoneNumber   string `json:"phone_number"`
	MonthlyIncome string `json:"monthly_income"`
}

// RegisterCustomerResponse represents the proto RegisterCustomerResponse message.
type RegisterCustomerResponse struct {
	Customer *CustomerMsg `json:"customer"`
}

// CheckEligibilityRequest represents the proto CheckEligibilityRequest message.
type CheckEligibilityRequest struct {
	CustomerID   int64  `json:"customer_id"`
	LoanAmount   string `json:"loan_amount"`
	InterestRate string `json:"interest_rate"`
	Tenure       int    `json:"tenure"`
}

// ScoreComponentMsg represents one factor of the credit score.
type ScoreComponentMsg struct {
	Name       string `json:"name"`
	Weight     string `json:"weight"`
	Raw        string `json:"raw"`
	Normalized int    `json:"normalized"`
}

// CheckEligibilityResponse represents the proto CheckEligibilityResponse message.
type CheckEligibilityResponse struct {
	CustomerID            int64                `json:"customer_id"`
	Approval              bool                 `json:"approval"`
	Outcome               string               `json:"outcome"`
	CreditScore           int                  `json:"credit_score"`
	Components            []*ScoreComponentMsg `json:"components,omitempty"`
	InterestRate          string               `json:"interest_rate"`
	CorrectedInterestRate string               `json:"corrected_interest_rate"`
	Tenure                int                  `json:"tenure"`
	MonthlyInstallment    string               `json:"monthly_installment"`
	Reason                string               `json:"reason,omitempty"`
}

// CreateLoanRequest represents the proto CreateLoanRequest message.
type CreateLoanRequest struct {
	CustomerID   int64  `json:"customer_id"`
	LoanAmount   string `json:"loan_amount"`
	InterestRate string `json:"interest_rate"`
	Tenure       int    `json:"tenure"`
}

// CreateLoanResponse represents the proto CreateLoanResponse message.
type CreateLoanResponse struct {
	LoanID             *int64 `json:"loan_id"`
	CustomerID         int64  `json:"customer_id"`
	LoanApproved       bool   `json:"loan_approved"`
	Outcome            string `json:"outcome"`
	Message            string `json:"message,omitempty"`
	MonthlyInstallment string `json:"monthly_installment"`
}

// GetLoanRequest represents the proto GetLoanRequest message.
type GetLoanRequest struct {
	LoanID int64 `json:"loan_id"`
}

// GetLoanResponse represents the proto GetLoanResponse message.
type GetLoanResponse struct {
	Loan *LoanMsg `json:"loan"`
}

// ListCustomerLoansRequest represents the proto ListCustomerLoansRequest message.
type ListCustomerLoansRequest struct {
	CustomerID int64 `json:"customer_id"`
}

// ListCustomerLoansResponse represents the proto ListCustomerLoansResponse message.
type ListCustomerLoansResponse struct {
	Loans []*LoanMsg `json:"loans"`
}

// RegisterCustomer handles the gRPC request to register a customer.
func (h *CreditServiceHandler) RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (*RegisterCustomerResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	income, err := decimal.NewFromString(req.MonthlyIncome)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid monthly_income: %v", err)
	}
	if !income.IsPositive() {
		return nil, status.Error(codes.InvalidArgument, "monthly_income must be positive")
	}

	resp, err := h.registerUC.Execute(ctx, dto.RegisterCustomerRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		PhoneNumber:   req.PhoneNumber,
		MonthlyIncome: income,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "RegisterCustomer", err)
	}

	return &RegisterCustomerResponse{Customer: toCustomerMsg(resp)}, nil
}

// CheckEligibility handles the gRPC request to evaluate a loan request.
func (h *CreditServiceHandler) CheckEligibility(ctx context.Context, req *CheckEligibilityRequest) (*CheckEligibilityResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, rate, err := parseLoanTerms(req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		return nil, err
	}

	resp, err := h.eligibilityUC.Execute(ctx, dto.CheckEligibilityRequest{
		CustomerID:   req.CustomerID,
		LoanAmount:   amount,
		InterestRate: rate,
		TenureMonths: req.Tenure,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "CheckEligibility", err)
	}

	components := make([]*ScoreComponentMsg, 0, len(resp.Components))
	for _, c := range resp.Components {
		components = append(components, &ScoreComponentMsg{
			Name:       c.Name,
			Weight:     c.Weight.String(),
			Raw:        c.Raw.String(),
			Normalized: c.Normalized,
		})
	}

	return &CheckEligibilityResponse{
		CustomerID:            resp.CustomerID,
		Approval:              resp.Approved,
		Outcome:               resp.Outcome,
		CreditScore:           resp.CreditScore,
		Components:            components,
		InterestRate:          resp.InterestRate.String(),
		CorrectedInterestRate: resp.CorrectedRate.String(),
		Tenure:                resp.TenureMonths,
		MonthlyInstallment:    resp.MonthlyInstallment.String(),
		Reason:                resp.Reason,
	}, nil
}

// CreateLoan handles the gRPC request to create a loan.
func (h *CreditServiceHandler) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*CreateLoanResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, rate, err := parseLoanTerms(req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		return nil, err
	}

	resp, err := h.createLoanUC.Execute(ctx, dto.CreateLoanRequest{
		CustomerID:   req.CustomerID,
		LoanAmount:   amount,
		InterestRate: rate,
		TenureMonths: req.Tenure,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "CreateLoan", err)
	}

	return &CreateLoanResponse{
		LoanID:             resp.LoanID,
		CustomerID:         resp.CustomerID,
		LoanApproved:       resp.Approved,
		Outcome:            resp.Outcome,
		Message:            resp.Reason,
		MonthlyInstallment: resp.MonthlyInstallment.String(),
	}, nil
}

// GetLoan handles the gRPC request to view a loan.
func (h *CreditServiceHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil || req.LoanID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	resp, err := h.getLoanUC.Execute(ctx, dto.GetLoanRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetLoan", err)
	}

	return &GetLoanResponse{Loan: toLoanMsg(resp)}, nil
}

// ListCustomerLoans handles the gRPC request to list a customer's active loans.
func (h *CreditServiceHandler) ListCustomerLoans(ctx context.Context, req *ListCustomerLoansRequest) (*ListCustomerLoansResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil || req.CustomerID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}

	loans, err := h.listLoansUC.Execute(ctx, dto.ListCustomerLoansRequest{CustomerID: req.CustomerID})
	if err != nil {
		return nil, h.toStatus(ctx, "ListCustomerLoans", err)
	}

	msgs := make([]*LoanMsg, 0, len(loans))
	for _, loan := range loans {
		msgs = append(msgs, toLoanMsg(loan))
	}
	return &ListCustomerLoansResponse{Loans: msgs}, nil
}

func parseLoanTerms(amountStr, rateStr string, tenure int) (decimal.Decimal, decimal.Decimal, error) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid loan_amount: %v", err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, status.Error(codes.InvalidArgument, "loan_amount must be positive")
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid interest_rate: %v", err)
	}
	if rate.IsNegative() {
		return decimal.Zero, decimal.Zero, status.Error(codes.InvalidArgument, "interest_rate must not be negative")
	}
	if tenure <= 0 {
		return decimal.Zero, decimal.Zero, status.Error(codes.InvalidArgument, "tenure must be positive")
	}
	return amount, rate, nil
}

// toStatus maps application errors to gRPC status codes.
func (h *CreditServiceHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, port.ErrCustomerNotFound):
		return status.Error(codes.NotFound, "customer not found")
	case errors.Is(err, port.ErrLoanNotFound):
		return status.Error(codes.NotFound, "loan not found")
	case errors.Is(err, port.ErrPhoneAlreadyRegistered):
		return status.Error(codes.AlreadyExists, "phone number already registered")
	case errors.Is(err, redislock.ErrLockHeld):
		return status.Error(codes.Aborted, "another loan creation is in progress for this customer")
	default:
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toCustomerMsg(c dto.CustomerResponse) *CustomerMsg {
	return &CustomerMsg{
		CustomerID:    c.CustomerID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Age:           c.Age,
		PhoneNumber:   c.PhoneNumber,
		MonthlyIncome: c.MonthlyIncome.String(),
		ApprovedLimit: c.ApprovedLimit.String(),
		CurrentDebt:   c.CurrentDebt.String(),
	}
}

func toLoanMsg(l dto.LoanResponse) *LoanMsg {
	msg := &LoanMsg{
		LoanID:             l.LoanID,
		CustomerID:         l.CustomerID,
		LoanAmount:         l.Principal.String(),
		InterestRate:       l.InterestRate.String(),
		Tenure:             l.TenureMonths,
		MonthlyInstallment: l.MonthlyInstallment.String(),
		RepaymentsLeft:     l.RepaymentsLeft,
		Status:             l.Status,
		StartDate:          l.StartDate.Format("2006-01-02"),
		EndDate:            l.EndDate.Format("2006-01-02"),
	}
	if l.Customer != nil {
		msg.Customer = &CustomerMsg{
			CustomerID:  l.Customer.CustomerID,
			FirstName:   l.Customer.FirstName,
			LastName:    l.Customer.LastName,
			Age:         l.Customer.Age,
			PhoneNumber: l.Customer.PhoneNumber,
		}
	}
	return msg
}
