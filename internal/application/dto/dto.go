package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterCustomerRequest carries the data needed to register a customer.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

// CheckEligibilityRequest carries the terms for an eligibility check.
type CheckEligibilityRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure"`
}

// CreateLoanRequest carries the terms for a loan creation attempt.
type CreateLoanRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID int64 `json:"loan_id"`
}

// ListCustomerLoansRequest identifies a customer whose loans to list.
type ListCustomerLoansRequest struct {
	CustomerID int64 `json:"customer_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CustomerResponse is the external representation of a customer.
type CustomerResponse struct {
	CustomerID    int64           `json:"customer_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	CurrentDebt   decimal.Decimal `json:"current_debt"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ScoreComponentResponse reports one factor of the credit score.
type ScoreComponentResponse struct {
	Name       string          `json:"name"`
	Weight     decimal.Decimal `json:"weight"`
	Raw        decimal.Decimal `json:"raw"`
	Normalized int             `json:"normalized"`
}

// EligibilityResponse is the full decision for an eligibility check.
type EligibilityResponse struct {
	CustomerID         int64                    `json:"customer_id"`
	Approved           bool                     `json:"approval"`
	Outcome            string                   `json:"outcome"`
	CreditScore        int                      `json:"credit_score"`
	OverLimit          bool                     `json:"over_limit"`
	Components         []ScoreComponentResponse `json:"components,omitempty"`
	InterestRate       decimal.Decimal          `json:"interest_rate"`
	CorrectedRate      decimal.Decimal          `json:"corrected_interest_rate"`
	TenureMonths       int                      `json:"tenure"`
	MonthlyInstallment decimal.Decimal          `json:"monthly_installment"`
	Reason             string                   `json:"reason,omitempty"`
}

// CreateLoanResponse reports the result of a loan creation attempt. LoanID
// is nil when the request was rejected.
type CreateLoanResponse struct {
	LoanID             *int64          `json:"loan_id"`
	CustomerID         int64           `json:"customer_id"`
	Approved           bool            `json:"loan_approved"`
	Outcome            string          `json:"outcome"`
	Reason             string          `json:"message,omitempty"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

// LoanCustomerResponse is the customer summary embedded in a loan view.
type LoanCustomerResponse struct {
	CustomerID  int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	LoanID             int64                 `json:"loan_id"`
	Customer           *LoanCustomerResponse `json:"customer,omitempty"`
	CustomerID         int64                 `json:"customer_id"`
	Principal          decimal.Decimal       `json:"loan_amount"`
	InterestRate       decimal.Decimal       `json:"interest_rate"`
	TenureMonths       int                   `json:"tenure"`
	MonthlyInstallment decimal.Decimal       `json:"monthly_installment"`
	RepaymentsLeft     int                   `json:"repayments_left"`
	Status             string                `json:"status"`
	StartDate          time.Time             `json:"start_date"`
	EndDate            time.Time             `json:"end_date"`
}

// IngestSummary reports the outcome of a seed data ingestion run.
type IngestSummary struct {
	CustomersLoaded int `json:"customers_loaded"`
	LoansLoaded     int `json:"loans_loaded"`
	RowsSkipped     int `json:"rows_skipped"`
}
