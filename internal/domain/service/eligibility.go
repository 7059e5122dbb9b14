package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
)

// DecisionOutcome classifies the result of an eligibility check.
type DecisionOutcome string

const (
	OutcomeApproved             DecisionOutcome = "APPROVED"
	OutcomeApprovedCorrected    DecisionOutcome = "APPROVED_RATE_CORRECTED"
	OutcomeRejectedLowScore     DecisionOutcome = "REJECTED_LOW_SCORE"
	OutcomeRejectedIncomeBurden DecisionOutcome = "REJECTED_INCOME_BURDEN"
)

// LoanRequest carries the terms a customer asks for.
type LoanRequest struct {
	Principal    decimal.Decimal
	RatePercent  decimal.Decimal
	TenureMonths int
}

// EligibilityResult is the full decision for a loan request. The corrected
// rate and installment are populated on every outcome, including rejections,
// so callers can always report the terms that were evaluated.
type EligibilityResult struct {
	Outcome            DecisionOutcome
	Approved           bool
	Breakdown          ScoreBreakdown
	RequestedRate      decimal.Decimal
	CorrectedRate      decimal.Decimal
	MonthlyInstallment decimal.Decimal
	Reason             string
}

// RateCorrected reports whether the approval required bumping the rate to
// the band floor.
func (r EligibilityResult) RateCorrected() bool {
	return r.Outcome == OutcomeApprovedCorrected
}

// EligibilityEngine resolves loan requests against the credit score bands
// and the income burden cap.
type EligibilityEngine struct {
	scorer *CreditScorer
}

// NewEligibilityEngine builds an engine around the given scorer.
func NewEligibilityEngine(scorer *CreditScorer) *EligibilityEngine {
	return &EligibilityEngine{scorer: scorer}
}

// Band floors, annual percent.
var (
	floorMidBand = decimal.NewFromInt(12)
	floorLowBand = decimal.NewFromInt(16)

	halfRatio = decimal.NewFromFloat(0.5)
)

// Resolve scores the customer and applies the decision policy:
//
//	score >  50         requested rate stands
//	30 < score <= 50    rate floored at 12%
//	10 < score <= 30    rate floored at 16%
//	score <= 10         rejected
//
// A request whose rate sits below its band floor is approved at the floor
// rather than rejected. The income burden cap is checked last and overrides
// any band approval: when existingInstallments, the caller-supplied sum of
// the customer's active monthly installments, plus the new installment
// computed at the corrected rate exceeds half the monthly salary, the
// request is rejected.
func (e *EligibilityEngine) Resolve(
	customer model.Customer,
	history []model.Loan,
	existingInstallments decimal.Decimal,
	request LoanRequest,
	now time.Time,
) EligibilityResult {
	breakdown := e.scorer.Score(customer, history, now)

	result := EligibilityResult{
		Breakdown:     breakdown,
		RequestedRate: request.RatePercent,
		CorrectedRate: request.RatePercent,
	}

	var floor decimal.Decimal
	switch {
	case breakdown.Score > 50:
		floor = decimal.Zero
	case breakdown.Score > 30:
		floor = floorMidBand
	case breakdown.Score > 10:
		floor = floorLowBand
	default:
		result.Outcome = OutcomeRejectedLowScore
		result.Reason = "credit score too low"
		result.MonthlyInstallment = model.ComputeEMI(request.Principal, request.RatePercent, request.TenureMonths)
		return result
	}

	if request.RatePercent.LessThan(floor) {
		result.CorrectedRate = floor
	}

	result.MonthlyInstallment = model.ComputeEMI(request.Principal, result.CorrectedRate, request.TenureMonths)

	burden := existingInstallments.Add(result.MonthlyInstallment)
	if burden.GreaterThan(customer.MonthlySalary().Mul(halfRatio)) {
		result.Outcome = OutcomeRejectedIncomeBurden
		result.Reason = "total installments exceed half of monthly salary"
		return result
	}

	result.Approved = true
	if result.CorrectedRate.GreaterThan(request.RatePercent) {
		result.Outcome = OutcomeApprovedCorrected
		result.Reason = "rate corrected to band floor"
	} else {
		result.Outcome = OutcomeApproved
	}
	return result
}
