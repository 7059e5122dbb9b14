package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/service"
)

// pinnedEngine routes the whole score through the payment component, so a
// loan with tenure 100 and N on-time payments scores exactly N.
func pinnedEngine() *service.EligibilityEngine {
	scorer := service.NewCreditScorerWithWeights(service.ScoreWeights{
		PaymentHistory:  decimal.NewFromInt(1),
		LoanCount:       decimal.Zero,
		CurrentActivity: decimal.Zero,
		Volume:          decimal.Zero,
	})
	return service.NewEligibilityEngine(scorer)
}

func pinnedHistory(t *testing.T, paidOnTime int) []model.Loan {
	t.Helper()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Loan{scoreLoan(t, 1, 1_000, 100, paidOnTime, start)}
}

// activeInstallments mirrors what the loan store reports for the burden cap.
func activeInstallments(history []model.Loan) decimal.Decimal {
	sum := decimal.Zero
	for _, loan := range history {
		if loan.IsActive() {
			sum = sum.Add(loan.MonthlyInstallment())
		}
	}
	return sum
}

func standardRequest() service.LoanRequest {
	return service.LoanRequest{
		Principal:    decimal.NewFromInt(500_000),
		RatePercent:  decimal.NewFromInt(15),
		TenureMonths: 24,
	}
}

func TestEligibilityEngine_Resolve(t *testing.T) {
	engine := service.NewEligibilityEngine(service.NewCreditScorer())

	t.Run("high score approves at the requested rate", func(t *testing.T) {
		result := engine.Resolve(scoreCustomer(100_000), nil, decimal.Zero, standardRequest(), scoreNow)

		assert.Equal(t, service.OutcomeApproved, result.Outcome)
		assert.True(t, result.Approved)
		assert.False(t, result.RateCorrected())
		assert.True(t, result.CorrectedRate.Equal(decimal.NewFromInt(15)))
		assert.True(t, result.MonthlyInstallment.Equal(decimal.RequireFromString("24243.32")),
			"got %s", result.MonthlyInstallment)
	})

	t.Run("mid band floors the rate at 12 percent", func(t *testing.T) {
		req := standardRequest()
		req.RatePercent = decimal.NewFromInt(10)

		history := pinnedHistory(t, 40)
		result := pinnedEngine().Resolve(scoreCustomer(100_000), history, activeInstallments(history), req, scoreNow)

		assert.Equal(t, service.OutcomeApprovedCorrected, result.Outcome)
		assert.True(t, result.Approved)
		assert.True(t, result.RateCorrected())
		assert.True(t, result.CorrectedRate.Equal(decimal.NewFromInt(12)))
		// The installment reflects the corrected rate, not the requested one.
		assert.True(t, result.MonthlyInstallment.Equal(model.ComputeEMI(req.Principal, decimal.NewFromInt(12), 24)))
	})

	t.Run("mid band keeps a rate already at or above the floor", func(t *testing.T) {
		req := standardRequest()
		req.RatePercent = decimal.NewFromInt(14)

		history := pinnedHistory(t, 40)
		result := pinnedEngine().Resolve(scoreCustomer(100_000), history, activeInstallments(history), req, scoreNow)

		assert.Equal(t, service.OutcomeApproved, result.Outcome)
		assert.True(t, result.CorrectedRate.Equal(decimal.NewFromInt(14)))
	})

	t.Run("a score of exactly 50 falls in the mid band", func(t *testing.T) {
		req := standardRequest()
		req.RatePercent = decimal.NewFromInt(10)

		history := pinnedHistory(t, 50)
		result := pinnedEngine().Resolve(scoreCustomer(100_000), history, activeInstallments(history), req, scoreNow)

		assert.Equal(t, 50, result.Breakdown.Score)
		assert.True(t, result.CorrectedRate.Equal(decimal.NewFromInt(12)))
	})

	t.Run("low band floors the rate at 16 percent", func(t *testing.T) {
		req := standardRequest()
		req.RatePercent = decimal.NewFromInt(14)

		history := pinnedHistory(t, 20)
		result := pinnedEngine().Resolve(scoreCustomer(100_000), history, activeInstallments(history), req, scoreNow)

		assert.Equal(t, service.OutcomeApprovedCorrected, result.Outcome)
		assert.True(t, result.CorrectedRate.Equal(decimal.NewFromInt(16)))
	})

	t.Run("a score of ten or below is rejected outright", func(t *testing.T) {
		history := pinnedHistory(t, 5)
		result := pinnedEngine().Resolve(scoreCustomer(100_000), history, activeInstallments(history), standardRequest(), scoreNow)

		assert.Equal(t, service.OutcomeRejectedLowScore, result.Outcome)
		assert.False(t, result.Approved)
		assert.NotEmpty(t, result.Reason)
		// Installment is still reported for the terms that were evaluated.
		assert.False(t, result.MonthlyInstallment.IsZero())
	})

	t.Run("income burden rejects even a high score", func(t *testing.T) {
		result := engine.Resolve(scoreCustomer(40_000), nil, decimal.Zero, standardRequest(), scoreNow)

		assert.Equal(t, service.OutcomeRejectedIncomeBurden, result.Outcome)
		assert.False(t, result.Approved)
		assert.Equal(t, 100, result.Breakdown.Score)
	})

	t.Run("existing installments push the burden over the cap", func(t *testing.T) {
		// The new installment of 24,243.32 alone fits under half of 55,000;
		// an existing 4,000 a month tips it over.
		fits := engine.Resolve(scoreCustomer(55_000), nil, decimal.Zero, standardRequest(), scoreNow)
		assert.Equal(t, service.OutcomeApproved, fits.Outcome)

		result := engine.Resolve(scoreCustomer(55_000), nil, decimal.NewFromInt(4_000), standardRequest(), scoreNow)
		assert.Equal(t, service.OutcomeRejectedIncomeBurden, result.Outcome)
	})

	t.Run("burden is checked at the corrected rate", func(t *testing.T) {
		// At the requested 0% the installment is 20,833.33 and would fit
		// under half of 46,000; at the corrected 12% it is 23,536.74 and
		// does not.
		req := standardRequest()
		req.RatePercent = decimal.Zero

		history := pinnedHistory(t, 40)
		result := pinnedEngine().Resolve(scoreCustomer(46_000), history, activeInstallments(history), req, scoreNow)

		assert.Equal(t, service.OutcomeRejectedIncomeBurden, result.Outcome)
		assert.False(t, result.Approved)
		assert.True(t, result.CorrectedRate.Equal(decimal.NewFromInt(12)))
	})
}
