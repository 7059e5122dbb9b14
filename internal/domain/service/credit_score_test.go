package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
	"github.com/AnchalSR/credit-system.backend/internal/domain/service"
)

var scoreNow = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func scoreCustomer(salary int64) model.Customer {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	monthly := decimal.NewFromInt(salary)
	return model.ReconstructCustomer(
		1, "Asha", "Verma", 32, "9876543210",
		monthly, monthly.Mul(decimal.NewFromInt(36)), decimal.Zero,
		created, created,
	)
}

func scoreLoan(t *testing.T, id int64, principal int64, tenure, paidOnTime int, start time.Time) model.Loan {
	t.Helper()
	loan, err := model.NewLoan(1, decimal.NewFromInt(principal), decimal.NewFromInt(12), tenure, start)
	require.NoError(t, err)
	loan = loan.WithID(id)
	for i := 0; i < paidOnTime; i++ {
		loan, err = loan.RecordOnTimePayment(start.AddDate(0, i+1, 0))
		require.NoError(t, err)
	}
	return loan.ClearEvents()
}

func TestCreditScorer_Score(t *testing.T) {
	scorer := service.NewCreditScorer()

	t.Run("no history scores a perfect 100", func(t *testing.T) {
		breakdown := scorer.Score(scoreCustomer(50_000), nil, scoreNow)

		assert.Equal(t, 100, breakdown.Score)
		assert.False(t, breakdown.OverLimit)
		require.Len(t, breakdown.Components, 4)
		for _, c := range breakdown.Components {
			assert.Equal(t, 100, c.Normalized, "component %s", c.Name)
		}
	})

	t.Run("active principal above the limit forces zero", func(t *testing.T) {
		customer := scoreCustomer(3_000) // limit 108,000
		history := []model.Loan{
			scoreLoan(t, 1, 80_000, 24, 24, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
			scoreLoan(t, 2, 120_000, 36, 10, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		assert.True(t, breakdown.OverLimit)
		assert.Equal(t, 0, breakdown.Score)
		// Components are still reported for observability.
		assert.Len(t, breakdown.Components, 4)
	})

	t.Run("closed loans do not count toward the limit override", func(t *testing.T) {
		customer := scoreCustomer(3_000) // limit 108,000
		// Fully repaid, so no active principal at all.
		history := []model.Loan{
			scoreLoan(t, 1, 150_000, 12, 12, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		assert.False(t, breakdown.OverLimit)
		assert.Greater(t, breakdown.Score, 0)
	})

	t.Run("weak payment history lowers the payment component", func(t *testing.T) {
		customer := scoreCustomer(100_000)
		history := []model.Loan{
			scoreLoan(t, 1, 200_000, 40, 10, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		payment, ok := breakdown.Component(service.ComponentPaymentHistory)
		require.True(t, ok)
		assert.Equal(t, 25, payment.Normalized) // 10 of 40 due
		assert.Less(t, breakdown.Score, 100)
	})

	t.Run("current year originations lower the activity component", func(t *testing.T) {
		customer := scoreCustomer(100_000)
		history := []model.Loan{
			scoreLoan(t, 1, 100_000, 12, 2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			scoreLoan(t, 2, 100_000, 12, 1, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
			scoreLoan(t, 3, 100_000, 12, 0, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		activity, ok := breakdown.Component(service.ComponentCurrentActivity)
		require.True(t, ok)
		assert.Equal(t, 50, activity.Normalized) // three this year
	})

	t.Run("heavy active volume against the limit lowers the volume component", func(t *testing.T) {
		customer := scoreCustomer(10_000) // limit 360,000
		history := []model.Loan{
			scoreLoan(t, 1, 250_000, 24, 12, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
			scoreLoan(t, 2, 100_000, 60, 12, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		volume, ok := breakdown.Component(service.ComponentVolume)
		require.True(t, ok)
		// 350,000 active of 360,000 is above the 0.8 tier.
		assert.Equal(t, 33, volume.Normalized)
	})

	t.Run("repaid loans do not count toward volume", func(t *testing.T) {
		customer := scoreCustomer(3_000) // limit 108,000
		// A fully repaid loan larger than the limit leaves zero exposure.
		history := []model.Loan{
			scoreLoan(t, 1, 150_000, 12, 12, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		volume, ok := breakdown.Component(service.ComponentVolume)
		require.True(t, ok)
		assert.Equal(t, 100, volume.Normalized)
		assert.True(t, volume.Raw.IsZero())
	})

	t.Run("many lifetime loans lower the count component", func(t *testing.T) {
		customer := scoreCustomer(500_000)
		history := make([]model.Loan, 0, 11)
		for i := int64(0); i < 11; i++ {
			history = append(history, scoreLoan(t, i+1, 50_000, 12, 12, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)))
		}

		breakdown := scorer.Score(customer, history, scoreNow)

		count, ok := breakdown.Component(service.ComponentLoanCount)
		require.True(t, ok)
		assert.Equal(t, 50, count.Normalized)
	})

	t.Run("custom weights shift the composite", func(t *testing.T) {
		weights := service.ScoreWeights{
			PaymentHistory:  decimal.NewFromInt(1),
			LoanCount:       decimal.Zero,
			CurrentActivity: decimal.Zero,
			Volume:          decimal.Zero,
		}
		weighted := service.NewCreditScorerWithWeights(weights)

		customer := scoreCustomer(100_000)
		history := []model.Loan{
			scoreLoan(t, 1, 200_000, 40, 10, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		}

		breakdown := weighted.Score(customer, history, scoreNow)
		assert.Equal(t, 25, breakdown.Score)
	})
}
