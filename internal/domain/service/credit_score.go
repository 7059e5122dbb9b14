package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
)

// Component names, stable for tests and telemetry.
const (
	ComponentPaymentHistory  = "payment_history"
	ComponentLoanCount       = "loan_count"
	ComponentCurrentActivity = "current_activity"
	ComponentVolume          = "volume"
)

// ScoreWeights is the tunable weight split across the four score components.
// The weights must sum to 1.
type ScoreWeights struct {
	PaymentHistory  decimal.Decimal
	LoanCount       decimal.Decimal
	CurrentActivity decimal.Decimal
	Volume          decimal.Decimal
}

// DefaultScoreWeights mirrors the historical point allocation of the scoring
// policy: 30/20/20/30.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		PaymentHistory:  decimal.NewFromFloat(0.30),
		LoanCount:       decimal.NewFromFloat(0.20),
		CurrentActivity: decimal.NewFromFloat(0.20),
		Volume:          decimal.NewFromFloat(0.30),
	}
}

// ScoreComponent carries one factor of the composite score with both its raw
// measurement and the normalized 0-100 value that enters the weighting.
type ScoreComponent struct {
	Name       string
	Weight     decimal.Decimal
	Raw        decimal.Decimal
	Normalized int
}

// ScoreBreakdown is the full result of a score computation. Components are
// reported even when the over-limit override forces the score to zero.
type ScoreBreakdown struct {
	Components []ScoreComponent
	Score      int
	OverLimit  bool
}

// Component returns the named component, or a zero value when absent.
func (b ScoreBreakdown) Component(name string) (ScoreComponent, bool) {
	for _, c := range b.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ScoreComponent{}, false
}

// CreditScorer computes a customer's creditworthiness score in [0,100] from
// loan history and current exposure.
type CreditScorer struct {
	weights ScoreWeights
}

// NewCreditScorer returns a scorer with the default weight split.
func NewCreditScorer() *CreditScorer {
	return &CreditScorer{weights: DefaultScoreWeights()}
}

// NewCreditScorerWithWeights returns a scorer with a custom weight split.
func NewCreditScorerWithWeights(w ScoreWeights) *CreditScorer {
	return &CreditScorer{weights: w}
}

// Score evaluates the weighted composite over four components:
//
//   - payment history: installments paid on schedule vs due, across all loans
//   - loan count: lifetime number of loans, inversely scaled
//   - current activity: loans originated in the current year, inversely scaled
//   - volume: currently active principal vs approved limit, inversely scaled
//
// A customer with no history scores 100 on every component. When the sum of
// currently active principals exceeds the approved limit the final score is
// forced to 0 regardless of the weighted result.
func (s *CreditScorer) Score(customer model.Customer, history []model.Loan, now time.Time) ScoreBreakdown {
	components := []ScoreComponent{
		s.paymentHistoryComponent(history),
		s.loanCountComponent(history),
		s.currentActivityComponent(history, now),
		s.volumeComponent(customer, history),
	}

	breakdown := ScoreBreakdown{Components: components}

	// Over-limit exposure is an absolute disqualifier, not a graded penalty.
	activePrincipal := decimal.Zero
	for _, loan := range history {
		if loan.IsActive() {
			activePrincipal = activePrincipal.Add(loan.Principal())
		}
	}
	if activePrincipal.GreaterThan(customer.ApprovedLimit()) {
		breakdown.OverLimit = true
		breakdown.Score = 0
		return breakdown
	}

	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.Weight.Mul(decimal.NewFromInt(int64(c.Normalized))))
	}

	breakdown.Score = clampScore(int(total.Round(0).IntPart()))
	return breakdown
}

// paymentHistoryComponent measures installments paid on schedule against
// total installments due. No history means a perfect record.
func (s *CreditScorer) paymentHistoryComponent(history []model.Loan) ScoreComponent {
	totalDue := 0
	totalOnTime := 0
	for _, loan := range history {
		totalDue += loan.TenureMonths()
		totalOnTime += loan.EMIsPaidOnTime()
	}

	ratio := decimal.NewFromInt(1)
	if totalDue > 0 {
		ratio = decimal.NewFromInt(int64(totalOnTime)).Div(decimal.NewFromInt(int64(totalDue)))
	}

	normalized := clampScore(int(ratio.Mul(decimal.NewFromInt(100)).IntPart()))
	return ScoreComponent{
		Name:       ComponentPaymentHistory,
		Weight:     s.weights.PaymentHistory,
		Raw:        ratio,
		Normalized: normalized,
	}
}

// loanCountComponent penalizes over-borrowing frequency over the lifetime.
func (s *CreditScorer) loanCountComponent(history []model.Loan) ScoreComponent {
	count := len(history)

	var normalized int
	switch {
	case count < 5:
		normalized = 100
	case count < 10:
		normalized = 75
	default:
		normalized = 50
	}

	return ScoreComponent{
		Name:       ComponentLoanCount,
		Weight:     s.weights.LoanCount,
		Raw:        decimal.NewFromInt(int64(count)),
		Normalized: normalized,
	}
}

// currentActivityComponent penalizes loans originated in the current year,
// separately from the lifetime count.
func (s *CreditScorer) currentActivityComponent(history []model.Loan, now time.Time) ScoreComponent {
	year := now.UTC().Year()
	recent := 0
	for _, loan := range history {
		if loan.StartDate().UTC().Year() == year {
			recent++
		}
	}

	var normalized int
	switch {
	case recent == 0:
		normalized = 100
	case recent <= 2:
		normalized = 75
	case recent <= 5:
		normalized = 50
	default:
		normalized = 25
	}

	return ScoreComponent{
		Name:       ComponentCurrentActivity,
		Weight:     s.weights.CurrentActivity,
		Raw:        decimal.NewFromInt(int64(recent)),
		Normalized: normalized,
	}
}

// volumeComponent compares the principal of currently active loans to the
// approved limit; the closer the ratio gets to 1, the lower the component.
// Repaid loans carry no remaining exposure and do not count.
func (s *CreditScorer) volumeComponent(customer model.Customer, history []model.Loan) ScoreComponent {
	totalVolume := decimal.Zero
	for _, loan := range history {
		if loan.IsActive() {
			totalVolume = totalVolume.Add(loan.Principal())
		}
	}

	if customer.ApprovedLimit().LessThanOrEqual(decimal.Zero) {
		return ScoreComponent{
			Name:       ComponentVolume,
			Weight:     s.weights.Volume,
			Raw:        decimal.Zero,
			Normalized: 0,
		}
	}

	ratio := totalVolume.Div(customer.ApprovedLimit())

	var normalized int
	switch {
	case ratio.LessThanOrEqual(decimal.NewFromFloat(0.3)):
		normalized = 100
	case ratio.LessThanOrEqual(decimal.NewFromFloat(0.5)):
		normalized = 83
	case ratio.LessThanOrEqual(decimal.NewFromFloat(0.8)):
		normalized = 50
	case ratio.LessThanOrEqual(decimal.NewFromInt(1)):
		normalized = 33
	default:
		normalized = 17
	}

	return ScoreComponent{
		Name:       ComponentVolume,
		Weight:     s.weights.Volume,
		Raw:        ratio,
		Normalized: normalized,
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
