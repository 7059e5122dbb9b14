package service

import (
	"github.com/shopspring/decimal"
)

// lakh is the rounding granularity for approved credit limits.
var lakh = decimal.NewFromInt(100_000)

// ApprovedLimitPolicy derives a customer's maximum sanctioned exposure from
// monthly income: 36 x income, rounded to the nearest lakh.
type ApprovedLimitPolicy struct {
	// IncomeMultiple is the salary multiplier, 36 by policy.
	IncomeMultiple decimal.Decimal
}

// NewApprovedLimitPolicy returns the policy with the standard multiplier.
func NewApprovedLimitPolicy() *ApprovedLimitPolicy {
	return &ApprovedLimitPolicy{
		IncomeMultiple: decimal.NewFromInt(36),
	}
}

// ComputeApprovedLimit returns the approved limit for the given monthly
// income. Ties round half up: 18.5 lakh becomes 19 lakh.
func (p *ApprovedLimitPolicy) ComputeApprovedLimit(monthlyIncome decimal.Decimal) decimal.Decimal {
	if monthlyIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	raw := monthlyIncome.Mul(p.IncomeMultiple)
	return raw.Div(lakh).Round(0).Mul(lakh)
}
