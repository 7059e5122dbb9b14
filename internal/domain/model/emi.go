package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// ComputeEMI calculates the equated monthly installment for a loan using the
// standard compound-interest formula:
//
//	r   = annualRatePercent / 12 / 100
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to an even split of the principal. The result is
// rounded to two decimal places, half up, the currency precision used
// throughout the system. Non-positive principal or tenure and negative rates
// yield zero; such requests are rejected by the aggregates before this is
// reached.
func ComputeEMI(principal decimal.Decimal, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) || annualRatePercent.IsNegative() {
		return decimal.Zero
	}

	if annualRatePercent.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	}

	// float64 carries the power calculation; decimal takes over for the
	// final monetary rounding.
	monthlyRate := annualRatePercent.InexactFloat64() / 12.0 / 100.0
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))

	installment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(installment).Round(2)
}
