package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AnchalSR/credit-system.backend/internal/domain/model"
)

func TestComputeEMI(t *testing.T) {
	t.Run("compound interest example", func(t *testing.T) {
		emi := model.ComputeEMI(decimal.NewFromInt(500_000), decimal.NewFromInt(15), 24)
		assert.True(t, emi.Equal(decimal.RequireFromString("24243.32")), "got %s", emi)
	})

	t.Run("zero rate divides the principal evenly", func(t *testing.T) {
		emi := model.ComputeEMI(decimal.NewFromInt(120_000), decimal.Zero, 12)
		assert.True(t, emi.Equal(decimal.NewFromInt(10_000)), "got %s", emi)
	})

	t.Run("zero rate rounds to two decimal places", func(t *testing.T) {
		emi := model.ComputeEMI(decimal.NewFromInt(100_000), decimal.Zero, 3)
		assert.True(t, emi.Equal(decimal.RequireFromString("33333.33")), "got %s", emi)
	})

	t.Run("guards return zero", func(t *testing.T) {
		assert.True(t, model.ComputeEMI(decimal.Zero, decimal.NewFromInt(10), 12).IsZero())
		assert.True(t, model.ComputeEMI(decimal.NewFromInt(-5), decimal.NewFromInt(10), 12).IsZero())
		assert.True(t, model.ComputeEMI(decimal.NewFromInt(1000), decimal.NewFromInt(10), 0).IsZero())
		assert.True(t, model.ComputeEMI(decimal.NewFromInt(1000), decimal.NewFromInt(-1), 12).IsZero())
	})

	t.Run("higher rate means higher installment", func(t *testing.T) {
		low := model.ComputeEMI(decimal.NewFromInt(500_000), decimal.NewFromInt(8), 24)
		high := model.ComputeEMI(decimal.NewFromInt(500_000), decimal.NewFromInt(16), 24)
		assert.True(t, high.GreaterThan(low))
	})

	t.Run("longer tenure means lower installment", func(t *testing.T) {
		short := model.ComputeEMI(decimal.NewFromInt(500_000), decimal.NewFromInt(12), 12)
		long := model.ComputeEMI(decimal.NewFromInt(500_000), decimal.NewFromInt(12), 60)
		assert.True(t, long.LessThan(short))
	})
}
