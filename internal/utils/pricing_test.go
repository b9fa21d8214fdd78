package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rental-backoffice/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRentalDays(t *testing.T) {
	pickup := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ret      time.Time
		expected int32
	}{
		{"Same day", pickup.Add(3 * time.Hour), 1},
		{"Exactly one day", pickup.Add(24 * time.Hour), 1},
		{"Within tolerance", pickup.Add(24*time.Hour + 59*time.Minute), 1},
		{"Past tolerance", pickup.Add(24*time.Hour + 60*time.Minute + time.Second), 2},
		{"Three days", pickup.Add(72 * time.Hour), 3},
		{"Three days and a half", pickup.Add(84 * time.Hour), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := RentalDays(pickup, tt.ret)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, days)
		})
	}

	t.Run("Return before pickup", func(t *testing.T) {
		_, err := RentalDays(pickup, pickup.Add(-time.Hour))
		assert.Error(t, err)
	})

	t.Run("Return equal to pickup", func(t *testing.T) {
		_, err := RentalDays(pickup, pickup)
		assert.Error(t, err)
	})
}

func TestComputeTotals(t *testing.T) {
	t.Run("Daily rate only", func(t *testing.T) {
		f := domain.Financials{
			DailyRate:  dec("50"),
			TotalDays:  3,
			AmountPaid: dec("100"),
		}

		totals := ComputeTotals(f)
		assert.True(t, dec("150").Equal(totals.Subtotal))
		assert.True(t, dec("150").Equal(totals.TotalAmount))
		assert.True(t, dec("50").Equal(totals.AmountDue))
	})

	t.Run("All charges and discount", func(t *testing.T) {
		f := domain.Financials{
			DailyRate:        dec("45.50"),
			TotalDays:        2,
			DeliveryCost:     dec("20"),
			FuelCharge:       dec("12.30"),
			AfterHoursCharge: dec("15"),
			ExtrasCharge:     dec("8"),
			ExtraKmCharge:    dec("4.70"),
			FranchiseCharge:  dec("100"),
			Discount:         dec("10"),
		}

		totals := ComputeTotals(f)
		assert.True(t, dec("91").Equal(totals.Subtotal))
		assert.True(t, dec("160").Equal(totals.Surcharges))
		assert.True(t, dec("241").Equal(totals.TotalAmount))
		assert.True(t, dec("241").Equal(totals.AmountDue))
	})

	t.Run("Overpaid gives negative due", func(t *testing.T) {
		f := domain.Financials{
			DailyRate:  dec("30"),
			TotalDays:  1,
			AmountPaid: dec("50"),
		}

		totals := ComputeTotals(f)
		assert.True(t, dec("-20").Equal(totals.AmountDue))
	})

	t.Run("Zero value", func(t *testing.T) {
		totals := ComputeTotals(domain.Financials{})
		assert.True(t, totals.TotalAmount.IsZero())
		assert.True(t, totals.AmountDue.IsZero())
	})
}

func TestApplyTotals(t *testing.T) {
	f := ApplyTotals(domain.Financials{
		DailyRate:    dec("50"),
		TotalDays:    3,
		DeliveryCost: dec("10"),
		AmountPaid:   dec("100"),
	})

	assert.True(t, dec("150").Equal(f.Subtotal))
	assert.True(t, dec("160").Equal(f.TotalAmount))
	assert.True(t, dec("60").Equal(f.AmountDue))
}
