package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rental-backoffice/internal/domain"
)

// DayTolerance is the grace period after which a started day is charged in full.
const DayTolerance = 59 * time.Minute

// Totals is the derived money breakdown of a rental
type Totals struct {
	Subtotal    decimal.Decimal
	Surcharges  decimal.Decimal
	TotalAmount decimal.Decimal
	AmountDue   decimal.Decimal
}

// RentalDays returns the number of charged days between pickup and expected return.
// A day is 24 hours; the first 59 minutes of a new day are tolerated. Minimum is one day.
func RentalDays(pickup, expectedReturn time.Time) (int32, error) {
	if !expectedReturn.After(pickup) {
		return 0, fmt.Errorf("expected return must be after pickup")
	}

	d := expectedReturn.Sub(pickup) - DayTolerance
	if d <= 0 {
		return 1, nil
	}

	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days, nil
}

// Subtotal is the daily rate times the number of days
func Subtotal(f domain.Financials) decimal.Decimal {
	return f.DailyRate.Mul(decimal.NewFromInt32(f.TotalDays))
}

// ComputeTotals derives subtotal, total and amount due from the itemized charges:
// total = subtotal + delivery + fuel + after hours + extras + extra km + franchise - discount,
// due = total - paid. Due is negative when the customer overpaid.
func ComputeTotals(f domain.Financials) Totals {
	subtotal := Subtotal(f)

	surcharges := f.DeliveryCost.
		Add(f.FuelCharge).
		Add(f.AfterHoursCharge).
		Add(f.ExtrasCharge).
		Add(f.ExtraKmCharge).
		Add(f.FranchiseCharge)

	total := subtotal.Add(surcharges).Sub(f.Discount)

	return Totals{
		Subtotal:    subtotal,
		Surcharges:  surcharges,
		TotalAmount: total,
		AmountDue:   total.Sub(f.AmountPaid),
	}
}

// ApplyTotals returns a copy of f with Subtotal, TotalAmount and AmountDue filled in.
func ApplyTotals(f domain.Financials) domain.Financials {
	t := ComputeTotals(f)
	f.Subtotal = t.Subtotal
	f.TotalAmount = t.TotalAmount
	f.AmountDue = t.AmountDue
	return f
}
