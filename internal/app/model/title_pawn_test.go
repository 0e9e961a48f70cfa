package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testStore() *Store {
	return &Store{
		AccrueLateFeesSaturday: true,
		AccrueLateFeesSunday:   false,
		LateFeeAccrualHour:     18,
	}
}

func overdueLoan(maturity time.Time) *TitlePawn {
	return &TitlePawn{
		Status:               StatusActive,
		TotalInterestCharged: decimal.NewFromInt(15),
		LoanMaturityDate:     maturity,
	}
}

func TestBusinessDaysLate_NotOverdue(t *testing.T) {
	maturity := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	loan := overdueLoan(maturity)

	assert.Equal(t, 0, loan.BusinessDaysLate(testStore(), maturity))
	assert.Equal(t, 0, loan.BusinessDaysLate(testStore(), maturity.Add(-24*time.Hour)))
}

func TestBusinessDaysLate_SaturdayCountsSundaySkipped(t *testing.T) {
	// Maturity Friday; as-of the following Sunday 10:00. Saturday accrues,
	// Sunday does not, so exactly one day counts.
	maturity := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) // Friday
	asOf := time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)    // Sunday 10:00

	loan := overdueLoan(maturity)
	assert.Equal(t, 1, loan.BusinessDaysLate(testStore(), asOf))
}

func TestBusinessDaysLate_TenCalendarDays(t *testing.T) {
	// Maturity Monday, as-of Thursday the next week after the accrual hour:
	// ten calendar days in range, one Saturday, one Sunday.
	maturity := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)  // Monday
	asOf := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)    // Thursday 20:00

	store := testStore()
	loan := overdueLoan(maturity)

	// Saturday accrues, only the Sunday is excluded.
	assert.Equal(t, 9, loan.BusinessDaysLate(store, asOf))

	// With both weekend days excluded, two days drop out.
	store.AccrueLateFeesSaturday = false
	assert.Equal(t, 8, loan.BusinessDaysLate(store, asOf))
}

func TestBusinessDaysLate_AccrualHourGatesAsOfDay(t *testing.T) {
	maturity := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	loan := overdueLoan(maturity)
	store := testStore()

	beforeHour := time.Date(2026, 1, 6, 17, 59, 0, 0, time.UTC) // Tuesday 17:59
	afterHour := time.Date(2026, 1, 6, 18, 0, 0, 0, time.UTC)   // Tuesday 18:00

	assert.Equal(t, 0, loan.BusinessDaysLate(store, beforeHour))
	assert.Equal(t, 1, loan.BusinessDaysLate(store, afterHour))
}

func TestDailyLateRate(t *testing.T) {
	loan := &TitlePawn{TotalInterestCharged: decimal.NewFromInt(15)}
	assert.True(t, loan.DailyLateRate().Equal(decimal.NewFromFloat(0.5)),
		"got %s", loan.DailyLateRate())
}

func TestAccumulatedLateFees(t *testing.T) {
	maturity := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	asOf := time.Date(2026, 1, 9, 20, 0, 0, 0, time.UTC)    // Friday, 4 weekdays late
	store := testStore()

	loan := overdueLoan(maturity)
	got := loan.AccumulatedLateFees(store, asOf)
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "got %s", got) // 0.50 * 4
}

func TestAccumulatedLateFees_CaughtUpPayment(t *testing.T) {
	maturity := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2026, 1, 9, 20, 0, 0, 0, time.UTC)

	loan := overdueLoan(maturity)
	loan.Payments = []Payment{{
		Amount:      decimal.NewFromInt(15),
		PaymentDate: maturity.AddDate(0, 0, 2),
	}}

	assert.True(t, loan.AccumulatedLateFees(testStore(), asOf).IsZero())
}

func TestAccumulatedLateFees_PartialPaymentDoesNotCatchUp(t *testing.T) {
	maturity := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2026, 1, 9, 20, 0, 0, 0, time.UTC)

	loan := overdueLoan(maturity)
	loan.Payments = []Payment{{
		Amount:      decimal.NewFromInt(10), // below the 15 interest due
		PaymentDate: maturity.AddDate(0, 0, 2),
	}}

	got := loan.AccumulatedLateFees(testStore(), asOf)
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "got %s", got)
}

func TestAmountToSatisfyLoan(t *testing.T) {
	loan := &TitlePawn{
		LoanAmountApproved:   decimal.NewFromInt(1000),
		TotalInterestCharged: decimal.NewFromInt(15),
		TitleAndKeyFee:       decimal.NewFromInt(25),
		AdditionalFees:       decimal.NewFromInt(60),
	}
	assert.True(t, loan.AmountToSatisfyLoan().Equal(decimal.NewFromInt(1100)))
}

func TestIsOverdue(t *testing.T) {
	maturity := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	loan := overdueLoan(maturity)

	assert.False(t, loan.IsOverdue(maturity))
	assert.True(t, loan.IsOverdue(maturity.Add(time.Second)))
}
