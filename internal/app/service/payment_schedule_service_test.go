package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSchedule_MinimumTrackNeverAmortizes(t *testing.T) {
	svc := NewPaymentScheduleService()

	schedule := svc.GenerateSchedule(decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), 12)
	require.Len(t, schedule.Minimum, 12)

	for _, period := range schedule.Minimum {
		assert.True(t, period.Interest.Equal(decimal.NewFromInt(15)),
			"period %d interest = %s", period.Period, period.Interest)
		assert.True(t, period.Principal.IsZero())
		assert.True(t, period.Balance.Equal(decimal.NewFromInt(1000)))
	}
}

func TestPaymentSchedule_PaydownTracksAmortize(t *testing.T) {
	svc := NewPaymentScheduleService()

	schedule := svc.GenerateSchedule(decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), 12)

	// 5% track: fixed 50 of the original principal each period.
	first := schedule.PlusFive[0]
	assert.True(t, first.Interest.Equal(decimal.NewFromInt(15)))
	assert.True(t, first.Principal.Equal(decimal.NewFromInt(50)))
	assert.True(t, first.Payment.Equal(decimal.NewFromInt(65)))
	assert.True(t, first.Balance.Equal(decimal.NewFromInt(950)))

	// Interest is charged on the track's own balance, so it shrinks.
	second := schedule.PlusFive[1]
	assert.True(t, second.Interest.Equal(decimal.NewFromFloat(14.25)),
		"period 2 interest = %s", second.Interest)
	assert.True(t, second.Balance.Equal(decimal.NewFromInt(900)))

	// 10% track retires the balance in exactly 10 periods and stops.
	require.Len(t, schedule.PlusTen, 10)
	last := schedule.PlusTen[9]
	assert.True(t, last.Balance.IsZero())
}

func TestPaymentSchedule_DefaultPeriods(t *testing.T) {
	svc := NewPaymentScheduleService()

	schedule := svc.GenerateSchedule(decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), 0)
	assert.Len(t, schedule.Minimum, defaultSchedulePeriods)
}

func TestPaymentSchedule_FiveTrackBalanceAfterTwelvePeriods(t *testing.T) {
	svc := NewPaymentScheduleService()

	// Twelve periods of 50 against 1000 leave 400 on the books.
	schedule := svc.GenerateSchedule(decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), 12)
	last := schedule.PlusFive[len(schedule.PlusFive)-1]
	assert.Equal(t, 12, last.Period)
	assert.True(t, last.Balance.Equal(decimal.NewFromInt(400)),
		"final balance = %s", last.Balance)
}

func TestCalculatePayoffMonths(t *testing.T) {
	svc := NewPaymentScheduleService()

	// Payment that cannot outpace the interest never retires the loan.
	months := svc.CalculatePayoffMonths(decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), decimal.NewFromInt(15))
	assert.Zero(t, months)

	// Zero-rate: pure principal division.
	months = svc.CalculatePayoffMonths(decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(50))
	assert.Equal(t, 2, months)

	// One payment nearly covers everything; the residual takes a second month.
	months = svc.CalculatePayoffMonths(decimal.NewFromInt(100), decimal.NewFromFloat(1.5), decimal.NewFromInt(100))
	assert.Equal(t, 2, months)

	months = svc.CalculatePayoffMonths(decimal.Zero, decimal.NewFromFloat(1.5), decimal.NewFromInt(100))
	assert.Zero(t, months)
}
