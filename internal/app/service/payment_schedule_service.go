package service

import (
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultSchedulePeriods = 12
	payoffMonthsCap        = 360
)

var (
	five    = decimal.NewFromInt(5)
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

// SchedulePeriod is one projected period on a payment track.
type SchedulePeriod struct {
	Period    int             `json:"period"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// PaymentSchedule projects three payment strategies side by side. It is
// illustrative for the customer conversation and never persisted.
type PaymentSchedule struct {
	Principal   decimal.Decimal  `json:"principal"`
	MonthlyRate decimal.Decimal  `json:"monthly_rate"`
	Minimum     []SchedulePeriod `json:"minimum"`
	PlusFive    []SchedulePeriod `json:"plus_five_percent"`
	PlusTen     []SchedulePeriod `json:"plus_ten_percent"`
}

type PaymentScheduleService interface {
	GenerateSchedule(principal, monthlyRate decimal.Decimal, periods int) *PaymentSchedule
	CalculatePayoffMonths(principal, monthlyRate, payment decimal.Decimal) int
}

type paymentScheduleService struct{}

func NewPaymentScheduleService() PaymentScheduleService {
	return &paymentScheduleService{}
}

// GenerateSchedule builds three tracks: interest-only (the balance never
// moves), and paydowns of 5% and 10% of the original principal per period.
// Interest each period is charged on that track's own running balance.
func (s *paymentScheduleService) GenerateSchedule(principal, monthlyRate decimal.Decimal, periods int) *PaymentSchedule {
	if periods <= 0 {
		periods = defaultSchedulePeriods
	}

	schedule := &PaymentSchedule{
		Principal:   principal,
		MonthlyRate: monthlyRate,
		Minimum:     projectTrack(principal, monthlyRate, decimal.Zero, periods),
		PlusFive:    projectTrack(principal, monthlyRate, principal.Mul(five).Div(hundred), periods),
		PlusTen:     projectTrack(principal, monthlyRate, principal.Mul(ten).Div(hundred), periods),
	}

	logger.Debug("Payment schedule generated", map[string]interface{}{
		"principal": principal,
		"rate":      monthlyRate,
		"periods":   periods,
	})
	return schedule
}

// projectTrack runs one strategy: a fixed nominal paydown per period on top
// of the interest, with the balance floored at zero. The track stops early
// once the balance is retired.
func projectTrack(principal, monthlyRate, paydown decimal.Decimal, periods int) []SchedulePeriod {
	track := make([]SchedulePeriod, 0, periods)
	balance := principal

	for period := 1; period <= periods; period++ {
		interest := balance.Mul(monthlyRate).Div(hundred)

		applied := paydown
		if applied.GreaterThan(balance) {
			applied = balance
		}
		newBalance := balance.Sub(applied)

		track = append(track, SchedulePeriod{
			Period:    period,
			Payment:   interest.Add(applied),
			Interest:  interest,
			Principal: applied,
			Balance:   newBalance,
		})

		balance = newBalance
		if balance.IsZero() {
			break
		}
	}
	return track
}

// CalculatePayoffMonths simulates month-by-month how long a fixed payment
// takes to retire the principal. Returns 0 when the payment cannot outpace
// the interest; capped at 360 months.
func (s *paymentScheduleService) CalculatePayoffMonths(principal, monthlyRate, payment decimal.Decimal) int {
	if principal.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	balance := principal
	for months := 1; months <= payoffMonthsCap; months++ {
		interest := balance.Mul(monthlyRate).Div(hundred)
		if payment.LessThanOrEqual(interest) {
			return 0
		}
		balance = balance.Add(interest).Sub(payment)
		if balance.LessThanOrEqual(decimal.Zero) {
			return months
		}
	}
	return payoffMonthsCap
}
