package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func georgiaRule() *StateSpecialRule {
	return &StateSpecialRule{
		StateCode:               "GA",
		StateName:               "Georgia",
		FirstPeriodDays:         90,
		FirstPeriodMaxRate:      decimal.NewFromInt(25),
		SubsequentPeriodMaxRate: decimal.NewFromFloat(12.5),
	}
}

func TestMaxRateForElapsedDays_BoundaryInclusive(t *testing.T) {
	rule := georgiaRule()

	assert.True(t, rule.MaxRateForElapsedDays(1).Equal(decimal.NewFromInt(25)))
	// Day 90 still belongs to the first period; day 91 does not.
	assert.True(t, rule.MaxRateForElapsedDays(90).Equal(decimal.NewFromInt(25)))
	assert.True(t, rule.MaxRateForElapsedDays(91).Equal(decimal.NewFromFloat(12.5)))
}

func TestIsRateCompliant(t *testing.T) {
	rule := georgiaRule()

	assert.True(t, rule.IsRateCompliant(decimal.NewFromInt(25), 90))
	assert.False(t, rule.IsRateCompliant(decimal.NewFromInt(25), 91))
	assert.True(t, rule.IsRateCompliant(decimal.NewFromFloat(12.5), 91))
	assert.False(t, rule.IsRateCompliant(decimal.NewFromFloat(12.51), 91))
}
