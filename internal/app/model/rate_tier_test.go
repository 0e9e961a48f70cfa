package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestContainsPrincipal_InclusiveEnds(t *testing.T) {
	tier := &InterestRateTier{
		MinimumPrincipal: decimal.NewFromInt(500),
		MaximumPrincipal: decimal.NewFromInt(1500),
	}

	assert.True(t, tier.ContainsPrincipal(decimal.NewFromInt(500)))
	assert.True(t, tier.ContainsPrincipal(decimal.NewFromInt(1500)))
	assert.True(t, tier.ContainsPrincipal(decimal.NewFromInt(1000)))
	assert.False(t, tier.ContainsPrincipal(decimal.NewFromFloat(499.99)))
	assert.False(t, tier.ContainsPrincipal(decimal.NewFromFloat(1500.01)))
}
