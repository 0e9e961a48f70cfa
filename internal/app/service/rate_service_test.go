package service

import (
	"testing"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRateServiceTest(t *testing.T) (RateService, *gorm.DB, *model.Store) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	tierRepo := repository.NewRateTierRepository(testDB)
	ruleRepo := repository.NewStateRuleRepository(testDB)
	rateService := NewRateService(tierRepo, ruleRepo, nil)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	store := &model.Store{
		CompanyID: company.ID,
		Name:      "Crown Pawn Marietta",
		StateCode: "GA",
		IsActive:  true,
	}
	testDB.Create(store)

	return rateService, testDB, store
}

func newTier(storeID uint, name string, min, max int64, rate float64, order int, active bool) *model.InterestRateTier {
	return &model.InterestRateTier{
		StoreID:          storeID,
		TierName:         name,
		MinimumPrincipal: decimal.NewFromInt(min),
		MaximumPrincipal: decimal.NewFromInt(max),
		InterestRate:     decimal.NewFromFloat(rate),
		DisplayOrder:     order,
		IsActive:         active,
	}
}

func TestRateService_GetApplicableTier_Match(t *testing.T) {
	rateService, testDB, store := setupRateServiceTest(t)

	testDB.Create(newTier(store.ID, "Small", 0, 500, 2.0, 1, true))
	testDB.Create(newTier(store.ID, "Standard", 501, 2500, 1.5, 2, true))

	tier, err := rateService.GetApplicableTier(store.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "Standard", tier.TierName)
}

func TestRateService_GetApplicableTier_DisplayOrderBreaksOverlap(t *testing.T) {
	rateService, testDB, store := setupRateServiceTest(t)

	// Overlapping ranges: the lower display order wins.
	testDB.Create(newTier(store.ID, "Promo", 0, 5000, 1.0, 1, true))
	testDB.Create(newTier(store.ID, "Standard", 0, 5000, 1.5, 2, true))

	tier, err := rateService.GetApplicableTier(store.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "Promo", tier.TierName)
}

func TestRateService_GetApplicableTier_SkipsInactive(t *testing.T) {
	rateService, testDB, store := setupRateServiceTest(t)

	testDB.Create(newTier(store.ID, "Retired", 0, 5000, 1.0, 1, false))
	testDB.Create(newTier(store.ID, "Current", 0, 5000, 1.5, 2, true))

	tier, err := rateService.GetApplicableTier(store.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "Current", tier.TierName)
}

func TestRateService_GetApplicableTier_InclusiveBounds(t *testing.T) {
	rateService, testDB, store := setupRateServiceTest(t)

	testDB.Create(newTier(store.ID, "Standard", 500, 2500, 1.5, 1, true))

	for _, amount := range []int64{500, 2500} {
		tier, err := rateService.GetApplicableTier(store.ID, decimal.NewFromInt(amount))
		require.NoError(t, err)
		require.NotNil(t, tier, "amount %d should match", amount)
	}

	tier, err := rateService.GetApplicableTier(store.ID, decimal.NewFromInt(499))
	require.NoError(t, err)
	assert.Nil(t, tier)
}

func TestRateService_GetApplicableTier_NonPositivePrincipal(t *testing.T) {
	rateService, testDB, store := setupRateServiceTest(t)
	testDB.Create(newTier(store.ID, "Standard", 0, 5000, 1.5, 1, true))

	tier, err := rateService.GetApplicableTier(store.ID, decimal.Zero)
	require.NoError(t, err)
	assert.Nil(t, tier)
}

func TestRateService_GetRecommendedRate_Fallback(t *testing.T) {
	rateService, _, store := setupRateServiceTest(t)

	fallback := decimal.NewFromFloat(1.5)
	rate, err := rateService.GetRecommendedRate(store.ID, decimal.NewFromInt(1000), fallback)
	require.NoError(t, err)
	assert.True(t, rate.Equal(fallback))
}

func TestRateService_CheckLoanCompliance_BoundaryDay(t *testing.T) {
	rateService, testDB, store := setupRateServiceTest(t)

	testDB.Create(&model.StateSpecialRule{
		StoreID:                 store.ID,
		StateCode:               "GA",
		StateName:               "Georgia",
		FirstPeriodDays:         90,
		FirstPeriodMaxRate:      decimal.NewFromInt(25),
		SubsequentPeriodMaxRate: decimal.NewFromFloat(12.5),
		IsActive:                true,
	})

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	loan := &model.TitlePawn{
		StoreID:       store.ID,
		InterestRate:  decimal.NewFromInt(20),
		LoanStartDate: start,
	}

	// Day 90 still belongs to the first period.
	result, err := rateService.CheckLoanCompliance(loan, "GA", start.AddDate(0, 0, 90))
	require.NoError(t, err)
	assert.True(t, result.Compliant)
	assert.True(t, result.MaxRate.Equal(decimal.NewFromInt(25)))

	// Day 91 drops to the subsequent ceiling.
	result, err = rateService.CheckLoanCompliance(loan, "GA", start.AddDate(0, 0, 91))
	require.NoError(t, err)
	assert.False(t, result.Compliant)
	assert.True(t, result.MaxRate.Equal(decimal.NewFromFloat(12.5)))
}

func TestRateService_CheckLoanCompliance_NoRule(t *testing.T) {
	rateService, _, store := setupRateServiceTest(t)

	loan := &model.TitlePawn{StoreID: store.ID, InterestRate: decimal.NewFromInt(20), LoanStartDate: time.Now()}
	_, err := rateService.CheckLoanCompliance(loan, "TX", time.Now())
	assert.ErrorIs(t, err, ErrStateRuleNotFound)
}
