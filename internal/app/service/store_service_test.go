package service

import (
	"testing"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/crownpawn/titlepawn-backend/internal/refdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreServiceTest(t *testing.T) (StoreService, *gorm.DB, uint) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	storeRepo := repository.NewStoreRepository(testDB)
	tierRepo := repository.NewRateTierRepository(testDB)
	ruleRepo := repository.NewStateRuleRepository(testDB)
	rateService := NewRateService(tierRepo, ruleRepo, nil)
	storeService := NewStoreService(storeRepo, tierRepo, ruleRepo, refdata.USStates(), rateService)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	return storeService, testDB, company.ID
}

func TestStoreService_CreateStore(t *testing.T) {
	storeService, _, companyID := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(&model.Store{
		CompanyID: companyID,
		Name:      "Crown Pawn Marietta",
		StateCode: "ga",
	})
	require.NoError(t, err)
	assert.NotZero(t, store.ID)
	assert.Equal(t, "GA", store.StateCode)
	assert.True(t, store.IsActive)
}

func TestStoreService_CreateStore_InvalidState(t *testing.T) {
	storeService, _, companyID := setupStoreServiceTest(t)

	_, err := storeService.CreateStore(&model.Store{
		CompanyID: companyID,
		Name:      "Nowhere",
		StateCode: "XX",
	})
	assert.ErrorIs(t, err, ErrInvalidStateCode)
}

func TestStoreService_CreateRateTier_RangeValidated(t *testing.T) {
	storeService, _, companyID := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(&model.Store{CompanyID: companyID, Name: "Main", StateCode: "GA"})
	require.NoError(t, err)

	_, err = storeService.CreateRateTier(&model.InterestRateTier{
		StoreID:          store.ID,
		TierName:         "Backwards",
		MinimumPrincipal: decimal.NewFromInt(1000),
		MaximumPrincipal: decimal.NewFromInt(500),
		InterestRate:     decimal.NewFromFloat(1.5),
	}, companyID)
	assert.ErrorIs(t, err, ErrInvalidTierRange)
}

func TestStoreService_CreateRateTier_CrossTenantReadsAsNotFound(t *testing.T) {
	storeService, _, companyID := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(&model.Store{CompanyID: companyID, Name: "Main", StateCode: "GA"})
	require.NoError(t, err)

	_, err = storeService.CreateRateTier(&model.InterestRateTier{
		StoreID:          store.ID,
		TierName:         "Standard",
		MinimumPrincipal: decimal.NewFromInt(0),
		MaximumPrincipal: decimal.NewFromInt(5000),
		InterestRate:     decimal.NewFromFloat(1.5),
	}, companyID+99)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestStoreService_CreateStateRule_FillsName(t *testing.T) {
	storeService, _, companyID := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(&model.Store{CompanyID: companyID, Name: "Main", StateCode: "GA"})
	require.NoError(t, err)

	rule, err := storeService.CreateStateRule(&model.StateSpecialRule{
		StoreID:                 store.ID,
		StateCode:               "ga",
		FirstPeriodDays:         90,
		FirstPeriodMaxRate:      decimal.NewFromInt(25),
		SubsequentPeriodMaxRate: decimal.NewFromFloat(12.5),
	}, companyID)
	require.NoError(t, err)
	assert.Equal(t, "GA", rule.StateCode)
	assert.Equal(t, "Georgia", rule.StateName)
}

func TestStoreService_DeactivateTierRemovesItFromPolicy(t *testing.T) {
	storeService, testDB, companyID := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(&model.Store{CompanyID: companyID, Name: "Main", StateCode: "GA"})
	require.NoError(t, err)

	tier, err := storeService.CreateRateTier(&model.InterestRateTier{
		StoreID:          store.ID,
		TierName:         "Standard",
		MinimumPrincipal: decimal.NewFromInt(0),
		MaximumPrincipal: decimal.NewFromInt(5000),
		InterestRate:     decimal.NewFromFloat(1.5),
	}, companyID)
	require.NoError(t, err)

	require.NoError(t, storeService.DeactivateRateTier(tier.ID, companyID))

	tierRepo := repository.NewRateTierRepository(testDB)
	rateService := NewRateService(tierRepo, repository.NewStateRuleRepository(testDB), nil)
	matched, err := rateService.GetApplicableTier(store.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Nil(t, matched)
}
