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

func setupApprovalPolicyTest(t *testing.T) (ApprovalPolicyService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	policyRepo := repository.NewApprovalPolicyRepository(testDB)
	pawnRepo := repository.NewTitlePawnRepository(testDB)
	policyService := NewApprovalPolicyService(policyRepo, pawnRepo)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	user := &model.User{
		CompanyID:    company.ID,
		Email:        "manager@crownpawn.test",
		PasswordHash: "hash",
		Name:         "Morgan Manager",
		Role:         model.RoleManager,
		IsActive:     true,
	}
	testDB.Create(user)

	return policyService, testDB, user
}

func TestApprovalPolicy_NoPolicyMeansUnlimited(t *testing.T) {
	policyService, _, user := setupApprovalPolicyTest(t)

	err := policyService.CanApprove(user.ID, decimal.NewFromInt(1000000), time.Now())
	assert.NoError(t, err)
}

func TestApprovalPolicy_PerLoanCeiling(t *testing.T) {
	policyService, _, user := setupApprovalPolicyTest(t)

	_, err := policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:        user.ID,
		CompanyID:     user.CompanyID,
		ApprovalLimit: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	assert.NoError(t, policyService.CanApprove(user.ID, decimal.NewFromInt(5000), time.Now()))
	assert.ErrorIs(t, policyService.CanApprove(user.ID, decimal.NewFromInt(5001), time.Now()),
		ErrApprovalLimitExceeded)
}

func TestApprovalPolicy_ZeroLimitMeansUnlimited(t *testing.T) {
	policyService, _, user := setupApprovalPolicyTest(t)

	_, err := policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
	})
	require.NoError(t, err)

	assert.NoError(t, policyService.CanApprove(user.ID, decimal.NewFromInt(1000000), time.Now()))
}

func TestApprovalPolicy_DailyCountLimit(t *testing.T) {
	policyService, testDB, user := setupApprovalPolicyTest(t)

	_, err := policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:             user.ID,
		CompanyID:          user.CompanyID,
		DailyApprovalLimit: 1,
	})
	require.NoError(t, err)

	// One approval already on the books today.
	approverID := user.ID
	testDB.Create(&model.TitlePawn{
		CompanyID:          user.CompanyID,
		StoreID:            1,
		VehicleID:          1,
		LoanAmountApproved: decimal.NewFromInt(800),
		Status:             model.StatusActive,
		ApprovedByUserID:   &approverID,
	})

	err = policyService.CanApprove(user.ID, decimal.NewFromInt(500), time.Now())
	assert.ErrorIs(t, err, ErrDailyApprovalLimitExceeded)
}

func TestApprovalPolicy_DailyDollarLimit(t *testing.T) {
	policyService, testDB, user := setupApprovalPolicyTest(t)

	_, err := policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:              user.ID,
		CompanyID:           user.CompanyID,
		DailyApprovalAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	approverID := user.ID
	testDB.Create(&model.TitlePawn{
		CompanyID:          user.CompanyID,
		StoreID:            1,
		VehicleID:          1,
		LoanAmountApproved: decimal.NewFromInt(800),
		Status:             model.StatusActive,
		ApprovedByUserID:   &approverID,
	})

	assert.NoError(t, policyService.CanApprove(user.ID, decimal.NewFromInt(200), time.Now()))
	assert.ErrorIs(t, policyService.CanApprove(user.ID, decimal.NewFromInt(201), time.Now()),
		ErrDailyApprovalLimitExceeded)
}

func TestApprovalPolicy_SetPolicyUpdatesExisting(t *testing.T) {
	policyService, _, user := setupApprovalPolicyTest(t)

	_, err := policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:        user.ID,
		CompanyID:     user.CompanyID,
		ApprovalLimit: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	updated, err := policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:        user.ID,
		CompanyID:     user.CompanyID,
		ApprovalLimit: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)

	policy, err := policyService.GetPolicy(user.ID)
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, updated.ID, policy.ID)
	assert.True(t, policy.ApprovalLimit.Equal(decimal.NewFromInt(10000)))
}
