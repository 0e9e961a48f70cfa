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

func setupFeeServiceTest(t *testing.T) (FeeService, TitlePawnService, *gorm.DB, *model.TitlePawn) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	pawnRepo := repository.NewTitlePawnRepository(testDB)
	feeRepo := repository.NewFeeRepository(testDB)
	pawnService := NewTitlePawnService(pawnRepo, testDB)
	feeService := NewFeeService(feeRepo, pawnRepo, testDB)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	store := &model.Store{
		CompanyID:              company.ID,
		Name:                   "Crown Pawn Marietta",
		StateCode:              "GA",
		TitleAndKeyFee:         decimal.NewFromInt(25),
		AccrueLateFeesSaturday: true,
		AccrueLateFeesSunday:   false,
		LateFeeAccrualHour:     18,
		IsActive:               true,
	}
	testDB.Create(store)

	customer := &model.Customer{CompanyID: company.ID, FirstName: "Dana", LastName: "Whitfield", IsActive: true}
	testDB.Create(customer)

	vehicle := &model.Vehicle{
		CustomerID:     customer.ID,
		VIN:            "1FTFW1ET5DFC10312",
		Make:           "Ford",
		Model:          "F-150",
		Year:           2019,
		EstimatedValue: decimal.NewFromInt(8000),
		IsActive:       true,
	}
	testDB.Create(vehicle)

	pawn, err := pawnService.CreateTitlePawn(CreateTitlePawnInput{
		CompanyID:           company.ID,
		StoreID:             store.ID,
		VehicleID:           vehicle.ID,
		LoanAmountRequested: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	approved, err := pawnService.ApproveTitlePawn(pawn.ID, decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), 1, "", company.ID)
	require.NoError(t, err)

	return feeService, pawnService, testDB, approved
}

// makeOverdue rewrites the loan's term so it matured on Friday 2026-01-02.
func makeOverdue(t *testing.T, testDB *gorm.DB, pawnID uint) {
	maturity := time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local)
	start := maturity.AddDate(0, 0, -30)
	err := testDB.Model(&model.TitlePawn{}).
		Where("id = ?", pawnID).
		Updates(map[string]interface{}{
			"loan_start_date":    start,
			"loan_maturity_date": maturity,
		}).Error
	require.NoError(t, err)
}

func feesMatchRunningTotal(t *testing.T, feeService FeeService, testDB *gorm.DB, pawnID uint) {
	t.Helper()
	ledger, err := feeService.GetTotalActiveFees(pawnID)
	require.NoError(t, err)

	var reloaded model.TitlePawn
	require.NoError(t, testDB.First(&reloaded, pawnID).Error)
	assert.True(t, ledger.Equal(reloaded.AdditionalFees),
		"ledger %s != running total %s", ledger, reloaded.AdditionalFees)
}

func TestFeeService_AddFee(t *testing.T) {
	feeService, _, testDB, pawn := setupFeeServiceTest(t)

	fee, err := feeService.AddFee(pawn.ID, model.FeeTypeTowing, decimal.NewFromInt(75), "tow from impound", pawn.CompanyID, nil)
	require.NoError(t, err)
	assert.False(t, fee.IsWaived)

	var reloaded model.TitlePawn
	testDB.First(&reloaded, pawn.ID)
	assert.True(t, reloaded.AdditionalFees.Equal(decimal.NewFromInt(75)))
	assert.True(t, reloaded.RemainingBalance.Equal(decimal.NewFromInt(1100)),
		"balance = %s", reloaded.RemainingBalance)

	feesMatchRunningTotal(t, feeService, testDB, pawn.ID)
}

func TestFeeService_AddFee_NonPositiveRejected(t *testing.T) {
	feeService, _, _, pawn := setupFeeServiceTest(t)

	_, err := feeService.AddFee(pawn.ID, model.FeeTypeTowing, decimal.Zero, "", pawn.CompanyID, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFeeService_AddFee_CrossTenantReadsAsNotFound(t *testing.T) {
	feeService, _, _, pawn := setupFeeServiceTest(t)

	_, err := feeService.AddFee(pawn.ID, model.FeeTypeTowing, decimal.NewFromInt(75), "", pawn.CompanyID+99, nil)
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestFeeService_WaiveFee(t *testing.T) {
	feeService, _, testDB, pawn := setupFeeServiceTest(t)

	fee, err := feeService.AddFee(pawn.ID, model.FeeTypeTowing, decimal.NewFromInt(75), "tow", pawn.CompanyID, nil)
	require.NoError(t, err)

	waived, err := feeService.WaiveFee(fee.ID, "customer dispute upheld", "manager@crownpawn.test", pawn.CompanyID)
	require.NoError(t, err)
	assert.True(t, waived.IsWaived)
	assert.NotNil(t, waived.WaivedDate)
	assert.Equal(t, "manager@crownpawn.test", waived.WaivedBy)

	var reloaded model.TitlePawn
	testDB.First(&reloaded, pawn.ID)
	assert.True(t, reloaded.AdditionalFees.IsZero())
	assert.True(t, reloaded.RemainingBalance.Equal(decimal.NewFromInt(1025)))

	feesMatchRunningTotal(t, feeService, testDB, pawn.ID)
}

func TestFeeService_WaiveFee_TwiceRejected(t *testing.T) {
	feeService, _, _, pawn := setupFeeServiceTest(t)

	fee, err := feeService.AddFee(pawn.ID, model.FeeTypeKey, decimal.NewFromInt(20), "", pawn.CompanyID, nil)
	require.NoError(t, err)

	_, err = feeService.WaiveFee(fee.ID, "first", "manager", pawn.CompanyID)
	require.NoError(t, err)

	_, err = feeService.WaiveFee(fee.ID, "second", "manager", pawn.CompanyID)
	assert.ErrorIs(t, err, ErrFeeAlreadyWaived)
}

func TestFeeService_ApplyLateFee(t *testing.T) {
	feeService, _, testDB, pawn := setupFeeServiceTest(t)
	makeOverdue(t, testDB, pawn.ID)

	// Monday evening after a Friday maturity: Saturday accrues, Sunday is
	// skipped, Monday counts once the 18:00 accrual hour passes. Two days at
	// 15/30 = 0.50 per day.
	asOf := time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local)

	fee, err := feeService.ApplyLateFee(pawn.ID, pawn.CompanyID, asOf)
	require.NoError(t, err)
	assert.Equal(t, model.FeeTypeLate, fee.FeeType)
	assert.True(t, fee.Amount.Equal(decimal.NewFromInt(1)), "late fee = %s", fee.Amount)

	var reloaded model.TitlePawn
	testDB.First(&reloaded, pawn.ID)
	assert.True(t, reloaded.AdditionalFees.Equal(decimal.NewFromInt(1)))
	assert.True(t, reloaded.RemainingBalance.Equal(decimal.NewFromInt(1026)))

	feesMatchRunningTotal(t, feeService, testDB, pawn.ID)
}

func TestFeeService_ApplyLateFee_Idempotent(t *testing.T) {
	feeService, _, testDB, pawn := setupFeeServiceTest(t)
	makeOverdue(t, testDB, pawn.ID)

	asOf := time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local)

	_, err := feeService.ApplyLateFee(pawn.ID, pawn.CompanyID, asOf)
	require.NoError(t, err)

	// Same instant again: everything accrued is already posted.
	_, err = feeService.ApplyLateFee(pawn.ID, pawn.CompanyID, asOf)
	assert.ErrorIs(t, err, ErrNothingToPost)

	var count int64
	testDB.Model(&model.Fee{}).Where("title_pawn_id = ?", pawn.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	feesMatchRunningTotal(t, feeService, testDB, pawn.ID)
}

func TestFeeService_ApplyLateFee_PostsOnlyTheDelta(t *testing.T) {
	feeService, _, testDB, pawn := setupFeeServiceTest(t)
	makeOverdue(t, testDB, pawn.ID)

	monday := time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local)
	_, err := feeService.ApplyLateFee(pawn.ID, pawn.CompanyID, monday)
	require.NoError(t, err)

	// Three more accruing days later (Tue, Wed, Thu): only 1.50 is new.
	thursday := time.Date(2026, 1, 8, 20, 0, 0, 0, time.Local)
	fee, err := feeService.ApplyLateFee(pawn.ID, pawn.CompanyID, thursday)
	require.NoError(t, err)
	assert.True(t, fee.Amount.Equal(decimal.NewFromFloat(1.5)), "delta = %s", fee.Amount)

	feesMatchRunningTotal(t, feeService, testDB, pawn.ID)
}

func TestFeeService_ApplyLateFee_NotOverdue(t *testing.T) {
	feeService, _, _, pawn := setupFeeServiceTest(t)

	_, err := feeService.ApplyLateFee(pawn.ID, pawn.CompanyID, time.Now())
	assert.ErrorIs(t, err, ErrLoanNotOverdue)
}

func TestFeeService_RenewalCarriesFeesForward(t *testing.T) {
	feeService, pawnService, testDB, pawn := setupFeeServiceTest(t)

	_, err := feeService.AddFee(pawn.ID, model.FeeTypeTowing, decimal.NewFromInt(75), "tow", pawn.CompanyID, nil)
	require.NoError(t, err)

	// Minimum payment rolls the loan; the fee total and ledger rows follow
	// the renewal.
	result, err := pawnService.ProcessPayment(pawn.ID, decimal.NewFromInt(15), model.PaymentTypeMinimum, model.PaymentMethodCash, pawn.CompanyID)
	require.NoError(t, err)
	require.Equal(t, OutcomeRenewed, result.Outcome)

	renewed := result.RenewedLoan
	assert.True(t, renewed.AdditionalFees.Equal(decimal.NewFromInt(75)))
	// New principal = 1100 - 25 - 75 = 1000.
	assert.True(t, renewed.LoanAmountApproved.Equal(decimal.NewFromInt(1000)),
		"renewal principal = %s", renewed.LoanAmountApproved)

	feesMatchRunningTotal(t, feeService, testDB, renewed.ID)
	// Old row keeps no active ledger rows.
	oldTotal, err := feeService.GetTotalActiveFees(pawn.ID)
	require.NoError(t, err)
	assert.True(t, oldTotal.IsZero())
}
