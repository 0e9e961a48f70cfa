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

func setupTitlePawnServiceTest(t *testing.T) (TitlePawnService, *gorm.DB, *model.Store, *model.TitlePawn) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	pawnRepo := repository.NewTitlePawnRepository(testDB)
	pawnService := NewTitlePawnService(pawnRepo, testDB)

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

	customer := &model.Customer{
		CompanyID: company.ID,
		FirstName: "Dana",
		LastName:  "Whitfield",
		IsActive:  true,
	}
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

	return pawnService, testDB, store, pawn
}

func approveStandardLoan(t *testing.T, svc TitlePawnService, pawn *model.TitlePawn) *model.TitlePawn {
	approved, err := svc.ApproveTitlePawn(
		pawn.ID,
		decimal.NewFromInt(1000),
		decimal.NewFromFloat(1.5),
		1,
		"standard approval",
		pawn.CompanyID,
	)
	require.NoError(t, err)
	return approved
}

func TestTitlePawnService_Create(t *testing.T) {
	_, _, _, pawn := setupTitlePawnServiceTest(t)

	assert.NotZero(t, pawn.ID)
	assert.Equal(t, model.StatusPending, pawn.Status)
	assert.Equal(t, model.DefaultLoanTermDays, pawn.LoanTermDays)
}

func TestTitlePawnService_Create_NonPositiveAmount(t *testing.T) {
	svc, _, store, _ := setupTitlePawnServiceTest(t)

	_, err := svc.CreateTitlePawn(CreateTitlePawnInput{
		CompanyID:           store.CompanyID,
		StoreID:             store.ID,
		VehicleID:           1,
		LoanAmountRequested: decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTitlePawnService_Approve_Math(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)

	approved := approveStandardLoan(t, svc, pawn)

	assert.Equal(t, model.StatusActive, approved.Status)
	// 1000 at 1.5%/month: interest and monthly payment are both 15.
	assert.True(t, approved.TotalInterestCharged.Equal(decimal.NewFromInt(15)),
		"interest = %s", approved.TotalInterestCharged)
	assert.True(t, approved.MonthlyPayment.Equal(decimal.NewFromInt(15)))
	// Balance = principal + the store's title-and-key fee.
	assert.True(t, approved.RemainingBalance.Equal(decimal.NewFromInt(1025)),
		"balance = %s", approved.RemainingBalance)
	assert.True(t, approved.TitleAndKeyFee.Equal(decimal.NewFromInt(25)))

	expectedMaturity := approved.LoanStartDate.AddDate(0, 0, model.DefaultLoanTermDays)
	assert.Equal(t, expectedMaturity, approved.LoanMaturityDate)
}

func TestTitlePawnService_Approve_NotPending(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	_, err := svc.ApproveTitlePawn(pawn.ID, decimal.NewFromInt(500), decimal.NewFromFloat(1.5), 1, "", pawn.CompanyID)
	assert.ErrorIs(t, err, ErrLoanNotPending)
}

func TestTitlePawnService_Approve_CrossTenantReadsAsNotFound(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)

	_, err := svc.ApproveTitlePawn(pawn.ID, decimal.NewFromInt(1000), decimal.NewFromFloat(1.5), 1, "", pawn.CompanyID+99)
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestTitlePawnService_Payment_BelowMinimumRejected(t *testing.T) {
	svc, testDB, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	_, err := svc.ProcessPayment(pawn.ID, decimal.NewFromInt(10), model.PaymentTypeMinimum, model.PaymentMethodCash, pawn.CompanyID)
	assert.ErrorIs(t, err, ErrPaymentTooLow)

	// Rejection mutates nothing.
	var reloaded model.TitlePawn
	testDB.First(&reloaded, pawn.ID)
	assert.Equal(t, model.StatusActive, reloaded.Status)
	assert.True(t, reloaded.RemainingBalance.Equal(decimal.NewFromInt(1025)))

	var paymentCount int64
	testDB.Model(&model.Payment{}).Where("title_pawn_id = ?", pawn.ID).Count(&paymentCount)
	assert.Zero(t, paymentCount)
}

func TestTitlePawnService_Payment_MinimumRollsIntoRenewal(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	result, err := svc.ProcessPayment(pawn.ID, decimal.NewFromInt(15), model.PaymentTypeMinimum, model.PaymentMethodCash, pawn.CompanyID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeRenewed, result.Outcome)
	assert.Equal(t, model.StatusRenewed, result.Loan.Status)
	// Interest-only: balance untouched.
	assert.True(t, result.Payment.LoanBalanceAfterPayment.Equal(decimal.NewFromInt(1025)))

	renewed := result.RenewedLoan
	require.NotNil(t, renewed)
	// New principal = balance - title/key fee - additional fees = 1000.
	assert.True(t, renewed.LoanAmountApproved.Equal(decimal.NewFromInt(1000)),
		"renewal principal = %s", renewed.LoanAmountApproved)
	assert.True(t, renewed.TotalInterestCharged.Equal(decimal.NewFromInt(15)))
	assert.True(t, renewed.RemainingBalance.Equal(decimal.NewFromInt(1025)))
	assert.Equal(t, model.StatusActive, renewed.Status)
	assert.False(t, renewed.ContractSigned)
	require.NotNil(t, renewed.RenewedFromTitlePawnID)
	assert.Equal(t, pawn.ID, *renewed.RenewedFromTitlePawnID)
}

func TestTitlePawnService_Payment_RenewalConservation(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	// Extra payment: 15 to interest, 500 to principal.
	result, err := svc.ProcessPayment(pawn.ID, decimal.NewFromInt(515), model.PaymentTypeExtra, model.PaymentMethodCard, pawn.CompanyID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeRenewed, result.Outcome)
	postPaymentBalance := result.Payment.LoanBalanceAfterPayment
	assert.True(t, postPaymentBalance.Equal(decimal.NewFromInt(525)),
		"balance after = %s", postPaymentBalance)

	renewed := result.RenewedLoan
	// Conservation: new principal + titleKey + additional == old post-payment balance.
	recombined := renewed.LoanAmountApproved.
		Add(renewed.TitleAndKeyFee).
		Add(renewed.AdditionalFees)
	assert.True(t, recombined.Equal(postPaymentBalance),
		"recombined %s != balance %s", recombined, postPaymentBalance)

	// Interest recomputed on the smaller principal: 500 * 1.5% = 7.50.
	assert.True(t, renewed.TotalInterestCharged.Equal(decimal.NewFromFloat(7.5)),
		"renewal interest = %s", renewed.TotalInterestCharged)
}

func TestTitlePawnService_Payment_PayoffSatisfiesLoan(t *testing.T) {
	svc, testDB, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	// Full payoff: balance 1025 + interest 15.
	result, err := svc.ProcessPayment(pawn.ID, decimal.NewFromInt(1040), model.PaymentTypePayoff, model.PaymentMethodCash, pawn.CompanyID)
	require.NoError(t, err)

	assert.Equal(t, OutcomePaidOff, result.Outcome)
	assert.Equal(t, model.StatusPaidOff, result.Loan.Status)
	assert.NotNil(t, result.Loan.LoanPaidOffDate)
	assert.True(t, result.Loan.RemainingBalance.IsZero())
	assert.Nil(t, result.RenewedLoan)

	// No renewal row was created.
	var count int64
	testDB.Model(&model.TitlePawn{}).Where("renewed_from_title_pawn_id = ?", pawn.ID).Count(&count)
	assert.Zero(t, count)
}

func TestTitlePawnService_Payment_PartialPayoffRejected(t *testing.T) {
	svc, testDB, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	_, err := svc.ProcessPayment(pawn.ID, decimal.NewFromInt(900), model.PaymentTypePayoff, model.PaymentMethodCash, pawn.CompanyID)
	assert.ErrorIs(t, err, ErrPayoffInsufficient)

	var reloaded model.TitlePawn
	testDB.First(&reloaded, pawn.ID)
	assert.Equal(t, model.StatusActive, reloaded.Status)
	assert.True(t, reloaded.RemainingBalance.Equal(decimal.NewFromInt(1025)))
}

func TestTitlePawnService_Payment_SplitInvariant(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)
	approved := approveStandardLoan(t, svc, pawn)

	amount := decimal.NewFromInt(215)
	result, err := svc.ProcessPayment(pawn.ID, amount, model.PaymentTypeExtra, model.PaymentMethodCheck, pawn.CompanyID)
	require.NoError(t, err)

	// toInterest = min(amount, interest), remainder to principal; balance
	// moves only by the principal portion.
	toPrincipal := amount.Sub(approved.TotalInterestCharged)
	expectedBalance := decimal.NewFromInt(1025).Sub(toPrincipal)
	assert.True(t, result.Payment.LoanBalanceAfterPayment.Equal(expectedBalance),
		"balance after = %s, want %s", result.Payment.LoanBalanceAfterPayment, expectedBalance)
}

func TestTitlePawnService_Payment_NotActiveRejected(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)

	_, err := svc.ProcessPayment(pawn.ID, decimal.NewFromInt(100), model.PaymentTypeMinimum, model.PaymentMethodCash, pawn.CompanyID)
	assert.ErrorIs(t, err, ErrLoanNotActive)
}

func TestTitlePawnService_ManualRenewResetsDatesOnly(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)
	approved := approveStandardLoan(t, svc, pawn)
	balanceBefore := approved.RemainingBalance

	renewed, err := svc.RenewLoan(pawn.ID, pawn.CompanyID)
	require.NoError(t, err)

	assert.True(t, renewed.RemainingBalance.Equal(balanceBefore))
	assert.Equal(t, model.StatusActive, renewed.Status)
	assert.Equal(t, renewed.LoanStartDate.AddDate(0, 0, renewed.LoanTermDays), renewed.LoanMaturityDate)
}

func TestTitlePawnService_PayoffQuote(t *testing.T) {
	svc, testDB, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	quote, err := svc.PayoffQuote(pawn.ID, pawn.CompanyID, time.Now())
	require.NoError(t, err)
	assert.True(t, quote.Equal(decimal.NewFromInt(1040)), "quote = %s", quote)

	// A qualifying payment this month waives the interest from the quote.
	testDB.Create(&model.Payment{
		TitlePawnID: pawn.ID,
		CompanyID:   pawn.CompanyID,
		Amount:      decimal.NewFromInt(15),
		PaymentDate: time.Now(),
		PaymentType: model.PaymentTypeMinimum,
	})

	quote, err = svc.PayoffQuote(pawn.ID, pawn.CompanyID, time.Now())
	require.NoError(t, err)
	assert.True(t, quote.Equal(decimal.NewFromInt(1025)), "quote = %s", quote)
}

func TestTitlePawnService_SignContract(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)

	signed, err := svc.SignContract(pawn.ID, pawn.CompanyID)
	require.NoError(t, err)
	assert.True(t, signed.ContractSigned)
	assert.NotNil(t, signed.ContractSignedDate)
}

func TestTitlePawnService_MinimumPayment(t *testing.T) {
	svc, _, _, pawn := setupTitlePawnServiceTest(t)
	approveStandardLoan(t, svc, pawn)

	minimum, err := svc.CalculateMinimumPayment(pawn.ID, pawn.CompanyID)
	require.NoError(t, err)
	assert.True(t, minimum.Equal(decimal.NewFromInt(15)))
}
