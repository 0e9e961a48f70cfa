package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/crownpawn/titlepawn-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrLoanNotFound       = errors.New("title pawn not found")
	ErrLoanNotPending     = errors.New("title pawn is not pending approval")
	ErrLoanNotActive      = errors.New("title pawn is not active")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrPaymentTooLow      = errors.New("payment is below the minimum interest due")
	ErrPayoffInsufficient = errors.New("payoff payment does not satisfy the loan")
)

// PaymentOutcome tags what an accepted payment did to the loan. There is no
// third state: an accepted payment either satisfies the loan or rolls it into
// a new one.
type PaymentOutcome string

const (
	OutcomePaidOff PaymentOutcome = "paid_off"
	OutcomeRenewed PaymentOutcome = "renewed"
)

type PaymentResult struct {
	Outcome     PaymentOutcome   `json:"outcome"`
	Payment     *model.Payment   `json:"payment"`
	Loan        *model.TitlePawn `json:"loan"`
	RenewedLoan *model.TitlePawn `json:"renewed_loan,omitempty"`
}

type CreateTitlePawnInput struct {
	CompanyID           uint
	StoreID             uint
	VehicleID           uint
	LoanAmountRequested decimal.Decimal
}

type TitlePawnService interface {
	CreateTitlePawn(input CreateTitlePawnInput) (*model.TitlePawn, error)
	GetTitlePawn(id, companyID uint) (*model.TitlePawn, error)
	GetCompanyLoans(companyID uint, status model.TitlePawnStatus) ([]model.TitlePawn, error)
	GetOverdueLoans(asOf time.Time) ([]model.TitlePawn, error)
	SignContract(id, companyID uint) (*model.TitlePawn, error)
	ApproveTitlePawn(id uint, approvedAmount, monthlyRate decimal.Decimal, approvedBy uint, notes string, companyID uint) (*model.TitlePawn, error)
	ProcessPayment(id uint, amount decimal.Decimal, paymentType model.PaymentType, method model.PaymentMethod, companyID uint) (*PaymentResult, error)
	RenewLoan(id, companyID uint) (*model.TitlePawn, error)
	CalculateMinimumPayment(id, companyID uint) (decimal.Decimal, error)
	PayoffQuote(id, companyID uint, asOf time.Time) (decimal.Decimal, error)
}

type titlePawnService struct {
	pawnRepo repository.TitlePawnRepository
	db       *gorm.DB
}

func NewTitlePawnService(pawnRepo repository.TitlePawnRepository, db *gorm.DB) TitlePawnService {
	return &titlePawnService{pawnRepo: pawnRepo, db: db}
}

func (s *titlePawnService) CreateTitlePawn(input CreateTitlePawnInput) (*model.TitlePawn, error) {
	if input.LoanAmountRequested.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	pawn := &model.TitlePawn{
		CompanyID:           input.CompanyID,
		StoreID:             input.StoreID,
		VehicleID:           input.VehicleID,
		LoanAmountRequested: input.LoanAmountRequested,
		LoanTermDays:        model.DefaultLoanTermDays,
		Status:              model.StatusPending,
	}

	if err := s.pawnRepo.Create(pawn); err != nil {
		return nil, err
	}

	logger.Info("Title pawn created", map[string]interface{}{
		"title_pawn_id": pawn.ID,
		"company_id":    pawn.CompanyID,
		"requested":     pawn.LoanAmountRequested,
	})
	return pawn, nil
}

func (s *titlePawnService) GetTitlePawn(id, companyID uint) (*model.TitlePawn, error) {
	pawn, err := s.pawnRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	// Cross-tenant access reads as not found, never as forbidden.
	if pawn.CompanyID != companyID {
		return nil, ErrLoanNotFound
	}
	return pawn, nil
}

func (s *titlePawnService) GetCompanyLoans(companyID uint, status model.TitlePawnStatus) ([]model.TitlePawn, error) {
	return s.pawnRepo.FindByCompany(companyID, status)
}

func (s *titlePawnService) GetOverdueLoans(asOf time.Time) ([]model.TitlePawn, error) {
	return s.pawnRepo.FindOverdueActive(asOf)
}

func (s *titlePawnService) SignContract(id, companyID uint) (*model.TitlePawn, error) {
	pawn, err := s.GetTitlePawn(id, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pawn.ContractSigned = true
	pawn.ContractSignedDate = &now
	if err := s.pawnRepo.Update(pawn); err != nil {
		return nil, err
	}

	logger.Info("Contract signed", map[string]interface{}{
		"title_pawn_id": pawn.ID,
	})
	return pawn, nil
}

// ApproveTitlePawn activates a pending loan. The store's title-and-key fee is
// snapshotted onto the loan; the first period's interest equals the monthly
// payment: approved principal times the monthly rate.
func (s *titlePawnService) ApproveTitlePawn(id uint, approvedAmount, monthlyRate decimal.Decimal, approvedBy uint, notes string, companyID uint) (*model.TitlePawn, error) {
	if approvedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	pawn, err := s.GetTitlePawn(id, companyID)
	if err != nil {
		return nil, err
	}
	if !pawn.IsPending() {
		logger.Warn("Approval rejected: loan is not pending", map[string]interface{}{
			"title_pawn_id": pawn.ID,
			"status":        pawn.Status,
		})
		return nil, ErrLoanNotPending
	}

	now := time.Now()
	interest := approvedAmount.Mul(monthlyRate).Div(decimal.NewFromInt(100))

	pawn.LoanAmountApproved = approvedAmount
	pawn.InterestRate = monthlyRate
	pawn.TitleAndKeyFee = pawn.Store.TitleAndKeyFee
	pawn.TotalInterestCharged = interest
	pawn.MonthlyPayment = interest
	pawn.RemainingBalance = approvedAmount.Add(pawn.Store.TitleAndKeyFee)
	pawn.LoanStartDate = now
	pawn.LoanMaturityDate = now.AddDate(0, 0, pawn.LoanTermDays)
	pawn.Status = model.StatusActive
	pawn.ApprovalNotes = notes
	pawn.ApprovedByUserID = &approvedBy

	if err := s.pawnRepo.Update(pawn); err != nil {
		return nil, err
	}

	logger.Info("Title pawn approved", map[string]interface{}{
		"title_pawn_id":     pawn.ID,
		"approved":          approvedAmount,
		"rate":              monthlyRate,
		"monthly_payment":   pawn.MonthlyPayment,
		"remaining_balance": pawn.RemainingBalance,
		"maturity":          pawn.LoanMaturityDate,
	})
	return pawn, nil
}

// ProcessPayment applies a payment inside one transaction with a row lock on
// the loan, so two tellers posting against the same loan serialize. An
// accepted payment either pays the loan off or rolls the remaining balance
// into a new loan row; rejected payments mutate nothing.
func (s *titlePawnService) ProcessPayment(id uint, amount decimal.Decimal, paymentType model.PaymentType, method model.PaymentMethod, companyID uint) (*PaymentResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during payment processing, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"title_pawn_id": id,
			})
		}
	}()

	pawn, err := s.pawnRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if pawn.CompanyID != companyID {
		tx.Rollback()
		return nil, ErrLoanNotFound
	}
	if !pawn.IsActive() {
		tx.Rollback()
		logger.Warn("Payment rejected: loan is not active", map[string]interface{}{
			"title_pawn_id": pawn.ID,
			"status":        pawn.Status,
		})
		return nil, ErrLoanNotActive
	}

	now := time.Now()
	interestDue := pawn.TotalInterestCharged
	if paymentType == model.PaymentTypePayoff && interestPaidThisMonth(pawn, now) {
		interestDue = decimal.Zero
	}

	if paymentType == model.PaymentTypePayoff {
		required := pawn.RemainingBalance.Add(interestDue)
		if amount.LessThan(required) {
			tx.Rollback()
			logger.Warn("Payoff rejected: amount does not satisfy the loan", map[string]interface{}{
				"title_pawn_id": pawn.ID,
				"amount":        amount,
				"required":      required,
			})
			return nil, ErrPayoffInsufficient
		}
	} else if amount.LessThan(pawn.TotalInterestCharged) {
		tx.Rollback()
		logger.Warn("Payment rejected: below minimum interest due", map[string]interface{}{
			"title_pawn_id": pawn.ID,
			"amount":        amount,
			"minimum":       pawn.TotalInterestCharged,
		})
		return nil, ErrPaymentTooLow
	}

	// Interest first, remainder to principal.
	toInterest := decimal.Min(amount, interestDue)
	toPrincipal := amount.Sub(toInterest)

	newBalance := pawn.RemainingBalance.Sub(toPrincipal)
	if newBalance.LessThan(decimal.Zero) {
		newBalance = decimal.Zero
	}

	payment := &model.Payment{
		TitlePawnID:             pawn.ID,
		CompanyID:               pawn.CompanyID,
		Amount:                  amount,
		PaymentDate:             now,
		PaymentType:             paymentType,
		PaymentMethod:           method,
		ReceiptNumber:           util.GenerateReceiptNumber(now),
		LoanBalanceAfterPayment: newBalance,
		DueDate:                 pawn.LoanMaturityDate,
		IsLatePayment:           now.After(pawn.LoanMaturityDate),
	}
	if err := tx.Create(payment).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to record payment", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	pawn.RemainingBalance = newBalance

	result := &PaymentResult{Payment: payment, Loan: pawn}

	if newBalance.IsZero() {
		pawn.Status = model.StatusPaidOff
		pawn.LoanPaidOffDate = &now
		result.Outcome = OutcomePaidOff

		if err := tx.Save(pawn).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to close paid-off loan", err, map[string]interface{}{
				"title_pawn_id": pawn.ID,
			})
			return nil, err
		}
	} else {
		renewed, err := s.rollIntoNewLoan(tx, pawn, now)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		result.Outcome = OutcomeRenewed
		result.RenewedLoan = renewed
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit payment transaction", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	logger.Info("Payment processed", map[string]interface{}{
		"title_pawn_id": pawn.ID,
		"payment_id":    payment.ID,
		"amount":        amount,
		"to_interest":   toInterest,
		"to_principal":  toPrincipal,
		"balance_after": newBalance,
		"outcome":       result.Outcome,
	})
	return result, nil
}

// rollIntoNewLoan closes the old row as renewed and opens a new loan whose
// principal is the leftover balance net of the carried fees. The balance and
// fee totals copy over; non-waived fee rows move to the new loan so its
// ledger keeps matching its running total. Interest is recomputed on the new
// principal and the renewal needs a fresh contract signature.
func (s *titlePawnService) rollIntoNewLoan(tx *gorm.DB, old *model.TitlePawn, now time.Time) (*model.TitlePawn, error) {
	newPrincipal := old.RemainingBalance.Sub(old.TitleAndKeyFee).Sub(old.AdditionalFees)
	if newPrincipal.LessThan(decimal.Zero) {
		newPrincipal = decimal.Zero
	}
	interest := newPrincipal.Mul(old.InterestRate).Div(decimal.NewFromInt(100))

	renewed := &model.TitlePawn{
		CompanyID:              old.CompanyID,
		StoreID:                old.StoreID,
		VehicleID:              old.VehicleID,
		LoanAmountRequested:    newPrincipal,
		LoanAmountApproved:     newPrincipal,
		TitleAndKeyFee:         old.TitleAndKeyFee,
		AdditionalFees:         old.AdditionalFees,
		InterestRate:           old.InterestRate,
		TotalInterestCharged:   interest,
		MonthlyPayment:         interest,
		RemainingBalance:       old.RemainingBalance,
		LoanTermDays:           old.LoanTermDays,
		LoanStartDate:          now,
		LoanMaturityDate:       now.AddDate(0, 0, old.LoanTermDays),
		Status:                 model.StatusActive,
		ApprovedByUserID:       old.ApprovedByUserID,
		RenewedFromTitlePawnID: &old.ID,
	}
	if err := tx.Create(renewed).Error; err != nil {
		logger.Error("Failed to create renewal loan", err, map[string]interface{}{
			"title_pawn_id": old.ID,
		})
		return nil, err
	}

	if err := tx.Model(&model.Fee{}).
		Where("title_pawn_id = ? AND is_waived = ?", old.ID, false).
		Update("title_pawn_id", renewed.ID).Error; err != nil {
		logger.Error("Failed to carry fees forward to renewal", err, map[string]interface{}{
			"title_pawn_id": old.ID,
			"renewed_id":    renewed.ID,
		})
		return nil, err
	}

	old.Status = model.StatusRenewed
	if err := tx.Save(old).Error; err != nil {
		logger.Error("Failed to mark loan renewed", err, map[string]interface{}{
			"title_pawn_id": old.ID,
		})
		return nil, err
	}

	logger.Info("Loan rolled into renewal", map[string]interface{}{
		"title_pawn_id": old.ID,
		"renewed_id":    renewed.ID,
		"new_principal": newPrincipal,
		"new_interest":  interest,
		"balance":       renewed.RemainingBalance,
	})
	return renewed, nil
}

// RenewLoan is the manual extension: fresh term dates on the same row, money
// untouched.
func (s *titlePawnService) RenewLoan(id, companyID uint) (*model.TitlePawn, error) {
	pawn, err := s.GetTitlePawn(id, companyID)
	if err != nil {
		return nil, err
	}
	if !pawn.IsActive() {
		return nil, ErrLoanNotActive
	}

	now := time.Now()
	pawn.LoanStartDate = now
	pawn.LoanMaturityDate = now.AddDate(0, 0, pawn.LoanTermDays)
	if err := s.pawnRepo.Update(pawn); err != nil {
		return nil, err
	}

	logger.Info("Loan term extended", map[string]interface{}{
		"title_pawn_id": pawn.ID,
		"new_maturity":  pawn.LoanMaturityDate,
	})
	return pawn, nil
}

func (s *titlePawnService) CalculateMinimumPayment(id, companyID uint) (decimal.Decimal, error) {
	pawn, err := s.GetTitlePawn(id, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	return pawn.TotalInterestCharged, nil
}

// PayoffQuote is the amount that would satisfy the loan right now: remaining
// balance plus the period's interest, unless a qualifying payment already
// covered the interest this calendar month.
func (s *titlePawnService) PayoffQuote(id, companyID uint, asOf time.Time) (decimal.Decimal, error) {
	pawn, err := s.GetTitlePawn(id, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	if !pawn.IsActive() {
		return decimal.Zero, ErrLoanNotActive
	}

	quote := pawn.RemainingBalance
	if !interestPaidThisMonth(pawn, asOf) {
		quote = quote.Add(pawn.TotalInterestCharged)
	}
	return quote, nil
}

// interestPaidThisMonth reports whether a payment covering the monthly
// payment already landed in the same calendar month as the given instant.
func interestPaidThisMonth(pawn *model.TitlePawn, asOf time.Time) bool {
	for i := range pawn.Payments {
		p := &pawn.Payments[i]
		if p.PaymentDate.Year() == asOf.Year() &&
			p.PaymentDate.Month() == asOf.Month() &&
			p.Amount.GreaterThanOrEqual(pawn.MonthlyPayment) {
			return true
		}
	}
	return false
}
