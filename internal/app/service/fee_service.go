package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrFeeNotFound      = errors.New("fee not found")
	ErrFeeAlreadyWaived = errors.New("fee is already waived")
	ErrLoanNotOverdue   = errors.New("title pawn is not overdue")
	ErrNothingToPost    = errors.New("no late fees to post")
)

type FeeService interface {
	AddFee(loanID uint, feeType model.FeeType, amount decimal.Decimal, description string, companyID uint, vendorID *uint) (*model.Fee, error)
	WaiveFee(feeID uint, reason, waivedBy string, companyID uint) (*model.Fee, error)
	ApplyLateFee(loanID, companyID uint, asOf time.Time) (*model.Fee, error)
	GetTitlePawnFees(loanID, companyID uint) ([]model.Fee, error)
	GetTotalActiveFees(loanID uint) (decimal.Decimal, error)
}

type feeService struct {
	feeRepo  repository.FeeRepository
	pawnRepo repository.TitlePawnRepository
	db       *gorm.DB
}

func NewFeeService(feeRepo repository.FeeRepository, pawnRepo repository.TitlePawnRepository, db *gorm.DB) FeeService {
	return &feeService{feeRepo: feeRepo, pawnRepo: pawnRepo, db: db}
}

// AddFee appends a charge to the loan's ledger and bumps both running totals
// in one transaction. Fees are never deleted afterwards, only waived.
func (s *feeService) AddFee(loanID uint, feeType model.FeeType, amount decimal.Decimal, description string, companyID uint, vendorID *uint) (*model.Fee, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	fee, err := s.addFeeTx(tx, loanID, feeType, amount, description, companyID, vendorID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit fee transaction", err, map[string]interface{}{
			"title_pawn_id": loanID,
		})
		return nil, err
	}

	logger.Info("Fee added", map[string]interface{}{
		"fee_id":        fee.ID,
		"title_pawn_id": loanID,
		"fee_type":      feeType,
		"amount":        amount,
	})
	return fee, nil
}

func (s *feeService) addFeeTx(tx *gorm.DB, loanID uint, feeType model.FeeType, amount decimal.Decimal, description string, companyID uint, vendorID *uint) (*model.Fee, error) {
	pawn, err := s.pawnRepo.FindByIDForUpdate(tx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if pawn.CompanyID != companyID {
		return nil, ErrLoanNotFound
	}

	fee := &model.Fee{
		TitlePawnID: pawn.ID,
		CompanyID:   pawn.CompanyID,
		FeeType:     feeType,
		Amount:      amount,
		Description: description,
		VendorID:    vendorID,
	}
	if err := tx.Create(fee).Error; err != nil {
		logger.Error("Failed to create fee", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	pawn.AdditionalFees = pawn.AdditionalFees.Add(amount)
	pawn.RemainingBalance = pawn.RemainingBalance.Add(amount)
	if err := tx.Save(pawn).Error; err != nil {
		logger.Error("Failed to update loan totals for fee", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	return fee, nil
}

// WaiveFee backs a fee's amount out of the loan's totals without deleting the
// row. Waiving twice is rejected; totals floor at zero.
func (s *feeService) WaiveFee(feeID uint, reason, waivedBy string, companyID uint) (*model.Fee, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var fee model.Fee
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&fee, feeID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		return nil, err
	}
	if fee.CompanyID != companyID {
		tx.Rollback()
		return nil, ErrFeeNotFound
	}
	if fee.IsWaived {
		tx.Rollback()
		logger.Warn("Waive rejected: fee already waived", map[string]interface{}{
			"fee_id": fee.ID,
		})
		return nil, ErrFeeAlreadyWaived
	}

	pawn, err := s.pawnRepo.FindByIDForUpdate(tx, fee.TitlePawnID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	fee.IsWaived = true
	fee.WaivedDate = &now
	fee.WaivedBy = waivedBy
	fee.WaiveReason = reason
	if err := tx.Save(&fee).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to waive fee", err, map[string]interface{}{
			"fee_id": fee.ID,
		})
		return nil, err
	}

	pawn.AdditionalFees = floorZero(pawn.AdditionalFees.Sub(fee.Amount))
	pawn.RemainingBalance = floorZero(pawn.RemainingBalance.Sub(fee.Amount))
	if err := tx.Save(pawn).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update loan totals for waiver", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit waiver transaction", err, map[string]interface{}{
			"fee_id": fee.ID,
		})
		return nil, err
	}

	logger.Info("Fee waived", map[string]interface{}{
		"fee_id":        fee.ID,
		"title_pawn_id": fee.TitlePawnID,
		"amount":        fee.Amount,
		"waived_by":     waivedBy,
	})
	return &fee, nil
}

// ApplyLateFee posts the late charge accrued so far, net of late fees already
// on the ledger. Calling it twice back to back posts nothing the second time.
func (s *feeService) ApplyLateFee(loanID, companyID uint, asOf time.Time) (*model.Fee, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	pawn, err := s.pawnRepo.FindByIDForUpdate(tx, loanID)
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
	if !pawn.IsActive() || !pawn.IsOverdue(asOf) {
		tx.Rollback()
		return nil, ErrLoanNotOverdue
	}

	accumulated := pawn.AccumulatedLateFees(&pawn.Store, asOf)

	alreadyPosted := decimal.Zero
	for i := range pawn.Fees {
		f := &pawn.Fees[i]
		if f.FeeType == model.FeeTypeLate && !f.IsWaived {
			alreadyPosted = alreadyPosted.Add(f.Amount)
		}
	}

	delta := accumulated.Sub(alreadyPosted)
	if delta.LessThanOrEqual(decimal.Zero) {
		tx.Rollback()
		logger.Debug("No late fees to post", map[string]interface{}{
			"title_pawn_id":  pawn.ID,
			"accumulated":    accumulated,
			"already_posted": alreadyPosted,
		})
		return nil, ErrNothingToPost
	}

	daysLate := pawn.BusinessDaysLate(&pawn.Store, asOf)
	description := fmt.Sprintf("Late fee: %d business day(s) late at %s/day",
		daysLate, pawn.DailyLateRate().StringFixed(2))

	fee := &model.Fee{
		TitlePawnID: pawn.ID,
		CompanyID:   pawn.CompanyID,
		FeeType:     model.FeeTypeLate,
		Amount:      delta,
		Description: description,
	}
	if err := tx.Create(fee).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to post late fee", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	pawn.AdditionalFees = pawn.AdditionalFees.Add(delta)
	pawn.RemainingBalance = pawn.RemainingBalance.Add(delta)
	if err := tx.Save(pawn).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update loan totals for late fee", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit late fee transaction", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return nil, err
	}

	logger.Info("Late fee applied", map[string]interface{}{
		"fee_id":        fee.ID,
		"title_pawn_id": pawn.ID,
		"amount":        delta,
		"days_late":     daysLate,
	})
	return fee, nil
}

func (s *feeService) GetTitlePawnFees(loanID, companyID uint) ([]model.Fee, error) {
	pawn, err := s.pawnRepo.FindByID(loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if pawn.CompanyID != companyID {
		return nil, ErrLoanNotFound
	}
	return s.feeRepo.FindByTitlePawn(loanID)
}

// GetTotalActiveFees sums the non-waived ledger rows. It must agree with the
// loan's AdditionalFees running total after every mutating path.
func (s *feeService) GetTotalActiveFees(loanID uint) (decimal.Decimal, error) {
	return s.feeRepo.SumActiveByTitlePawn(loanID)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}
