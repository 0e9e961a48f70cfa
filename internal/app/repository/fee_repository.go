package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FeeRepository interface {
	Create(fee *model.Fee) error
	FindByID(id uint) (*model.Fee, error)
	FindByTitlePawn(titlePawnID uint) ([]model.Fee, error)
	FindActiveByTitlePawn(titlePawnID uint) ([]model.Fee, error)
	Update(fee *model.Fee) error
	SumActiveByTitlePawn(titlePawnID uint) (decimal.Decimal, error)
}

type feeRepository struct {
	db *gorm.DB
}

func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) Create(fee *model.Fee) error {
	if err := r.db.Create(fee).Error; err != nil {
		logger.Error("Failed to create fee in database", err, map[string]interface{}{
			"title_pawn_id": fee.TitlePawnID,
			"fee_type":      fee.FeeType,
			"amount":        fee.Amount,
		})
		return err
	}

	logger.Debug("Fee created in database", map[string]interface{}{
		"fee_id":        fee.ID,
		"title_pawn_id": fee.TitlePawnID,
		"fee_type":      fee.FeeType,
	})
	return nil
}

func (r *feeRepository) FindByID(id uint) (*model.Fee, error) {
	var fee model.Fee
	if err := r.db.First(&fee, id).Error; err != nil {
		logger.Error("Failed to find fee by ID in database", err, map[string]interface{}{
			"fee_id": id,
		})
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepository) FindByTitlePawn(titlePawnID uint) ([]model.Fee, error) {
	var fees []model.Fee
	if err := r.db.
		Where("title_pawn_id = ?", titlePawnID).
		Order("created_at ASC").
		Find(&fees).Error; err != nil {
		logger.Error("Failed to find fees by title pawn in database", err, map[string]interface{}{
			"title_pawn_id": titlePawnID,
		})
		return nil, err
	}
	return fees, nil
}

func (r *feeRepository) FindActiveByTitlePawn(titlePawnID uint) ([]model.Fee, error) {
	var fees []model.Fee
	if err := r.db.
		Where("title_pawn_id = ? AND is_waived = ?", titlePawnID, false).
		Order("created_at ASC").
		Find(&fees).Error; err != nil {
		logger.Error("Failed to find active fees by title pawn in database", err, map[string]interface{}{
			"title_pawn_id": titlePawnID,
		})
		return nil, err
	}
	return fees, nil
}

func (r *feeRepository) Update(fee *model.Fee) error {
	if err := r.db.Save(fee).Error; err != nil {
		logger.Error("Failed to update fee in database", err, map[string]interface{}{
			"fee_id": fee.ID,
		})
		return err
	}
	return nil
}

// SumActiveByTitlePawn totals the non-waived fees on a loan straight from the
// ledger. It must always match the loan's AdditionalFees running total.
func (r *feeRepository) SumActiveByTitlePawn(titlePawnID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.Model(&model.Fee{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("title_pawn_id = ? AND is_waived = ?", titlePawnID, false).
		Scan(&result).Error; err != nil {
		logger.Error("Failed to sum active fees in database", err, map[string]interface{}{
			"title_pawn_id": titlePawnID,
		})
		return decimal.Zero, err
	}
	return result.Total, nil
}
