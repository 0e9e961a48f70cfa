package repository

import (
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(payment *model.Payment) error
	FindByID(id uint) (*model.Payment, error)
	FindByTitlePawn(titlePawnID uint) ([]model.Payment, error)
	FindByCompanyBetween(companyID uint, from, to time.Time) ([]model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	if err := r.db.Create(payment).Error; err != nil {
		logger.Error("Failed to create payment in database", err, map[string]interface{}{
			"title_pawn_id": payment.TitlePawnID,
			"amount":        payment.Amount,
		})
		return err
	}

	logger.Debug("Payment created in database", map[string]interface{}{
		"payment_id":    payment.ID,
		"title_pawn_id": payment.TitlePawnID,
		"receipt":       payment.ReceiptNumber,
	})
	return nil
}

func (r *paymentRepository) FindByID(id uint) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		logger.Error("Failed to find payment by ID in database", err, map[string]interface{}{
			"payment_id": id,
		})
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByTitlePawn(titlePawnID uint) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.
		Where("title_pawn_id = ?", titlePawnID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		logger.Error("Failed to find payments by title pawn in database", err, map[string]interface{}{
			"title_pawn_id": titlePawnID,
		})
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) FindByCompanyBetween(companyID uint, from, to time.Time) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.
		Preload("TitlePawn").
		Where("company_id = ? AND payment_date >= ? AND payment_date < ?", companyID, from, to).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		logger.Error("Failed to find payments by company and range in database", err, map[string]interface{}{
			"company_id": companyID,
			"from":       from,
			"to":         to,
		})
		return nil, err
	}
	return payments, nil
}
