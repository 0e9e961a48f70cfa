package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type RateTierRepository interface {
	Create(tier *model.InterestRateTier) error
	FindByID(id uint) (*model.InterestRateTier, error)
	FindActiveByStore(storeID uint) ([]model.InterestRateTier, error)
	FindAllByStore(storeID uint) ([]model.InterestRateTier, error)
	Update(tier *model.InterestRateTier) error
	Deactivate(id uint) error
}

type rateTierRepository struct {
	db *gorm.DB
}

func NewRateTierRepository(db *gorm.DB) RateTierRepository {
	return &rateTierRepository{db: db}
}

func (r *rateTierRepository) Create(tier *model.InterestRateTier) error {
	if err := r.db.Create(tier).Error; err != nil {
		logger.Error("Failed to create rate tier in database", err, map[string]interface{}{
			"store_id":  tier.StoreID,
			"tier_name": tier.TierName,
		})
		return err
	}
	return nil
}

func (r *rateTierRepository) FindByID(id uint) (*model.InterestRateTier, error) {
	var tier model.InterestRateTier
	if err := r.db.First(&tier, id).Error; err != nil {
		logger.Error("Failed to find rate tier by ID in database", err, map[string]interface{}{
			"tier_id": id,
		})
		return nil, err
	}
	return &tier, nil
}

// FindActiveByStore returns active tiers in consultation order: ascending
// display order, ID as tie-break.
func (r *rateTierRepository) FindActiveByStore(storeID uint) ([]model.InterestRateTier, error) {
	var tiers []model.InterestRateTier
	if err := r.db.
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("display_order ASC, id ASC").
		Find(&tiers).Error; err != nil {
		logger.Error("Failed to find active rate tiers in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return tiers, nil
}

func (r *rateTierRepository) FindAllByStore(storeID uint) ([]model.InterestRateTier, error) {
	var tiers []model.InterestRateTier
	if err := r.db.
		Where("store_id = ?", storeID).
		Order("display_order ASC, id ASC").
		Find(&tiers).Error; err != nil {
		logger.Error("Failed to find rate tiers in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return tiers, nil
}

func (r *rateTierRepository) Update(tier *model.InterestRateTier) error {
	if err := r.db.Save(tier).Error; err != nil {
		logger.Error("Failed to update rate tier in database", err, map[string]interface{}{
			"tier_id": tier.ID,
		})
		return err
	}
	return nil
}

func (r *rateTierRepository) Deactivate(id uint) error {
	if err := r.db.Model(&model.InterestRateTier{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		logger.Error("Failed to deactivate rate tier in database", err, map[string]interface{}{
			"tier_id": id,
		})
		return err
	}
	return nil
}
