package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type StateRuleRepository interface {
	Create(rule *model.StateSpecialRule) error
	FindByID(id uint) (*model.StateSpecialRule, error)
	FindByStoreAndState(storeID uint, stateCode string) (*model.StateSpecialRule, error)
	FindByStore(storeID uint) ([]model.StateSpecialRule, error)
	Update(rule *model.StateSpecialRule) error
	Delete(id uint) error
}

type stateRuleRepository struct {
	db *gorm.DB
}

func NewStateRuleRepository(db *gorm.DB) StateRuleRepository {
	return &stateRuleRepository{db: db}
}

func (r *stateRuleRepository) Create(rule *model.StateSpecialRule) error {
	if err := r.db.Create(rule).Error; err != nil {
		logger.Error("Failed to create state rule in database", err, map[string]interface{}{
			"store_id":   rule.StoreID,
			"state_code": rule.StateCode,
		})
		return err
	}
	return nil
}

func (r *stateRuleRepository) FindByID(id uint) (*model.StateSpecialRule, error) {
	var rule model.StateSpecialRule
	if err := r.db.First(&rule, id).Error; err != nil {
		logger.Error("Failed to find state rule by ID in database", err, map[string]interface{}{
			"rule_id": id,
		})
		return nil, err
	}
	return &rule, nil
}

func (r *stateRuleRepository) FindByStoreAndState(storeID uint, stateCode string) (*model.StateSpecialRule, error) {
	var rule model.StateSpecialRule
	if err := r.db.
		Where("store_id = ? AND state_code = ? AND is_active = ?", storeID, stateCode, true).
		First(&rule).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find state rule in database", err, map[string]interface{}{
				"store_id":   storeID,
				"state_code": stateCode,
			})
		}
		return nil, err
	}
	return &rule, nil
}

func (r *stateRuleRepository) FindByStore(storeID uint) ([]model.StateSpecialRule, error) {
	var rules []model.StateSpecialRule
	if err := r.db.
		Where("store_id = ?", storeID).
		Order("state_code ASC").
		Find(&rules).Error; err != nil {
		logger.Error("Failed to find state rules by store in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return rules, nil
}

func (r *stateRuleRepository) Update(rule *model.StateSpecialRule) error {
	if err := r.db.Save(rule).Error; err != nil {
		logger.Error("Failed to update state rule in database", err, map[string]interface{}{
			"rule_id": rule.ID,
		})
		return err
	}
	return nil
}

func (r *stateRuleRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.StateSpecialRule{}, id).Error; err != nil {
		logger.Error("Failed to delete state rule in database", err, map[string]interface{}{
			"rule_id": id,
		})
		return err
	}
	return nil
}
