package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type ApprovalPolicyRepository interface {
	Create(policy *model.ApprovalPolicy) error
	FindByUser(userID uint) (*model.ApprovalPolicy, error)
	Update(policy *model.ApprovalPolicy) error
}

type approvalPolicyRepository struct {
	db *gorm.DB
}

func NewApprovalPolicyRepository(db *gorm.DB) ApprovalPolicyRepository {
	return &approvalPolicyRepository{db: db}
}

func (r *approvalPolicyRepository) Create(policy *model.ApprovalPolicy) error {
	if err := r.db.Create(policy).Error; err != nil {
		logger.Error("Failed to create approval policy in database", err, map[string]interface{}{
			"user_id": policy.UserID,
		})
		return err
	}
	return nil
}

// FindByUser returns the user's active policy; gorm.ErrRecordNotFound means
// the user has none, which callers treat as unlimited.
func (r *approvalPolicyRepository) FindByUser(userID uint) (*model.ApprovalPolicy, error) {
	var policy model.ApprovalPolicy
	if err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&policy).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find approval policy in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &policy, nil
}

func (r *approvalPolicyRepository) Update(policy *model.ApprovalPolicy) error {
	if err := r.db.Save(policy).Error; err != nil {
		logger.Error("Failed to update approval policy in database", err, map[string]interface{}{
			"policy_id": policy.ID,
		})
		return err
	}
	return nil
}
