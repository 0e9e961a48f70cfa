package service

import (
	"errors"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrApprovalLimitExceeded      = errors.New("amount exceeds the user's approval limit")
	ErrDailyApprovalLimitExceeded = errors.New("user's daily approval limit reached")
)

// ApprovalPolicyService answers whether a user may approve a loan of a given
// size today. The lifecycle service never consults it; authorization happens
// before the money math runs.
type ApprovalPolicyService interface {
	CanApprove(userID uint, amount decimal.Decimal, asOf time.Time) error
	SetPolicy(policy *model.ApprovalPolicy) (*model.ApprovalPolicy, error)
	GetPolicy(userID uint) (*model.ApprovalPolicy, error)
}

type approvalPolicyService struct {
	policyRepo repository.ApprovalPolicyRepository
	pawnRepo   repository.TitlePawnRepository
}

func NewApprovalPolicyService(
	policyRepo repository.ApprovalPolicyRepository,
	pawnRepo repository.TitlePawnRepository,
) ApprovalPolicyService {
	return &approvalPolicyService{policyRepo: policyRepo, pawnRepo: pawnRepo}
}

// CanApprove checks the per-loan ceiling and the daily count/dollar limits.
// A user without a policy, or with zero-valued limits, is unlimited.
func (s *approvalPolicyService) CanApprove(userID uint, amount decimal.Decimal, asOf time.Time) error {
	policy, err := s.policyRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if !policy.AllowsAmount(amount) {
		logger.Warn("Approval blocked by per-loan ceiling", map[string]interface{}{
			"user_id": userID,
			"amount":  amount,
			"limit":   policy.ApprovalLimit,
		})
		return ErrApprovalLimitExceeded
	}

	if policy.DailyApprovalLimit <= 0 && policy.DailyApprovalAmount.IsZero() {
		return nil
	}

	count, total, err := s.pawnRepo.CountApprovedByUserOnDate(userID, asOf)
	if err != nil {
		return err
	}

	if policy.DailyApprovalLimit > 0 && count >= int64(policy.DailyApprovalLimit) {
		logger.Warn("Approval blocked by daily count limit", map[string]interface{}{
			"user_id":     userID,
			"today_count": count,
			"limit":       policy.DailyApprovalLimit,
		})
		return ErrDailyApprovalLimitExceeded
	}

	if !policy.DailyApprovalAmount.IsZero() &&
		total.Add(amount).GreaterThan(policy.DailyApprovalAmount) {
		logger.Warn("Approval blocked by daily dollar limit", map[string]interface{}{
			"user_id":     userID,
			"today_total": total,
			"amount":      amount,
			"limit":       policy.DailyApprovalAmount,
		})
		return ErrDailyApprovalLimitExceeded
	}

	return nil
}

func (s *approvalPolicyService) SetPolicy(policy *model.ApprovalPolicy) (*model.ApprovalPolicy, error) {
	existing, err := s.policyRepo.FindByUser(policy.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.ApprovalLimit = policy.ApprovalLimit
		existing.DailyApprovalLimit = policy.DailyApprovalLimit
		existing.DailyApprovalAmount = policy.DailyApprovalAmount
		existing.IsActive = true
		if err := s.policyRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	policy.IsActive = true
	if err := s.policyRepo.Create(policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *approvalPolicyService) GetPolicy(userID uint) (*model.ApprovalPolicy, error) {
	policy, err := s.policyRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return policy, nil
}
