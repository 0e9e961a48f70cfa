package service

import (
	"errors"
	"strings"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/refdata"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrTierNotFound     = errors.New("rate tier not found")
	ErrRuleNotFound     = errors.New("state rule not found")
	ErrInvalidStateCode = errors.New("unknown state code")
	ErrInvalidTierRange = errors.New("tier maximum must not be below minimum")
)

// StoreService administers stores, their rate tiers, and their state ceiling
// rules. Tier writes invalidate the per-store cache consulted by the rate
// policy.
type StoreService interface {
	CreateStore(store *model.Store) (*model.Store, error)
	GetStore(id, companyID uint) (*model.Store, error)
	ListStores(companyID uint) ([]model.Store, error)
	UpdateStore(store *model.Store, companyID uint) (*model.Store, error)

	CreateRateTier(tier *model.InterestRateTier, companyID uint) (*model.InterestRateTier, error)
	UpdateRateTier(tier *model.InterestRateTier, companyID uint) (*model.InterestRateTier, error)
	DeactivateRateTier(tierID, companyID uint) error
	ListRateTiers(storeID, companyID uint) ([]model.InterestRateTier, error)

	CreateStateRule(rule *model.StateSpecialRule, companyID uint) (*model.StateSpecialRule, error)
	UpdateStateRule(rule *model.StateSpecialRule, companyID uint) (*model.StateSpecialRule, error)
	ListStateRules(storeID, companyID uint) ([]model.StateSpecialRule, error)
}

type storeService struct {
	storeRepo     repository.StoreRepository
	tierRepo      repository.RateTierRepository
	stateRuleRepo repository.StateRuleRepository
	states        *refdata.States
	rateService   RateService
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	tierRepo repository.RateTierRepository,
	stateRuleRepo repository.StateRuleRepository,
	states *refdata.States,
	rateService RateService,
) StoreService {
	return &storeService{
		storeRepo:     storeRepo,
		tierRepo:      tierRepo,
		stateRuleRepo: stateRuleRepo,
		states:        states,
		rateService:   rateService,
	}
}

func (s *storeService) CreateStore(store *model.Store) (*model.Store, error) {
	if store.StateCode != "" {
		store.StateCode = strings.ToUpper(store.StateCode)
		if !s.states.IsValidCode(store.StateCode) {
			return nil, ErrInvalidStateCode
		}
	}

	store.IsActive = true
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id":   store.ID,
		"company_id": store.CompanyID,
		"name":       store.Name,
	})
	return store, nil
}

func (s *storeService) GetStore(id, companyID uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.CompanyID != companyID {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

func (s *storeService) ListStores(companyID uint) ([]model.Store, error) {
	return s.storeRepo.FindByCompany(companyID)
}

func (s *storeService) UpdateStore(store *model.Store, companyID uint) (*model.Store, error) {
	existing, err := s.GetStore(store.ID, companyID)
	if err != nil {
		return nil, err
	}
	store.CompanyID = existing.CompanyID

	if store.StateCode != "" {
		store.StateCode = strings.ToUpper(store.StateCode)
		if !s.states.IsValidCode(store.StateCode) {
			return nil, ErrInvalidStateCode
		}
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) CreateRateTier(tier *model.InterestRateTier, companyID uint) (*model.InterestRateTier, error) {
	if _, err := s.GetStore(tier.StoreID, companyID); err != nil {
		return nil, err
	}
	if tier.MaximumPrincipal.LessThan(tier.MinimumPrincipal) {
		return nil, ErrInvalidTierRange
	}

	tier.IsActive = true
	if err := s.tierRepo.Create(tier); err != nil {
		return nil, err
	}

	s.rateService.InvalidateTierCache(tier.StoreID)
	logger.Info("Rate tier created", map[string]interface{}{
		"tier_id":  tier.ID,
		"store_id": tier.StoreID,
		"name":     tier.TierName,
	})
	return tier, nil
}

func (s *storeService) UpdateRateTier(tier *model.InterestRateTier, companyID uint) (*model.InterestRateTier, error) {
	existing, err := s.tierRepo.FindByID(tier.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}
	if _, err := s.GetStore(existing.StoreID, companyID); err != nil {
		return nil, ErrTierNotFound
	}
	if tier.MaximumPrincipal.LessThan(tier.MinimumPrincipal) {
		return nil, ErrInvalidTierRange
	}
	tier.StoreID = existing.StoreID

	if err := s.tierRepo.Update(tier); err != nil {
		return nil, err
	}

	s.rateService.InvalidateTierCache(tier.StoreID)
	return tier, nil
}

func (s *storeService) DeactivateRateTier(tierID, companyID uint) error {
	tier, err := s.tierRepo.FindByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTierNotFound
		}
		return err
	}
	if _, err := s.GetStore(tier.StoreID, companyID); err != nil {
		return ErrTierNotFound
	}

	if err := s.tierRepo.Deactivate(tierID); err != nil {
		return err
	}

	s.rateService.InvalidateTierCache(tier.StoreID)
	logger.Info("Rate tier deactivated", map[string]interface{}{
		"tier_id":  tierID,
		"store_id": tier.StoreID,
	})
	return nil
}

func (s *storeService) ListRateTiers(storeID, companyID uint) ([]model.InterestRateTier, error) {
	if _, err := s.GetStore(storeID, companyID); err != nil {
		return nil, err
	}
	return s.tierRepo.FindAllByStore(storeID)
}

func (s *storeService) CreateStateRule(rule *model.StateSpecialRule, companyID uint) (*model.StateSpecialRule, error) {
	if _, err := s.GetStore(rule.StoreID, companyID); err != nil {
		return nil, err
	}

	rule.StateCode = strings.ToUpper(rule.StateCode)
	name, ok := s.states.Name(rule.StateCode)
	if !ok {
		return nil, ErrInvalidStateCode
	}
	rule.StateName = name
	rule.IsActive = true

	if err := s.stateRuleRepo.Create(rule); err != nil {
		return nil, err
	}

	logger.Info("State rule created", map[string]interface{}{
		"rule_id":    rule.ID,
		"store_id":   rule.StoreID,
		"state_code": rule.StateCode,
	})
	return rule, nil
}

func (s *storeService) UpdateStateRule(rule *model.StateSpecialRule, companyID uint) (*model.StateSpecialRule, error) {
	existing, err := s.stateRuleRepo.FindByID(rule.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	if _, err := s.GetStore(existing.StoreID, companyID); err != nil {
		return nil, ErrRuleNotFound
	}
	rule.StoreID = existing.StoreID
	rule.StateCode = existing.StateCode
	rule.StateName = existing.StateName

	if err := s.stateRuleRepo.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *storeService) ListStateRules(storeID, companyID uint) ([]model.StateSpecialRule, error) {
	if _, err := s.GetStore(storeID, companyID); err != nil {
		return nil, err
	}
	return s.stateRuleRepo.FindByStore(storeID)
}
