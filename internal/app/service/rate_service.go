package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/crownpawn/titlepawn-backend/pkg/redis"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrStateRuleNotFound = errors.New("no state rule configured for store and state")
)

// DefaultMonthlyRate is the fallback monthly rate (percent) when no tier
// matches the principal.
var DefaultMonthlyRate = decimal.NewFromFloat(1.5)

// TierCache caches per-store active tier snapshots. A nil cache is valid and
// means every lookup hits the database.
type TierCache interface {
	Get(ctx context.Context, storeID uint) ([]model.InterestRateTier, bool)
	Set(ctx context.Context, storeID uint, tiers []model.InterestRateTier)
	Invalidate(ctx context.Context, storeID uint)
}

// ComplianceResult is the outcome of checking a loan's rate against a state's
// ceiling schedule.
type ComplianceResult struct {
	Compliant   bool            `json:"compliant"`
	MaxRate     decimal.Decimal `json:"max_rate"`
	CurrentRate decimal.Decimal `json:"current_rate"`
	DaysElapsed int             `json:"days_elapsed"`
	StateCode   string          `json:"state_code"`
}

type RateService interface {
	GetApplicableTier(storeID uint, principal decimal.Decimal) (*model.InterestRateTier, error)
	GetRecommendedRate(storeID uint, principal, fallback decimal.Decimal) (decimal.Decimal, error)
	MaxRateForElapsedDays(rule *model.StateSpecialRule, daysElapsed int) decimal.Decimal
	IsCompliant(rate decimal.Decimal, rule *model.StateSpecialRule, daysElapsed int) bool
	CheckLoanCompliance(loan *model.TitlePawn, stateCode string, asOf time.Time) (*ComplianceResult, error)
	InvalidateTierCache(storeID uint)
}

type rateService struct {
	tierRepo      repository.RateTierRepository
	stateRuleRepo repository.StateRuleRepository
	cache         TierCache
}

func NewRateService(
	tierRepo repository.RateTierRepository,
	stateRuleRepo repository.StateRuleRepository,
	cache TierCache,
) RateService {
	return &rateService{
		tierRepo:      tierRepo,
		stateRuleRepo: stateRuleRepo,
		cache:         cache,
	}
}

// GetApplicableTier returns the first active tier, in ascending display order,
// whose inclusive principal range contains the principal. Nil (no error) when
// the principal is non-positive or nothing matches: tiers are advisory.
func (s *rateService) GetApplicableTier(storeID uint, principal decimal.Decimal) (*model.InterestRateTier, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	tiers, err := s.activeTiers(storeID)
	if err != nil {
		return nil, err
	}

	for i := range tiers {
		if tiers[i].ContainsPrincipal(principal) {
			logger.Debug("Applicable rate tier found", map[string]interface{}{
				"store_id":  storeID,
				"principal": principal,
				"tier_id":   tiers[i].ID,
				"tier_name": tiers[i].TierName,
			})
			return &tiers[i], nil
		}
	}

	logger.Debug("No rate tier matches principal", map[string]interface{}{
		"store_id":  storeID,
		"principal": principal,
	})
	return nil, nil
}

// GetRecommendedRate returns the matched tier's rate, or the fallback when no
// tier applies.
func (s *rateService) GetRecommendedRate(storeID uint, principal, fallback decimal.Decimal) (decimal.Decimal, error) {
	tier, err := s.GetApplicableTier(storeID, principal)
	if err != nil {
		return decimal.Zero, err
	}
	if tier == nil {
		return fallback, nil
	}
	return tier.InterestRate, nil
}

func (s *rateService) MaxRateForElapsedDays(rule *model.StateSpecialRule, daysElapsed int) decimal.Decimal {
	return rule.MaxRateForElapsedDays(daysElapsed)
}

func (s *rateService) IsCompliant(rate decimal.Decimal, rule *model.StateSpecialRule, daysElapsed int) bool {
	return rule.IsRateCompliant(rate, daysElapsed)
}

// CheckLoanCompliance evaluates the loan's rate against the store's ceiling
// schedule for the given state at the loan's current age.
func (s *rateService) CheckLoanCompliance(loan *model.TitlePawn, stateCode string, asOf time.Time) (*ComplianceResult, error) {
	rule, err := s.stateRuleRepo.FindByStoreAndState(loan.StoreID, stateCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStateRuleNotFound
		}
		return nil, err
	}

	daysElapsed := int(asOf.Sub(loan.LoanStartDate).Hours() / 24)
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	maxRate := rule.MaxRateForElapsedDays(daysElapsed)
	result := &ComplianceResult{
		Compliant:   rule.IsRateCompliant(loan.InterestRate, daysElapsed),
		MaxRate:     maxRate,
		CurrentRate: loan.InterestRate,
		DaysElapsed: daysElapsed,
		StateCode:   stateCode,
	}

	if !result.Compliant {
		logger.Warn("Loan rate exceeds state ceiling", map[string]interface{}{
			"title_pawn_id": loan.ID,
			"state_code":    stateCode,
			"rate":          loan.InterestRate,
			"max_rate":      maxRate,
			"days_elapsed":  daysElapsed,
		})
	}
	return result, nil
}

func (s *rateService) InvalidateTierCache(storeID uint) {
	if s.cache != nil {
		s.cache.Invalidate(context.Background(), storeID)
	}
}

func (s *rateService) activeTiers(storeID uint) ([]model.InterestRateTier, error) {
	ctx := context.Background()

	if s.cache != nil {
		if tiers, ok := s.cache.Get(ctx, storeID); ok {
			return tiers, nil
		}
	}

	tiers, err := s.tierRepo.FindActiveByStore(storeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, storeID, tiers)
	}
	return tiers, nil
}

// redisTierCache backs TierCache with the shared Redis client.
type redisTierCache struct {
	ttl time.Duration
}

func NewRedisTierCache(ttl time.Duration) TierCache {
	return &redisTierCache{ttl: ttl}
}

func (c *redisTierCache) Get(ctx context.Context, storeID uint) ([]model.InterestRateTier, bool) {
	payload, err := redis.GetCachedRateTiers(ctx, storeID)
	if err != nil || payload == nil {
		return nil, false
	}

	var tiers []model.InterestRateTier
	if err := json.Unmarshal(payload, &tiers); err != nil {
		logger.Warn("Dropping unreadable tier cache entry", map[string]interface{}{
			"store_id": storeID,
		})
		_ = redis.InvalidateRateTiers(ctx, storeID)
		return nil, false
	}
	return tiers, true
}

func (c *redisTierCache) Set(ctx context.Context, storeID uint, tiers []model.InterestRateTier) {
	payload, err := json.Marshal(tiers)
	if err != nil {
		return
	}
	if err := redis.CacheRateTiers(ctx, storeID, payload, c.ttl); err != nil {
		logger.Warn("Failed to cache rate tiers", map[string]interface{}{
			"store_id": storeID,
		})
	}
}

func (c *redisTierCache) Invalidate(ctx context.Context, storeID uint) {
	if err := redis.InvalidateRateTiers(ctx, storeID); err != nil {
		logger.Warn("Failed to invalidate tier cache", map[string]interface{}{
			"store_id": storeID,
		})
	}
}
