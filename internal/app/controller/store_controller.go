package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
	rateService  service.RateService
}

func NewStoreController(storeService service.StoreService, rateService service.RateService) *StoreController {
	return &StoreController{
		storeService: storeService,
		rateService:  rateService,
	}
}

type StoreRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	StoreCode string `json:"store_code"`
	StateCode string `json:"state_code" binding:"required,len=2"`

	TitleAndKeyFee         *decimal.Decimal `json:"title_and_key_fee"`
	AccrueLateFeesSaturday *bool            `json:"accrue_late_fees_saturday"`
	AccrueLateFeesSunday   *bool            `json:"accrue_late_fees_sunday"`
	LateFeeAccrualHour     *int             `json:"late_fee_accrual_hour"`
}

type RateTierRequest struct {
	StoreID          uint            `json:"store_id" binding:"required"`
	TierName         string          `json:"tier_name" binding:"required"`
	MinimumPrincipal decimal.Decimal `json:"minimum_principal"`
	MaximumPrincipal decimal.Decimal `json:"maximum_principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	Description      string          `json:"description"`
	DisplayOrder     int             `json:"display_order"`
}

type StateRuleRequest struct {
	StoreID                 uint            `json:"store_id" binding:"required"`
	StateCode               string          `json:"state_code" binding:"required,len=2"`
	FirstPeriodDays         int             `json:"first_period_days"`
	FirstPeriodMaxRate      decimal.Decimal `json:"first_period_max_rate"`
	SubsequentPeriodMaxRate decimal.Decimal `json:"subsequent_period_max_rate"`
	AdditionalRules         string          `json:"additional_rules"`
}

func (req *StoreRequest) toModel(companyID uint) *model.Store {
	store := &model.Store{
		CompanyID: companyID,
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		StoreCode: req.StoreCode,
		StateCode: req.StateCode,
		// Model defaults apply unless overridden below.
		AccrueLateFeesSaturday: true,
		LateFeeAccrualHour:     18,
	}
	if req.TitleAndKeyFee != nil {
		store.TitleAndKeyFee = *req.TitleAndKeyFee
	}
	if req.AccrueLateFeesSaturday != nil {
		store.AccrueLateFeesSaturday = *req.AccrueLateFeesSaturday
	}
	if req.AccrueLateFeesSunday != nil {
		store.AccrueLateFeesSunday = *req.AccrueLateFeesSunday
	}
	if req.LateFeeAccrualHour != nil {
		store.LateFeeAccrualHour = *req.LateFeeAccrualHour
	}
	return store
}

func (ctrl *StoreController) respondStoreError(c *gin.Context, err error, operation string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "store not found")
	case errors.Is(err, service.ErrTierNotFound):
		apperrors.NotFound(c, apperrors.TierNotFound, "rate tier not found")
	case errors.Is(err, service.ErrRuleNotFound):
		apperrors.NotFound(c, apperrors.StateRuleNotFound, "state rule not found")
	case errors.Is(err, service.ErrInvalidStateCode):
		apperrors.BadRequest(c, apperrors.StoreInvalidState, "unknown state code")
	case errors.Is(err, service.ErrInvalidTierRange):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "minimum principal must not exceed maximum")
	default:
		log.Error("Store operation failed", err, map[string]interface{}{
			"operation": operation,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, operation)
	}
}

// CreateStore opens a new store location
// POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid store payload")
		return
	}

	store, err := ctrl.storeService.CreateStore(req.toModel(companyID))
	if err != nil {
		ctrl.respondStoreError(c, err, "create store")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"store": store})
}

// GetStore returns one store with its rate tiers and state rules
// GET /api/v1/stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid store id")
		return
	}

	store, err := ctrl.storeService.GetStore(uint(id), companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// ListStores lists the company's stores
// GET /api/v1/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	stores, err := ctrl.storeService.ListStores(companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "list stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// UpdateStore updates store settings including late-fee accrual policy
// PUT /api/v1/stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid store id")
		return
	}

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid store payload")
		return
	}

	input := req.toModel(companyID)
	input.ID = uint(id)

	store, err := ctrl.storeService.UpdateStore(input, companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "update store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// RecommendedRate returns the tier-matched rate for a requested principal
// GET /api/v1/stores/:id/recommended-rate?principal=
func (ctrl *StoreController) RecommendedRate(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid store id")
		return
	}

	principal, err := decimal.NewFromString(c.Query("principal"))
	if err != nil || principal.LessThanOrEqual(decimal.Zero) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "principal must be a positive number")
		return
	}

	// Confirm tenancy before consulting the tier table.
	if _, err := ctrl.storeService.GetStore(uint(id), companyID); err != nil {
		ctrl.respondStoreError(c, err, "get store")
		return
	}

	rate, err := ctrl.rateService.GetRecommendedRate(uint(id), principal, service.DefaultMonthlyRate)
	if err != nil {
		ctrl.respondStoreError(c, err, "get recommended rate")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store_id":  uint(id),
		"principal": principal,
		"rate":      rate,
	})
}

// CreateRateTier adds an interest tier to a store
// POST /api/v1/rate-tiers
func (ctrl *StoreController) CreateRateTier(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req RateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid tier payload")
		return
	}

	tier, err := ctrl.storeService.CreateRateTier(&model.InterestRateTier{
		StoreID:          req.StoreID,
		TierName:         req.TierName,
		MinimumPrincipal: req.MinimumPrincipal,
		MaximumPrincipal: req.MaximumPrincipal,
		InterestRate:     req.InterestRate,
		Description:      req.Description,
		DisplayOrder:     req.DisplayOrder,
	}, companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "create rate tier")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tier": tier})
}

// UpdateRateTier updates a tier's range, rate, or ordering
// PUT /api/v1/rate-tiers/:id
func (ctrl *StoreController) UpdateRateTier(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid tier id")
		return
	}

	var req RateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid tier payload")
		return
	}

	tier, err := ctrl.storeService.UpdateRateTier(&model.InterestRateTier{
		ID:               uint(id),
		StoreID:          req.StoreID,
		TierName:         req.TierName,
		MinimumPrincipal: req.MinimumPrincipal,
		MaximumPrincipal: req.MaximumPrincipal,
		InterestRate:     req.InterestRate,
		Description:      req.Description,
		DisplayOrder:     req.DisplayOrder,
	}, companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "update rate tier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tier": tier})
}

// DeactivateRateTier removes a tier from rate policy without deleting it
// DELETE /api/v1/rate-tiers/:id
func (ctrl *StoreController) DeactivateRateTier(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid tier id")
		return
	}

	if err := ctrl.storeService.DeactivateRateTier(uint(id), companyID); err != nil {
		ctrl.respondStoreError(c, err, "deactivate rate tier")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tier deactivated"})
}

// ListRateTiers lists a store's tiers in display order
// GET /api/v1/stores/:id/tiers
func (ctrl *StoreController) ListRateTiers(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid store id")
		return
	}

	tiers, err := ctrl.storeService.ListRateTiers(uint(id), companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "list rate tiers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

// CreateStateRule adds a state rate-cap rule to a store
// POST /api/v1/state-rules
func (ctrl *StoreController) CreateStateRule(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req StateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid state rule payload")
		return
	}

	rule, err := ctrl.storeService.CreateStateRule(&model.StateSpecialRule{
		StoreID:                 req.StoreID,
		StateCode:               req.StateCode,
		FirstPeriodDays:         req.FirstPeriodDays,
		FirstPeriodMaxRate:      req.FirstPeriodMaxRate,
		SubsequentPeriodMaxRate: req.SubsequentPeriodMaxRate,
		AdditionalRules:         req.AdditionalRules,
	}, companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "create state rule")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"state_rule": rule})
}

// UpdateStateRule updates a state rule's caps
// PUT /api/v1/state-rules/:id
func (ctrl *StoreController) UpdateStateRule(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid state rule id")
		return
	}

	var req StateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid state rule payload")
		return
	}

	rule, err := ctrl.storeService.UpdateStateRule(&model.StateSpecialRule{
		ID:                      uint(id),
		StoreID:                 req.StoreID,
		StateCode:               req.StateCode,
		FirstPeriodDays:         req.FirstPeriodDays,
		FirstPeriodMaxRate:      req.FirstPeriodMaxRate,
		SubsequentPeriodMaxRate: req.SubsequentPeriodMaxRate,
		AdditionalRules:         req.AdditionalRules,
	}, companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "update state rule")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state_rule": rule})
}

// ListStateRules lists a store's state rules
// GET /api/v1/stores/:id/state-rules
func (ctrl *StoreController) ListStateRules(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid store id")
		return
	}

	rules, err := ctrl.storeService.ListStateRules(uint(id), companyID)
	if err != nil {
		ctrl.respondStoreError(c, err, "list state rules")
		return
	}

	c.JSON(http.StatusOK, gin.H{"state_rules": rules})
}
