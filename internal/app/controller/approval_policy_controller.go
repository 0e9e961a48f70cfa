package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
)

// ApprovalPolicyController manages per-user approval ceilings. Zero-valued
// limits mean unlimited.
type ApprovalPolicyController struct {
	policyService service.ApprovalPolicyService
	authService   service.AuthService
}

func NewApprovalPolicyController(policyService service.ApprovalPolicyService, authService service.AuthService) *ApprovalPolicyController {
	return &ApprovalPolicyController{
		policyService: policyService,
		authService:   authService,
	}
}

type SetPolicyRequest struct {
	ApprovalLimit       decimal.Decimal `json:"approval_limit"`
	DailyApprovalLimit  int             `json:"daily_approval_limit"`
	DailyApprovalAmount decimal.Decimal `json:"daily_approval_amount"`
}

// SetPolicy creates or replaces a user's approval policy
// PUT /api/v1/users/:id/approval-policy
func (ctrl *ApprovalPolicyController) SetPolicy(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid user id")
		return
	}

	var req SetPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid policy payload")
		return
	}

	// The target user must belong to the caller's company.
	user, err := ctrl.authService.GetUserByID(uint(userID))
	if err != nil || user.CompanyID != companyID {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
		return
	}

	policy, err := ctrl.policyService.SetPolicy(&model.ApprovalPolicy{
		UserID:              uint(userID),
		CompanyID:           companyID,
		ApprovalLimit:       req.ApprovalLimit,
		DailyApprovalLimit:  req.DailyApprovalLimit,
		DailyApprovalAmount: req.DailyApprovalAmount,
	})
	if err != nil {
		log.Error("Failed to set approval policy", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update policy")
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy})
}

// GetPolicy returns a user's approval policy; absent means unlimited
// GET /api/v1/users/:id/approval-policy
func (ctrl *ApprovalPolicyController) GetPolicy(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid user id")
		return
	}

	user, err := ctrl.authService.GetUserByID(uint(userID))
	if err != nil || user.CompanyID != companyID {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
		return
	}

	policy, err := ctrl.policyService.GetPolicy(uint(userID))
	if err != nil {
		log.Error("Failed to load approval policy", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get policy")
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy})
}
