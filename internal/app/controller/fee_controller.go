package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
	ws "github.com/crownpawn/titlepawn-backend/internal/websocket"
)

type FeeController struct {
	feeService    service.FeeService
	vendorService service.VendorService
	hub           *ws.Hub
}

func NewFeeController(feeService service.FeeService, vendorService service.VendorService, hub *ws.Hub) *FeeController {
	return &FeeController{
		feeService:    feeService,
		vendorService: vendorService,
		hub:           hub,
	}
}

type AddFeeRequest struct {
	FeeType     string          `json:"fee_type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	VendorID    *uint           `json:"vendor_id"`
}

type WaiveFeeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (ctrl *FeeController) respondFeeError(c *gin.Context, err error, operation string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrLoanNotFound):
		apperrors.NotFound(c, apperrors.LoanNotFound, "loan not found")
	case errors.Is(err, service.ErrLoanNotActive):
		apperrors.UnprocessableEntity(c, apperrors.LoanNotActive, "loan is not active")
	case errors.Is(err, service.ErrFeeNotFound):
		apperrors.NotFound(c, apperrors.FeeNotFound, "fee not found")
	case errors.Is(err, service.ErrFeeAlreadyWaived):
		apperrors.UnprocessableEntity(c, apperrors.FeeAlreadyWaived, "fee is already waived")
	case errors.Is(err, service.ErrLoanNotOverdue):
		apperrors.UnprocessableEntity(c, apperrors.LoanNotOverdue, "loan is not overdue")
	case errors.Is(err, service.ErrNothingToPost):
		apperrors.UnprocessableEntity(c, apperrors.FeeNothingToPost, "late fees are already up to date")
	case errors.Is(err, service.ErrInvalidAmount):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "amount must be positive")
	default:
		log.Error("Fee operation failed", err, map[string]interface{}{
			"operation": operation,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, operation)
	}
}

// AddFee posts a charge to a loan's fee ledger
// POST /api/v1/title-pawns/:id/fees
func (ctrl *FeeController) AddFee(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	loanID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	var req AddFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid fee payload")
		return
	}

	if req.VendorID != nil {
		if _, err := ctrl.vendorService.GetVendor(*req.VendorID, companyID); err != nil {
			if errors.Is(err, service.ErrVendorNotFound) {
				apperrors.NotFound(c, apperrors.VendorNotFound, "vendor not found")
				return
			}
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create fee")
			return
		}
	}

	fee, err := ctrl.feeService.AddFee(uint(loanID), model.FeeType(req.FeeType), req.Amount, req.Description, companyID, req.VendorID)
	if err != nil {
		ctrl.respondFeeError(c, err, "create fee")
		return
	}

	log.Info("Fee added", map[string]interface{}{
		"title_pawn_id": loanID,
		"fee_id":        fee.ID,
		"fee_type":      fee.FeeType,
		"amount":        fee.Amount.String(),
	})

	ctrl.hub.BroadcastEvent(companyID, ws.EventFeeApplied, uint(loanID), gin.H{
		"fee_type": fee.FeeType,
		"amount":   fee.Amount,
	})

	c.JSON(http.StatusCreated, gin.H{"fee": fee})
}

// WaiveFee backs a fee out of the loan totals and stamps the waiver
// POST /api/v1/fees/:id/waive
func (ctrl *FeeController) WaiveFee(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	feeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid fee id")
		return
	}

	var req WaiveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid waive payload")
		return
	}

	waivedBy, _ := middleware.GetUserEmail(c)

	fee, err := ctrl.feeService.WaiveFee(uint(feeID), req.Reason, waivedBy, companyID)
	if err != nil {
		ctrl.respondFeeError(c, err, "waive fee")
		return
	}

	log.Info("Fee waived", map[string]interface{}{
		"fee_id":    fee.ID,
		"waived_by": waivedBy,
	})

	ctrl.hub.BroadcastEvent(companyID, ws.EventFeeWaived, fee.TitlePawnID, gin.H{
		"fee_id": fee.ID,
		"amount": fee.Amount,
	})

	c.JSON(http.StatusOK, gin.H{"fee": fee})
}

// ApplyLateFee posts the outstanding accumulated late-fee delta
// POST /api/v1/title-pawns/:id/apply-late-fee
func (ctrl *FeeController) ApplyLateFee(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	loanID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	fee, err := ctrl.feeService.ApplyLateFee(uint(loanID), companyID, time.Now())
	if err != nil {
		ctrl.respondFeeError(c, err, "apply late fee")
		return
	}

	log.Info("Late fee applied", map[string]interface{}{
		"title_pawn_id": loanID,
		"fee_id":        fee.ID,
		"amount":        fee.Amount.String(),
	})

	ctrl.hub.BroadcastEvent(companyID, ws.EventFeeApplied, uint(loanID), gin.H{
		"fee_type": fee.FeeType,
		"amount":   fee.Amount,
	})

	c.JSON(http.StatusCreated, gin.H{"fee": fee})
}

// ListFees lists a loan's full fee ledger, waived rows included
// GET /api/v1/title-pawns/:id/fees
func (ctrl *FeeController) ListFees(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	loanID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	fees, err := ctrl.feeService.GetTitlePawnFees(uint(loanID), companyID)
	if err != nil {
		ctrl.respondFeeError(c, err, "list fees")
		return
	}

	c.JSON(http.StatusOK, gin.H{"fees": fees})
}
