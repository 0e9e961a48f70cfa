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

type TitlePawnController struct {
	pawnService     service.TitlePawnService
	customerService service.CustomerService
	policyService   service.ApprovalPolicyService
	rateService     service.RateService
	scheduleService service.PaymentScheduleService
	hub             *ws.Hub
}

func NewTitlePawnController(
	pawnService service.TitlePawnService,
	customerService service.CustomerService,
	policyService service.ApprovalPolicyService,
	rateService service.RateService,
	scheduleService service.PaymentScheduleService,
	hub *ws.Hub,
) *TitlePawnController {
	return &TitlePawnController{
		pawnService:     pawnService,
		customerService: customerService,
		policyService:   policyService,
		rateService:     rateService,
		scheduleService: scheduleService,
		hub:             hub,
	}
}

type CreateTitlePawnRequest struct {
	StoreID             uint            `json:"store_id" binding:"required"`
	VehicleID           uint            `json:"vehicle_id" binding:"required"`
	LoanAmountRequested decimal.Decimal `json:"loan_amount_requested" binding:"required"`
}

type ApproveTitlePawnRequest struct {
	ApprovedAmount decimal.Decimal  `json:"approved_amount" binding:"required"`
	MonthlyRate    *decimal.Decimal `json:"monthly_rate"` // nil: use the store's tier rate
	Notes          string           `json:"notes"`
}

type ProcessPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentType   string          `json:"payment_type" binding:"required,oneof=minimum extra payoff"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=cash check card transfer"`
}

func (ctrl *TitlePawnController) respondLoanError(c *gin.Context, err error, operation string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrLoanNotFound):
		apperrors.NotFound(c, apperrors.LoanNotFound, "loan not found")
	case errors.Is(err, service.ErrLoanNotPending):
		apperrors.UnprocessableEntity(c, apperrors.LoanNotPending, "loan is not pending approval")
	case errors.Is(err, service.ErrLoanNotActive):
		apperrors.UnprocessableEntity(c, apperrors.LoanNotActive, "loan is not active")
	case errors.Is(err, service.ErrInvalidAmount):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "amount must be positive")
	case errors.Is(err, service.ErrPaymentTooLow):
		apperrors.UnprocessableEntity(c, apperrors.PaymentTooLow, "payment is below the minimum interest due")
	case errors.Is(err, service.ErrPayoffInsufficient):
		apperrors.UnprocessableEntity(c, apperrors.PaymentPayoffInsufficient, "payoff amount does not satisfy the loan")
	default:
		log.Error("Loan operation failed", err, map[string]interface{}{
			"operation": operation,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, operation)
	}
}

// CreateTitlePawn opens a pending loan application
// POST /api/v1/title-pawns
func (ctrl *TitlePawnController) CreateTitlePawn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	var req CreateTitlePawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid loan payload")
		return
	}

	pawn, err := ctrl.pawnService.CreateTitlePawn(service.CreateTitlePawnInput{
		CompanyID:           companyID,
		StoreID:             req.StoreID,
		VehicleID:           req.VehicleID,
		LoanAmountRequested: req.LoanAmountRequested,
	})
	if err != nil {
		ctrl.respondLoanError(c, err, "create loan")
		return
	}

	log.Info("Title pawn created", map[string]interface{}{
		"title_pawn_id": pawn.ID,
		"company_id":    companyID,
	})

	c.JSON(http.StatusCreated, gin.H{"title_pawn": pawn})
}

// GetTitlePawn returns one loan with store, vehicle, payments, and fees
// GET /api/v1/title-pawns/:id
func (ctrl *TitlePawnController) GetTitlePawn(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	pawn, err := ctrl.pawnService.GetTitlePawn(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "get loan")
		return
	}

	c.JSON(http.StatusOK, gin.H{"title_pawn": pawn})
}

// ListTitlePawns lists the company's loans, optionally by status
// GET /api/v1/title-pawns?status=
func (ctrl *TitlePawnController) ListTitlePawns(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	pawns, err := ctrl.pawnService.GetCompanyLoans(companyID, model.TitlePawnStatus(c.Query("status")))
	if err != nil {
		ctrl.respondLoanError(c, err, "list loans")
		return
	}

	c.JSON(http.StatusOK, gin.H{"title_pawns": pawns})
}

// SignContract records the customer's signature on a pending loan
// POST /api/v1/title-pawns/:id/sign
func (ctrl *TitlePawnController) SignContract(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	pawn, err := ctrl.pawnService.SignContract(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "sign contract")
		return
	}

	c.JSON(http.StatusOK, gin.H{"title_pawn": pawn})
}

// ApproveTitlePawn funds a pending loan. Gates: the customer needs three
// references on file, a signed contract, and the approving user must be
// within their approval policy.
// POST /api/v1/title-pawns/:id/approve
func (ctrl *TitlePawnController) ApproveTitlePawn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	var req ApproveTitlePawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid approval payload")
		return
	}
	if req.ApprovedAmount.LessThanOrEqual(decimal.Zero) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "approved amount must be positive")
		return
	}

	pawn, err := ctrl.pawnService.GetTitlePawn(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "get loan")
		return
	}

	if !pawn.ContractSigned {
		apperrors.UnprocessableEntity(c, apperrors.LoanContractNotSigned, "contract must be signed before approval")
		return
	}

	hasRefs, err := ctrl.customerService.HasRequiredReferences(pawn.Vehicle.CustomerID, companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "check references")
		return
	}
	if !hasRefs {
		apperrors.UnprocessableEntity(c, apperrors.LoanInsufficientRefs, "customer needs at least three references on file")
		return
	}

	if err := ctrl.policyService.CanApprove(userID, req.ApprovedAmount, time.Now()); err != nil {
		switch {
		case errors.Is(err, service.ErrApprovalLimitExceeded):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzApprovalLimit, "amount exceeds your approval limit")
		case errors.Is(err, service.ErrDailyApprovalLimitExceeded):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzDailyApprovalLimit, "daily approval limit reached")
		default:
			ctrl.respondLoanError(c, err, "check approval policy")
		}
		return
	}

	var rate decimal.Decimal
	if req.MonthlyRate != nil && req.MonthlyRate.GreaterThan(decimal.Zero) {
		rate = *req.MonthlyRate
	} else {
		rate, err = ctrl.rateService.GetRecommendedRate(pawn.StoreID, req.ApprovedAmount, service.DefaultMonthlyRate)
		if err != nil {
			ctrl.respondLoanError(c, err, "get recommended rate")
			return
		}
	}

	approved, err := ctrl.pawnService.ApproveTitlePawn(uint(id), req.ApprovedAmount, rate, userID, req.Notes, companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "approve loan")
		return
	}

	log.Info("Title pawn approved", map[string]interface{}{
		"title_pawn_id":   approved.ID,
		"approved_amount": approved.LoanAmountApproved.String(),
		"interest_rate":   approved.InterestRate.String(),
		"approved_by":     userID,
	})

	ctrl.hub.BroadcastEvent(companyID, ws.EventLoanApproved, approved.ID, gin.H{
		"approved_amount": approved.LoanAmountApproved,
		"interest_rate":   approved.InterestRate,
		"maturity_date":   approved.LoanMaturityDate,
	})

	c.JSON(http.StatusOK, gin.H{"title_pawn": approved})
}

// ProcessPayment applies a payment; the loan either pays off or rolls into a
// renewal.
// POST /api/v1/title-pawns/:id/payments
func (ctrl *TitlePawnController) ProcessPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid payment payload")
		return
	}

	result, err := ctrl.pawnService.ProcessPayment(
		uint(id),
		req.Amount,
		model.PaymentType(req.PaymentType),
		model.PaymentMethod(req.PaymentMethod),
		companyID,
	)
	if err != nil {
		ctrl.respondLoanError(c, err, "process payment")
		return
	}

	log.Info("Payment processed", map[string]interface{}{
		"title_pawn_id": result.Loan.ID,
		"amount":        result.Payment.Amount.String(),
		"outcome":       result.Outcome,
	})

	ctrl.hub.BroadcastEvent(companyID, ws.EventPaymentReceived, result.Loan.ID, gin.H{
		"amount":         result.Payment.Amount,
		"receipt_number": result.Payment.ReceiptNumber,
	})
	switch result.Outcome {
	case service.OutcomePaidOff:
		ctrl.hub.BroadcastEvent(companyID, ws.EventLoanPaidOff, result.Loan.ID, nil)
	case service.OutcomeRenewed:
		ctrl.hub.BroadcastEvent(companyID, ws.EventLoanRenewed, result.Loan.ID, gin.H{
			"renewed_loan_id": result.RenewedLoan.ID,
			"new_principal":   result.RenewedLoan.LoanAmountApproved,
		})
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// RenewLoan manually extends an active loan's term dates
// POST /api/v1/title-pawns/:id/renew
func (ctrl *TitlePawnController) RenewLoan(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	pawn, err := ctrl.pawnService.RenewLoan(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "renew loan")
		return
	}

	ctrl.hub.BroadcastEvent(companyID, ws.EventLoanRenewed, pawn.ID, gin.H{
		"maturity_date": pawn.LoanMaturityDate,
	})

	c.JSON(http.StatusOK, gin.H{"title_pawn": pawn})
}

// MinimumPayment returns the interest-only minimum for the period
// GET /api/v1/title-pawns/:id/minimum-payment
func (ctrl *TitlePawnController) MinimumPayment(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	minimum, err := ctrl.pawnService.CalculateMinimumPayment(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "get minimum payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"minimum_payment": minimum})
}

// PayoffQuote returns the amount that fully satisfies the loan right now
// GET /api/v1/title-pawns/:id/payoff-quote
func (ctrl *TitlePawnController) PayoffQuote(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	quote, err := ctrl.pawnService.PayoffQuote(uint(id), companyID, time.Now())
	if err != nil {
		ctrl.respondLoanError(c, err, "get payoff quote")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payoff_amount": quote})
}

// Schedule projects payment tracks for the loan's current terms. With a
// payment amount it also estimates months to payoff at that fixed payment.
// GET /api/v1/title-pawns/:id/schedule?periods=&payment=
func (ctrl *TitlePawnController) Schedule(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	periods := 0
	if p := c.Query("periods"); p != "" {
		periods, err = strconv.Atoi(p)
		if err != nil || periods < 1 || periods > 120 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "periods must be between 1 and 120")
			return
		}
	}

	pawn, err := ctrl.pawnService.GetTitlePawn(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "get loan")
		return
	}

	schedule := ctrl.scheduleService.GenerateSchedule(pawn.LoanAmountApproved, pawn.InterestRate, periods)

	body := gin.H{"schedule": schedule}
	if p := c.Query("payment"); p != "" {
		payment, err := decimal.NewFromString(p)
		if err != nil || payment.LessThanOrEqual(decimal.Zero) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "payment must be a positive amount")
			return
		}
		body["payoff_months"] = ctrl.scheduleService.CalculatePayoffMonths(pawn.LoanAmountApproved, pawn.InterestRate, payment)
	}

	c.JSON(http.StatusOK, body)
}

// Compliance evaluates the loan's rate against its store's state rule
// GET /api/v1/title-pawns/:id/compliance
func (ctrl *TitlePawnController) Compliance(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid loan id")
		return
	}

	pawn, err := ctrl.pawnService.GetTitlePawn(uint(id), companyID)
	if err != nil {
		ctrl.respondLoanError(c, err, "get loan")
		return
	}

	result, err := ctrl.rateService.CheckLoanCompliance(pawn, pawn.Store.StateCode, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrStateRuleNotFound) {
			apperrors.NotFound(c, apperrors.StateRuleNotFound, "no state rule configured for this store")
			return
		}
		ctrl.respondLoanError(c, err, "check compliance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"compliance": result})
}
