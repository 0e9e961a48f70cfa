package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
)

type VendorController struct {
	vendorService service.VendorService
}

func NewVendorController(vendorService service.VendorService) *VendorController {
	return &VendorController{vendorService: vendorService}
}

type VendorRequest struct {
	Name    string           `json:"name" binding:"required"`
	Type    model.VendorType `json:"type" binding:"omitempty,oneof=towing repossession locksmith other"`
	Phone   string           `json:"phone"`
	Email   string           `json:"email"`
	Address string           `json:"address"`
}

// CreateVendor registers a contractor (towing, repossession) for the caller's
// company
// POST /api/v1/vendors
func (ctrl *VendorController) CreateVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid vendor payload")
		return
	}

	vendor, err := ctrl.vendorService.CreateVendor(&model.Vendor{
		CompanyID: companyID,
		Name:      req.Name,
		Type:      req.Type,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	})
	if err != nil {
		log.Error("Failed to create vendor", err, map[string]interface{}{
			"company_id": companyID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create vendor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}

// GetVendor returns one vendor
// GET /api/v1/vendors/:id
func (ctrl *VendorController) GetVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vendor id")
		return
	}

	vendor, err := ctrl.vendorService.GetVendor(uint(id), companyID)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			apperrors.NotFound(c, apperrors.VendorNotFound, "vendor not found")
			return
		}
		log.Error("Failed to load vendor", err, map[string]interface{}{
			"vendor_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get vendor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// ListVendors lists the company's active vendors, optionally filtered by type
// GET /api/v1/vendors?type=towing
func (ctrl *VendorController) ListVendors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	vendors, err := ctrl.vendorService.ListVendors(companyID, model.VendorType(c.Query("type")))
	if err != nil {
		log.Error("Failed to list vendors", err, map[string]interface{}{
			"company_id": companyID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list vendors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// UpdateVendor updates a vendor's contact details
// PUT /api/v1/vendors/:id
func (ctrl *VendorController) UpdateVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vendor id")
		return
	}

	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid vendor payload")
		return
	}

	vendor, err := ctrl.vendorService.UpdateVendor(&model.Vendor{
		ID:       uint(id),
		Name:     req.Name,
		Type:     req.Type,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		IsActive: true,
	}, companyID)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			apperrors.NotFound(c, apperrors.VendorNotFound, "vendor not found")
			return
		}
		log.Error("Failed to update vendor", err, map[string]interface{}{
			"vendor_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update vendor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// DeactivateVendor soft-deletes a vendor; it drops out of listings but stays
// referenced by historical fees
// DELETE /api/v1/vendors/:id
func (ctrl *VendorController) DeactivateVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vendor id")
		return
	}

	if err := ctrl.vendorService.DeactivateVendor(uint(id), companyID); err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			apperrors.NotFound(c, apperrors.VendorNotFound, "vendor not found")
			return
		}
		log.Error("Failed to deactivate vendor", err, map[string]interface{}{
			"vendor_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "deactivate vendor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "vendor deactivated"})
}
