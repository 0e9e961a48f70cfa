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

type VehicleController struct {
	vehicleService service.VehicleService
}

func NewVehicleController(vehicleService service.VehicleService) *VehicleController {
	return &VehicleController{vehicleService: vehicleService}
}

type VehicleRequest struct {
	CustomerID     uint            `json:"customer_id" binding:"required"`
	VIN            string          `json:"vin" binding:"required"`
	Make           string          `json:"make" binding:"required"`
	Model          string          `json:"model" binding:"required"`
	Year           int             `json:"year" binding:"required"`
	Color          string          `json:"color"`
	LicensePlate   string          `json:"license_plate"`
	Condition      string          `json:"condition"`
	Mileage        *int            `json:"mileage"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

// CreateVehicle registers collateral for a customer
// POST /api/v1/vehicles
func (ctrl *VehicleController) CreateVehicle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid vehicle payload")
		return
	}

	vehicle, err := ctrl.vehicleService.CreateVehicle(&model.Vehicle{
		CustomerID:     req.CustomerID,
		VIN:            req.VIN,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Color:          req.Color,
		LicensePlate:   req.LicensePlate,
		Condition:      req.Condition,
		Mileage:        req.Mileage,
		EstimatedValue: req.EstimatedValue,
	}, companyID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "customer not found")
			return
		}
		log.Error("Failed to create vehicle", err, map[string]interface{}{
			"customer_id": req.CustomerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create vehicle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// GetVehicle returns one vehicle
// GET /api/v1/vehicles/:id
func (ctrl *VehicleController) GetVehicle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vehicle id")
		return
	}

	vehicle, err := ctrl.vehicleService.GetVehicle(uint(id), companyID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "vehicle not found")
			return
		}
		log.Error("Failed to load vehicle", err, map[string]interface{}{
			"vehicle_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// ListByCustomer lists a customer's vehicles
// GET /api/v1/customers/:id/vehicles
func (ctrl *VehicleController) ListByCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	customerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid customer id")
		return
	}

	vehicles, err := ctrl.vehicleService.ListByCustomer(uint(customerID), companyID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "customer not found")
			return
		}
		log.Error("Failed to list vehicles", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list vehicles")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// UpdateVehicle updates collateral details
// PUT /api/v1/vehicles/:id
func (ctrl *VehicleController) UpdateVehicle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid vehicle id")
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid vehicle payload")
		return
	}

	vehicle, err := ctrl.vehicleService.UpdateVehicle(&model.Vehicle{
		ID:             uint(id),
		CustomerID:     req.CustomerID,
		VIN:            req.VIN,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Color:          req.Color,
		LicensePlate:   req.LicensePlate,
		Condition:      req.Condition,
		Mileage:        req.Mileage,
		EstimatedValue: req.EstimatedValue,
	}, companyID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "vehicle not found")
			return
		}
		log.Error("Failed to update vehicle", err, map[string]interface{}{
			"vehicle_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}
