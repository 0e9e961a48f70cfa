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
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

type CustomerRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	DriversLicense string `json:"drivers_license"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD

	PlaceOfEmployment     string           `json:"place_of_employment"`
	EmploymentPhoneNumber string           `json:"employment_phone_number"`
	EmploymentAddress     string           `json:"employment_address"`
	YearsEmployed         *int             `json:"years_employed"`
	MonthlyIncome         *decimal.Decimal `json:"monthly_income"`
}

type AddReferenceRequest struct {
	ReferenceName string `json:"reference_name" binding:"required"`
	Relationship  string `json:"relationship" binding:"required"`
	Address       string `json:"address"`
	PhoneNumber   string `json:"phone_number"`
	Email         string `json:"email"`
}

func (req *CustomerRequest) toModel(companyID uint) (*model.Customer, error) {
	customer := &model.Customer{
		CompanyID:             companyID,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		PhoneNumber:           req.PhoneNumber,
		Email:                 req.Email,
		Address:               req.Address,
		DriversLicense:        req.DriversLicense,
		PlaceOfEmployment:     req.PlaceOfEmployment,
		EmploymentPhoneNumber: req.EmploymentPhoneNumber,
		EmploymentAddress:     req.EmploymentAddress,
		YearsEmployed:         req.YearsEmployed,
		MonthlyIncome:         req.MonthlyIncome,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		customer.DateOfBirth = dob
	}
	return customer, nil
}

// CreateCustomer registers a new customer under the caller's company
// POST /api/v1/customers
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid customer payload")
		return
	}

	input, err := req.toModel(companyID)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "date_of_birth must be YYYY-MM-DD")
		return
	}

	customer, err := ctrl.customerService.CreateCustomer(input)
	if err != nil {
		log.Error("Failed to create customer", err, map[string]interface{}{
			"company_id": companyID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// GetCustomer returns one customer with references and vehicles
// GET /api/v1/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid customer id")
		return
	}

	customer, err := ctrl.customerService.GetCustomer(uint(id), companyID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "customer not found")
			return
		}
		log.Error("Failed to load customer", err, map[string]interface{}{
			"customer_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// ListCustomers lists the company's customers, optionally filtered by name
// or phone
// GET /api/v1/customers?search=
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	customers, err := ctrl.customerService.ListCustomers(companyID, c.Query("search"))
	if err != nil {
		log.Error("Failed to list customers", err, map[string]interface{}{
			"company_id": companyID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// UpdateCustomer updates a customer's contact and employment information
// PUT /api/v1/customers/:id
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid customer id")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid customer payload")
		return
	}

	input, err := req.toModel(companyID)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "date_of_birth must be YYYY-MM-DD")
		return
	}
	input.ID = uint(id)

	customer, err := ctrl.customerService.UpdateCustomer(input, companyID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "customer not found")
			return
		}
		log.Error("Failed to update customer", err, map[string]interface{}{
			"customer_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// AddReference attaches a character reference to a customer. Approval needs
// at least three on file.
// POST /api/v1/customers/:id/references
func (ctrl *CustomerController) AddReference(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid customer id")
		return
	}

	var req AddReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid reference payload")
		return
	}

	ref, err := ctrl.customerService.AddReference(uint(id), companyID, &model.CustomerReference{
		ReferenceName: req.ReferenceName,
		Relationship:  req.Relationship,
		Address:       req.Address,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "customer not found")
			return
		}
		log.Error("Failed to add reference", err, map[string]interface{}{
			"customer_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create reference")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reference": ref})
}
