package service

import (
	"errors"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService interface {
	CreateCustomer(customer *model.Customer) (*model.Customer, error)
	GetCustomer(id, companyID uint) (*model.Customer, error)
	ListCustomers(companyID uint, search string) ([]model.Customer, error)
	UpdateCustomer(customer *model.Customer, companyID uint) (*model.Customer, error)
	AddReference(customerID, companyID uint, ref *model.CustomerReference) (*model.CustomerReference, error)
	HasRequiredReferences(customerID, companyID uint) (bool, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(customer *model.Customer) (*model.Customer, error) {
	customer.IsActive = true
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	logger.Info("Customer created", map[string]interface{}{
		"customer_id": customer.ID,
		"company_id":  customer.CompanyID,
	})
	return customer, nil
}

func (s *customerService) GetCustomer(id, companyID uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func (s *customerService) ListCustomers(companyID uint, search string) ([]model.Customer, error) {
	return s.customerRepo.FindByCompany(companyID, search)
}

func (s *customerService) UpdateCustomer(customer *model.Customer, companyID uint) (*model.Customer, error) {
	existing, err := s.GetCustomer(customer.ID, companyID)
	if err != nil {
		return nil, err
	}
	customer.CompanyID = existing.CompanyID

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) AddReference(customerID, companyID uint, ref *model.CustomerReference) (*model.CustomerReference, error) {
	if _, err := s.GetCustomer(customerID, companyID); err != nil {
		return nil, err
	}

	ref.CustomerID = customerID
	if err := s.customerRepo.AddReference(ref); err != nil {
		return nil, err
	}

	logger.Info("Customer reference added", map[string]interface{}{
		"customer_id":  customerID,
		"reference_id": ref.ID,
	})
	return ref, nil
}

// HasRequiredReferences is the approval gate: the customer needs at least
// three character references on file.
func (s *customerService) HasRequiredReferences(customerID, companyID uint) (bool, error) {
	if _, err := s.GetCustomer(customerID, companyID); err != nil {
		return false, err
	}

	count, err := s.customerRepo.CountReferences(customerID)
	if err != nil {
		return false, err
	}
	return count >= model.MinReferencesForApproval, nil
}
