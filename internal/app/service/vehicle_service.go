package service

import (
	"errors"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

type VehicleService interface {
	CreateVehicle(vehicle *model.Vehicle, companyID uint) (*model.Vehicle, error)
	GetVehicle(id, companyID uint) (*model.Vehicle, error)
	ListByCustomer(customerID, companyID uint) ([]model.Vehicle, error)
	UpdateVehicle(vehicle *model.Vehicle, companyID uint) (*model.Vehicle, error)
	SetDocumentKeys(id, companyID uint, titleKey, photoKey string) (*model.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo  repository.VehicleRepository
	customerRepo repository.CustomerRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, customerRepo repository.CustomerRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, customerRepo: customerRepo}
}

func (s *vehicleService) CreateVehicle(vehicle *model.Vehicle, companyID uint) (*model.Vehicle, error) {
	customer, err := s.customerRepo.FindByID(vehicle.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, ErrCustomerNotFound
	}

	vehicle.IsActive = true
	if err := s.vehicleRepo.Create(vehicle); err != nil {
		return nil, err
	}

	logger.Info("Vehicle created", map[string]interface{}{
		"vehicle_id":  vehicle.ID,
		"customer_id": vehicle.CustomerID,
		"vin":         vehicle.VIN,
	})
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(id, companyID uint) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.Customer.CompanyID != companyID {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

func (s *vehicleService) ListByCustomer(customerID, companyID uint) ([]model.Vehicle, error) {
	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, ErrCustomerNotFound
	}

	return s.vehicleRepo.FindByCustomer(customerID)
}

func (s *vehicleService) UpdateVehicle(vehicle *model.Vehicle, companyID uint) (*model.Vehicle, error) {
	existing, err := s.GetVehicle(vehicle.ID, companyID)
	if err != nil {
		return nil, err
	}
	vehicle.CustomerID = existing.CustomerID

	if err := s.vehicleRepo.Update(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// SetDocumentKeys records where the title scan and vehicle photo landed in
// object storage. Empty arguments leave the existing key alone.
func (s *vehicleService) SetDocumentKeys(id, companyID uint, titleKey, photoKey string) (*model.Vehicle, error) {
	vehicle, err := s.GetVehicle(id, companyID)
	if err != nil {
		return nil, err
	}

	if titleKey != "" {
		vehicle.TitleDocumentKey = titleKey
	}
	if photoKey != "" {
		vehicle.PhotoKey = photoKey
	}

	if err := s.vehicleRepo.Update(vehicle); err != nil {
		return nil, err
	}

	logger.Info("Vehicle document keys updated", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})
	return vehicle, nil
}
