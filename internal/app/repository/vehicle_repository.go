package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(vehicle *model.Vehicle) error
	FindByID(id uint) (*model.Vehicle, error)
	FindByCustomer(customerID uint) ([]model.Vehicle, error)
	FindByVIN(vin string) (*model.Vehicle, error)
	Update(vehicle *model.Vehicle) error
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(vehicle *model.Vehicle) error {
	if err := r.db.Create(vehicle).Error; err != nil {
		logger.Error("Failed to create vehicle in database", err, map[string]interface{}{
			"customer_id": vehicle.CustomerID,
			"vin":         vehicle.VIN,
		})
		return err
	}

	logger.Debug("Vehicle created in database", map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"vin":        vehicle.VIN,
	})
	return nil
}

func (r *vehicleRepository) FindByID(id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.
		Preload("Customer", func(db *gorm.DB) *gorm.DB {
			return db.Preload("References")
		}).
		First(&vehicle, id).Error; err != nil {
		logger.Error("Failed to find vehicle by ID in database", err, map[string]interface{}{
			"vehicle_id": id,
		})
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByCustomer(customerID uint) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := r.db.
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&vehicles).Error; err != nil {
		logger.Error("Failed to find vehicles by customer in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) FindByVIN(vin string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.
		Preload("Customer").
		Where("vin = ?", vin).
		First(&vehicle).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find vehicle by VIN in database", err, map[string]interface{}{
				"vin": vin,
			})
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) Update(vehicle *model.Vehicle) error {
	if err := r.db.Save(vehicle).Error; err != nil {
		logger.Error("Failed to update vehicle in database", err, map[string]interface{}{
			"vehicle_id": vehicle.ID,
		})
		return err
	}
	return nil
}
