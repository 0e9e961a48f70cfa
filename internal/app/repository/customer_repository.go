package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByCompany(companyID uint, search string) ([]model.Customer, error)
	Update(customer *model.Customer) error
	AddReference(ref *model.CustomerReference) error
	CountReferences(customerID uint) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"company_id": customer.CompanyID,
			"last_name":  customer.LastName,
		})
		return err
	}

	logger.Debug("Customer created in database", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.
		Preload("References").
		Preload("Vehicles").
		First(&customer, id).Error; err != nil {
		logger.Error("Failed to find customer by ID in database", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByCompany(companyID uint, search string) ([]model.Customer, error) {
	query := r.db.Preload("References").Where("company_id = ?", companyID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR phone_number LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var customers []model.Customer
	if err := query.Order("last_name ASC, first_name ASC").Find(&customers).Error; err != nil {
		logger.Error("Failed to find customers by company in database", err, map[string]interface{}{
			"company_id": companyID,
			"search":     search,
		})
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	if err := r.db.Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}
	return nil
}

func (r *customerRepository) AddReference(ref *model.CustomerReference) error {
	if err := r.db.Create(ref).Error; err != nil {
		logger.Error("Failed to add customer reference in database", err, map[string]interface{}{
			"customer_id": ref.CustomerID,
		})
		return err
	}
	return nil
}

func (r *customerRepository) CountReferences(customerID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.CustomerReference{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count customer references in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return 0, err
	}
	return count, nil
}
