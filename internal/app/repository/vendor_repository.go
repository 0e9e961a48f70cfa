package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(vendor *model.Vendor) error
	FindByID(id uint) (*model.Vendor, error)
	FindByCompany(companyID uint, vendorType model.VendorType) ([]model.Vendor, error)
	Update(vendor *model.Vendor) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(vendor *model.Vendor) error {
	if err := r.db.Create(vendor).Error; err != nil {
		logger.Error("Failed to create vendor in database", err, map[string]interface{}{
			"company_id": vendor.CompanyID,
			"name":       vendor.Name,
		})
		return err
	}
	return nil
}

func (r *vendorRepository) FindByID(id uint) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		logger.Error("Failed to find vendor by ID in database", err, map[string]interface{}{
			"vendor_id": id,
		})
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindByCompany(companyID uint, vendorType model.VendorType) ([]model.Vendor, error) {
	query := r.db.Where("company_id = ? AND is_active = ?", companyID, true)
	if vendorType != "" {
		query = query.Where("type = ?", vendorType)
	}

	var vendors []model.Vendor
	if err := query.Order("name ASC").Find(&vendors).Error; err != nil {
		logger.Error("Failed to find vendors by company in database", err, map[string]interface{}{
			"company_id": companyID,
			"type":       vendorType,
		})
		return nil, err
	}
	return vendors, nil
}

func (r *vendorRepository) Update(vendor *model.Vendor) error {
	if err := r.db.Save(vendor).Error; err != nil {
		logger.Error("Failed to update vendor in database", err, map[string]interface{}{
			"vendor_id": vendor.ID,
		})
		return err
	}
	return nil
}
