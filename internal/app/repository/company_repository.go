package repository

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(company *model.Company) error
	FindByID(id uint) (*model.Company, error)
	Update(company *model.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *model.Company) error {
	if err := r.db.Create(company).Error; err != nil {
		logger.Error("Failed to create company in database", err, map[string]interface{}{
			"name": company.Name,
		})
		return err
	}

	logger.Debug("Company created in database", map[string]interface{}{
		"company_id": company.ID,
	})
	return nil
}

func (r *companyRepository) FindByID(id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, id).Error; err != nil {
		logger.Error("Failed to find company by ID in database", err, map[string]interface{}{
			"company_id": id,
		})
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Update(company *model.Company) error {
	if err := r.db.Save(company).Error; err != nil {
		logger.Error("Failed to update company in database", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return err
	}
	return nil
}
