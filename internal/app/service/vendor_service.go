package service

import (
	"errors"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrVendorNotFound = errors.New("vendor not found")

type VendorService interface {
	CreateVendor(vendor *model.Vendor) (*model.Vendor, error)
	GetVendor(id, companyID uint) (*model.Vendor, error)
	ListVendors(companyID uint, vendorType model.VendorType) ([]model.Vendor, error)
	UpdateVendor(vendor *model.Vendor, companyID uint) (*model.Vendor, error)
	DeactivateVendor(id, companyID uint) error
}

type vendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

func (s *vendorService) CreateVendor(vendor *model.Vendor) (*model.Vendor, error) {
	if vendor.Type == "" {
		vendor.Type = model.VendorTypeOther
	}
	vendor.IsActive = true
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}

	logger.Info("Vendor created", map[string]interface{}{
		"vendor_id":  vendor.ID,
		"company_id": vendor.CompanyID,
		"type":       vendor.Type,
	})
	return vendor, nil
}

func (s *vendorService) GetVendor(id, companyID uint) (*model.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	if vendor.CompanyID != companyID {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

func (s *vendorService) ListVendors(companyID uint, vendorType model.VendorType) ([]model.Vendor, error) {
	return s.vendorRepo.FindByCompany(companyID, vendorType)
}

func (s *vendorService) UpdateVendor(vendor *model.Vendor, companyID uint) (*model.Vendor, error) {
	existing, err := s.GetVendor(vendor.ID, companyID)
	if err != nil {
		return nil, err
	}
	vendor.CompanyID = existing.CompanyID

	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) DeactivateVendor(id, companyID uint) error {
	vendor, err := s.GetVendor(id, companyID)
	if err != nil {
		return err
	}

	vendor.IsActive = false
	if err := s.vendorRepo.Update(vendor); err != nil {
		return err
	}

	logger.Info("Vendor deactivated", map[string]interface{}{
		"vendor_id":  vendor.ID,
		"company_id": vendor.CompanyID,
	})
	return nil
}
