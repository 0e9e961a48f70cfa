package service

import (
	"testing"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVendorServiceTest(t *testing.T) (VendorService, *gorm.DB, uint) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	vendorRepo := repository.NewVendorRepository(testDB)
	vendorService := NewVendorService(vendorRepo)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	return vendorService, testDB, company.ID
}

func TestVendorService_CreateAndGet(t *testing.T) {
	vendorService, _, companyID := setupVendorServiceTest(t)

	vendor, err := vendorService.CreateVendor(&model.Vendor{
		CompanyID: companyID,
		Name:      "Cobb County Towing",
		Type:      model.VendorTypeTowing,
		Phone:     "770-555-0155",
	})
	require.NoError(t, err)
	assert.NotZero(t, vendor.ID)
	assert.True(t, vendor.IsActive)

	found, err := vendorService.GetVendor(vendor.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Cobb County Towing", found.Name)
}

func TestVendorService_Create_DefaultsToOtherType(t *testing.T) {
	vendorService, _, companyID := setupVendorServiceTest(t)

	vendor, err := vendorService.CreateVendor(&model.Vendor{
		CompanyID: companyID,
		Name:      "Marietta Notary",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VendorTypeOther, vendor.Type)
}

func TestVendorService_Get_WrongCompany(t *testing.T) {
	vendorService, _, companyID := setupVendorServiceTest(t)

	vendor, err := vendorService.CreateVendor(&model.Vendor{
		CompanyID: companyID,
		Name:      "Cobb County Towing",
		Type:      model.VendorTypeTowing,
	})
	require.NoError(t, err)

	_, err = vendorService.GetVendor(vendor.ID, companyID+99)
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestVendorService_ListByType(t *testing.T) {
	vendorService, _, companyID := setupVendorServiceTest(t)

	for _, v := range []model.Vendor{
		{CompanyID: companyID, Name: "Cobb County Towing", Type: model.VendorTypeTowing},
		{CompanyID: companyID, Name: "Atlanta Recovery", Type: model.VendorTypeRepossession},
		{CompanyID: companyID, Name: "Big Chicken Towing", Type: model.VendorTypeTowing},
	} {
		vendor := v
		_, err := vendorService.CreateVendor(&vendor)
		require.NoError(t, err)
	}

	towing, err := vendorService.ListVendors(companyID, model.VendorTypeTowing)
	require.NoError(t, err)
	assert.Len(t, towing, 2)

	all, err := vendorService.ListVendors(companyID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestVendorService_Deactivate_HidesFromListing(t *testing.T) {
	vendorService, _, companyID := setupVendorServiceTest(t)

	vendor, err := vendorService.CreateVendor(&model.Vendor{
		CompanyID: companyID,
		Name:      "Cobb County Towing",
		Type:      model.VendorTypeTowing,
	})
	require.NoError(t, err)

	require.NoError(t, vendorService.DeactivateVendor(vendor.ID, companyID))

	vendors, err := vendorService.ListVendors(companyID, "")
	require.NoError(t, err)
	assert.Empty(t, vendors)
}

func TestVendorService_FeeCarriesVendor(t *testing.T) {
	feeService, _, testDB, pawn := setupFeeServiceTest(t)

	vendorService := NewVendorService(repository.NewVendorRepository(testDB))
	vendor, err := vendorService.CreateVendor(&model.Vendor{
		CompanyID: pawn.CompanyID,
		Name:      "Cobb County Towing",
		Type:      model.VendorTypeTowing,
	})
	require.NoError(t, err)

	fee, err := feeService.AddFee(pawn.ID, model.FeeTypeTowing, decimal.NewFromInt(75), "tow from impound", pawn.CompanyID, &vendor.ID)
	require.NoError(t, err)
	require.NotNil(t, fee.VendorID)
	assert.Equal(t, vendor.ID, *fee.VendorID)
}
