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

func setupVehicleServiceTest(t *testing.T) (VehicleService, *gorm.DB, *model.Customer) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	vehicleRepo := repository.NewVehicleRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	vehicleService := NewVehicleService(vehicleRepo, customerRepo)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	customer := &model.Customer{CompanyID: company.ID, FirstName: "Dana", LastName: "Whitfield", IsActive: true}
	testDB.Create(customer)

	return vehicleService, testDB, customer
}

func TestVehicleService_CreateAndGet(t *testing.T) {
	vehicleService, _, customer := setupVehicleServiceTest(t)

	vehicle, err := vehicleService.CreateVehicle(&model.Vehicle{
		CustomerID:     customer.ID,
		VIN:            "1FTSW21P345EB10322",
		Make:           "Ford",
		Model:          "F-250",
		Year:           2014,
		EstimatedValue: decimal.NewFromInt(8500),
	}, customer.CompanyID)
	require.NoError(t, err)
	assert.NotZero(t, vehicle.ID)
	assert.True(t, vehicle.IsActive)

	found, err := vehicleService.GetVehicle(vehicle.ID, customer.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "1FTSW21P345EB10322", found.VIN)
}

func TestVehicleService_Create_CrossTenantCustomer(t *testing.T) {
	vehicleService, _, customer := setupVehicleServiceTest(t)

	_, err := vehicleService.CreateVehicle(&model.Vehicle{
		CustomerID: customer.ID,
		VIN:        "1FTSW21P345EB10322",
		Make:       "Ford",
		Model:      "F-250",
		Year:       2014,
	}, customer.CompanyID+99)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestVehicleService_Get_WrongCompany(t *testing.T) {
	vehicleService, _, customer := setupVehicleServiceTest(t)

	vehicle, err := vehicleService.CreateVehicle(&model.Vehicle{
		CustomerID: customer.ID,
		VIN:        "1FTSW21P345EB10322",
		Make:       "Ford",
		Model:      "F-250",
		Year:       2014,
	}, customer.CompanyID)
	require.NoError(t, err)

	_, err = vehicleService.GetVehicle(vehicle.ID, customer.CompanyID+99)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestVehicleService_SetDocumentKeys(t *testing.T) {
	vehicleService, _, customer := setupVehicleServiceTest(t)

	vehicle, err := vehicleService.CreateVehicle(&model.Vehicle{
		CustomerID: customer.ID,
		VIN:        "1FTSW21P345EB10322",
		Make:       "Ford",
		Model:      "F-250",
		Year:       2014,
	}, customer.CompanyID)
	require.NoError(t, err)

	updated, err := vehicleService.SetDocumentKeys(vehicle.ID, customer.CompanyID, "titles/abc.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, "titles/abc.pdf", updated.TitleDocumentKey)
	assert.Empty(t, updated.PhotoKey)

	// Setting the photo key must not clobber the title key.
	updated, err = vehicleService.SetDocumentKeys(vehicle.ID, customer.CompanyID, "", "vehicle-photos/def.jpg")
	require.NoError(t, err)
	assert.Equal(t, "titles/abc.pdf", updated.TitleDocumentKey)
	assert.Equal(t, "vehicle-photos/def.jpg", updated.PhotoKey)
}
