package service

import (
	"testing"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCustomerServiceTest(t *testing.T) (CustomerService, *gorm.DB, uint) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	customerRepo := repository.NewCustomerRepository(testDB)
	customerService := NewCustomerService(customerRepo)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	return customerService, testDB, company.ID
}

func TestCustomerService_ReferenceGate(t *testing.T) {
	customerService, _, companyID := setupCustomerServiceTest(t)

	customer, err := customerService.CreateCustomer(&model.Customer{
		CompanyID: companyID,
		FirstName: "Dana",
		LastName:  "Whitfield",
	})
	require.NoError(t, err)

	ok, err := customerService.HasRequiredReferences(customer.ID, companyID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Two references are still not enough.
	for _, name := range []string{"Sam Cole", "Jess Byrd"} {
		_, err := customerService.AddReference(customer.ID, companyID, &model.CustomerReference{
			ReferenceName: name,
			Relationship:  "friend",
		})
		require.NoError(t, err)
	}
	ok, err = customerService.HasRequiredReferences(customer.ID, companyID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = customerService.AddReference(customer.ID, companyID, &model.CustomerReference{
		ReferenceName: "Pat Monroe",
		Relationship:  "coworker",
	})
	require.NoError(t, err)

	ok, err = customerService.HasRequiredReferences(customer.ID, companyID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCustomerService_CrossTenantReadsAsNotFound(t *testing.T) {
	customerService, _, companyID := setupCustomerServiceTest(t)

	customer, err := customerService.CreateCustomer(&model.Customer{
		CompanyID: companyID,
		FirstName: "Dana",
		LastName:  "Whitfield",
	})
	require.NoError(t, err)

	_, err = customerService.GetCustomer(customer.ID, companyID+99)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = customerService.AddReference(customer.ID, companyID+99, &model.CustomerReference{
		ReferenceName: "Sam Cole",
		Relationship:  "friend",
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_ListWithSearch(t *testing.T) {
	customerService, _, companyID := setupCustomerServiceTest(t)

	for _, name := range [][2]string{{"Dana", "Whitfield"}, {"Sam", "Cole"}} {
		_, err := customerService.CreateCustomer(&model.Customer{
			CompanyID: companyID,
			FirstName: name[0],
			LastName:  name[1],
		})
		require.NoError(t, err)
	}

	all, err := customerService.ListCustomers(companyID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := customerService.ListCustomers(companyID, "Whit")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Whitfield", matched[0].LastName)
}
