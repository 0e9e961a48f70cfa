package service

import (
	"testing"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB, uint) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	companyRepo := repository.NewCompanyRepository(testDB)
	authService := NewAuthService(userRepo, companyRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)

	company := &model.Company{Name: "Crown Pawn", IsActive: true}
	testDB.Create(company)

	return authService, testDB, company.ID
}

func TestAuthService_RegisterCompany(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	company, admin, tokens, err := authService.RegisterCompany("Peach State Pawn", "owner@peachstate.test", "s3cret-pass", "Jordan Owner")
	require.NoError(t, err)
	assert.NotZero(t, company.ID)
	assert.True(t, company.IsActive)
	assert.Equal(t, company.ID, admin.CompanyID)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_RegisterCompany_DuplicateEmail(t *testing.T) {
	authService, _, companyID := setupAuthServiceTest(t)

	_, _, err := authService.Register(companyID, "owner@peachstate.test", "s3cret-pass", "Jordan Owner", model.RoleAgent)
	require.NoError(t, err)

	_, _, _, err = authService.RegisterCompany("Peach State Pawn", "owner@peachstate.test", "other-pass", "Jordan Owner")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	authService, _, companyID := setupAuthServiceTest(t)

	user, tokens, err := authService.Register(companyID, "agent@crownpawn.test", "s3cret-pass", "Riley Agent", model.RoleAgent)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, companyID, user.CompanyID)
	assert.Equal(t, model.RoleAgent, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	loggedIn, tokens, err := authService.Login("agent@crownpawn.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _, companyID := setupAuthServiceTest(t)

	_, _, err := authService.Register(companyID, "agent@crownpawn.test", "s3cret-pass", "Riley Agent", model.RoleAgent)
	require.NoError(t, err)

	_, _, err = authService.Register(companyID, "agent@crownpawn.test", "other-pass", "Other Agent", model.RoleAgent)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Register_DefaultsToAgentRole(t *testing.T) {
	authService, _, companyID := setupAuthServiceTest(t)

	user, _, err := authService.Register(companyID, "new@crownpawn.test", "s3cret-pass", "New Hire", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAgent, user.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _, companyID := setupAuthServiceTest(t)

	_, _, err := authService.Register(companyID, "agent@crownpawn.test", "s3cret-pass", "Riley Agent", model.RoleAgent)
	require.NoError(t, err)

	_, _, err = authService.Login("agent@crownpawn.test", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, _, err := authService.Login("nobody@crownpawn.test", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_DeactivatedUser(t *testing.T) {
	authService, testDB, companyID := setupAuthServiceTest(t)

	user, _, err := authService.Register(companyID, "agent@crownpawn.test", "s3cret-pass", "Riley Agent", model.RoleAgent)
	require.NoError(t, err)

	testDB.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	_, _, err = authService.Login("agent@crownpawn.test", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserInactive)
}
