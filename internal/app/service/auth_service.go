package service

import (
	"context"
	"errors"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/crownpawn/titlepawn-backend/pkg/redis"
	"github.com/crownpawn/titlepawn-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is deactivated")
)

type AuthService interface {
	RegisterCompany(companyName, email, password, name string) (*model.Company, *model.User, *util.TokenPair, error)
	Register(companyID uint, email, password, name string, role model.UserRole) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	companyRepo   repository.CompanyRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// RegisterCompany is the tenant bootstrap: it creates the company and its
// first user as an admin in one call. Every later signup goes through
// Register with an existing company ID.
func (s *authService) RegisterCompany(companyName, email, password, name string) (*model.Company, *model.User, *util.TokenPair, error) {
	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Company registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, nil, ErrEmailAlreadyExists
	}

	company := &model.Company{Name: companyName, IsActive: true}
	if err := s.companyRepo.Create(company); err != nil {
		return nil, nil, nil, err
	}

	user, tokens, err := s.Register(company.ID, email, password, name, model.RoleAdmin)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("Company registered", map[string]interface{}{
		"company_id": company.ID,
		"admin_id":   user.ID,
	})
	return company, user, tokens, nil
}

func (s *authService) Register(companyID uint, email, password, name string, role model.UserRole) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":      email,
		"company_id": companyID,
	})

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if role == "" {
		role = model.RoleAgent
	}

	user := &model.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.CompanyID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":    user.ID,
		"email":      email,
		"role":       user.Role,
		"company_id": user.CompanyID,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		logger.Warn("Login failed: user deactivated", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrUserInactive
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.CompanyID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})
	return user, tokens, nil
}

// Logout blacklists the access token until it would have expired anyway, so a
// stolen token dies with the session.
func (s *authService) Logout(ctx context.Context, token string) error {
	if redis.GetClient() == nil {
		logger.Warn("Logout without Redis: token cannot be revoked", nil)
		return nil
	}

	if err := redis.BlacklistToken(ctx, token, s.accessExpiry); err != nil {
		return err
	}

	logger.Info("User logged out, token blacklisted", nil)
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
