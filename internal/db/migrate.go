package db

import (
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Company{},
		&model.User{},
		&model.Store{},
		&model.InterestRateTier{},
		&model.StateSpecialRule{},
		&model.ApprovalPolicy{},
		&model.Vendor{},
		&model.Customer{},
		&model.CustomerReference{},
		&model.Vehicle{},
		&model.TitlePawn{},
		&model.Payment{},
		&model.Fee{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
