package db

import (
	"fmt"
	"log"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"fees", "payments", "title_pawns", "vehicles", "customer_references",
		"customers", "vendors", "approval_policies", "state_special_rules",
		"interest_rate_tiers", "stores", "users", "companies",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
