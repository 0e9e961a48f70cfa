package main

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/crownpawn/titlepawn-backend/config"
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/crownpawn/titlepawn-backend/pkg/util"
)

// Seeds a demo company with one store (GA), rate tiers, a state rule, an
// admin user, a customer with three references, a vehicle, and a pending
// loan application. Safe to rerun: it skips when the company already exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gdb := db.GetDB()

	var existing model.Company
	if err := gdb.Where("name = ?", "Crown Pawn Demo").First(&existing).Error; err == nil {
		fmt.Println("Demo company already seeded, nothing to do.")
		return
	}

	company := &model.Company{Name: "Crown Pawn Demo", IsActive: true}
	if err := gdb.Create(company).Error; err != nil {
		log.Fatal("Failed to create company:", err)
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}
	admin := &model.User{
		CompanyID:    company.ID,
		Email:        "admin@crownpawn.demo",
		PasswordHash: hash,
		Name:         "Demo Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := gdb.Create(admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	store := &model.Store{
		CompanyID:              company.ID,
		Name:                   "Crown Pawn Marietta",
		Address:                "1200 Roswell Rd, Marietta, GA",
		StateCode:              "GA",
		TitleAndKeyFee:         decimal.NewFromInt(25),
		AccrueLateFeesSaturday: true,
		AccrueLateFeesSunday:   false,
		LateFeeAccrualHour:     18,
		IsActive:               true,
	}
	if err := gdb.Create(store).Error; err != nil {
		log.Fatal("Failed to create store:", err)
	}

	tiers := []model.InterestRateTier{
		{
			StoreID:          store.ID,
			TierName:         "Small",
			MinimumPrincipal: decimal.NewFromInt(0),
			MaximumPrincipal: decimal.NewFromInt(500),
			InterestRate:     decimal.NewFromFloat(2.5),
			DisplayOrder:     1,
			IsActive:         true,
		},
		{
			StoreID:          store.ID,
			TierName:         "Standard",
			MinimumPrincipal: decimal.NewFromInt(501),
			MaximumPrincipal: decimal.NewFromInt(2500),
			InterestRate:     decimal.NewFromFloat(1.5),
			DisplayOrder:     2,
			IsActive:         true,
		},
		{
			StoreID:          store.ID,
			TierName:         "Large",
			MinimumPrincipal: decimal.NewFromInt(2501),
			MaximumPrincipal: decimal.NewFromInt(10000),
			InterestRate:     decimal.NewFromFloat(1.0),
			DisplayOrder:     3,
			IsActive:         true,
		},
	}
	for i := range tiers {
		if err := gdb.Create(&tiers[i]).Error; err != nil {
			log.Fatal("Failed to create rate tier:", err)
		}
	}

	rule := &model.StateSpecialRule{
		StoreID:                 store.ID,
		StateCode:               "GA",
		StateName:               "Georgia",
		FirstPeriodDays:         90,
		FirstPeriodMaxRate:      decimal.NewFromInt(25),
		SubsequentPeriodMaxRate: decimal.NewFromFloat(12.5),
		IsActive:                true,
	}
	if err := gdb.Create(rule).Error; err != nil {
		log.Fatal("Failed to create state rule:", err)
	}

	customer := &model.Customer{
		CompanyID:      company.ID,
		FirstName:      "Dana",
		LastName:       "Whitfield",
		PhoneNumber:    "770-555-0142",
		Email:          "dana.whitfield@example.com",
		Address:        "88 Oak Hollow Ln, Marietta, GA",
		DriversLicense: "GA-0441788",
		DateOfBirth:    time.Date(1987, 4, 12, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	if err := gdb.Create(customer).Error; err != nil {
		log.Fatal("Failed to create customer:", err)
	}

	references := []model.CustomerReference{
		{CustomerID: customer.ID, ReferenceName: "Sam Cole", Relationship: "friend", PhoneNumber: "770-555-0190"},
		{CustomerID: customer.ID, ReferenceName: "Jess Byrd", Relationship: "sibling", PhoneNumber: "770-555-0121"},
		{CustomerID: customer.ID, ReferenceName: "Pat Monroe", Relationship: "coworker", PhoneNumber: "770-555-0177"},
	}
	for i := range references {
		if err := gdb.Create(&references[i]).Error; err != nil {
			log.Fatal("Failed to create reference:", err)
		}
	}

	vehicle := &model.Vehicle{
		CustomerID:     customer.ID,
		VIN:            "1FTSW21P345EB10322",
		Make:           "Ford",
		Model:          "F-250",
		Year:           2014,
		Color:          "White",
		LicensePlate:   "GA-RWT2203",
		EstimatedValue: decimal.NewFromInt(8500),
		IsActive:       true,
	}
	if err := gdb.Create(vehicle).Error; err != nil {
		log.Fatal("Failed to create vehicle:", err)
	}

	pawn := &model.TitlePawn{
		CompanyID:           company.ID,
		StoreID:             store.ID,
		VehicleID:           vehicle.ID,
		LoanAmountRequested: decimal.NewFromInt(1000),
		LoanTermDays:        model.DefaultLoanTermDays,
		Status:              model.StatusPending,
	}
	if err := gdb.Create(pawn).Error; err != nil {
		log.Fatal("Failed to create title pawn:", err)
	}

	fmt.Println("Seed completed successfully!")
	fmt.Printf("  company:   %s (id %d)\n", company.Name, company.ID)
	fmt.Printf("  admin:     %s / admin1234\n", admin.Email)
	fmt.Printf("  store:     %s (id %d)\n", store.Name, store.ID)
	fmt.Printf("  customer:  %s %s (id %d)\n", customer.FirstName, customer.LastName, customer.ID)
	fmt.Printf("  loan:      pending application id %d\n", pawn.ID)
}
