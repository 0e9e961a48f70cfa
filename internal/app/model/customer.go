package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a borrower. A loan cannot be approved unless the customer has
// at least MinReferencesForApproval character references on file.
const MinReferencesForApproval = 3

type Customer struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
	FirstName string `gorm:"not null;size:255" json:"first_name"`
	LastName  string `gorm:"not null;size:255" json:"last_name"`

	PhoneNumber    string    `gorm:"size:20" json:"phone_number,omitempty"`
	Email          string    `gorm:"size:255" json:"email,omitempty"`
	Address        string    `gorm:"size:500" json:"address,omitempty"`
	SSN            string    `gorm:"size:20" json:"-"`
	DriversLicense string    `gorm:"size:50" json:"drivers_license,omitempty"`
	DateOfBirth    time.Time `json:"date_of_birth"`

	PlaceOfEmployment     string           `gorm:"size:255" json:"place_of_employment,omitempty"`
	EmploymentPhoneNumber string           `gorm:"size:20" json:"employment_phone_number,omitempty"`
	EmploymentAddress     string           `gorm:"size:500" json:"employment_address,omitempty"`
	YearsEmployed         *int             `json:"years_employed,omitempty"`
	MonthlyIncome         *decimal.Decimal `gorm:"type:decimal(10,2)" json:"monthly_income,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Company    Company             `gorm:"foreignKey:CompanyID" json:"-"`
	Vehicles   []Vehicle           `gorm:"foreignKey:CustomerID" json:"vehicles,omitempty"`
	References []CustomerReference `gorm:"foreignKey:CustomerID" json:"references,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// HasRequiredReferences reports whether the customer clears the approval gate.
// References must be preloaded.
func (c *Customer) HasRequiredReferences() bool {
	return len(c.References) >= MinReferencesForApproval
}

// CustomerReference is a character reference supplied at intake.
type CustomerReference struct {
	ID         uint `gorm:"primarykey" json:"id"`
	CustomerID uint `gorm:"not null;index" json:"customer_id"`

	ReferenceName string `gorm:"not null;size:255" json:"reference_name"`
	Relationship  string `gorm:"not null;size:100" json:"relationship"`
	Address       string `gorm:"size:500" json:"address,omitempty"`
	PhoneNumber   string `gorm:"size:20" json:"phone_number,omitempty"`
	Email         string `gorm:"size:255" json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (CustomerReference) TableName() string {
	return "customer_references"
}
