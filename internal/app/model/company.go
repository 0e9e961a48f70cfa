package model

import (
	"time"
)

// Company is the tenancy root: every store, customer, user, and loan belongs
// to exactly one company.
type Company struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `gorm:"not null;size:255" json:"name"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	Phone   string `gorm:"size:20" json:"phone,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	TaxID   string `gorm:"size:20" json:"tax_id,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Stores    []Store    `gorm:"foreignKey:CompanyID" json:"stores,omitempty"`
	Customers []Customer `gorm:"foreignKey:CompanyID" json:"customers,omitempty"`
	Users     []User     `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}
