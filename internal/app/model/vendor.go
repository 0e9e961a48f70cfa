package model

import (
	"time"
)

type VendorType string

const (
	VendorTypeTowing       VendorType = "towing"
	VendorTypeRepossession VendorType = "repossession"
	VendorTypeLocksmith    VendorType = "locksmith"
	VendorTypeOther        VendorType = "other"
)

// Vendor is a third-party contractor (towing, repossession) whose charges
// end up as fees on a loan.
type Vendor struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	CompanyID uint       `gorm:"not null;index" json:"company_id"`
	Name      string     `gorm:"not null;size:255" json:"name"`
	Type      VendorType `gorm:"type:varchar(20);default:'other'" json:"type"`
	Phone     string     `gorm:"size:20" json:"phone,omitempty"`
	Email     string     `gorm:"size:255" json:"email,omitempty"`
	Address   string     `gorm:"size:500" json:"address,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (Vendor) TableName() string {
	return "vendors"
}
