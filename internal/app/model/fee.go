package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type FeeType string

const (
	FeeTypeLate         FeeType = "Late Fee"
	FeeTypeTowing       FeeType = "Towing"
	FeeTypeRepossession FeeType = "Repossession"
	FeeTypeTitle        FeeType = "Title"
	FeeTypeKey          FeeType = "Key"
)

// Fee is an append-only charge against a title pawn. Fees are never deleted;
// a manager can waive one, which backs its amount out of the loan's totals.
type Fee struct {
	ID          uint `gorm:"primarykey" json:"id"`
	TitlePawnID uint `gorm:"not null;index" json:"title_pawn_id"`
	CompanyID   uint `gorm:"not null;index" json:"company_id"`

	FeeType     FeeType         `gorm:"type:varchar(100);not null" json:"fee_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Description string          `gorm:"size:500" json:"description,omitempty"`
	VendorID    *uint           `gorm:"index" json:"vendor_id,omitempty"`

	IsWaived    bool       `gorm:"default:false" json:"is_waived"`
	WaivedDate  *time.Time `json:"waived_date,omitempty"`
	WaivedBy    string     `gorm:"size:255" json:"waived_by,omitempty"`
	WaiveReason string     `gorm:"size:500" json:"waive_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	TitlePawn TitlePawn `gorm:"foreignKey:TitlePawnID" json:"-"`
	Vendor    *Vendor   `gorm:"foreignKey:VendorID" json:"-"`
}

func (Fee) TableName() string {
	return "fees"
}
