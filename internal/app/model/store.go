package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store is a lending location. It carries the fee defaults snapshotted onto
// loans at approval and the settings that drive late-fee accrual.
type Store struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
	Name      string `gorm:"not null;size:255" json:"name"`
	Address   string `gorm:"size:500" json:"address,omitempty"`
	Phone     string `gorm:"size:20" json:"phone,omitempty"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	StoreCode string `gorm:"size:20" json:"store_code,omitempty"`
	// Two-letter state the store operates in; selects the usury rule.
	StateCode string `gorm:"size:2;index" json:"state_code,omitempty"`

	// Default title-and-key fee snapshotted onto loans at approval.
	TitleAndKeyFee decimal.Decimal `gorm:"type:decimal(10,2);default:25.00" json:"title_and_key_fee"`

	// Late-fee accrual settings. A late day only counts once the accrual
	// hour has passed, and weekend days only when the store accrues them.
	AccrueLateFeesSunday   bool `gorm:"default:false" json:"accrue_late_fees_sunday"`
	AccrueLateFeesSaturday bool `gorm:"default:true" json:"accrue_late_fees_saturday"`
	LateFeeAccrualHour     int  `gorm:"default:18" json:"late_fee_accrual_hour"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Company    Company            `gorm:"foreignKey:CompanyID" json:"-"`
	RateTiers  []InterestRateTier `gorm:"foreignKey:StoreID" json:"rate_tiers,omitempty"`
	StateRules []StateSpecialRule `gorm:"foreignKey:StoreID" json:"state_rules,omitempty"`
	TitlePawns []TitlePawn        `gorm:"foreignKey:StoreID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}
