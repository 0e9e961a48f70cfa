package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestRateTier is a store-scoped suggested monthly rate for a principal
// band. Tiers are consulted in ascending display order; the first active tier
// whose range contains the principal wins. Ranges may overlap and need not
// cover every amount.
type InterestRateTier struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	StoreID  uint   `gorm:"not null;index" json:"store_id"`
	TierName string `gorm:"not null;size:100" json:"tier_name"`

	// Inclusive principal range.
	MinimumPrincipal decimal.Decimal `gorm:"type:decimal(10,2)" json:"minimum_principal"`
	MaximumPrincipal decimal.Decimal `gorm:"type:decimal(10,2)" json:"maximum_principal"`

	// Suggested rate, percent per 30-day period (1.5 means 1.5%/month).
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"interest_rate"`

	Description  string `gorm:"size:500" json:"description,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Store Store `gorm:"foreignKey:StoreID" json:"-"`
}

func (InterestRateTier) TableName() string {
	return "interest_rate_tiers"
}

// ContainsPrincipal reports whether the principal falls inside the tier's
// inclusive range.
func (t *InterestRateTier) ContainsPrincipal(principal decimal.Decimal) bool {
	return principal.GreaterThanOrEqual(t.MinimumPrincipal) &&
		principal.LessThanOrEqual(t.MaximumPrincipal)
}
