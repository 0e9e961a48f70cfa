package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StateSpecialRule is a per-state statutory rate ceiling schedule: one cap for
// the first period of the loan, a lower one after it. Keyed by state code,
// unique per store.
type StateSpecialRule struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StoreID   uint   `gorm:"not null;uniqueIndex:idx_store_state" json:"store_id"`
	StateCode string `gorm:"not null;size:2;uniqueIndex:idx_store_state" json:"state_code"`
	StateName string `gorm:"not null;size:50" json:"state_name"`

	// The first-period cap applies through FirstPeriodDays inclusive.
	FirstPeriodDays         int             `gorm:"default:90" json:"first_period_days"`
	FirstPeriodMaxRate      decimal.Decimal `gorm:"type:decimal(5,2)" json:"first_period_max_rate"`
	SubsequentPeriodMaxRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"subsequent_period_max_rate"`

	AdditionalRules string `gorm:"size:2000" json:"additional_rules,omitempty"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Store Store `gorm:"foreignKey:StoreID" json:"-"`
}

func (StateSpecialRule) TableName() string {
	return "state_special_rules"
}

// MaxRateForElapsedDays returns the ceiling in effect after daysElapsed days;
// the boundary day still belongs to the first period.
func (r *StateSpecialRule) MaxRateForElapsedDays(daysElapsed int) decimal.Decimal {
	if daysElapsed <= r.FirstPeriodDays {
		return r.FirstPeriodMaxRate
	}
	return r.SubsequentPeriodMaxRate
}

// IsRateCompliant reports whether a rate is at or under the ceiling for the
// elapsed days.
func (r *StateSpecialRule) IsRateCompliant(rate decimal.Decimal, daysElapsed int) bool {
	return rate.LessThanOrEqual(r.MaxRateForElapsedDays(daysElapsed))
}
