package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalPolicy is a per-user approval ceiling: the largest single loan the
// user may approve, and daily count/dollar limits. Zero-valued limits mean
// unlimited. Consumed by the authorization layer before the lifecycle
// service is invoked; the money math never reads it.
type ApprovalPolicy struct {
	ID        uint `gorm:"primarykey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex" json:"user_id"`
	CompanyID uint `gorm:"not null;index" json:"company_id"`

	ApprovalLimit       decimal.Decimal `gorm:"type:decimal(10,2)" json:"approval_limit"`
	DailyApprovalLimit  int             `json:"daily_approval_limit"`
	DailyApprovalAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"daily_approval_amount"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ApprovalPolicy) TableName() string {
	return "approval_policies"
}

// AllowsAmount reports whether a single approval of the given amount is
// within the per-loan ceiling.
func (a *ApprovalPolicy) AllowsAmount(amount decimal.Decimal) bool {
	if a.ApprovalLimit.IsZero() {
		return true
	}
	return amount.LessThanOrEqual(a.ApprovalLimit)
}
