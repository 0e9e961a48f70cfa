package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string
type PaymentMethod string

const (
	PaymentTypeMinimum PaymentType = "minimum" // interest only, triggers renewal
	PaymentTypeExtra   PaymentType = "extra"   // interest plus some principal
	PaymentTypePayoff  PaymentType = "payoff"  // full satisfaction

	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Payment is one payment against a title pawn. LoanBalanceAfterPayment is a
// snapshot of the loan's remaining balance once the principal portion was
// applied; interest-only payments leave it unchanged.
type Payment struct {
	ID          uint `gorm:"primarykey" json:"id"`
	TitlePawnID uint `gorm:"not null;index" json:"title_pawn_id"`
	CompanyID   uint `gorm:"not null;index" json:"company_id"`

	Amount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentType   PaymentType     `gorm:"type:varchar(20)" json:"payment_type"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20)" json:"payment_method"`
	ReceiptNumber string          `gorm:"size:40;index" json:"receipt_number,omitempty"`
	Notes         string          `gorm:"size:500" json:"notes,omitempty"`

	LoanBalanceAfterPayment decimal.Decimal `gorm:"type:decimal(10,2)" json:"loan_balance_after_payment"`
	DueDate                 time.Time       `json:"due_date"`
	IsLatePayment           bool            `json:"is_late_payment"`

	CreatedAt time.Time `json:"created_at"`

	TitlePawn TitlePawn `gorm:"foreignKey:TitlePawnID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
