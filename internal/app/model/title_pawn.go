package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TitlePawnStatus is the loan's lifecycle state. It is the only
// representation of status; transitions switch over it exhaustively.
type TitlePawnStatus string

const (
	StatusPending   TitlePawnStatus = "pending"   // awaiting approval
	StatusApproved  TitlePawnStatus = "approved"  // approved, not yet funded
	StatusActive    TitlePawnStatus = "active"    // money out, accruing interest
	StatusRenewed   TitlePawnStatus = "renewed"   // rolled into a new loan row (terminal)
	StatusPaidOff   TitlePawnStatus = "paid_off"  // fully satisfied (terminal)
	StatusDefaulted TitlePawnStatus = "defaulted" // set by collections, never by this code
	StatusClosed    TitlePawnStatus = "closed"    // administratively closed
)

const DefaultLoanTermDays = 30

var thirty = decimal.NewFromInt(30)

// TitlePawn is a short-term loan collateralized by a vehicle title. Each
// renewal is a new row linked back through RenewedFromTitlePawnID; rows are
// never hard-deleted.
type TitlePawn struct {
	ID        uint `gorm:"primarykey" json:"id"`
	CompanyID uint `gorm:"not null;index" json:"company_id"`
	StoreID   uint `gorm:"not null;index" json:"store_id"`
	VehicleID uint `gorm:"not null;index" json:"vehicle_id"`

	LoanAmountRequested decimal.Decimal `gorm:"type:decimal(10,2)" json:"loan_amount_requested"`
	LoanAmountApproved  decimal.Decimal `gorm:"type:decimal(10,2)" json:"loan_amount_approved"`
	TitleAndKeyFee      decimal.Decimal `gorm:"type:decimal(10,2)" json:"title_and_key_fee"`
	// Running total of non-waived ledger fees (towing, repossession, late...).
	AdditionalFees decimal.Decimal `gorm:"type:decimal(10,2)" json:"additional_fees"`

	// Percent per 30-day period (1.5 means 1.5%/month).
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"interest_rate"`
	// Interest due for the current period; also the minimum payment.
	TotalInterestCharged decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_interest_charged"`
	MonthlyPayment       decimal.Decimal `gorm:"type:decimal(10,2)" json:"monthly_payment"`

	// Principal plus outstanding fees net of principal payments. Interest
	// payments never reduce it.
	RemainingBalance decimal.Decimal `gorm:"type:decimal(10,2)" json:"remaining_balance"`

	LoanTermDays     int        `gorm:"default:30" json:"loan_term_days"`
	LoanStartDate    time.Time  `json:"loan_start_date"`
	LoanMaturityDate time.Time  `json:"loan_maturity_date"`
	LoanPaidOffDate  *time.Time `json:"loan_paid_off_date,omitempty"`

	Status           TitlePawnStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ApprovalNotes    string          `gorm:"size:500" json:"approval_notes,omitempty"`
	ApprovedByUserID *uint           `gorm:"index" json:"approved_by_user_id,omitempty"`

	ContractSigned     bool       `gorm:"default:false" json:"contract_signed"`
	ContractSignedDate *time.Time `json:"contract_signed_date,omitempty"`

	RenewedFromTitlePawnID *uint      `gorm:"index" json:"renewed_from_title_pawn_id,omitempty"`
	RenewedFromTitlePawn   *TitlePawn `gorm:"foreignKey:RenewedFromTitlePawnID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Company  Company   `gorm:"foreignKey:CompanyID" json:"-"`
	Store    Store     `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Vehicle  Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Payments []Payment `gorm:"foreignKey:TitlePawnID" json:"payments,omitempty"`
	Fees     []Fee     `gorm:"foreignKey:TitlePawnID" json:"fees,omitempty"`
}

func (TitlePawn) TableName() string {
	return "title_pawns"
}

func (p *TitlePawn) IsPending() bool  { return p.Status == StatusPending }
func (p *TitlePawn) IsActive() bool   { return p.Status == StatusActive }
func (p *TitlePawn) IsRenewed() bool  { return p.Status == StatusRenewed }
func (p *TitlePawn) IsPaidOff() bool  { return p.Status == StatusPaidOff }
func (p *TitlePawn) IsDefaulted() bool { return p.Status == StatusDefaulted }

// IsOverdue reports whether the loan is past maturity at the given instant.
func (p *TitlePawn) IsOverdue(asOf time.Time) bool {
	return asOf.After(p.LoanMaturityDate)
}

// AmountToSatisfyLoan is the full payoff figure: principal, current-period
// interest, and every fee.
func (p *TitlePawn) AmountToSatisfyLoan() decimal.Decimal {
	return p.LoanAmountApproved.
		Add(p.TotalInterestCharged).
		Add(p.TitleAndKeyFee).
		Add(p.AdditionalFees)
}

// DailyLateRate is the per-day late charge: one thirtieth of the period's
// interest.
func (p *TitlePawn) DailyLateRate() decimal.Decimal {
	return p.TotalInterestCharged.Div(thirty)
}

// BusinessDaysLate counts accruing days from the day after maturity through
// the as-of date inclusive. A day is skipped when it is a weekend day the
// store does not accrue on, or when it is the as-of day itself and the
// store's accrual hour has not passed yet.
func (p *TitlePawn) BusinessDaysLate(store *Store, asOf time.Time) int {
	if store == nil || !asOf.After(p.LoanMaturityDate) {
		return 0
	}

	asOfDay := truncateToDay(asOf)
	current := truncateToDay(p.LoanMaturityDate).AddDate(0, 0, 1)

	days := 0
	for !current.After(asOfDay) {
		counts := true

		switch current.Weekday() {
		case time.Sunday:
			if !store.AccrueLateFeesSunday {
				counts = false
			}
		case time.Saturday:
			if !store.AccrueLateFeesSaturday {
				counts = false
			}
		}

		if current.Equal(asOfDay) && asOf.Hour() < store.LateFeeAccrualHour {
			counts = false
		}

		if counts {
			days++
		}
		current = current.AddDate(0, 0, 1)
	}

	return days
}

// AccumulatedLateFees is the total late charge owed as of the given instant.
// A payment made after maturity that covers the period's interest catches the
// account up and zeroes it regardless of elapsed days. Payments must be
// preloaded.
func (p *TitlePawn) AccumulatedLateFees(store *Store, asOf time.Time) decimal.Decimal {
	if !asOf.After(p.LoanMaturityDate) {
		return decimal.Zero
	}

	if latest := p.latestPaymentAfterMaturity(); latest != nil &&
		latest.Amount.GreaterThanOrEqual(p.TotalInterestCharged) {
		return decimal.Zero
	}

	days := p.BusinessDaysLate(store, asOf)
	if days < 1 {
		return decimal.Zero
	}
	return p.DailyLateRate().Mul(decimal.NewFromInt(int64(days)))
}

func (p *TitlePawn) latestPaymentAfterMaturity() *Payment {
	var latest *Payment
	for i := range p.Payments {
		pay := &p.Payments[i]
		if !pay.PaymentDate.After(p.LoanMaturityDate) {
			continue
		}
		if latest == nil || pay.PaymentDate.After(latest.PaymentDate) {
			latest = pay
		}
	}
	return latest
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
