package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is the collateral for a title pawn. EstimatedValue caps loan size.
type Vehicle struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CustomerID uint   `gorm:"not null;index" json:"customer_id"`
	VIN        string `gorm:"not null;size:20;index" json:"vin"`
	Make       string `gorm:"not null;size:50" json:"make"`
	Model      string `gorm:"not null;size:50" json:"model"`
	Year       int    `gorm:"not null" json:"year"`

	Color        string          `gorm:"size:50" json:"color,omitempty"`
	LicensePlate string          `gorm:"size:20" json:"license_plate,omitempty"`
	Condition    string          `gorm:"size:500" json:"condition,omitempty"`
	Mileage      *int            `json:"mileage,omitempty"`
	EstimatedValue decimal.Decimal `gorm:"type:decimal(10,2)" json:"estimated_value"`

	// S3 keys for title/vehicle photos uploaded at intake.
	TitleDocumentKey string `gorm:"size:500" json:"title_document_key,omitempty"`
	PhotoKey         string `gorm:"size:500" json:"photo_key,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer   Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TitlePawns []TitlePawn `gorm:"foreignKey:VehicleID" json:"title_pawns,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
