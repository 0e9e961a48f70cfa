package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAgent   UserRole = "agent"   // loan intake, payments
	RoleManager UserRole = "manager" // approvals, fee waivers
	RoleAdmin   UserRole = "admin"   // store/tier administration
)

// User is a back-office operator, scoped to a company.
type User struct {
	ID           uint     `gorm:"primarykey" json:"id"`
	CompanyID    uint     `gorm:"not null;index" json:"company_id"`
	Email        string   `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `gorm:"not null;size:255" json:"name"`
	Role         UserRole `gorm:"type:varchar(20);default:'agent'" json:"role"`

	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
