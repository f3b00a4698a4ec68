package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleCustomer, UserRoleAdmin:
		return true
	default:
		return false
	}
}

type CateringStatus string

const (
	CateringStatusPending   CateringStatus = "pending"
	CateringStatusReviewing CateringStatus = "reviewing"
	CateringStatusQuoted    CateringStatus = "quoted"
	CateringStatusConfirmed CateringStatus = "confirmed"
	CateringStatusCompleted CateringStatus = "completed"
	CateringStatusCancelled CateringStatus = "cancelled"
)

func IsValidCateringStatus(status CateringStatus) bool {
	switch status {
	case CateringStatusPending, CateringStatusReviewing, CateringStatusQuoted,
		CateringStatusConfirmed, CateringStatusCompleted, CateringStatusCancelled:
		return true
	default:
		return false
	}
}
