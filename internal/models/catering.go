package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/events"
)

// CateringBooking runs its own status progression, independent of the order
// state machine. QuoteAmount and AdminNotes are set by the back office.
type CateringBooking struct {
	Base
	UserID      string    `gorm:"type:uuid;default:NULL;index" json:"userId,omitempty"`
	User        *Profile  `json:"user,omitempty"`
	ContactName string    `gorm:"not null" json:"contactName" validate:"required,min=2"`
	Email       string    `gorm:"not null" json:"email" validate:"required,email"`
	Phone       string    `json:"phone"`
	EventDate   time.Time `gorm:"not null" json:"eventDate" validate:"required"`
	Headcount   int       `gorm:"not null" json:"headcount" validate:"required,min=1"`
	Message     string    `json:"message"`

	Status      CateringStatus `gorm:"not null;default:'pending'" json:"status" validate:"omitempty,catering_status"`
	QuoteAmount *float64       `json:"quoteAmount,omitempty"`
	AdminNotes  string         `json:"adminNotes,omitempty"`
}

func (b *CateringBooking) AfterCreate(tx *gorm.DB) error {
	events.Emit("catering.requested", b)
	return nil
}
