package models

import (
	"github.com/hamzat06/esk-sub000/internal/permissions"
)

// Profile is the application-side identity row, 1:1 with an auth principal.
// Access is meaningful only for the admin role: unrestricted marks a super
// admin, a scoped set marks a back-office admin limited to those features.
// Customers carry the column but it is never consulted.
type Profile struct {
	Base
	Email    string             `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string             `gorm:"not null" json:"-"`
	FullName string             `json:"fullName"`
	Phone    string             `json:"phone"`
	Role     UserRole           `gorm:"not null;default:'customer'" json:"role"`
	Access   permissions.Access `gorm:"type:jsonb;default:NULL" json:"permissions"`

	// Default delivery address, copied (not referenced) onto orders.
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// IsAdminRole implements permissions.Grantee.
func (p *Profile) IsAdminRole() bool {
	return p != nil && p.Role == UserRoleAdmin
}

// AdminAccess implements permissions.Grantee.
func (p *Profile) AdminAccess() permissions.Access {
	if p == nil {
		return permissions.Scoped()
	}
	return p.Access
}
