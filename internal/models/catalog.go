package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/events"
)

type Category struct {
	Base
	Name      string    `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	Products  []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product is a catalog entry. Options holds option groups (e.g. protein
// choice, spice level) with per-choice price deltas as JSON; orders snapshot
// the resolved choices instead of referencing this column.
type Product struct {
	Base
	Name        string         `gorm:"not null" json:"name" validate:"required,min=2"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price" validate:"required,gt=0"`
	CategoryID  string         `gorm:"type:uuid;not null;index" json:"categoryId" validate:"required,uuid"`
	Category    *Category      `json:"category,omitempty"`
	ImagePath   string         `json:"imagePath"`
	ImageURL    string         `gorm:"-" json:"imageUrl,omitempty"` // Virtual field
	Options     datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`
	Available   bool           `gorm:"default:true" json:"available"`
	SortOrder   int            `gorm:"default:0" json:"sortOrder"`
}

func (p *Product) AfterCreate(tx *gorm.DB) error {
	events.Emit("product.created", p)
	return nil
}

// AfterFind resolves the stored image path into a time-limited signed URL.
func (p *Product) AfterFind(tx *gorm.DB) error {
	if p.ImagePath == "" {
		return nil
	}
	registryMu.RLock()
	generator := urlGenerator
	registryMu.RUnlock()

	if generator != nil {
		url, err := generator.GetSignedURL(tx.Statement.Context, p.ImagePath, time.Hour)
		if err != nil {
			return fmt.Errorf("failed to generate signed URL: %w", err)
		}
		p.ImageURL = url
	}
	return nil
}
