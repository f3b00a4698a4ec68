package models

// ShopSettings is a single-row table the storefront and checkout read from.
// The delivery fee is sourced here at checkout time and snapshotted onto the
// order; changing it later never reprices placed orders.
type ShopSettings struct {
	Base
	ShopName     string  `gorm:"not null;default:'ChopNow'" json:"shopName"`
	DeliveryFee  float64 `gorm:"not null" json:"deliveryFee" validate:"gte=0"`
	MinOrder     float64 `gorm:"default:0" json:"minOrder" validate:"gte=0"`
	Open         bool    `gorm:"default:true" json:"open"`
	Announcement string  `json:"announcement"`
	SupportEmail string  `json:"supportEmail" validate:"omitempty,email"`
	SupportPhone string  `json:"supportPhone"`
}
