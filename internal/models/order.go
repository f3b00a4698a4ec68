package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

func IsValidOrderStatus(status OrderStatus) bool {
	switch status {
	case StatusPendingPayment, StatusPending, StatusConfirmed,
		StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem is a snapshot of a cart line at checkout time. Later catalog
// edits must not change what the customer sees on a placed order, so the
// product title, prices and chosen options are all copied.
type OrderItem struct {
	ProductID  string            `json:"productId"`
	Title      string            `json:"title"`
	Quantity   int               `json:"quantity"`
	UnitPrice  float64           `json:"unitPrice"`
	TotalPrice float64           `json:"totalPrice"`
	Options    map[string]string `json:"options,omitempty"`
}

// OrderItems stores the line-item snapshot as a single JSONB column.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (items *OrderItems) Scan(src interface{}) error {
	if src == nil {
		*items = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported order items column type %T", src)
	}
	return json.Unmarshal(data, items)
}

// DeliveryAddress is embedded into the orders table as a snapshot, never a
// live reference to the profile's default address.
type DeliveryAddress struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required"`
	Zip    string `json:"zip" validate:"required"`
	Phone  string `json:"phone"`
}

type Order struct {
	Base
	OrderNumber string     `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID      string     `gorm:"type:uuid;not null;index" json:"userId"`
	User        *Profile   `json:"user,omitempty"`
	Items       OrderItems `gorm:"type:jsonb;not null" json:"items"`

	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	DeliveryFee float64 `gorm:"not null" json:"deliveryFee"`
	Tax         float64 `gorm:"not null" json:"tax"`
	Total       float64 `gorm:"not null" json:"total"`

	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
	Phone  string `json:"phone"`

	Status OrderStatus `gorm:"not null;default:'pending_payment';index" json:"status" validate:"omitempty,order_status"`
	Notes  string      `json:"notes,omitempty"`

	// Hosted-checkout correlation. CheckoutSessionID ties the order to the
	// provider session; PaymentIntentID records the confirmed payment.
	CheckoutSessionID string `gorm:"index;default:NULL" json:"checkoutSessionId,omitempty"`
	PaymentIntentID   string `gorm:"default:NULL" json:"paymentIntentId,omitempty"`
}

// Address returns the snapshot stored on the order.
func (o *Order) Address() DeliveryAddress {
	return DeliveryAddress{
		Street: o.Street,
		City:   o.City,
		State:  o.State,
		Zip:    o.Zip,
		Phone:  o.Phone,
	}
}

// OrderStatusChange is one audit row per transition, including the ones the
// payment webhook applies (actor is empty for those).
type OrderStatusChange struct {
	Base
	OrderID    string      `gorm:"type:uuid;not null;index" json:"orderId"`
	FromStatus OrderStatus `gorm:"not null" json:"fromStatus"`
	ToStatus   OrderStatus `gorm:"not null" json:"toStatus"`
	ActorID    string      `gorm:"index" json:"actorId,omitempty"`
	Note       string      `json:"note,omitempty"`
	ChangedAt  time.Time   `json:"changedAt"`
}
