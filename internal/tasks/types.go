package tasks

import "time"

// Task Types
const (
	TaskTypeOrderConfirmationEmail = "email:order_confirmation"
	TaskTypeStatusUpdateEmail      = "email:status_update"
	TaskTypeCateringReceivedEmail  = "email:catering_received"
	TaskTypeExpireStaleOrders      = "orders:expire_stale"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks like email sending
	QueueDefault  = "default"  // For regular tasks
	QueueLow      = "low"      // For background tasks like cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
)

// OrderEmailPayload identifies the order a mail task is about. The order is
// re-read at processing time so the email always reflects current state.
type OrderEmailPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status,omitempty"`
}

// CateringEmailPayload identifies a catering booking acknowledgement.
type CateringEmailPayload struct {
	BookingID string `json:"booking_id"`
}
