package tasks

import (
	"github.com/hamzat06/esk-sub000/internal/events"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/orders"
)

// RegisterEventHandlers connects domain events to the task queue. The order
// service emits, handlers here enqueue; email failures stay in the worker
// and never reach the emitting request.
func RegisterEventHandlers(client *TaskClient) {
	events.On(orders.EventPaid, func(data interface{}) {
		if ev, ok := data.(*orders.StatusChangedEvent); ok {
			_ = client.EnqueueOrderConfirmation(ev.Order)
		}
	})

	events.On(orders.EventStatusChanged, func(data interface{}) {
		if ev, ok := data.(*orders.StatusChangedEvent); ok {
			_ = client.EnqueueStatusUpdate(ev.Order, ev.ToStatus)
		}
	})

	events.On("catering.requested", func(data interface{}) {
		if booking, ok := data.(*models.CateringBooking); ok {
			_ = client.EnqueueCateringAck(booking)
		}
	})
}
