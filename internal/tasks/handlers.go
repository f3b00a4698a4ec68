package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/notify"
	"github.com/hamzat06/esk-sub000/internal/orders"
	"github.com/hamzat06/esk-sub000/internal/tasks/rate"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// TaskHandler processes queued work: customer email and the stale-order
// sweep. Returning an error from a handler makes asynq retry with backoff,
// so transient relay failures retry and a missing order row does not.
type TaskHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	mailer  *notify.Mailer
	orders  *orders.Service
	limiter *rate.EmailRateLimiter
	logger  *logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, cfg *config.Config, client *TaskClient) *TaskHandler {
	return &TaskHandler{
		db:     db,
		cfg:    cfg,
		mailer: notify.NewMailer(cfg.SMTP),
		orders: orders.NewService(db),
		limiter: rate.NewEmailRateLimiter(client.RedisClient(), rate.Limit{
			Window:  time.Minute,
			MaxJobs: 30,
		}),
		logger: logger.New("task_handler"),
	}
}

// HandleOrderConfirmationEmail sends the receipt after payment reconciles.
func (h *TaskHandler) HandleOrderConfirmationEmail(ctx context.Context, t *asynq.Task) error {
	var payload OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad payload: %w: %w", err, asynq.SkipRetry)
	}

	order, profile, err := h.loadOrderWithProfile(ctx, payload.OrderID)
	if err != nil {
		return err
	}

	if ok, err := h.limiter.Allow(ctx, profile.Email); err != nil {
		h.logger.Warn("Rate limiter unavailable, sending anyway: %v", err)
	} else if !ok {
		return fmt.Errorf("email rate limit hit for %s, retrying later", profile.Email)
	}

	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	return h.mailer.Send(profile.Email, subject, notify.OrderConfirmationBody(order))
}

// HandleStatusUpdateEmail sends the per-transition note.
func (h *TaskHandler) HandleStatusUpdateEmail(ctx context.Context, t *asynq.Task) error {
	var payload OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad payload: %w: %w", err, asynq.SkipRetry)
	}

	order, profile, err := h.loadOrderWithProfile(ctx, payload.OrderID)
	if err != nil {
		return err
	}

	status := models.OrderStatus(payload.Status)
	if status == models.StatusPendingPayment || status == models.StatusPending {
		// The confirmation email covers entering pending; nothing to say here.
		return nil
	}

	if ok, err := h.limiter.Allow(ctx, profile.Email); err != nil {
		h.logger.Warn("Rate limiter unavailable, sending anyway: %v", err)
	} else if !ok {
		return fmt.Errorf("email rate limit hit for %s, retrying later", profile.Email)
	}

	subject := fmt.Sprintf("Order %s update", order.OrderNumber)
	return h.mailer.Send(profile.Email, subject, notify.StatusUpdateBody(order, status))
}

// HandleCateringReceivedEmail acknowledges a new catering inquiry.
func (h *TaskHandler) HandleCateringReceivedEmail(ctx context.Context, t *asynq.Task) error {
	var payload CateringEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad payload: %w: %w", err, asynq.SkipRetry)
	}

	var booking models.CateringBooking
	if err := h.db.WithContext(ctx).First(&booking, "id = ?", payload.BookingID).Error; err != nil {
		return fmt.Errorf("booking %s not found: %w", payload.BookingID, asynq.SkipRetry)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your catering request for %d guests on %s. "+
			"We will get back to you with a quote shortly.\n",
		booking.ContactName, booking.Headcount, booking.EventDate.Format("January 2, 2006"))
	return h.mailer.Send(booking.Email, "We received your catering request", body)
}

// HandleExpireStaleOrders cancels pending_payment orders past the TTL.
func (h *TaskHandler) HandleExpireStaleOrders(ctx context.Context, t *asynq.Task) error {
	ttl := time.Duration(h.cfg.Shop.StaleOrderTTLHours) * time.Hour
	expired, err := h.orders.ExpireStale(ctx, ttl)
	if err != nil {
		return err
	}
	if expired > 0 {
		h.logger.Info("Expired %d stale unpaid orders", expired)
	}
	return nil
}

func (h *TaskHandler) loadOrderWithProfile(ctx context.Context, orderID string) (*models.Order, *models.Profile, error) {
	order, err := h.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("order %s not found: %w", orderID, asynq.SkipRetry)
	}

	var profile models.Profile
	if err := h.db.WithContext(ctx).First(&profile, "id = ?", order.UserID).Error; err != nil {
		return nil, nil, fmt.Errorf("profile for order %s not found: %w", order.OrderNumber, asynq.SkipRetry)
	}
	return order, &profile, nil
}
