package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/db"
	"github.com/hamzat06/esk-sub000/internal/events"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// Event names emitted by the order lifecycle.
const (
	EventStatusChanged = "order.status_changed"
	EventPaid          = "order.paid"
)

// StatusChangedEvent is the payload for EventStatusChanged and EventPaid.
type StatusChangedEvent struct {
	Order      *models.Order
	FromStatus models.OrderStatus
	ToStatus   models.OrderStatus
	ActorID    string
}

// Service owns order reads and every status mutation. Checkout creates
// orders through its own store; everything after creation runs through here
// so the transition table and audit trail cannot be bypassed.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(gdb *gorm.DB) *Service {
	return &Service{db: gdb, log: logger.New("orders")}
}

// NewOrderNumber builds a human-readable unique order number from the
// database sequence, e.g. CHN-20260831-001042.
func NewOrderNumber(gdb *gorm.DB) (string, error) {
	n, err := db.NextOrderNumberSeq(gdb)
	if err != nil {
		return "", fmt.Errorf("order number sequence: %w", err)
	}
	return fmt.Sprintf("CHN-%s-%06d", time.Now().UTC().Format("20060102"), n), nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (s *Service) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "checkout_session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found for checkout session")
		}
		return nil, err
	}
	return &order, nil
}

// FindByUser lists a customer's own orders, newest first.
func (s *Service) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// FindByNumberForUser resolves a tracking lookup. Customers may only track
// their own orders; an order number belonging to someone else reads as not
// found rather than forbidden, so numbers cannot be probed.
func (s *Service) FindByNumberForUser(ctx context.Context, orderNumber, userID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		First(&order, "order_number = ? AND user_id = ?", orderNumber, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, err
	}
	return &order, nil
}

// List returns orders for the back office, optionally filtered by status.
func (s *Service) List(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var out []models.Order
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&out).Error
	return out, total, err
}

// History returns the audit trail for one order, oldest first.
func (s *Service) History(ctx context.Context, orderID string) ([]models.OrderStatusChange, error) {
	var out []models.OrderStatusChange
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC").
		Find(&out).Error
	return out, err
}

// UpdateStatus applies an admin-driven transition. Illegal moves, including
// any move out of a terminal status, are rejected with the list of statuses
// that would have been accepted. On success an audit row is written and the
// customer notification event fires; notification failure never surfaces.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to models.OrderStatus, actorID, note string) (*models.Order, error) {
	if !models.IsValidOrderStatus(to) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unrecognized order status %q", to))
	}

	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !CanTransition(from, to) {
		return nil, apperrors.InvalidInput(TransitionError(from, to).Error())
	}

	if err := s.applyTransition(ctx, order, to, actorID, note); err != nil {
		return nil, err
	}

	events.Emit(EventStatusChanged, &StatusChangedEvent{
		Order:      order,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
	})

	return order, nil
}

// MarkPaid reconciles a completed checkout session onto the order. Replayed
// deliveries are no-ops: once the order has left pending_payment the event
// changes nothing and sends no second email.
func (s *Service) MarkPaid(ctx context.Context, orderID, paymentIntentID string) (*models.Order, error) {
	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.StatusPendingPayment {
		s.log.Info("Order %s already reconciled (status %s), skipping", order.OrderNumber, order.Status)
		return order, nil
	}

	order.PaymentIntentID = paymentIntentID
	if err := s.db.WithContext(ctx).Model(order).
		Updates(map[string]interface{}{
			"status":            models.StatusPending,
			"payment_intent_id": paymentIntentID,
		}).Error; err != nil {
		return nil, err
	}
	order.Status = models.StatusPending

	if err := s.recordChange(ctx, order.ID, models.StatusPendingPayment, models.StatusPending, "", "payment confirmed"); err != nil {
		s.log.Warn("Failed to record status change for %s: %v", order.OrderNumber, err)
	}

	events.Emit(EventPaid, &StatusChangedEvent{
		Order:      order,
		FromStatus: models.StatusPendingPayment,
		ToStatus:   models.StatusPending,
	})

	return order, nil
}

// MarkExpired cancels an order whose checkout session lapsed unpaid.
// Idempotent in the same way MarkPaid is.
func (s *Service) MarkExpired(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.StatusPendingPayment {
		s.log.Info("Order %s already reconciled (status %s), skipping expiry", order.OrderNumber, order.Status)
		return order, nil
	}

	if err := s.applyTransition(ctx, order, models.StatusCancelled, "", "checkout session expired"); err != nil {
		return nil, err
	}

	return order, nil
}

// ExpireStale cancels pending_payment orders older than ttl. Run from the
// scheduler; the checkout flow deliberately leaves unpaid orders behind when
// session creation fails, and this is their garbage collector.
func (s *Service) ExpireStale(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	var stale []models.Order
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.StatusPendingPayment, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		if err := s.applyTransition(ctx, &stale[i], models.StatusCancelled, "", "expired unpaid"); err != nil {
			s.log.Warn("Failed to expire order %s: %v", stale[i].OrderNumber, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *Service) applyTransition(ctx context.Context, order *models.Order, to models.OrderStatus, actorID, note string) error {
	from := order.Status
	if err := s.db.WithContext(ctx).Model(order).Update("status", to).Error; err != nil {
		return err
	}
	order.Status = to

	if err := s.recordChange(ctx, order.ID, from, to, actorID, note); err != nil {
		s.log.Warn("Failed to record status change for %s: %v", order.OrderNumber, err)
	}
	return nil
}

func (s *Service) recordChange(ctx context.Context, orderID string, from, to models.OrderStatus, actorID, note string) error {
	change := models.OrderStatusChange{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Note:       note,
		ChangedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).Create(&change).Error
}
