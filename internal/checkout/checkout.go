package checkout

import (
	"context"
	"fmt"
	"math"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/payments"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// OrderStore is the persistence surface checkout needs. The gorm-backed
// implementation lives in store.go; tests substitute their own.
type OrderStore interface {
	NextOrderNumber(ctx context.Context) (string, error)
	Insert(ctx context.Context, order *models.Order) error
	SetSessionID(ctx context.Context, orderID, sessionID string) error
}

// SettingsSource yields the delivery fee in effect at checkout time.
type SettingsSource interface {
	DeliveryFee(ctx context.Context) (float64, error)
}

// SessionCreator creates hosted payment sessions.
type SessionCreator interface {
	CreateSession(ctx context.Context, params payments.SessionParams) (*payments.Session, error)
}

// CartItem is one storefront cart line. TotalPrice arrives precomputed by
// the cart (base price plus option deltas, times quantity) and is what the
// customer saw; the server recomputes only the order-level aggregates.
type CartItem struct {
	ProductID  string            `json:"productId" validate:"required"`
	Title      string            `json:"title" validate:"required"`
	Quantity   int               `json:"quantity" validate:"required,min=1"`
	TotalPrice float64           `json:"totalPrice" validate:"required,gt=0"`
	Options    map[string]string `json:"options,omitempty"`
}

// Request is a checkout submission from an authenticated customer.
type Request struct {
	Items   []CartItem             `json:"items" validate:"required,min=1,dive"`
	Address models.DeliveryAddress `json:"deliveryAddress"`
	Notes   string                 `json:"notes"`
}

// Result carries what the storefront needs to redirect to the hosted page.
type Result struct {
	OrderID     string  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	SessionID   string  `json:"sessionId"`
	SessionURL  string  `json:"sessionUrl"`
	Total       float64 `json:"total"`
}

// Orchestrator turns a cart into a persisted pending_payment order plus a
// hosted checkout session, correlated by the provider's session id.
type Orchestrator struct {
	store    OrderStore
	settings SettingsSource
	sessions SessionCreator
	payment  config.PaymentConfig
	taxRate  float64
	log      *logger.Logger
}

func NewOrchestrator(store OrderStore, settings SettingsSource, sessions SessionCreator, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		store:    store,
		settings: settings,
		sessions: sessions,
		payment:  cfg.Payment,
		taxRate:  cfg.Shop.TaxRate,
		log:      logger.New("checkout"),
	}
}

// roundCents rounds to two decimal places, the resolution every stored money
// value keeps.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// minorUnits converts a dollar amount to integer cents for the provider.
func minorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

func validateRequest(req *Request) error {
	if len(req.Items) == 0 {
		return apperrors.InvalidInput("cart is empty")
	}
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return apperrors.InvalidInput(fmt.Sprintf("item %d has invalid quantity", i))
		}
		if item.TotalPrice <= 0 {
			return apperrors.InvalidInput(fmt.Sprintf("item %d has invalid price", i))
		}
	}

	missing := ""
	switch {
	case req.Address.Street == "":
		missing = "street"
	case req.Address.City == "":
		missing = "city"
	case req.Address.State == "":
		missing = "state"
	case req.Address.Zip == "":
		missing = "zip"
	}
	if missing != "" {
		return apperrors.InvalidInput("delivery address is missing " + missing)
	}
	return nil
}

// Submit runs the whole checkout flow. A storage failure after the order row
// exists but before the session id lands leaves an unpaid pending_payment
// order behind; the scheduler's stale-order job collects those.
func (o *Orchestrator) Submit(ctx context.Context, user *models.Profile, req *Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	deliveryFee, err := o.settings.DeliveryFee(ctx)
	if err != nil {
		return nil, apperrors.ExternalService("loading shop settings", err)
	}

	subtotal := 0.0
	for _, item := range req.Items {
		subtotal += item.TotalPrice
	}
	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * o.taxRate)
	total := roundCents(subtotal + deliveryFee + tax)

	orderNumber, err := o.store.NextOrderNumber(ctx)
	if err != nil {
		return nil, apperrors.ExternalService("generating order number", err)
	}

	items := make(models.OrderItems, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			ProductID:  item.ProductID,
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  roundCents(item.TotalPrice / float64(item.Quantity)),
			TotalPrice: roundCents(item.TotalPrice),
			Options:    item.Options,
		}
	}

	order := &models.Order{
		OrderNumber: orderNumber,
		UserID:      user.ID,
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       total,
		Street:      req.Address.Street,
		City:        req.Address.City,
		State:       req.Address.State,
		Zip:         req.Address.Zip,
		Phone:       req.Address.Phone,
		Status:      models.StatusPendingPayment,
		Notes:       req.Notes,
	}

	if err := o.store.Insert(ctx, order); err != nil {
		return nil, apperrors.ExternalService("persisting order", err)
	}

	lineItems := make([]payments.LineItem, 0, len(req.Items)+2)
	for _, item := range items {
		lineItems = append(lineItems, payments.LineItem{
			Name:       item.Title,
			UnitAmount: minorUnits(item.UnitPrice),
			Quantity:   int64(item.Quantity),
		})
	}
	lineItems = append(lineItems,
		payments.LineItem{Name: "Delivery fee", UnitAmount: minorUnits(deliveryFee), Quantity: 1},
		payments.LineItem{Name: "Tax", UnitAmount: minorUnits(tax), Quantity: 1},
	)

	session, err := o.sessions.CreateSession(ctx, payments.SessionParams{
		LineItems:     lineItems,
		SuccessURL:    o.payment.SuccessURL,
		CancelURL:     o.payment.CancelURL,
		CustomerEmail: user.Email,
		Metadata: map[string]string{
			"order_id": order.ID,
			"user_id":  user.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := o.store.SetSessionID(ctx, order.ID, session.ID); err != nil {
		return nil, apperrors.ExternalService("recording checkout session", err)
	}

	o.log.Success("Order %s checked out, session %s, total %.2f", orderNumber, session.ID, total)

	return &Result{
		OrderID:     order.ID,
		OrderNumber: orderNumber,
		SessionID:   session.ID,
		SessionURL:  session.URL,
		Total:       total,
	}, nil
}
