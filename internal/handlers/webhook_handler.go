package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/orders"
	"github.com/hamzat06/esk-sub000/internal/payments"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// WebhookHandler receives asynchronous payment events. It is the only
// unauthenticated route that mutates state, which is why every delivery is
// verified against the shared webhook secret before anything is read out
// of the payload.
type WebhookHandler struct {
	orders        *orders.Service
	webhookSecret string
	log           *logger.Logger
}

func NewWebhookHandler(orderService *orders.Service, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		orders:        orderService,
		webhookSecret: cfg.Payment.WebhookSecret,
		log:           logger.New("WebhookHandler"),
	}
}

// HandlePaymentEvent reconciles provider events onto orders. Unknown event
// types and replays are acknowledged with 200 so the provider stops
// retrying; signature failures are a 400 and nothing is touched.
// @Summary Payment provider webhook
// @Description Receive signed payment events from the provider
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Event processed"
// @Failure 400 {object} map[string]string "Invalid signature or payload"
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentEvent(c echo.Context) error {
	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read request body"})
	}

	signature := c.Request().Header.Get(payments.SignatureHeader)

	event, err := payments.ParseEvent(rawBody, signature, h.webhookSecret)
	if err != nil {
		h.log.Warn("Rejected webhook delivery: %v", err)
		return err
	}

	orderID := event.Data.Metadata["order_id"]
	ctx := c.Request().Context()

	switch event.Type {
	case payments.EventSessionCompleted:
		order, err := h.resolveOrder(c, orderID, event.Data.SessionID)
		if err != nil {
			return err
		}
		if _, err := h.orders.MarkPaid(ctx, order.ID, event.Data.PaymentIntent); err != nil {
			return err
		}
		h.log.Success("Reconciled payment for order %s", order.OrderNumber)

	case payments.EventSessionExpired:
		order, err := h.resolveOrder(c, orderID, event.Data.SessionID)
		if err != nil {
			return err
		}
		if _, err := h.orders.MarkExpired(ctx, order.ID); err != nil {
			return err
		}
		h.log.Info("Expired checkout session for order %s", order.OrderNumber)

	default:
		h.log.Info("Ignoring webhook event type %s", event.Type)
	}

	return c.JSON(http.StatusOK, map[string]string{"received": "true"})
}

// resolveOrder prefers the order id the session was created with; deliveries
// missing metadata fall back to the session id correlation column. Only a
// confirmed miss is a 400; a storage failure propagates as 5xx so the
// provider retries the delivery.
func (h *WebhookHandler) resolveOrder(c echo.Context, orderID, sessionID string) (*models.Order, error) {
	ctx := c.Request().Context()
	if orderID != "" {
		order, err := h.orders.FindByID(ctx, orderID)
		if err == nil {
			return order, nil
		}
		if apperrors.KindOf(err) != apperrors.KindNotFound {
			return nil, err
		}
	}
	if sessionID != "" {
		order, err := h.orders.FindBySessionID(ctx, sessionID)
		if err == nil {
			return order, nil
		}
		if apperrors.KindOf(err) != apperrors.KindNotFound {
			return nil, err
		}
	}
	h.log.Warn("Webhook references unknown order (order_id=%q session=%q)", orderID, sessionID)
	return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown order reference")
}
