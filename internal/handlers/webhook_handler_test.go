package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/orders"
	"github.com/hamzat06/esk-sub000/internal/payments"
	"github.com/hamzat06/esk-sub000/internal/utils/crypto"
)

func signedWebhookBody(t *testing.T, cfg *config.Config, body string) (string, string) {
	t.Helper()
	return body, crypto.ComputeSignature([]byte(body), cfg.Payment.WebhookSecret)
}

func completedEventBody(orderID, sessionID string) string {
	return fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"session_id": %q,
			"payment_intent": "pi_1",
			"metadata": {"order_id": %q}
		}
	}`, sessionID, orderID)
}

func TestWebhookStorageFailurePropagates(t *testing.T) {
	gdb, mock := newMockDB(t)
	cfg := config.LoadTestConfig()
	h := NewWebhookHandler(orders.NewService(gdb), cfg)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WillReturnError(sql.ErrConnDone)

	body, sig := signedWebhookBody(t, cfg, completedEventBody("order-1", "cs_1"))
	c, _ := newJSONContext(t, http.MethodPost, "/api/v1/webhooks/payment", body)
	c.Request().Header.Set(payments.SignatureHeader, sig)

	err := h.HandlePaymentEvent(c)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("storage failure should propagate, got %v", err)
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusBadRequest {
		t.Fatal("a transient storage failure must not read as a 400: the provider would stop retrying")
	}
}

func TestWebhookUnknownOrderReferenceIs400(t *testing.T) {
	gdb, mock := newMockDB(t)
	cfg := config.LoadTestConfig()
	h := NewWebhookHandler(orders.NewService(gdb), cfg)

	empty := []string{"id", "order_number", "user_id", "status"}
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WillReturnRows(sqlmock.NewRows(empty))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE checkout_session_id = .+`).
		WillReturnRows(sqlmock.NewRows(empty))

	body, sig := signedWebhookBody(t, cfg, completedEventBody("order-missing", "cs_missing"))
	c, _ := newJSONContext(t, http.MethodPost, "/api/v1/webhooks/payment", body)
	c.Request().Header.Set(payments.SignatureHeader, sig)

	err := h.HandlePaymentEvent(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected a 400 for a confirmed miss, got %v", err)
	}
}
