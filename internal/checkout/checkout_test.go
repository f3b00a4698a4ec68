package checkout

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/payments"
)

type fakeStore struct {
	inserted  *models.Order
	sessionID string
	insertErr error
}

func (s *fakeStore) NextOrderNumber(ctx context.Context) (string, error) {
	return "CHN-20260831-001042", nil
}

func (s *fakeStore) Insert(ctx context.Context, order *models.Order) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	order.ID = "order-1"
	s.inserted = order
	return nil
}

func (s *fakeStore) SetSessionID(ctx context.Context, orderID, sessionID string) error {
	s.sessionID = sessionID
	return nil
}

type fakeSettings struct {
	fee float64
}

func (s fakeSettings) DeliveryFee(ctx context.Context) (float64, error) {
	return s.fee, nil
}

type fakeSessions struct {
	params  payments.SessionParams
	failure error
}

func (s *fakeSessions) CreateSession(ctx context.Context, params payments.SessionParams) (*payments.Session, error) {
	if s.failure != nil {
		return nil, s.failure
	}
	s.params = params
	return &payments.Session{ID: "cs_test_123", URL: "https://pay.example.com/cs_test_123"}, nil
}

func testConfig() *config.Config {
	return config.LoadTestConfig()
}

func testProfile() *models.Profile {
	p := &models.Profile{Email: "ada@example.com"}
	p.ID = "user-1"
	return p
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubmitComputesTotals(t *testing.T) {
	store := &fakeStore{}
	sessions := &fakeSessions{}
	o := NewOrchestrator(store, fakeSettings{fee: 2.99}, sessions, testConfig())

	req := &Request{
		Items: []CartItem{
			{ProductID: "p1", Title: "Jollof Rice", Quantity: 1, TotalPrice: 18.99},
		},
		Address: models.DeliveryAddress{Street: "1 Main St", City: "Lagos", State: "LA", Zip: "10001"},
	}

	result, err := o.Submit(context.Background(), testProfile(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	order := store.inserted
	if order == nil {
		t.Fatal("order was never persisted")
	}
	if !almostEqual(order.Subtotal, 18.99) {
		t.Fatalf("subtotal = %v, want 18.99", order.Subtotal)
	}
	if !almostEqual(order.Tax, 1.52) {
		t.Fatalf("tax = %v, want 1.52", order.Tax)
	}
	if !almostEqual(order.Total, 23.50) {
		t.Fatalf("total = %v, want 23.50", order.Total)
	}
	if order.Status != models.StatusPendingPayment {
		t.Fatalf("new orders start in pending_payment, got %s", order.Status)
	}
	if !almostEqual(result.Total, 23.50) {
		t.Fatalf("result total = %v, want 23.50", result.Total)
	}
	if result.OrderNumber != "CHN-20260831-001042" {
		t.Fatalf("unexpected order number %s", result.OrderNumber)
	}
}

func TestSubmitCorrelatesSession(t *testing.T) {
	store := &fakeStore{}
	sessions := &fakeSessions{}
	o := NewOrchestrator(store, fakeSettings{fee: 2.99}, sessions, testConfig())

	req := &Request{
		Items: []CartItem{
			{ProductID: "p1", Title: "Suya Skewers", Quantity: 2, TotalPrice: 24.00},
		},
		Address: models.DeliveryAddress{Street: "1 Main St", City: "Lagos", State: "LA", Zip: "10001"},
	}

	result, err := o.Submit(context.Background(), testProfile(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if sessions.params.Metadata["order_id"] != "order-1" {
		t.Fatalf("session metadata missing order id: %v", sessions.params.Metadata)
	}
	if sessions.params.Metadata["user_id"] != "user-1" {
		t.Fatalf("session metadata missing user id: %v", sessions.params.Metadata)
	}
	if sessions.params.CustomerEmail != "ada@example.com" {
		t.Fatalf("session email = %s", sessions.params.CustomerEmail)
	}
	if store.sessionID != "cs_test_123" {
		t.Fatalf("session id was not recorded on the order, got %q", store.sessionID)
	}
	if result.SessionURL == "" {
		t.Fatal("result must carry the hosted page URL")
	}

	// Line items: one per cart line, plus delivery fee and tax rows, all in
	// minor units.
	if len(sessions.params.LineItems) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(sessions.params.LineItems))
	}
	if sessions.params.LineItems[0].UnitAmount != 1200 {
		t.Fatalf("unit amount = %d cents, want 1200", sessions.params.LineItems[0].UnitAmount)
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	o := NewOrchestrator(&fakeStore{}, fakeSettings{fee: 2.99}, &fakeSessions{}, testConfig())

	_, err := o.Submit(context.Background(), testProfile(), &Request{
		Address: models.DeliveryAddress{Street: "1 Main St", City: "Lagos", State: "LA", Zip: "10001"},
	})
	if apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "cart is empty") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestSubmitNamesMissingAddressField(t *testing.T) {
	o := NewOrchestrator(&fakeStore{}, fakeSettings{fee: 2.99}, &fakeSessions{}, testConfig())

	cases := []struct {
		address models.DeliveryAddress
		field   string
	}{
		{models.DeliveryAddress{City: "Lagos", State: "LA", Zip: "10001"}, "street"},
		{models.DeliveryAddress{Street: "1 Main St", State: "LA", Zip: "10001"}, "city"},
		{models.DeliveryAddress{Street: "1 Main St", City: "Lagos", Zip: "10001"}, "state"},
		{models.DeliveryAddress{Street: "1 Main St", City: "Lagos", State: "LA"}, "zip"},
	}

	for _, c := range cases {
		_, err := o.Submit(context.Background(), testProfile(), &Request{
			Items:   []CartItem{{ProductID: "p1", Title: "Jollof Rice", Quantity: 1, TotalPrice: 18.99}},
			Address: c.address,
		})
		if err == nil {
			t.Fatalf("expected missing %s to fail", c.field)
		}
		if !strings.Contains(err.Error(), c.field) {
			t.Fatalf("error should name the missing field %q, got: %v", c.field, err)
		}
	}
}

func TestSubmitSessionFailureLeavesOrderBehind(t *testing.T) {
	store := &fakeStore{}
	sessions := &fakeSessions{failure: apperrors.ExternalService("payment provider returned 500", nil)}
	o := NewOrchestrator(store, fakeSettings{fee: 2.99}, sessions, testConfig())

	_, err := o.Submit(context.Background(), testProfile(), &Request{
		Items:   []CartItem{{ProductID: "p1", Title: "Jollof Rice", Quantity: 1, TotalPrice: 18.99}},
		Address: models.DeliveryAddress{Street: "1 Main St", City: "Lagos", State: "LA", Zip: "10001"},
	})
	if apperrors.KindOf(err) != apperrors.KindExternalService {
		t.Fatalf("expected external service error, got %v", err)
	}

	// The pending_payment row stays for the stale-order sweep; it is not
	// rolled back.
	if store.inserted == nil {
		t.Fatal("order should have been persisted before the session attempt")
	}
	if store.sessionID != "" {
		t.Fatalf("no session id should be recorded on failure, got %q", store.sessionID)
	}
}

func TestRoundCents(t *testing.T) {
	if v := roundCents(1.519200000001); !almostEqual(v, 1.52) {
		t.Fatalf("roundCents = %v, want 1.52", v)
	}
	if v := minorUnits(23.50); v != 2350 {
		t.Fatalf("minorUnits = %d, want 2350", v)
	}
}
